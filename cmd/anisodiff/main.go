// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/klauspost/cpuid"
	nl "github.com/mlnoga/anisodiff/internal"
	"github.com/mlnoga/anisodiff/internal/diffusion"
	"github.com/mlnoga/anisodiff/internal/ops"
	"github.com/mlnoga/anisodiff/internal/rest"
	"github.com/pbnjay/memory"
)

const version = "0.1.0"

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var memprofile = flag.String("memprofile", "", "write memory profile to `file`")
var log = flag.String("log", "", "save log output to `file` in addition to stdout")

var addr = flag.String("addr", ":8080", "listen on given `address` when serving")
var chroot = flag.String("chroot", "", "change filesystem root to given `directory` before serving, requires root")
var setuid = flag.Int("setuid", -1, "change user id to given value before serving, -1=keep")

var variant = flag.String("variant", "rational", "default edge-stopping function, one of rational or exponential")
var delta = flag.Float64("delta", diffusion.DefaultDelta, "default integration constant per diffusion step, 0.25 or less for stability")
var kappa = flag.Float64("kappa", diffusion.DefaultKappa, "default gradient magnitude around which diffusion is suppressed, must not be 0")
var dd = flag.Float64("dd", 0, "default neighbor distance, accepted for compatibility and ignored")
var threads = flag.Int("threads", 0, "maximum number of goroutines per diffusion step, 0=auto")

func main() {
	logWriter := nl.LogWriter()
	flag.Usage = func() {
		fmt.Fprintf(logWriter, `Anisodiff Copyright (c) 2020 Markus L. Noga
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it under certain conditions.
Refer to https://www.gnu.org/licenses/gpl-3.0.en.html for details.

Usage: %s [-flag value] (serve|kernels|version|legal|help)

Commands:
  serve   Serve the diffusion REST API
  kernels Show the directional difference kernels
  version Show version and system information
  legal   Show license and attribution information
  help    Show this help

Flags:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Initialize logging to file in addition to stdout, if selected
	if *log != "" {
		if err := nl.LogAlsoToFile(*log); err != nil {
			nl.LogFatalf("Unable to open logfile '%s': %s\n", *log, err.Error())
		}
	}

	// Enable CPU profiling if flagged
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			nl.LogFatal("Could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			nl.LogFatal("Could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		return
	}

	var err error
	switch args[0] {
	case "serve":
		err = cmdServe()

	case "kernels":
		cmdKernels()

	case "legal":
		cmdLegal()

	case "version":
		cmdVersion()

	case "help", "?":
		flag.Usage()

	default:
		fmt.Fprintf(logWriter, "Unknown command '%s'\n\n", args[0])
		flag.Usage()
		return
	}

	// Store memory profile if flagged
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			nl.LogFatal("Could not create memory profile: ", err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			nl.LogFatal("Could not write allocation profile: ", err)
		}
	}

	if err != nil {
		nl.LogFatalf("Error: %s\n", err.Error())
	}
	nl.LogClose()
}

// Builds the default diffusion parameters from the command line flags
func paramsFromFlags() (diffusion.Params, error) {
	v, err := diffusion.ParseVariant(*variant)
	if err != nil {
		return diffusion.Params{}, err
	}
	p := diffusion.Params{Variant: v, Delta: *delta, Kappa: *kappa, DD: *dd, MaxThreads: *threads}
	return p, p.Validate()
}

// Serves the REST API until the listener fails
func cmdServe() error {
	p, err := paramsFromFlags()
	if err != nil {
		return err
	}
	c := ops.NewContext(nl.LogWriter(), p)
	if err := rest.MakeSandbox(*chroot, *setuid, c.Log); err != nil {
		return err
	}
	return rest.Serve(*addr, c)
}

// Prints the kernel bank, one direction per line
func cmdKernels() {
	for i, k := range diffusion.GenerateKernels() {
		nl.LogPrintf("%-2s %v\n", diffusion.Direction(i), k)
	}
}

func cmdVersion() {
	nl.LogPrintf("Version %s\n", version)
	nl.LogPrintf("CPU %s with %d physical and %d logical cores\n",
		cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores)
	nl.LogPrintf("Memory %d MiB, %d MiB usable per step\n",
		memory.TotalMemory()/1024/1024, memory.TotalMemory()/1024/1024*7/10)
}

func cmdLegal() {
	nl.LogPrintf("%s\n", legal)
}
