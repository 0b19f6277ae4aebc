// Package fileutils holds small OS-facing helpers shared by the CLI
// and the worker pool: the kind of environment-probing code that
// doesn't belong in the algorithmic core.
package fileutils

import (
	"os"
	"regexp"
	"runtime"
)

var physicalIDRe = regexp.MustCompile(`physical id\s*:\s*(\d+)`)

// PhysicalCPUCount returns the number of physical CPUs on Linux,
// Darwin and FreeBSD by parsing /proc/cpuinfo's "physical id" field,
// falling back to runtime.NumCPU() (logical CPUs) wherever that isn't
// available. Used to size the extent-discovery worker pool: discovery
// is I/O-bound per file but hashing and byte-verification are CPU
// work, so oversubscribing logical cores buys little.
func PhysicalCPUCount() int {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" && runtime.GOOS != "freebsd" {
		return runtime.NumCPU()
	}

	data, err := os.ReadFile("/proc/cpuinfo")
	if err != nil {
		return runtime.NumCPU()
	}

	ids := make(map[string]struct{})
	for _, m := range physicalIDRe.FindAllStringSubmatch(string(data), -1) {
		ids[m[1]] = struct{}{}
	}
	if len(ids) == 0 {
		return runtime.NumCPU()
	}
	return len(ids)
}
