package resolver

import (
	"math"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/packsmith/packsmith/core"
)

// minMemoryPressure floors the pressure term so the job formula never
// divides by zero on an idle machine.
const minMemoryPressure = 0.01

// SystemResources is a snapshot of host capacity, taken once at process
// start and passed explicitly into NewManager. Jobs in one run share the
// concurrency bound derived from it.
type SystemResources struct {
	CPUCores        int
	TotalMemory     uint64
	AvailableMemory uint64
}

// DetectSystemResources probes the host. Probe failures fall back to
// runtime.NumCPU and zero memory readings, which the pressure floor turns
// into the most optimistic bound.
func DetectSystemResources() SystemResources {
	res := SystemResources{CPUCores: runtime.NumCPU()}

	if cores, err := cpu.Counts(true); err == nil && cores > 0 {
		res.CPUCores = cores
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		res.TotalMemory = vm.Total
		res.AvailableMemory = vm.Available
	}
	return res
}

// MemoryPressure is 1 - available/total, floored at 0.01.
func (r SystemResources) MemoryPressure() float64 {
	if r.TotalMemory == 0 {
		return minMemoryPressure
	}
	pressure := 1.0 - float64(r.AvailableMemory)/float64(r.TotalMemory)
	if pressure < minMemoryPressure {
		return minMemoryPressure
	}
	return pressure
}

// OptimalJobs computes the parallel resolution bound: CPU cores scaled down
// under memory pressure, divided by the pressure itself, clamped to
// [1, cores] and then to the user-supplied maximum when maxJobs > 0.
func (r SystemResources) OptimalJobs(maxJobs int) (int, error) {
	pressure := r.MemoryPressure()

	scale := 1.0
	switch {
	case pressure > 0.7:
		scale = 0.5
	case pressure > 0.4:
		scale = 0.75
	}

	cores := r.CPUCores
	if cores < 1 {
		cores = 1
	}

	jobs := int(math.Round(1 + (float64(cores)*scale)/pressure))
	if jobs > cores {
		jobs = cores
	}
	if jobs < 1 {
		jobs = 1
	}
	if maxJobs > 0 && jobs > maxJobs {
		jobs = maxJobs
	}
	if jobs == 0 {
		return 0, core.ErrInvalidJobCount
	}
	return jobs, nil
}
