package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resourcesAtPressure(cores int, pressure float64) SystemResources {
	const total = 16 << 30
	return SystemResources{
		CPUCores:        cores,
		TotalMemory:     total,
		AvailableMemory: uint64((1.0 - pressure) * total),
	}
}

func TestMemoryPressure(t *testing.T) {
	tests := []struct {
		name string
		res  SystemResources
		want float64
	}{
		{name: "half used", res: resourcesAtPressure(4, 0.5), want: 0.5},
		{name: "idle machine floors at 0.01", res: resourcesAtPressure(4, 0.0), want: 0.01},
		{name: "unknown totals floor at 0.01", res: SystemResources{CPUCores: 4}, want: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.res.MemoryPressure(), 0.001)
		})
	}
}

func TestOptimalJobsWithinCoreBounds(t *testing.T) {
	jobs, err := resourcesAtPressure(8, 0.3).OptimalJobs(0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, jobs, 1)
	assert.LessOrEqual(t, jobs, 8)
}

func TestOptimalJobsUserCap(t *testing.T) {
	jobs, err := resourcesAtPressure(8, 0.3).OptimalJobs(4)
	require.NoError(t, err)
	assert.Equal(t, 4, jobs)
}

func TestOptimalJobsScalesUnderPressure(t *testing.T) {
	low, err := resourcesAtPressure(8, 0.2).OptimalJobs(0)
	require.NoError(t, err)
	high, err := resourcesAtPressure(8, 0.9).OptimalJobs(0)
	require.NoError(t, err)

	assert.LessOrEqual(t, high, low, "heavier memory pressure must not raise the bound")
	assert.GreaterOrEqual(t, high, 1)
}

func TestOptimalJobsSingleCore(t *testing.T) {
	jobs, err := resourcesAtPressure(1, 0.95).OptimalJobs(0)
	require.NoError(t, err)
	assert.Equal(t, 1, jobs)
}

func TestDetectSystemResources(t *testing.T) {
	res := DetectSystemResources()
	assert.GreaterOrEqual(t, res.CPUCores, 1)
}
