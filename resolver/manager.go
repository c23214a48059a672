package resolver

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/packsmith/packsmith/core"
)

// ResolveFunc resolves one dependency spec to a project.
type ResolveFunc func(ctx context.Context, spec core.DependencySpec) (core.ResolvedProject, error)

// JobResult is one slot of a batch result, aligned to the input order. A
// failed job carries its error here instead of failing the batch.
type JobResult struct {
	Spec    core.DependencySpec
	Project core.ResolvedProject
	Err     error
}

// Manager fans a batch of independent resolution jobs out under the
// concurrency bound computed from host resources.
type Manager struct {
	jobs int
	sem  *semaphore.Weighted
}

// NewManager derives the parallelism bound from the given resource snapshot.
// maxJobs > 0 caps the computed optimum.
func NewManager(res SystemResources, maxJobs int) (*Manager, error) {
	jobs, err := res.OptimalJobs(maxJobs)
	if err != nil {
		return nil, err
	}
	return &Manager{
		jobs: jobs,
		sem:  semaphore.NewWeighted(int64(jobs)),
	}, nil
}

// Jobs reports the concurrency bound.
func (m *Manager) Jobs() int {
	return m.jobs
}

// ResolveAll runs one job per spec. Every job acquires a concurrency slot
// before executing and releases it when done, success or failure. Results
// come back aligned to the input order regardless of completion order; a
// job's failure lands in its own slot and never cancels siblings. Only a
// scheduling failure (slot acquisition broken by context cancellation) fails
// the whole batch.
func (m *Manager) ResolveAll(ctx context.Context, specs []core.DependencySpec, resolve ResolveFunc) ([]JobResult, error) {
	if len(specs) == 0 {
		return nil, core.ErrNoModsProvided
	}

	results := make([]JobResult, len(specs))

	var wg sync.WaitGroup
	var schedulingErr error
	var schedulingOnce sync.Once

	for i, spec := range specs {
		wg.Add(1)
		go func(i int, spec core.DependencySpec) {
			defer wg.Done()
			results[i].Spec = spec

			if err := m.sem.Acquire(ctx, 1); err != nil {
				schedulingOnce.Do(func() { schedulingErr = err })
				results[i].Err = err
				return
			}
			defer m.sem.Release(1)

			results[i].Project, results[i].Err = resolve(ctx, spec)
		}(i, spec)
	}
	wg.Wait()

	if schedulingErr != nil {
		return nil, schedulingErr
	}
	return results, nil
}
