package cron

import (
	"context"
	"fmt"
)

// Job is one unit of scheduled work. Name labels logs and metrics and must be
// unique within a Registry.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs a cycle runs, in registration order.
type Registry struct {
	jobs  []Job
	names map[string]struct{}
}

// NewRegistry registers jobs in order, skipping nils. It panics on a
// duplicate name, which is a wiring bug.
func NewRegistry(jobs ...Job) *Registry {
	r := &Registry{names: map[string]struct{}{}}
	for _, job := range jobs {
		if err := r.Register(job); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) Register(job Job) error {
	if job == nil {
		return nil
	}
	if _, dup := r.names[job.Name()]; dup {
		return fmt.Errorf("cron job %q already registered", job.Name())
	}
	r.names[job.Name()] = struct{}{}
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *Registry) Jobs() []Job {
	return append([]Job(nil), r.jobs...)
}
