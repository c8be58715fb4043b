package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
)

const defaultInterval = 15 * time.Minute

type jobMetrics interface {
	ObserveRun(job string, elapsed time.Duration, err error)
	ObserveLockSkip()
}

// ServiceParams configure the cron service. Registry and Metrics are
// optional.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  jobMetrics
	Interval time.Duration
}

// Service runs the registered jobs on a fixed tick. Only the replica that
// holds Lock does any work in a given cycle.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  jobMetrics
	interval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	var err error
	if params.Logger == nil {
		err = multierr.Append(err, errors.New("logger required"))
	}
	if params.Lock == nil {
		err = multierr.Append(err, errors.New("lock required"))
	}
	if err != nil {
		return nil, fmt.Errorf("cron service: %w", err)
	}

	svc := &Service{
		logg:     params.Logger,
		registry: params.Registry,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: params.Interval,
	}
	if svc.registry == nil {
		svc.registry = NewRegistry()
	}
	if svc.interval <= 0 {
		svc.interval = defaultInterval
	}
	return svc, nil
}

// Run does one cycle right away, then one per interval until ctx is done.
// Cycle failures are logged and never stop the loop.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.runCycle(ctx); err != nil {
			s.logg.Error(ctx, "cron cycle finished with errors", err)
		}
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "cron service stopping")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// runCycle returns every job error of the cycle combined.
func (s *Service) runCycle(ctx context.Context) error {
	acquired, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire cron lock: %w", err)
	}
	if !acquired {
		s.logg.Debug(ctx, "cron lock held by another replica")
		if s.metrics != nil {
			s.metrics.ObserveLockSkip()
		}
		return nil
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", relErr.Error()), "cron lock release failed")
		}
	}()

	var errs error
	for _, job := range s.registry.Jobs() {
		errs = multierr.Append(errs, s.runJob(ctx, job))
	}
	return errs
}

// runJob gives a job at most one interval, the same span the lock is held
// for, and turns a panic into an ordinary failure.
func (s *Service) runJob(ctx context.Context, job Job) (err error) {
	name := job.Name()
	jobCtx, cancel := context.WithTimeout(s.logg.WithField(ctx, "job", name), s.interval)
	defer cancel()

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
		if err != nil {
			err = fmt.Errorf("%s: %w", name, err)
		}
		elapsed := time.Since(start)
		if s.metrics != nil {
			s.metrics.ObserveRun(name, elapsed, err)
		}
		logCtx := s.logg.WithField(jobCtx, "duration_ms", elapsed.Milliseconds())
		if err != nil {
			s.logg.Error(logCtx, "cron job failed", err)
			return
		}
		s.logg.Info(logCtx, "cron job completed")
	}()

	return job.Run(jobCtx)
}
