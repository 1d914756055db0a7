// Package batch renders many payloads concurrently through one report
// service.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/services/report"
)

type Renderer interface {
	Render(ctx context.Context, payload []byte, rc domain.RenderContext, format string) (report.Artifact, error)
}

// Sink receives each successful render, for example to write or publish it.
// It may be called from several goroutines at once.
type Sink func(ctx context.Context, job Job, art report.Artifact) (string, error)

type Job struct {
	Name    string
	Payload []byte
	Context domain.RenderContext
}

type Result struct {
	Job      string
	Format   string
	Location string
	Fallback bool
	Err      error
}

type RunnerConfig struct {
	Format  string
	Workers int
	// FailFast cancels outstanding jobs after the first failure.
	FailFast bool
}

type RunnerProgress struct {
	Processed int
	Failed    int
	Total     int
	LastJob   string
}

var ErrAlreadyRun = errors.New("batch runner already ran")

// Runner is single use: it renders the jobs it was built with once.
type Runner struct {
	renderer Renderer
	sink     Sink
	config   RunnerConfig
	jobs     []Job
	ran      atomic.Bool
	done     chan struct{}
	progress chan RunnerProgress
}

func NewRunner(renderer Renderer, sink Sink, config RunnerConfig, jobs []Job) *Runner {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Runner{
		renderer: renderer,
		sink:     sink,
		config:   config,
		jobs:     jobs,
		done:     make(chan struct{}),
		progress: make(chan RunnerProgress, len(jobs)),
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Progress receives one update per finished job and is closed when Run
// returns. It holds every update, so an idle reader never blocks workers.
func (r *Runner) Progress() <-chan RunnerProgress {
	return r.progress
}

// Run renders the jobs and returns one result per job, in job order. The
// error is non-nil only when FailFast stopped the batch.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	if !r.ran.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRun
	}
	jobs := r.jobs
	defer close(r.done)
	defer close(r.progress)

	logger := zerolog.Ctx(ctx).With().Str("format", r.config.Format).Int("jobs", len(jobs)).Logger()
	logger.Info().Int("workers", r.config.Workers).Msg("batch started")

	results := make([]Result, len(jobs))
	var (
		mu       sync.Mutex
		progress = RunnerProgress{Total: len(jobs)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Workers)
	for i, job := range jobs {
		g.Go(func() error {
			res := r.render(gctx, job)
			results[i] = res

			mu.Lock()
			progress.Processed++
			if res.Err != nil {
				progress.Failed++
			}
			progress.LastJob = job.Name
			r.progress <- progress
			mu.Unlock()

			if res.Err != nil {
				logger.Error().Err(res.Err).Str("job", job.Name).Msg("batch job failed")
				if r.config.FailFast {
					return fmt.Errorf("job %s: %w", job.Name, res.Err)
				}
			}
			return nil
		})
	}
	err := g.Wait()

	logger.Info().Int("processed", progress.Processed).Int("failed", progress.Failed).Msg("batch finished")
	return results, err
}

func (r *Runner) render(ctx context.Context, job Job) Result {
	res := Result{Job: job.Name}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	art, err := r.renderer.Render(ctx, job.Payload, job.Context, r.config.Format)
	if err != nil {
		res.Err = err
		return res
	}
	res.Format = art.Format
	res.Fallback = art.Fallback

	if r.sink != nil {
		res.Location, res.Err = r.sink(ctx, job, art)
	}
	return res
}
