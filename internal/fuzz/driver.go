package fuzz

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"github.com/bretttully/polyfuzz/internal/engine"
	"github.com/bretttully/polyfuzz/internal/gen"
	"github.com/bretttully/polyfuzz/internal/logger"
)

// Event reports the completion of one seed to an optional progress sink.
type Event struct {
	Seed    int64
	Records int
	Failed  int
}

// Options configures one fuzzing run. Seeds are always the integers
// 0..Seeds-1 so that a run is reproducible from the seed count alone.
type Options struct {
	Generator  gen.Generator
	EngineName string
	Clip       engine.ClipRule
	Seeds      int64
	Workers    int // <=0 means GOMAXPROCS
	Isolate    bool
	Events     chan<- Event // optional; never closed by the driver
}

// Run fans the generator out across seeds and workers and merges the
// per-seed tables into one. Worker errors here are infrastructure errors;
// engine failures live inside the records and never abort the run.
func Run(ctx context.Context, opts Options) (Table, error) {
	if opts.Generator == nil {
		return nil, fmt.Errorf("fuzz: no generator")
	}
	if opts.Seeds <= 0 {
		return nil, fmt.Errorf("fuzz: seed count must be positive, got %d", opts.Seeds)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	log := logger.Logger()
	log.Info().
		Str("generator", opts.Generator.Name()).
		Str("engine", opts.EngineName).
		Int64("seeds", opts.Seeds).
		Int("workers", workers).
		Bool("isolate", opts.Isolate).
		Msg("fuzzing")

	start := time.Now()
	var (
		table Table
		err   error
	)
	if opts.Isolate {
		table, err = runIsolated(ctx, opts, workers)
	} else {
		table, err = runInProcess(ctx, opts, workers)
	}
	if err != nil {
		return table, err
	}

	sum := table.Summarize()
	log.Info().
		Int("records", sum.Records).
		Int("failures", sum.Failures).
		Dur("wall", time.Since(start)).
		Msg("fuzzing complete")
	return table, nil
}

func runInProcess(ctx context.Context, opts Options, workers int) (Table, error) {
	eng, err := engine.New(opts.EngineName, opts.Clip)
	if err != nil {
		return nil, err
	}
	seeds, err := safecast.Conv[int](opts.Seeds)
	if err != nil {
		return nil, fmt.Errorf("seed count overflow: %w", err)
	}

	// Per-index result slots: every goroutine owns exactly one, no mutex.
	results := make([]Table, seeds)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, seeds))

	for i := 0; i < seeds; i++ {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			c := NewCase(opts.Generator, int64(i), eng)
			results[i] = c.RunAll()
			emit(gctx, opts.Events, results[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var table Table
	for _, r := range results {
		table = append(table, r...)
	}
	return table, nil
}

// emit sends one completion event per distinct seed in t.
func emit(ctx context.Context, events chan<- Event, t Table) {
	if events == nil || len(t) == 0 {
		return
	}
	ev := Event{Seed: t[0].Seed, Records: len(t)}
	for _, r := range t {
		if r.Failed() {
			ev.Failed++
		}
	}
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}
