package fuzz

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/bretttully/polyfuzz/internal/engine"
	"github.com/bretttully/polyfuzz/internal/gen"
)

// The process-isolation backend. Each worker is a child process running
// the hidden `worker` subcommand: it receives a msgpack-encoded task on
// stdin, runs its share of seeds with no state shared with any sibling,
// and writes a msgpack-encoded record table to stdout. The only
// synchronization point is the final merge. Process isolation is the safe
// default when the engine under test wraps an opaque native library.

// WorkerTask is the unit of work shipped to a child process.
type WorkerTask struct {
	GeneratorName   string          `msgpack:"generator"`
	GeneratorConfig []byte          `msgpack:"generator_config"`
	EngineName      string          `msgpack:"engine"`
	Clip            engine.ClipRule `msgpack:"clip"`
	Seeds           []int64         `msgpack:"seeds"`
}

// WorkerResult is the child's complete answer.
type WorkerResult struct {
	Records Table `msgpack:"records"`
}

// RunTask executes a task inside the current process. It is the body of
// the `worker` subcommand and is also what in-process tests call to prove
// the protocol reproduces the direct path bit for bit.
func RunTask(task WorkerTask) (Table, error) {
	g, err := gen.New(task.GeneratorName)
	if err != nil {
		return nil, err
	}
	if len(task.GeneratorConfig) > 0 {
		if err := msgpack.Unmarshal(task.GeneratorConfig, g); err != nil {
			return nil, fmt.Errorf("decode generator config: %w", err)
		}
	}
	eng, err := engine.New(task.EngineName, task.Clip)
	if err != nil {
		return nil, err
	}

	var table Table
	for _, seed := range task.Seeds {
		table = append(table, NewCase(g, seed, eng).RunAll()...)
	}
	return table, nil
}

// ServeTask reads one task, runs it and writes the result: the entire
// lifetime of a worker process.
func ServeTask(in io.Reader, out io.Writer) error {
	var task WorkerTask
	if err := msgpack.NewDecoder(in).Decode(&task); err != nil {
		return fmt.Errorf("decode worker task: %w", err)
	}
	table, err := RunTask(task)
	if err != nil {
		return err
	}
	return msgpack.NewEncoder(out).Encode(WorkerResult{Records: table})
}

func runIsolated(ctx context.Context, opts Options, workers int) (Table, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate own binary: %w", err)
	}
	config, err := msgpack.Marshal(opts.Generator)
	if err != nil {
		return nil, fmt.Errorf("encode generator config: %w", err)
	}

	shards := shardSeeds(opts.Seeds, workers)
	results := make([]Table, len(shards))

	g, gctx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		g.Go(func() error {
			task := WorkerTask{
				GeneratorName:   opts.Generator.Name(),
				GeneratorConfig: config,
				EngineName:      opts.EngineName,
				Clip:            opts.Clip,
				Seeds:           shard,
			}
			payload, err := msgpack.Marshal(task)
			if err != nil {
				return fmt.Errorf("encode worker task: %w", err)
			}

			cmd := exec.CommandContext(gctx, exe, "worker")
			cmd.Stdin = bytes.NewReader(payload)
			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr
			if err := cmd.Run(); err != nil {
				return fmt.Errorf("worker %d: %w (stderr: %s)", i, err, stderr.String())
			}

			var res WorkerResult
			if err := msgpack.Unmarshal(stdout.Bytes(), &res); err != nil {
				return fmt.Errorf("worker %d: decode result: %w", i, err)
			}
			results[i] = res.Records

			for _, seed := range shard {
				emit(gctx, opts.Events, res.Records.BySeed(seed))
			}
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

// shardSeeds deals seeds 0..n-1 round-robin across workers, dropping
// empty shards when there are more workers than seeds.
func shardSeeds(n int64, workers int) [][]int64 {
	if workers < 1 {
		workers = 1
	}
	shards := make([][]int64, workers)
	for seed := int64(0); seed < n; seed++ {
		w := int(seed % int64(workers))
		shards[w] = append(shards[w], seed)
	}
	out := shards[:0]
	for _, s := range shards {
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}
