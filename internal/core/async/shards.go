package async

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/results-parser/internal/common"
	"github.com/joseph-ayodele/results-parser/internal/core"
	"github.com/joseph-ayodele/results-parser/internal/extract"
)

// Shard is a contiguous, inclusive page range.
type Shard struct {
	Index    int
	From, To int
}

// PlanShards splits pages [from, to] into shards of at most size pages.
func PlanShards(from, to, size int) []Shard {
	if size < 1 {
		size = 1
	}
	var out []Shard
	for start := from; start <= to; start += size {
		out = append(out, Shard{Index: len(out), From: start, To: min(start+size-1, to)})
	}
	return out
}

// ProcessorFactory builds the fresh processor each shard runs on.
type ProcessorFactory func(logger *slog.Logger) *core.Processor

// ShardRunner fans a page range out over concurrent processors and merges their outputs.
type ShardRunner struct {
	logger   *slog.Logger
	workers  int
	perShard int
	timeout  time.Duration
	factory  ProcessorFactory
}

type ShardOption func(*ShardRunner)

func WithWorkers(n int) ShardOption {
	return func(r *ShardRunner) {
		if n > 0 {
			r.workers = n
		}
	}
}

func WithPagesPerShard(n int) ShardOption {
	return func(r *ShardRunner) {
		if n > 0 {
			r.perShard = n
		}
	}
}

func WithShardTimeout(d time.Duration) ShardOption {
	return func(r *ShardRunner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func NewShardRunner(factory ProcessorFactory, logger *slog.Logger, opts ...ShardOption) *ShardRunner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &ShardRunner{
		logger:   logger,
		workers:  4,
		perShard: 100,
		factory:  factory,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run parses pages [from, to] of src. Every shard gets its own processor, so
// declared-date caches are never shared. A failing shard is logged and
// contributes nothing; outputs are merged in shard order.
func (r *ShardRunner) Run(ctx context.Context, src extract.Source, from, to int) (core.Output, error) {
	if from < 1 {
		from = 1
	}
	if to < from {
		return core.Output{}, nil
	}
	shards := PlanShards(from, to, r.perShard)
	outputs := make([]core.Output, len(shards))
	ok := make([]bool, len(shards))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, sh := range shards {
		g.Go(func() error {
			sctx := common.WithShard(gctx, sh.Index)
			if r.timeout > 0 {
				var cancel context.CancelFunc
				sctx, cancel = context.WithTimeout(sctx, r.timeout)
				defer cancel()
			}
			logger := r.logger.With("shard", sh.Index)
			logger.Info("shard started", "from", sh.From, "to", sh.To)

			proc := r.factory(logger)
			if err := proc.Parse(sctx, src, sh.From, sh.To); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Error("shard failed", "from", sh.From, "to", sh.To, "error", err)
				return nil
			}
			outputs[sh.Index] = proc.Output()
			ok[sh.Index] = true
			logger.Info("shard done",
				"schemes", len(outputs[sh.Index].Schemes),
				"students", len(outputs[sh.Index].Results),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return core.Output{}, fmt.Errorf("run shards: %w", err)
	}

	var merged core.Output
	for i, out := range outputs {
		if ok[i] {
			merged = merged.Merge(out)
		}
	}
	return merged, nil
}
