package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/results-parser/internal/core"
	"github.com/joseph-ayodele/results-parser/internal/extract"
)

func loadBulletin(t *testing.T) *extract.DumpSource {
	t.Helper()
	src, err := extract.LoadDump("testdata/bulletin.json")
	if err != nil {
		t.Fatalf("LoadDump: %v", err)
	}
	return src
}

func newProcessor(logger *slog.Logger) *core.Processor {
	return core.NewProcessor(logger, core.Options{})
}

func TestPlanShards(t *testing.T) {
	got := PlanShards(1, 7, 3)
	want := []Shard{{0, 1, 3}, {1, 4, 6}, {2, 7, 7}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("shards mismatch (-want +got):\n%s", diff)
	}
	if len(PlanShards(5, 4, 3)) != 0 {
		t.Error("empty range should plan no shards")
	}
	if got := PlanShards(1, 2, 0); len(got) != 2 {
		t.Errorf("size 0 should fall back to one page per shard, got %v", got)
	}
}

func TestShardRunnerMatchesSequential(t *testing.T) {
	ctx := context.Background()
	src := loadBulletin(t)

	seq := newProcessor(nil)
	if err := seq.Parse(ctx, src, 1, 7); err != nil {
		t.Fatal(err)
	}
	want := seq.Output()

	runner := NewShardRunner(newProcessor, nil, WithWorkers(3), WithPagesPerShard(3))
	got, err := runner.Run(ctx, src, 1, 7)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sharded output differs (-sequential +sharded):\n%s", diff)
	}
	if len(got.Schemes) != 2 || got.RepeatedSchemes != 1 || len(got.Results) != 4 {
		t.Errorf("schemes=%d repeats=%d results=%d", len(got.Schemes), got.RepeatedSchemes, len(got.Results))
	}
	if got.Stats.Pages != 7 || got.Stats.UnknownPages != 1 {
		t.Errorf("stats = %+v", got.Stats)
	}
}

func TestShardRunnerIsolatesDateCaches(t *testing.T) {
	src := loadBulletin(t)
	runner := NewShardRunner(newProcessor, nil, WithWorkers(2), WithPagesPerShard(1))
	got, err := runner.Run(context.Background(), src, 4, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Results) != 3 {
		t.Fatalf("results = %d", len(got.Results))
	}
	if got.Results[0].Header.DeclaredDate == nil {
		t.Error("page 4 should carry its own date")
	}
	if got.Results[2].Header.DeclaredDate != nil {
		t.Error("page 5 must not see page 4's cached date from another shard")
	}
}

func TestShardRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := NewShardRunner(newProcessor, nil)
	if _, err := runner.Run(ctx, loadBulletin(t), 1, 7); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}

func TestFileQueue(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	q := NewFileQueue(func(_ context.Context, job Job) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, job.Path)
		if job.Path == "bad.json" {
			return errors.New("bad dump")
		}
		return nil
	}, nil, WithQueueWorkers(2), WithQueueSize(1), WithJobTimeout(time.Second))

	for _, p := range []string{"a.json", "bad.json", "b.json"} {
		if err := q.Enqueue(context.Background(), Job{Path: p}); err != nil {
			t.Fatal(err)
		}
	}
	q.Shutdown(context.Background())
	_ = q.Enqueue(context.Background(), Job{Path: "late.json"})

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 {
		t.Errorf("handled %v", seen)
	}
}
