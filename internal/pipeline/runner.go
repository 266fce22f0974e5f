// Package pipeline runs one bulletin end to end: page source, sharded
// parsing, file exports and optional storage.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/results-parser/internal/common"
	"github.com/joseph-ayodele/results-parser/internal/core"
	"github.com/joseph-ayodele/results-parser/internal/core/async"
	"github.com/joseph-ayodele/results-parser/internal/entity"
	"github.com/joseph-ayodele/results-parser/internal/export"
	"github.com/joseph-ayodele/results-parser/internal/extract"
	"github.com/joseph-ayodele/results-parser/internal/ingest"
	"github.com/joseph-ayodele/results-parser/internal/repository"
	"github.com/joseph-ayodele/results-parser/internal/result"
)

// Config selects what a run parses and where its output goes.
type Config struct {
	Parse   common.ParseConfig
	Extract extract.CommandConfig
	// Offset is the first page to parse (1-based); 0 means the first page.
	Offset     int
	OutputDir  string
	// XLSXPath and NDJSONPath name optional extra outputs; bare file names
	// are written into the run's output directory.
	XLSXPath   string
	NDJSONPath string
	// PrintScheme and PrintResult stream records to Stdout as JSON lines while parsing.
	PrintScheme bool
	PrintResult bool
	Stdout      io.Writer
}

// Store groups the repositories a run writes to. A nil Store skips storage.
type Store struct {
	Runs    repository.RunRepository
	Schemes repository.SchemeRepository
	Results repository.ResultRepository
}

// Summary is printed at the end of a run.
type Summary struct {
	Source          string     `json:"source" yaml:"source"`
	RunID           string     `json:"run_id" yaml:"run_id"`
	Pages           int        `json:"page_count" yaml:"page_count"`
	SchemeCount     int        `json:"Length Scheme Jsons" yaml:"Length Scheme Jsons"`
	StudentCount    int        `json:"Length Student Jsons" yaml:"Length Student Jsons"`
	RepeatedSchemes int        `json:"Repeated Scheme Count" yaml:"Repeated Scheme Count"`
	Stats           core.Stats `json:"stats" yaml:"stats"`
	Outputs         []string   `json:"outputs" yaml:"outputs"`
	Elapsed         string     `json:"elapsed" yaml:"elapsed"`
}

type Runner struct {
	cfg      Config
	store    *Store
	exporter *export.Service
	logger   *slog.Logger
	printMu  sync.Mutex
}

func NewRunner(cfg Config, store *Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return &Runner{cfg: cfg, store: store, exporter: export.NewService(logger), logger: logger}
}

func (r *Runner) print(kind string, v any) {
	b, err := json.Marshal(map[string]any{"kind": kind, "record": v})
	if err != nil {
		r.logger.Warn("print record failed", "error", err)
		return
	}
	r.printMu.Lock()
	defer r.printMu.Unlock()
	fmt.Fprintln(r.cfg.Stdout, string(b))
}

func (r *Runner) processorOptions() core.Options {
	opts := core.Options{Result: result.Options{
		AbsentGrade:    r.cfg.Parse.AbsentGrade,
		StrictSubjects: r.cfg.Parse.StrictSubjects,
	}}
	if r.cfg.PrintScheme {
		opts.OnScheme = func(s *entity.SchemeRecord) { r.print(export.KindScheme, s) }
	}
	if r.cfg.PrintResult {
		opts.OnResult = func(s entity.StudentResult) { r.print(export.KindResult, s) }
	}
	return opts
}

// Parse runs every page of src from the configured offset. One worker parses
// in-process on a single processor; more fan out over shards.
func (r *Runner) Parse(ctx context.Context, src extract.Source) (core.Output, int, error) {
	count, err := src.PageCount(ctx)
	if err != nil {
		return core.Output{}, 0, fmt.Errorf("page count: %w", err)
	}
	from := max(r.cfg.Offset, 1)
	opts := r.processorOptions()

	if r.cfg.Parse.Workers <= 1 {
		proc := core.NewProcessor(r.logger, opts)
		if err := proc.Parse(ctx, src, from, count); err != nil {
			return core.Output{}, count, err
		}
		return proc.Output(), count, nil
	}

	runner := async.NewShardRunner(
		func(logger *slog.Logger) *core.Processor { return core.NewProcessor(logger, opts) },
		r.logger,
		async.WithWorkers(r.cfg.Parse.Workers),
		async.WithPagesPerShard(r.cfg.Parse.PagesPerWorker),
	)
	out, err := runner.Run(ctx, src, from, count)
	return out, count, err
}

// Run parses the bulletin at path and writes scheme.json and result.json into outDir.
// A stored run that stops on an error is closed with that error recorded.
func (r *Runner) Run(ctx context.Context, path, outDir string) (sum Summary, err error) {
	start := time.Now()
	if outDir == "" {
		outDir = r.cfg.OutputDir
	}
	runID := uuid.New()
	logger := r.logger.With("source", path)

	if r.store != nil {
		if runID, err = r.store.Runs.Start(ctx, path); err != nil {
			return Summary{}, err
		}
		defer func() {
			if err == nil {
				return
			}
			if ferr := r.store.Runs.Fail(context.WithoutCancel(ctx), runID, err); ferr != nil {
				logger.Warn("could not record run failure", "run_id", runID, "error", ferr)
			}
		}()
	}
	ctx = common.WithRunID(ctx, runID)
	logger = logger.With("run_id", runID)

	src, err := ingest.OpenSource(path, r.cfg.Extract, logger)
	if err != nil {
		return Summary{}, err
	}
	out, pages, err := r.Parse(ctx, src)
	if err != nil {
		return Summary{}, fmt.Errorf("parse %s: %w", path, err)
	}

	outputs, err := r.exporter.WriteJSON(outDir, out.Schemes, out.Results)
	if err != nil {
		return Summary{}, err
	}
	if r.cfg.NDJSONPath != "" {
		p := within(outDir, r.cfg.NDJSONPath)
		if err := r.writeNDJSON(p, out); err != nil {
			return Summary{}, err
		}
		outputs = append(outputs, p)
	}
	if r.cfg.XLSXPath != "" {
		b, err := r.exporter.XLSX(out.Schemes, out.Results)
		if err != nil {
			return Summary{}, err
		}
		p := within(outDir, r.cfg.XLSXPath)
		if err := os.WriteFile(p, b, 0o644); err != nil {
			return Summary{}, fmt.Errorf("write xlsx: %w", err)
		}
		outputs = append(outputs, p)
	}

	if r.store != nil {
		if err := common.WrapError(r.save(ctx, runID, out), "store run"); err != nil {
			return Summary{}, err
		}
	}

	sum = Summary{
		Source:          path,
		RunID:           runID.String(),
		Pages:           pages,
		SchemeCount:     len(out.Schemes),
		StudentCount:    len(out.Results),
		RepeatedSchemes: out.RepeatedSchemes,
		Stats:           out.Stats,
		Outputs:         outputs,
		Elapsed:         time.Since(start).Round(time.Millisecond).String(),
	}
	logger.Info("run finished",
		"schemes", sum.SchemeCount,
		"students", sum.StudentCount,
		"repeated_schemes", sum.RepeatedSchemes,
		"failed_pages", out.Stats.FailedPages,
		"elapsed", sum.Elapsed,
	)
	return sum, nil
}

// within places a bare file name inside dir; paths with a directory part are kept.
func within(dir, p string) string {
	if filepath.IsAbs(p) || filepath.Dir(p) != "." {
		return p
	}
	return filepath.Join(dir, p)
}

func (r *Runner) writeNDJSON(path string, out core.Output) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create ndjson dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ndjson: %w", err)
	}
	if err := r.exporter.WriteNDJSON(f, out.Schemes, out.Results); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (r *Runner) save(ctx context.Context, runID uuid.UUID, out core.Output) error {
	if err := r.store.Schemes.Upsert(ctx, runID, out.Schemes); err != nil {
		return err
	}
	if err := r.store.Results.Upsert(ctx, runID, out.Results); err != nil {
		return err
	}
	return r.store.Runs.Finish(ctx, runID, repository.RunSummary{
		Schemes:         len(out.Schemes),
		Students:        len(out.Results),
		RepeatedSchemes: out.RepeatedSchemes,
		Stats:           out.Stats,
	})
}
