package main

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/results-parser/internal/core/async"
	"github.com/joseph-ayodele/results-parser/internal/export"
	"github.com/joseph-ayodele/results-parser/internal/ingest"
	"github.com/joseph-ayodele/results-parser/internal/pipeline"
)

var (
	watchFlags    runFlags
	watchInitial  bool
	watchDebounce time.Duration
	watchJobs     int
	watchTimeout  time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>...",
	Short: "Parse bulletins as they appear in the watched directories",
	Long: `Watch directories for new or rewritten bulletins and parse each one into its
own subdirectory of --out. A file is parsed again only when its content changes.
The scheme.json and result.json files written under --out are never parsed.
Stops on SIGINT/SIGTERM after finishing queued bulletins.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := watchFlags.apply(cmd, cfg); err != nil {
			return err
		}
		ctx := cmd.Context()
		store, closeStore, err := openStore(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer closeStore()

		pc := watchFlags.pipelineConfig(cmd, cfg)
		runner := pipeline.NewRunner(pc, store, logger)
		outputNames := map[string]bool{export.SchemeFile: true, export.ResultFile: true}
		if pc.NDJSONPath != "" {
			outputNames[filepath.Base(pc.NDJSONPath)] = true
		}
		out := cmd.OutOrStdout()
		var outMu sync.Mutex
		queue := async.NewFileQueue(func(ctx context.Context, job async.Job) error {
			sum, err := runner.Run(ctx, job.Path, filepath.Join(cfg.Output.Dir, inputDirName(job.Path)))
			if err != nil {
				return err
			}
			outMu.Lock()
			defer outMu.Unlock()
			return writeOutput(out, outputFormat, sum)
		}, logger, async.WithQueueWorkers(watchJobs), async.WithJobTimeout(watchTimeout))

		paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       args,
			InitialScan: watchInitial,
			Debounce:    watchDebounce,
			Logger:      logger,
		})
		if err != nil {
			return err
		}
		logger.Info("watching", "roots", args)

		for paths != nil || errs != nil {
			select {
			case p, ok := <-paths:
				if !ok {
					paths = nil
					continue
				}
				if isOwnOutput(p, cfg.Output.Dir, outputNames) {
					logger.Debug("skipping own output", "path", p)
					continue
				}
				_ = queue.Enqueue(ctx, async.Job{Path: p})
			case e, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				logger.Warn("watcher error", "error", e)
			}
		}

		drain, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		queue.Shutdown(drain)
		return nil
	},
}

func init() {
	watchFlags.register(watchCmd)
	watchCmd.Flags().BoolVar(&watchInitial, "initial-scan", true, "parse bulletins already present at startup")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "wait for writes to settle before parsing")
	watchCmd.Flags().IntVar(&watchJobs, "jobs", 1, "bulletins parsed concurrently")
	watchCmd.Flags().DurationVar(&watchTimeout, "job-timeout", 10*time.Minute, "per-bulletin timeout")
}

// isOwnOutput reports whether path is a file the watch runs write themselves:
// one of names, somewhere inside outDir. Watched roots may contain outDir.
func isOwnOutput(path, outDir string, names map[string]bool) bool {
	if !names[filepath.Base(path)] {
		return false
	}
	ap, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	ad, err := filepath.Abs(outDir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(ad, ap)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
