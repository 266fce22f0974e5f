package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/results-parser/internal/ingest"
	"github.com/joseph-ayodele/results-parser/internal/pipeline"
)

var parseFlags runFlags

var parseCmd = &cobra.Command{
	Use:   "parse <bulletin|dir>...",
	Short: "Parse result bulletins and write scheme.json and result.json",
	Long: `Parse one or more bulletins. Directories are walked for .json page dumps and
.pdf files. With a single input the outputs go straight into --out; with more,
each input gets its own subdirectory named after the file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := parseFlags.apply(cmd, cfg); err != nil {
			return err
		}
		inputs, err := expandInputs(args)
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			return fmt.Errorf("no bulletins found in %s", strings.Join(args, ", "))
		}

		ctx := cmd.Context()
		store, closeStore, err := openStore(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer closeStore()

		runner := pipeline.NewRunner(parseFlags.pipelineConfig(cmd, cfg), store, logger)
		summaries := make([]pipeline.Summary, 0, len(inputs))
		var failed int
		for _, in := range inputs {
			outDir := cfg.Output.Dir
			if len(inputs) > 1 {
				outDir = filepath.Join(outDir, inputDirName(in))
			}
			sum, err := runner.Run(ctx, in, outDir)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Error("run failed", "source", in, "error", err)
				failed++
				continue
			}
			summaries = append(summaries, sum)
		}

		var data any = summaries
		if len(summaries) == 1 && len(inputs) == 1 {
			data = summaries[0]
		}
		if err := writeOutput(cmd.OutOrStdout(), outputFormat, data); err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d bulletins failed", failed, len(inputs))
		}
		return nil
	},
}

func init() {
	parseFlags.register(parseCmd)
}

// expandInputs replaces directory arguments with the bulletins they contain.
func expandInputs(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		fi, err := os.Stat(a)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			out = append(out, a)
			continue
		}
		found, err := ingest.Discover(a, true)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

// inputDirName is the per-input output subdirectory: the file name without extension.
func inputDirName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
