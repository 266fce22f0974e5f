package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/results-parser/internal/common"
)

var (
	cfgFile      string
	logLevel     string
	outputFormat string

	cfg    *common.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "results-parser",
	Short: "Parse university result bulletins into scheme and student records",
	Long: `results-parser reads result bulletins page by page, classifies every page as a
scheme of examinations or a result grid, and writes normalized records:

  scheme.json   one record per scheme ID, institutes and subjects merged across pages
  result.json   one record per student per examination page

Input is either a JSON page dump produced by the extraction tool, or a PDF when
an extract command is configured.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLevel(logLevel)
		if err != nil {
			return err
		}
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		if cmd.Name() == "version" {
			return nil
		}
		cfg, err = common.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml or json); RESULTS_* env vars override it")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "yaml", "summary format: yaml or json")

	rootCmd.AddCommand(parseCmd, watchCmd, versionCmd)
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
