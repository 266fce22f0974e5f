package main

import (
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/results-parser/internal/common"
	"github.com/joseph-ayodele/results-parser/internal/extract"
	"github.com/joseph-ayodele/results-parser/internal/pipeline"
)

// runFlags are shared by parse and watch. Flags only override the loaded
// config when set on the command line.
type runFlags struct {
	workers        int
	pagesPerWorker int
	offset         int
	outDir         string
	xlsx           bool
	ndjson         string
	db             string
	printScheme    bool
	printResult    bool
	absentGrade    string
	strictSubjects bool
	extractCommand string
}

func (f *runFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVarP(&f.workers, "workers", "w", 4, "parallel shards; 1 parses in-process")
	fs.IntVar(&f.pagesPerWorker, "pages-per-worker", 100, "pages per shard")
	fs.IntVar(&f.offset, "offset", 0, "first page to parse (1-based)")
	fs.StringVar(&f.outDir, "out", ".", "directory for scheme.json and result.json")
	fs.BoolVar(&f.xlsx, "xlsx", false, "also write results.xlsx")
	fs.StringVar(&f.ndjson, "ndjson", "", "also write records as ndjson to this file")
	fs.StringVar(&f.db, "db", "", "store records in this database (sqlite path or postgres:// DSN)")
	fs.BoolVar(&f.printScheme, "print-scheme", false, "print scheme records as they are parsed")
	fs.BoolVar(&f.printResult, "print-result", false, "print student records as they are parsed")
	fs.StringVar(&f.absentGrade, "absent-grade", "", `grade for ABS/CAN totals without one ("" or "F")`)
	fs.BoolVar(&f.strictSubjects, "strict-subjects", false, "drop a student whose subject codes, mark pairs and totals differ in count instead of truncating")
	fs.StringVar(&f.extractCommand, "extract-command", "", "executable used to extract text and tables from PDFs")
}

// apply copies the flags the user set onto c and validates the result.
func (f *runFlags) apply(cmd *cobra.Command, c *common.Config) error {
	fs := cmd.Flags()
	if fs.Changed("workers") {
		c.Parse.Workers = f.workers
	}
	if fs.Changed("pages-per-worker") {
		c.Parse.PagesPerWorker = f.pagesPerWorker
	}
	if fs.Changed("out") {
		c.Output.Dir = f.outDir
	}
	if fs.Changed("db") {
		c.Database.DSN = f.db
	}
	if fs.Changed("absent-grade") {
		c.Parse.AbsentGrade = f.absentGrade
	}
	if fs.Changed("strict-subjects") {
		c.Parse.StrictSubjects = f.strictSubjects
	}
	if fs.Changed("extract-command") {
		c.Extract.Command = f.extractCommand
	}
	return c.Validate()
}

func (f *runFlags) pipelineConfig(cmd *cobra.Command, c *common.Config) pipeline.Config {
	pc := pipeline.Config{
		Parse: c.Parse,
		Extract: extract.CommandConfig{
			Command: c.Extract.Command,
			Timeout: c.Extract.Timeout,
		},
		Offset:      f.offset,
		OutputDir:   c.Output.Dir,
		NDJSONPath:  f.ndjson,
		PrintScheme: f.printScheme,
		PrintResult: f.printResult,
		Stdout:      cmd.OutOrStdout(),
	}
	if f.xlsx {
		pc.XLSXPath = "results.xlsx"
	}
	return pc
}
