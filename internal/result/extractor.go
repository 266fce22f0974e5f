// Package result recovers per-student records from result pages.
package result

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/results-parser/internal/entity"
	"github.com/joseph-ayodele/results-parser/internal/extract"
)

// Page is everything recovered from one result page.
type Page struct {
	Header        entity.ResultHeader
	Students      []entity.StudentResult
	SkippedGroups int
	Mismatches    int
}

// Extractor holds the per-shard state of result extraction: the declared-date cache.
type Extractor struct {
	opts   Options
	dates  DateCache
	logger *slog.Logger
}

func NewExtractor(opts Options, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{opts: opts, logger: logger}
}

// Dates exposes the extractor's cache.
func (e *Extractor) Dates() *DateCache { return &e.dates }

// Extract parses header text and the tuned table of page.
func (e *Extractor) Extract(ctx context.Context, page extract.Page, text string) (Page, error) {
	before := e.dates.Fallbacks()
	header, err := ExtractHeader(text, &e.dates)
	if err != nil {
		return Page{}, err
	}
	if e.dates.Fallbacks() > before {
		e.logger.Debug("declared date unparsable; using cached date",
			"page", page.Number(), "cached", header.DeclaredDate != nil, "error", e.dates.Err())
	}

	tbl, err := page.Table(ctx, extract.ResultTableSettings())
	if err != nil {
		return Page{}, fmt.Errorf("result table: %w", err)
	}
	rebuilt, err := ReconstructTable(tbl, e.opts, e.logger.With("page", page.Number()))
	if err != nil {
		return Page{}, err
	}
	return Page{
		Header:        header,
		Students:      ToRecords(rebuilt, header),
		SkippedGroups: rebuilt.SkippedGroups,
		Mismatches:    rebuilt.Mismatches,
	}, nil
}
