package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/results-parser/constants"
	"github.com/joseph-ayodele/results-parser/internal/classify"
	"github.com/joseph-ayodele/results-parser/internal/common"
	"github.com/joseph-ayodele/results-parser/internal/entity"
	"github.com/joseph-ayodele/results-parser/internal/extract"
	"github.com/joseph-ayodele/results-parser/internal/result"
	"github.com/joseph-ayodele/results-parser/internal/scheme"
)

// Options configure a Processor.
type Options struct {
	Result result.Options
	// OnScheme and OnResult, when set, see every record as its page is parsed.
	OnScheme func(*entity.SchemeRecord)
	OnResult func(entity.StudentResult)
}

// Processor classifies pages and routes them to the scheme or result
// extractor, accumulating one shard's output. Pages must be fed sequentially.
type Processor struct {
	logger   *slog.Logger
	opts     Options
	results  *result.Extractor
	schemes  *scheme.Aggregator
	students []entity.StudentResult
	stats    Stats
}

func NewProcessor(logger *slog.Logger, opts Options) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:  logger,
		opts:    opts,
		results: result.NewExtractor(opts.Result, logger),
		schemes: scheme.NewAggregator(),
	}
}

// ParsePage handles one page. Page-level failures are logged and counted,
// never returned; the error is only the context's.
func (p *Processor) ParsePage(ctx context.Context, page extract.Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.stats.Pages++
	kind, err := p.parse(ctx, page)
	if err != nil {
		p.stats.FailedPages++
		p.logger.Warn("page failed",
			"run_id", common.RunIDFromContext(ctx),
			"shard", common.ShardFromContext(ctx),
			"page", page.Number(),
			"page_type", kind,
			"kind", common.Kind(err),
			"error", err,
		)
	}
	return nil
}

func (p *Processor) parse(ctx context.Context, page extract.Page) (constants.PageType, error) {
	text, err := page.PlainText(ctx)
	if err != nil {
		return constants.PageTypeUnknown, fmt.Errorf("page text: %w", err)
	}

	kind := classify.Classify(text)
	switch kind {
	case constants.PageTypeScheme:
		p.stats.SchemePages++
		return kind, p.parseScheme(ctx, page, text)
	case constants.PageTypeResult:
		p.stats.ResultPages++
		return kind, p.parseResult(ctx, page, text)
	default:
		p.stats.UnknownPages++
		p.logger.Info("unknown page", "page", page.Number())
		return kind, nil
	}
}

func (p *Processor) parseScheme(ctx context.Context, page extract.Page, text string) error {
	tbl, err := page.Table(ctx, nil)
	if err != nil {
		return fmt.Errorf("scheme table: %w", err)
	}
	rec, err := scheme.Extract(text, tbl)
	if err != nil {
		return err
	}
	if err := common.ValidateScheme(rec); err != nil {
		return err
	}
	if p.schemes.Add(rec) {
		p.logger.Debug("repeated scheme", "page", page.Number(), "scheme_id", rec.SchemeID,
			"institute", rec.Institutes[0].Name)
	}
	if p.opts.OnScheme != nil {
		p.opts.OnScheme(rec)
	}
	return nil
}

func (p *Processor) parseResult(ctx context.Context, page extract.Page, text string) error {
	res, err := p.results.Extract(ctx, page, text)
	if err != nil {
		return err
	}
	p.stats.SkippedGroups += res.SkippedGroups
	p.stats.SubjectMismatches += res.Mismatches
	for _, st := range res.Students {
		if err := common.ValidateStudent(&st); err != nil {
			p.stats.SkippedGroups++
			p.logger.Warn("invalid student record", "page", page.Number(), "enrollment", st.Enrollment, "error", err)
			continue
		}
		if codes := common.GradeMismatches(&st); len(codes) > 0 {
			p.logger.Debug("grade outside band", "page", page.Number(), "enrollment", st.Enrollment, "subjects", codes)
		}
		p.students = append(p.students, st)
		if p.opts.OnResult != nil {
			p.opts.OnResult(st)
		}
	}
	return nil
}

// Parse feeds pages [from, to] of src through the processor, stopping between
// pages when ctx is cancelled. A page the source cannot produce counts as failed.
func (p *Processor) Parse(ctx context.Context, src extract.Source, from, to int) error {
	start := time.Now()
	for n := from; n <= to; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := src.Page(ctx, n)
		if err != nil {
			p.stats.Pages++
			p.stats.FailedPages++
			p.logger.Warn("page failed", "page", n, "kind", common.Kind(err), "error", err)
			continue
		}
		if err := p.ParsePage(ctx, page); err != nil {
			return err
		}
	}
	p.logger.Debug("processor range done",
		"from", from, "to", to,
		"schemes", p.schemes.Len(),
		"students", len(p.students),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Output snapshots everything parsed so far.
func (p *Processor) Output() Output {
	return Output{
		Schemes:         p.schemes.Schemes(),
		Results:         append([]entity.StudentResult(nil), p.students...),
		RepeatedSchemes: p.schemes.Repeats(),
		Stats:           p.stats,
	}
}
