package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/joseph-ayodele/results-parser/internal/common"
)

// CommandConfig configures the external extraction executable.
type CommandConfig struct {
	Command  string        // executable invoked as "<cmd> text|table --page N [--settings JSON] <pdf>"
	Timeout  time.Duration // per invocation; 0 = none
	Attempts uint          // default 3
	Delay    time.Duration // between attempts, default 200ms
}

// CommandSource extracts pages of a PDF by shelling out once per page and request.
type CommandSource struct {
	cfg    CommandConfig
	path   string
	runner Runner
	logger *slog.Logger
}

// NewCommandSource returns a source over the PDF at path.
func NewCommandSource(cfg CommandConfig, path string, logger *slog.Logger) *CommandSource {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}
	if cfg.Delay == 0 {
		cfg.Delay = 200 * time.Millisecond
	}
	return &CommandSource{cfg: cfg, path: path, runner: execRunner{}, logger: logger}
}

// WithRunner swaps the command runner (tests).
func (s *CommandSource) WithRunner(r Runner) *CommandSource {
	s.runner = r
	return s
}

// PageCount reads the page count from the PDF itself.
func (s *CommandSource) PageCount(context.Context) (int, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	n, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: page count for %s: %v", common.ErrExtractorFailure, s.path, err)
	}
	return n, nil
}

// Page returns a lazily extracted page; nothing runs until text or table is requested.
func (s *CommandSource) Page(_ context.Context, n int) (Page, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: page %d", common.ErrInvalidInput, n)
	}
	return &commandPage{src: s, num: n}, nil
}

type commandPage struct {
	src *CommandSource
	num int
}

func (p *commandPage) Number() int { return p.num }

func (p *commandPage) PlainText(ctx context.Context) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	if err := p.src.invoke(ctx, &out, "text", "--page", strconv.Itoa(p.num), p.src.path); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (p *commandPage) Table(ctx context.Context, settings *TableSettings) (Table, error) {
	args := []string{"table", "--page", strconv.Itoa(p.num)}
	if settings != nil {
		b, err := json.Marshal(settings)
		if err != nil {
			return nil, fmt.Errorf("marshal table settings: %w", err)
		}
		args = append(args, "--settings", string(b))
	}
	args = append(args, p.src.path)

	var out struct {
		Table Table `json:"table"`
	}
	if err := p.src.invoke(ctx, &out, args...); err != nil {
		return nil, err
	}
	return out.Table, nil
}

// invoke runs the extractor with retries and decodes its stdout into dst.
func (s *CommandSource) invoke(ctx context.Context, dst any, args ...string) error {
	if s.cfg.Command == "" {
		return fmt.Errorf("%w: no extract command configured", common.ErrExtractorFailure)
	}
	err := retry.Do(
		func() error {
			callCtx := ctx
			if s.cfg.Timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
				defer cancel()
			}
			stdout, stderr, err := s.runner.Run(callCtx, s.cfg.Command, s.logger, args...)
			if err != nil {
				return fmt.Errorf("%v: %s", err, truncate(string(stderr), 512))
			}
			if err := json.Unmarshal(stdout, dst); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode extractor output: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.cfg.Attempts),
		retry.Delay(s.cfg.Delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("extractor retry", "attempt", n+1, "args", args, "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrExtractorFailure, err)
	}
	return nil
}
