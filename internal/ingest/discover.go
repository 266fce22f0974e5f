package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/results-parser/constants"
	"github.com/joseph-ayodele/results-parser/internal/common"
	"github.com/joseph-ayodele/results-parser/internal/extract"
)

// Discover walks root and returns bulletin inputs (page dumps and PDFs) in
// lexical order. Hidden entries are skipped when skipHidden is set.
func Discover(root string, skipHidden bool) ([]string, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

// OpenSource picks the page source for a bulletin input by extension:
// JSON page dumps are read directly, PDFs go through the extraction command.
func OpenSource(path string, cmd extract.CommandConfig, logger *slog.Logger) (extract.Source, error) {
	switch constants.MapExtToFormat(filepath.Ext(path)) {
	case constants.FormatDump:
		return extract.LoadDump(path)
	case constants.FormatPDF:
		if cmd.Command == "" {
			return nil, fmt.Errorf("%w: %s is a pdf but no extract command is configured", common.ErrInvalidInput, path)
		}
		return extract.NewCommandSource(cmd, path, logger), nil
	default:
		return nil, fmt.Errorf("%w: unsupported input %q", common.ErrInvalidInput, path)
	}
}
