// Package export writes parsed schemes and results to files.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/results-parser/internal/entity"
)

// Output file names inside the output directory.
const (
	SchemeFile = "scheme.json"
	ResultFile = "result.json"
)

// Service renders schemes and results in the supported export formats.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WriteJSON writes scheme.json and result.json into dir as indented arrays
// and returns their paths.
func (s *Service) WriteJSON(dir string, schemes []*entity.SchemeRecord, results []entity.StudentResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if schemes == nil {
		schemes = []*entity.SchemeRecord{}
	}
	if results == nil {
		results = []entity.StudentResult{}
	}
	files := []struct {
		name string
		v    any
	}{
		{SchemeFile, schemes},
		{ResultFile, results},
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		b, err := json.MarshalIndent(f.v, "", "    ")
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", f.name, err)
		}
		p := filepath.Join(dir, f.name)
		if err := os.WriteFile(p, append(b, '\n'), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.name, err)
		}
		paths = append(paths, p)
	}
	s.logger.Info("export.json.ok", "dir", dir, "schemes", len(schemes), "students", len(results))
	return paths, nil
}
