package result

import (
	"fmt"
	"strconv"

	"github.com/joseph-ayodele/results-parser/constants"
	"github.com/joseph-ayodele/results-parser/internal/common"
	"github.com/joseph-ayodele/results-parser/internal/entity"
	"github.com/joseph-ayodele/results-parser/internal/patterns"
)

// ExtractHeader parses the result header block, resolving the declared date through cache.
func ExtractHeader(text string, cache *DateCache) (entity.ResultHeader, error) {
	h, ok := patterns.ResultHeaders.Match(text).Get()
	if !ok {
		return entity.ResultHeader{}, fmt.Errorf("result header: %w", common.ErrHeaderMatch)
	}
	sem, ok := constants.SemesterNumber(h.SemesterLabel)
	if !ok {
		return entity.ResultHeader{}, fmt.Errorf("result header: %w: %q", common.ErrSemesterUnknown, h.SemesterLabel)
	}
	batch, err := strconv.Atoi(h.Batch)
	if err != nil {
		return entity.ResultHeader{}, fmt.Errorf("result header: batch %q: %w", h.Batch, common.ErrHeaderMatch)
	}
	return entity.ResultHeader{
		ProgrammeCode: h.ProgrammeCode,
		Programme:     h.Programme,
		Semester:      sem,
		Batch:         batch,
		Examination:   h.Examination,
		DeclaredDate:  cache.Resolve(h.DeclaredDate),
	}, nil
}
