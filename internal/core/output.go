package core

import (
	"github.com/joseph-ayodele/results-parser/internal/entity"
	"github.com/joseph-ayodele/results-parser/internal/scheme"
)

// Stats are additive per-run counters.
type Stats struct {
	Pages             int `json:"pages" yaml:"pages"`
	SchemePages       int `json:"scheme_pages" yaml:"scheme_pages"`
	ResultPages       int `json:"result_pages" yaml:"result_pages"`
	UnknownPages      int `json:"unknown_pages" yaml:"unknown_pages"`
	FailedPages       int `json:"failed_pages" yaml:"failed_pages"`
	SkippedGroups     int `json:"skipped_groups" yaml:"skipped_groups"`
	SubjectMismatches int `json:"subject_mismatches" yaml:"subject_mismatches"`
}

// Add returns the field-wise sum.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Pages:             s.Pages + o.Pages,
		SchemePages:       s.SchemePages + o.SchemePages,
		ResultPages:       s.ResultPages + o.ResultPages,
		UnknownPages:      s.UnknownPages + o.UnknownPages,
		FailedPages:       s.FailedPages + o.FailedPages,
		SkippedGroups:     s.SkippedGroups + o.SkippedGroups,
		SubjectMismatches: s.SubjectMismatches + o.SubjectMismatches,
	}
}

// Output is the accumulated result of parsing a range of pages.
type Output struct {
	Schemes         []*entity.SchemeRecord
	Results         []entity.StudentResult
	RepeatedSchemes int
	Stats           Stats
}

// Merge combines two outputs without modifying either. Schemes sharing an ID
// are merged as the aggregator would and each such collision counts as a
// repeat; results are concatenated with o first. Merge is associative.
func (o Output) Merge(other Output) Output {
	agg := scheme.NewAggregator()
	for _, s := range o.Schemes {
		agg.Add(s)
	}
	seeded := agg.Repeats()
	for _, s := range other.Schemes {
		agg.Add(s)
	}

	results := make([]entity.StudentResult, 0, len(o.Results)+len(other.Results))
	results = append(results, o.Results...)
	results = append(results, other.Results...)

	return Output{
		Schemes:         agg.Schemes(),
		Results:         results,
		RepeatedSchemes: o.RepeatedSchemes + other.RepeatedSchemes + agg.Repeats() - seeded,
		Stats:           o.Stats.Add(other.Stats),
	}
}
