package scheme

import (
	"github.com/joseph-ayodele/results-parser/internal/entity"
)

// MergeRecords folds incoming into a copy of existing: unseen institutes are
// appended and incoming subjects overwrite existing ones on the same code.
// Neither argument is modified.
func MergeRecords(existing, incoming *entity.SchemeRecord) *entity.SchemeRecord {
	out := existing.Clone()
	for _, inst := range incoming.Institutes {
		if !out.HasInstitute(inst) {
			out.Institutes = append(out.Institutes, inst)
		}
	}
	for code, subj := range incoming.Subjects {
		out.Subjects[code] = subj
	}
	return out
}

// Aggregator accumulates scheme records by scheme ID, keeping first-seen order.
// It is not safe for concurrent use; each shard owns one.
type Aggregator struct {
	order   []string
	byID    map[string]*entity.SchemeRecord
	repeats int
}

func NewAggregator() *Aggregator {
	return &Aggregator{byID: make(map[string]*entity.SchemeRecord)}
}

// Add merges rec and reports whether its scheme ID had been seen before.
func (a *Aggregator) Add(rec *entity.SchemeRecord) bool {
	if existing, ok := a.byID[rec.SchemeID]; ok {
		a.byID[rec.SchemeID] = MergeRecords(existing, rec)
		a.repeats++
		return true
	}
	a.order = append(a.order, rec.SchemeID)
	a.byID[rec.SchemeID] = rec.Clone()
	return false
}

// Get returns the accumulated record for id.
func (a *Aggregator) Get(id string) (*entity.SchemeRecord, bool) {
	rec, ok := a.byID[id]
	return rec, ok
}

// Repeats counts Add calls that hit an existing scheme ID.
func (a *Aggregator) Repeats() int { return a.repeats }

// Len is the number of distinct schemes.
func (a *Aggregator) Len() int { return len(a.order) }

// Schemes returns copies of the accumulated records in first-seen order.
func (a *Aggregator) Schemes() []*entity.SchemeRecord {
	out := make([]*entity.SchemeRecord, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.byID[id].Clone())
	}
	return out
}
