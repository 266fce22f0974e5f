package result

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/results-parser/constants"
	"github.com/joseph-ayodele/results-parser/internal/common"
	"github.com/joseph-ayodele/results-parser/internal/entity"
	"github.com/joseph-ayodele/results-parser/internal/extract"
	"github.com/joseph-ayodele/results-parser/internal/patterns"
)

// rowsPerStudent: identity/subjects, internal/external marks, totals.
const rowsPerStudent = 3

// institute line lives in the third cell of the first row.
const instituteColumn = 2

// Options tune record reconstruction.
type Options struct {
	// AbsentGrade is given to ABS/CAN totals printed without a grade; "" keeps it empty.
	AbsentGrade string
	// StrictSubjects drops students whose subject, marks and totals counts disagree.
	StrictSubjects bool
}

// Student is one reconstructed row group.
type Student struct {
	Identity entity.StudentIdentity
	Codes    []string // subject codes in printed order
	Subjects map[string]entity.SubjectMark
}

// Table is the reconstruction of one result grid.
type Table struct {
	Institute     entity.Institute
	Students      []Student
	SkippedGroups int // incomplete or unidentifiable row groups
	Mismatches    int // students whose three subject rows had different lengths
}

func text(c *string) string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(*c)
}

// nonEmpty drops nil and blank cells.
func nonEmpty(cells []*string) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		if s := text(c); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func findInstitute(tbl extract.Table) (entity.Institute, bool) {
	if inst, ok := patterns.InstituteLines.Match(text(tbl.Cell(0, instituteColumn))).Get(); ok {
		return inst, true
	}
	if len(tbl) == 0 {
		return entity.Institute{}, false
	}
	for _, c := range tbl[0] {
		if inst, ok := patterns.InstituteLines.Match(text(c)).Get(); ok {
			return inst, true
		}
	}
	return entity.Institute{}, false
}

// ReconstructTable rebuilds per-student subject marks from a raw result grid.
// The page fails only when its institute line is missing; bad row groups are
// skipped and counted.
func ReconstructTable(tbl extract.Table, opts Options, logger *slog.Logger) (Table, error) {
	if logger == nil {
		logger = slog.Default()
	}
	inst, ok := findInstitute(tbl)
	if !ok {
		return Table{}, fmt.Errorf("result table: institute line not found: %w", common.ErrTableStructure)
	}
	out := Table{Institute: inst}

	rows := tbl[1:]
	if rem := len(rows) % rowsPerStudent; rem != 0 {
		logger.Warn("result table rows not a multiple of three; dropping trailing rows",
			"rows", len(rows), "dropped", rem)
		out.SkippedGroups++
		rows = rows[:len(rows)-rem]
	}

	for g := 0; g < len(rows); g += rowsPerStudent {
		st, err := reconstructGroup(rows[g], rows[g+1], rows[g+2], opts, logger)
		if err != nil {
			logger.Warn("skipping student row group", "group", g/rowsPerStudent, "kind", common.Kind(err), "error", err)
			out.SkippedGroups++
			continue
		}
		if st.mismatch {
			out.Mismatches++
			if opts.StrictSubjects {
				continue
			}
		}
		out.Students = append(out.Students, st.Student)
	}

	if len(out.Students) == 0 && len(rows) > 0 && out.Mismatches == 0 {
		return out, fmt.Errorf("result table: no student could be identified: %w", common.ErrStudentIdentity)
	}
	return out, nil
}

type groupResult struct {
	Student
	mismatch bool
}

func reconstructGroup(subjectRow, marksRow, totalsRow []*string, opts Options, logger *slog.Logger) (groupResult, error) {
	cells := nonEmpty(subjectRow)
	if len(cells) == 0 {
		return groupResult{}, fmt.Errorf("empty identity row: %w", common.ErrStudentIdentity)
	}
	blob := cells[0]
	id, ok := patterns.StudentIdentities.Match(blob).Get()
	if !ok {
		return groupResult{}, fmt.Errorf("identity %q: %w", firstLine(blob), common.ErrStudentIdentity)
	}

	var codes []string
	if len(cells) > 1 {
		for _, c := range cells[1:] {
			if code := patterns.StripCredits(c); code != "" {
				codes = append(codes, code)
			}
		}
	} else if end := patterns.IdentityEnd(blob); end >= 0 {
		for _, line := range strings.Split(patterns.StripCredits(blob[end:]), "\n") {
			if code := strings.TrimSpace(line); code != "" {
				codes = append(codes, code)
			}
		}
	}

	marks := nonEmpty(marksRow)
	pairs := len(marks) / 2
	totals := nonEmpty(totalsRow)

	n := min(len(codes), pairs, len(totals))
	res := groupResult{}
	if len(codes) != pairs || pairs != len(totals) {
		res.mismatch = true
		logger.Warn("subject rows disagree; truncating to shortest",
			"enrollment", id.Enrollment, "subjects", len(codes), "mark_pairs", pairs,
			"totals", len(totals), "kept", n, "strict", opts.StrictSubjects)
	}

	subjects := make(map[string]entity.SubjectMark, n)
	for i := 0; i < n; i++ {
		t := patterns.ParseTotal(totals[i])
		grade := t.Grade
		if grade == "" && opts.AbsentGrade != "" && constants.IsSentinelTotal(t.Score) {
			grade = opts.AbsentGrade
		}
		subjects[codes[i]] = entity.SubjectMark{
			Internal:   marks[2*i],
			External:   marks[2*i+1],
			Total:      t.Score,
			TotalGrade: grade,
		}
	}
	res.Student = Student{Identity: id, Codes: codes[:n], Subjects: subjects}
	return res, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// ToRecords attaches the page header to every reconstructed student. The
// institute comes from the table body, never from the page header.
func ToRecords(tbl Table, header entity.ResultHeader) []entity.StudentResult {
	out := make([]entity.StudentResult, 0, len(tbl.Students))
	for _, st := range tbl.Students {
		h := header
		if header.DeclaredDate != nil {
			d := *header.DeclaredDate
			h.DeclaredDate = &d
		}
		subjects := make(map[string]entity.SubjectMark, len(st.Subjects))
		for code, m := range st.Subjects {
			subjects[code] = m
		}
		out = append(out, entity.StudentResult{
			StudentIdentity: st.Identity,
			Institute:       tbl.Institute,
			Batch:           header.Batch,
			ProgrammeCode:   header.ProgrammeCode,
			Programme:       header.Programme,
			Subjects:        subjects,
			Header:          h,
		})
	}
	return out
}
