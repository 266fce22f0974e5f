// Package scheme recovers scheme of examinations records from scheme pages
// and merges the pages of a scheme that is printed once per institute.
package scheme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/results-parser/constants"
	"github.com/joseph-ayodele/results-parser/internal/common"
	"github.com/joseph-ayodele/results-parser/internal/entity"
	"github.com/joseph-ayodele/results-parser/internal/extract"
	"github.com/joseph-ayodele/results-parser/internal/patterns"
)

// Header cells that tell a complete subject table from one that lost its edge columns.
const (
	serialHeader   = "S. No."
	maxMarksHeader = "Max. Marks"
	// DefaultPassMarks fills the pass marks column dropped by the extractor.
	DefaultPassMarks = "40"
)

// Subject table columns after repair.
const (
	colPaperID = iota + 1
	colPaperCode
	colPaperName
	colCredits
	colType
	colExam
	colMode
	colKind
	colMinor
	colMajor
	colMaxMarks
	colPassMarks
)

// ExtractHeader parses the scheme header block. The single institute named in
// the header becomes the record's institute list.
func ExtractHeader(text string) (*entity.SchemeRecord, error) {
	h, ok := patterns.SchemeHeaders.Match(text).Get()
	if !ok {
		return nil, fmt.Errorf("scheme header: %w", common.ErrHeaderMatch)
	}
	sem, ok := constants.SemesterNumber(h.SemesterLabel)
	if !ok {
		return nil, fmt.Errorf("scheme %s: %w: %q", h.SchemeID, common.ErrSemesterUnknown, h.SemesterLabel)
	}
	instCode, err := strconv.Atoi(h.InstituteCode)
	if err != nil {
		return nil, fmt.Errorf("scheme %s: institute code %q: %w", h.SchemeID, h.InstituteCode, common.ErrHeaderMatch)
	}
	return &entity.SchemeRecord{
		ProgrammeCode: h.ProgrammeCode,
		Programme:     h.Programme,
		SchemeID:      h.SchemeID,
		Semester:      sem,
		Institutes:    []entity.Institute{{Code: instCode, Name: h.InstituteName}},
		Subjects:      map[string]entity.SubjectDefinition{},
	}, nil
}

func cellText(c *string) string {
	if c == nil {
		return ""
	}
	return *c
}

// NeedsRepair reports whether the table lost its serial number and pass marks
// columns: the header ends at "Max. Marks" and does not start at "S. No.".
func NeedsRepair(tbl extract.Table) bool {
	if len(tbl) == 0 || len(tbl[0]) == 0 {
		return false
	}
	header := tbl[0]
	first := strings.TrimSpace(cellText(header[0]))
	last := strings.TrimSpace(cellText(header[len(header)-1]))
	return last == maxMarksHeader && first != serialHeader
}

// RepairColumns returns a copy of tbl with a nil serial cell prepended and the
// default pass marks appended to every row. The input is not modified.
func RepairColumns(tbl extract.Table) extract.Table {
	out := make(extract.Table, len(tbl))
	for i, row := range tbl {
		pass := DefaultPassMarks
		fixed := make([]*string, 0, len(row)+2)
		fixed = append(fixed, nil)
		fixed = append(fixed, row...)
		out[i] = append(fixed, &pass)
	}
	return out
}

// ExtractSubjects maps the subject table to definitions keyed by paper code.
// Row 0 is the header; rows without a paper code are ignored and later rows
// win on duplicate codes.
func ExtractSubjects(tbl extract.Table) (map[string]entity.SubjectDefinition, error) {
	if len(tbl) == 0 {
		return nil, fmt.Errorf("scheme subjects: empty table: %w", common.ErrTableStructure)
	}
	if NeedsRepair(tbl) {
		tbl = RepairColumns(tbl)
	}
	subjects := make(map[string]entity.SubjectDefinition, len(tbl)-1)
	for r := 1; r < len(tbl); r++ {
		col := func(c int) string { return cellText(tbl.Cell(r, c)) }
		code := strings.TrimSpace(col(colPaperCode))
		if code == "" {
			continue
		}
		subjects[code] = entity.SubjectDefinition{
			PaperID:   col(colPaperID),
			PaperName: col(colPaperName),
			Credits:   col(colCredits),
			Type:      col(colType),
			Exam:      col(colExam),
			Mode:      col(colMode),
			Kind:      col(colKind),
			Minor:     col(colMinor),
			Major:     col(colMajor),
			MaxMarks:  col(colMaxMarks),
			PassMarks: col(colPassMarks),
		}
	}
	return subjects, nil
}

// Extract builds the full record of one scheme page.
func Extract(text string, tbl extract.Table) (*entity.SchemeRecord, error) {
	rec, err := ExtractHeader(text)
	if err != nil {
		return nil, err
	}
	subjects, err := ExtractSubjects(tbl)
	if err != nil {
		return nil, fmt.Errorf("scheme %s: %w", rec.SchemeID, err)
	}
	rec.Subjects = subjects
	return rec, nil
}
