package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/results-parser/internal/entity"
)

// Sheet names of the workbook.
const (
	SheetSchemes  = "Schemes"
	SheetSubjects = "Subjects"
	SheetResults  = "Results"
)

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func (w *sheetWriter) write(values ...any) {
	w.row++
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, w.row)
		_ = w.f.SetCellValue(w.sheet, cell, v)
	}
}

func newSheet(f *excelize.File, name string, headers ...any) (*sheetWriter, error) {
	if index, _ := f.GetSheetIndex(name); index == -1 {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	w := &sheetWriter{f: f, sheet: name}
	w.write(headers...)
	return w, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// XLSX returns a workbook with one row per scheme, per scheme subject and per
// student subject mark.
func (s *Service) XLSX(schemes []*entity.SchemeRecord, results []entity.StudentResult) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()
	defer f.Close()

	sw, err := newSheet(f, SheetSchemes, "Scheme ID", "Programme Code", "Programme", "Semester", "Institute Codes", "Institutes", "Subjects")
	if err != nil {
		return nil, err
	}
	subw, err := newSheet(f, SheetSubjects, "Scheme ID", "Paper Code", "Paper ID", "Paper Name", "Credits", "Type", "Exam", "Mode", "Kind", "Minor", "Major", "Max Marks", "Pass Marks")
	if err != nil {
		return nil, err
	}
	for _, sc := range schemes {
		var codes, names string
		for i, inst := range sc.Institutes {
			if i > 0 {
				codes += "; "
				names += "; "
			}
			codes += fmt.Sprint(inst.Code)
			names += inst.Name
		}
		sw.write(sc.SchemeID, sc.ProgrammeCode, sc.Programme, sc.Semester, codes, names, len(sc.Subjects))
		for _, code := range sortedKeys(sc.Subjects) {
			sub := sc.Subjects[code]
			subw.write(sc.SchemeID, code, sub.PaperID, sub.PaperName, sub.Credits, sub.Type, sub.Exam, sub.Mode, sub.Kind, sub.Minor, sub.Major, sub.MaxMarks, sub.PassMarks)
		}
	}

	rw, err := newSheet(f, SheetResults, "Enrollment", "Name", "SID", "Scheme ID", "Institute Code", "Institute", "Batch", "Semester", "Examination", "Declared", "Subject", "Internal", "External", "Total", "Grade")
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		declared := ""
		if r.Header.DeclaredDate != nil {
			declared = r.Header.DeclaredDate.Format("2006-01-02")
		}
		for _, code := range sortedKeys(r.Subjects) {
			m := r.Subjects[code]
			rw.write(r.Enrollment, r.Name, r.SID, r.SchemeID, r.Institute.Code, r.Institute.Name, r.Batch,
				r.Header.Semester, r.Header.Examination, declared, code, m.Internal, m.External, m.Total, m.TotalGrade)
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsx drop default sheet: %w", err)
	}
	if index, _ := f.GetSheetIndex(SheetSchemes); index >= 0 {
		f.SetActiveSheet(index)
	}
	_ = f.SetColWidth(SheetSchemes, "C", "C", 40)
	_ = f.SetColWidth(SheetSchemes, "F", "F", 60)
	_ = f.SetColWidth(SheetSubjects, "D", "D", 40)
	_ = f.SetColWidth(SheetResults, "B", "B", 28)
	_ = f.SetColWidth(SheetResults, "F", "F", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.xlsx.ok",
		"schemes", len(schemes),
		"students", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
