package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/results-parser/internal/common"
	"github.com/joseph-ayodele/results-parser/internal/entity"
	"github.com/joseph-ayodele/results-parser/internal/extract"
)

func str(s string) *string { return &s }

func row(cells ...string) []*string {
	out := make([]*string, len(cells))
	for i, c := range cells {
		if c != "<nil>" {
			out[i] = str(c)
		}
	}
	return out
}

type fakePage struct {
	num   int
	text  string
	table extract.Table
	err   error
}

func (p fakePage) Number() int { return p.num }

func (p fakePage) PlainText(context.Context) (string, error) { return p.text, p.err }

func (p fakePage) Table(context.Context, *extract.TableSettings) (extract.Table, error) {
	return p.table, nil
}

type fakeSource map[int]fakePage

func (s fakeSource) PageCount(context.Context) (int, error) { return len(s), nil }

func (s fakeSource) Page(_ context.Context, n int) (extract.Page, error) {
	p, ok := s[n]
	if !ok {
		return nil, fmt.Errorf("%w: page %d", common.ErrExtractorFailure, n)
	}
	return p, nil
}

func schemePage(num int, schemeID string, instCode int, inst string, codes ...string) fakePage {
	text := fmt.Sprintf("SCHEME OF EXAMINATIONS\nPrg. Code: 027      Programme: B.TECH      SchemeID: %s      Sem./Annual: THIRD SEMESTER\nInstitution Code: %d      Institution: %s\n", schemeID, instCode, inst)
	tbl := extract.Table{row("S. No.", "Paper ID", "Paper Code", "Paper Name", "Credits", "Type", "Exam", "Mode", "Kind", "Minor", "Major", "Max. Marks", "Pass Marks")}
	for i, c := range codes {
		tbl = append(tbl, row(fmt.Sprint(i+1), "99"+c, c, "SUBJECT "+c, "4", "T", "Theory", "Offline", "Core", "25", "75", "100", "40"))
	}
	return fakePage{num: num, text: text, table: tbl}
}

func resultPage(num int, date string, enrollments ...string) fakePage {
	text := "Programme Code: 027      Programme Name: B.TECH      Sem./Year/EU: THIRD SEMESTER      Batch: 2021      Examination: REGULAR DEC, 2022"
	if date != "" {
		text += "    Result Declared Date :" + date
	}
	text += "\n"
	tbl := extract.Table{row("<nil>", "<nil>", "Institution Code: 115  Institution: BVCOE")}
	for _, e := range enrollments {
		tbl = append(tbl,
			row(e+"\nSTUDENT "+e+"\nSID: 5"+e+"\nSchemeID: 190272021001", "CS201(4)"),
			row("20", "55"),
			row("<nil>", "75 (A+)"),
		)
	}
	return fakePage{num: num, text: text, table: tbl}
}

func TestProcessorParse(t *testing.T) {
	src := fakeSource{
		1: {num: 1, text: "NOTICE"},
		2: schemePage(2, "190272021001", 115, "BVCOE", "CS201", "CS203"),
		3: schemePage(3, "190272021001", 148, "MSIT", "CS205"),
		4: resultPage(4, "08-FEB-24", "101", "102"),
		5: resultPage(5, "", "103"),
		6: {num: 6, text: "SCHEME OF EXAMINATIONS\ngarbled"},
		7: {num: 7, err: errors.New("boom")},
	}
	var seen int
	p := NewProcessor(nil, Options{OnResult: func(entity.StudentResult) { seen++ }})
	if err := p.Parse(context.Background(), src, 1, 8); err != nil {
		t.Fatal(err)
	}
	out := p.Output()

	wantStats := Stats{Pages: 8, SchemePages: 3, ResultPages: 2, UnknownPages: 1, FailedPages: 3}
	if diff := cmp.Diff(wantStats, out.Stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
	if len(out.Schemes) != 1 || out.RepeatedSchemes != 1 {
		t.Fatalf("schemes = %d, repeats = %d", len(out.Schemes), out.RepeatedSchemes)
	}
	if got := out.Schemes[0]; len(got.Institutes) != 2 || len(got.Subjects) != 3 {
		t.Errorf("merged scheme = %+v", got)
	}
	if len(out.Results) != 3 || seen != 3 {
		t.Fatalf("results = %d, callbacks = %d", len(out.Results), seen)
	}
	if out.Results[0].Enrollment != "101" || out.Results[0].Institute.Name != "BVCOE" {
		t.Errorf("first result = %+v", out.Results[0])
	}
	if out.Results[2].Header.DeclaredDate != nil {
		t.Error("page without a date field must not reuse the cached date")
	}
}

func TestProcessorStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewProcessor(nil, Options{})
	err := p.Parse(ctx, fakeSource{1: {num: 1, text: "x"}}, 1, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
	if p.Output().Stats.Pages != 0 {
		t.Error("no page should be parsed after cancellation")
	}
}

func parseRange(t *testing.T, src fakeSource, from, to int) Output {
	t.Helper()
	p := NewProcessor(nil, Options{})
	if err := p.Parse(context.Background(), src, from, to); err != nil {
		t.Fatal(err)
	}
	return p.Output()
}

func TestOutputMerge(t *testing.T) {
	src := fakeSource{
		1: schemePage(1, "1001", 1, "A", "S1"),
		2: schemePage(2, "1001", 2, "B", "S2"),
		3: resultPage(3, "08-FEB-24", "1"),
		4: schemePage(4, "1001", 3, "C", "S3"),
		5: schemePage(5, "2002", 1, "A", "S1"),
		6: resultPage(6, "08-FEB-24", "2"),
		7: schemePage(7, "2002", 1, "A", "S9"),
	}
	whole := parseRange(t, src, 1, 7)
	a, b, c := parseRange(t, src, 1, 2), parseRange(t, src, 3, 5), parseRange(t, src, 6, 7)

	left := a.Merge(b).Merge(c)
	right := a.Merge(b.Merge(c))
	if diff := cmp.Diff(left, right); diff != "" {
		t.Errorf("merge not associative (-left +right):\n%s", diff)
	}
	if diff := cmp.Diff(whole, left); diff != "" {
		t.Errorf("sharded output differs from sequential (-whole +sharded):\n%s", diff)
	}
	if whole.RepeatedSchemes != 3 {
		t.Errorf("RepeatedSchemes = %d, want 3", whole.RepeatedSchemes)
	}
	if len(a.Schemes) != 1 || len(a.Schemes[0].Institutes) != 2 {
		t.Error("Merge modified its receiver")
	}
}
