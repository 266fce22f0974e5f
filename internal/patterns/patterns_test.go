package patterns

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/results-parser/internal/entity"
)

func ptr(s string) *string { return &s }

func TestSchemeHeaders(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    SchemeHeader
		variant string
	}{
		{
			name: "prg code format",
			text: "SCHEME OF EXAMINATIONS\nPrg. Code: 027      Programme: BACHELOR OF TECHNOLOGY (COMPUTER SCIENCE)      SchemeID: 190272021001      Sem./Annual: THIRD SEMESTER\nInstitution Code: 115      Institution: BHARATI VIDYAPEETH'S COLLEGE OF ENGINEERING\nS.No.",
			want: SchemeHeader{
				ProgrammeCode: "027", Programme: "BACHELOR OF TECHNOLOGY (COMPUTER SCIENCE)",
				SchemeID: "190272021001", SemesterLabel: "THIRD SEMESTER",
				InstituteCode: "115", InstituteName: "BHARATI VIDYAPEETH'S COLLEGE OF ENGINEERING",
			},
			variant: "prg-code",
		},
		{
			name: "prg code with programme name",
			text: "SCHEME OF EXAMINATIONS\nPrg. Code: 027      Programme Name: BACHELOR OF TECHNOLOGY      SchemeID: 190272021001      Sem./Annual: THIRD SEMESTER\nInstitution Code: 115      Institution: BVCOE\n",
			want: SchemeHeader{
				ProgrammeCode: "027", Programme: "BACHELOR OF TECHNOLOGY", SchemeID: "190272021001",
				SemesterLabel: "THIRD SEMESTER", InstituteCode: "115", InstituteName: "BVCOE",
			},
			variant: "prg-code",
		},
		{
			name: "programme code format",
			text: "(SCHEME OF EXAMINATIONS)\nScheme of Programme Code: 027     Programme Name: B.TECH     SchemeID: 190272016001     Sem./Year: 06 SEMESTER\nInstitution Code: '115'     Institution: BVCOE",
			want: SchemeHeader{
				ProgrammeCode: "027", Programme: "B.TECH", SchemeID: "190272016001",
				SemesterLabel: "06 SEMESTER", InstituteCode: "115", InstituteName: "BVCOE",
			},
			variant: "programme-code",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SchemeHeaders.Match(tt.text)
			if !got.OK() {
				t.Fatalf("no match for %q", tt.text)
			}
			if got.Variant != tt.variant {
				t.Errorf("variant = %q, want %q", got.Variant, tt.variant)
			}
			if diff := cmp.Diff(tt.want, got.Value); diff != "" {
				t.Errorf("header mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if SchemeHeaders.Match("RESULT TABULATION SHEET").OK() {
		t.Error("unrelated text should not match")
	}
}

func TestResultHeaders(t *testing.T) {
	lead := "Programme Code: 027      Programme Name: BACHELOR OF TECHNOLOGY      Sem./Year/EU: THIRD SEMESTER      Batch: 2021      Examination: REGULAR DEC, 2022"
	tests := []struct {
		name string
		text string
		want ResultHeader
	}{
		{
			name: "declared date",
			text: lead + "    Result Declared Date :08-FEB-24\nInstitution",
			want: ResultHeader{"027", "BACHELOR OF TECHNOLOGY", "THIRD SEMESTER", "2021", "REGULAR DEC, 2022", ptr("08-FEB-24")},
		},
		{
			name: "empty declared date is present",
			text: lead + "    Result Declared Date :\nInstitution",
			want: ResultHeader{"027", "BACHELOR OF TECHNOLOGY", "THIRD SEMESTER", "2021", "REGULAR DEC, 2022", ptr("")},
		},
		{
			name: "declared date on next line",
			text: lead + "\nResult Declared Date :08-FEB-24\nInstitution",
			want: ResultHeader{"027", "BACHELOR OF TECHNOLOGY", "THIRD SEMESTER", "2021", "REGULAR DEC, 2022", ptr("08-FEB-24")},
		},
		{
			name: "no declared date",
			text: "Result of " + lead + "\nInstitution",
			want: ResultHeader{"027", "BACHELOR OF TECHNOLOGY", "THIRD SEMESTER", "2021", "REGULAR DEC, 2022", nil},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResultHeaders.Match(tt.text).Get()
			if !ok {
				t.Fatalf("no match for %q", tt.text)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("header mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStudentIdentity(t *testing.T) {
	blob := "01234567890\nJOHN  DOE\nSID: 123456789012\nSchemeID: 190272021001\nCS201(4)"
	got, ok := StudentIdentities.Match(blob).Get()
	if !ok {
		t.Fatal("identity not matched")
	}
	want := entity.StudentIdentity{Enrollment: "01234567890", Name: "JOHN DOE", SID: "123456789012", SchemeID: "190272021001"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("identity mismatch (-want +got):\n%s", diff)
	}
	if end := IdentityEnd(blob); blob[end:] != "\nCS201(4)" {
		t.Errorf("IdentityEnd left %q", blob[end:])
	}
}

func TestInstituteLine(t *testing.T) {
	got, ok := InstituteLines.Match("Institution Code: 115  Institution: BVCOE NEW DELHI ").Get()
	if !ok {
		t.Fatal("institute not matched")
	}
	if diff := cmp.Diff(entity.Institute{Code: 115, Name: "BVCOE NEW DELHI"}, got); diff != "" {
		t.Errorf("institute mismatch (-want +got):\n%s", diff)
	}
	if InstituteLines.Match("Institution: BVCOE").OK() {
		t.Error("line without code should not match")
	}
}

func TestStripCredits(t *testing.T) {
	for in, want := range map[string]string{
		"CS201(4)":             "CS201",
		"CS201\n(4)":           "CS201",
		"CS201\n  (3)":         "CS201",
		" CS201 ":              "CS201",
		"ES(101)":              "ES(101)",
		"CS201\n(4)\nCS203(3)": "CS201\nCS203",
	} {
		if got := StripCredits(in); got != want {
			t.Errorf("StripCredits(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseTotal(t *testing.T) {
	for in, want := range map[string]Total{
		"78 (A)":  {Score: "78", Grade: "A"},
		"45(C)":   {Score: "45", Grade: "C"},
		"91\n(O)": {Score: "91", Grade: "O"},
		"88 A+":   {Score: "88", Grade: "A+"},
		"ABS":     {Score: "ABS"},
		"CAN (F)": {Score: "CAN", Grade: "F"},
		"":        {},
		"7x8 ?":   {Score: "7x8 ?"},
	} {
		if diff := cmp.Diff(want, ParseTotal(in)); diff != "" {
			t.Errorf("ParseTotal(%q) mismatch (-want +got):\n%s", in, diff)
		}
	}
}

func TestCandidatesWith(t *testing.T) {
	extra := Matcher[Total]{
		Name: "always",
		Re:   totalCell,
		Build: func(Groups) (Total, bool) {
			return Total{Score: "x"}, true
		},
	}
	var empty Candidates[Total]
	c := empty.With(extra)
	if len(empty) != 0 || len(c) != 1 {
		t.Fatalf("With mutated receiver or lost candidate: %d %d", len(empty), len(c))
	}
	if got := c.Match("12"); got.Variant != "always" {
		t.Errorf("variant = %q", got.Variant)
	}
}
