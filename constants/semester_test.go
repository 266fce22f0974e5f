package constants

import "testing"

func TestSemesterNumber(t *testing.T) {
	tests := []struct {
		label string
		want  int
		ok    bool
	}{
		{"THIRD SEMESTER", 3, true},
		{"03 SEMESTER", 3, true},
		{"third  semester", 3, true},
		{" 10 SEMESTER ", 10, true},
		{"TENTH SEMESTER", 10, true},
		{"FIRST YEAR", 0, false},
		{"11 SEMESTER", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := SemesterNumber(tt.label)
			if got != tt.want || ok != tt.ok {
				t.Errorf("SemesterNumber(%q) = %d, %v; want %d, %v", tt.label, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSemesterLabelRoundTrip(t *testing.T) {
	for n := MinSemester; n <= MaxSemester; n++ {
		got, ok := SemesterNumber(SemesterLabel(n))
		if !ok || got != n {
			t.Errorf("round trip of %d gave %d, %v", n, got, ok)
		}
	}
	if SemesterLabel(0) != "" || SemesterLabel(11) != "" {
		t.Error("expected empty label out of range")
	}
}

func TestGradeForTotal(t *testing.T) {
	tests := []struct {
		total string
		want  string
		ok    bool
	}{
		{"95", "O", true},
		{"90", "O", true},
		{"89", "A+", true},
		{"65", "A", true},
		{"64", "B+", true},
		{"50", "B", true},
		{"47", "C", true},
		{"40", "P", true},
		{"39", "F", true},
		{"ABS", "F", true},
		{"CAN", "F", true},
		{"x", "", false},
	}
	for _, tt := range tests {
		got, ok := GradeForTotal(tt.total)
		if got != tt.want || ok != tt.ok {
			t.Errorf("GradeForTotal(%q) = %q, %v; want %q, %v", tt.total, got, ok, tt.want, tt.ok)
		}
	}
}
