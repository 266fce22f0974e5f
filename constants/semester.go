package constants

import (
	"fmt"
	"strings"
)

const (
	MinSemester = 1
	MaxSemester = 10
)

var ordinalSemesters = []string{
	"FIRST SEMESTER",
	"SECOND SEMESTER",
	"THIRD SEMESTER",
	"FOURTH SEMESTER",
	"FIFTH SEMESTER",
	"SIXTH SEMESTER",
	"SEVENTH SEMESTER",
	"EIGHTH SEMESTER",
	"NINTH SEMESTER",
	"TENTH SEMESTER",
}

// semesterByLabel holds both printed spellings ("THIRD SEMESTER" and "03 SEMESTER").
var semesterByLabel = func() map[string]int {
	m := make(map[string]int, 2*len(ordinalSemesters))
	for i, label := range ordinalSemesters {
		n := i + 1
		m[label] = n
		m[fmt.Sprintf("%02d SEMESTER", n)] = n
	}
	return m
}()

// SemesterNumber maps a printed semester label to its number.
// Case and inner whitespace are normalized before lookup.
func SemesterNumber(label string) (int, bool) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(label), " "))
	n, ok := semesterByLabel[normalized]
	return n, ok
}

// SemesterLabel returns the ordinal label for n, or "" when n is out of range.
func SemesterLabel(n int) string {
	if n < MinSemester || n > MaxSemester {
		return ""
	}
	return ordinalSemesters[n-1]
}
