package patterns

import (
	"regexp"
	"strings"
)

// Total is a parsed total cell such as "78 (A)", "ABS" or "45(C)".
type Total struct {
	Score string
	Grade string
}

var totalCell = regexp.MustCompile(
	`^\s*(?P<score>\d+|ABS|CAN)?\s*(?:\(\s*(?P<grade>[A-Z][A-Z+]?)\s*\)|(?P<bare>[A-Z][A-Z+]?))?\s*$`)

// ParseTotal splits a total cell into score and grade. Cells in an unknown
// shape keep their trimmed text as the score with no grade.
func ParseTotal(cell string) Total {
	idx := totalCell.FindStringSubmatchIndex(cell)
	if idx == nil {
		return Total{Score: strings.TrimSpace(cell)}
	}
	g := Groups{re: totalCell, text: cell, idx: idx}
	t := Total{Score: g.Get("score"), Grade: g.Get("grade")}
	if t.Grade == "" {
		t.Grade = g.Get("bare")
	}
	return t
}
