package constants

import "strconv"

// Sentinel totals printed instead of a score.
const (
	TotalAbsent    = "ABS"
	TotalCancelled = "CAN"
)

// GradeFail is the band for scores under 40 and for absentees.
const GradeFail = "F"

type gradeBand struct {
	min   int
	grade string
}

// bands are ordered from the highest minimum down.
var bands = []gradeBand{
	{90, "O"},
	{75, "A+"},
	{65, "A"},
	{55, "B+"},
	{50, "B"},
	{45, "C"},
	{40, "P"},
}

// GradeForScore returns the letter grade band for a 0..100 score.
func GradeForScore(score int) string {
	for _, b := range bands {
		if score >= b.min {
			return b.grade
		}
	}
	return GradeFail
}

// GradeForTotal is GradeForScore for a printed total; sentinels map to F.
// ok is false when total is neither numeric nor a known sentinel.
func GradeForTotal(total string) (grade string, ok bool) {
	switch total {
	case TotalAbsent, TotalCancelled:
		return GradeFail, true
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return "", false
	}
	return GradeForScore(n), true
}

// IsSentinelTotal reports whether total is ABS or CAN.
func IsSentinelTotal(total string) bool {
	return total == TotalAbsent || total == TotalCancelled
}
