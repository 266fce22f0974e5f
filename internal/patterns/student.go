package patterns

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/results-parser/internal/entity"
)

// Sample: "01234567890\nJOHN DOE\nSID: 123456789012\nSchemeID: 190272021001"
var studentIdentity = regexp.MustCompile(
	`(?s)(?P<enrollment>\d+)[ \t]*\n(?P<name>.*?)[ \t]*\nSID:[ \t]*(?P<sid>\d+)[ \t]*\nScheme\s?ID:[ \t]*(?P<schemeID>\d+)`)

// StudentIdentities matches the identity blob in the first cell of a student's row group.
var StudentIdentities = Candidates[entity.StudentIdentity]{
	{
		Name: "identity",
		Re:   studentIdentity,
		Build: func(g Groups) (entity.StudentIdentity, bool) {
			id := entity.StudentIdentity{
				Enrollment: g.Get("enrollment"),
				Name:       strings.Join(strings.Fields(g.Get("name")), " "),
				SID:        g.Get("sid"),
				SchemeID:   g.Get("schemeID"),
			}
			return id, id.Enrollment != ""
		},
	},
}

// IdentityEnd returns the offset just past the identity blob in text, or -1.
// Subject codes sometimes follow it in the same cell.
func IdentityEnd(text string) int {
	loc := studentIdentity.FindStringIndex(text)
	if loc == nil {
		return -1
	}
	return loc[1]
}

// Sample: "Institution Code: 115  Institution: BHARATI VIDYAPEETH'S COLLEGE OF ENGINEERING"
var instituteLine = regexp.MustCompile(
	`Institution\s*Code:\s*(?P<instCode>\d+)\s*Institution:\s*(?P<instName>.*)`)

// InstituteLines matches the institute line in the first row of a result table.
var InstituteLines = Candidates[entity.Institute]{
	{
		Name: "institute",
		Re:   instituteLine,
		Build: func(g Groups) (entity.Institute, bool) {
			code, err := strconv.Atoi(g.Get("instCode"))
			if err != nil {
				return entity.Institute{}, false
			}
			return entity.Institute{Code: code, Name: g.Get("instName")}, true
		},
	},
}

var creditAnnotation = regexp.MustCompile(`(?:\n[ \t]*)?\(\d\)`)

// StripCredits removes "(4)" credit annotations, and the line break that may
// precede them, from a subject code cell or a multi-line subject blob.
func StripCredits(cell string) string {
	return strings.TrimSpace(creditAnnotation.ReplaceAllString(cell, ""))
}
