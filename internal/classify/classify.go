// Package classify decides what kind of bulletin page a page is.
package classify

import (
	"strings"

	"github.com/joseph-ayodele/results-parser/constants"
	"github.com/joseph-ayodele/results-parser/internal/patterns"
)

// Classify returns SCHEME when the scheme title is present anywhere in text,
// RESULT when a result header matches, and UNKNOWN otherwise. The scheme
// marker is checked first since scheme pages can partially look like result headers.
func Classify(text string) constants.PageType {
	if strings.Contains(text, constants.SchemeMarker) {
		return constants.PageTypeScheme
	}
	if patterns.ResultHeaders.Match(text).OK() {
		return constants.PageTypeResult
	}
	return constants.PageTypeUnknown
}
