package constants

// PageType is the classification of a single bulletin page.
type PageType string

// Stable values (these exact strings appear in logs and run summaries).
const (
	PageTypeScheme  PageType = "SCHEME"  // scheme of examinations page
	PageTypeResult  PageType = "RESULT"  // student result grid
	PageTypeUnknown PageType = "UNKNOWN" // cover pages, notices, blank pages
)

// SchemeMarker is the literal title every scheme page carries.
const SchemeMarker = "SCHEME OF EXAMINATIONS"
