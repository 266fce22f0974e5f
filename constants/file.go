package constants

import "strings"

// AllowedExtensions holds the input extensions the directory ingestor picks up.
// Page dumps are JSON; PDFs need the external extraction command.
var AllowedExtensions = map[string]struct{}{
	"json": {},
	"pdf":  {},
}

const (
	FormatDump = "DUMP"
	FormatPDF  = "PDF"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the input format for an extension, or "" if unsupported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "json":
		return FormatDump
	case "pdf":
		return FormatPDF
	default:
		return ""
	}
}
