package textutil

import "strings"

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"\x00", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a label.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. Runs of whitespace collapse to a single space.
// Returns fallback when nothing usable remains.
func SanitizeFileName(name, fallback string) string {
	name = strings.Join(strings.Fields(fileNameReplacer.Replace(name)), " ")
	name = strings.Trim(name, ". ")
	if name == "" {
		return fallback
	}
	return name
}

// SanitizeSegment converts a label into a single object-key or directory
// segment. Spaces become underscores on top of SanitizeFileName.
func SanitizeSegment(value string) string {
	value = SanitizeFileName(value, "unknown")
	return strings.ReplaceAll(value, " ", "_")
}
