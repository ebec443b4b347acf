package layout

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slug lowercases name and turns every whitespace run into a single "-".
func Slug(name string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(name, "-"))
}

// Filename is the suggested download name for a client's plan.
func Filename(clientName string) string {
	return "plan-" + Slug(clientName) + ".pdf"
}

// SuggestedPath prefixes filename with the coach's export path hint.
// It does not decide where the file ends up.
func SuggestedPath(exportPath, filename string) string {
	if strings.TrimSpace(exportPath) == "" {
		return filename
	}
	return strings.TrimSuffix(exportPath, "/") + "/" + filename
}
