package ingestion

import (
	"regexp"
	"strings"
)

var (
	reLineEndings = regexp.MustCompile(`\r\n?`)
	reTabs        = regexp.MustCompile(`\t+`)
	reMultiSpace  = regexp.MustCompile(` {2,}`)
	reMultiBlank  = regexp.MustCompile(`\n{3,}`)
)

// CleanText canonicalizes whitespace and line endings so that downstream
// pattern matching does not depend on formatting noise. It never interprets
// the content.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF, CR → LF)
	content = reLineEndings.ReplaceAllString(content, "\n")

	// 2. Tabs become a single space, space runs collapse
	content = reTabs.ReplaceAllString(content, " ")
	content = reMultiSpace.ReplaceAllString(content, " ")

	// 3. Drop trailing spaces so blank lines are truly empty
	lines := strings.Split(content, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	content = strings.Join(lines, "\n")

	// 4. Collapse 3+ newlines into a single blank line
	content = reMultiBlank.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}

// NormalizeLines applies CleanText to the joined lines and splits the result back
func NormalizeLines(lines []string) []string {
	cleaned := CleanText(strings.Join(lines, "\n"))
	if cleaned == "" {
		return nil
	}
	return strings.Split(cleaned, "\n")
}
