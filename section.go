package ragmark

import (
	"regexp"
	"strings"
)

// Section represents a heading in a markdown document.
type Section struct {
	Level int    `json:"level"`
	Title string `json:"title"`
}

var (
	headingRe   = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	codeBlockRe = regexp.MustCompile("(?s)```.*?```")
)

// ExtractSections parses markdown and returns all headings (H1-H6).
// Headings inside fenced code blocks are ignored. The result is used to
// build the document outline included in enrichment session metadata.
func ExtractSections(markdown string) []Section {
	if markdown == "" {
		return nil
	}

	// Remove code blocks to avoid matching # in code
	cleaned := codeBlockRe.ReplaceAllString(markdown, "")

	matches := headingRe.FindAllStringSubmatch(cleaned, -1)
	if len(matches) == 0 {
		return nil
	}

	sections := make([]Section, 0, len(matches))
	for _, match := range matches {
		sections = append(sections, Section{
			Level: len(match[1]),
			Title: strings.TrimSpace(match[2]),
		})
	}

	return sections
}
