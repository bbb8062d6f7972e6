package section

import (
	"regexp"
	"strings"

	"reportctx/internal/report"
)

// maxSectionLines caps how far a section may run past its opening line
// before the next heading is assumed to have been missed.
const maxSectionLines = 50

// Heading patterns that close a section: a numbered heading, an
// all-caps heading, or a Title-Case heading.
var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\.\s+[A-Z]`),
	regexp.MustCompile(`^[A-Z][A-Z\s]{3,}$`),
	regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*$`),
}

// FindSections scans normalized text line by line and labels spans by
// the taxonomy. Each (type, keyword) hit opens its own section record;
// spans of different types may overlap and are never merged or
// deduplicated. An empty result for a type means absent, not an error.
func FindSections(text string, tax *Taxonomy) map[report.SectionType][]report.Section {
	sections := make(map[report.SectionType][]report.Section, len(tax.Entries))
	for _, e := range tax.Entries {
		sections[e.Type] = nil
	}

	lines := strings.Split(text, "\n")
	for lineNum, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		for _, e := range tax.Entries {
			for _, keyword := range e.Keywords {
				if strings.Contains(lower, keyword) {
					end := sectionEnd(lines, lineNum)
					sections[e.Type] = append(sections[e.Type], report.Section{
						StartLine: lineNum,
						EndLine:   end,
						Text:      strings.Join(lines[lineNum:end], "\n"),
					})
					break // one section per type per line
				}
			}
		}
	}
	return sections
}

// sectionEnd scans forward from the line after start for the next
// heading, giving up after maxSectionLines.
func sectionEnd(lines []string, start int) int {
	for lineNum := start + 1; lineNum < len(lines); lineNum++ {
		line := strings.TrimSpace(lines[lineNum])
		if line == "" {
			continue
		}
		for _, pat := range headingPatterns {
			if pat.MatchString(line) {
				return lineNum
			}
		}
		if lineNum > start+maxSectionLines {
			return lineNum
		}
	}
	return len(lines)
}
