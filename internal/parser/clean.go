package parser

import (
	"regexp"
	"strings"
)

// Cleaning patterns for extracted report text. Page artifacts are the
// running headers/footers PDF extraction tends to leave behind.
var (
	pageOfRe    = regexp.MustCompile(`(?i)\b\d+\s*of\s*\d+\b`)
	pageNumRe   = regexp.MustCompile(`(?i)\bPage\s+\d+\b`)
	disallowRe  = regexp.MustCompile(`[^\p{L}\p{N}_\s.,;:!?\-()\[\]{}%$€₹]`)
	hspaceRe    = regexp.MustCompile(`[ \t]+`)
	blankRunsRe = regexp.MustCompile(`\n{2,}`)
)

// Normalize cleans extracted text for segmentation: page artifacts and
// characters outside the allow-list are stripped, horizontal whitespace
// runs collapse to a single space, blank-line runs collapse away.
// Line breaks are kept — the segmenter works line by line.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\f", "\n")
	text = pageOfRe.ReplaceAllString(text, "")
	text = pageNumRe.ReplaceAllString(text, "")
	text = disallowRe.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(hspaceRe.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = blankRunsRe.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
