package relevance

import (
	"strings"

	"reportctx/internal/chunker"
	"reportctx/internal/finance"
	"reportctx/internal/report"
)

// Context is the assembled text handed to a generation backend, plus
// the bookkeeping callers report back to the user.
type Context struct {
	Text        string
	TokenCount  int
	ChunksUsed  int
	TypesChosen []report.SectionType
}

// Assemble builds a query context from a processed document under a
// token budget. When financial metrics were extracted, their summary
// block is prepended first and counts against the budget. Chunks from the selected types follow in
// selection order, each prefixed with its section type. Assembly stops
// on the first chunk that would push the total over budget; it does
// not look ahead for a smaller chunk that might still fit, so the
// result can undershoot the budget.
func Assemble(doc *report.ProcessedDocument, selected []report.SectionType, maxContextTokens int) Context {
	var parts []string
	tokens := 0

	if !doc.FinancialData.Empty() {
		summary := finance.FormatSummary(doc.FinancialData)
		parts = append(parts, "FINANCIAL SUMMARY:\n"+summary)
		tokens += chunker.EstimateTokens(summary)
	}

	used := 0
	for _, typ := range selected {
		stop := false
		for _, chunk := range doc.Chunks[typ] {
			if tokens+chunk.TokenCount > maxContextTokens {
				stop = true
				break
			}
			parts = append(parts, "\n"+strings.ToUpper(string(typ))+":\n"+chunk.Text)
			tokens += chunk.TokenCount
			used++
		}
		if stop {
			break
		}
	}

	return Context{
		Text:        strings.Join(parts, "\n"),
		TokenCount:  tokens,
		ChunksUsed:  used,
		TypesChosen: selected,
	}
}
