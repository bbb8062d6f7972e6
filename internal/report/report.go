package report

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// SectionType labels a span of annual-report text. The set is closed;
// keyword configuration decides how each type is detected.
type SectionType string

const (
	FinancialStatements  SectionType = "financial_statements"
	ManagementDiscussion SectionType = "management_discussion"
	RiskFactors          SectionType = "risk_factors"
	ESG                  SectionType = "esg"
	BusinessOverview     SectionType = "business_overview"
	CorporateGovernance  SectionType = "corporate_governance"
)

// TypeOrder is the declaration order of section types. Ranking ties are
// broken by this order, so it is part of the observable behavior.
var TypeOrder = []SectionType{
	FinancialStatements,
	ManagementDiscussion,
	RiskFactors,
	ESG,
	BusinessOverview,
	CorporateGovernance,
}

// Section is a labeled span of document text. Sections of different
// types may overlap in line range; detection is independent per type.
type Section struct {
	StartLine int    `json:"start"`
	EndLine   int    `json:"end"`
	Text      string `json:"text"`
}

// Chunk is a sentence-aligned, token-bounded slice of a section's text.
// Consecutive chunks within a section share an overlap window.
type Chunk struct {
	ChunkID       string `json:"chunk_id"`
	Text          string `json:"text"`
	SectionLabel  string `json:"section_type"`
	StartPos      int    `json:"start_pos"`
	EndPos        int    `json:"end_pos"`
	TokenCount    int    `json:"token_count"`
	SentenceCount int    `json:"sentence_count"`
	Oversized     bool   `json:"oversized,omitempty"`
}

// FinancialData holds the regex-extracted headline metrics. All fields
// are optional; values are kept as the strings found in the document.
type FinancialData struct {
	Revenue   string `json:"revenue,omitempty"`
	NetProfit string `json:"net_profit,omitempty"`
	EPS       string `json:"eps,omitempty"`
}

// Empty reports whether no metric was extracted.
func (f FinancialData) Empty() bool {
	return f.Revenue == "" && f.NetProfit == "" && f.EPS == ""
}

// ProcessedDocument is the cached aggregate of the extraction,
// segmentation, and chunking stages for one document.
type ProcessedDocument struct {
	DocumentID    string                    `json:"document_id"`
	FileName      string                    `json:"file_name"`
	TextLength    int                       `json:"total_text_length"`
	Sections      map[SectionType][]Section `json:"sections"`
	Chunks        map[SectionType][]Chunk   `json:"chunks"`
	FinancialData FinancialData             `json:"financial_data"`
	TotalChunks   int                       `json:"total_chunks"`
	ProcessedAt   time.Time                 `json:"processed_at"`
}

// ChunksFor returns the chunks of one section type in original order.
func (d *ProcessedDocument) ChunksFor(t SectionType) []Chunk {
	return d.Chunks[t]
}

// DocID derives the stable document identity from a filename: the base
// name without its extension.
func DocID(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var yearRe = regexp.MustCompile(`\d{4}`)

// CompanyName guesses a display name from a report filename, e.g.
// "TCS_Annual_Report_2023.pdf" -> "TCS".
func CompanyName(filename string) string {
	name := DocID(filename)
	name = strings.ReplaceAll(name, "_Annual_Report", "")
	name = strings.ReplaceAll(name, "_", " ")
	name = yearRe.ReplaceAllString(name, "")
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "the company"
	}
	return name
}
