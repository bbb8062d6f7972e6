package section

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"reportctx/internal/report"
)

// Entry binds one section type to the keyword phrases that open it.
// Keyword order matters: the first phrase found on a line wins.
type Entry struct {
	Type     report.SectionType `yaml:"type"`
	Keywords []string           `yaml:"keywords"`
}

// Taxonomy is the ordered section-type configuration. Order is
// significant: it is the ranking tie-break and the iteration order of
// segmentation, so it must stay stable across runs.
type Taxonomy struct {
	Entries []Entry `yaml:"sections"`
}

// Default returns the built-in taxonomy for Indian-market annual
// reports.
func Default() *Taxonomy {
	return &Taxonomy{Entries: []Entry{
		{Type: report.FinancialStatements, Keywords: []string{
			"financial statements", "consolidated financial statements",
			"standalone financial statements", "balance sheet", "profit and loss",
			"cash flow statement", "notes to accounts",
		}},
		{Type: report.ManagementDiscussion, Keywords: []string{
			"management discussion and analysis", "mda", "directors' report",
			"management commentary", "ceo message", "chairman's statement",
		}},
		{Type: report.RiskFactors, Keywords: []string{
			"risk factors", "risk management", "risks and concerns",
			"business risks", "operational risks",
		}},
		{Type: report.ESG, Keywords: []string{
			"environmental", "social", "governance", "esg", "sustainability",
			"corporate social responsibility", "csr",
		}},
		{Type: report.BusinessOverview, Keywords: []string{
			"business overview", "company overview", "about us",
			"business model", "operational review",
		}},
		{Type: report.CorporateGovernance, Keywords: []string{
			"corporate governance", "board of directors", "board report",
			"governance report",
		}},
	}}
}

// Load reads a taxonomy from a YAML file, falling back to the default
// when path is empty. Unknown section types are rejected so the closed
// enumeration holds.
func Load(path string) (*Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	var tax Taxonomy
	if err := yaml.Unmarshal(data, &tax); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	if len(tax.Entries) == 0 {
		return nil, fmt.Errorf("taxonomy %s defines no sections", path)
	}

	known := make(map[report.SectionType]bool, len(report.TypeOrder))
	for _, t := range report.TypeOrder {
		known[t] = true
	}
	for _, e := range tax.Entries {
		if !known[e.Type] {
			return nil, fmt.Errorf("taxonomy %s: unknown section type %q", path, e.Type)
		}
		if len(e.Keywords) == 0 {
			return nil, fmt.Errorf("taxonomy %s: section %q has no keywords", path, e.Type)
		}
	}
	return &tax, nil
}

// Types returns the section types in declaration order.
func (t *Taxonomy) Types() []report.SectionType {
	out := make([]report.SectionType, len(t.Entries))
	for i, e := range t.Entries {
		out[i] = e.Type
	}
	return out
}
