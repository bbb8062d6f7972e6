package relevance

import (
	"fmt"
	"sort"
	"strings"

	"reportctx/internal/report"
)

// QueryError rejects a query before ranking runs.
type QueryError struct {
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query: %s", e.Reason)
}

// queryVocabulary maps each section type to the query terms that mark
// it relevant. Matching is case-insensitive substring over the query.
var queryVocabulary = map[report.SectionType][]string{
	report.FinancialStatements:  {"revenue", "profit", "financial", "earnings", "performance", "growth"},
	report.ManagementDiscussion: {"management", "strategy", "outlook", "future", "plans", "commentary"},
	report.RiskFactors:          {"risk", "challenge", "uncertainty", "threat", "concern"},
	report.ESG:                  {"environmental", "social", "governance", "sustainability", "csr", "esg"},
	report.BusinessOverview:     {"business", "operations", "market", "industry", "overview"},
	report.CorporateGovernance:  {"governance", "board", "directors", "compliance"},
}

const maxSelectedTypes = 3

// Rank scores section types against a free-text query and returns the
// types whose chunks should feed context assembly, in selection order.
//
// The top three types with a positive score are selected, highest
// score first. Ties keep the fixed declaration order of the section
// types, so ranking is deterministic for any query. management
// discussion is always appended when the document has chunks for it,
// whether or not the query scored it.
func Rank(query string, chunks map[report.SectionType][]report.Chunk) ([]report.SectionType, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &QueryError{Reason: "query is empty"}
	}

	queryLower := strings.ToLower(query)

	type scored struct {
		typ   report.SectionType
		score int
		order int
	}
	var candidates []scored
	for i, typ := range report.TypeOrder {
		score := 0
		for _, term := range queryVocabulary[typ] {
			if strings.Contains(queryLower, term) {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{typ: typ, score: score, order: i})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].order < candidates[j].order
	})

	// Cap before filtering for chunk presence: a scored type with no
	// chunks still consumes one of the three slots.
	if len(candidates) > maxSelectedTypes {
		candidates = candidates[:maxSelectedTypes]
	}
	var selected []report.SectionType
	for _, c := range candidates {
		if len(chunks[c.typ]) == 0 {
			continue
		}
		selected = append(selected, c.typ)
	}

	// Management commentary is treated as relevant to every query.
	if len(chunks[report.ManagementDiscussion]) > 0 && !contains(selected, report.ManagementDiscussion) {
		selected = append(selected, report.ManagementDiscussion)
	}

	return selected, nil
}

func contains(types []report.SectionType, typ report.SectionType) bool {
	for _, t := range types {
		if t == typ {
			return true
		}
	}
	return false
}
