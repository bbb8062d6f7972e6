package relevance

import (
	"strings"
	"testing"

	"reportctx/internal/report"
)

func testDoc() *report.ProcessedDocument {
	return &report.ProcessedDocument{
		DocumentID:    "acme_2023",
		FinancialData: report.FinancialData{Revenue: "50000"},
		Chunks: map[report.SectionType][]report.Chunk{
			report.FinancialStatements: {
				{ChunkID: "financial_statements_0_0", Text: "Revenue grew strongly this year.", TokenCount: 8},
				{ChunkID: "financial_statements_0_1", Text: "Margins held steady across segments.", TokenCount: 9},
			},
			report.ManagementDiscussion: {
				{ChunkID: "management_discussion_0_0", Text: "Management expects continued growth.", TokenCount: 8},
			},
		},
	}
}

func TestAssemble_SummaryFirstThenSelectedTypes(t *testing.T) {
	doc := testDoc()
	selected := []report.SectionType{report.FinancialStatements, report.ManagementDiscussion}

	ctx := Assemble(doc, selected, 4000)

	if !strings.HasPrefix(ctx.Text, "FINANCIAL SUMMARY:\nRevenue: ₹50000") {
		t.Fatalf("context should open with the financial summary, got %q", ctx.Text)
	}
	fsIdx := strings.Index(ctx.Text, "FINANCIAL_STATEMENTS:")
	mdIdx := strings.Index(ctx.Text, "MANAGEMENT_DISCUSSION:")
	if fsIdx == -1 || mdIdx == -1 {
		t.Fatalf("expected both section headers in %q", ctx.Text)
	}
	if fsIdx > mdIdx {
		t.Errorf("sections should follow ranker order, got %q", ctx.Text)
	}
	if ctx.ChunksUsed != 3 {
		t.Errorf("expected 3 chunks used, got %d", ctx.ChunksUsed)
	}
}

func TestAssemble_BudgetSmallerThanSummary(t *testing.T) {
	doc := testDoc()
	selected := []report.SectionType{report.FinancialStatements}

	ctx := Assemble(doc, selected, 1)

	if !strings.HasPrefix(ctx.Text, "FINANCIAL SUMMARY:") {
		t.Fatalf("summary should be included even over budget, got %q", ctx.Text)
	}
	if ctx.ChunksUsed != 0 {
		t.Errorf("expected no chunks under a summary-sized budget, got %d", ctx.ChunksUsed)
	}
	if strings.Contains(ctx.Text, "FINANCIAL_STATEMENTS:") {
		t.Errorf("no section content should follow the summary, got %q", ctx.Text)
	}
}

func TestAssemble_StopsOnFirstOverBudgetChunk(t *testing.T) {
	doc := testDoc()
	// A huge chunk sits between two small ones; assembly must stop at
	// it rather than skip ahead to the small chunk after it.
	doc.Chunks[report.FinancialStatements] = []report.Chunk{
		{ChunkID: "financial_statements_0_0", Text: "small first", TokenCount: 3},
		{ChunkID: "financial_statements_0_1", Text: strings.Repeat("x ", 2000), TokenCount: 1000},
		{ChunkID: "financial_statements_0_2", Text: "small last", TokenCount: 3},
	}
	selected := []report.SectionType{report.FinancialStatements, report.ManagementDiscussion}

	ctx := Assemble(doc, selected, 50)

	if !strings.Contains(ctx.Text, "small first") {
		t.Errorf("first in-budget chunk missing from %q", ctx.Text)
	}
	if strings.Contains(ctx.Text, "small last") {
		t.Errorf("assembly must not skip past an over-budget chunk, got %q", ctx.Text)
	}
	if strings.Contains(ctx.Text, "MANAGEMENT_DISCUSSION:") {
		t.Errorf("assembly must stop entirely, not move to the next type, got %q", ctx.Text)
	}
	if ctx.ChunksUsed != 1 {
		t.Errorf("expected 1 chunk used, got %d", ctx.ChunksUsed)
	}
}

func TestAssemble_NoFinancialData(t *testing.T) {
	doc := testDoc()
	doc.FinancialData = report.FinancialData{}

	ctx := Assemble(doc, []report.SectionType{report.ManagementDiscussion}, 4000)

	if strings.Contains(ctx.Text, "FINANCIAL SUMMARY:") {
		t.Errorf("no summary block expected without metrics, got %q", ctx.Text)
	}
	if !strings.Contains(ctx.Text, "MANAGEMENT_DISCUSSION:") {
		t.Errorf("selected chunks missing from %q", ctx.Text)
	}
}

func TestAssemble_TokenCountTracksParts(t *testing.T) {
	doc := testDoc()
	ctx := Assemble(doc, []report.SectionType{report.FinancialStatements}, 4000)

	// Summary body is "Revenue: ₹50000" (17 bytes -> 4 tokens) plus
	// the two financial chunks at 8 and 9 tokens.
	want := 4 + 8 + 9
	if ctx.TokenCount != want {
		t.Errorf("expected token count %d, got %d", want, ctx.TokenCount)
	}
}

func TestAssemble_EmptySelection(t *testing.T) {
	doc := testDoc()
	ctx := Assemble(doc, nil, 4000)

	if ctx.ChunksUsed != 0 {
		t.Errorf("expected no chunks, got %d", ctx.ChunksUsed)
	}
	if !strings.HasPrefix(ctx.Text, "FINANCIAL SUMMARY:") {
		t.Errorf("summary still expected with no selected types, got %q", ctx.Text)
	}
}
