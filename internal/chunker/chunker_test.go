package chunker

import (
	"fmt"
	"strings"
	"testing"

	"reportctx/internal/report"
)

func TestChunkSection_SmallTextFitsOneChunk(t *testing.T) {
	text := "Revenue grew 12% in the year. Margins held steady despite input costs."
	chunks := ChunkSection(text, "financial_statements_0", DefaultConfig())

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	c := chunks[0]
	if c.ChunkID != "financial_statements_0_0" {
		t.Errorf("expected chunk id financial_statements_0_0, got %q", c.ChunkID)
	}
	if c.SectionLabel != "financial_statements_0" {
		t.Errorf("unexpected section label %q", c.SectionLabel)
	}
	if c.TokenCount != EstimateTokens(c.Text) {
		t.Errorf("token count %d does not match estimate %d", c.TokenCount, EstimateTokens(c.Text))
	}
	if c.Oversized {
		t.Error("small chunk should not be flagged oversized")
	}
}

func TestChunkSection_SplitsWithOverlap(t *testing.T) {
	// Ten ~60-char sentences against a 25-token (~100-char) budget.
	var sentences []string
	for i := 0; i < 10; i++ {
		sentences = append(sentences, fmt.Sprintf(
			"Sentence number %d covers operating performance in detail here.", i))
	}
	text := strings.Join(sentences, " ")

	cfg := Config{MaxChunkTokens: 25, OverlapTokens: 16}
	chunks := ChunkSection(text, "management_discussion_0", cfg)

	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if want := fmt.Sprintf("management_discussion_0_%d", i); c.ChunkID != want {
			t.Errorf("chunk %d: expected id %q, got %q", i, want, c.ChunkID)
		}
		if !c.Oversized && c.TokenCount > cfg.MaxChunkTokens {
			t.Errorf("chunk %d: %d tokens exceeds budget %d without oversized flag",
				i, c.TokenCount, cfg.MaxChunkTokens)
		}
	}

	// Offsets increase monotonically.
	for i := 1; i < len(chunks); i++ {
		if chunks[i].StartPos <= chunks[i-1].StartPos {
			t.Errorf("chunk %d: start %d not after previous start %d",
				i, chunks[i].StartPos, chunks[i-1].StartPos)
		}
	}

	// The tail of chunk n reappears at the head of chunk n+1
	// (overlap window of OverlapTokens/4 words).
	for i := 1; i < len(chunks); i++ {
		prevWords := strings.Fields(chunks[i-1].Text)
		overlapWords := cfg.OverlapTokens / 4
		if len(prevWords) < overlapWords {
			continue
		}
		wantPrefix := strings.Join(prevWords[len(prevWords)-overlapWords:], " ")
		if !strings.HasPrefix(chunks[i].Text, wantPrefix) {
			t.Errorf("chunk %d should start with overlap %q, got %q",
				i, wantPrefix, chunks[i].Text[:min(len(chunks[i].Text), 80)])
		}
	}
}

func TestChunkSection_StrippedChunksReconstituteSection(t *testing.T) {
	var sentences []string
	for i := 0; i < 12; i++ {
		sentences = append(sentences, fmt.Sprintf(
			"Quarter %d saw revenue and margin movements worth noting here.", i))
	}
	text := strings.Join(sentences, " ")

	cfg := Config{MaxChunkTokens: 30, OverlapTokens: 16}
	chunks := ChunkSection(text, "financial_statements_0", cfg)
	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}

	// Dropping each chunk's overlap prefix and concatenating must give
	// back the section text: no sentence lost or repeated at any
	// chunk boundary.
	parts := []string{chunks[0].Text}
	for i := 1; i < len(chunks); i++ {
		body := chunks[i].Text
		if overlap := overlapText(chunks[i-1].Text, cfg.OverlapTokens); overlap != "" {
			prefix := overlap + " "
			if !strings.HasPrefix(body, prefix) {
				t.Fatalf("chunk %d does not start with its overlap window: %q", i, body)
			}
			body = strings.TrimPrefix(body, prefix)
		}
		parts = append(parts, body)
	}

	got := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	want := strings.Join(strings.Fields(text), " ")
	if got != want {
		t.Errorf("stripped chunks do not reconstitute the section:\n got %q\nwant %q", got, want)
	}
}

func TestChunkSection_OversizedSentenceNotSplit(t *testing.T) {
	cfg := Config{MaxChunkTokens: 100, OverlapTokens: 20}
	// One unbroken sentence just past the budget.
	text := strings.Repeat("a", cfg.MaxChunkTokens*4+5)

	chunks := ChunkSection(text, "risk_factors_0", cfg)
	if len(chunks) != 1 {
		t.Fatalf("expected exactly 1 chunk, got %d", len(chunks))
	}
	if !chunks[0].Oversized {
		t.Error("expected oversized flag on over-budget single sentence")
	}
	if chunks[0].Text != text {
		t.Error("oversized sentence must not be split or altered")
	}
}

func TestChunkSection_ExactBudgetBoundaryNotOversized(t *testing.T) {
	cfg := Config{MaxChunkTokens: 100, OverlapTokens: 20}
	// 401 chars estimates to exactly 100 tokens under integer division.
	text := strings.Repeat("a", cfg.MaxChunkTokens*4+1)

	chunks := ChunkSection(text, "risk_factors_0", cfg)
	if len(chunks) != 1 {
		t.Fatalf("expected exactly 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Oversized {
		t.Error("chunk at the estimate boundary should not be oversized")
	}
}

func TestChunkSection_EmptyText(t *testing.T) {
	if chunks := ChunkSection("", "esg_0", DefaultConfig()); chunks != nil {
		t.Errorf("expected nil for empty text, got %d chunks", len(chunks))
	}
	if chunks := ChunkSection("   \n ", "esg_0", DefaultConfig()); chunks != nil {
		t.Errorf("expected nil for blank text, got %d chunks", len(chunks))
	}
}

func TestChunkSections_LabelsPerOccurrence(t *testing.T) {
	sections := map[report.SectionType][]report.Section{
		report.FinancialStatements: {
			{StartLine: 0, EndLine: 2, Text: "Consolidated results improved."},
			{StartLine: 10, EndLine: 12, Text: "Standalone results also improved."},
		},
		report.RiskFactors: {
			{StartLine: 20, EndLine: 22, Text: "Currency risk persists."},
		},
	}

	chunks, total := ChunkSections(sections, report.TypeOrder, DefaultConfig())
	if total != 3 {
		t.Fatalf("expected 3 chunks total, got %d", total)
	}

	fin := chunks[report.FinancialStatements]
	if len(fin) != 2 {
		t.Fatalf("expected 2 financial chunks, got %d", len(fin))
	}
	if fin[0].ChunkID != "financial_statements_0_0" {
		t.Errorf("unexpected first id %q", fin[0].ChunkID)
	}
	if fin[1].ChunkID != "financial_statements_1_0" {
		t.Errorf("unexpected second occurrence id %q", fin[1].ChunkID)
	}
}

func TestEstimateTokens(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abcd", 1},
		{"abcde", 1},
		{strings.Repeat("x", 4000), 1000},
	}
	for _, tc := range cases {
		if got := EstimateTokens(tc.text); got != tc.want {
			t.Errorf("EstimateTokens(len %d): expected %d, got %d", len(tc.text), tc.want, got)
		}
	}
}
