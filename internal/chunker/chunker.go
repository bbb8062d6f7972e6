package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"reportctx/internal/report"
)

// Config controls chunking behavior.
type Config struct {
	MaxChunkTokens int // Token budget per chunk.
	OverlapTokens  int // Overlap window between consecutive chunks.
}

// DefaultConfig returns the standard budgets.
func DefaultConfig() Config {
	return Config{
		MaxChunkTokens: 1000,
		OverlapTokens:  100,
	}
}

// ChunkSection splits one section's text into sentence-aligned chunks
// under the token budget. Consecutive chunks share an overlap window:
// the tail words of chunk n reappear at the head of chunk n+1. A single
// sentence that alone exceeds the budget is emitted unsplit and flagged
// oversized. Single pass, no backtracking.
func ChunkSection(text, label string, cfg Config) []report.Chunk {
	if cfg.MaxChunkTokens <= 0 {
		cfg.MaxChunkTokens = 1000
	}
	if cfg.OverlapTokens <= 0 {
		cfg.OverlapTokens = 100
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []report.Chunk
	var current string
	start := 0
	seq := 0

	seal := func() {
		sealed := strings.TrimSpace(current)
		tokens := EstimateTokens(sealed)
		chunks = append(chunks, report.Chunk{
			ChunkID:       fmt.Sprintf("%s_%d", label, seq),
			Text:          sealed,
			SectionLabel:  label,
			StartPos:      start,
			EndPos:        start + len(sealed),
			TokenCount:    tokens,
			SentenceCount: sentenceCount(sealed),
			Oversized:     tokens > cfg.MaxChunkTokens,
		})
		seq++
	}

	for _, sentence := range sentences {
		test := sentence
		if current != "" {
			test = current + " " + sentence
		}

		if EstimateTokens(test) > cfg.MaxChunkTokens && current != "" {
			seal()
			// Seed the next buffer with the overlap window so context
			// survives the boundary. Offsets include the overlap text.
			overlap := overlapText(current, cfg.OverlapTokens)
			prevEnd := start + len(strings.TrimSpace(current))
			start = prevEnd - len(overlap)
			if overlap != "" {
				current = overlap + " " + sentence
			} else {
				current = sentence
			}
		} else {
			current = test
		}
	}

	if strings.TrimSpace(current) != "" {
		seal()
	}
	return chunks
}

// ChunkSections chunks every section occurrence, labeling chunks
// "{type}_{occurrence}" so repeated sections stay distinguishable.
func ChunkSections(sections map[report.SectionType][]report.Section, order []report.SectionType, cfg Config) (map[report.SectionType][]report.Chunk, int) {
	out := make(map[report.SectionType][]report.Chunk, len(sections))
	total := 0
	for _, typ := range order {
		for i, sec := range sections[typ] {
			label := fmt.Sprintf("%s_%d", typ, i)
			chunks := ChunkSection(sec.Text, label, cfg)
			if len(chunks) == 0 {
				continue
			}
			out[typ] = append(out[typ], chunks...)
			total += len(chunks)
		}
	}
	return out, total
}

// splitSentences splits on sentence-ending punctuation followed by
// whitespace, keeping the punctuation with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
			}
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// overlapText returns the trailing words of text sized to roughly
// overlapTokens, using words as a token proxy (overlapTokens/4 words).
func overlapText(text string, overlapTokens int) string {
	words := strings.Fields(text)
	n := overlapTokens / 4
	if n <= 0 || len(words) == 0 {
		return ""
	}
	if n > len(words) {
		n = len(words)
	}
	return strings.Join(words[len(words)-n:], " ")
}

// sentenceCount approximates sentences as period-delimited segments.
func sentenceCount(text string) int {
	return strings.Count(text, ".") + 1
}
