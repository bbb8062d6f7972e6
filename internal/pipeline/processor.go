package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"reportctx/internal/chunker"
	"reportctx/internal/docstore"
	"reportctx/internal/finance"
	"reportctx/internal/generate"
	"reportctx/internal/parser"
	"reportctx/internal/relevance"
	"reportctx/internal/report"
	"reportctx/internal/section"
)

// Processor runs the report pipeline: extract, segment, chunk, cache,
// and answer queries against the cached aggregate.
type Processor struct {
	store    *docstore.Store
	taxonomy *section.Taxonomy
	gen      generate.Generator
	stats    *generate.Stats
	log      *slog.Logger

	chunkCfg         chunker.Config
	maxContextTokens int
}

func NewProcessor(store *docstore.Store, taxonomy *section.Taxonomy, gen generate.Generator, stats *generate.Stats, chunkCfg chunker.Config, maxContextTokens int, log *slog.Logger) *Processor {
	return &Processor{
		store:            store,
		taxonomy:         taxonomy,
		gen:              gen,
		stats:            stats,
		log:              log,
		chunkCfg:         chunkCfg,
		maxContextTokens: maxContextTokens,
	}
}

// PhaseFunc observes pipeline phase transitions during processing.
type PhaseFunc func(phase string)

// ProcessUpload extracts, segments, chunks and caches one uploaded
// document. With force false a cached aggregate short-circuits the
// whole pass without touching the upload bytes.
func (p *Processor) ProcessUpload(ctx context.Context, filename string, data []byte, force bool, onPhase PhaseFunc) (*report.ProcessedDocument, error) {
	if onPhase == nil {
		onPhase = func(string) {}
	}
	docID := report.DocID(filename)

	return p.store.GetOrProcess(ctx, docID, force, func(ctx context.Context) (*report.ProcessedDocument, error) {
		start := time.Now()

		onPhase("extracting")
		text, err := parser.Extract(bytes.NewReader(data), filename)
		if err != nil {
			return nil, err
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		onPhase("segmenting")
		sections := section.FindSections(text, p.taxonomy)

		onPhase("chunking")
		chunks, total := chunker.ChunkSections(sections, p.taxonomy.Types(), p.chunkCfg)

		doc := &report.ProcessedDocument{
			DocumentID:    docID,
			FileName:      filename,
			TextLength:    len(text),
			Sections:      sections,
			Chunks:        chunks,
			FinancialData: finance.ExtractMetrics(text),
			TotalChunks:   total,
			ProcessedAt:   time.Now().UTC(),
		}

		onPhase("caching")
		p.log.Info("document processed",
			"document_id", docID,
			"text_length", doc.TextLength,
			"section_types", len(sections),
			"total_chunks", total,
			"duration_ms", time.Since(start).Milliseconds())
		return doc, nil
	})
}

// QueryResult is the payload returned for one query. Generation
// failures are captured here with success=false, never as an error.
type QueryResult struct {
	Success              bool   `json:"success"`
	Response             string `json:"response"`
	Query                string `json:"query"`
	CompanyName          string `json:"company_name"`
	Timestamp            string `json:"timestamp"`
	ContextTokens        int    `json:"context_tokens"`
	TotalChunksAvailable int    `json:"total_chunks_available"`
}

// Query answers a free-text question against a cached document. The
// document must already have been processed; rank and assembly are
// pure reads, so concurrent queries for the same document are fine.
func (p *Processor) Query(ctx context.Context, docID, query, companyName string) (*QueryResult, error) {
	doc, err := p.store.Get(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document %s has not been processed", docID)
	}
	if companyName == "" {
		companyName = report.CompanyName(doc.FileName)
	}

	selected, err := relevance.Rank(query, doc.Chunks)
	if err != nil {
		return nil, err
	}
	assembled := relevance.Assemble(doc, selected, p.maxContextTokens)

	result := &QueryResult{
		Query:                query,
		CompanyName:          companyName,
		Timestamp:            time.Now().UTC().Format(time.RFC3339),
		ContextTokens:        chunker.EstimateTokens(assembled.Text),
		TotalChunksAvailable: doc.TotalChunks,
	}

	prompt := generate.BuildPrompt(assembled.Text, query, companyName)

	start := time.Now()
	answer, err := p.gen.Generate(ctx, prompt)
	if err != nil {
		p.stats.RecordFailure()
		p.log.Warn("generation failed",
			"document_id", docID, "error", err)
		result.Success = false
		result.Response = fmt.Sprintf("Unable to generate an answer: %v", err)
		return result, nil
	}
	p.stats.Record(time.Since(start).Milliseconds())

	result.Success = true
	result.Response = answer
	return result, nil
}

// Sections lists the section occurrences of a processed document.
func (p *Processor) Sections(ctx context.Context, docID string) (map[report.SectionType]int, error) {
	doc, err := p.store.Get(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document %s has not been processed", docID)
	}
	counts := make(map[report.SectionType]int, len(doc.Sections))
	for typ, secs := range doc.Sections {
		if len(secs) > 0 {
			counts[typ] = len(secs)
		}
	}
	return counts, nil
}

// Financials returns the extracted headline metrics of a document.
func (p *Processor) Financials(ctx context.Context, docID string) (report.FinancialData, error) {
	doc, err := p.store.Get(ctx, docID)
	if err != nil {
		return report.FinancialData{}, err
	}
	if doc == nil {
		return report.FinancialData{}, fmt.Errorf("document %s has not been processed", docID)
	}
	return doc.FinancialData, nil
}

// Store exposes the document store for maintenance handlers.
func (p *Processor) Store() *docstore.Store {
	return p.store
}

// GeneratorAvailable reports whether the generation backend is ready.
func (p *Processor) GeneratorAvailable(ctx context.Context) bool {
	return p.gen.Available(ctx)
}

// GenerationStats returns a snapshot of recent generation calls.
func (p *Processor) GenerationStats() generate.StatsSnapshot {
	return p.stats.Snapshot()
}
