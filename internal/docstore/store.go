package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"reportctx/internal/report"
)

// CacheReadError marks a cache entry that exists but cannot be used.
// Callers treat it as a miss and reprocess.
type CacheReadError struct {
	DocumentID string
	Err        error
}

func (e *CacheReadError) Error() string {
	return fmt.Sprintf("read cache for %s: %v", e.DocumentID, e.Err)
}

func (e *CacheReadError) Unwrap() error {
	return e.Err
}

// CacheWriteError marks a failed cache persist. Non-fatal: the freshly
// computed document is still returned to the caller.
type CacheWriteError struct {
	DocumentID string
	Err        error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("write cache for %s: %v", e.DocumentID, e.Err)
}

func (e *CacheWriteError) Unwrap() error {
	return e.Err
}

// ComputeFunc runs the full processing pass for a document on a cache
// miss (or forced refresh).
type ComputeFunc func(ctx context.Context) (*report.ProcessedDocument, error)

// Store persists ProcessedDocument aggregates keyed by document id.
// Entries live as one JSON file per document under dir; when a pgx
// pool is configured the same entries are mirrored to Postgres and
// reads prefer the database. Cached entries are never invalidated by
// source changes: only an explicit force recomputes.
type Store struct {
	dir  string
	pool *pgxpool.Pool
	log  *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(dir string, pool *pgxpool.Pool, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Store{
		dir:   dir,
		pool:  pool,
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// Schema is the table backing the Postgres mirror.
const Schema = `
CREATE TABLE IF NOT EXISTS processed_documents (
	document_id TEXT PRIMARY KEY,
	data        JSONB NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// GetOrProcess returns the cached document for docID, or runs compute
// and caches the result. With force false an existing entry is
// returned without touching the document source at all; there is no
// hash or mtime comparison. A corrupt entry logs a warning and counts
// as a miss. A failed write logs and the fresh result is returned
// unpersisted. At most one compute runs per document id at a time.
func (s *Store) GetOrProcess(ctx context.Context, docID string, force bool, compute ComputeFunc) (*report.ProcessedDocument, error) {
	lock := s.lockFor(docID)
	lock.Lock()
	defer lock.Unlock()

	if !force {
		doc, err := s.load(ctx, docID)
		if err != nil {
			s.log.Warn("cache entry unreadable, reprocessing",
				"document_id", docID, "error", err)
		} else if doc != nil {
			s.log.Debug("cache hit", "document_id", docID)
			return doc, nil
		}
	}

	doc, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, doc); err != nil {
		s.log.Error("cache write failed, returning unpersisted result",
			"document_id", docID, "error", err)
	}
	return doc, nil
}

// Get returns a cached document without computing, or nil on miss.
func (s *Store) Get(ctx context.Context, docID string) (*report.ProcessedDocument, error) {
	lock := s.lockFor(docID)
	lock.Lock()
	defer lock.Unlock()
	return s.load(ctx, docID)
}

// Delete drops the cache entry for docID. Missing entries are not an
// error.
func (s *Store) Delete(ctx context.Context, docID string) error {
	lock := s.lockFor(docID)
	lock.Lock()
	defer lock.Unlock()

	if s.pool != nil {
		if _, err := s.pool.Exec(ctx, `DELETE FROM processed_documents WHERE document_id = $1`, docID); err != nil {
			return fmt.Errorf("delete db entry %s: %w", docID, err)
		}
	}
	if err := os.Remove(s.entryPath(docID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete cache file %s: %w", docID, err)
	}
	return nil
}

// List returns the ids of every cached document.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if s.pool != nil {
		rows, err := s.pool.Query(ctx, `SELECT document_id FROM processed_documents ORDER BY document_id`)
		if err != nil {
			return nil, fmt.Errorf("list db entries: %w", err)
		}
		defer rows.Close()

		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return nil, fmt.Errorf("scan document id: %w", err)
			}
			ids = append(ids, id)
		}
		return ids, rows.Err()
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list cache dir: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, "_processed.json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, "_processed.json"))
	}
	return ids, nil
}

func (s *Store) lockFor(docID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[docID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[docID] = lock
	}
	return lock
}

func (s *Store) entryPath(docID string) string {
	return filepath.Join(s.dir, docID+"_processed.json")
}

func (s *Store) load(ctx context.Context, docID string) (*report.ProcessedDocument, error) {
	if s.pool != nil {
		var data []byte
		err := s.pool.QueryRow(ctx,
			`SELECT data FROM processed_documents WHERE document_id = $1`, docID).Scan(&data)
		if err == nil {
			var doc report.ProcessedDocument
			if err := json.Unmarshal(data, &doc); err != nil {
				return nil, &CacheReadError{DocumentID: docID, Err: err}
			}
			return &doc, nil
		}
		// DB miss or unreachable falls through to the file copy.
	}

	data, err := os.ReadFile(s.entryPath(docID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &CacheReadError{DocumentID: docID, Err: err}
	}
	var doc report.ProcessedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CacheReadError{DocumentID: docID, Err: err}
	}
	return &doc, nil
}

func (s *Store) save(ctx context.Context, doc *report.ProcessedDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &CacheWriteError{DocumentID: doc.DocumentID, Err: err}
	}

	if s.pool != nil {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO processed_documents (document_id, data)
			VALUES ($1, $2)
			ON CONFLICT (document_id)
			DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
			doc.DocumentID, data)
		if err != nil {
			return &CacheWriteError{DocumentID: doc.DocumentID, Err: err}
		}
	}

	if err := os.WriteFile(s.entryPath(doc.DocumentID), data, 0o644); err != nil {
		return &CacheWriteError{DocumentID: doc.DocumentID, Err: err}
	}
	return nil
}
