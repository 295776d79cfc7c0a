package spool

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docfind/internal/core/domain"
)

// maxLineBytes caps one NDJSON line; longer lines fail the scan.
const maxLineBytes = 16 * 1024 * 1024

// Record is one decoded NDJSON line. It carries either a document to
// index or, when Deleted is set, the ID of a document to remove.
type Record struct {
	Deleted  bool
	Document domain.IndexedDocument
}

// wireRecord is the NDJSON shape the document pipeline writes.
type wireRecord struct {
	ID          string         `json:"id"`
	Deleted     bool           `json:"deleted"`
	Path        string         `json:"path"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Description string         `json:"description"`
	Format      string         `json:"format"`
	Category    string         `json:"category"`
	Status      string         `json:"status"`
	Tags        []string       `json:"tags"`
	Keywords    []string       `json:"keywords"`
	ContentHash string         `json:"content_hash"`
	Size        int64          `json:"size"`
	Score       float64        `json:"score"`
	CreatedAt   time.Time      `json:"created_at"`
	ModifiedAt  time.Time      `json:"modified_at"`
	Metadata    map[string]any `json:"metadata"`
}

// ReadAll decodes NDJSON records from r. Blank lines are skipped. On a
// malformed line it returns the records decoded so far together with an
// error naming the line, so callers can ingest the good part of a drop
// and report the rest.
func ReadAll(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var records []Record
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		var wire wireRecord
		if err := json.Unmarshal([]byte(raw), &wire); err != nil {
			return records, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := wire.toRecord()
		if err != nil {
			return records, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("line %d: %w", line+1, err)
	}
	return records, nil
}

// ReadFile decodes NDJSON records from the drop at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open drop: %w", err)
	}
	defer f.Close() //nolint:errcheck

	records, err := ReadAll(f)
	if err != nil {
		return records, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// toRecord converts a wire record to its domain form. A missing ID
// falls back to a UUID derived from the path, so re-reading the same
// drop upserts instead of duplicating.
func (w wireRecord) toRecord() (Record, error) {
	if w.Deleted {
		if w.ID == "" {
			return Record{}, fmt.Errorf("%w: deletion record without id", domain.ErrInvalidInput)
		}
		return Record{Deleted: true, Document: domain.IndexedDocument{ID: w.ID}}, nil
	}

	id := w.ID
	if id == "" {
		if w.Path != "" {
			id = uuid.NewSHA1(uuid.NameSpaceURL, []byte(w.Path)).String()
		} else {
			id = uuid.NewString()
		}
	}

	return Record{Document: domain.IndexedDocument{
		ID:          id,
		Path:        w.Path,
		Title:       w.Title,
		Content:     w.Content,
		Description: w.Description,
		Format:      w.Format,
		Category:    w.Category,
		Status:      w.Status,
		Tags:        w.Tags,
		Keywords:    w.Keywords,
		ContentHash: w.ContentHash,
		Size:        w.Size,
		Score:       w.Score,
		CreatedAt:   w.CreatedAt,
		ModifiedAt:  w.ModifiedAt,
		Metadata:    w.Metadata,
	}}, nil
}
