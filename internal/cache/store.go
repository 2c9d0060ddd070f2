// Package cache persists extraction results as one JSON file per domain.
// Nothing enters the cache without passing profile validation, and nothing
// leaves it without passing again: a corrupted or outdated file is treated
// as a miss, never as data.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/halcyondata/company-intel/internal/entity"
	"github.com/halcyondata/company-intel/internal/validate"
)

// SchemaVersion is stamped on every record; files with a different version
// are ignored on load.
const SchemaVersion = "2.0.0"

// ErrMiss means no usable cached record exists for the domain.
var ErrMiss = errors.New("cache miss")

// Metadata describes how a cached profile was produced.
type Metadata struct {
	ExtractionMode       string    `json:"extraction_mode"`
	ModelName            string    `json:"model_name"`
	Timestamp            time.Time `json:"timestamp"`
	Offline              bool      `json:"offline"`
	SchemaVersion        string    `json:"schema_version"`
	ExtractionConfidence string    `json:"extraction_confidence"`
	ExtractionStatus     string    `json:"extraction_status"`
}

// Record is the unit of persistence: profile, derived graph, and metadata.
type Record struct {
	Domain   string                `json:"domain"`
	Profile  entity.CompanyProfile `json:"profile"`
	Graph    entity.KnowledgeGraph `json:"graph"`
	Metadata Metadata              `json:"metadata"`
}

// Store is a file-backed cache keyed by domain.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates the cache directory if needed.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Save validates the record's profile and writes it atomically. A profile
// that fails validation leaves no file behind, not even a stale temp file.
func (s *Store) Save(rec *Record) error {
	if err := validate.Profile(&rec.Profile); err != nil {
		return fmt.Errorf("refusing to cache invalid profile for %s: %w", rec.Domain, err)
	}
	if rec.Metadata.SchemaVersion == "" {
		rec.Metadata.SchemaVersion = SchemaVersion
	}
	if rec.Metadata.Timestamp.IsZero() {
		rec.Metadata.Timestamp = time.Now().UTC()
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache record: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+filenameFor(rec.Domain)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	if err := os.Rename(tmpName, s.pathFor(rec.Domain)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to publish cache record: %w", err)
	}
	return nil
}

// Load returns the cached record for the domain. Unreadable, structurally
// invalid, or version-mismatched files count as misses and are logged, so
// the pipeline falls back to a fresh extraction instead of failing.
func (s *Store) Load(domain string) (*Record, error) {
	data, err := os.ReadFile(s.pathFor(domain))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var envelope struct {
		Domain   string          `json:"domain"`
		Profile  json.RawMessage `json:"profile"`
		Graph    json.RawMessage `json:"graph"`
		Metadata Metadata        `json:"metadata"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, s.miss(domain, "cache file is not valid JSON", err)
	}
	if envelope.Metadata.SchemaVersion != SchemaVersion {
		return nil, s.miss(domain, "cache schema version mismatch",
			fmt.Errorf("have %q, want %q", envelope.Metadata.SchemaVersion, SchemaVersion))
	}
	if err := validate.ProfileDocument(envelope.Profile); err != nil {
		return nil, s.miss(domain, "cached profile failed schema validation", err)
	}

	rec := &Record{Domain: envelope.Domain, Metadata: envelope.Metadata}
	if err := json.Unmarshal(envelope.Profile, &rec.Profile); err != nil {
		return nil, s.miss(domain, "cached profile does not decode", err)
	}
	if len(envelope.Graph) > 0 {
		if err := json.Unmarshal(envelope.Graph, &rec.Graph); err != nil {
			return nil, s.miss(domain, "cached graph does not decode", err)
		}
	}
	if err := validate.Profile(&rec.Profile); err != nil {
		return nil, s.miss(domain, "cached profile failed validation", err)
	}
	return rec, nil
}

// Invalidate removes the cached record. Removing a missing record is not
// an error.
func (s *Store) Invalidate(domain string) error {
	err := os.Remove(s.pathFor(domain))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to invalidate cache for %s: %w", domain, err)
	}
	return nil
}

// Has reports whether a readable, valid record exists.
func (s *Store) Has(domain string) bool {
	_, err := s.Load(domain)
	return err == nil
}

// List returns the domains with cache files, in directory order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache directory: %w", err)
	}
	var domains []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		domains = append(domains, strings.TrimSuffix(name, ".json"))
	}
	return domains, nil
}

func (s *Store) miss(domain, reason string, err error) error {
	s.logger.Warn("treating cache entry as miss",
		slog.String("domain", domain),
		slog.String("reason", reason),
		slog.String("error", err.Error()))
	return ErrMiss
}

func (s *Store) pathFor(domain string) string {
	return filepath.Join(s.dir, filenameFor(domain))
}

// filenameFor maps a domain to a safe flat filename. Anything outside the
// hostname alphabet becomes an underscore, which also kills path traversal.
func filenameFor(domain string) string {
	lower := strings.ToLower(strings.TrimSpace(domain))
	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), ".") + ".json"
}
