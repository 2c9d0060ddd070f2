package cache

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/halcyondata/company-intel/internal/entity"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(dir, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s, dir
}

func testRecord(domain string) *Record {
	return &Record{
		Domain: domain,
		Profile: entity.CompanyProfile{
			CompanyName:      "Acme",
			Domain:           domain,
			ShortDescription: "Makes tools.",
			LongDescription:  "Makes tools for builders.",
			Industry:         "Software",
			SubIndustry:      entity.NotFound,
			LogoURL:          entity.NotFound,
			ContactInformation: entity.ContactDetails{
				PhysicalAddress: entity.NotFound,
				City:            entity.NotFound,
				Country:         entity.NotFound,
				ContactPage:     entity.NotFound,
			},
			PeopleStatus:        entity.StatusValidatedAbsent,
			SocialStatus:        entity.StatusValidatedAbsent,
			CertificationStatus: entity.StatusValidatedAbsent,
			Locations: []entity.Location{{
				Type:    entity.LocationHQ,
				Address: entity.NotFound,
				City:    entity.NotFound,
				Country: entity.NotFound,
			}},
		},
		Metadata: Metadata{
			ExtractionMode:       "tiered",
			ModelName:            "llama3",
			ExtractionConfidence: entity.ConfidenceMedium,
			ExtractionStatus:     entity.ExtractionComplete,
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.Save(testRecord("acme.com")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	rec, err := s.Load("acme.com")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if rec.Profile.CompanyName != "Acme" {
		t.Fatalf("unexpected profile: %#v", rec.Profile)
	}
	if rec.Metadata.SchemaVersion != SchemaVersion {
		t.Fatalf("expected schema version stamped, got %q", rec.Metadata.SchemaVersion)
	}
	if rec.Metadata.Timestamp.IsZero() {
		t.Fatalf("expected timestamp stamped")
	}
}

func TestSaveRejectsInvalidProfileAndWritesNothing(t *testing.T) {
	s, dir := newTestStore(t)
	rec := testRecord("acme.com")
	rec.Profile.Industry = "" // violates the no-empty-field rule

	if err := s.Save(rec); err == nil {
		t.Fatalf("expected validation error")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("invalid profile must leave no file behind, found %d entries", len(entries))
	}
}

func TestLoadMissingDomainIsMiss(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.Load("nosuch.com"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}

func TestLoadCorruptedFileIsMiss(t *testing.T) {
	s, dir := newTestStore(t)
	if err := os.WriteFile(filepath.Join(dir, "bad.com.json"), []byte("{ not json"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := s.Load("bad.com"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss for corrupted file, got %v", err)
	}
}

func TestLoadSchemaVersionMismatchIsMiss(t *testing.T) {
	s, _ := newTestStore(t)
	rec := testRecord("old.com")
	rec.Metadata.SchemaVersion = "1.0.0"
	if err := s.Save(rec); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := s.Load("old.com"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss for old schema version, got %v", err)
	}
}

func TestLoadRevalidatesProfile(t *testing.T) {
	s, dir := newTestStore(t)
	if err := s.Save(testRecord("acme.com")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Corrupt the stored profile behind the store's back.
	path := filepath.Join(dir, "acme.com.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	tampered := strings.Replace(string(data), `"industry": "Software"`, `"industry": ""`, 1)
	if err := os.WriteFile(path, []byte(tampered), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := s.Load("acme.com"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss for tampered profile, got %v", err)
	}
}

func TestInvalidateIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.Save(testRecord("acme.com")); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Invalidate("acme.com"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	if err := s.Invalidate("acme.com"); err != nil {
		t.Fatalf("second invalidate must not fail: %v", err)
	}
	if s.Has("acme.com") {
		t.Fatalf("record must be gone after invalidation")
	}
}

func TestFilenameForBlocksPathTraversal(t *testing.T) {
	got := filenameFor("../../etc/passwd")
	if got != "_.._etc_passwd.json" {
		t.Fatalf("unexpected sanitized name: %q", got)
	}
}

func TestListReturnsSavedDomains(t *testing.T) {
	s, _ := newTestStore(t)
	for _, d := range []string{"a.com", "b.com"} {
		rec := testRecord(d)
		rec.Profile.Domain = d
		if err := s.Save(rec); err != nil {
			t.Fatalf("save %s failed: %v", d, err)
		}
	}
	domains, err := s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(domains) != 2 {
		t.Fatalf("expected 2 domains, got %#v", domains)
	}
}
