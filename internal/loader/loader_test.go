package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeSnapshot(t *testing.T, dataDir, domain string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(dataDir, domain)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
}

func TestCompaniesSorted(t *testing.T) {
	dataDir := t.TempDir()
	writeSnapshot(t, dataDir, "zeta.com", map[string]string{"index.html": "<html></html>"})
	writeSnapshot(t, dataDir, "acme.com", map[string]string{"index.html": "<html></html>"})

	l := New(dataDir)
	companies, err := l.Companies()
	if err != nil {
		t.Fatalf("companies failed: %v", err)
	}
	if len(companies) != 2 || companies[0] != "acme.com" || companies[1] != "zeta.com" {
		t.Fatalf("unexpected companies: %#v", companies)
	}
}

func TestCompaniesEmptyWhenDataDirMissing(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "nope"))
	companies, err := l.Companies()
	if err != nil || len(companies) != 0 {
		t.Fatalf("expected empty list, got %#v, %v", companies, err)
	}
}

func TestLoadReadsOnlyHTMLSorted(t *testing.T) {
	dataDir := t.TempDir()
	writeSnapshot(t, dataDir, "acme.com", map[string]string{
		"index.html": "<html>home</html>",
		"about.htm":  "<html>about</html>",
		"notes.txt":  "ignore me",
	})

	l := New(dataDir)
	pages, err := l.Load("acme.com")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %#v", pages)
	}
	if pages[0].Filename != "about.htm" || pages[1].Filename != "index.html" {
		t.Fatalf("pages must be sorted by filename: %#v", pages)
	}
}

func TestLoadMissingDomain(t *testing.T) {
	l := New(t.TempDir())
	if _, err := l.Load("nosuch.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadEmptySnapshotIsNotFound(t *testing.T) {
	dataDir := t.TempDir()
	writeSnapshot(t, dataDir, "empty.com", map[string]string{"readme.txt": "no pages"})

	l := New(dataDir)
	if _, err := l.Load("empty.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for snapshot without HTML, got %v", err)
	}
}

func TestLoadRejectsPathTraversal(t *testing.T) {
	l := New(t.TempDir())
	for _, domain := range []string{"../etc", "a/b", `a\b`, "..", ""} {
		if _, err := l.Load(domain); !errors.Is(err, ErrBadDomain) {
			t.Fatalf("expected ErrBadDomain for %q, got %v", domain, err)
		}
	}
}

func TestExists(t *testing.T) {
	dataDir := t.TempDir()
	writeSnapshot(t, dataDir, "acme.com", map[string]string{"index.html": "<html></html>"})

	l := New(dataDir)
	if !l.Exists("acme.com") {
		t.Fatalf("expected snapshot to exist")
	}
	if l.Exists("nosuch.com") || l.Exists("../acme.com") {
		t.Fatalf("unexpected existence report")
	}
}
