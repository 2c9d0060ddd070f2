// Package loader reads offline website snapshots from disk. Each company
// lives in its own directory named after the domain and holds the crawled
// HTML pages.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/halcyondata/company-intel/internal/entity"
)

// ErrNotFound means no snapshot directory exists for the domain.
var ErrNotFound = errors.New("company snapshot not found")

// ErrBadDomain means the domain cannot be used as a directory name.
var ErrBadDomain = errors.New("invalid domain name")

// Loader lists and loads company snapshots under a single data directory.
type Loader struct {
	dataDir string
}

// New builds a loader rooted at dataDir.
func New(dataDir string) *Loader {
	return &Loader{dataDir: dataDir}
}

// Companies returns the snapshot directory names, sorted.
func (l *Loader) Companies() ([]string, error) {
	entries, err := os.ReadDir(l.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list data directory: %w", err)
	}
	var companies []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			companies = append(companies, e.Name())
		}
	}
	sort.Strings(companies)
	return companies, nil
}

// Exists reports whether a snapshot directory is present for the domain.
func (l *Loader) Exists(domain string) bool {
	dir, err := l.dirFor(domain)
	if err != nil {
		return false
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// Load reads every HTML page in the company's snapshot, sorted by
// filename so downstream output is stable.
func (l *Loader) Load(domain string) ([]entity.RawPage, error) {
	dir, err := l.dirFor(domain)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, domain)
		}
		return nil, fmt.Errorf("failed to read snapshot for %s: %w", domain, err)
	}

	var pages []entity.RawPage
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !isHTMLFile(name) {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read page %s/%s: %w", domain, name, err)
		}
		pages = append(pages, entity.RawPage{Filename: name, Content: string(content)})
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: %s has no HTML pages", ErrNotFound, domain)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Filename < pages[j].Filename })
	return pages, nil
}

// dirFor validates the domain and maps it onto the data directory. Path
// separators and parent references are rejected outright.
func (l *Loader) dirFor(domain string) (string, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" ||
		strings.ContainsAny(domain, `/\`) ||
		strings.Contains(domain, "..") ||
		domain != filepath.Base(domain) {
		return "", fmt.Errorf("%w: %q", ErrBadDomain, domain)
	}
	return filepath.Join(l.dataDir, domain), nil
}

func isHTMLFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".html" || ext == ".htm"
}
