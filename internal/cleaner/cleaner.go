// Package cleaner converts raw HTML snapshots into plain text suitable for
// prompting and heuristic scanning.
package cleaner

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/halcyondata/company-intel/internal/entity"
)

var (
	scriptPattern = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</\s*(script|style|noscript)\s*>`)
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	blankPattern  = regexp.MustCompile(`\n{3,}`)
	spacePattern  = regexp.MustCompile(`[ \t]+`)
)

// Clean converts one HTML document to normalized text. Markdown conversion
// is preferred; if it fails the tags are stripped mechanically so a broken
// page never aborts a whole extraction.
func Clean(html string) string {
	text, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		text = tagPattern.ReplaceAllString(scriptPattern.ReplaceAllString(html, " "), " ")
	}
	return normalize(text)
}

// CleanPages converts every page and also returns the concatenated corpus
// with per-page separators, the form the model prompt and the heuristics
// consume.
func CleanPages(pages []entity.RawPage) (cleaned []entity.RawPage, corpus string) {
	var b strings.Builder
	cleaned = make([]entity.RawPage, 0, len(pages))
	for _, page := range pages {
		text := Clean(page.Content)
		cleaned = append(cleaned, entity.RawPage{Filename: page.Filename, Content: text})
		fmt.Fprintf(&b, "--- %s ---\n%s\n\n", page.Filename, text)
	}
	return cleaned, strings.TrimSpace(b.String())
}

// Truncate cuts text to at most limit characters, preferring a sentence
// boundary in the second half of the allowance.
func Truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := text[:limit]
	if idx := strings.LastIndexAny(cut, ".!?"); idx > limit/2 {
		return strings.TrimSpace(cut[:idx+1])
	}
	return strings.TrimSpace(cut)
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = spacePattern.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
