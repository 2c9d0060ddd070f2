// Package extract coordinates the tiered extraction pipeline: deterministic
// heuristics first, then a model pass for the fields rules cannot produce,
// merged under a strict no-invention policy.
package extract

import (
	"fmt"
	"strings"

	"github.com/halcyondata/company-intel/internal/provider"
)

const systemPrompt = `You are a data extraction engine. You respond with valid JSON only: no prose, no markdown fences, no explanations. Wrap your answer as {"status": "ok", "profile": { ... }}. Use the string "not_found" for any field you cannot determine. Never invent facts that are not in the provided text.`

const (
	pageSnippetLimit  = 500
	fallbackTextLimit = 2000
)

// CleanedPage is one website page after HTML-to-text conversion.
type CleanedPage struct {
	Filename string
	Text     string
}

// BuildPrompt assembles the model prompt from per-page sections when pages
// are available, or from a flat text excerpt otherwise.
func BuildPrompt(domain string, pages []CleanedPage, fallbackText string) provider.Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Website content for the company at %s:\n\n", domain)

	if len(pages) > 0 {
		for _, page := range pages {
			fmt.Fprintf(&b, "[%s]\n%s\n\n", classifyPage(page.Filename), snippet(page.Text, pageSnippetLimit))
		}
	} else {
		b.WriteString(snippet(fallbackText, fallbackTextLimit))
		b.WriteString("\n\n")
	}

	b.WriteString(`Tasks:
1. Write "short_description" (one sentence) and "long_description" (one paragraph) of what the company does.
2. Determine "industry" and "sub_industry".
3. List "services_offered" and "products_offered" mentioned in the text.

Return only the JSON envelope described in the system message.`)

	return provider.Prompt{System: systemPrompt, User: b.String()}
}

func classifyPage(filename string) string {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "index") || strings.Contains(name, "home"):
		return "homepage"
	case strings.Contains(name, "about"):
		return "about"
	case strings.Contains(name, "service") || strings.Contains(name, "product"):
		return "services"
	default:
		return "other"
	}
}

func snippet(text string, limit int) string {
	text = strings.TrimSpace(text)
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
