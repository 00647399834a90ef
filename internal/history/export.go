// Package history exports and searches the server-side chat transcript.
package history

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/samber/lo"

	"github.com/diogo/intellibrowse/internal/models"
	"github.com/diogo/intellibrowse/internal/render"
)

// ExportFormat represents the format for exporting a transcript
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ParseExportFormat accepts "markdown", "md" and "json"
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want markdown or json)", s)
	}
}

// ExportOptions configures how a transcript is exported
type ExportOptions struct {
	Format ExportFormat
	// HTML is applied to every response before it is written
	HTML  render.HTMLPolicy
	Title string
	// ExportedAt is stamped into the output; zero means time.Now
	ExportedAt time.Time
}

// DefaultExportOptions returns sensible defaults for export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format: ExportFormatMarkdown,
		HTML:   render.HTMLSanitize,
		Title:  "IntelliBrowse chat history",
	}
}

func (o ExportOptions) exportedAt() time.Time {
	if o.ExportedAt.IsZero() {
		return time.Now()
	}
	return o.ExportedAt
}

// Export writes turns in the configured format
func Export(turns []models.ChatTurn, opts ExportOptions) ([]byte, error) {
	switch opts.Format {
	case ExportFormatJSON:
		return ToJSON(turns, opts)
	case ExportFormatMarkdown, "":
		return []byte(ToMarkdown(turns, opts)), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", opts.Format)
	}
}

// ToMarkdown exports turns as a Markdown document
func ToMarkdown(turns []models.ChatTurn, opts ExportOptions) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(opts.Title)
	sb.WriteString("\n\n")

	sb.WriteString("**Exported:** ")
	sb.WriteString(opts.exportedAt().Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString("**Turns:** ")
	sb.WriteString(fmt.Sprintf("%d", len(turns)))
	sb.WriteString("\n\n---\n\n")

	for i, turn := range turns {
		sb.WriteString(fmt.Sprintf("## You (%d)\n\n", i+1))
		sb.WriteString(turn.Request)
		sb.WriteString("\n\n")

		sb.WriteString("## IntelliBrowse\n\n")
		sb.WriteString(render.ToMarkdown(turn.Response, opts.HTML))
		sb.WriteString("\n")

		// Separator between turns (except last)
		if i < len(turns)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

type exportTurn struct {
	Request  string `json:"user_request"`
	Response string `json:"crew_response"`
}

type exportDocument struct {
	Title      string       `json:"title"`
	ExportedAt time.Time    `json:"exported_at"`
	Turns      []exportTurn `json:"turns"`
}

// ToJSON exports turns as an indented JSON document
func ToJSON(turns []models.ChatTurn, opts ExportOptions) ([]byte, error) {
	doc := exportDocument{
		Title:      opts.Title,
		ExportedAt: opts.exportedAt(),
		Turns: lo.Map(turns, func(t models.ChatTurn, _ int) exportTurn {
			return exportTurn{Request: t.Request, Response: render.ToMarkdown(t.Response, opts.HTML)}
		}),
	}
	return json.MarshalIndent(doc, "", "  ")
}

// SearchResult represents a match in the transcript
type SearchResult struct {
	Index        int    // Turn index
	MatchField   string // "request" or "response"
	MatchSnippet string // Snippet where the term was found
}

// Search finds turns whose request or response contains query,
// case-insensitively. Each turn yields at most one result.
func Search(turns []models.ChatTurn, query string) []SearchResult {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	queryLower := strings.ToLower(query)

	var results []SearchResult
	for i, turn := range turns {
		if strings.Contains(strings.ToLower(turn.Request), queryLower) {
			results = append(results, SearchResult{
				Index:        i,
				MatchField:   "request",
				MatchSnippet: extractSnippet(turn.Request, query, 100),
			})
			continue
		}
		text := render.ToMarkdown(turn.Response, render.HTMLStrip)
		if strings.Contains(strings.ToLower(text), queryLower) {
			results = append(results, SearchResult{
				Index:        i,
				MatchField:   "response",
				MatchSnippet: extractSnippet(text, query, 100),
			})
		}
	}
	return results
}

// extractSnippet extracts a snippet around the first occurrence of query.
// Offsets are in runes, and lowering is per rune so they line up with content.
func extractSnippet(content, query string, maxLen int) string {
	runes := []rune(content)
	idx := indexRunes(lowerRunes(runes), lowerRunes([]rune(query)))
	if idx == -1 {
		if len(runes) > maxLen {
			return string(runes[:maxLen]) + "..."
		}
		return content
	}

	half := maxLen / 2
	start := idx - half
	end := idx + len([]rune(query)) + half

	if start < 0 {
		start = 0
		end = maxLen
	}
	if end > len(runes) {
		end = len(runes)
		start = max(end-maxLen, 0)
	}

	snippet := string(runes[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(runes) {
		snippet = snippet + "..."
	}

	return snippet
}

func lowerRunes(rs []rune) []rune {
	return lo.Map(rs, func(r rune, _ int) rune { return unicode.ToLower(r) })
}

func indexRunes(s, sub []rune) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if slices.Equal(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}
