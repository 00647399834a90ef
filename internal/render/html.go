package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/microcosm-cc/bluemonday"
)

// HTMLPolicy decides how markup in server responses is treated
type HTMLPolicy string

const (
	// HTMLSanitize keeps safe formatting and converts it to markdown
	HTMLSanitize HTMLPolicy = "sanitize"
	// HTMLStrip drops all markup and keeps the text
	HTMLStrip HTMLPolicy = "strip"
	// HTMLRaw passes the response through untouched
	HTMLRaw HTMLPolicy = "raw"
)

// ParseHTMLPolicy parses a policy name; empty means HTMLSanitize
func ParseHTMLPolicy(s string) (HTMLPolicy, error) {
	switch HTMLPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", HTMLSanitize:
		return HTMLSanitize, nil
	case HTMLStrip:
		return HTMLStrip, nil
	case HTMLRaw:
		return HTMLRaw, nil
	default:
		return "", fmt.Errorf("unknown html policy %q (want sanitize, strip or raw)", s)
	}
}

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = newStrictPolicy()
	mdConverter  = newConverter()
	blankLines   = regexp.MustCompile(`\n{3,}`)
)

func newStrictPolicy() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}

func newConverter() *md.Converter {
	conv := md.NewConverter("", true, &md.Options{
		CodeBlockStyle: "fenced",
		EmDelimiter:    "_",
	})
	// tables and strikethrough
	conv.Use(plugin.GitHubFlavored())
	return conv
}

// ToMarkdown applies policy to content. Under every policy except raw,
// terminal control bytes are removed so a response cannot emit escape
// sequences. Content with no markup is otherwise returned unchanged.
func ToMarkdown(content string, policy HTMLPolicy) string {
	if policy == HTMLRaw {
		return content
	}

	content = StripControl(content)
	if !strings.ContainsAny(content, "<&") {
		return content
	}

	if policy == HTMLStrip {
		return stripTags(content)
	}
	return htmlToMarkdown(ugcPolicy.Sanitize(content))
}

// StripControl drops C0 and C1 control characters except newline and tab.
// ESC in particular would let text drive the terminal.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20, r == 0x7f, r >= 0x80 && r <= 0x9f:
			return -1
		}
		return r
	}, s)
}

func stripTags(content string) string {
	return strings.TrimSpace(StripControl(html.UnescapeString(strictPolicy.Sanitize(content))))
}

func htmlToMarkdown(fragment string) string {
	out, err := mdConverter.ConvertString(fragment)
	if err != nil {
		return stripTags(fragment)
	}
	// entities decoded by the converter may reintroduce control bytes
	out = blankLines.ReplaceAllString(StripControl(out), "\n\n")
	return strings.TrimSpace(out)
}
