// Package extract pulls usable markup and lists out of free-form model replies.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrInvalidSVG is returned when a reply holds no SVG element
var ErrInvalidSVG = errors.New("model generated invalid SVG data")

const (
	doctypeTag  = "<!DOCTYPE html>"
	htmlOpenTag = "<html"
	htmlEndTag  = "</html>"

	// MaxHooks caps the hooks taken from a line-oriented reply
	MaxHooks = 4
	// minHookLength is exclusive
	minHookLength = 5
)

var (
	htmlFence = regexp.MustCompile("(?i)```html")
	svgBlock  = regexp.MustCompile(`(?is)<svg.*?</svg>`)
	fence     = "```"
)

// HTML returns the HTML document embedded in raw.
//
// Fences are dropped first. The span runs from the first doctype (or, when
// there is none, the first <html tag) to the end of the last </html>. A reply
// without such a span comes back trimmed and otherwise unchanged.
func HTML(raw string) string {
	clean := htmlFence.ReplaceAllString(raw, "")
	clean = strings.ReplaceAll(clean, fence, "")

	last := strings.LastIndex(clean, htmlEndTag)
	if last != -1 {
		end := last + len(htmlEndTag)
		if first := strings.Index(clean, doctypeTag); first != -1 && first < last {
			return clean[first:end]
		}
		if first := strings.Index(clean, htmlOpenTag); first != -1 && first < last {
			return clean[first:end]
		}
	}
	return strings.TrimSpace(clean)
}

// SVG returns the first <svg> element in raw
func SVG(raw string) (string, error) {
	if m := svgBlock.FindString(raw); m != "" {
		return m, nil
	}

	clean := strings.ReplaceAll(raw, "```xml", "")
	clean = strings.ReplaceAll(clean, "```svg", "")
	clean = strings.TrimSpace(strings.ReplaceAll(clean, fence, ""))
	if strings.Contains(clean, "<svg") {
		return clean, nil
	}
	return "", ErrInvalidSVG
}

// Hooks parses a viral-hook reply. A reply that looks like a JSON array but
// fails to decode yields FallbackHooks(niche).
func Hooks(raw, niche string) []string {
	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.TrimSpace(strings.ReplaceAll(clean, fence, ""))

	if strings.HasPrefix(clean, "[") {
		var hooks []string
		if err := json.Unmarshal([]byte(clean), &hooks); err != nil {
			return FallbackHooks(niche)
		}
		return hooks
	}

	hooks := make([]string, 0, MaxHooks)
	for _, line := range strings.Split(clean, "\n") {
		if utf8.RuneCountInString(line) <= minHookLength {
			continue
		}
		hooks = append(hooks, line)
		if len(hooks) == MaxHooks {
			break
		}
	}
	return hooks
}

// FallbackHooks returns the templated hooks used when generation fails
func FallbackHooks(niche string) []string {
	return []string{
		fmt.Sprintf("The #1 Mistake people make in %s", niche),
		fmt.Sprintf("How to master %s in 30 days", niche),
		fmt.Sprintf("Unpopular opinion about %s", niche),
		fmt.Sprintf("Tools I use for %s that feel illegal to know", niche),
	}
}
