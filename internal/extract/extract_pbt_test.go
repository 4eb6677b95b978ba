package extract

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestHTML_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a wrapped document is recovered exactly", prop.ForAll(
		func(prefix, body, suffix string) bool {
			doc := "<!DOCTYPE html><html><body>" + body + "</body></html>"
			return HTML(prefix+"\n```html\n"+doc+"\n```\n"+suffix) == doc
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("replies without a document are only trimmed", prop.ForAll(
		func(s string) bool {
			return HTML("  "+s+"\n") == strings.TrimSpace(s)
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestHooks_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("line replies never yield more than four hooks", prop.ForAll(
		func(lines []string) bool {
			hooks := Hooks(strings.Join(lines, "\n"), "niche")
			if len(hooks) > MaxHooks {
				return false
			}
			for _, h := range hooks {
				if len([]rune(h)) <= minHookLength {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
