package types

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Every catalog tool gets a title naming the tool and ending with the app name.
func TestTitle_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	ids := make([]interface{}, 0, len(tools))
	for _, def := range tools {
		ids = append(ids, def.ID)
	}

	properties.Property("title starts with tool name and ends with app name", prop.ForAll(
		func(v interface{}) bool {
			id := v.(ToolID)
			title, err := Title(id)
			if err != nil {
				return false
			}
			def, _ := LookupTool(id)
			return strings.HasPrefix(title, def.Name+" - ") && strings.HasSuffix(title, " | "+AppName)
		},
		gen.OneConstOf(ids...),
	))

	properties.Property("unknown ids never produce a title", prop.ForAll(
		func(s string) bool {
			id := ToolID("x_" + s)
			_, err := Title(id)
			return err != nil
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
