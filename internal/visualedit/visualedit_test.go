package visualedit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html><html lang="en"><head><title>T</title></head>` +
	`<body class="bg-black"><h1>Hello</h1><div><p>Body <span>copy</span></p></div>` +
	`<ul><li>One</li></ul><a href="#">Go</a><button>Buy</button><section>plain</section></body></html>`

func TestEnable(t *testing.T) {
	got, err := Enable(page)
	require.NoError(t, err)

	assert.True(t, IsEnabled(got))
	assert.Contains(t, got, `<style id="editor-styles">`)
	assert.Contains(t, got, `outline: 2px dashed #3b82f6`)
	for _, tag := range []string{`<h1 contenteditable="true" data-editor-set="true">`, `<p contenteditable="true" data-editor-set="true">`,
		`<span contenteditable="true" data-editor-set="true">`, `<li contenteditable="true" data-editor-set="true">`,
		`<a href="#" contenteditable="true" data-editor-set="true">`, `<button contenteditable="true" data-editor-set="true">`} {
		assert.Contains(t, got, tag)
	}
	assert.Contains(t, got, `<div><p`)
	assert.Contains(t, got, `<section>plain</section>`)
	assert.True(t, strings.Index(got, StyleID) < strings.Index(got, "</head>"))
}

func TestEnable_Idempotent(t *testing.T) {
	once, err := Enable(page)
	require.NoError(t, err)
	twice, err := Enable(once)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(twice, StyleID))
	assert.Equal(t, once, twice)
}

func TestDisable_KeepsEditedText(t *testing.T) {
	enabled, err := Enable(page)
	require.NoError(t, err)

	edited := strings.Replace(enabled, ">Hello<", ">Hello, edited<", 1)
	got, err := Disable(edited)
	require.NoError(t, err)

	assert.False(t, IsEnabled(got))
	assert.NotContains(t, got, "contenteditable")
	assert.NotContains(t, got, markerAttr)
	assert.NotContains(t, got, "editor-styles")
	assert.Contains(t, got, "<h1>Hello, edited</h1>")
	assert.Contains(t, got, `<body class="bg-black">`)
}

func TestDisable_RoundTrip(t *testing.T) {
	plain, err := Disable(page)
	require.NoError(t, err)

	enabled, err := Enable(plain)
	require.NoError(t, err)
	back, err := Disable(enabled)
	require.NoError(t, err)

	assert.Equal(t, plain, back)
}

func TestDisable_KeepsAuthoredContentEditable(t *testing.T) {
	authored := `<!DOCTYPE html><html><head></head><body>` +
		`<p contenteditable="false">locked</p><h2 contenteditable="true">open</h2><p>free</p></body></html>`
	plain, err := Disable(authored)
	require.NoError(t, err)

	enabled, err := Enable(plain)
	require.NoError(t, err)
	assert.Contains(t, enabled, `<p contenteditable="false">locked</p>`)
	assert.Contains(t, enabled, `<h2 contenteditable="true">open</h2>`)
	assert.Contains(t, enabled, `<p contenteditable="true" data-editor-set="true">free</p>`)

	back, err := Disable(enabled)
	require.NoError(t, err)
	assert.Equal(t, plain, back)
	assert.Contains(t, back, `<p contenteditable="false">locked</p>`)
	assert.Contains(t, back, `<p>free</p>`)
}

func TestIsEnabled_Plain(t *testing.T) {
	assert.False(t, IsEnabled(page))
}
