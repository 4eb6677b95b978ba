// Package visualedit toggles in-place text editing on a generated HTML page.
//
// Enabling injects an outline stylesheet and marks text elements
// contenteditable. Disabling strips both again so the saved document keeps
// the user's text changes and nothing of the editor. contenteditable
// attributes the page carried before enabling are left alone.
package visualedit

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StyleID is the id of the injected editor stylesheet
const StyleID = "editor-styles"

const (
	editableAttr = "contenteditable"
	// markerAttr tags the elements whose contenteditable the editor added
	markerAttr = "data-editor-set"
)

// EditorCSS outlines editable elements while editing
const EditorCSS = `
        *[contenteditable="true"] { outline: 2px dashed #3b82f6; outline-offset: 2px; cursor: text; }
        *[contenteditable="true"]:focus { outline: 2px solid #2563eb; background: rgba(59, 130, 246, 0.1); }
      `

var editable = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true,
	atom.P: true, atom.Span: true, atom.A: true,
	atom.Button: true, atom.Li: true,
}

// Enable returns doc with the editor stylesheet and contenteditable markers.
// Enabling an already enabled document does not add a second stylesheet.
func Enable(doc string) (string, error) {
	root, err := parse(doc)
	if err != nil {
		return "", err
	}

	if findStyle(root) == nil {
		head := findFirst(root, atom.Head)
		if head == nil {
			return "", fmt.Errorf("visualedit: document has no head")
		}
		style := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Style,
			Data:     "style",
			Attr:     []html.Attribute{{Key: "id", Val: StyleID}},
		}
		style.AppendChild(&html.Node{Type: html.TextNode, Data: EditorCSS})
		head.AppendChild(style)
	}

	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && editable[n.DataAtom] && !hasAttr(n, editableAttr) {
			setAttr(n, editableAttr, "true")
			setAttr(n, markerAttr, "true")
		}
	})

	return render(root)
}

// Disable removes the editor stylesheet and the contenteditable attributes
// Enable added. Everything else, including edited text, is kept.
func Disable(doc string) (string, error) {
	root, err := parse(doc)
	if err != nil {
		return "", err
	}

	for style := findStyle(root); style != nil; style = findStyle(root) {
		style.Parent.RemoveChild(style)
	}

	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && hasAttr(n, markerAttr) {
			removeAttr(n, editableAttr)
			removeAttr(n, markerAttr)
		}
	})

	return render(root)
}

// IsEnabled reports whether doc carries the editor stylesheet
func IsEnabled(doc string) bool {
	root, err := parse(doc)
	if err != nil {
		return false
	}
	return findStyle(root) != nil
}

func parse(doc string) (*html.Node, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("visualedit: parse document: %w", err)
	}
	return root, nil
}

func render(root *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("visualedit: render document: %w", err)
	}
	return buf.String(), nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findFirst(root *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) {
		if found == nil && n.Type == html.ElementNode && n.DataAtom == a {
			found = n
		}
	})
	return found
}

func findStyle(root *html.Node) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) {
		if found == nil && n.Type == html.ElementNode && n.DataAtom == atom.Style && attr(n, "id") == StyleID {
			found = n
		}
	})
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}
