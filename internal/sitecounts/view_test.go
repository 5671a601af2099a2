package sitecounts

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseBlock parses rendered block markup and returns the wrapper div.
func parseBlock(t *testing.T, markup string) *html.Node {
	t.Helper()

	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 1, "block renders a single root element")
	require.Equal(t, atom.Div, nodes[0].DataAtom)
	return nodes[0]
}

func childElements(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func renderView(t *testing.T, v View) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, BlockComponent(v).Render(context.Background(), &buf))
	return buf.String()
}

func TestBlockComponent_Structure(t *testing.T) {
	markup := renderView(t, View{
		ClassName:     `wide" onclick="x`,
		CountsHeading: "Post Counts",
		Counts:        []string{"There are 2 Posts.", "There is 1 Page."},
		CurrentEntry:  "The current post ID is 4.",
		ShowRecent:    true,
		RecentHeading: "5 posts with the tag of foo and the category of baz",
		Recent:        []string{"<b>Bold</b> & co", "Plain"},
	})

	root := parseBlock(t, markup)
	require.Len(t, root.Attr, 1, "class attribute cannot be broken out of")
	assert.Equal(t, "class", root.Attr[0].Key)
	assert.Equal(t, `wide" onclick="x`, root.Attr[0].Val)

	children := childElements(root)
	var tags []atom.Atom
	for _, c := range children {
		tags = append(tags, c.DataAtom)
	}
	assert.Equal(t, []atom.Atom{atom.H2, atom.Ul, atom.P, atom.H2, atom.Ul}, tags)

	assert.Equal(t, "Post Counts", textOf(children[0]))
	assert.Len(t, childElements(children[1]), 2)
	assert.Equal(t, "The current post ID is 4.", textOf(children[2]))

	recent := childElements(children[4])
	require.Len(t, recent, 2)
	assert.Equal(t, "<b>Bold</b> & co", textOf(recent[0]), "titles are text, not markup")
	assert.Empty(t, childElements(recent[0]))
}

func TestBlockComponent_NoRecent(t *testing.T) {
	markup := renderView(t, View{CountsHeading: "Post Counts"})
	assert.Equal(t, `<div class=""><h2>Post Counts</h2><ul></ul><p></p></div>`, markup)

	root := parseBlock(t, markup)
	var tags []atom.Atom
	for _, c := range childElements(root) {
		tags = append(tags, c.DataAtom)
	}
	assert.Equal(t, []atom.Atom{atom.H2, atom.Ul, atom.P}, tags)
}
