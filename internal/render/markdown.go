package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	markdownConverter = goldmark.New(goldmark.WithExtensions(extension.GFM))
	markdownPolicy    = bluemonday.UGCPolicy()
)

// MarkdownHTML converts GitHub flavored markdown into sanitized HTML
func MarkdownHTML(source string) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdownConverter.Convert([]byte(source), &buf); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}
	return markdownPolicy.SanitizeBytes(buf.Bytes()), nil
}

// markdownNodes parses the converted markdown into nodes for a div parent
func markdownNodes(source string) ([]*html.Node, error) {
	out, err := MarkdownHTML(source)
	if err != nil {
		return nil, err
	}
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(bytes.NewReader(out), context)
	if err != nil {
		return nil, fmt.Errorf("parsing markdown output: %w", err)
	}
	return nodes, nil
}

// markdownBlock renders source inside a prose container
func markdownBlock(class, source string) *html.Node {
	block := element("div", class)
	nodes, err := markdownNodes(source)
	if err != nil {
		block.AppendChild(placeholder("markdown", "Markdown could not be rendered"))
		return block
	}
	for _, n := range nodes {
		block.AppendChild(n)
	}
	return block
}
