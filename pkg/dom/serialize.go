package dom

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
)

// Render writes nodes as HTML.
func Render(w io.Writer, nodes ...*html.Node) error {
	for _, n := range nodes {
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}

// OuterHTML returns the HTML of n including n itself.
func OuterHTML(n *html.Node) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

// InnerHTML returns the HTML of n's children.
func InnerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// HTML returns the HTML of the range's current nodes.
func (r *Range) HTML() string {
	var buf bytes.Buffer
	_ = Render(&buf, r.Nodes()...)
	return buf.String()
}
