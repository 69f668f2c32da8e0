package provider

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Small helpers over x/net/html so adapters can locate elements by tag and
// class the way the storefront markup is organized.

func parseDocument(r io.Reader) (*html.Node, error) {
	return html.Parse(r)
}

func hasClasses(n *html.Node, wanted ...string) bool {
	var classes string
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			classes = attr.Val
			break
		}
	}
	if classes == "" {
		return false
	}
	have := make(map[string]struct{})
	for _, c := range strings.Fields(classes) {
		have[c] = struct{}{}
	}
	for _, w := range wanted {
		if _, ok := have[w]; !ok {
			return false
		}
	}
	return true
}

func elementsWithClass(root *html.Node, tag string, classes ...string) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && (tag == "" || n.Data == tag) && hasClasses(n, classes...) {
			out = append(out, n)
		}
	})
	return out
}

func firstWithClass(root *html.Node, tag string, classes ...string) *html.Node {
	nodes := elementsWithClass(root, tag, classes...)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func walk(n *html.Node, visit func(*html.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child, visit)
	}
}

func attrValue(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// nodeText concatenates all text content beneath a node, collapsing runs of
// whitespace the way rendered HTML does.
func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
	})
	return strings.Join(strings.Fields(b.String()), " ")
}
