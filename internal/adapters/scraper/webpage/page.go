package webpage

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/headhunter"
)

// document implements headhunter.Page over a parsed HTML tree.
type document struct {
	root *html.Node
}

func (d *document) Select(selector string) []headhunter.Element {
	cs, err := compileSelector(selector)
	if err != nil {
		return nil
	}
	var out []headhunter.Element
	walk(d.root, func(n *html.Node) {
		if cs.matchesChain(n) {
			out = append(out, &element{node: n})
		}
	})
	return out
}

func (d *document) First(selector string) (headhunter.Element, bool) {
	els := d.Select(selector)
	if len(els) == 0 {
		return nil, false
	}
	return els[0], true
}

// walk visits element nodes in document order.
func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// element implements headhunter.Element for one node.
type element struct {
	node *html.Node
}

func (e *element) Attr(name string) (string, bool) {
	return attr(e.node, name)
}

// Text concatenates the subtree's text nodes, separating blocks with
// newlines so headings do not fuse with body text.
func (e *element) Text() string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(t)
			}
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(e.node)
	return b.String()
}
