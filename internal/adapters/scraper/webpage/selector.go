package webpage

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// The pipeline's locators use a small CSS subset: tag, #id, .class,
// [attr], [attr=value], [attr*=value], and the descendant combinator.
// That is all this matcher implements.

type attrOp byte

const (
	attrPresent  attrOp = 0
	attrEquals   attrOp = '='
	attrContains attrOp = '*'
)

type attrMatch struct {
	name  string
	op    attrOp
	value string
}

// simpleSelector matches a single element.
type simpleSelector struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

// compiledSelector is a descendant chain, outermost first.
type compiledSelector []simpleSelector

// splitDescendants splits on whitespace outside attribute brackets, so
// values like [aria-label=Next Page] stay intact.
func splitDescendants(s string) []string {
	var parts []string
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '[':
			depth++
			b.WriteRune(r)
		case r == ']':
			depth--
			b.WriteRune(r)
		case r == ' ' && depth == 0:
			if b.Len() > 0 {
				parts = append(parts, b.String())
				b.Reset()
			}
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		parts = append(parts, b.String())
	}
	return parts
}

func compileSelector(s string) (compiledSelector, error) {
	parts := splitDescendants(strings.TrimSpace(s))
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty selector")
	}
	out := make(compiledSelector, 0, len(parts))
	for _, part := range parts {
		simple, err := compileSimple(part)
		if err != nil {
			return nil, fmt.Errorf("selector %q: %w", s, err)
		}
		out = append(out, simple)
	}
	return out, nil
}

func compileSimple(s string) (simpleSelector, error) {
	var sel simpleSelector
	i := 0
	// Leading tag name.
	for i < len(s) && s[i] != '#' && s[i] != '.' && s[i] != '[' {
		i++
	}
	sel.tag = strings.ToLower(s[:i])

	for i < len(s) {
		switch s[i] {
		case '#':
			j := i + 1
			for j < len(s) && s[j] != '.' && s[j] != '[' && s[j] != '#' {
				j++
			}
			sel.id = s[i+1 : j]
			i = j
		case '.':
			j := i + 1
			for j < len(s) && s[j] != '.' && s[j] != '[' && s[j] != '#' {
				j++
			}
			sel.classes = append(sel.classes, s[i+1:j])
			i = j
		case '[':
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				return sel, fmt.Errorf("unterminated attribute in %q", s)
			}
			body := s[i+1 : i+j]
			i += j + 1
			m := attrMatch{op: attrPresent}
			if eq := strings.IndexByte(body, '='); eq >= 0 {
				m.value = body[eq+1:]
				name := body[:eq]
				if strings.HasSuffix(name, "*") {
					m.op = attrContains
					name = name[:len(name)-1]
				} else {
					m.op = attrEquals
				}
				m.name = name
			} else {
				m.name = body
			}
			if m.name == "" {
				return sel, fmt.Errorf("attribute selector without a name in %q", s)
			}
			sel.attrs = append(sel.attrs, m)
		default:
			return sel, fmt.Errorf("unexpected %q in %q", s[i], s)
		}
	}
	return sel, nil
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (sel simpleSelector) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if sel.tag != "" && n.Data != sel.tag {
		return false
	}
	if sel.id != "" {
		id, ok := attr(n, "id")
		if !ok || id != sel.id {
			return false
		}
	}
	if len(sel.classes) > 0 {
		raw, _ := attr(n, "class")
		have := strings.Fields(raw)
		for _, want := range sel.classes {
			found := false
			for _, c := range have {
				if c == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	for _, m := range sel.attrs {
		v, ok := attr(n, m.name)
		if !ok {
			return false
		}
		switch m.op {
		case attrEquals:
			if v != m.value {
				return false
			}
		case attrContains:
			if !strings.Contains(v, m.value) {
				return false
			}
		}
	}
	return true
}

// matchesChain checks the full descendant chain: the node matches the last
// simple selector and has ancestors matching the earlier ones in order.
func (cs compiledSelector) matchesChain(n *html.Node) bool {
	if !cs[len(cs)-1].matches(n) {
		return false
	}
	remaining := cs[:len(cs)-1]
	anc := n.Parent
	for len(remaining) > 0 {
		if anc == nil {
			return false
		}
		if remaining[len(remaining)-1].matches(anc) {
			remaining = remaining[:len(remaining)-1]
		}
		anc = anc.Parent
	}
	return true
}
