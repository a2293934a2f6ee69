package nbmark

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLToText strips markup from a fragment and returns the concatenated text
// content. Input that cannot be parsed at all comes back unchanged.
func HTMLToText(fragment string) string {
	nodes, err := parseFragment(fragment)
	if err != nil {
		return fragment
	}
	var sb strings.Builder
	for _, n := range nodes {
		collectText(n, &sb)
	}
	return sb.String()
}

// AddAnchor injects a stable id and a visible anchor link into a rendered
// heading fragment. The fragment must hold exactly one element; anything
// else (plain text, sibling elements, comments) is handed back untouched
// rather than half-rewritten.
func AddAnchor(fragment string, marker string) string {
	if marker == "" {
		marker = "¶"
	}
	nodes, err := parseFragment(fragment)
	if err != nil {
		return fragment
	}

	var elem *html.Node
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
			if elem != nil {
				return fragment
			}
			elem = n
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				return fragment
			}
		default:
			return fragment
		}
	}
	if elem == nil {
		return fragment
	}

	var text strings.Builder
	collectText(elem, &text)
	id := MakeSlug(text.String())

	setAttribute(elem, "id", id)
	anchor := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr: []html.Attribute{
			{Key: "class", Val: "anchor-link"},
			{Key: "href", Val: "#" + id},
		},
	}
	anchor.AppendChild(&html.Node{Type: html.TextNode, Data: marker})
	elem.AppendChild(anchor)

	var sb strings.Builder
	if err := html.Render(&sb, elem); err != nil {
		return fragment
	}
	return sb.String()
}

func parseFragment(fragment string) ([]*html.Node, error) {
	return html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func setAttribute(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
