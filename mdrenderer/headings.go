package mdrenderer

import (
	"html"
	"strings"

	"github.com/cellforge/nbmark"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

var _ renderer.NodeRenderer = &anchorRenderer{}

// anchorRenderer replaces the stock heading output. Same <hN> wrapper, but
// every heading gets a slug id and a trailing self-link so exported
// documents can be deep-linked.
type anchorRenderer struct {
	marker string
}

func newAnchorRenderer(marker string) *anchorRenderer {
	return &anchorRenderer{marker: html.EscapeString(marker)}
}

func (r *anchorRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
}

func (r *anchorRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if entering {
		// The computed slug wins over any explicit {#id} attribute,
		// otherwise reference resolution could not find the heading.
		n.SetAttributeString("id", []byte(nbmark.MakeSlug(headingText(n, source))))
		w.WriteString("<h")
		w.WriteByte("0123456"[n.Level])
		ghtml.RenderAttributes(w, n, ghtml.HeadingAttributeFilter)
		w.WriteByte('>')
		return ast.WalkContinue, nil
	}
	if id, ok := n.AttributeString("id"); ok {
		if slug, ok := id.([]byte); ok {
			w.WriteString(`<a class="anchor-link" href="#`)
			w.Write(slug)
			w.WriteString(`">`)
			w.WriteString(r.marker)
			w.WriteString(`</a>`)
		}
	}
	w.WriteString("</h")
	w.WriteByte("0123456"[n.Level])
	w.WriteString(">\n")
	return ast.WalkContinue, nil
}

// headingText flattens a heading subtree to the plain text its slug is
// built from.
func headingText(n ast.Node, source []byte) string {
	var sb strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

var _ goldmark.Extender = &anchorExt{}

type anchorExt struct {
	marker string
}

func (e *anchorExt) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(newAnchorRenderer(e.marker), 500),
	))
}
