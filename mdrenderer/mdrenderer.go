// Package mdrenderer renders notebook markdown cells to HTML.
//
// It is regular GFM plus the notebook math conventions: $...$ and $$...$$
// spans and bare latex environments survive rendering verbatim so that
// MathJax can typeset them client-side.
package mdrenderer

import (
	"bytes"
	"log/slog"

	"github.com/cellforge/nbmark"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Options holds the caller-visible rendering policy.
type Options struct {
	// AnchorLinkText is the visible text of heading anchor links.
	// Empty selects the pilcrow.
	AnchorLinkText string
}

// Renderer converts math-extended markdown into HTML fragments. A single
// instance is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

var _ nbmark.MarkdownRenderer = &Renderer{}

func NewRenderer(opts Options) *Renderer {
	marker := opts.AnchorLinkText
	if marker == "" {
		marker = "¶"
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			MathExtension,
			&codeBlockExt{},
			&anchorExt{marker: marker},
		),
		goldmark.WithParserOptions(parser.WithAttribute()),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML(), html.WithUnsafe()),
	)
	return &Renderer{md: md}
}

// Render implements nbmark.MarkdownRenderer.
func (r *Renderer) Render(src []byte, ctx *nbmark.RenderContext) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return nil, err
	}
	if ctx != nil {
		slog.Debug("Rendered markdown cell", slog.Int("cell", ctx.CellIndex), slog.Int("bytes", buf.Len()))
	}
	return buf.Bytes(), nil
}
