package mdrenderer

import (
	"bytes"
	"errors"
	"html"
	"io"

	"github.com/alecthomas/chroma/v2"
	chtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/cellforge/nbmark"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// ErrLanguageNotRecognized reports a language tag chroma has no lexer for.
var ErrLanguageNotRecognized = nbmark.Statusf(404, "Language not recognized")

var (
	// Classes only, no inline styles. The embedding template ships the
	// matching stylesheet.
	highlightFormatter = chtml.New(chtml.TabWidth(4), chtml.WithClasses(true))
	highlightStyle     = styles.Get("github")
)

// HighlightCode writes highlighted markup for source tagged with lang.
// Nothing is written when the language is not recognized.
func HighlightCode(w io.Writer, source string, lang string) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return ErrLanguageNotRecognized
	}
	lexer = chroma.Coalesce(lexer)
	it, err := lexer.Tokenise(nil, source)
	if err != nil {
		return err
	}
	return highlightFormatter.Format(w, highlightStyle, it)
}

var _ renderer.NodeRenderer = &codeBlockRenderer{}

type codeBlockRenderer struct{}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFenced)
	reg.Register(ast.KindCodeBlock, r.renderPlain)
}

func (r *codeBlockRenderer) renderFenced(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	node := n.(*ast.FencedCodeBlock)
	lang := ""
	if l := node.Language(source); l != nil {
		lang = string(l)
	}
	writeCodeBlock(w, blockLines(node, source), lang)
	return ast.WalkContinue, nil
}

func (r *codeBlockRenderer) renderPlain(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		writeCodeBlock(w, blockLines(n, source), "")
	}
	return ast.WalkContinue, nil
}

func writeCodeBlock(w util.BufWriter, code string, lang string) {
	if lang != "" {
		var buf bytes.Buffer
		err := HighlightCode(&buf, code, lang)
		if err == nil {
			w.Write(buf.Bytes())
			return
		}
		if errors.Is(err, ErrLanguageNotRecognized) {
			// unknown tag: fold it back in as the first visible line
			code = lang + "\n" + code
		}
	}
	w.WriteString("\n<pre><code>")
	w.WriteString(html.EscapeString(code))
	w.WriteString("</code></pre>\n")
}

func blockLines(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	l := n.Lines().Len()
	for i := range l {
		line := n.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

var _ goldmark.Extender = &codeBlockExt{}

type codeBlockExt struct{}

func (*codeBlockExt) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&codeBlockRenderer{}, 500),
	))
}
