package mdrenderer

import (
	"bytes"

	"github.com/dlclark/regexp2"
	"github.com/gohugoio/hugo-goldmark-extensions/passthrough"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Math is handed through to the client untouched: MathJax (or KaTeX) picks
// the delimiters up in the browser. Blocks are matched with scan-ahead
// regexes; the environment rule needs a back-reference on the closing name,
// which is why these run on regexp2 instead of the stdlib engine.

var (
	blockMathPattern = regexp2.MustCompile(`(?s)^\$\$(.*?)\$\$`, regexp2.None)
	latexEnvPattern  = regexp2.MustCompile(`(?s)^\\begin\{([a-z]*\*?)\}(.*?)\\end\{\1\}`, regexp2.None)

	blockMathKey = parser.NewContextKey()
	latexEnvKey  = parser.NewContextKey()

	inlineDelimiters = []passthrough.Delimiters{
		{Open: "$$", Close: "$$"},
		{Open: "$", Close: "$"},
	}
)

var blockMathNodeKind = ast.NewNodeKind("block_math")
var latexEnvNodeKind = ast.NewNodeKind("latex_environment")

// BlockMathNode is a $$-fenced display math block. Literal is the inner
// source, delimiters stripped, exactly as written.
type BlockMathNode struct {
	ast.BaseBlock

	Literal string
}

func (n *BlockMathNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"text": n.Literal}, nil)
}

func (n *BlockMathNode) Kind() ast.NodeKind {
	return blockMathNodeKind
}

// LatexEnvNode is a \begin{name}...\end{name} block. The closing name was
// checked against Name by the match itself.
type LatexEnvNode struct {
	ast.BaseBlock

	Name    string
	Literal string
}

func (n *LatexEnvNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"name": n.Name, "text": n.Literal}, nil)
}

func (n *LatexEnvNode) Kind() ast.NodeKind {
	return latexEnvNodeKind
}

// blockSpan remembers how far into the source an opened block's match
// reaches, so Continue knows which lines belong to it.
type blockSpan struct {
	end  int
	node ast.Node
}

// matchAhead runs pat against the remainder of the source starting at the
// current block position and returns the match, if it starts right there.
func matchAhead(pat *regexp2.Regexp, reader text.Reader, segment text.Segment, pos int) (*regexp2.Match, int) {
	start := segment.Start + pos
	source := reader.Source()
	if start >= len(source) {
		return nil, 0
	}
	m, err := pat.FindStringMatch(string(source[start:]))
	if err != nil || m == nil {
		return nil, 0
	}
	// patterns are ^-anchored, so a successful match begins at start
	return m, start + len(m.String())
}

func spanContinue(key parser.ContextKey, node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	span, ok := pc.Get(key).(*blockSpan)
	if !ok || span.node != node {
		return parser.Close
	}
	line, segment := reader.PeekLine()
	if segment.Start >= span.end {
		return parser.Close
	}
	newline := 1
	if len(line) == 0 || line[len(line)-1] != '\n' {
		newline = 0
	}
	reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
	return parser.Continue | parser.NoChildren
}

func spanClose(key parser.ContextKey, node ast.Node, pc parser.Context) {
	if span, ok := pc.Get(key).(*blockSpan); ok && span.node == node {
		pc.Set(key, nil)
	}
}

var _ parser.BlockParser = &blockMathParser{}

type blockMathParser struct{}

func (b *blockMathParser) Trigger() []byte {
	return []byte{'$'}
}

func (b *blockMathParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos+1 >= len(line) || line[pos] != '$' || line[pos+1] != '$' {
		return nil, parser.NoChildren
	}
	m, end := matchAhead(blockMathPattern, reader, segment, pos)
	if m == nil {
		// no closing $$ anywhere: leave the line to the generic rules
		return nil, parser.NoChildren
	}
	node := &BlockMathNode{Literal: m.GroupByNumber(1).String()}
	pc.Set(blockMathKey, &blockSpan{end: end, node: node})
	return node, parser.NoChildren
}

func (b *blockMathParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	return spanContinue(blockMathKey, node, reader, pc)
}

func (b *blockMathParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	spanClose(blockMathKey, node, pc)
}

func (b *blockMathParser) CanInterruptParagraph() bool {
	return true
}

func (b *blockMathParser) CanAcceptIndentedLine() bool {
	return false
}

var _ parser.BlockParser = &latexEnvParser{}

type latexEnvParser struct{}

func (b *latexEnvParser) Trigger() []byte {
	return []byte{'\\'}
}

func (b *latexEnvParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], []byte(`\begin{`)) {
		return nil, parser.NoChildren
	}
	m, end := matchAhead(latexEnvPattern, reader, segment, pos)
	if m == nil {
		// unterminated or mismatched \end{...}: not an environment
		return nil, parser.NoChildren
	}
	node := &LatexEnvNode{
		Name:    m.GroupByNumber(1).String(),
		Literal: m.GroupByNumber(2).String(),
	}
	pc.Set(latexEnvKey, &blockSpan{end: end, node: node})
	return node, parser.NoChildren
}

func (b *latexEnvParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	return spanContinue(latexEnvKey, node, reader, pc)
}

func (b *latexEnvParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	spanClose(latexEnvKey, node, pc)
}

func (b *latexEnvParser) CanInterruptParagraph() bool {
	return true
}

func (b *latexEnvParser) CanAcceptIndentedLine() bool {
	return false
}

var _ renderer.NodeRenderer = &mathRenderer{}

type mathRenderer struct{}

func (r *mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(blockMathNodeKind, r.renderBlockMath)
	reg.Register(latexEnvNodeKind, r.renderLatexEnv)
}

func (r *mathRenderer) renderBlockMath(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		node := n.(*BlockMathNode)
		w.WriteString("$$")
		w.WriteString(node.Literal)
		w.WriteString("$$\n")
	}
	return ast.WalkSkipChildren, nil
}

func (r *mathRenderer) renderLatexEnv(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		node := n.(*LatexEnvNode)
		w.WriteString(`\begin{` + node.Name + `}`)
		w.WriteString(node.Literal)
		w.WriteString(`\end{` + node.Name + "}\n")
	}
	return ast.WalkSkipChildren, nil
}

var _ goldmark.Extender = mathExtension{}

type mathExtension struct{}

// MathExtension wires the two block rules and the inline passthrough
// delimiters into a goldmark instance. Block parsing stays ours so that an
// unterminated fence degrades to plain paragraph text; the passthrough
// extension only gets the inline delimiters.
var MathExtension goldmark.Extender = mathExtension{}

func (mathExtension) Extend(m goldmark.Markdown) {
	passthrough.New(passthrough.Config{
		InlineDelimiters: inlineDelimiters,
	}).Extend(m)

	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(&blockMathParser{}, 201),
			util.Prioritized(&latexEnvParser{}, 202),
		),
	)

	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&mathRenderer{}, 98),
	))
}
