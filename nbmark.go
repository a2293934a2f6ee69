package nbmark

const Version = "v0.2.1"

// RenderContext carries caller-side information into a render pass.
// All fields are optional; a nil context is valid.
type RenderContext struct {
	// CellIndex is the position of the source cell in its notebook, when known.
	// It only shows up in debug logging.
	CellIndex int
}

// MarkdownRenderer is implemented by anything that can turn markdown source
// into rendered output. The canonical implementation lives in mdrenderer.
type MarkdownRenderer interface {
	Render(src []byte, ctx *RenderContext) ([]byte, error)
}

// SourceTransformer rewrites code-cell source from one syntax dialect to
// another. Implementations must return the input unchanged when they cannot
// improve on it; the transform is best effort and never fails.
type SourceTransformer interface {
	Transform(source string) string
}

// IdentityTransformer is the no-op SourceTransformer, used when dialect
// rewriting is disabled or not applicable.
type IdentityTransformer struct{}

func (IdentityTransformer) Transform(source string) string { return source }
