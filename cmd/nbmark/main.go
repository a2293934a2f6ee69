package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/cellforge/nbmark"
	"github.com/cellforge/nbmark/internal/config"
	"github.com/cellforge/nbmark/ipython"
	"github.com/cellforge/nbmark/mdrenderer"
	"github.com/cellforge/nbmark/pandocfilter"
	"github.com/joho/godotenv"
)

var CLI struct {
	Config string `short:"c" help:"Configuration file path" default:"./config.toml"`
	Debug  bool   `help:"Enable debug logging"`

	Markdown2HTML struct{} `cmd:"" name:"markdown2html" help:"Render a markdown cell to HTML, math kept verbatim"`

	ResolveReferences struct{} `cmd:"" name:"resolve-references" help:"Rewrite internal links in a pandoc JSON tree into latex references"`
	RemoveLinks       struct{} `cmd:"" name:"remove-links" help:"Drop all link nodes from a pandoc JSON tree"`

	Sanitize  struct{} `cmd:"" help:"Strip dangerous markup from an HTML fragment"`
	HTML2Text struct{} `cmd:"" name:"html2text" help:"Extract the text content of an HTML fragment"`
	AddAnchor struct {
		Marker string `help:"Anchor link text (empty uses the configured value)"`
	} `cmd:"" name:"add-anchor" help:"Give a heading element an id and a self-link"`

	Wrap struct {
		Width int `help:"Maximum line width (0 uses the configured value)"`
	} `cmd:"" help:"Wrap long lines"`
	Comment struct {
		Prefix string `help:"Comment prefix (empty uses the configured value)"`
	} `cmd:"" help:"Turn every line into a comment"`
	Prompts          struct{} `cmd:"" help:"Prefix lines with interpreter prompts"`
	StripDollars     struct{} `cmd:"" name:"strip-dollars" help:"Trim dollar signs from both ends"`
	StripFilesPrefix struct{} `cmd:"" name:"strip-files-prefix" help:"Remove files/ prefixes from URLs"`
	ASCII            struct{} `cmd:"" name:"ascii" help:"Replace non-ASCII characters"`

	IPython2Python struct{} `cmd:"" name:"ipython2python" help:"Rewrite IPython cell syntax as pure Python"`
}

func main() {
	godotenv.Load()
	kctx := kong.Parse(&CLI,
		kong.Name("nbmark"),
		kong.Description("Notebook export filters. Each command reads stdin and writes the filtered result to stdout."),
	)

	slog.SetDefault(slog.New(nbmark.GetSlogHandler(CLI.Debug, os.Stderr)))

	if err := config.Load(CLI.Config); err != nil {
		if !os.IsNotExist(err) {
			slog.Error("Could not load config", slog.Any("err", err))
			os.Exit(1)
		}
	} else {
		if config.C.Common.Debug && !CLI.Debug {
			slog.SetDefault(slog.New(nbmark.GetSlogHandler(true, os.Stderr)))
		}
		// save the config back so hand edits stay formatted
		if err := config.Save(CLI.Config); err != nil {
			slog.Warn("Could not rewrite config", slog.Any("err", err))
		}
	}

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		slog.Error("Could not read stdin", slog.Any("err", err))
		os.Exit(1)
	}

	out, err := runFilter(kctx.Command(), string(input))
	if err != nil {
		slog.Error("Filter failed", slog.Any("err", err), slog.Int("status", nbmark.ErrorCode(err)))
		os.Exit(1)
	}
	if _, err := os.Stdout.WriteString(out); err != nil {
		slog.Error("Could not write output", slog.Any("err", err))
		os.Exit(1)
	}
}

func runFilter(name string, input string) (string, error) {
	switch name {
	case "markdown2html":
		r := mdrenderer.NewRenderer(mdrenderer.Options{AnchorLinkText: config.C.Render.AnchorLinkText})
		out, err := r.Render([]byte(input), &nbmark.RenderContext{})
		return string(out), err
	case "resolve-references":
		return pandocfilter.ResolveReferences(input)
	case "remove-links":
		return pandocfilter.RemoveLinks(input)
	case "sanitize":
		return nbmark.SanitizeHTML(input), nil
	case "html2text":
		return nbmark.HTMLToText(input), nil
	case "add-anchor":
		marker := CLI.AddAnchor.Marker
		if marker == "" {
			marker = config.C.Render.AnchorLinkText
		}
		return nbmark.AddAnchor(input, marker), nil
	case "wrap":
		width := CLI.Wrap.Width
		if width <= 0 {
			width = config.C.Filters.WrapWidth
		}
		return nbmark.WrapText(input, width), nil
	case "comment":
		prefix := CLI.Comment.Prefix
		if prefix == "" {
			prefix = config.C.Filters.CommentPrefix
		}
		return nbmark.CommentLines(input, prefix), nil
	case "prompts":
		return nbmark.AddPrompts(input, config.C.Filters.PromptFirst, config.C.Filters.PromptCont), nil
	case "strip-dollars":
		return nbmark.StripDollars(input), nil
	case "strip-files-prefix":
		return nbmark.StripFilesPrefix(input), nil
	case "ascii":
		return nbmark.AsciiOnly(input), nil
	case "ipython2python":
		if !config.C.IPython.Enabled {
			return "", nbmark.ErrTransformDisabled
		}
		tr := &ipython.Transformer{
			NoBrowser:       config.C.IPython.NoBrowser,
			BrowserBackends: config.C.IPython.BrowserBackends,
		}
		return tr.Transform(input), nil
	}
	return "", nbmark.ErrUnknownFilter
}
