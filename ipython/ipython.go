// Package ipython rewrites IPython cell syntax into plain Python.
//
// Magics, shell escapes and cell magics become the get_ipython() calls the
// kernel would have produced, so exported scripts stay runnable. Browser-only
// matplotlib backends can be stripped on the way, since a headless run has no
// use for them.
package ipython

import (
	"regexp"
	"strings"

	"github.com/cellforge/nbmark"
)

const removedComment = "# nbmark removed: "

var defaultBrowserBackends = []string{"notebook", "inline"}

var (
	matplotlibGate   = regexp.MustCompile(`^% *matplotlib`)
	lineMagicPattern = regexp.MustCompile(`^(\s*)%(\w+) ?(.*)$`)
	cellMagicPattern = regexp.MustCompile(`^%%(\w+) ?(.*)$`)
	systemPattern    = regexp.MustCompile(`^(\s*)!(!?)(.*)$`)
)

var _ nbmark.SourceTransformer = &Transformer{}

// Transformer converts one IPython cell at a time. The zero value keeps
// browser backends untouched.
type Transformer struct {
	// NoBrowser strips browser matplotlib backends from %matplotlib
	// magics at the top of a cell.
	NoBrowser bool
	// BrowserBackends overrides the backend names treated as
	// browser-only. Empty means notebook and inline.
	BrowserBackends []string
}

// Transform implements nbmark.SourceTransformer.
func (t *Transformer) Transform(source string) string {
	if t.NoBrowser && matplotlibGate.MatchString(source) {
		source = t.removeBrowserBackends(source)
	}
	return transformCell(source)
}

// removeBrowserBackends rewrites the first %matplotlib line naming a
// browser backend: the magic prefix survives so the kernel default applies,
// and the dropped name moves into a comment on the following line.
func (t *Transformer) removeBrowserBackends(source string) string {
	backends := t.BrowserBackends
	if len(backends) == 0 {
		backends = defaultBrowserBackends
	}
	quoted := make([]string, 0, len(backends))
	for _, b := range backends {
		quoted = append(quoted, regexp.QuoteMeta(b))
	}
	pat := regexp.MustCompile(`^(% *matplotlib *\w*)(` + strings.Join(quoted, "|") + `)`)

	lines := strings.Split(source, "\n")
	for i, line := range lines {
		m := pat.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		// only the first declaration changes, later ones would not
		// have taken effect anyway
		lines[i] = m[1] + "\n" + removedComment + m[2]
		break
	}
	return strings.Join(lines, "\n")
}

func transformCell(source string) string {
	if out, ok := transformCellMagic(source); ok {
		return out
	}
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lines[i] = transformLine(line)
	}
	return strings.Join(lines, "\n")
}

// transformCellMagic turns a %%magic cell into a single run_cell_magic
// call. The whole remainder of the cell is the body.
func transformCellMagic(source string) (string, bool) {
	if !strings.HasPrefix(source, "%%") {
		return "", false
	}
	head, body, _ := strings.Cut(source, "\n")
	m := cellMagicPattern.FindStringSubmatch(head)
	if m == nil {
		return "", false
	}
	return "get_ipython().run_cell_magic(" + pyQuote(m[1]) + ", " + pyQuote(m[2]) + ", " + pyQuote(body) + ")", true
}

func transformLine(line string) string {
	if m := systemPattern.FindStringSubmatch(line); m != nil {
		if m[2] == "!" {
			return m[1] + "get_ipython().getoutput(" + pyQuote(m[3]) + ")"
		}
		return m[1] + "get_ipython().system(" + pyQuote(m[3]) + ")"
	}
	if m := lineMagicPattern.FindStringSubmatch(line); m != nil {
		return m[1] + "get_ipython().run_line_magic(" + pyQuote(m[2]) + ", " + pyQuote(m[3]) + ")"
	}
	return line
}

var pyEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// pyQuote renders s as a Python single-quoted string literal.
func pyQuote(s string) string {
	return "'" + pyEscaper.Replace(s) + "'"
}
