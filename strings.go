package nbmark

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	filesURLPattern     = regexp.MustCompile(`(src|href)=(['"]?)/?files/`)
	markdownURLPattern  = regexp.MustCompile(`(!?)\[(.*?)\]\(/?files/(.*?)\)`)
	leadingEnumPattern  = regexp.MustCompile(`^(\s*\d*)\.`)
	leadingDashPattern  = regexp.MustCompile(`^(\s*)-`)
	leadingPlusPattern  = regexp.MustCompile(`^(\s*)\+`)
	leadingStarPattern  = regexp.MustCompile(`^(\s*)\*`)
	combiningMarkKiller = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// WrapText rewraps each line of text to fit inside width columns. Lines are
// treated independently so existing blank-line structure survives. Words
// longer than the width are kept whole.
func WrapText(text string, width int) string {
	if width <= 0 {
		width = 100
	}
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	if len(line) <= width {
		return []string{line}
	}
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{line}
	}
	var wrapped []string
	cur := words[0]
	for _, word := range words[1:] {
		if len(cur)+1+len(word) > width {
			wrapped = append(wrapped, cur)
			cur = word
			continue
		}
		cur += " " + word
	}
	return append(wrapped, cur)
}

// CommentLines prefixes every line of text, by default turning it into a
// Python comment block.
func CommentLines(text string, prefix string) string {
	if prefix == "" {
		prefix = "# "
	}
	return prefix + strings.Join(strings.Split(text, "\n"), "\n"+prefix)
}

// AddPrompts marks code up like an interactive session transcript.
func AddPrompts(code string, first string, cont string) string {
	if first == "" {
		first = ">>> "
	}
	if cont == "" {
		cont = "... "
	}
	lines := strings.Split(code, "\n")
	lines[0] = first + lines[0]
	for i := 1; i < len(lines); i++ {
		lines[i] = cont + lines[i]
	}
	return strings.Join(lines, "\n")
}

// GetLines slices text by line numbers. start counts from zero; a negative
// end means "through the last line".
func GetLines(text string, start, end int) string {
	lines := strings.Split(text, "\n")
	if start < 0 {
		start = 0
	}
	if end < 0 || end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}

// StripDollars removes math delimiters from the edges of text.
func StripDollars(text string) string {
	return strings.Trim(text, "$")
}

// StripFilesPrefix removes the notebook server's "files/" URL prefix from
// src/href attributes and from markdown link and image targets, so that
// exported documents reference their resources relative to the document.
func StripFilesPrefix(text string) string {
	cleaned := filesURLPattern.ReplaceAllString(text, `${1}=${2}`)
	return markdownURLPattern.ReplaceAllString(cleaned, `${1}[${2}](${3})`)
}

// PreventListBlocks escapes a leading list marker so concatenated markdown
// fragments cannot accidentally start a list. Only the head of the text is
// considered; interior lines are someone else's document structure.
func PreventListBlocks(text string) string {
	out := leadingEnumPattern.ReplaceAllString(text, `${1}\.`)
	out = leadingDashPattern.ReplaceAllString(out, `${1}\-`)
	out = leadingPlusPattern.ReplaceAllString(out, `${1}\+`)
	return leadingStarPattern.ReplaceAllString(out, `${1}\*`)
}

// PosixPath converts a host path to forward-slash form.
func PosixPath(path string) string {
	return filepath.ToSlash(path)
}

// PathToURL percent-encodes the segments of a relative path and joins them
// into an URL path.
func PathToURL(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// AsciiOnly folds text down to ASCII for targets that cannot take anything
// else. Accented letters lose their marks; whatever still does not fit
// becomes a question mark.
func AsciiOnly(text string) string {
	folded, _, err := transform.String(combiningMarkKiller, text)
	if err != nil {
		folded = text
	}
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return '?'
		}
		return r
	}, folded)
}
