package nbmark

import (
	"strings"
	"testing"
)

func TestCommentLines(t *testing.T) {
	tests := []struct {
		in     string
		prefix string
		want   string
	}{
		{"a\nb", "# ", "# a\n# b"},
		{"single", "# ", "# single"},
		{"a\nb", "", "# a\n# b"},
		{"x\ny\nz", "// ", "// x\n// y\n// z"},
		{"", "# ", "# "},
	}
	for _, tc := range tests {
		if got := CommentLines(tc.in, tc.prefix); got != tc.want {
			t.Errorf("CommentLines(%q, %q) = %q, want %q", tc.in, tc.prefix, got, tc.want)
		}
	}
}

func TestStripFilesPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`src="files/x.png"`, `src="x.png"`},
		{`src='files/x.png'`, `src='x.png'`},
		{`href="/files/doc.pdf"`, `href="doc.pdf"`},
		{`src="files/path/to/x.png"`, `src="path/to/x.png"`},
		{`![caption](files/img.png)`, `![caption](img.png)`},
		{`[link text](/files/doc.pdf)`, `[link text](doc.pdf)`},
		{`src="not-files/x.png"`, `src="not-files/x.png"`},
		{`[a](files/1.png) and [b](files/2.png)`, `[a](1.png) and [b](2.png)`},
		{`no urls here`, `no urls here`},
	}
	for _, tc := range tests {
		if got := StripFilesPrefix(tc.in); got != tc.want {
			t.Errorf("StripFilesPrefix(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWrapText(t *testing.T) {
	short := "this line is short"
	if got := WrapText(short, 100); got != short {
		t.Fatalf("short line should be untouched, got %q", got)
	}

	long := strings.Repeat("word ", 30)
	wrapped := WrapText(long, 20)
	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 20 {
			t.Errorf("line longer than width: %q", line)
		}
	}
	if strings.Join(strings.Fields(wrapped), " ") != strings.TrimSpace(long) {
		t.Error("wrapping lost or reordered words")
	}

	// blank lines separate paragraphs and must survive
	para := "first paragraph\n\nsecond paragraph"
	if got := WrapText(para, 100); got != para {
		t.Errorf("paragraph structure mangled: %q", got)
	}
}

func TestAddPrompts(t *testing.T) {
	got := AddPrompts("for i in range(3):\n    print(i)", "", "")
	want := ">>> for i in range(3):\n...     print(i)"
	if got != want {
		t.Fatalf("AddPrompts = %q, want %q", got, want)
	}
}

func TestGetLines(t *testing.T) {
	text := "l0\nl1\nl2\nl3"
	tests := []struct {
		start, end int
		want       string
	}{
		{0, -1, text},
		{1, -1, "l1\nl2\nl3"},
		{0, 2, "l0\nl1"},
		{2, 3, "l2"},
		{3, 2, ""},
		{0, 100, text},
	}
	for _, tc := range tests {
		if got := GetLines(text, tc.start, tc.end); got != tc.want {
			t.Errorf("GetLines(%d, %d) = %q, want %q", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestStripDollars(t *testing.T) {
	tests := []struct{ in, want string }{
		{"$x$", "x"},
		{"$$x+y$$", "x+y"},
		{"no dollars", "no dollars"},
		{"$only leading", "only leading"},
		{"a$b", "a$b"},
	}
	for _, tc := range tests {
		if got := StripDollars(tc.in); got != tc.want {
			t.Errorf("StripDollars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPreventListBlocks(t *testing.T) {
	tests := []struct{ in, want string }{
		{"- item", `\- item`},
		{"* item", `\* item`},
		{"+ item", `\+ item`},
		{"1. item", `1\. item`},
		{"  2. indented", `  2\. indented`},
		{"text - not a list", "text - not a list"},
		{"first\n- second line untouched", "first\n- second line untouched"},
	}
	for _, tc := range tests {
		if got := PreventListBlocks(tc.in); got != tc.want {
			t.Errorf("PreventListBlocks(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPathToURL(t *testing.T) {
	got := PathToURL("some dir/file name.png")
	want := "some%20dir/file%20name.png"
	if got != want {
		t.Fatalf("PathToURL = %q, want %q", got, want)
	}
}

func TestAsciiOnly(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"café", "cafe"},
		{"naïve résumé", "naive resume"},
		{"数学", "??"},
		{"mixed 数 text", "mixed ? text"},
	}
	for _, tc := range tests {
		if got := AsciiOnly(tc.in); got != tc.want {
			t.Errorf("AsciiOnly(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
