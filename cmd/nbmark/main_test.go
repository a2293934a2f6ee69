package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/cellforge/nbmark"
	"github.com/cellforge/nbmark/internal/config"
)

func TestRunFilterDispatch(t *testing.T) {
	tests := []struct {
		filter string
		input  string
		want   string
	}{
		{"comment", "a\nb", "# a\n# b"},
		{"strip-dollars", "$$x$$", "x"},
		{"strip-files-prefix", `<img src="files/a.png"/>`, `<img src="a.png"/>`},
		{"ascii", "café", "cafe"},
		{"html2text", "<p>hi <b>there</b></p>", "hi there"},
	}
	for _, test := range tests {
		out, err := runFilter(test.filter, test.input)
		if err != nil {
			t.Errorf("%s: %v", test.filter, err)
			continue
		}
		if out != test.want {
			t.Errorf("%s: got %q, want %q", test.filter, out, test.want)
		}
	}
}

func TestRunFilterMarkdown(t *testing.T) {
	out, err := runFilter("markdown2html", "# Title")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `id="title"`) || !strings.Contains(out, "anchor-link") {
		t.Errorf("Unexpected markdown output: %q", out)
	}
}

func TestRunFilterUnknown(t *testing.T) {
	_, err := runFilter("bogus", "")
	if !errors.Is(err, nbmark.ErrUnknownFilter) {
		t.Fatalf("Expected ErrUnknownFilter, got %v", err)
	}
	if nbmark.ErrorCode(err) != 400 {
		t.Errorf("Expected status 400, got %d", nbmark.ErrorCode(err))
	}
}

func TestRunFilterIPythonToggle(t *testing.T) {
	old := config.C.IPython.Enabled
	defer func() { config.C.IPython.Enabled = old }()

	config.C.IPython.Enabled = false
	if _, err := runFilter("ipython2python", "%pwd"); !errors.Is(err, nbmark.ErrTransformDisabled) {
		t.Fatalf("Expected ErrTransformDisabled, got %v", err)
	}

	config.C.IPython.Enabled = true
	out, err := runFilter("ipython2python", "%pwd")
	if err != nil {
		t.Fatal(err)
	}
	if out != "get_ipython().run_line_magic('pwd', '')" {
		t.Errorf("Got %q", out)
	}
}
