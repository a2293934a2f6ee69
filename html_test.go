package nbmark

import (
	"strings"
	"testing"
)

func TestMakeSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Section One", "section-one"},
		{"API (v2)", "api-v2"},
		{"My Header!", "my-header"},
		{"  spaces  everywhere  ", "spaces-everywhere"},
	}
	for _, tc := range tests {
		if got := MakeSlug(tc.in); got != tc.want {
			t.Errorf("MakeSlug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHTMLToText(t *testing.T) {
	tests := []struct{ in, want string }{
		{"<h1>Section One</h1>", "Section One"},
		{"<p>a <b>bold</b> move</p>", "a bold move"},
		{"<h2>nested <em>deep <code>code</code></em> text</h2>", "nested deep code text"},
		{"plain text", "plain text"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := HTMLToText(tc.in); got != tc.want {
			t.Errorf("HTMLToText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAddAnchor(t *testing.T) {
	got := AddAnchor("<h1>Section One</h1>", "")
	if !strings.Contains(got, `id="section-one"`) {
		t.Errorf("missing id attribute: %q", got)
	}
	if !strings.Contains(got, `<a class="anchor-link" href="#section-one">¶</a>`) {
		t.Errorf("missing anchor link: %q", got)
	}
	if !strings.HasPrefix(got, "<h1") || !strings.HasSuffix(got, "</h1>") {
		t.Errorf("heading wrapper lost: %q", got)
	}
}

func TestAddAnchorMarker(t *testing.T) {
	got := AddAnchor("<h2>API (v2)</h2>", "#")
	if !strings.Contains(got, `id="api-v2"`) {
		t.Errorf("missing id attribute: %q", got)
	}
	if !strings.Contains(got, `href="#api-v2">#</a>`) {
		t.Errorf("marker not used: %q", got)
	}
}

func TestAddAnchorMalformed(t *testing.T) {
	// anything that is not exactly one element comes back untouched
	inputs := []string{
		"no tags at all",
		"<h1>one</h1><h1>two</h1>",
		"text <h1>then heading</h1>",
		"",
	}
	for _, in := range inputs {
		if got := AddAnchor(in, ""); got != in {
			t.Errorf("AddAnchor(%q) = %q, want input unchanged", in, got)
		}
	}
}

func TestSanitizeHTML(t *testing.T) {
	in := `<h1 id="t">x<script>alert(1)</script></h1><a class="anchor-link" href="#t">¶</a>`
	got := SanitizeHTML(in)
	if strings.Contains(got, "script") {
		t.Fatalf("script survived sanitization: %q", got)
	}
	if !strings.Contains(got, `id="t"`) {
		t.Errorf("heading id dropped: %q", got)
	}
	if !strings.Contains(got, `class="anchor-link"`) {
		t.Errorf("anchor class dropped: %q", got)
	}
}
