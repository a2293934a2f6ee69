package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[common]
log_dir = "/tmp/logs"
debug = true

[render]
anchor_link_text = "#"

[filters]
wrap_width = 72
comment_prefix = "// "

[ipython]
enabled = false
no_browser = true
browser_backends = ["qt"]
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	old := C
	defer func() { C = old }()

	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !C.Common.Debug || C.Common.LogDir != "/tmp/logs" {
		t.Errorf("Common section mis-decoded: %+v", C.Common)
	}
	if C.Render.AnchorLinkText != "#" {
		t.Errorf("Render section mis-decoded: %+v", C.Render)
	}
	if C.Filters.WrapWidth != 72 || C.Filters.CommentPrefix != "// " {
		t.Errorf("Filters section mis-decoded: %+v", C.Filters)
	}
	if C.Filters.PromptFirst != ">>> " {
		t.Errorf("Unset keys should keep their defaults: %+v", C.Filters)
	}
	if C.IPython.Enabled || !C.IPython.NoBrowser {
		t.Errorf("IPython section mis-decoded: %+v", C.IPython)
	}
	if len(C.IPython.BrowserBackends) != 1 || C.IPython.BrowserBackends[0] != "qt" {
		t.Errorf("Backend list mis-decoded: %v", C.IPython.BrowserBackends)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	old := C
	defer func() { C = old }()

	C.Filters.WrapWidth = 80
	C.Render.AnchorLinkText = "$"
	if err := Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	C = ConfigStruct{}
	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if C.Filters.WrapWidth != 80 || C.Render.AnchorLinkText != "$" {
		t.Errorf("Round trip lost values: %+v", C)
	}
	if len(C.IPython.BrowserBackends) != 2 {
		t.Errorf("Round trip lost backend defaults: %v", C.IPython.BrowserBackends)
	}
}

func TestValidate(t *testing.T) {
	c := C
	if err := c.Validate(); err != nil {
		t.Fatalf("Defaults should validate: %v", err)
	}
	c.Filters.WrapWidth = -1
	if err := c.Validate(); err == nil {
		t.Error("Negative wrap width should not validate")
	}
	c.Filters.WrapWidth = 0
	c.IPython.BrowserBackends = []string{"notebook", ""}
	if err := c.Validate(); err == nil {
		t.Error("Empty backend name should not validate")
	}
}
