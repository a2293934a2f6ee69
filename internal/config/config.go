package config

import (
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ConfigStruct is the glue for all configuration sections
type ConfigStruct struct {
	Common  Common  `toml:"common"`
	Render  Render  `toml:"render"`
	Filters Filters `toml:"filters"`
	IPython IPython `toml:"ipython"`
}

// Common is the data shared by every filter invocation
type Common struct {
	LogDir string `toml:"log_dir"`
	Debug  bool   `toml:"debug"`
}

// Render configures the markdown2html filter
type Render struct {
	AnchorLinkText string `toml:"anchor_link_text"`
}

// Filters holds the knobs of the plain string filters
type Filters struct {
	WrapWidth     int    `toml:"wrap_width"`
	CommentPrefix string `toml:"comment_prefix"`
	PromptFirst   string `toml:"prompt_first"`
	PromptCont    string `toml:"prompt_cont"`
}

// IPython controls the ipython2python transform
type IPython struct {
	Enabled   bool `toml:"enabled"`
	NoBrowser bool `toml:"no_browser"`
	// BrowserBackends lists the matplotlib backends stripped when
	// no_browser is set. Empty means notebook and inline.
	BrowserBackends []string `toml:"browser_backends"`
}

var wrapWidthRules = []validation.Rule{validation.Min(1), validation.Max(10000)}

func (c *ConfigStruct) Validate() error {
	if err := validation.ValidateStruct(&c.Filters,
		validation.Field(&c.Filters.WrapWidth, wrapWidthRules...),
		validation.Field(&c.Filters.PromptFirst, validation.Required),
		validation.Field(&c.Filters.PromptCont, validation.Required),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&c.IPython,
		validation.Field(&c.IPython.BrowserBackends, validation.Each(validation.Required)),
	)
}

// C represents the loaded config
var C = ConfigStruct{
	Filters: Filters{
		WrapWidth:     100,
		CommentPrefix: "# ",
		PromptFirst:   ">>> ",
		PromptCont:    "... ",
	},
	IPython: IPython{
		Enabled:         true,
		BrowserBackends: []string{"notebook", "inline"},
	},
}

func Load(path string) error {
	md, err := toml.DecodeFile(path, &C)
	if err != nil {
		return err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		slog.Warn("Undecoded config keys", slog.Any("keys", keys))
	}
	return C.Validate()
}

func Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(file).Encode(C); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
