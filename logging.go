package nbmark

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

func logColors(w io.Writer) bool {
	if os.Getenv("CLICOLOR_FORCE") != "" {
		return true
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	if !isatty.IsTerminal(f.Fd()) {
		return false
	}

	return os.Getenv("TERM") != "dumb"
}

// GetSlogHandler builds the handler used by the nbmark CLI. Library code just
// logs through slog.Default and stays quiet below debug level.
func GetSlogHandler(debug bool, out io.Writer) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	return tint.NewHandler(out, &tint.Options{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if _, ok := attr.Value.Any().(error); attr.Key == "err" || ok {
				return tint.Attr(9, attr)
			}
			return attr
		},
		TimeFormat: time.TimeOnly,
		NoColor:    !logColors(out),
	})
}
