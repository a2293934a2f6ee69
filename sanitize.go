package nbmark

import "github.com/microcosm-cc/bluemonday"

var sanitizePolicy = newSanitizePolicy()

func newSanitizePolicy() *bluemonday.Policy {
	pol := bluemonday.UGCPolicy()
	// keep the attributes our own renderer emits
	pol.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	pol.AllowAttrs("class").OnElements("a", "span", "pre", "code", "div")
	return pol
}

// SanitizeHTML scrubs a rendered fragment down to UGC-safe markup. Scripts,
// event handlers and unknown protocols are dropped; anchor ids and
// highlighting classes survive.
func SanitizeHTML(fragment string) string {
	return sanitizePolicy.Sanitize(fragment)
}
