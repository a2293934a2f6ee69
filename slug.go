package nbmark

import "github.com/gosimple/slug"

// MakeSlug turns heading or title text into an URL-safe identifier. Both the
// heading anchors and the cross-reference labels are derived from it, so it
// is the single place deciding what an anchor id looks like.
func MakeSlug(text string) string {
	return slug.Make(text)
}
