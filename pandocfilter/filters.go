package pandocfilter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/cellforge/nbmark"
)

var (
	refTargetPattern  = regexp.MustCompile(`^#(.+)$`)
	labelNoisePattern = regexp.MustCompile(`[^\w-]+`)
)

// ResolveReferences rewrites every intra-document link (target "#label")
// into a raw TeX cross-reference, discarding the link caption. Links
// pointing anywhere else, and every other node, pass through untouched.
func ResolveReferences(source string) (string, error) {
	out, err := Apply(source, resolveReferenceRule)
	if err != nil {
		return "", nbmark.WrapError(400, err, "Malformed document tree")
	}
	return out, nil
}

// RemoveLinks deletes every link node from the tree, captions included.
func RemoveLinks(source string) (string, error) {
	out, err := Apply(source, removeLinkRule)
	if err != nil {
		return "", nbmark.WrapError(400, err, "Malformed document tree")
	}
	return out, nil
}

func resolveReferenceRule(node Node) ([]Node, bool, error) {
	if node.Tag != "Link" {
		return nil, false, nil
	}
	target, err := linkTarget(node)
	if err != nil {
		return nil, false, err
	}
	m := refTargetPattern.FindStringSubmatch(target)
	if m == nil {
		return nil, false, nil
	}
	return []Node{rawInline("tex", `Section \ref{`+normalizeLabel(m[1])+`}`)}, true, nil
}

// normalizeLabel strips HTML-entity noise from a fragment so it matches the
// ids the markdown renderer generates. Every slug is a fixed point of this
// normalization.
func normalizeLabel(fragment string) string {
	return labelNoisePattern.ReplaceAllString(strings.ToLower(fragment), "")
}

func removeLinkRule(node Node) ([]Node, bool, error) {
	if node.Tag == "Link" {
		return nil, true, nil
	}
	return nil, false, nil
}

// linkTarget pulls the URL out of a Link payload: [attr, inlines, [url, title]].
func linkTarget(node Node) (string, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(node.Content, &parts); err != nil {
		return "", fmt.Errorf("decoding link payload: %w", err)
	}
	if len(parts) != 3 {
		return "", fmt.Errorf("link payload has %d parts, want 3", len(parts))
	}
	var target []string
	if err := json.Unmarshal(parts[2], &target); err != nil {
		return "", fmt.Errorf("decoding link target: %w", err)
	}
	if len(target) == 0 {
		return "", fmt.Errorf("link target is empty")
	}
	return target[0], nil
}

func rawInline(format, text string) Node {
	content, _ := json.Marshal([]string{format, text})
	return Node{Tag: "RawInline", Content: content}
}
