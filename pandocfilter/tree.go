// Package pandocfilter applies targeted rewrites to pandoc JSON document
// trees, streamed in and out as serialized strings.
package pandocfilter

import (
	"encoding/json"
	"errors"
)

// Node is one tagged element of a pandoc document tree. Content stays raw
// until a rule needs to look inside, so every untouched subtree re-encodes
// byte-identical to its input.
type Node struct {
	Tag     string          `json:"t"`
	Content json.RawMessage `json:"c,omitempty"`
}

// Rule inspects a single tagged node. With replace false the node is kept
// and its children are walked. With replace true the node is substituted by
// the returned elements, spliced into the parent sequence; an empty
// replacement deletes the node. Replacement payloads are walked too, but the
// rule never fires on a replacement's own top level, so a rule may safely
// emit nodes of a kind it matches.
type Rule func(node Node) (replacement []Node, replace bool, err error)

// Apply decodes a serialized tree, runs rule over every tagged node and
// re-encodes the result. Tagged nodes are recognized anywhere a sequence
// holds them: block lists, inline runs, metadata values.
func Apply(source string, rule Rule) (string, error) {
	raw := json.RawMessage(source)
	if !json.Valid(raw) {
		return "", errors.New("input is not valid JSON")
	}
	out, _, err := walkValue(raw, rule)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func walkValue(raw json.RawMessage, rule Rule) (json.RawMessage, bool, error) {
	switch firstByte(raw) {
	case '[':
		return walkSequence(raw, rule)
	case '{':
		return walkMapping(raw, rule)
	default:
		return raw, false, nil
	}
}

// walkSequence is where rules fire: pandoc elements always live in arrays.
func walkSequence(raw json.RawMessage, rule Rule) (json.RawMessage, bool, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, err
	}
	out := make([]json.RawMessage, 0, len(items))
	changed := false
	for _, item := range items {
		node, tagged := taggedNode(item)
		if !tagged {
			walked, ch, err := walkValue(item, rule)
			if err != nil {
				return nil, false, err
			}
			changed = changed || ch
			out = append(out, walked)
			continue
		}

		repl, replace, err := rule(node)
		if err != nil {
			return nil, false, err
		}
		if !replace {
			walked, ch, err := walkNode(item, node, rule)
			if err != nil {
				return nil, false, err
			}
			changed = changed || ch
			out = append(out, walked)
			continue
		}

		changed = true
		for _, r := range repl {
			enc, err := json.Marshal(r)
			if err != nil {
				return nil, false, err
			}
			walked, _, err := walkNode(enc, r, rule)
			if err != nil {
				return nil, false, err
			}
			out = append(out, walked)
		}
	}
	if !changed {
		return raw, false, nil
	}
	enc, err := json.Marshal(out)
	if err != nil {
		return nil, false, err
	}
	return enc, true, nil
}

// walkNode descends into a kept node's payload without re-running the rule
// on the node itself.
func walkNode(raw json.RawMessage, node Node, rule Rule) (json.RawMessage, bool, error) {
	if len(node.Content) == 0 {
		return raw, false, nil
	}
	walked, ch, err := walkValue(node.Content, rule)
	if err != nil {
		return nil, false, err
	}
	if !ch {
		return raw, false, nil
	}
	enc, err := json.Marshal(Node{Tag: node.Tag, Content: walked})
	if err != nil {
		return nil, false, err
	}
	return enc, true, nil
}

// walkMapping handles plain objects such as the document root and the meta
// map. Key order is not significant in pandoc's JSON, so a rewritten
// mapping may re-serialize its keys sorted.
func walkMapping(raw json.RawMessage, rule Rule) (json.RawMessage, bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false, err
	}
	changed := false
	for k, v := range fields {
		walked, ch, err := walkValue(v, rule)
		if err != nil {
			return nil, false, err
		}
		if ch {
			fields[k] = walked
			changed = true
		}
	}
	if !changed {
		return raw, false, nil
	}
	enc, err := json.Marshal(fields)
	if err != nil {
		return nil, false, err
	}
	return enc, true, nil
}

// taggedNode reports whether raw is a {"t": ..., "c": ...} element. Objects
// carrying any other keys are treated as plain mappings.
func taggedNode(raw json.RawMessage) (Node, bool) {
	if firstByte(raw) != '{' {
		return Node{}, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Node{}, false
	}
	tagRaw, ok := fields["t"]
	if !ok || len(fields) > 2 {
		return Node{}, false
	}
	if len(fields) == 2 {
		if _, ok := fields["c"]; !ok {
			return Node{}, false
		}
	}
	var tag string
	if err := json.Unmarshal(tagRaw, &tag); err != nil {
		return Node{}, false
	}
	return Node{Tag: tag, Content: fields["c"]}, true
}

func firstByte(raw json.RawMessage) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
		default:
			return b
		}
	}
	return 0
}
