package ast

import "encoding/json"

type jsonNode struct {
	Kind     string          `json:"kind"`
	Start    int             `json:"start"`
	End      int             `json:"end"`
	Attr     json.RawMessage `json:"attr,omitempty"`
	Children []*jsonNode     `json:"children,omitempty"`
}

// MarshalTree renders the subtree rooted at idx as JSON, for dumps and
// golden-file tests.
func (a *Arena) MarshalTree(idx NodeIndex) ([]byte, error) {
	return json.Marshal(a.toJSON(idx))
}

func (a *Arena) toJSON(idx NodeIndex) *jsonNode {
	start, end := a.Range(idx)
	jn := &jsonNode{
		Kind:  a.Kind(idx).String(),
		Start: start,
		End:   end,
	}

	if attr := a.Attribute(idx); attr != nil {
		if raw, err := json.Marshal(attr); err == nil {
			jn.Attr = raw
		}
	}

	children := a.Children(idx)
	if len(children) > 0 {
		jn.Children = make([]*jsonNode, len(children))
		for i, c := range children {
			jn.Children[i] = a.toJSON(c)
		}
	}

	return jn
}
