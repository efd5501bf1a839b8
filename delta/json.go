package delta

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The wire format is Quill's: an op is exactly one of
//
//	{"insert": <string | any>, "attributes": {...}?}
//	{"retain": <n>, "attributes": {...}?}
//	{"delete": <n>}
//
// and a delta marshals as {"ops":[...]}. Attribute values that are objects
// carrying an "ops" array decode to nested deltas; null attribute values
// are the removal sentinel.

type opJSON struct {
	Insert     any     `json:"insert,omitempty"`
	Retain     int     `json:"retain,omitempty"`
	Delete     int     `json:"delete,omitempty"`
	Attributes AttrMap `json:"attributes,omitempty"`
}

// MarshalJSON encodes the op in Quill wire form.
func (o Op) MarshalJSON() ([]byte, error) {
	j := opJSON{Retain: o.Retain, Delete: o.Delete}
	if o.IsEmbed() {
		j.Insert = o.Embed
	} else if o.Insert != "" {
		j.Insert = o.Insert
	}
	if len(o.Attributes) > 0 {
		j.Attributes = o.Attributes
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes a Quill wire-form op. A non-string insert payload
// becomes an embed; nested deltas inside attribute values are recognized by
// their "ops" field.
func (o *Op) UnmarshalJSON(data []byte) error {
	var raw struct {
		Insert     json.RawMessage            `json:"insert"`
		Retain     *int                       `json:"retain"`
		Delete     *int                       `json:"delete"`
		Attributes map[string]json.RawMessage `json:"attributes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*o = Op{}
	switch {
	case raw.Insert != nil:
		var text string
		if err := json.Unmarshal(raw.Insert, &text); err == nil {
			o.Insert = text
		} else {
			var embed any
			if err := json.Unmarshal(raw.Insert, &embed); err != nil {
				return fmt.Errorf("op insert payload: %w", err)
			}
			o.Embed = embed
		}
	case raw.Retain != nil:
		if *raw.Retain < 0 {
			return fmt.Errorf("op retain is negative: %d", *raw.Retain)
		}
		o.Retain = *raw.Retain
	case raw.Delete != nil:
		if *raw.Delete < 0 {
			return fmt.Errorf("op delete is negative: %d", *raw.Delete)
		}
		o.Delete = *raw.Delete
	default:
		return fmt.Errorf("op has none of insert, retain, delete")
	}
	if len(raw.Attributes) > 0 {
		attrs := make(AttrMap, len(raw.Attributes))
		for key, value := range raw.Attributes {
			decoded, err := decodeAttrValue(value)
			if err != nil {
				return fmt.Errorf("attribute %q: %w", key, err)
			}
			attrs[key] = decoded
		}
		o.Attributes = attrs
	}
	return nil
}

func decodeAttrValue(raw json.RawMessage) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if m, ok := v.(map[string]any); ok {
		if _, ok := m["ops"]; ok {
			var nested Delta
			if err := json.Unmarshal(raw, &nested); err == nil {
				return &nested, nil
			}
		}
	}
	return v, nil
}

// UnmarshalJSON accepts either the {"ops":[...]} object form or a bare op
// array, and normalizes the decoded ops to canonical form.
func (d *Delta) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	var ops []Op
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &ops); err != nil {
			return err
		}
	} else {
		var wrapper struct {
			Ops []Op `json:"ops"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return err
		}
		ops = wrapper.Ops
	}
	*d = Delta{}
	for _, op := range ops {
		d.Push(op)
	}
	return nil
}
