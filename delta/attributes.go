package delta

import (
	"encoding/json"
	"reflect"
)

// AttrMap holds the formatting attached to an insert or retain. Values are
// JSON scalars, nested deltas (*Delta, or a map carrying an "ops" key), or
// nil — the sentinel meaning "remove this attribute", valid only inside
// change deltas.
type AttrMap map[string]any

// Clone returns a shallow copy. Attribute values are treated as immutable.
func (a AttrMap) Clone() AttrMap {
	if a == nil {
		return nil
	}
	out := make(AttrMap, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// asDelta reports whether an attribute value is a nested delta and returns
// it. Raw maps with an "ops" key (as produced by generic JSON decoding) are
// converted on the fly.
func asDelta(v any) (*Delta, bool) {
	switch d := v.(type) {
	case *Delta:
		return d, d != nil
	case Delta:
		return &d, true
	case map[string]any:
		if _, ok := d["ops"]; !ok {
			return nil, false
		}
		raw, err := json.Marshal(d)
		if err != nil {
			return nil, false
		}
		var nested Delta
		if err := json.Unmarshal(raw, &nested); err != nil {
			return nil, false
		}
		return &nested, true
	}
	return nil, false
}

// valuesEqual compares two attribute values, deep through nested deltas.
func valuesEqual(a, b any) bool {
	if ad, ok := asDelta(a); ok {
		bd, ok := asDelta(b)
		return ok && ad.Equal(bd)
	}
	if _, ok := asDelta(b); ok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// attrsEqual compares two attribute maps; nil and empty compare equal.
func attrsEqual(a, b AttrMap) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !valuesEqual(av, bv) {
			return false
		}
	}
	return true
}

// ComposeAttributes layers b over a. Keys in both are taken from b, except
// that two nested deltas compose recursively. With keepNil false, removal
// sentinels are applied and stripped (composing onto a document); with
// keepNil true they survive so a later application can still see them.
func ComposeAttributes(a, b AttrMap, keepNil bool) AttrMap {
	out := make(AttrMap, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, bv := range b {
		if av, ok := a[k]; ok {
			if ad, aok := asDelta(av); aok {
				if bd, bok := asDelta(bv); bok {
					out[k] = ad.Compose(bd)
					continue
				}
			}
		}
		out[k] = bv
	}
	if !keepNil {
		for k, v := range out {
			if v == nil {
				delete(out, k)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// TransformAttributes rebases right against a concurrent left. With Right
// priority, right wins outright; with Left priority only right's additions
// survive. Keys that are nested deltas on both sides recurse through
// Delta.Transform regardless of priority.
func TransformAttributes(left, right AttrMap, priority Priority) AttrMap {
	if len(right) == 0 {
		return nil
	}
	out := make(AttrMap, len(right))
	for k, rv := range right {
		lv, inLeft := left[k]
		if inLeft {
			if ld, lok := asDelta(lv); lok {
				if rd, rok := asDelta(rv); rok {
					out[k] = ld.Transform(rd, priority)
					continue
				}
			}
		}
		if priority == Right || !inLeft {
			out[k] = rv
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// DiffAttributes returns the change that turns a's attributes into b's:
// removed keys map to nil, added or changed keys map to b's value, and keys
// that are nested deltas on both sides diff recursively (omitted when the
// nested diff is empty).
func DiffAttributes(a, b AttrMap) AttrMap {
	out := make(AttrMap)
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			out[k] = nil
			continue
		}
		if ad, aok := asDelta(av); aok {
			if bd, bok := asDelta(bv); bok {
				if nested, err := ad.Diff(bd); err == nil {
					if len(nested.Ops) > 0 {
						out[k] = nested
					}
					continue
				}
			}
		}
		if !valuesEqual(av, bv) {
			out[k] = bv
		}
	}
	for k, bv := range b {
		if _, ok := a[k]; !ok {
			out[k] = bv
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// InvertAttributes returns the attributes that undo attr against base:
// overwritten keys revert to base's value, added keys are removed.
func InvertAttributes(attr, base AttrMap) AttrMap {
	out := make(AttrMap)
	for k, bv := range base {
		if av, ok := attr[k]; ok && !valuesEqual(av, bv) {
			out[k] = bv
		}
	}
	for k := range attr {
		if _, ok := base[k]; !ok {
			out[k] = nil
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
