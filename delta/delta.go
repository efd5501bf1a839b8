// Package delta implements the Quill rich-text delta format and its
// operational-transformation algebra: canonical construction, composition,
// transformation, document diffing, application and line projection.
//
// A delta is an ordered sequence of insert, retain and delete operations.
// A delta made only of inserts describes a document; any other delta
// describes a change to one. The algebra (Compose, Transform, Diff, Apply,
// Invert, Lines, Slice, Concat, ...) is pure: inputs are never mutated and
// identical inputs produce identical outputs. The builder methods Insert,
// InsertEmbed, Retain, Delete, Push and Chop modify and return their
// receiver.
package delta

// Delta is a canonical sequence of operations. The zero value is the empty
// delta. Build deltas with New and the chainable Insert, InsertEmbed,
// Retain, Delete and Push methods; they maintain the canonical-form
// invariants (no zero-length ops, mergeable neighbors merged, inserts
// ordered before adjacent deletes), so the algebra never has to
// re-normalize its inputs.
type Delta struct {
	Ops []Op `json:"ops"`
}

// New returns a delta holding the given ops, normalized to canonical form.
func New(ops ...Op) *Delta {
	d := &Delta{}
	for _, op := range ops {
		d.Push(op)
	}
	return d
}

// Insert appends a text insert. Empty text is a no-op.
func (d *Delta) Insert(text string, attrs AttrMap) *Delta {
	if text == "" {
		return d
	}
	return d.Push(Op{Insert: text, Attributes: attrs})
}

// InsertEmbed appends an embed insert (any non-string payload, length 1).
func (d *Delta) InsertEmbed(embed any, attrs AttrMap) *Delta {
	if embed == nil {
		return d
	}
	return d.Push(Op{Embed: embed, Attributes: attrs})
}

// Retain appends a retain of n positions. n < 1 is a no-op.
func (d *Delta) Retain(n int, attrs AttrMap) *Delta {
	if n < 1 {
		return d
	}
	return d.Push(Op{Retain: n, Attributes: attrs})
}

// Delete appends a delete of n positions. n < 1 is a no-op.
func (d *Delta) Delete(n int) *Delta {
	if n < 1 {
		return d
	}
	return d.Push(Op{Delete: n})
}

// Push appends op while keeping the delta canonical: zero-length ops are
// dropped, an insert arriving after a delete is placed before it, and
// adjacent ops of the same kind with equal attributes merge. Embeds never
// merge.
func (d *Delta) Push(op Op) *Delta {
	if op.Length() == 0 {
		return d
	}
	index := len(d.Ops)
	if index > 0 {
		last := d.Ops[index-1]
		if op.IsDelete() && last.IsDelete() {
			d.Ops[index-1] = Op{Delete: last.Delete + op.Delete}
			return d
		}
		// Inserts go before an adjacent delete so that an insert/delete
		// pair always lands in the same order.
		if last.IsDelete() && op.IsInsert() {
			index--
			if index == 0 {
				d.Ops = append([]Op{op}, d.Ops...)
				return d
			}
			last = d.Ops[index-1]
		}
		if attrsEqual(op.Attributes, last.Attributes) {
			if op.IsTextInsert() && last.IsTextInsert() {
				d.Ops[index-1] = Op{Insert: last.Insert + op.Insert, Attributes: op.Attributes}
				return d
			}
			if op.IsRetain() && last.IsRetain() {
				d.Ops[index-1] = Op{Retain: last.Retain + op.Retain, Attributes: op.Attributes}
				return d
			}
		}
	}
	if index == len(d.Ops) {
		d.Ops = append(d.Ops, op)
	} else {
		d.Ops = append(d.Ops, Op{})
		copy(d.Ops[index+1:], d.Ops[index:])
		d.Ops[index] = op
	}
	return d
}

// Chop drops a trailing plain retain, which is a no-op. Canonical deltas
// have at most one, so Chop is idempotent.
func (d *Delta) Chop() *Delta {
	if n := len(d.Ops); n > 0 {
		last := d.Ops[n-1]
		if last.IsRetain() && len(last.Attributes) == 0 {
			d.Ops = d.Ops[:n-1]
		}
	}
	return d
}

// Length returns the total length of all ops.
func (d *Delta) Length() int {
	n := 0
	for _, op := range d.Ops {
		n += op.Length()
	}
	return n
}

// BaseLength returns the length of document the delta addresses as a
// change: the sum of its retains and deletes. Inserts address no existing
// content.
func (d *Delta) BaseLength() int {
	n := 0
	for _, op := range d.Ops {
		switch op.Kind() {
		case KindRetain:
			n += op.Retain
		case KindDelete:
			n += op.Delete
		}
	}
	return n
}

// ChangeLength returns the net effect of the delta on document length:
// inserts add, deletes subtract, retains are neutral.
func (d *Delta) ChangeLength() int {
	n := 0
	for _, op := range d.Ops {
		switch op.Kind() {
		case KindInsert:
			n += op.Length()
		case KindDelete:
			n -= op.Delete
		}
	}
	return n
}

// Slice returns the subsequence covering positions [start, end), splitting
// ops at the boundaries.
func (d *Delta) Slice(start, end int) *Delta {
	out := New()
	iter := newIterator(d.Ops)
	index := 0
	for index < end && iter.hasNext() {
		var op Op
		if index < start {
			op = iter.next(start - index)
		} else {
			op = iter.next(end - index)
			out.Push(op)
		}
		index += op.Length()
	}
	return out
}

// Concat returns d followed by other. The seam is re-compacted so the
// result is canonical.
func (d *Delta) Concat(other *Delta) *Delta {
	out := New(d.Ops...)
	if other != nil {
		for _, op := range other.Ops {
			out.Push(op)
		}
	}
	return out
}

// Clone returns an independent copy of the delta. Attribute values are
// shared; they are treated as immutable throughout the package.
func (d *Delta) Clone() *Delta {
	out := &Delta{Ops: make([]Op, len(d.Ops))}
	copy(out.Ops, d.Ops)
	return out
}

// Equal compares two deltas op-by-op, deep through attributes, embeds and
// nested deltas.
func (d *Delta) Equal(other *Delta) bool {
	if other == nil {
		return d == nil || len(d.Ops) == 0
	}
	if len(d.Ops) != len(other.Ops) {
		return false
	}
	for i, op := range d.Ops {
		if !op.equal(other.Ops[i]) {
			return false
		}
	}
	return true
}

// IsDocument reports whether the delta describes a document: every op is an
// insert, and every nested delta inside attribute values is recursively a
// document.
func (d *Delta) IsDocument() bool {
	for _, op := range d.Ops {
		if !op.IsInsert() {
			return false
		}
		if !attrsAreDocument(op.Attributes) {
			return false
		}
	}
	return true
}

func attrsAreDocument(a AttrMap) bool {
	for _, v := range a {
		if nested, ok := asDelta(v); ok && !nested.IsDocument() {
			return false
		}
	}
	return true
}
