package delta

// Priority selects the tie-break when two concurrent deltas insert at the
// same position.
type Priority uint8

const (
	// Left treats the receiver as having happened first: the other delta's
	// inserts are pushed right past the receiver's.
	Left Priority = iota
	// Right treats the two deltas as simultaneous siblings: the other
	// delta's inserts land before the receiver's at the same index.
	Right
)

func (p Priority) String() string {
	if p == Right {
		return "right"
	}
	return "left"
}

// Transform rebases other against d, returning other' such that
//
//	d.Compose(d.Transform(other, Left)) == other.Compose(other.Transform(d, Right))
//
// for any two changes addressing the same document.
func (d *Delta) Transform(other *Delta, priority Priority) *Delta {
	thisIter := newIterator(d.Ops)
	otherIter := newIterator(other.Ops)
	out := New()
	for thisIter.hasNext() || otherIter.hasNext() {
		if thisIter.peekType() == KindInsert &&
			(priority == Left || otherIter.peekType() != KindInsert) {
			// d's insert wins this position; other must skip over it.
			skipped := thisIter.next(thisIter.peekLength())
			out.Retain(skipped.Length(), nil)
			continue
		}
		if otherIter.peekType() == KindInsert {
			out.Push(otherIter.next(otherIter.peekLength()))
			continue
		}
		n := min(thisIter.peekLength(), otherIter.peekLength())
		thisOp := thisIter.next(n)
		otherOp := otherIter.next(n)
		switch {
		case thisOp.IsDelete():
			// The region other addressed is gone; nothing survives.
		case otherOp.IsDelete():
			out.Push(otherOp)
		default:
			out.Retain(n, TransformAttributes(thisOp.Attributes, otherOp.Attributes, priority))
		}
	}
	return out.Chop()
}

// TransformPosition rebases a cursor index across d. With Left priority an
// insert exactly at the index does not move it; with Right priority it
// pushes the index forward.
func (d *Delta) TransformPosition(index int, priority Priority) int {
	iter := newIterator(d.Ops)
	offset := 0
	for iter.hasNext() && offset <= index {
		length := iter.peekLength()
		kind := iter.peekType()
		iter.next(length)
		if kind == KindDelete {
			index -= min(length, index-offset)
			continue
		}
		if kind == KindInsert && (offset < index || priority == Right) {
			index += length
		}
		offset += length
	}
	return index
}
