package delta

// Compose returns the delta equivalent to applying d and then other, as a
// single change. Composition is total: two well-formed deltas always
// compose to a well-formed delta, and it is associative.
func (d *Delta) Compose(other *Delta) *Delta {
	thisIter := newIterator(d.Ops)
	otherIter := newIterator(other.Ops)
	out := New()
	for thisIter.hasNext() || otherIter.hasNext() {
		// other's inserts add new content on top of d's output.
		if otherIter.peekType() == KindInsert {
			out.Push(otherIter.next(otherIter.peekLength()))
			continue
		}
		// d's deletes removed content other never saw.
		if thisIter.peekType() == KindDelete {
			out.Push(thisIter.next(thisIter.peekLength()))
			continue
		}
		n := min(thisIter.peekLength(), otherIter.peekLength())
		thisOp := thisIter.next(n)
		otherOp := otherIter.next(n)
		switch {
		case otherOp.IsRetain():
			newOp := Op{}
			if thisOp.IsRetain() {
				newOp.Retain = n
			} else {
				newOp.Insert = thisOp.Insert
				newOp.Embed = thisOp.Embed
			}
			// Removal sentinels survive a retain/retain compose so a later
			// application still sees them; composing onto an insert applies
			// and strips them.
			newOp.Attributes = ComposeAttributes(thisOp.Attributes, otherOp.Attributes, thisOp.IsRetain())
			out.Push(newOp)
			// Once other is exhausted the rest of d passes through
			// untouched; append it wholesale instead of walking op by op.
			if !otherIter.hasNext() && len(out.Ops) > 0 && out.Ops[len(out.Ops)-1].equal(thisOp) {
				rest := &Delta{Ops: thisIter.rest()}
				return out.Concat(rest).Chop()
			}
		case otherOp.IsDelete() && thisOp.IsRetain():
			out.Push(otherOp)
		}
		// other deleting what d inserted cancels to nothing.
	}
	return out.Chop()
}
