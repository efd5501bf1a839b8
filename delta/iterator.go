package delta

import "math"

// opIterator walks a delta's ops, allowing partial consumption. The cursor
// is an index into the op slice plus a rune offset into the head op. The
// source is never mutated.
type opIterator struct {
	ops    []Op
	index  int
	offset int
}

func newIterator(ops []Op) *opIterator {
	return &opIterator{ops: ops}
}

func (it *opIterator) hasNext() bool {
	return it.index < len(it.ops)
}

// peek returns the whole head op, ignoring any consumed offset.
func (it *opIterator) peek() Op {
	if !it.hasNext() {
		return Op{}
	}
	return it.ops[it.index]
}

// peekType returns the head op's kind. An exhausted iterator reports
// KindRetain: past the end a delta implicitly retains, which is what makes
// retains beyond the other side's length and trailing carry-over fall out of
// the walk loops.
func (it *opIterator) peekType() Kind {
	if !it.hasNext() {
		return KindRetain
	}
	return it.ops[it.index].Kind()
}

// peekLength returns the unconsumed length of the head op, or math.MaxInt
// when exhausted (the implicit retain is unbounded).
func (it *opIterator) peekLength() int {
	if !it.hasNext() {
		return math.MaxInt
	}
	return it.ops[it.index].Length() - it.offset
}

// next consumes and returns a prefix of the head op of length at most n,
// splitting text, retain and delete ops as needed. Embeds are indivisible:
// any n >= 1 takes the whole embed. An exhausted iterator yields a plain
// retain of length n.
func (it *opIterator) next(n int) Op {
	if !it.hasNext() {
		return Op{Retain: n}
	}
	op := it.ops[it.index]
	offset := it.offset
	remaining := op.Length() - offset
	if n >= remaining {
		n = remaining
		it.index++
		it.offset = 0
	} else {
		it.offset += n
	}
	switch op.Kind() {
	case KindDelete:
		return Op{Delete: n}
	case KindRetain:
		return Op{Retain: n, Attributes: op.Attributes}
	default:
		if op.IsEmbed() {
			return Op{Embed: op.Embed, Attributes: op.Attributes}
		}
		runes := []rune(op.Insert)
		return Op{Insert: string(runes[offset : offset+n]), Attributes: op.Attributes}
	}
}

// rest returns the unconsumed remainder of the delta, splitting a partially
// consumed head op.
func (it *opIterator) rest() []Op {
	if !it.hasNext() {
		return nil
	}
	if it.offset == 0 {
		return it.ops[it.index:]
	}
	head := it.next(it.peekLength())
	return append([]Op{head}, it.ops[it.index:]...)
}
