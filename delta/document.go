package delta

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch reports a change addressing positions past the end
	// of the document it is applied to.
	ErrLengthMismatch = errors.New("change extends past end of document")
	// ErrBadDocument reports a delta that is not a valid document where one
	// is required: it contains a retain or delete, directly or inside a
	// nested delta.
	ErrBadDocument = errors.New("delta is not a document")
)

// Apply applies change to document d. It fails with ErrLengthMismatch if
// the change addresses more content than the document holds; on success the
// result is exactly d.Compose(change).
func (d *Delta) Apply(change *Delta) (*Delta, error) {
	if base := change.BaseLength(); base > d.Length() {
		return nil, fmt.Errorf("apply: %w: change addresses %d, document holds %d",
			ErrLengthMismatch, base, d.Length())
	}
	return d.Compose(change), nil
}

// MustApply is Apply for callers that have already bounds-checked the
// change. It panics on error.
func (d *Delta) MustApply(change *Delta) *Delta {
	out, err := d.Apply(change)
	if err != nil {
		panic(err)
	}
	return out
}

// Line is one logical line of a document: its content without the trailing
// newline, and the attributes carried by the newline itself (Quill encodes
// block formatting such as header or list on the newline).
type Line struct {
	Delta      *Delta
	Attributes AttrMap
}

// EachLine calls fn for every logical line of the document, in order. fn
// returning false stops the walk. Embeds belong to the line they appear in;
// a trailing newline does not produce an empty final line; an empty
// document yields no lines. Fails with ErrBadDocument if d is not a
// document.
func (d *Delta) EachLine(fn func(line *Delta, attrs AttrMap) bool) error {
	if !d.IsDocument() {
		return fmt.Errorf("lines: %w", ErrBadDocument)
	}
	iter := newIterator(d.Ops)
	line := New()
	for iter.hasNext() {
		head := iter.peek()
		newlineAt := -1
		if head.IsTextInsert() {
			start := head.Length() - iter.peekLength()
			runes := []rune(head.Insert)
			for i := start; i < len(runes); i++ {
				if runes[i] == '\n' {
					newlineAt = i - start
					break
				}
			}
		}
		switch {
		case newlineAt < 0:
			line.Push(iter.next(iter.peekLength()))
		case newlineAt > 0:
			line.Push(iter.next(newlineAt))
		default:
			attrs := iter.next(1).Attributes
			if !fn(line, attrs) {
				return nil
			}
			line = New()
		}
	}
	if line.Length() > 0 {
		fn(line, nil)
	}
	return nil
}

// Lines splits the document at newline boundaries and returns the lines in
// order. See EachLine for the edge rules.
func (d *Delta) Lines() ([]Line, error) {
	var lines []Line
	err := d.EachLine(func(line *Delta, attrs AttrMap) bool {
		lines = append(lines, Line{Delta: line, Attributes: attrs})
		return true
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// MustLines is Lines for callers that have already validated the document.
// It panics on error.
func (d *Delta) MustLines() []Line {
	lines, err := d.Lines()
	if err != nil {
		panic(err)
	}
	return lines
}
