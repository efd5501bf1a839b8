package delta

import (
	"fmt"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// embedRune stands in for an embed when a document is flattened to text for
// diffing. Two different embeds flatten to the same rune; the replay walk
// tells them apart by deep comparison.
const embedRune = '\x00'

// Diff returns the change that turns document d into document other, built
// on a longest-common-subsequence diff of the flattened content. Both
// arguments must be valid documents or the call fails with ErrBadDocument.
func (d *Delta) Diff(other *Delta) (*Delta, error) {
	if !d.IsDocument() {
		return nil, fmt.Errorf("diff: %w: left side contains retain or delete", ErrBadDocument)
	}
	if !other.IsDocument() {
		return nil, fmt.Errorf("diff: %w: right side contains retain or delete", ErrBadDocument)
	}
	out := New()
	if d.Equal(other) {
		return out, nil
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(documentRunes(d), documentRunes(other), false)
	thisIter := newIterator(d.Ops)
	otherIter := newIterator(other.Ops)
	for _, component := range diffs {
		length := utf8.RuneCountInString(component.Text)
		for length > 0 {
			opLength := 0
			switch component.Type {
			case diffmatchpatch.DiffInsert:
				opLength = min(otherIter.peekLength(), length)
				out.Push(otherIter.next(opLength))
			case diffmatchpatch.DiffDelete:
				opLength = min(length, thisIter.peekLength())
				thisIter.next(opLength)
				out.Delete(opLength)
			case diffmatchpatch.DiffEqual:
				opLength = min(min(thisIter.peekLength(), otherIter.peekLength()), length)
				thisOp := thisIter.next(opLength)
				otherOp := otherIter.next(opLength)
				if insertsEqual(thisOp, otherOp) {
					out.Retain(opLength, DiffAttributes(thisOp.Attributes, otherOp.Attributes))
				} else {
					// Distinct embeds share the placeholder rune and land in
					// an equal run; they are replaced, not retained.
					out.Push(otherOp)
					out.Delete(opLength)
				}
			}
			length -= opLength
		}
	}
	return out.Chop(), nil
}

// MustDiff is Diff for callers that have already validated both documents.
// It panics on error.
func (d *Delta) MustDiff(other *Delta) *Delta {
	out, err := d.Diff(other)
	if err != nil {
		panic(err)
	}
	return out
}

// documentRunes flattens a document's insert payloads into one rune
// sequence, embeds contributing a single placeholder.
func documentRunes(d *Delta) []rune {
	runes := make([]rune, 0, d.Length())
	for _, op := range d.Ops {
		if op.IsEmbed() {
			runes = append(runes, embedRune)
		} else {
			runes = append(runes, []rune(op.Insert)...)
		}
	}
	return runes
}

// insertsEqual compares the payloads of two insert slices of equal length.
func insertsEqual(a, b Op) bool {
	if a.IsEmbed() || b.IsEmbed() {
		return a.IsEmbed() && b.IsEmbed() && valuesEqual(a.Embed, b.Embed)
	}
	return a.Insert == b.Insert
}
