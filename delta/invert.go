package delta

// Invert returns the change that undoes d against base, the document d was
// applied to: inserts become deletes, deletes restore the base content, and
// retained formatting reverts via InvertAttributes. The result satisfies
//
//	base.Compose(d).Compose(d.Invert(base)).Equal(base)
func (d *Delta) Invert(base *Delta) *Delta {
	inverted := New()
	baseIndex := 0
	for _, op := range d.Ops {
		switch {
		case op.IsInsert():
			inverted.Delete(op.Length())
		case op.IsRetain() && len(op.Attributes) == 0:
			inverted.Retain(op.Retain, nil)
			baseIndex += op.Retain
		default:
			length := op.Delete
			if op.IsRetain() {
				length = op.Retain
			}
			slice := base.Slice(baseIndex, baseIndex+length)
			for _, baseOp := range slice.Ops {
				if op.IsDelete() {
					inverted.Push(baseOp)
				} else {
					inverted.Retain(baseOp.Length(), InvertAttributes(op.Attributes, baseOp.Attributes))
				}
			}
			baseIndex += length
		}
	}
	return inverted.Chop()
}
