// Package ordering computes order-index updates for drag-and-drop moves
// within a status partition. It is pure index math; the store applies its
// output transactionally and the client cache applies it optimistically.
package ordering

import "errors"

// ErrIndexOutOfRange is returned when a source or destination index does not
// address an element of the partition. An empty partition has no valid
// indexes, so any move on it fails with this error.
var ErrIndexOutOfRange = errors.New("index out of range")

// ItemRef is an item's identity plus its stored order index.
type ItemRef struct {
	ID         string
	OrderIndex int
}

// Update assigns a new order index to one item.
type Update struct {
	ID         string
	OrderIndex int
}

// Reorder moves the element at src to dst within refs, which must be in
// display order, and returns the updates needed to make the partition's
// order indexes dense again (0..n-1).
//
// A move to the same position returns no updates; callers must not issue a
// write in that case. Rows whose stored index already matches its target are
// skipped, so the update set stays minimal while still repairing any drift
// in previously stored indexes.
func Reorder(refs []ItemRef, src, dst int) ([]Update, error) {
	if src < 0 || src >= len(refs) || dst < 0 || dst >= len(refs) {
		return nil, ErrIndexOutOfRange
	}
	if src == dst {
		return nil, nil
	}

	seq := make([]ItemRef, len(refs))
	copy(seq, refs)

	moved := seq[src]
	seq = append(seq[:src], seq[src+1:]...)
	seq = append(seq, ItemRef{})
	copy(seq[dst+1:], seq[dst:])
	seq[dst] = moved

	var updates []Update
	for i, ref := range seq {
		if ref.OrderIndex != i {
			updates = append(updates, Update{ID: ref.ID, OrderIndex: i})
		}
	}
	return updates, nil
}
