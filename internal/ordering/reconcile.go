// Package ordering computes dense position assignments for the children of a
// container (the columns of a board, the cards of a column).
//
// Every structural change rewrites the affected containers so that their
// children carry exactly the orders 0..n-1. Reconcile is pure: it never talks
// to the store, callers read siblings and apply the returned Plan inside one
// transaction.
package ordering

import (
	"sort"
)

// Append is the destination index meaning "after the last current sibling".
const Append = -1

// Sibling is an entity's identity and current order inside its container.
type Sibling struct {
	ID    uint
	Order int
}

// Assignment is the order an entity must carry after a change.
type Assignment struct {
	ID    uint
	Order int
}

// Request describes a single move of one entity.
type Request struct {
	EntityID uint
	From     uint // container the entity currently belongs to
	To       uint // destination container
	Index    int  // destination index, or Append
}

// SameContainer reports whether the move stays inside one container.
func (r Request) SameContainer() bool {
	return r.From == r.To
}

// Plan is the full reassignment produced by Reconcile.
type Plan struct {
	// Source holds the residual siblings of the origin container. It is nil
	// when the move stays within one container.
	Source []Assignment
	// Destination holds every sibling of the destination container including
	// the moved entity, in final sequence order.
	Destination []Assignment
	// MovedTo is the container the moved entity belongs to afterwards.
	MovedTo uint
	// Index is the final position of the moved entity.
	Index int
	// Noop is set when the entity would land on the slot it already holds.
	Noop bool
}

// Len returns the number of rows the plan rewrites.
func (p Plan) Len() int {
	return len(p.Source) + len(p.Destination)
}

// Reconcile computes the new orders for a move.
//
// source holds the current children of req.From and destination the current
// children of req.To; for a same-container move both may be the same slice.
// The moving entity is dropped from both lists before being inserted at the
// clamped index, which yields "move to position k" semantics rather than a swap.
func Reconcile(req Request, source, destination []Sibling) Plan {
	if req.SameContainer() {
		destination = source
	}

	current := ids(sorted(destination))
	dst := without(current, req.EntityID)
	index := Clamp(req.Index, len(dst))

	seq := make([]uint, 0, len(dst)+1)
	seq = append(seq, dst[:index]...)
	seq = append(seq, req.EntityID)
	seq = append(seq, dst[index:]...)

	plan := Plan{
		Destination: assign(seq),
		MovedTo:     req.To,
		Index:       index,
	}

	if req.SameContainer() {
		plan.Noop = indexOf(current, req.EntityID) == index
		return plan
	}

	plan.Source = assign(without(ids(sorted(source)), req.EntityID))
	return plan
}

// Reindex assigns orders 0..n-1 to siblings following their current order.
// It is used after a delete to close the gap left behind.
func Reindex(siblings []Sibling) []Assignment {
	return assign(ids(sorted(siblings)))
}

// Clamp maps a requested destination index onto [0, n]. Append maps to n.
func Clamp(index, n int) int {
	switch {
	case index == Append:
		return n
	case index < 0:
		return 0
	case index > n:
		return n
	default:
		return index
	}
}

// Dense reports whether siblings carry exactly the orders 0..n-1.
func Dense(siblings []Sibling) bool {
	for i, s := range sorted(siblings) {
		if s.Order != i {
			return false
		}
	}
	return true
}

func assign(ids []uint) []Assignment {
	out := make([]Assignment, len(ids))
	for i, id := range ids {
		out[i] = Assignment{ID: id, Order: i}
	}
	return out
}

// sorted returns a copy of siblings ordered by (Order, ID).
func sorted(siblings []Sibling) []Sibling {
	cp := make([]Sibling, len(siblings))
	copy(cp, siblings)
	sort.SliceStable(cp, func(i, j int) bool {
		if cp[i].Order != cp[j].Order {
			return cp[i].Order < cp[j].Order
		}
		return cp[i].ID < cp[j].ID
	})
	return cp
}

func ids(siblings []Sibling) []uint {
	out := make([]uint, len(siblings))
	for i, s := range siblings {
		out[i] = s.ID
	}
	return out
}

func without(ids []uint, id uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func indexOf(ids []uint, id uint) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
