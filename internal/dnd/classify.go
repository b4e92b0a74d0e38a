// Package dnd turns the outcome of a drag gesture into a board move.
package dnd

import (
	"localboard/internal/ordering"
)

// Kind is the kind of entity being dragged or hovered.
type Kind string

const (
	KindCard   Kind = "card"
	KindColumn Kind = "column"
)

// Target is what the pointer was over when the drag ended: another entity
// (Surface false) or the open surface of a container (Surface true).
type Target struct {
	Kind        Kind
	ID          uint // entity id; for a surface, the container's own id
	ContainerID uint // container holding the entity (column of a card, board of a column)
	Index       int  // entity's index inside ContainerID
	Surface     bool
}

// Source is the entity picked up by the drag.
type Source struct {
	Kind        Kind
	ID          uint
	ContainerID uint
	Index       int // index inside ContainerID when the drag started
}

// DropEvent is the raw result of a finished drag.
type DropEvent struct {
	Active Source
	Over   *Target // nil when released outside any droppable
}

// Move is the classified intent of a drop: ReorderColumn or MoveCard.
type Move interface {
	isMove()
}

// ReorderColumn moves a column to TargetIndex within its board.
type ReorderColumn struct {
	ColumnID    uint
	TargetIndex int
}

// MoveCard moves a card to TargetIndex (or ordering.Append) in ToColumnID.
type MoveCard struct {
	CardID       uint
	FromColumnID uint
	ToColumnID   uint
	TargetIndex  int
}

func (ReorderColumn) isMove() {}
func (MoveCard) isMove()      {}

// Classify interprets a drop. It returns false when the drop must be
// discarded: no resolvable target, or a drop that leaves the entity where it
// already is.
func Classify(e DropEvent) (Move, bool) {
	if e.Over == nil {
		return nil, false
	}
	over := *e.Over

	switch e.Active.Kind {
	case KindCard:
		return classifyCard(e.Active, over)
	case KindColumn:
		return classifyColumn(e.Active, over)
	default:
		return nil, false
	}
}

func classifyCard(active Source, over Target) (Move, bool) {
	var to uint
	var index int

	switch {
	case over.Kind == KindColumn && over.Surface:
		to, index = over.ID, ordering.Append
	case over.Kind == KindCard && !over.Surface:
		if over.ID == active.ID {
			return nil, false
		}
		to, index = over.ContainerID, over.Index
	default:
		return nil, false
	}

	if to == 0 || index < ordering.Append {
		return nil, false
	}
	if to == active.ContainerID && index == active.Index {
		return nil, false
	}

	return MoveCard{
		CardID:       active.ID,
		FromColumnID: active.ContainerID,
		ToColumnID:   to,
		TargetIndex:  index,
	}, true
}

func classifyColumn(active Source, over Target) (Move, bool) {
	if over.Kind != KindColumn || over.Surface {
		return nil, false
	}
	if over.ID == active.ID || over.Index < 0 {
		return nil, false
	}
	if over.ContainerID != active.ContainerID || over.Index == active.Index {
		return nil, false
	}
	return ReorderColumn{ColumnID: active.ID, TargetIndex: over.Index}, true
}
