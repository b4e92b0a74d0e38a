package dnd

import (
	"errors"
	"fmt"
)

// Phase is the state of a drag session.
type Phase int

const (
	Idle Phase = iota
	Dragging
	Committing
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Committing:
		return "committing"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ErrInvalidTransition is returned when a session event does not apply to
// the current phase.
var ErrInvalidTransition = errors.New("invalid drag transition")

// Session tracks one interactive surface through
// idle → dragging → (committing | cancelled) → idle.
type Session struct {
	phase  Phase
	source Source
	over   *Target
	move   Move
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Source returns the entity being dragged. Only meaningful while not Idle.
func (s *Session) Source() Source {
	return s.source
}

// Over returns the current hover target, or nil.
func (s *Session) Over() *Target {
	return s.over
}

// Pending returns the move being committed, if any.
func (s *Session) Pending() (Move, bool) {
	return s.move, s.phase == Committing
}

// Start picks up src.
func (s *Session) Start(src Source) error {
	if s.phase != Idle {
		return s.invalid("start")
	}
	s.phase = Dragging
	s.source = src
	s.over = nil
	s.move = nil
	return nil
}

// Hover records what the pointer is over; nil clears it.
func (s *Session) Hover(t *Target) error {
	if s.phase != Dragging {
		return s.invalid("hover")
	}
	if t == nil {
		s.over = nil
		return nil
	}
	cp := *t
	s.over = &cp
	return nil
}

// Drop releases the entity over the current target. When the drop classifies
// into a move the session enters Committing and the move is returned;
// otherwise it enters Cancelled and no work is due.
func (s *Session) Drop() (Move, bool, error) {
	if s.phase != Dragging {
		return nil, false, s.invalid("drop")
	}
	move, ok := Classify(DropEvent{Active: s.source, Over: s.over})
	if !ok {
		s.phase = Cancelled
		return nil, false, nil
	}
	s.phase = Committing
	s.move = move
	return move, true, nil
}

// Cancel abandons the drag without a move.
func (s *Session) Cancel() error {
	if s.phase != Dragging {
		return s.invalid("cancel")
	}
	s.phase = Cancelled
	return nil
}

// Finish returns a committing or cancelled session to Idle.
func (s *Session) Finish() error {
	if s.phase != Committing && s.phase != Cancelled {
		return s.invalid("finish")
	}
	s.phase = Idle
	s.source = Source{}
	s.over = nil
	s.move = nil
	return nil
}

func (s *Session) invalid(event string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, event, s.phase)
}
