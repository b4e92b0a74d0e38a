package dnd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_CommitPath(t *testing.T) {
	var s Session
	assert.Equal(t, Idle, s.Phase())

	require.NoError(t, s.Start(cardSource(5, 1, 0)))
	assert.Equal(t, Dragging, s.Phase())

	require.NoError(t, s.Hover(&Target{Kind: KindCard, ID: 6, ContainerID: 2, Index: 0}))
	move, ok, err := s.Drop()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Committing, s.Phase())
	assert.Equal(t, MoveCard{CardID: 5, FromColumnID: 1, ToColumnID: 2, TargetIndex: 0}, move)

	pending, committing := s.Pending()
	assert.True(t, committing)
	assert.Equal(t, move, pending)

	require.NoError(t, s.Finish())
	assert.Equal(t, Idle, s.Phase())
	assert.Nil(t, s.Over())
}

func TestSession_UnresolvedDropCancels(t *testing.T) {
	var s Session
	require.NoError(t, s.Start(cardSource(5, 1, 0)))

	move, ok, err := s.Drop()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, move)
	assert.Equal(t, Cancelled, s.Phase())

	_, committing := s.Pending()
	assert.False(t, committing)
	require.NoError(t, s.Finish())
}

func TestSession_HoverIsCopied(t *testing.T) {
	var s Session
	require.NoError(t, s.Start(cardSource(5, 1, 0)))

	target := &Target{Kind: KindCard, ID: 6, ContainerID: 2, Index: 0}
	require.NoError(t, s.Hover(target))
	target.Index = 9

	assert.Equal(t, 0, s.Over().Index)

	require.NoError(t, s.Hover(nil))
	assert.Nil(t, s.Over())
}

func TestSession_Cancel(t *testing.T) {
	var s Session
	require.NoError(t, s.Start(cardSource(5, 1, 0)))
	require.NoError(t, s.Cancel())
	assert.Equal(t, Cancelled, s.Phase())
	require.NoError(t, s.Finish())
	assert.Equal(t, Idle, s.Phase())
}

func TestSession_InvalidTransitions(t *testing.T) {
	var s Session

	assert.ErrorIs(t, s.Hover(nil), ErrInvalidTransition)
	assert.ErrorIs(t, s.Cancel(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Finish(), ErrInvalidTransition)
	_, _, err := s.Drop()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, s.Start(cardSource(5, 1, 0)))
	err = s.Start(cardSource(6, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "start while dragging")
	assert.ErrorIs(t, s.Finish(), ErrInvalidTransition)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "committing", Committing.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}
