package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"localboard/internal/live"
)

// ErrNoBoard is returned by Run when the view has not loaded a board.
var ErrNoBoard = errors.New("no board to show")

// Run shows the board full screen until the user quits. Every snapshot the
// view publishes is forwarded to the program.
func Run(ctx context.Context, actions Actions, view *live.View, opts ...tea.ProgramOption) error {
	snap := view.Snapshot()
	if snap.Board == nil {
		return ErrNoBoard
	}

	board := NewBoardModel(ctx, actions, snap)
	p := tea.NewProgram(board, append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)...)

	unsubscribe := view.Subscribe(func(s live.Snapshot) {
		p.Send(SnapshotMsg{Snapshot: s})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
