// Package tui provides the interactive terminal board.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"localboard/internal/dnd"
	"localboard/internal/live"
	"localboard/internal/model"
)

// Actions are the board operations the terminal board can trigger.
// *service.Service satisfies it.
type Actions interface {
	Apply(ctx context.Context, move dnd.Move) (bool, error)
	AddCard(ctx context.Context, columnID uint, title string) (uint, error)
	AddColumn(ctx context.Context, boardID uint, title string) (uint, error)
	ToggleCard(ctx context.Context, cardID uint) (bool, error)
	DeleteCard(ctx context.Context, cardID uint) (bool, error)
}

// SnapshotMsg delivers a fresh board snapshot from the live view.
type SnapshotMsg struct {
	Snapshot live.Snapshot
}

// actionDoneMsg reports the outcome of an action run in the background.
type actionDoneMsg struct {
	op  string
	err error
}

type inputMode int

const (
	inputNone inputMode = iota
	inputCard
	inputColumn
)

// BoardModel is the interactive kanban board.
type BoardModel struct {
	actions Actions
	ctx     context.Context

	keymap KeyMap
	help   help.Model
	input  textinput.Model

	snap           live.Snapshot
	selectedColumn int
	selectedCard   map[uint]int // column ID -> selected card index

	// Drag state. dragColumn/dragSlot are the hover cursor while a session
	// is dragging; for a card drag, dragSlot == len(cards) is the column's
	// open surface.
	session    dnd.Session
	dragColumn int
	dragSlot   int

	width      int
	height     int
	showHelp   bool
	inputMode  inputMode
	errorToast string
}

// NewBoardModel creates a board showing snap until the next SnapshotMsg.
func NewBoardModel(ctx context.Context, actions Actions, snap live.Snapshot) BoardModel {
	ti := textinput.New()
	ti.CharLimit = 200

	h := help.New()
	h.ShowAll = true

	return BoardModel{
		actions:      actions,
		ctx:          ctx,
		keymap:       DefaultKeyMap(),
		help:         h,
		input:        ti,
		snap:         snap,
		selectedCard: make(map[uint]int),
	}
}

// Init implements tea.Model.
func (m BoardModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SnapshotMsg:
		m.snap = msg.Snapshot
		(&m).clampSelection()
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.errorToast = fmt.Sprintf("%s failed: %v", msg.op, msg.err)
		}
		if m.session.Phase() == dnd.Committing {
			_ = m.session.Finish()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

func (m BoardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.errorToast = ""

	if m.showHelp {
		if key.Matches(msg, m.keymap.Help, m.keymap.Cancel, m.keymap.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.inputMode != inputNone {
		return m.handleInput(msg)
	}

	switch m.session.Phase() {
	case dnd.Dragging:
		return m.handleDrag(msg)
	case dnd.Committing:
		// Wait for the commit to land.
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
	case key.Matches(msg, m.keymap.Left):
		if m.selectedColumn > 0 {
			m.selectedColumn--
		}
	case key.Matches(msg, m.keymap.Right):
		if m.selectedColumn < len(m.snap.Columns)-1 {
			m.selectedColumn++
		}
	case key.Matches(msg, m.keymap.Down):
		(&m).moveCardSelection(1)
	case key.Matches(msg, m.keymap.Up):
		(&m).moveCardSelection(-1)
	case key.Matches(msg, m.keymap.DragCard):
		(&m).startCardDrag()
	case key.Matches(msg, m.keymap.DragColumn):
		(&m).startColumnDrag()
	case key.Matches(msg, m.keymap.Toggle):
		if card := m.getSelectedCard(); card != nil {
			id := card.ID
			return m, m.run("toggle", func(ctx context.Context) error {
				_, err := m.actions.ToggleCard(ctx, id)
				return err
			})
		}
	case key.Matches(msg, m.keymap.Delete):
		if card := m.getSelectedCard(); card != nil {
			id := card.ID
			return m, m.run("delete", func(ctx context.Context) error {
				_, err := m.actions.DeleteCard(ctx, id)
				return err
			})
		}
	case key.Matches(msg, m.keymap.AddCard):
		if m.currentColumn() != nil {
			(&m).openInput(inputCard, "New card: ")
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keymap.AddColumn):
		if m.snap.Board != nil {
			(&m).openInput(inputColumn, "New column: ")
			return m, textinput.Blink
		}
	}

	return m, nil
}

// handleDrag moves the hover cursor and drops or cancels the session.
func (m BoardModel) handleDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	src := m.session.Source()

	switch {
	case key.Matches(msg, m.keymap.Cancel):
		_ = m.session.Cancel()
		_ = m.session.Finish()
		return m, nil

	case key.Matches(msg, m.keymap.Drop):
		move, ok, err := m.session.Drop()
		if err != nil {
			m.errorToast = err.Error()
			return m, nil
		}
		if !ok {
			_ = m.session.Finish()
			return m, nil
		}
		(&m).followDrop(move)
		return m, m.run("move", func(ctx context.Context) error {
			_, err := m.actions.Apply(ctx, move)
			return err
		})

	case key.Matches(msg, m.keymap.Left):
		if m.dragColumn > 0 {
			m.dragColumn--
		}
	case key.Matches(msg, m.keymap.Right):
		if m.dragColumn < len(m.snap.Columns)-1 {
			m.dragColumn++
		}
	case src.Kind == dnd.KindCard && key.Matches(msg, m.keymap.Up):
		if m.dragSlot > 0 {
			m.dragSlot--
		}
	case src.Kind == dnd.KindCard && key.Matches(msg, m.keymap.Down):
		m.dragSlot++
	default:
		return m, nil
	}

	(&m).hover()
	return m, nil
}

func (m BoardModel) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		return m, nil
	case tea.KeyEnter:
		title := m.input.Value()
		mode := m.inputMode
		m.closeInput()
		if strings.TrimSpace(title) == "" {
			return m, nil
		}
		if mode == inputCard {
			col := m.currentColumn()
			if col == nil {
				return m, nil
			}
			columnID := col.ID
			return m, m.run("add card", func(ctx context.Context) error {
				_, err := m.actions.AddCard(ctx, columnID, title)
				return err
			})
		}
		boardID := m.snap.Board.ID
		return m, m.run("add column", func(ctx context.Context) error {
			_, err := m.actions.AddColumn(ctx, boardID, title)
			return err
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// run executes fn off the update loop and reports back with actionDoneMsg.
func (m BoardModel) run(op string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{op: op, err: fn(ctx)}
	}
}

func (m *BoardModel) openInput(mode inputMode, prompt string) {
	m.inputMode = mode
	m.input.Prompt = prompt
	m.input.SetValue("")
	m.input.Focus()
}

func (m *BoardModel) closeInput() {
	m.inputMode = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *BoardModel) startCardDrag() {
	col := m.currentColumn()
	card := m.getSelectedCard()
	if col == nil || card == nil {
		return
	}
	idx := m.selectedCard[col.ID]
	if err := m.session.Start(dnd.Source{Kind: dnd.KindCard, ID: card.ID, ContainerID: col.ID, Index: idx}); err != nil {
		m.errorToast = err.Error()
		return
	}
	m.dragColumn = m.selectedColumn
	m.dragSlot = idx
	m.hover()
}

func (m *BoardModel) startColumnDrag() {
	col := m.currentColumn()
	if col == nil || m.snap.Board == nil {
		return
	}
	src := dnd.Source{Kind: dnd.KindColumn, ID: col.ID, ContainerID: m.snap.Board.ID, Index: m.selectedColumn}
	if err := m.session.Start(src); err != nil {
		m.errorToast = err.Error()
		return
	}
	m.dragColumn = m.selectedColumn
	m.dragSlot = 0
	m.hover()
}

// hover turns the drag cursor into a drop target for the session.
func (m *BoardModel) hover() {
	var target *dnd.Target
	if m.dragColumn >= 0 && m.dragColumn < len(m.snap.Columns) && m.snap.Board != nil {
		col := m.snap.Columns[m.dragColumn]
		switch m.session.Source().Kind {
		case dnd.KindColumn:
			target = &dnd.Target{Kind: dnd.KindColumn, ID: col.ID, ContainerID: m.snap.Board.ID, Index: m.dragColumn}
		case dnd.KindCard:
			cards := m.snap.ColumnCards(col.ID)
			if m.dragSlot > len(cards) {
				m.dragSlot = len(cards)
			}
			if m.dragSlot < len(cards) {
				target = &dnd.Target{Kind: dnd.KindCard, ID: cards[m.dragSlot].ID, ContainerID: col.ID, Index: m.dragSlot}
			} else {
				target = &dnd.Target{Kind: dnd.KindColumn, ID: col.ID, ContainerID: m.snap.Board.ID, Index: m.dragColumn, Surface: true}
			}
		}
	}
	if err := m.session.Hover(target); err != nil {
		m.errorToast = err.Error()
	}
}

// followDrop moves the selection to where the dropped entity will land.
func (m *BoardModel) followDrop(move dnd.Move) {
	switch mv := move.(type) {
	case dnd.MoveCard:
		m.selectedColumn = m.dragColumn
		idx := mv.TargetIndex
		if idx < 0 {
			idx = len(m.snap.ColumnCards(mv.ToColumnID))
		}
		m.selectedCard[mv.ToColumnID] = idx
	case dnd.ReorderColumn:
		m.selectedColumn = mv.TargetIndex
	}
}

func (m *BoardModel) moveCardSelection(delta int) {
	col := m.currentColumn()
	if col == nil {
		return
	}
	n := len(m.snap.ColumnCards(col.ID))
	idx := m.selectedCard[col.ID] + delta
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	m.selectedCard[col.ID] = idx
}

// clampSelection keeps the cursor inside the board after it changed shape.
func (m *BoardModel) clampSelection() {
	if m.selectedColumn >= len(m.snap.Columns) {
		m.selectedColumn = len(m.snap.Columns) - 1
	}
	if m.selectedColumn < 0 {
		m.selectedColumn = 0
	}
	for _, col := range m.snap.Columns {
		n := len(m.snap.ColumnCards(col.ID))
		if m.selectedCard[col.ID] >= n && n > 0 {
			m.selectedCard[col.ID] = n - 1
		}
	}
	if m.session.Phase() == dnd.Dragging {
		if m.dragColumn >= len(m.snap.Columns) {
			m.dragColumn = len(m.snap.Columns) - 1
		}
		m.hover()
	}
}

func (m BoardModel) currentColumn() *model.Column {
	if m.selectedColumn < 0 || m.selectedColumn >= len(m.snap.Columns) {
		return nil
	}
	return &m.snap.Columns[m.selectedColumn]
}

func (m BoardModel) getSelectedCard() *model.Card {
	col := m.currentColumn()
	if col == nil {
		return nil
	}
	cards := m.snap.ColumnCards(col.ID)
	idx := m.selectedCard[col.ID]
	if idx < 0 || idx >= len(cards) {
		return nil
	}
	return &cards[idx]
}

// View renders the board - fills entire terminal exactly
func (m BoardModel) View() string {
	width, height := m.width, m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	if m.snap.Board == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, "Loading…")
	}

	sections := []string{m.renderHeader()}
	switch {
	case m.inputMode != inputNone:
		sections = append(sections, m.input.View())
	case m.session.Phase() == dnd.Dragging:
		sections = append(sections, dragModeStyle.Render("DRAG")+" arrows to aim, enter to drop, esc to cancel")
	case m.session.Phase() == dnd.Committing:
		sections = append(sections, dragModeStyle.Render("SAVING"))
	}
	if m.errorToast != "" {
		sections = append(sections, errorStyle.Render(m.errorToast))
	}

	boardHeight := height - len(sections) - 2 // column borders
	if boardHeight < 5 {
		boardHeight = 5
	}

	if m.showHelp {
		m.help.Width = width - 8 // Account for padding and border
		sections = append(sections, helpOverlayStyle.Render(m.help.View(m.keymap)))
	} else if len(m.snap.Columns) == 0 {
		sections = append(sections, lipgloss.Place(width, boardHeight, lipgloss.Center, lipgloss.Center, "No columns. Press 'A' to add one."))
	} else {
		sections = append(sections, m.renderBoard(width, boardHeight))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m BoardModel) renderHeader() string {
	header := boardHeader(m.snap)
	return header + dimStyle.Render("  ? for help")
}

func (m BoardModel) renderBoard(width, height int) string {
	colWidth := columnWidth(width, len(m.snap.Columns))
	dragging := m.session.Phase() == dnd.Dragging
	src := m.session.Source()

	views := make([]string, 0, len(m.snap.Columns))
	for i, col := range m.snap.Columns {
		st := idleColumn()
		st.selected = i == m.selectedColumn && !dragging
		st.cursor = m.selectedCard[col.ID]
		if dragging {
			switch src.Kind {
			case dnd.KindCard:
				st.dragging = src.ID
				if i == m.dragColumn {
					st.dropSlot = m.dragSlot
				}
			case dnd.KindColumn:
				st.dropTarget = i == m.dragColumn
				st.selected = col.ID == src.ID
			}
		}
		views = append(views, renderColumn(col, m.snap.ColumnCards(col.ID), i+1, colWidth, height, st))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}
