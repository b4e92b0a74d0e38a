package tui

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"localboard/internal/live"
	"localboard/internal/model"
)

// Layout constants
const (
	minColumnWidth = 20
	maxColumnWidth = 35
)

// columnState is the per-column decoration drawn on top of the data.
type columnState struct {
	selected   bool
	cursor     int  // selected card index, -1 for none
	dragging   uint // id of the card being dragged, 0 for none
	dropSlot   int  // insertion slot for a dragged card, -1 for none
	dropTarget bool // the column is the drop target of a column drag
}

func idleColumn() columnState {
	return columnState{cursor: -1, dropSlot: -1}
}

// RenderBoard renders a read-only picture of the board, used by the show
// and watch commands.
func RenderBoard(snap live.Snapshot, width int) string {
	if snap.Board == nil {
		return dimStyle.Render("(no board)")
	}

	colWidth := columnWidth(width, len(snap.Columns))
	views := make([]string, 0, len(snap.Columns))
	for i, col := range snap.Columns {
		views = append(views, renderColumn(col, snap.ColumnCards(col.ID), i+1, colWidth, 0, idleColumn()))
	}

	sections := []string{boardHeader(snap)}
	if len(views) == 0 {
		sections = append(sections, dimStyle.Render("(no columns)"))
	} else {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, views...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func boardHeader(snap live.Snapshot) string {
	header := titleStyle.Render(snap.Board.Title)
	if snap.Board.Background != "" {
		header += dimStyle.Render("  ▣ " + path.Base(snap.Board.Background))
	}
	return header
}

// columnWidth spreads width evenly over n columns within the min/max bounds.
func columnWidth(width, n int) int {
	if n < 1 {
		n = 1
	}
	w := width / n
	if w > maxColumnWidth {
		w = maxColumnWidth
	}
	if w < minColumnWidth {
		w = minColumnWidth
	}
	return w
}

// renderColumn draws one bordered column. height is the inner content
// height; 0 lets the column grow with its cards.
func renderColumn(col model.Column, cards []model.Card, colNum, width, height int, st columnState) string {
	// border (2) + padding (2)
	innerWidth := width - 4
	if innerWidth < 10 {
		innerWidth = 10
	}

	header := fmt.Sprintf("[%d] %s (%d)", colNum, col.Title, len(cards))
	lines := []string{
		columnHeaderStyle.Render(truncate.StringWithTail(header, uint(innerWidth), "…")),
		dimStyle.Render(fmt.Sprintf("#%d", col.ID)),
	}

	for i, card := range cards {
		if st.dropSlot == i {
			lines = append(lines, dropMarker(innerWidth))
		}
		text := formatCard(card, innerWidth-2) // 2 for "> " or "  " prefix
		switch {
		case card.ID == st.dragging:
			lines = append(lines, draggedCardStyle.Render("  "+text))
		case st.selected && i == st.cursor:
			lines = append(lines, selectedCardStyle.Render("> "+text))
		case card.IsDone():
			lines = append(lines, doneCardStyle.Render("  "+text))
		default:
			lines = append(lines, cardStyle.Render("  "+text))
		}
	}
	if st.dropSlot >= len(cards) {
		lines = append(lines, dropMarker(innerWidth))
	}
	if len(cards) == 0 && st.dropSlot < 0 {
		lines = append(lines, dimStyle.Render("(empty)"))
	}

	if height > 0 && len(lines) > height {
		hidden := len(lines) - height + 1
		lines = append(lines[:height-1], dimStyle.Render(fmt.Sprintf("↓ %d more", hidden)))
	}

	borderColor := borderNormal
	switch {
	case st.dropTarget:
		borderColor = borderDrop
	case st.selected:
		borderColor = borderSelected
	}

	style := lipgloss.NewStyle().
		Width(width - 2). // Subtract border width
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor)
	if height > 0 {
		style = style.Height(height)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func dropMarker(width int) string {
	return dropMarkerStyle.Render(truncate.String("▶ "+strings.Repeat("─", width), uint(width)))
}

// formatCard renders "[x] title  #id  due" within maxWidth cells.
func formatCard(card model.Card, maxWidth int) string {
	check := "[ ]"
	if card.IsDone() {
		check = "[x]"
	}
	suffix := fmt.Sprintf("#%d", card.ID)
	if card.DueDate != nil {
		suffix += " " + card.DueDate.Format("Jan 2")
	}

	avail := maxWidth - len(check) - 1 - lipgloss.Width(suffix) - 1
	if avail < 4 {
		return truncate.StringWithTail(check+" "+card.Title, uint(maxWidth), "…")
	}
	title := truncate.StringWithTail(card.Title, uint(avail), "…")
	gap := maxWidth - len(check) - 1 - lipgloss.Width(title) - lipgloss.Width(suffix)
	if gap < 1 {
		gap = 1
	}
	return check + " " + title + strings.Repeat(" ", gap) + dimStyle.Render(suffix)
}
