package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"localboard/internal/live"
	"localboard/internal/logging"
	"localboard/internal/model"
	"localboard/internal/ordering"
	"localboard/internal/repository"
	"localboard/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *service.Service
	store   *repository.Store
	commits []live.Commit
}

func setup(t *testing.T) *fixture {
	log := logging.Discard()
	db, err := repository.Open(repository.MemoryPath, log)
	require.NoError(t, err)
	t.Cleanup(func() { repository.Close(db) })

	hub := live.NewHub(live.DispatchSync, log)
	t.Cleanup(hub.Close)

	f := &fixture{store: repository.NewStore(db)}
	f.svc = service.New(f.store, hub, log)
	hub.Subscribe(func(c live.Commit) { f.commits = append(f.commits, c) })
	return f
}

// board creates the default board and returns its columns in order.
func (f *fixture) board(t *testing.T) (*model.Board, []model.Column) {
	board, err := f.svc.GetOrCreateDefaultBoard(context.Background(), "Test board")
	require.NoError(t, err)
	columns, err := f.store.Columns.GetByBoardID(context.Background(), board.ID)
	require.NoError(t, err)
	return board, columns
}

func (f *fixture) addCards(t *testing.T, columnID uint, titles ...string) []uint {
	ids := make([]uint, len(titles))
	for i, title := range titles {
		id, err := f.svc.AddCard(context.Background(), columnID, title)
		require.NoError(t, err)
		ids[i] = id
	}
	return ids
}

// cardOrder returns the column's card ids in order and checks density.
func (f *fixture) cardOrder(t *testing.T, columnID uint) []uint {
	cards, err := f.store.Cards.GetByColumnIDs(context.Background(), []uint{columnID})
	require.NoError(t, err)
	ids := make([]uint, len(cards))
	for i, c := range cards {
		assert.Equal(t, i, c.Order, "card %d in column %d", c.ID, columnID)
		ids[i] = c.ID
	}
	return ids
}

func (f *fixture) columnOrder(t *testing.T, boardID uint) []uint {
	columns, err := f.store.Columns.GetByBoardID(context.Background(), boardID)
	require.NoError(t, err)
	ids := make([]uint, len(columns))
	for i, c := range columns {
		assert.Equal(t, i, c.Order, "column %d", c.ID)
		ids[i] = c.ID
	}
	return ids
}

func TestGetOrCreateDefaultBoard(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	board, err := f.svc.GetOrCreateDefaultBoard(ctx, "  Mitt board ")
	require.NoError(t, err)
	assert.Equal(t, "Mitt board", board.Title)
	assert.NotZero(t, board.ID)

	columns, err := f.store.Columns.GetByBoardID(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, columns, 3)
	for i, want := range []string{"To do", "Doing", "Done"} {
		assert.Equal(t, want, columns[i].Title)
		assert.Equal(t, i, columns[i].Order)
	}
	require.Len(t, f.commits, 1)
	assert.True(t, f.commits[0].Touches(live.Boards))
	assert.True(t, f.commits[0].Touches(live.Columns))

	t.Run("idempotent", func(t *testing.T) {
		again, err := f.svc.GetOrCreateDefaultBoard(ctx, "Another title")
		require.NoError(t, err)
		assert.Equal(t, board.ID, again.ID)
		assert.Equal(t, "Mitt board", again.Title)

		columns, err := f.store.Columns.GetByBoardID(ctx, board.ID)
		require.NoError(t, err)
		assert.Len(t, columns, 3)
		assert.Len(t, f.commits, 1)
	})

	t.Run("blank title", func(t *testing.T) {
		_, err := f.svc.GetOrCreateDefaultBoard(ctx, "   ")
		assert.ErrorIs(t, err, service.ErrEmptyTitle)
	})
}

func TestRenameBoard(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	board, _ := f.board(t)

	t.Run("whitespace title is rejected", func(t *testing.T) {
		ok, err := f.svc.RenameBoard(ctx, board.ID, "   ")
		assert.False(t, ok)
		assert.ErrorIs(t, err, service.ErrEmptyTitle)
		assert.ErrorIs(t, err, service.ErrValidation)

		stored, err := f.store.Boards.GetByID(ctx, board.ID)
		require.NoError(t, err)
		assert.Equal(t, "Test board", stored.Title)
	})

	t.Run("trimmed", func(t *testing.T) {
		ok, err := f.svc.RenameBoard(ctx, board.ID, "  Sprint 4  ")
		require.NoError(t, err)
		assert.True(t, ok)

		stored, err := f.store.Boards.GetByID(ctx, board.ID)
		require.NoError(t, err)
		assert.Equal(t, "Sprint 4", stored.Title)
	})

	t.Run("unknown board", func(t *testing.T) {
		ok, err := f.svc.RenameBoard(ctx, board.ID+100, "Ghost")
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestSetBoardBackground(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	board, _ := f.board(t)

	ok, err := f.svc.SetBoardBackground(ctx, board.ID, model.Backgrounds[2])
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.SetBoardBackground(ctx, board.ID, "/etc/passwd")
	assert.False(t, ok)
	assert.ErrorIs(t, err, service.ErrUnknownBackground)

	stored, err := f.store.Boards.GetByID(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Backgrounds[2], stored.Background)

	ok, err = f.svc.SetBoardBackground(ctx, board.ID, "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAddColumn_AppendsAtEnd(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	board, columns := f.board(t)

	id, err := f.svc.AddColumn(ctx, board.ID, "Review")
	require.NoError(t, err)

	column, err := f.store.Columns.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, len(columns), column.Order)
	assert.Equal(t, "Review", column.Title)

	_, err = f.svc.AddColumn(ctx, board.ID, "")
	assert.ErrorIs(t, err, service.ErrEmptyTitle)

	_, err = f.svc.AddColumn(ctx, board.ID+50, "Orphan")
	assert.ErrorIs(t, err, repository.ErrBoardNotFound)
}

func TestRenameColumn(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, columns := f.board(t)

	ok, err := f.svc.RenameColumn(ctx, columns[0].ID, " Backlog ")
	require.NoError(t, err)
	assert.True(t, ok)

	column, err := f.store.Columns.GetByID(ctx, columns[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Backlog", column.Title)

	ok, err = f.svc.RenameColumn(ctx, columns[0].ID, "\t")
	assert.False(t, ok)
	assert.ErrorIs(t, err, service.ErrEmptyTitle)

	ok, err = f.svc.RenameColumn(ctx, 9999, "Nope")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestAddCard_AppendDefault(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, columns := f.board(t)

	first := f.addCards(t, columns[0].ID, "first")[0]
	card, err := f.store.Cards.GetByID(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 0, card.Order)
	assert.False(t, card.IsDone())
	require.NotNil(t, card.Done)

	// Leave a sparse max behind to check max+1 rather than count.
	require.NoError(t, f.store.Cards.ApplyOrders(ctx, columns[0].ID, []ordering.Assignment{{ID: first, Order: 4}}))

	second := f.addCards(t, columns[0].ID, "second")[0]
	card, err = f.store.Cards.GetByID(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 5, card.Order)

	_, err = f.svc.AddCard(ctx, 4242, "lost")
	assert.ErrorIs(t, err, repository.ErrColumnNotFound)

	_, err = f.svc.AddCard(ctx, columns[0].ID, " ")
	assert.ErrorIs(t, err, service.ErrEmptyTitle)
}

func TestUpdateCard(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, columns := f.board(t)
	id := f.addCards(t, columns[0].ID, "write notes")[0]

	title := "  write tests "
	desc := "cover every scenario"
	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	done := true

	ok, err := f.svc.UpdateCard(ctx, id, model.CardPatch{Title: &title, Description: &desc, DueDate: &due, Done: &done})
	require.NoError(t, err)
	assert.True(t, ok)

	card, err := f.store.Cards.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "write tests", card.Title)
	require.NotNil(t, card.Description)
	assert.Equal(t, desc, *card.Description)
	require.NotNil(t, card.DueDate)
	assert.True(t, due.Equal(*card.DueDate))
	assert.True(t, card.IsDone())
	assert.Equal(t, 0, card.Order)

	t.Run("clear due date", func(t *testing.T) {
		ok, err := f.svc.UpdateCard(ctx, id, model.CardPatch{ClearDueDate: true})
		require.NoError(t, err)
		assert.True(t, ok)

		card, err := f.store.Cards.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, card.DueDate)
	})

	t.Run("blank title", func(t *testing.T) {
		blank := " "
		ok, err := f.svc.UpdateCard(ctx, id, model.CardPatch{Title: &blank})
		assert.False(t, ok)
		assert.ErrorIs(t, err, service.ErrEmptyTitle)
	})

	t.Run("empty patch", func(t *testing.T) {
		commits := len(f.commits)
		ok, err := f.svc.UpdateCard(ctx, id, model.CardPatch{})
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Len(t, f.commits, commits)
	})

	t.Run("unknown card", func(t *testing.T) {
		ok, err := f.svc.UpdateCard(ctx, id+100, model.CardPatch{Done: &done})
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestToggleCard(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, columns := f.board(t)
	id := f.addCards(t, columns[0].ID, "toggle me")[0]

	ok, err := f.svc.ToggleCard(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	card, err := f.store.Cards.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, card.IsDone())

	_, err = f.svc.ToggleCard(ctx, id)
	require.NoError(t, err)
	card, err = f.store.Cards.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, card.IsDone())

	ok, err = f.svc.ToggleCard(ctx, 777)
	assert.NoError(t, err)
	assert.False(t, ok)
}

// Scenario 1: [c1,c2,c3], move c3 to 0 -> c3,c1,c2
func TestMoveCard_WithinColumn(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, columns := f.board(t)
	a := columns[0].ID
	c := f.addCards(t, a, "c1", "c2", "c3")

	ok, err := f.svc.MoveCard(ctx, c[2], a, a, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []uint{c[2], c[0], c[1]}, f.cardOrder(t, a))
}

// Scenario 2: X [x1,x2,x3], Y [y1,y2], move x2 to Y at 1.
func TestMoveCard_AcrossColumns(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, columns := f.board(t)
	x, y := columns[0].ID, columns[1].ID
	xs := f.addCards(t, x, "x1", "x2", "x3")
	ys := f.addCards(t, y, "y1", "y2")

	ok, err := f.svc.MoveCard(ctx, xs[1], x, y, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []uint{xs[0], xs[2]}, f.cardOrder(t, x))
	assert.Equal(t, []uint{ys[0], xs[1], ys[1]}, f.cardOrder(t, y))

	moved, err := f.store.Cards.GetByID(ctx, xs[1])
	require.NoError(t, err)
	assert.Equal(t, y, moved.ColumnID)
}

// Scenario 3: drop on the column surface appends.
func TestMoveCard_AppendToSurface(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, columns := f.board(t)
	x, y := columns[0].ID, columns[1].ID
	mover := f.addCards(t, x, "mover")[0]
	ys := f.addCards(t, y, "y1", "y2")

	ok, err := f.svc.MoveCard(ctx, mover, x, y, ordering.Append)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []uint{ys[0], ys[1], mover}, f.cardOrder(t, y))
	assert.Empty(t, f.cardOrder(t, x))
}

func TestMoveCard_NoopWritesNothing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, columns := f.board(t)
	a := columns[0].ID
	c := f.addCards(t, a, "c1", "c2", "c3")
	commits := len(f.commits)

	ok, err := f.svc.MoveCard(ctx, c[1], a, a, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.svc.MoveCard(ctx, c[2], a, a, ordering.Append)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Len(t, f.commits, commits)
	assert.Equal(t, c, f.cardOrder(t, a))
}

func TestMoveCard_IdempotentReorder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, columns := f.board(t)
	a := columns[0].ID
	c := f.addCards(t, a, "a", "b", "c")

	ok, err := f.svc.MoveCard(ctx, c[0], a, a, 2)
	require.NoError(t, err)
	require.True(t, ok)
	first := f.cardOrder(t, a)

	ok, err = f.svc.MoveCard(ctx, c[0], a, a, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, first, f.cardOrder(t, a))
}

func TestMoveCard_StaleSourceColumn(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, columns := f.board(t)
	x, y := columns[0].ID, columns[1].ID
	xs := f.addCards(t, x, "x1", "x2")

	// Caller believes x2 lives in y; the store knows better.
	ok, err := f.svc.MoveCard(ctx, xs[1], y, y, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []uint{xs[0]}, f.cardOrder(t, x))
	assert.Equal(t, []uint{xs[1]}, f.cardOrder(t, y))
}

func TestMoveCard_MissingTargets(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, columns := f.board(t)
	x := columns[0].ID
	xs := f.addCards(t, x, "x1", "x2")
	commits := len(f.commits)

	ok, err := f.svc.MoveCard(ctx, 999, x, x, 0)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.svc.MoveCard(ctx, xs[0], x, 999, 0)
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.Len(t, f.commits, commits)
	assert.Equal(t, xs, f.cardOrder(t, x))
}

func TestMoveColumn(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	board, columns := f.board(t)
	ids := []uint{columns[0].ID, columns[1].ID, columns[2].ID}

	ok, err := f.svc.MoveColumn(ctx, ids[0], 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []uint{ids[1], ids[2], ids[0]}, f.columnOrder(t, board.ID))

	ok, err = f.svc.MoveColumn(ctx, ids[0], 2)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.svc.MoveColumn(ctx, ids[2], 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []uint{ids[2], ids[1], ids[0]}, f.columnOrder(t, board.ID))

	ok, err = f.svc.MoveColumn(ctx, 404, 0)
	assert.NoError(t, err)
	assert.False(t, ok)
}

// Scenario 5: deleting a column removes its cards in the same transaction.
func TestDeleteColumn_Cascades(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	board, columns := f.board(t)
	doomed := columns[1].ID
	cards := f.addCards(t, doomed, "one", "two")
	kept := f.addCards(t, columns[2].ID, "keep")

	ok, err := f.svc.DeleteColumn(ctx, doomed)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.store.Columns.GetByID(ctx, doomed)
	assert.ErrorIs(t, err, repository.ErrColumnNotFound)
	for _, id := range cards {
		_, err := f.store.Cards.GetByID(ctx, id)
		assert.ErrorIs(t, err, repository.ErrCardNotFound)
	}
	assert.Equal(t, kept, f.cardOrder(t, columns[2].ID))
	assert.Equal(t, []uint{columns[0].ID, columns[2].ID}, f.columnOrder(t, board.ID))

	last := f.commits[len(f.commits)-1]
	assert.True(t, last.Touches(live.Columns))
	assert.True(t, last.Touches(live.Cards))

	ok, err = f.svc.DeleteColumn(ctx, doomed)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteCard_Reindexes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, columns := f.board(t)
	a := columns[0].ID
	c := f.addCards(t, a, "c1", "c2", "c3")

	ok, err := f.svc.DeleteCard(ctx, c[0])
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []uint{c[1], c[2]}, f.cardOrder(t, a))

	ok, err = f.svc.DeleteCard(ctx, c[0])
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestDensePermutation_AfterMixedOperations(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	board, columns := f.board(t)
	x, y, z := columns[0].ID, columns[1].ID, columns[2].ID
	xs := f.addCards(t, x, "x1", "x2", "x3", "x4")
	ys := f.addCards(t, y, "y1")

	steps := []func() error{
		func() error { _, err := f.svc.MoveCard(ctx, xs[0], x, y, 0); return err },
		func() error { _, err := f.svc.DeleteCard(ctx, xs[2]); return err },
		func() error { _, err := f.svc.MoveCard(ctx, ys[0], y, z, ordering.Append); return err },
		func() error { _, err := f.svc.AddCard(ctx, y, "y2"); return err },
		func() error { _, err := f.svc.MoveCard(ctx, xs[3], x, x, 0); return err },
		func() error { _, err := f.svc.MoveColumn(ctx, z, 0); return err },
		func() error { _, err := f.svc.DeleteColumn(ctx, y); return err },
		func() error { _, err := f.svc.MoveCard(ctx, xs[1], x, z, 0); return err },
	}

	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		for _, col := range f.columnOrder(t, board.ID) {
			f.cardOrder(t, col)
		}
	}

	assert.Equal(t, []uint{z, x}, f.columnOrder(t, board.ID))
	assert.Equal(t, []uint{xs[3]}, f.cardOrder(t, x))
	assert.Equal(t, []uint{xs[1], ys[0]}, f.cardOrder(t, z))
}

func TestApply(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	board, columns := f.board(t)

	ok, err := f.svc.Apply(ctx, dndReorder(columns[2].ID, 0))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, columns[2].ID, f.columnOrder(t, board.ID)[0])

	x := f.addCards(t, columns[0].ID, "x")
	ok, err = f.svc.Apply(ctx, dndMoveCard(x[0], columns[0].ID, columns[1].ID, ordering.Append))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, x, f.cardOrder(t, columns[1].ID))

	_, err = f.svc.Apply(ctx, nil)
	assert.Error(t, err)
}

func TestCanceledContextIsATransactionError(t *testing.T) {
	f := setup(t)
	_, columns := f.board(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := f.svc.RenameColumn(ctx, columns[0].ID, "never")
	assert.False(t, ok)
	require.Error(t, err)

	var txErr *repository.TxError
	assert.True(t, errors.As(err, &txErr))
	assert.Equal(t, "rename_column", txErr.Op)

	column, err := f.store.Columns.GetByID(context.Background(), columns[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "To do", column.Title)
}
