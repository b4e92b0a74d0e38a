package live

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"localboard/internal/model"
	"localboard/internal/repository"
)

// Loader reads the collections a View depends on.
type Loader interface {
	FirstBoard(ctx context.Context) (*model.Board, error)
	ColumnsByBoard(ctx context.Context, boardID uint) ([]model.Column, error)
	CardsByColumns(ctx context.Context, columnIDs []uint) ([]model.Card, error)
}

type storeLoader struct {
	store *repository.Store
}

// NewStoreLoader reads live queries straight from the repositories.
func NewStoreLoader(store *repository.Store) Loader {
	return storeLoader{store: store}
}

func (l storeLoader) FirstBoard(ctx context.Context) (*model.Board, error) {
	return l.store.Boards.First(ctx)
}

func (l storeLoader) ColumnsByBoard(ctx context.Context, boardID uint) ([]model.Column, error) {
	return l.store.Columns.GetByBoardID(ctx, boardID)
}

func (l storeLoader) CardsByColumns(ctx context.Context, columnIDs []uint) ([]model.Card, error) {
	return l.store.Cards.GetByColumnIDs(ctx, columnIDs)
}

// Snapshot is one consistent read of the board, taken after a commit.
// Snapshots are shared between subscribers and must not be modified.
type Snapshot struct {
	Commit  uuid.UUID // last commit folded in; zero for the initial load
	Board   *model.Board
	Columns []model.Column // sorted by order
	Cards   []model.Card   // grouped by column, sorted by order
}

// ColumnCards returns the cards of one column in order.
func (s Snapshot) ColumnCards(columnID uint) []model.Card {
	var out []model.Card
	for _, c := range s.Cards {
		if c.ColumnID == columnID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// ColumnIndex returns the position of a column on the board, or -1.
func (s Snapshot) ColumnIndex(columnID uint) int {
	for i, c := range s.Columns {
		if c.ID == columnID {
			return i
		}
	}
	return -1
}

// Locate returns the column and in-column index of a card.
func (s Snapshot) Locate(cardID uint) (columnID uint, index int, ok bool) {
	for _, c := range s.Cards {
		if c.ID == cardID {
			for i, sib := range s.ColumnCards(c.ColumnID) {
				if sib.ID == cardID {
					return c.ColumnID, i, true
				}
			}
		}
	}
	return 0, -1, false
}

// Search returns the cards whose title or description contains q, ignoring
// case. An empty query matches everything.
func (s Snapshot) Search(q string) []model.Card {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return s.Cards
	}
	var out []model.Card
	for _, c := range s.Cards {
		if strings.Contains(strings.ToLower(c.Title), q) ||
			(c.Description != nil && strings.Contains(strings.ToLower(*c.Description), q)) {
			out = append(out, c)
		}
	}
	return out
}

// query is one live query in the dependency graph. refresh recomputes it into
// next and reports whether its output key changed, which invalidates the
// queries downstream of it.
type query struct {
	collection Collection
	dependents []*query
	refresh    func(ctx context.Context, next *Snapshot) (rekeyed bool, err error)
}

// View maintains Board → Columns(boardID) → Cards(columnID ∈ Columns) and
// republishes a Snapshot whenever a commit touches something it depends on.
type View struct {
	hub    *Hub
	loader Loader
	log    *logrus.Entry

	// queries in topological order
	queries []*query

	ctx    context.Context
	detach func()

	refreshMu sync.Mutex // serializes recomputation

	mu     sync.RWMutex
	snap   Snapshot
	subs   map[uint64]func(Snapshot)
	nextID uint64
}

// NewView wires the live query graph. Call Start to load and attach it.
func NewView(hub *Hub, loader Loader, log *logrus.Logger) *View {
	v := &View{
		hub:    hub,
		loader: loader,
		log:    log.WithField("component", "view"),
		subs:   make(map[uint64]func(Snapshot)),
	}

	board := &query{collection: Boards, refresh: v.refreshBoard}
	columns := &query{collection: Columns, refresh: v.refreshColumns}
	cards := &query{collection: Cards, refresh: v.refreshCards}
	board.dependents = []*query{columns}
	columns.dependents = []*query{cards}

	v.queries = []*query{board, columns, cards}
	return v
}

// Start performs the initial load and begins following the hub. ctx bounds
// every later recomputation as well.
func (v *View) Start(ctx context.Context) error {
	v.ctx = ctx
	if err := v.recompute(ctx, Commit{}, true); err != nil {
		return err
	}
	v.detach = v.hub.Subscribe(v.onCommit)
	return nil
}

// Close detaches the view from the hub. Subscribers receive nothing further.
func (v *View) Close() {
	if v.detach != nil {
		v.detach()
	}
}

// Snapshot returns the latest published snapshot.
func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snap
}

// Subscribe registers fn for every future snapshot. fn runs on the goroutine
// that delivered the commit and must not write to the store synchronously.
func (v *View) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	v.mu.Lock()
	v.nextID++
	id := v.nextID
	v.subs[id] = fn
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

func (v *View) onCommit(c Commit) {
	ctx := v.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return
	}
	if err := v.recompute(ctx, c, false); err != nil {
		v.log.WithError(err).WithField("commit", c.ID).Error("live query refresh failed")
	}
}

// recompute refreshes every query the commit made dirty, in dependency
// order, then publishes the result as one snapshot. On error the previous
// snapshot stays in place.
func (v *View) recompute(ctx context.Context, c Commit, all bool) error {
	v.refreshMu.Lock()
	defer v.refreshMu.Unlock()

	dirty := make(map[*query]bool, len(v.queries))
	for _, q := range v.queries {
		if all || c.Touches(q.collection) {
			dirty[q] = true
		}
	}
	if len(dirty) == 0 {
		return nil
	}

	next := v.Snapshot()
	next.Commit = c.ID
	var refreshed []Collection
	for _, q := range v.queries {
		if !dirty[q] {
			continue
		}
		rekeyed, err := q.refresh(ctx, &next)
		if err != nil {
			return err
		}
		refreshed = append(refreshed, q.collection)
		if rekeyed {
			for _, d := range q.dependents {
				dirty[d] = true
			}
		}
	}

	v.mu.Lock()
	v.snap = next
	subs := make([]func(Snapshot), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()

	v.log.WithFields(logrus.Fields{
		"commit":    c.ID,
		"refreshed": refreshed,
	}).Debug("view recomputed")

	for _, fn := range subs {
		fn(next)
	}
	return nil
}

func (v *View) refreshBoard(ctx context.Context, next *Snapshot) (bool, error) {
	board, err := v.loader.FirstBoard(ctx)
	if err != nil {
		return false, err
	}
	rekeyed := boardID(next.Board) != boardID(board)
	next.Board = board
	return rekeyed, nil
}

func (v *View) refreshColumns(ctx context.Context, next *Snapshot) (bool, error) {
	var columns []model.Column
	if next.Board != nil {
		var err error
		columns, err = v.loader.ColumnsByBoard(ctx, next.Board.ID)
		if err != nil {
			return false, err
		}
	}
	rekeyed := !sameIDs(columnIDs(next.Columns), columnIDs(columns))
	next.Columns = columns
	return rekeyed, nil
}

func (v *View) refreshCards(ctx context.Context, next *Snapshot) (bool, error) {
	cards, err := v.loader.CardsByColumns(ctx, columnIDs(next.Columns))
	if err != nil {
		return false, err
	}
	next.Cards = cards
	return false, nil
}

func boardID(b *model.Board) uint {
	if b == nil {
		return 0
	}
	return b.ID
}

func columnIDs(columns []model.Column) []uint {
	ids := make([]uint, len(columns))
	for i, c := range columns {
		ids[i] = c.ID
	}
	return ids
}

// sameIDs compares two id sets, ignoring order.
func sameIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[uint]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}
