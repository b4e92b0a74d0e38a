// Package live keeps read-side collections in step with committed writes.
//
// Writers announce each committed transaction on a Hub. A View listens to the
// hub and recomputes its live queries (board, then columns, then cards) in
// dependency order, publishing a fresh Snapshot to its own subscribers.
package live

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Collection names a persisted entity collection.
type Collection string

const (
	Boards  Collection = "board"
	Columns Collection = "column"
	Cards   Collection = "card"
)

// Commit announces one committed transaction and the collections it wrote.
type Commit struct {
	ID          uuid.UUID
	Collections []Collection
	At          time.Time
}

// Touches reports whether the commit wrote to c.
func (c Commit) Touches(col Collection) bool {
	for _, v := range c.Collections {
		if v == col {
			return true
		}
	}
	return false
}

// NewCommit stamps a commit for the given collections.
func NewCommit(collections ...Collection) Commit {
	return Commit{ID: uuid.New(), Collections: collections, At: time.Now()}
}

// Dispatch selects how the hub delivers commits to subscribers.
type Dispatch int

const (
	// DispatchSync runs subscribers before Publish returns. Used when there
	// is no persistent backend, so reads right after a write are current.
	DispatchSync Dispatch = iota
	// DispatchAsync queues commits and delivers them in order from a single
	// goroutine, one hop after the writer has moved on.
	DispatchAsync
)

type subscriber struct {
	id uint64
	fn func(Commit)
}

// Hub fans committed transactions out to subscribers.
type Hub struct {
	mode Dispatch
	log  *logrus.Entry

	mu     sync.Mutex
	subs   []subscriber
	nextID uint64

	queue  chan Commit
	done   chan struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewHub creates a hub. An async hub owns a worker goroutine until Close.
func NewHub(mode Dispatch, log *logrus.Logger) *Hub {
	h := &Hub{
		mode: mode,
		log:  log.WithField("component", "hub"),
	}
	if mode == DispatchAsync {
		h.queue = make(chan Commit, 64)
		h.done = make(chan struct{})
		h.wg.Add(1)
		go h.run()
	}
	return h
}

// Mode returns the dispatch mode the hub was created with.
func (h *Hub) Mode() Dispatch {
	return h.mode
}

// Subscribe registers fn for every future commit. The returned func removes
// the subscription and is safe to call more than once.
func (h *Hub) Subscribe(fn func(Commit)) (unsubscribe func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscriber{id: id, fn: fn})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, s := range h.subs {
				if s.id == id {
					h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish announces a commit. Publishing on a closed hub is ignored.
func (h *Hub) Publish(c Commit) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		h.log.WithField("commit", c.ID).Warn("publish on closed hub dropped")
		return
	}
	h.mu.Unlock()

	if h.mode == DispatchSync {
		h.deliver(c)
		return
	}

	select {
	case h.queue <- c:
	case <-h.done:
	}
}

// Close stops delivery. Commits still queued are delivered first.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()

	if h.mode == DispatchAsync {
		close(h.done)
		h.wg.Wait()
	}
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case c := <-h.queue:
			h.deliver(c)
		case <-h.done:
			for {
				select {
				case c := <-h.queue:
					h.deliver(c)
				default:
					return
				}
			}
		}
	}
}

func (h *Hub) deliver(c Commit) {
	h.mu.Lock()
	subs := make([]subscriber, len(h.subs))
	copy(subs, h.subs)
	h.mu.Unlock()

	h.log.WithFields(logrus.Fields{
		"commit":      c.ID,
		"collections": c.Collections,
		"subscribers": len(subs),
	}).Debug("dispatching commit")

	for _, s := range subs {
		s.fn(c)
	}
}
