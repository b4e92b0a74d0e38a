package live

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localboard/internal/logging"
)

func TestCommit_Touches(t *testing.T) {
	c := NewCommit(Columns, Cards)

	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.False(t, c.Touches(Boards))
	assert.True(t, c.Touches(Columns))
	assert.True(t, c.Touches(Cards))
}

func TestHub_SyncDeliversBeforePublishReturns(t *testing.T) {
	hub := NewHub(DispatchSync, logging.Discard())
	defer hub.Close()

	var got []Commit
	hub.Subscribe(func(c Commit) { got = append(got, c) })

	first := NewCommit(Cards)
	hub.Publish(first)
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].ID)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub(DispatchSync, logging.Discard())
	defer hub.Close()

	var a, b int
	unsubA := hub.Subscribe(func(Commit) { a++ })
	hub.Subscribe(func(Commit) { b++ })

	hub.Publish(NewCommit(Boards))
	unsubA()
	unsubA()
	hub.Publish(NewCommit(Boards))

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestHub_AsyncPreservesOrder(t *testing.T) {
	hub := NewHub(DispatchAsync, logging.Discard())
	assert.Equal(t, DispatchAsync, hub.Mode())

	var (
		mu  sync.Mutex
		got []Commit
	)
	hub.Subscribe(func(c Commit) {
		mu.Lock()
		got = append(got, c)
		mu.Unlock()
	})

	want := make([]Commit, 20)
	for i := range want {
		want[i] = NewCommit(Cards)
		hub.Publish(want[i])
	}
	// Close drains what is still queued.
	hub.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
	}
}

func TestHub_AsyncDeliversOffTheWriter(t *testing.T) {
	hub := NewHub(DispatchAsync, logging.Discard())
	defer hub.Close()

	delivered := make(chan struct{})
	release := make(chan struct{})
	hub.Subscribe(func(Commit) {
		<-release
		close(delivered)
	})

	hub.Publish(NewCommit(Boards))
	close(release)

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("commit was not delivered")
	}
}

func TestHub_PublishAfterCloseIsDropped(t *testing.T) {
	hub := NewHub(DispatchSync, logging.Discard())
	calls := 0
	hub.Subscribe(func(Commit) { calls++ })

	hub.Close()
	hub.Close()
	hub.Publish(NewCommit(Cards))

	assert.Zero(t, calls)
}
