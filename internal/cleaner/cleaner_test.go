package cleaner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-autodelete/internal/models"
)

// fakeStore is an in-memory Store with injectable remove failures.
type fakeStore struct {
	mu         sync.Mutex
	records    map[uint]models.TrackedMessage
	failRemove bool
	pruned     int64
}

func newFakeStore(msgs ...models.TrackedMessage) *fakeStore {
	s := &fakeStore{records: make(map[uint]models.TrackedMessage)}
	for _, m := range msgs {
		s.records[m.ID] = m
	}
	return s
}

func (s *fakeStore) DueMessages(now time.Time) []models.TrackedMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []models.TrackedMessage
	for _, m := range s.records {
		if !m.DeleteDate.After(now) {
			due = append(due, m)
		}
	}
	return due
}

func (s *fakeStore) Remove(recordID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRemove {
		return false
	}
	delete(s.records, recordID)
	return true
}

func (s *fakeStore) PruneStale(now time.Time) int64 {
	return s.pruned
}

func (s *fakeStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// fakeDeleter counts delete calls and can fail or block.
type fakeDeleter struct {
	mu    sync.Mutex
	calls int
	err   error
	block chan struct{}
}

func (d *fakeDeleter) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	if d.block != nil {
		<-d.block
	}
	return d.err
}

func (d *fakeDeleter) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type fakeNotifier struct {
	mu       sync.Mutex
	deleted  []int
	failed   []int
	failMsgs []string
}

func (n *fakeNotifier) NotifyDeleted(ctx context.Context, messageID int, chatID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deleted = append(n.deleted, messageID)
}

func (n *fakeNotifier) NotifyFailed(ctx context.Context, messageID int, chatID int64, errMsg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = append(n.failed, messageID)
	n.failMsgs = append(n.failMsgs, errMsg)
}

func dueMessage(id uint, messageID int) models.TrackedMessage {
	return models.TrackedMessage{
		ID:         id,
		MessageID:  messageID,
		ChatID:     -1001,
		DeleteDate: time.Now().Add(-time.Hour),
	}
}

func TestSweepDeletesDueMessages(t *testing.T) {
	store := newFakeStore(dueMessage(1, 100), dueMessage(2, 200))
	store.pruned = 3
	deleter := &fakeDeleter{}
	notifier := &fakeNotifier{}

	report := New(store, deleter, notifier).Sweep(context.Background())

	assert.Equal(t, 2, report.Deleted)
	assert.Zero(t, report.Failed)
	assert.Equal(t, int64(3), report.Pruned)
	assert.Zero(t, store.len())
	assert.ElementsMatch(t, []int{100, 200}, notifier.deleted)
	assert.Empty(t, notifier.failed)
}

func TestSweepKeepsRecordOnTransportError(t *testing.T) {
	store := newFakeStore(dueMessage(1, 100))
	deleter := &fakeDeleter{err: errors.New("message to delete not found")}
	notifier := &fakeNotifier{}

	report := New(store, deleter, notifier).Sweep(context.Background())

	assert.Zero(t, report.Deleted)
	assert.Equal(t, 1, report.Failed)
	// the record stays due for the next sweep
	assert.Equal(t, 1, store.len())
	require.Len(t, notifier.failed, 1)
	assert.Contains(t, notifier.failMsgs[0], "not found")
}

func TestSweepKeepsRecordOnStoreRemoveFailure(t *testing.T) {
	store := newFakeStore(dueMessage(1, 100))
	store.failRemove = true
	deleter := &fakeDeleter{}
	notifier := &fakeNotifier{}

	cln := New(store, deleter, notifier)
	report := cln.Sweep(context.Background())

	assert.Zero(t, report.Deleted)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, notifier.failMsgs, 1)
	assert.Equal(t, "Failed to remove record from database", notifier.failMsgs[0])

	// still selectable: the next sweep re-attempts the external delete
	store.failRemove = false
	report = cln.Sweep(context.Background())
	assert.Equal(t, 1, report.Deleted)
	assert.Equal(t, 2, deleter.callCount())
}

func TestConcurrentSweepsSerialize(t *testing.T) {
	store := newFakeStore(dueMessage(1, 100), dueMessage(2, 200))
	deleter := &fakeDeleter{block: make(chan struct{})}
	notifier := &fakeNotifier{}
	cln := New(store, deleter, notifier)

	var wg sync.WaitGroup
	reports := make([]Report, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i] = cln.Sweep(context.Background())
		}(i)
	}

	// let the first sweep reach the deleter, then release everything
	time.Sleep(50 * time.Millisecond)
	close(deleter.block)
	wg.Wait()

	// each due record is processed as a fresh delete exactly once: the
	// second sweep ran only after the first finished and found nothing
	assert.Equal(t, 2, deleter.callCount())
	assert.Equal(t, 2, reports[0].Deleted+reports[1].Deleted)
	assert.Zero(t, store.len())
}

func TestSweepStopsOnCancelledContext(t *testing.T) {
	store := newFakeStore(dueMessage(1, 100), dueMessage(2, 200))
	deleter := &fakeDeleter{}
	notifier := &fakeNotifier{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := New(store, deleter, notifier).Sweep(ctx)

	assert.Zero(t, report.Deleted)
	assert.Zero(t, deleter.callCount())
	assert.Equal(t, 2, store.len())
}
