package cleaner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerRunsSweepOnInterval(t *testing.T) {
	store := newFakeStore(dueMessage(1, 100))
	deleter := &fakeDeleter{}
	notifier := &fakeNotifier{}
	cln := New(store, deleter, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewScheduler(cln, time.Second)
	s.Start(ctx)

	next := s.NextRun()
	assert.False(t, next.IsZero())
	assert.WithinDuration(t, time.Now().Add(time.Second), next, 500*time.Millisecond)

	// wait for the first tick to fire the sweep
	deadline := time.Now().Add(3 * time.Second)
	for deleter.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}

	assert.Equal(t, 1, deleter.callCount())
	assert.Zero(t, store.len())
}

func TestSchedulerStopWaitsForRunningSweep(t *testing.T) {
	store := newFakeStore(dueMessage(1, 100))
	deleter := &fakeDeleter{block: make(chan struct{})}
	notifier := &fakeNotifier{}
	cln := New(store, deleter, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewScheduler(cln, time.Second)
	s.Start(ctx)

	// wait until the sweep is inside the deleter call
	deadline := time.Now().Add(3 * time.Second)
	for deleter.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a sweep was still running")
	case <-time.After(200 * time.Millisecond):
	}

	close(deleter.block)

	select {
	case <-stopped:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return after the sweep finished")
	}
}
