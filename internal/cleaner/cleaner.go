// Package cleaner runs the periodic deletion sweep: it selects tracked
// messages whose retention has expired, deletes them from the channel,
// reconciles the store and notifies the operator about each outcome.
package cleaner

import (
	"context"
	"sync"
	"time"

	"tg-autodelete/internal/logger"
	"tg-autodelete/internal/models"
)

// Store is the record-store surface the sweep needs. All methods are
// non-throwing; storage failures surface as empty results or false.
type Store interface {
	DueMessages(now time.Time) []models.TrackedMessage
	Remove(recordID uint) bool
	PruneStale(now time.Time) int64
}

// Deleter removes a message from the external chat system.
type Deleter interface {
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// Notifier reports deletion outcomes to the operator. Implementations are
// best-effort; delivery failures must not propagate.
type Notifier interface {
	NotifyDeleted(ctx context.Context, messageID int, chatID int64)
	NotifyFailed(ctx context.Context, messageID int, chatID int64, errMsg string)
}

// Report aggregates one sweep.
type Report struct {
	Deleted int
	Failed  int
	Pruned  int64
}

// Cleaner executes sweeps. A mutex serializes them: the scheduler and the
// manual trigger are independent entry points, and two concurrent passes
// would select the same due records and race their removals.
type Cleaner struct {
	store    Store
	deleter  Deleter
	notifier Notifier

	// CallTimeout bounds each external delete call.
	callTimeout time.Duration

	mu sync.Mutex

	// now is replaceable in tests
	now func() time.Time
}

// New creates a Cleaner with a 30 second per-call timeout.
func New(store Store, deleter Deleter, notifier Notifier) *Cleaner {
	return &Cleaner{
		store:       store,
		deleter:     deleter,
		notifier:    notifier,
		callTimeout: 30 * time.Second,
		now:         time.Now,
	}
}

// Sweep runs one full pass: delete every due message, then prune stale
// records. Concurrent calls block until the in-flight pass finishes.
//
// Each due record follows at-least-once semantics. The external delete and
// the store removal are not coupled in a transaction: if the delete
// succeeds but the removal fails, the record stays and the next sweep
// re-issues the delete, relying on Telegram reporting it as already gone.
func (c *Cleaner) Sweep(ctx context.Context) Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	var report Report

	due := c.store.DueMessages(c.now())
	for _, msg := range due {
		if ctx.Err() != nil {
			logger.Warningf("Sweep interrupted, %d messages left for next pass", len(due)-report.Deleted-report.Failed)
			break
		}

		if c.deleteOne(ctx, msg) {
			report.Deleted++
		} else {
			report.Failed++
		}
	}

	report.Pruned = c.store.PruneStale(c.now())

	if report.Deleted > 0 || report.Failed > 0 || report.Pruned > 0 {
		logger.Infof("Cleanup completed: %d messages deleted, %d failed, %d old records pruned",
			report.Deleted, report.Failed, report.Pruned)
	} else {
		logger.Infof("No messages to delete at this time")
	}

	return report
}

// deleteOne deletes a single message from the channel and reconciles the
// store. On any failure the record is left in place for retry.
func (c *Cleaner) deleteOne(ctx context.Context, msg models.TrackedMessage) bool {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	if err := c.deleter.DeleteMessage(callCtx, msg.ChatID, msg.MessageID); err != nil {
		logger.Errorf("Error deleting message %d (chat %d, record %d): %v", msg.MessageID, msg.ChatID, msg.ID, err)
		c.notifier.NotifyFailed(ctx, msg.MessageID, msg.ChatID, err.Error())
		return false
	}

	if !c.store.Remove(msg.ID) {
		// The channel message is gone but the record survived; the next
		// sweep retries and the duplicate delete is expected to no-op.
		logger.Errorf("Failed to remove record %d from database", msg.ID)
		c.notifier.NotifyFailed(ctx, msg.MessageID, msg.ChatID, "Failed to remove record from database")
		return false
	}

	logger.Infof("Successfully deleted message %d from channel %d", msg.MessageID, msg.ChatID)
	c.notifier.NotifyDeleted(ctx, msg.MessageID, msg.ChatID)
	return true
}
