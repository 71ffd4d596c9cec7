package service

import (
	"time"

	"tg-autodelete/internal/config"
	"tg-autodelete/internal/logger"
	"tg-autodelete/internal/models"
	"tg-autodelete/internal/retention"
	"tg-autodelete/internal/storage"
)

// MessageService is the store boundary for tracked messages. Storage errors
// stop here: callers get a failed result or an empty slice, never a fault,
// so a broken database cannot take down the update loop or the sweeper.
type MessageService struct {
	repo *storage.MessageRepository
	cfg  *config.Config
}

// NewMessageService creates the service and ensures the backing table exists.
func NewMessageService(repo *storage.MessageRepository, cfg *config.Config) (*MessageService, error) {
	if err := repo.MigrateTable(); err != nil {
		return nil, err
	}
	return &MessageService{repo: repo, cfg: cfg}, nil
}

// Register schedules a message for deletion. The delete date is the forward
// date plus the currently configured retention and is fixed at this point.
// Returns the computed delete date and whether the record was persisted.
func (s *MessageService) Register(messageID int, chatID int64, forwardDate time.Time) (time.Time, bool) {
	deleteDate := retention.DeleteDate(forwardDate, s.cfg.Retention.DeleteAfter())

	msg := &models.TrackedMessage{
		MessageID:   messageID,
		ChatID:      chatID,
		ForwardDate: forwardDate,
		DeleteDate:  deleteDate,
	}

	if err := s.repo.Insert(msg); err != nil {
		logger.Errorf("Error adding message %d (chat %d) to database: %v", messageID, chatID, err)
		return time.Time{}, false
	}

	logger.Infof("Message %d added to database, will be deleted on %s", messageID, deleteDate.Format("2006-01-02 15:04:05"))
	return deleteDate, true
}

// DueMessages returns every record past its delete date at now. On storage
// errors it logs and returns an empty slice.
func (s *MessageService) DueMessages(now time.Time) []models.TrackedMessage {
	msgs, err := s.repo.DueMessages(now)
	if err != nil {
		logger.Errorf("Error getting messages to delete: %v", err)
		return nil
	}
	return msgs
}

// Remove deletes one record by id and reports success. Removing an already
// absent record succeeds.
func (s *MessageService) Remove(recordID uint) bool {
	if err := s.repo.Remove(recordID); err != nil {
		logger.Errorf("Error deleting message record %d: %v", recordID, err)
		return false
	}
	logger.Infof("Message record %d removed from database", recordID)
	return true
}

// PruneStale removes records older than the configured grace period,
// regardless of their deletion status, and returns the count removed.
// The grace period is read fresh on every pass.
func (s *MessageService) PruneStale(now time.Time) int64 {
	cutoff := retention.StaleCutoff(now, s.cfg.Retention.PruneAfter())

	count, err := s.repo.PruneStale(cutoff)
	if err != nil {
		logger.Errorf("Error cleaning up old records: %v", err)
		return 0
	}
	if count > 0 {
		logger.Infof("Cleaned up %d old records", count)
	}
	return count
}

// Stats returns the total number of tracked messages and how many are
// already due at now. Used by the status command.
func (s *MessageService) Stats(now time.Time) (total int64, due int64) {
	var err error
	if total, err = s.repo.CountAll(); err != nil {
		logger.Errorf("Error counting tracked messages: %v", err)
		return 0, 0
	}
	if due, err = s.repo.CountDue(now); err != nil {
		logger.Errorf("Error counting due messages: %v", err)
		return total, 0
	}
	return total, due
}
