package storage

import (
	"fmt"
	"time"

	"tg-autodelete/internal/models"

	"gorm.io/gorm"
)

// MessageRepository handles database operations for TrackedMessage
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// MigrateTable ensures the TrackedMessage table exists
func (r *MessageRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.TrackedMessage{})
}

// Insert persists a new tracked message. The message and chat identifiers
// must be set; DeleteDate is expected to be computed by the caller from the
// retention policy.
func (r *MessageRepository) Insert(msg *models.TrackedMessage) error {
	if msg.MessageID == 0 {
		return fmt.Errorf("message id is required")
	}
	if msg.ChatID == 0 {
		return fmt.Errorf("chat id is required")
	}
	return r.db.Create(msg).Error
}

// DueMessages returns all records whose delete date has passed at now,
// oldest deadline first.
func (r *MessageRepository) DueMessages(now time.Time) ([]models.TrackedMessage, error) {
	var msgs []models.TrackedMessage
	result := r.db.Where("delete_date <= ?", now).Order("delete_date").Find(&msgs)
	return msgs, result.Error
}

// Remove deletes one record by its surrogate id. Removing an id that no
// longer exists is not an error.
func (r *MessageRepository) Remove(id uint) error {
	return r.db.Delete(&models.TrackedMessage{}, id).Error
}

// PruneStale deletes records created before cutoff, whatever their delete
// date, and returns the number removed.
func (r *MessageRepository) PruneStale(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&models.TrackedMessage{})
	return result.RowsAffected, result.Error
}

// CountAll returns the number of tracked messages.
func (r *MessageRepository) CountAll() (int64, error) {
	var count int64
	result := r.db.Model(&models.TrackedMessage{}).Count(&count)
	return count, result.Error
}

// CountDue returns the number of tracked messages already past their delete
// date at now.
func (r *MessageRepository) CountDue(now time.Time) (int64, error) {
	var count int64
	result := r.db.Model(&models.TrackedMessage{}).Where("delete_date <= ?", now).Count(&count)
	return count, result.Error
}
