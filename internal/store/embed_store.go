package store

import (
	"errors"

	"guildbank/internal/domain"

	"gorm.io/gorm"
)

// EmbedStore persists rich-message records.
type EmbedStore struct {
	db *gorm.DB
}

// NewEmbedStore returns an EmbedStore backed by db.
func NewEmbedStore(db *gorm.DB) *EmbedStore {
	return &EmbedStore{db: db}
}

// Create persists a new embed record.
func (s *EmbedStore) Create(e *domain.EmbedRecord) error {
	return s.db.Create(e).Error
}

// Get returns the embed with the given id.
func (s *EmbedStore) Get(id uint) (*domain.EmbedRecord, error) {
	var e domain.EmbedRecord
	if err := s.db.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Save writes back a modified embed record.
func (s *EmbedStore) Save(e *domain.EmbedRecord) error {
	return s.db.Save(e).Error
}

// ListActive returns embeds that have been posted to a channel.
func (s *EmbedStore) ListActive() ([]domain.EmbedRecord, error) {
	var out []domain.EmbedRecord
	if err := s.db.Where("message_id <> 0").Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an embed record and reports how many rows went away.
func (s *EmbedStore) Delete(id uint) (int64, error) {
	res := s.db.Delete(&domain.EmbedRecord{}, id)
	return res.RowsAffected, res.Error
}
