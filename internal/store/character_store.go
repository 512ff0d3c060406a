package store

import (
	"errors"

	"guildbank/internal/domain"

	"gorm.io/gorm"
)

// CharacterStore persists characters. A character's id is its account number.
type CharacterStore struct {
	db *gorm.DB
}

// NewCharacterStore returns a CharacterStore backed by db.
func NewCharacterStore(db *gorm.DB) *CharacterStore {
	return &CharacterStore{db: db}
}

// Create persists a new character. The (user, name) pair must be unique.
func (s *CharacterStore) Create(c *domain.Character) error {
	var count int64
	err := s.db.Model(&domain.Character{}).
		Where("user_id = ? AND name = ?", c.UserID, c.Name).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return s.db.Create(c).Error
}

// Get returns the character with the given id.
func (s *CharacterStore) Get(id uint) (*domain.Character, error) {
	var c domain.Character
	if err := s.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByName returns a user's character by its short name.
func (s *CharacterStore) GetByName(userID uint, name string) (*domain.Character, error) {
	var c domain.Character
	err := s.db.Where("user_id = ? AND name = ?", userID, name).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ByUser returns all characters owned by a user.
func (s *CharacterStore) ByUser(userID uint) ([]domain.Character, error) {
	var out []domain.Character
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// All returns every character.
func (s *CharacterStore) All() ([]domain.Character, error) {
	var out []domain.Character
	if err := s.db.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Save writes back a modified character.
func (s *CharacterStore) Save(c *domain.Character) error {
	return s.db.Save(c).Error
}

// Delete removes a character and reports how many rows went away.
func (s *CharacterStore) Delete(id uint) (int64, error) {
	res := s.db.Delete(&domain.Character{}, id)
	return res.RowsAffected, res.Error
}
