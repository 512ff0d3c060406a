package store

import (
	"errors"

	"guildbank/internal/domain"

	"gorm.io/gorm"
)

// UserStore persists users (the external chat identities).
type UserStore struct {
	db *gorm.DB
}

// NewUserStore returns a UserStore backed by db.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create persists a new user.
func (s *UserStore) Create(u *domain.User) error {
	return s.db.Create(u).Error
}

// Get returns the user with the given id.
func (s *UserStore) Get(id uint) (*domain.User, error) {
	var u domain.User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByUsername returns the user with the given username.
func (s *UserStore) GetByUsername(username string) (*domain.User, error) {
	var u domain.User
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// All returns every user.
func (s *UserStore) All() ([]domain.User, error) {
	var out []domain.User
	if err := s.db.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SetActiveChar points a user at their current character; nil clears the
// selection.
func (s *UserStore) SetActiveChar(userID uint, charID *uint) error {
	res := s.db.Model(&domain.User{}).Where("id = ?", userID).Update("active_char", charID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
