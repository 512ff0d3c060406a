package store

import (
	"errors"

	"guildbank/internal/domain"

	"gorm.io/gorm"
)

// TransactionStore persists ledger rows. Every method is a single gorm
// operation; the service layer above composes them without a surrounding
// database transaction.
type TransactionStore struct {
	db *gorm.DB
}

// NewTransactionStore returns a TransactionStore backed by db.
func NewTransactionStore(db *gorm.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// Insert persists t and assigns the next id.
func (s *TransactionStore) Insert(t *domain.Transaction) error {
	return s.db.Create(t).Error
}

// Get returns the transaction with the given id.
func (s *TransactionStore) Get(id uint) (*domain.Transaction, error) {
	var t domain.Transaction
	if err := s.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll returns every transaction matching the exact-match filter,
// e.g. map[string]any{"receiver_id": 3, "confirmed": true}.
func (s *TransactionStore) FindAll(filter map[string]any) ([]domain.Transaction, error) {
	var out []domain.Transaction
	if err := s.db.Where(filter).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// History returns transactions on an account ordered newest first.
// A limit <= 0 returns the full history.
func (s *TransactionStore) History(accountID uint, limit, offset int) ([]domain.Transaction, error) {
	q := s.db.Where("receiver_id = ?", accountID).Order("id DESC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.Transaction
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the transaction with the given id and reports how many rows
// went away (0 or 1).
func (s *TransactionStore) Delete(id uint) (int64, error) {
	res := s.db.Delete(&domain.Transaction{}, id)
	return res.RowsAffected, res.Error
}

// SetLinked points a transaction at its transfer partner.
func (s *TransactionStore) SetLinked(id uint, linkedID *uint) error {
	res := s.db.Model(&domain.Transaction{}).Where("id = ?", id).Update("linked_id", linkedID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetConfirmed flips the confirmed flag on a transaction.
func (s *TransactionStore) SetConfirmed(id uint, confirmed bool) error {
	res := s.db.Model(&domain.Transaction{}).Where("id = ?", id).Update("confirmed", confirmed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
