// Package bank implements the business rules of the guild ledger: balance
// derivation, paired transfer rows, pending confirmation and cascading
// deletion.
package bank

import (
	"errors"
	"fmt"
	"time"

	"guildbank/internal/domain"
	"guildbank/internal/store"

	"github.com/sirupsen/logrus"
)

var (
	// ErrBadArgument indicates invalid or missing caller input.
	ErrBadArgument = errors.New("bad argument")
	// ErrNoTransactions indicates an account with no ledger history at all,
	// as opposed to one whose history sums to zero.
	ErrNoTransactions = errors.New("there are no transactions on this account yet")
	// ErrInsufficientFunds indicates a transaction that would drive a
	// confirmed balance negative.
	ErrInsufficientFunds = errors.New("not enough money in account")
)

// Service applies the ledger rules on top of the transaction store.
type Service struct {
	transactions *store.TransactionStore
	log          *logrus.Logger
}

// NewService returns a Service backed by the given store.
func NewService(transactions *store.TransactionStore, log *logrus.Logger) *Service {
	return &Service{transactions: transactions, log: log}
}

// GetBalance folds every confirmed transaction on the account into a
// per-denomination balance, zeros included. An account with no transactions
// at all fails with ErrNoTransactions so callers can tell "no history yet"
// from "history summing to zero".
func (s *Service) GetBalance(accountID uint) (domain.Coins, error) {
	rows, err := s.transactions.FindAll(map[string]any{
		"receiver_id": accountID,
		"confirmed":   true,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoTransactions
	}
	balance := domain.Coins{}
	for i := range rows {
		balance.Add(rows[i].Amounts())
	}
	return balance.Filled(), nil
}

// balanceOrZero is the balance-guard view of an account: no history counts
// as an all-zero balance instead of an error, so transfers into or out of a
// fresh account are judged on their actual amounts.
func (s *Service) balanceOrZero(accountID uint) (domain.Coins, error) {
	balance, err := s.GetBalance(accountID)
	if errors.Is(err, ErrNoTransactions) {
		return domain.Coins{}.Filled(), nil
	}
	return balance, err
}

// CreateTransaction appends a transaction to the ledger.
//
// A transfer between two different accounts becomes two mutually linked rows:
// the primary row on the receiver's account and a negated row on the
// sender's. The balance guard re-derives the confirmed balance after each
// insert and rolls the new rows back before failing with
// ErrInsufficientFunds if any denomination went negative.
//
// Each step commits on its own; the steps are not wrapped in one database
// transaction, so two concurrent transfers can both pass the guard before
// either debit lands. That window is inherited behavior, kept as is.
func (s *Service) CreateTransaction(
	actorID uint, amounts domain.Coins, description string, senderID, receiverID uint, confirm bool,
) (*domain.Transaction, error) {
	if description == "" {
		return nil, fmt.Errorf("%w: please provide a description", ErrBadArgument)
	}
	if len(amounts) == 0 {
		return nil, fmt.Errorf("%w: please provide at least one amount", ErrBadArgument)
	}

	primary := &domain.Transaction{
		Date:        time.Now().UTC().Format(time.RFC3339),
		CreatedBy:   actorID,
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Description: description,
		Confirmed:   confirm,
	}
	primary.SetAmounts(amounts)
	if err := s.transactions.Insert(primary); err != nil {
		return nil, err
	}

	if err := s.guard(receiverID, primary.ID, nil); err != nil {
		return nil, err
	}

	var linked *domain.Transaction
	if senderID != receiverID {
		// The linked row is a statement against the sender's own account,
		// so the sender becomes the receiver of the negated amounts.
		linked = &domain.Transaction{
			Date:        time.Now().UTC().Format(time.RFC3339),
			CreatedBy:   actorID,
			SenderID:    receiverID,
			ReceiverID:  senderID,
			Description: description,
			Confirmed:   confirm,
			LinkedID:    &primary.ID,
		}
		linked.SetAmounts(amounts.Negated())
		if err := s.transactions.Insert(linked); err != nil {
			_, _ = s.transactions.Delete(primary.ID)
			return nil, err
		}
		if err := s.transactions.SetLinked(primary.ID, &linked.ID); err != nil {
			_, _ = s.transactions.Delete(primary.ID)
			_, _ = s.transactions.Delete(linked.ID)
			return nil, err
		}
		primary.LinkedID = &linked.ID

		// Second guard, on the sender's side now that the debit row exists.
		if err := s.guard(senderID, primary.ID, &linked.ID); err != nil {
			return nil, err
		}
	}

	s.log.WithFields(logrus.Fields{
		"transaction_id": primary.ID,
		"created_by":     actorID,
		"sender_id":      senderID,
		"receiver_id":    receiverID,
		"confirmed":      confirm,
	}).Info("Transaction created")
	return primary, nil
}

// guard fails with ErrInsufficientFunds, deleting the just-inserted rows,
// when any denomination of the account's confirmed balance is negative.
func (s *Service) guard(accountID, primaryID uint, linkedID *uint) error {
	balance, err := s.balanceOrZero(accountID)
	if err != nil {
		return err
	}
	if !balance.AnyNegative() {
		return nil
	}
	if _, err := s.transactions.Delete(primaryID); err != nil {
		return err
	}
	if linkedID != nil {
		if _, err := s.transactions.Delete(*linkedID); err != nil {
			return err
		}
	}
	return ErrInsufficientFunds
}

// Confirm marks a transaction as confirmed and reports what happened.
// Confirming twice is harmless; a linked transfer partner is confirmed in
// the same call. Confirmation does not re-derive balances, so a pending
// debit confirmed late can leave an account negative.
func (s *Service) Confirm(id uint) (string, error) {
	return s.confirm(id, true)
}

// confirm follows the transfer link exactly one hop: the recursive call
// passes followLink=false so malformed link cycles cannot recurse forever.
func (s *Service) confirm(id uint, followLink bool) (string, error) {
	t, err := s.transactions.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("Unknown transaction: %d", id), nil
	}
	if err != nil {
		return "", err
	}
	if t.Confirmed {
		return fmt.Sprintf("Transaction %d was already confirmed", id), nil
	}
	if err := s.transactions.SetConfirmed(id, true); err != nil {
		return "", err
	}
	s.log.WithField("transaction_id", id).Info("Transaction confirmed")
	msg := fmt.Sprintf("Confirmed transaction: %d", id)
	if t.LinkedID != nil && followLink {
		linkedMsg, err := s.confirm(*t.LinkedID, false)
		if err != nil {
			return "", err
		}
		msg += "\n" + linkedMsg
	}
	return msg, nil
}

// Delete removes a transaction and, for transfers, its linked partner.
// It returns the total number of rows removed.
func (s *Service) Delete(id uint) (int64, error) {
	t, err := s.transactions.Get(id)
	if err != nil {
		return 0, err
	}
	count, err := s.transactions.Delete(id)
	if err != nil {
		return count, err
	}
	if t.LinkedID != nil {
		n, err := s.transactions.Delete(*t.LinkedID)
		count += n
		if err != nil {
			return count, err
		}
	}
	s.log.WithFields(logrus.Fields{
		"transaction_id": id,
		"rows_deleted":   count,
	}).Info("Transaction deleted")
	return count, nil
}

// Get returns a single transaction.
func (s *Service) Get(id uint) (*domain.Transaction, error) {
	return s.transactions.Get(id)
}

// History returns an account's transactions in chronological order.
// A limit <= 0 returns the full history; with a limit, the window is the
// most recent transactions, oldest of the window first.
func (s *Service) History(accountID uint, limit, offset int) ([]domain.Transaction, error) {
	rows, err := s.transactions.History(accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// Pending returns every unconfirmed transaction, for admin review.
func (s *Service) Pending() ([]domain.Transaction, error) {
	return s.transactions.FindAll(map[string]any{"confirmed": false})
}
