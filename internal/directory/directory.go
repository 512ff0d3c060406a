// Package directory maps external users to their in-game characters and the
// ledger accounts behind them.
package directory

import (
	"errors"
	"fmt"

	"guildbank/internal/domain"
	"guildbank/internal/store"

	"github.com/sirupsen/logrus"
)

// ErrNoActiveCharacter indicates a user with no usable active character.
var ErrNoActiveCharacter = errors.New("no active character found")

// Directory resolves users to characters and manages character records.
type Directory struct {
	users      *store.UserStore
	characters *store.CharacterStore
	log        *logrus.Logger
}

// New returns a Directory over the given stores.
func New(users *store.UserStore, characters *store.CharacterStore, log *logrus.Logger) *Directory {
	return &Directory{users: users, characters: characters, log: log}
}

// ResolveActiveAccount returns the account number of the user's active
// character. A dangling pointer to a deleted character is cleared before
// failing, so the user starts clean next time.
func (d *Directory) ResolveActiveAccount(userID uint) (uint, error) {
	user, err := d.users.Get(userID)
	if err != nil {
		return 0, err
	}
	if user.ActiveChar == nil {
		return 0, ErrNoActiveCharacter
	}
	if _, err := d.characters.Get(*user.ActiveChar); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if clearErr := d.users.SetActiveChar(userID, nil); clearErr != nil {
				return 0, clearErr
			}
			return 0, ErrNoActiveCharacter
		}
		return 0, err
	}
	return *user.ActiveChar, nil
}

// ActiveCharacter returns the user's active character itself.
func (d *Directory) ActiveCharacter(userID uint) (*domain.Character, error) {
	account, err := d.ResolveActiveAccount(userID)
	if err != nil {
		return nil, err
	}
	return d.characters.Get(account)
}

// CreateCharacter adds a character for a user. The short name must be unique
// among that user's characters.
func (d *Directory) CreateCharacter(
	userID uint, name, displayName, pictureURL string, npc bool,
) (*domain.Character, error) {
	c := &domain.Character{
		UserID:      userID,
		Name:        name,
		DisplayName: displayName,
		PictureURL:  pictureURL,
		NPC:         npc,
	}
	if err := d.characters.Create(c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("%w: character %q", store.ErrDuplicate, name)
		}
		return nil, err
	}
	d.log.WithFields(logrus.Fields{
		"user_id":      userID,
		"character_id": c.ID,
		"name":         name,
	}).Info("Character created")
	return c, nil
}

// SetActive points a user at one of their characters; nil clears the
// selection. A character id that is not the user's own is rejected.
func (d *Directory) SetActive(userID uint, characterID *uint) error {
	if characterID != nil {
		c, err := d.characters.Get(*characterID)
		if err != nil {
			return err
		}
		if c.UserID != userID {
			return store.ErrNotFound
		}
	}
	return d.users.SetActiveChar(userID, characterID)
}

// Get returns a character by id.
func (d *Directory) Get(characterID uint) (*domain.Character, error) {
	return d.characters.Get(characterID)
}

// GetByName returns a user's character by short name.
func (d *Directory) GetByName(userID uint, name string) (*domain.Character, error) {
	return d.characters.GetByName(userID, name)
}

// Characters returns all characters owned by a user.
func (d *Directory) Characters(userID uint) ([]domain.Character, error) {
	return d.characters.ByUser(userID)
}

// All returns every character in the guild.
func (d *Directory) All() ([]domain.Character, error) {
	return d.characters.All()
}

// Delete removes a character. The bank account is not deletable.
func (d *Directory) Delete(characterID uint) (int64, error) {
	if characterID == domain.BankAccount {
		return 0, fmt.Errorf("%w: the bank account cannot be deleted", store.ErrNotFound)
	}
	return d.characters.Delete(characterID)
}
