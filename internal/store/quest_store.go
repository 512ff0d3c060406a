package store

import (
	"errors"

	"guildbank/internal/domain"

	"gorm.io/gorm"
)

// QuestStore persists quests and their character signups.
type QuestStore struct {
	db *gorm.DB
}

// NewQuestStore returns a QuestStore backed by db.
func NewQuestStore(db *gorm.DB) *QuestStore {
	return &QuestStore{db: db}
}

// Create persists a new quest. Quest ids are caller-chosen, so an existing
// id is a duplicate, not an update.
func (s *QuestStore) Create(q *domain.Quest) error {
	var count int64
	if err := s.db.Model(&domain.Quest{}).Where("id = ?", q.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return s.db.Create(q).Error
}

// Get returns the quest with the given id.
func (s *QuestStore) Get(id uint) (*domain.Quest, error) {
	var q domain.Quest
	if err := s.db.First(&q, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// All returns every quest.
func (s *QuestStore) All() ([]domain.Quest, error) {
	var out []domain.Quest
	if err := s.db.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Save writes back a modified quest.
func (s *QuestStore) Save(q *domain.Quest) error {
	return s.db.Save(q).Error
}

// Delete removes a quest, its signups included, and reports how many quest
// rows went away.
func (s *QuestStore) Delete(id uint) (int64, error) {
	if err := s.db.Where("quest_id = ?", id).Delete(&domain.QuestCharacter{}).Error; err != nil {
		return 0, err
	}
	res := s.db.Delete(&domain.Quest{}, id)
	return res.RowsAffected, res.Error
}

// AssignCharacter signs a character up for a quest.
func (s *QuestStore) AssignCharacter(questID, characterID uint) error {
	var count int64
	err := s.db.Model(&domain.QuestCharacter{}).
		Where("quest_id = ? AND character_id = ?", questID, characterID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return s.db.Create(&domain.QuestCharacter{QuestID: questID, CharacterID: characterID}).Error
}

// CharactersFor returns the character ids signed up for a quest.
func (s *QuestStore) CharactersFor(questID uint) ([]uint, error) {
	var links []domain.QuestCharacter
	if err := s.db.Where("quest_id = ?", questID).Order("id").Find(&links).Error; err != nil {
		return nil, err
	}
	out := make([]uint, len(links))
	for i, l := range links {
		out[i] = l.CharacterID
	}
	return out, nil
}
