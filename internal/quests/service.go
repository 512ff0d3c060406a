// Package quests manages the quest board. Every quest owns a backing embed
// record that mirrors its fields; edits refresh the embed so the posted
// message can be brought up to date.
package quests

import (
	"encoding/json"
	"errors"
	"fmt"

	"guildbank/internal/domain"
	"guildbank/internal/embeds"
	"guildbank/internal/store"

	"github.com/sirupsen/logrus"
)

// ErrBadStatus indicates a status value outside the board states.
var ErrBadStatus = errors.New("unknown quest status")

// StatusLabels maps a quest status to its board label.
var StatusLabels = map[int]string{
	domain.QuestOpen:       "Open",
	domain.QuestInProgress: "In Progress",
	domain.QuestSucceeded:  "Succeeded (awaiting report)",
	domain.QuestFailed:     "Failed (awaiting report)",
	domain.QuestClosed:     "Closed",
}

// Service applies quest-board rules on top of the quest and embed stores.
type Service struct {
	quests *store.QuestStore
	embeds *embeds.Service
	log    *logrus.Logger
}

// NewService returns a Service over the given stores.
func NewService(quests *store.QuestStore, embeds *embeds.Service, log *logrus.Logger) *Service {
	return &Service{quests: quests, embeds: embeds, log: log}
}

// Create stores a new quest under a caller-chosen id and creates its backing
// embed record.
func (s *Service) Create(
	id uint, date, multi string, tier int, rankID uint, reward, title, description string,
) (*domain.Quest, error) {
	q := &domain.Quest{
		ID:          id,
		Date:        date,
		Multi:       multi,
		Tier:        tier,
		RankID:      rankID,
		Reward:      reward,
		Title:       title,
		Description: description,
		Status:      domain.QuestOpen,
	}
	if err := s.quests.Create(q); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("%w: quest %d", store.ErrDuplicate, id)
		}
		return nil, err
	}
	embed, err := s.embeds.Create(nil, nil, embedContent(q))
	if err != nil {
		return nil, err
	}
	q.EmbedID = &embed.ID
	if err := s.quests.Save(q); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"quest_id": q.ID,
		"embed_id": embed.ID,
	}).Info("Quest created")
	return q, nil
}

// Get returns a quest by id.
func (s *Service) Get(id uint) (*domain.Quest, error) {
	return s.quests.Get(id)
}

// All returns every quest.
func (s *Service) All() ([]domain.Quest, error) {
	return s.quests.All()
}

// Quest fields are edited through typed updates only, mirroring the
// character directory. Every edit refreshes the backing embed content.

// SetStatus moves a quest through the board states.
func (s *Service) SetStatus(id uint, status int) error {
	if _, ok := StatusLabels[status]; !ok {
		return fmt.Errorf("%w: %d", ErrBadStatus, status)
	}
	return s.update(id, func(q *domain.Quest) { q.Status = status })
}

// SetTitle changes the quest title.
func (s *Service) SetTitle(id uint, title string) error {
	return s.update(id, func(q *domain.Quest) { q.Title = title })
}

// SetDescription changes the quest body.
func (s *Service) SetDescription(id uint, description string) error {
	return s.update(id, func(q *domain.Quest) { q.Description = description })
}

// SetReward changes the reward text.
func (s *Service) SetReward(id uint, reward string) error {
	return s.update(id, func(q *domain.Quest) { q.Reward = reward })
}

// SetTier changes the difficulty tier.
func (s *Service) SetTier(id uint, tier int) error {
	return s.update(id, func(q *domain.Quest) { q.Tier = tier })
}

func (s *Service) update(id uint, mutate func(*domain.Quest)) error {
	q, err := s.quests.Get(id)
	if err != nil {
		return err
	}
	mutate(q)
	if err := s.quests.Save(q); err != nil {
		return err
	}
	if q.EmbedID == nil {
		return nil
	}
	_, err = s.embeds.UpdateContent(*q.EmbedID, embedContent(q))
	return err
}

// AssignCharacter signs a character up for a quest.
func (s *Service) AssignCharacter(questID, characterID uint) error {
	if _, err := s.quests.Get(questID); err != nil {
		return err
	}
	return s.quests.AssignCharacter(questID, characterID)
}

// Party returns the character ids signed up for a quest.
func (s *Service) Party(questID uint) ([]uint, error) {
	return s.quests.CharactersFor(questID)
}

// Delete removes a quest, its signups and its backing embed.
func (s *Service) Delete(id uint) (int64, error) {
	q, err := s.quests.Get(id)
	if err != nil {
		return 0, err
	}
	count, err := s.quests.Delete(id)
	if err != nil {
		return count, err
	}
	if q.EmbedID != nil {
		if _, err := s.embeds.Delete(*q.EmbedID); err != nil {
			return count, err
		}
	}
	return count, nil
}

// embedContent renders a quest into its embed JSON body.
func embedContent(q *domain.Quest) string {
	body := map[string]any{
		"title":       fmt.Sprintf("Quest %d: %s", q.ID, q.Title),
		"description": q.Description,
		"fields": []map[string]any{
			{"name": "Date", "value": q.Date, "inline": true},
			{"name": "Party", "value": q.Multi, "inline": true},
			{"name": "Tier", "value": q.Tier, "inline": true},
			{"name": "Reward", "value": q.Reward, "inline": true},
			{"name": "Status", "value": StatusLabels[q.Status], "inline": true},
		},
	}
	out, _ := json.Marshal(body)
	return string(out)
}
