package quests

import (
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"guildbank/internal/domain"
	"guildbank/internal/embeds"
	"guildbank/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *embeds.Service) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := store.InitDB("sqlite", dsn)
	require.NoError(t, err)
	log := logrus.New()
	log.SetOutput(io.Discard)
	embedSvc := embeds.NewService(store.NewEmbedStore(db), log)
	return NewService(store.NewQuestStore(db), embedSvc, log), embedSvc
}

func createQuest(t *testing.T, s *Service, id uint) *domain.Quest {
	t.Helper()
	q, err := s.Create(id, "2026-09-01", "3-5 players", 2, 42, "100g", "Rescue the caravan", "Bandits took the caravan.")
	require.NoError(t, err)
	return q
}

func TestCreate_BuildsBackingEmbed(t *testing.T) {
	s, embedSvc := newTestService(t)
	q := createQuest(t, s, 7)
	require.NotNil(t, q.EmbedID)

	e, err := embedSvc.Get(*q.EmbedID)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(e.Content), &body))
	require.Equal(t, "Quest 7: Rescue the caravan", body["title"])
	require.Equal(t, "Bandits took the caravan.", body["description"])
}

func TestCreate_DuplicateIDRejected(t *testing.T) {
	s, _ := newTestService(t)
	createQuest(t, s, 7)
	_, err := s.Create(7, "2026-09-02", "solo", 1, 42, "10g", "Other", "Other quest.")
	require.ErrorIs(t, err, store.ErrDuplicate)
}

func TestSetStatus_RefreshesEmbed(t *testing.T) {
	s, embedSvc := newTestService(t)
	q := createQuest(t, s, 7)

	require.NoError(t, s.SetStatus(q.ID, domain.QuestInProgress))

	e, err := embedSvc.Get(*q.EmbedID)
	require.NoError(t, err)
	require.Contains(t, e.Content, StatusLabels[domain.QuestInProgress])

	require.ErrorIs(t, s.SetStatus(q.ID, 99), ErrBadStatus)
}

func TestDelete_CascadesToEmbed(t *testing.T) {
	s, embedSvc := newTestService(t)
	q := createQuest(t, s, 7)
	require.NoError(t, s.AssignCharacter(q.ID, 2))

	count, err := s.Delete(q.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	_, err = embedSvc.Get(*q.EmbedID)
	require.ErrorIs(t, err, store.ErrNotFound)

	party, err := s.Party(q.ID)
	require.NoError(t, err)
	require.Empty(t, party)
}

func TestAssignCharacter(t *testing.T) {
	s, _ := newTestService(t)
	q := createQuest(t, s, 7)

	require.NoError(t, s.AssignCharacter(q.ID, 2))
	require.NoError(t, s.AssignCharacter(q.ID, 3))
	require.ErrorIs(t, s.AssignCharacter(q.ID, 2), store.ErrDuplicate)
	require.ErrorIs(t, s.AssignCharacter(99, 2), store.ErrNotFound)

	party, err := s.Party(q.ID)
	require.NoError(t, err)
	require.Equal(t, []uint{2, 3}, party)
}
