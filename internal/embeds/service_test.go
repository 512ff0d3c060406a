package embeds

import (
	"fmt"
	"io"
	"testing"

	"guildbank/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := store.InitDB("sqlite", dsn)
	require.NoError(t, err)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(store.NewEmbedStore(db), log)
}

func TestCreate_NormalizesContent(t *testing.T) {
	s := newTestService(t)
	creator := uint(3)

	e, err := s.Create(&creator, nil, `{
		"title": "Notice board",
		"description": "Meet at dawn"
	}`)
	require.NoError(t, err)
	require.NotZero(t, e.ID)
	// Content is stored in its compact canonical form
	require.JSONEq(t, `{"title":"Notice board","description":"Meet at dawn"}`, e.Content)
	require.Zero(t, e.MessageID)

	// Anything that is not a JSON object is rejected
	_, err = s.Create(&creator, nil, `"just a string"`)
	require.ErrorIs(t, err, ErrBadContent)
	_, err = s.Create(&creator, nil, `{broken`)
	require.ErrorIs(t, err, ErrBadContent)
}

func TestUpdateContent(t *testing.T) {
	s := newTestService(t)

	e, err := s.Create(nil, nil, `{"title":"v1"}`)
	require.NoError(t, err)

	updated, err := s.UpdateContent(e.ID, `{"title":"v2"}`)
	require.NoError(t, err)
	require.JSONEq(t, `{"title":"v2"}`, updated.Content)

	// Bad replacement content leaves the record untouched
	_, err = s.UpdateContent(e.ID, `nope`)
	require.ErrorIs(t, err, ErrBadContent)
	got, err := s.Get(e.ID)
	require.NoError(t, err)
	require.JSONEq(t, `{"title":"v2"}`, got.Content)

	_, err = s.UpdateContent(999, `{"title":"v3"}`)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMarkPostedAndListActive(t *testing.T) {
	s := newTestService(t)

	posted, err := s.Create(nil, nil, `{"title":"posted"}`)
	require.NoError(t, err)
	draft, err := s.Create(nil, nil, `{"title":"draft"}`)
	require.NoError(t, err)

	require.NoError(t, s.MarkPosted(posted.ID, 1234, 5678))

	// Only embeds that landed in a channel are active
	active, err := s.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, posted.ID, active[0].ID)
	require.NotNil(t, active[0].ChannelID)
	require.EqualValues(t, 1234, *active[0].ChannelID)
	require.EqualValues(t, 5678, active[0].MessageID)

	// Deleting the draft leaves the posted one alone
	count, err := s.Delete(draft.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
	_, err = s.Get(draft.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
