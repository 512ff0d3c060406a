// Package embeds manages stored rich-message records: JSON bodies that the
// chat layer can post to a channel and edit in place later.
package embeds

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"guildbank/internal/domain"
	"guildbank/internal/store"

	"github.com/sirupsen/logrus"
)

// ErrBadContent indicates embed content that is not a JSON object.
var ErrBadContent = errors.New("embed content is not a JSON object")

// Service validates and stores embed records.
type Service struct {
	embeds *store.EmbedStore
	log    *logrus.Logger
}

// NewService returns a Service over the given store.
func NewService(embeds *store.EmbedStore, log *logrus.Logger) *Service {
	return &Service{embeds: embeds, log: log}
}

// normalizeContent makes sure content is a JSON object and re-marshals it
// into its canonical compact form.
func normalizeContent(content string) (string, error) {
	var body map[string]any
	if err := json.Unmarshal([]byte(content), &body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadContent, err)
	}
	normalized, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	return string(normalized), nil
}

// Create stores a new embed record. createdBy may be nil for system embeds
// (quests create theirs this way); channelID may be nil when no target
// channel is picked yet.
func (s *Service) Create(createdBy *uint, channelID *int64, content string) (*domain.EmbedRecord, error) {
	normalized, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}
	e := &domain.EmbedRecord{
		Content:   normalized,
		Date:      time.Now().UTC().Format(time.RFC3339),
		CreatedBy: createdBy,
		ChannelID: channelID,
	}
	if err := s.embeds.Create(e); err != nil {
		return nil, err
	}
	s.log.WithField("embed_id", e.ID).Info("Embed created")
	return e, nil
}

// Get returns an embed record by id.
func (s *Service) Get(id uint) (*domain.EmbedRecord, error) {
	return s.embeds.Get(id)
}

// UpdateContent replaces an embed's JSON body.
func (s *Service) UpdateContent(id uint, content string) (*domain.EmbedRecord, error) {
	normalized, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}
	e, err := s.embeds.Get(id)
	if err != nil {
		return nil, err
	}
	e.Content = normalized
	if err := s.embeds.Save(e); err != nil {
		return nil, err
	}
	return e, nil
}

// MarkPosted records where the chat layer posted the embed.
func (s *Service) MarkPosted(id uint, channelID, messageID int64) error {
	e, err := s.embeds.Get(id)
	if err != nil {
		return err
	}
	e.ChannelID = &channelID
	e.MessageID = messageID
	return s.embeds.Save(e)
}

// ListActive returns every embed that is live in a channel.
func (s *Service) ListActive() ([]domain.EmbedRecord, error) {
	return s.embeds.ListActive()
}

// Delete removes an embed record.
func (s *Service) Delete(id uint) (int64, error) {
	return s.embeds.Delete(id)
}
