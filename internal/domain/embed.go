package domain

// EmbedRecord Model
//
// A stored rich-message body (JSON text) that can be posted to a chat channel
// and edited later. MessageID 0 means the embed was never posted. Posting
// itself is the chat layer's job; this is only the record.
type EmbedRecord struct {
	ID        uint   `gorm:"primaryKey" json:"id"`        // Primary key
	Content   string `gorm:"not null" json:"content"`     // Embed body as a JSON object
	Date      string `gorm:"not null" json:"date"`        // UTC ISO-8601 creation timestamp
	CreatedBy *uint  `json:"created_by,omitempty"`        // User who created it, nil for system embeds
	ChannelID *int64 `json:"channel_id,omitempty"`        // Target channel, nil if not assigned yet
	MessageID int64  `gorm:"default:0" json:"message_id"` // Posted message, 0 = never posted
}

// TableName keeps the original table name.
func (EmbedRecord) TableName() string { return "embeds" }
