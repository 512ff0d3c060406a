package domain

// Quest statuses, in board order.
const (
	QuestOpen = iota
	QuestInProgress
	QuestSucceeded // waiting for report
	QuestFailed    // waiting for report
	QuestClosed
)

// Quest Model
//
// Quest IDs are chosen by the quest master, not auto-assigned, so the board
// numbering matches the campaign notes.
type Quest struct {
	ID          uint   `gorm:"primaryKey;autoIncrement:false" json:"id"` // Caller-chosen quest number
	EmbedID     *uint  `json:"embed_id,omitempty"`                       // Backing embed record
	Date        string `gorm:"not null" json:"date"`                     // In-game or posting date
	Multi       string `gorm:"not null" json:"multi"`                    // Party size note
	Tier        int    `gorm:"not null" json:"tier"`                     // Difficulty tier
	RankID      uint   `gorm:"not null" json:"rank_id"`                  // Minimum guild rank role
	Reward      string `gorm:"not null" json:"reward"`                   // Reward text
	Title       string `gorm:"not null" json:"title"`                    // Quest title
	Description string `gorm:"not null" json:"description"`              // Quest body
	Status      int    `gorm:"not null;default:0" json:"status"`         // One of the Quest* statuses
}

// QuestCharacter links a character to a quest it signed up for.
type QuestCharacter struct {
	ID          uint `gorm:"primaryKey" json:"id"`           // Primary key
	QuestID     uint `gorm:"not null;index" json:"quest_id"` // Quest
	CharacterID uint `gorm:"not null" json:"character_id"`   // Character
}

// TableName keeps the original join-table name.
func (QuestCharacter) TableName() string { return "quest_characters" }
