package domain

// BankAccount is the reserved account number of the shared guild bank.
// Every other account number is a Character ID.
const BankAccount uint = 1

// Character Model
type Character struct {
	ID          uint   `gorm:"primaryKey" json:"id"`                                // Primary key, doubles as the ledger account number
	UserID      uint   `gorm:"not null;uniqueIndex:idx_user_name" json:"user_id"`   // Owning user
	Name        string `gorm:"not null;uniqueIndex:idx_user_name" json:"name"`      // Short name, unique per user
	DisplayName string `gorm:"not null" json:"display_name"`                        // Name shown when speaking in character
	PictureURL  string `gorm:"not null" json:"picture_url"`                         // Portrait image URL
	NPC         bool   `gorm:"not null" json:"npc"`                                 // Non-player character flag
	Rank        *uint  `json:"rank,omitempty"`                                      // Guild rank role, nil if unranked
	Level       *int   `json:"level,omitempty"`                                     // Character level, nil if unset
}
