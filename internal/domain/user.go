package domain

// User Model
type User struct {
	ID         uint   `gorm:"primaryKey" json:"id"`               // Primary key
	Username   string `gorm:"unique;not null" json:"username"`    // Unique username
	Password   string `gorm:"not null" json:"-"`                  // Hashed password
	Role       string `gorm:"default:user" json:"role"`           // Role: user or admin
	ActiveChar *uint  `json:"active_char,omitempty"`              // Currently selected character, nil if none
}
