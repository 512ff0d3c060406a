// Package store holds the gorm repositories for the campaign ledger tables.
package store

import (
	"errors"
	"fmt"

	"guildbank/internal/domain" // Importing domain models

	"gorm.io/driver/mysql"  // MySQL driver for GORM
	"gorm.io/driver/sqlite" // SQLite driver for GORM (bot state file, tests)
	"gorm.io/gorm"          // GORM ORM library
)

// ErrNotFound indicates a lookup for a record that does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate indicates an attempt to create an already-existing named record.
var ErrDuplicate = errors.New("record already exists")

// InitDB opens the database behind the given driver ("mysql" or "sqlite"),
// migrates the schema and seeds the shared bank account.
func InitDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates tables, missing columns and indexes, and seeds the bank
// character so that account number 1 always resolves to a display name.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Character{},
		&domain.Transaction{},
		&domain.EmbedRecord{},
		&domain.Quest{},
		&domain.QuestCharacter{},
	)
	if err != nil {
		return err
	}
	// Account 1 is the guild bank. It is stored as an NPC character owned by
	// no real user so balance and history lookups work the same for every
	// account number.
	bank := domain.Character{
		ID:          domain.BankAccount,
		UserID:      0,
		Name:        "bank",
		DisplayName: "Guild Bank",
		PictureURL:  "",
		NPC:         true,
	}
	return db.Where("id = ?", domain.BankAccount).FirstOrCreate(&bank).Error
}
