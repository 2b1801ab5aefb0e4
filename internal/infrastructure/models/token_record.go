package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// TokenRecord is the persistence model for a generated creature. The unique
// index on owner_address is the storage-level dedup guarantee.
type TokenRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerAddress string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Seed         string    `gorm:"type:varchar(64);not null"`
	Traits       string    `gorm:"type:text;not null"` // JSON-encoded trait set
	ImageURI     string    `gorm:"type:text;not null"`
	MetadataURI  string    `gorm:"type:text;not null"`
	TokenID      int64     `gorm:"not null;default:0"`
	MintedAt     null.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName maps the model to the token_records table.
func (TokenRecord) TableName() string {
	return "token_records"
}
