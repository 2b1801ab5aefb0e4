package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"aura-creatures.backend/pkg/traits"
)

// TokenRecord is the single source of truth for "has this wallet already
// generated". At most one record exists per owner address; a TokenID of 0
// means generated but not yet minted.
type TokenRecord struct {
	ID           uuid.UUID       `json:"id"`
	OwnerAddress string          `json:"ownerAddress"` // lowercase wallet address
	Seed         string          `json:"seed"`
	Traits       traits.TraitSet `json:"traits"`
	ImageURI     string          `json:"imageUri"`
	MetadataURI  string          `json:"metadataUri"`
	TokenID      int64           `json:"tokenId"`
	MintedAt     null.Time       `json:"mintedAt,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Minted reports whether the record has been minted on-chain.
func (r *TokenRecord) Minted() bool {
	return r.TokenID > 0
}
