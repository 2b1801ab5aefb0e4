package repositories

import (
	"context"

	"aura-creatures.backend/internal/domain/entities"
)

// TokenRecordRepository defines token record data operations.
//
// CreateIfAbsent is the authoritative dedup mechanism: owner address carries
// a uniqueness constraint and the insert is conditional, so two racing
// generations cannot both persist.
type TokenRecordRepository interface {
	GetByOwner(ctx context.Context, ownerAddress string) (*entities.TokenRecord, error)
	// CreateIfAbsent inserts the record unless one already exists for its
	// owner. Returns whether the insert happened; on false the caller should
	// re-read the winner's record.
	CreateIfAbsent(ctx context.Context, record *entities.TokenRecord) (bool, error)
	// UpdateTokenID records the on-chain token id after a successful mint.
	UpdateTokenID(ctx context.Context, ownerAddress string, tokenID int64) error
}
