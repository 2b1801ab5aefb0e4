package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"aura-creatures.backend/internal/domain/entities"
	domainerrors "aura-creatures.backend/internal/domain/errors"
	"aura-creatures.backend/pkg/traits"
	"aura-creatures.backend/pkg/utils"

	"aura-creatures.backend/internal/infrastructure/models"
)

// TokenRecordRepository implements token record data operations over gorm
type TokenRecordRepository struct {
	db *gorm.DB
}

// NewTokenRecordRepository creates a new token record repository
func NewTokenRecordRepository(db *gorm.DB) *TokenRecordRepository {
	return &TokenRecordRepository{db: db}
}

// GetByOwner gets the record for a wallet address (case-insensitive)
func (r *TokenRecordRepository) GetByOwner(ctx context.Context, ownerAddress string) (*entities.TokenRecord, error) {
	var m models.TokenRecord
	owner := strings.ToLower(ownerAddress)
	if err := r.db.WithContext(ctx).Where("owner_address = ?", owner).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m)
}

// CreateIfAbsent inserts the record unless its owner already has one. The
// owner_address unique index plus ON CONFLICT DO NOTHING makes the insert
// conditional at the storage layer, closing the read-then-insert race.
func (r *TokenRecordRepository) CreateIfAbsent(ctx context.Context, record *entities.TokenRecord) (bool, error) {
	m, err := r.toModel(record)
	if err != nil {
		return false, err
	}
	if m.ID == uuid.Nil {
		m.ID = utils.GenerateUUIDv7()
	}
	m.OwnerAddress = strings.ToLower(m.OwnerAddress)

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_address"}},
		DoNothing: true,
	}).Create(m)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	record.ID = m.ID
	return true, nil
}

// UpdateTokenID records the on-chain token id for an owner after mint
func (r *TokenRecordRepository) UpdateTokenID(ctx context.Context, ownerAddress string, tokenID int64) error {
	owner := strings.ToLower(ownerAddress)
	result := r.db.WithContext(ctx).Model(&models.TokenRecord{}).
		Where("owner_address = ?", owner).
		Updates(map[string]interface{}{
			"token_id":  tokenID,
			"minted_at": null.TimeFrom(time.Now()),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *TokenRecordRepository) toEntity(m *models.TokenRecord) (*entities.TokenRecord, error) {
	var ts traits.TraitSet
	if err := json.Unmarshal([]byte(m.Traits), &ts); err != nil {
		return nil, err
	}
	return &entities.TokenRecord{
		ID:           m.ID,
		OwnerAddress: m.OwnerAddress,
		Seed:         m.Seed,
		Traits:       ts,
		ImageURI:     m.ImageURI,
		MetadataURI:  m.MetadataURI,
		TokenID:      m.TokenID,
		MintedAt:     m.MintedAt,
		CreatedAt:    m.CreatedAt,
	}, nil
}

func (r *TokenRecordRepository) toModel(e *entities.TokenRecord) (*models.TokenRecord, error) {
	encoded, err := json.Marshal(e.Traits)
	if err != nil {
		return nil, err
	}
	return &models.TokenRecord{
		ID:           e.ID,
		OwnerAddress: e.OwnerAddress,
		Seed:         e.Seed,
		Traits:       string(encoded),
		ImageURI:     e.ImageURI,
		MetadataURI:  e.MetadataURI,
		TokenID:      e.TokenID,
		MintedAt:     e.MintedAt,
		CreatedAt:    e.CreatedAt,
	}, nil
}
