package repositories

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"aura-creatures.backend/internal/domain/entities"
	domainerrors "aura-creatures.backend/internal/domain/errors"
	"aura-creatures.backend/internal/infrastructure/models"
	"aura-creatures.backend/pkg/traits"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_busy_timeout=5000", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.AutoMigrate(&models.TokenRecord{}))
	return db
}

func sampleRecord(owner string) *entities.TokenRecord {
	return &entities.TokenRecord{
		OwnerAddress: owner,
		Seed:         "cc91bbb35fed142c",
		Traits: traits.TraitSet{
			Color: "Yellow", Eyes: "Happy", Mouth: "Whistle", Background: "City",
		},
		ImageURI:    "ipfs://QmImage",
		MetadataURI: "ipfs://QmMeta",
	}
}

func TestCreateIfAbsentAndGetByOwner(t *testing.T) {
	repo := NewTokenRecordRepository(newTestDB(t))
	ctx := context.Background()

	inserted, err := repo.CreateIfAbsent(ctx, sampleRecord("0xAbCd000000000000000000000000000000000001"))
	require.NoError(t, err)
	assert.True(t, inserted)

	// Lookup is case-insensitive; stored owner is lowercase.
	got, err := repo.GetByOwner(ctx, "0xABCD000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, "0xabcd000000000000000000000000000000000001", got.OwnerAddress)
	assert.Equal(t, "cc91bbb35fed142c", got.Seed)
	assert.Equal(t, "Yellow", got.Traits.Color)
	assert.Equal(t, "ipfs://QmImage", got.ImageURI)
	assert.Equal(t, int64(0), got.TokenID)
	assert.False(t, got.Minted())
}

func TestGetByOwnerNotFound(t *testing.T) {
	repo := NewTokenRecordRepository(newTestDB(t))
	_, err := repo.GetByOwner(context.Background(), "0x0000000000000000000000000000000000000099")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestCreateIfAbsentSecondInsertIsNoop(t *testing.T) {
	repo := NewTokenRecordRepository(newTestDB(t))
	ctx := context.Background()
	owner := "0xabcd000000000000000000000000000000000002"

	inserted, err := repo.CreateIfAbsent(ctx, sampleRecord(owner))
	require.NoError(t, err)
	require.True(t, inserted)

	loser := sampleRecord(owner)
	loser.ImageURI = "ipfs://QmLoser"
	inserted, err = repo.CreateIfAbsent(ctx, loser)
	require.NoError(t, err)
	assert.False(t, inserted)

	// Winner's artifacts survive.
	got, err := repo.GetByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://QmImage", got.ImageURI)
}

func TestCreateIfAbsentConcurrentSingleRecord(t *testing.T) {
	repo := NewTokenRecordRepository(newTestDB(t))
	ctx := context.Background()
	owner := "0xabcd000000000000000000000000000000000003"

	const racers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	inserts := 0
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := repo.CreateIfAbsent(ctx, sampleRecord(owner))
			if err == nil && inserted {
				mu.Lock()
				inserts++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, inserts, "exactly one racer persists a record")

	got, err := repo.GetByOwner(ctx, owner)
	require.NoError(t, err)
	assert.NotEmpty(t, got.ImageURI)
}

func TestUpdateTokenID(t *testing.T) {
	repo := NewTokenRecordRepository(newTestDB(t))
	ctx := context.Background()
	owner := "0xabcd000000000000000000000000000000000004"

	_, err := repo.CreateIfAbsent(ctx, sampleRecord(owner))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateTokenID(ctx, owner, 42))

	got, err := repo.GetByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.TokenID)
	assert.True(t, got.Minted())
	assert.True(t, got.MintedAt.Valid)
}

func TestUpdateTokenIDMissingOwner(t *testing.T) {
	repo := NewTokenRecordRepository(newTestDB(t))
	err := repo.UpdateTokenID(context.Background(), "0x0000000000000000000000000000000000000099", 7)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
