package usecases

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"aura-creatures.backend/internal/domain/entities"
	domainerrors "aura-creatures.backend/internal/domain/errors"
	"aura-creatures.backend/internal/domain/repositories"
	"aura-creatures.backend/pkg/kv"
	"aura-creatures.backend/pkg/logger"
	"aura-creatures.backend/pkg/traits"
)

const generateLockTTL = 60 * time.Second

// ImageGenerator renders a creature image from its trait set.
type ImageGenerator interface {
	Generate(ctx context.Context, set traits.TraitSet, seed, theme string) ([]byte, error)
}

// ContentPinner pins content to permanent storage and resolves preview URLs.
type ContentPinner interface {
	PinFile(ctx context.Context, data []byte, filename string) (string, error)
	PinJSON(ctx context.Context, doc any) (string, error)
	GatewayURL(uri string) string
}

// GenerateUsecase orchestrates creature generation: derive traits, render,
// pin, persist. One creature per wallet; the unique index behind
// CreateIfAbsent is the authoritative guard, the lock only saves work.
type GenerateUsecase struct {
	recordRepo repositories.TokenRecordRepository
	imageGen   ImageGenerator
	pinner     ContentPinner
	limiter    *kv.Limiter
	locker     *kv.Locker

	theme        string
	modelVersion string
	rateLimit    int64
	rateWindow   time.Duration
}

// NewGenerateUsecase creates a new generate usecase
func NewGenerateUsecase(
	recordRepo repositories.TokenRecordRepository,
	imageGen ImageGenerator,
	pinner ContentPinner,
	limiter *kv.Limiter,
	locker *kv.Locker,
	theme string,
	modelVersion string,
	rateLimit int64,
	rateWindow time.Duration,
) *GenerateUsecase {
	if theme == "" {
		theme = "frog"
	}
	return &GenerateUsecase{
		recordRepo:   recordRepo,
		imageGen:     imageGen,
		pinner:       pinner,
		limiter:      limiter,
		locker:       locker,
		theme:        theme,
		modelVersion: modelVersion,
		rateLimit:    rateLimit,
		rateWindow:   rateWindow,
	}
}

// Generate produces (or returns the already-produced) creature for a wallet.
func (u *GenerateUsecase) Generate(ctx context.Context, walletAddress string) (*entities.GenerationResult, error) {
	if !isWalletAddress(walletAddress) {
		return nil, domainerrors.BadRequest("INVALID_ADDRESS", "invalid wallet address format")
	}
	owner := strings.ToLower(walletAddress)

	// Rate limiting is best-effort: a broken store must not block generation.
	allowed, err := u.limiter.Allow(ctx, "ratelimit:generate:"+owner, u.rateLimit, u.rateWindow)
	if err != nil {
		logger.Warn(ctx, "rate limit check failed, allowing request", zap.Error(err))
	} else if !allowed {
		return nil, domainerrors.RateLimited("too many generation requests, try again later")
	}

	lockKey := "generate:" + owner
	acquired, err := u.locker.Acquire(ctx, lockKey, generateLockTTL)
	switch {
	case err != nil:
		logger.Warn(ctx, "lock acquisition failed, continuing without lock", zap.Error(err))
	case !acquired:
		// Another generation holds the lock. If it already finished, hand
		// out its result; otherwise tell the caller to retry.
		if record, err := u.recordRepo.GetByOwner(ctx, owner); err == nil && record.ImageURI != "" {
			return u.existingResult(record), nil
		}
		return nil, domainerrors.NewAppError(409, "GENERATION_IN_FLIGHT",
			"generation already in progress for this wallet", domainerrors.ErrGenerationInFlight)
	}
	defer func() {
		if err := u.locker.Release(context.WithoutCancel(ctx), lockKey); err != nil {
			logger.Warn(ctx, "failed to release generation lock", zap.Error(err))
		}
	}()

	if record, err := u.recordRepo.GetByOwner(ctx, owner); err == nil && record.ImageURI != "" {
		return u.existingResult(record), nil
	}

	seed, err := traits.DeriveSeed(owner)
	if err != nil {
		return nil, domainerrors.InternalError(fmt.Errorf("failed to derive seed: %w", err))
	}
	set, err := traits.DeriveTraits(seed)
	if err != nil {
		return nil, domainerrors.InternalError(fmt.Errorf("failed to derive traits: %w", err))
	}

	image, err := u.imageGen.Generate(ctx, set, seed, u.theme)
	if err != nil {
		if errors.Is(err, domainerrors.ErrPaymentRequired) {
			return nil, domainerrors.PaymentRequired("PAYMENT_REQUIRED",
				"image generation account needs funding, add balance and retry")
		}
		return nil, domainerrors.InternalError(fmt.Errorf("image generation failed: %w", err))
	}

	imageURI, err := u.pinner.PinFile(ctx, image, owner+".png")
	if err != nil {
		return nil, domainerrors.NewAppError(500, "STORAGE_FAILED",
			"failed to store generated image", fmt.Errorf("%w: %w", domainerrors.ErrStorage, err))
	}

	metadata := map[string]any{
		"name":        traits.CreatureName(owner, set),
		"description": fmt.Sprintf("AI-generated Aura Creature for wallet %s", owner),
		"image":       imageURI,
		"attributes":  set.Attributes(),
		"seed":        seed,
		"theme":       u.theme,
		"version":     u.modelVersion,
	}
	metadataURI, err := u.pinner.PinJSON(ctx, metadata)
	if err != nil {
		return nil, domainerrors.NewAppError(500, "STORAGE_FAILED",
			"failed to store creature metadata", fmt.Errorf("%w: %w", domainerrors.ErrStorage, err))
	}

	record := &entities.TokenRecord{
		OwnerAddress: owner,
		Seed:         seed,
		Traits:       set,
		ImageURI:     imageURI,
		MetadataURI:  metadataURI,
	}
	inserted, err := u.recordRepo.CreateIfAbsent(ctx, record)
	if err != nil {
		// The image is pinned but the record is not persisted; a retry will
		// regenerate and spend again, so make this loud.
		logger.Warn(ctx, "failed to persist token record, duplicate generation possible",
			zap.String("owner", owner), zap.Error(err))
	} else if !inserted {
		// Lost the race: a concurrent generation persisted first. Its
		// artifacts are the canonical ones.
		if winner, err := u.recordRepo.GetByOwner(ctx, owner); err == nil {
			return u.existingResult(winner), nil
		}
	}

	return &entities.GenerationResult{
		Seed:        seed,
		Traits:      set,
		ImageURI:    imageURI,
		MetadataURI: metadataURI,
		Preview:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(image),
	}, nil
}

func (u *GenerateUsecase) existingResult(record *entities.TokenRecord) *entities.GenerationResult {
	return &entities.GenerationResult{
		Seed:        record.Seed,
		Traits:      record.Traits,
		ImageURI:    record.ImageURI,
		MetadataURI: record.MetadataURI,
		Preview:     u.pinner.GatewayURL(record.ImageURI),
		Existing:    true,
	}
}

func isWalletAddress(addr string) bool {
	return strings.HasPrefix(addr, "0x") && common.IsHexAddress(addr)
}
