package usecases

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"aura-creatures.backend/internal/domain/entities"
	domainerrors "aura-creatures.backend/internal/domain/errors"
	"aura-creatures.backend/internal/domain/repositories"
	"aura-creatures.backend/pkg/kv"
	"aura-creatures.backend/pkg/logger"
)

const permitValidity = time.Hour

// permitNow is indirected for deadline tests.
var permitNow = time.Now

// ContractReader reads mint eligibility state from the creature contract.
type ContractReader interface {
	GetNonce(ctx context.Context, wallet string) (uint64, error)
	TotalSupply(ctx context.Context) (*big.Int, error)
	MaxSupply(ctx context.Context) (*big.Int, error)
	AlreadyMinted(ctx context.Context, wallet string) (bool, error)
}

// PermitSigner signs mint authorizations with the collection authority key.
type PermitSigner interface {
	Sign(auth entities.MintAuthorization) (string, error)
	Address() string
}

// MintPermitUsecase issues signed mint authorizations. Chain state is read
// fresh on every request; eligibility is never cached.
type MintPermitUsecase struct {
	recordRepo repositories.TokenRecordRepository
	contract   ContractReader
	signer     PermitSigner
	limiter    *kv.Limiter

	rateLimit  int64
	rateWindow time.Duration
}

// NewMintPermitUsecase creates a new mint permit usecase
func NewMintPermitUsecase(
	recordRepo repositories.TokenRecordRepository,
	contract ContractReader,
	signer PermitSigner,
	limiter *kv.Limiter,
	rateLimit int64,
	rateWindow time.Duration,
) *MintPermitUsecase {
	return &MintPermitUsecase{
		recordRepo: recordRepo,
		contract:   contract,
		signer:     signer,
		limiter:    limiter,
		rateLimit:  rateLimit,
		rateWindow: rateWindow,
	}
}

// IssuePermit checks mint eligibility and returns a signed authorization.
// payer is the verified payment source; it is bound into the signature so
// the permit cannot be replayed against a different payment.
func (u *MintPermitUsecase) IssuePermit(ctx context.Context, walletAddress, payer string) (*entities.MintPermit, error) {
	if !isWalletAddress(walletAddress) {
		return nil, domainerrors.BadRequest("INVALID_ADDRESS", "invalid wallet address format")
	}
	owner := strings.ToLower(walletAddress)

	allowed, err := u.limiter.Allow(ctx, "ratelimit:mint:"+owner, u.rateLimit, u.rateWindow)
	if err != nil {
		logger.Warn(ctx, "rate limit check failed, allowing request", zap.Error(err))
	} else if !allowed {
		return nil, domainerrors.RateLimited("too many mint permit requests, try again later")
	}

	minted, err := u.contract.AlreadyMinted(ctx, owner)
	if err != nil {
		return nil, contractQueryError("usedWalletId", err)
	}
	if minted {
		return nil, domainerrors.NewAppError(400, "ALREADY_MINTED",
			"wallet already minted a creature", domainerrors.ErrAlreadyMinted)
	}

	total, err := u.contract.TotalSupply(ctx)
	if err != nil {
		return nil, contractQueryError("totalSupply", err)
	}
	max, err := u.contract.MaxSupply(ctx)
	if err != nil {
		return nil, contractQueryError("MAX_SUPPLY", err)
	}
	if total.Cmp(max) >= 0 {
		return nil, domainerrors.NewAppError(400, "SUPPLY_EXHAUSTED",
			"max supply reached", domainerrors.ErrSupplyExhausted)
	}

	record, err := u.recordRepo.GetByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NewAppError(400, "NOT_GENERATED",
				"no creature generated for this wallet, generate one first", domainerrors.ErrNotGenerated)
		}
		return nil, domainerrors.InternalError(fmt.Errorf("failed to query token record: %w", err))
	}

	nonce, err := u.contract.GetNonce(ctx, owner)
	if err != nil {
		return nil, contractQueryError("getNonce", err)
	}

	auth := entities.MintAuthorization{
		To:            common.HexToAddress(walletAddress).Hex(),
		Payer:         common.HexToAddress(payer).Hex(),
		WalletAddress: owner,
		TokenURI:      record.MetadataURI,
		Nonce:         nonce,
		Deadline:      permitNow().Add(permitValidity).Unix(),
	}

	signature, err := u.signer.Sign(auth)
	if err != nil {
		return nil, domainerrors.InternalError(fmt.Errorf("failed to sign mint authorization: %w", err))
	}

	return &entities.MintPermit{Auth: auth, Signature: signature}, nil
}

func contractQueryError(method string, err error) *domainerrors.AppError {
	return domainerrors.NewAppError(500, "CONTRACT_QUERY_FAILED",
		"failed to read contract state",
		fmt.Errorf("%w: %s: %w", domainerrors.ErrContractQuery, method, err))
}
