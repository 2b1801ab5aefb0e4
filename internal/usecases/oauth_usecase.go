package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aura-creatures.backend/internal/domain/entities"
	domainerrors "aura-creatures.backend/internal/domain/errors"
	"aura-creatures.backend/pkg/jwt"
	"aura-creatures.backend/pkg/kv"
)

const (
	pkcePrefix = "pkce:"
	pkceTTL    = 10 * time.Minute
)

// OAuthProvider drives the identity provider's authorization-code flow.
type OAuthProvider interface {
	AuthorizationURL() (authURL, state, verifier string, err error)
	ExchangeCode(ctx context.Context, code, verifier string) (string, error)
	FetchProfile(ctx context.Context, accessToken string) (*entities.IdentityProfile, error)
}

// AuthorizationIntent is a started OAuth flow: the consent URL plus the state
// token the callback must echo.
type AuthorizationIntent struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// SessionGrant is a completed OAuth flow: the verified profile and a session
// token for subsequent requests.
type SessionGrant struct {
	User         *entities.IdentityProfile `json:"user"`
	SessionToken string                    `json:"sessionToken"`
}

// OAuthUsecase runs the login flow against an external identity provider.
// PKCE verifiers are held in the KV store between the two legs; they are
// single-use and expire after ten minutes.
type OAuthUsecase struct {
	provider OAuthProvider
	store    kv.Store
	sessions *jwt.SessionService
}

// NewOAuthUsecase creates a new oauth usecase
func NewOAuthUsecase(provider OAuthProvider, store kv.Store, sessions *jwt.SessionService) *OAuthUsecase {
	return &OAuthUsecase{
		provider: provider,
		store:    store,
		sessions: sessions,
	}
}

// BeginAuthorization starts the flow. Unlike rate limiting, verifier storage
// is correctness-critical: without it the callback leg cannot complete, so a
// store failure fails the request.
func (u *OAuthUsecase) BeginAuthorization(ctx context.Context) (*AuthorizationIntent, error) {
	authURL, state, verifier, err := u.provider.AuthorizationURL()
	if err != nil {
		return nil, domainerrors.InternalError(fmt.Errorf("failed to build authorization url: %w", err))
	}

	if err := u.store.SetEx(ctx, pkcePrefix+state, verifier, pkceTTL); err != nil {
		return nil, domainerrors.InternalError(fmt.Errorf("failed to store pkce verifier: %w", err))
	}

	return &AuthorizationIntent{URL: authURL, State: state}, nil
}

// CompleteAuthorization finishes the flow with the provider's callback
// parameters and issues a session token.
func (u *OAuthUsecase) CompleteAuthorization(ctx context.Context, code, state string) (*SessionGrant, error) {
	if code == "" || state == "" {
		return nil, domainerrors.BadRequest("MISSING_CALLBACK_PARAMS", "code and state are required")
	}

	verifier, err := u.store.Get(ctx, pkcePrefix+state)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, domainerrors.BadRequest("INVALID_STATE", "unknown or expired state token")
		}
		return nil, domainerrors.InternalError(fmt.Errorf("failed to load pkce verifier: %w", err))
	}
	// One-shot: a replayed callback must not reuse the verifier.
	_ = u.store.Del(ctx, pkcePrefix+state)

	accessToken, err := u.provider.ExchangeCode(ctx, code, verifier)
	if err != nil {
		return nil, domainerrors.BadRequest("TOKEN_EXCHANGE_FAILED", "authorization code rejected by provider")
	}

	profile, err := u.provider.FetchProfile(ctx, accessToken)
	if err != nil {
		return nil, domainerrors.InternalError(fmt.Errorf("failed to fetch identity profile: %w", err))
	}

	sessionToken, err := u.sessions.IssueSession(profile.UserID, profile.Username)
	if err != nil {
		return nil, domainerrors.InternalError(fmt.Errorf("failed to issue session: %w", err))
	}

	return &SessionGrant{User: profile, SessionToken: sessionToken}, nil
}
