package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aura-creatures.backend/internal/domain/entities"
	"aura-creatures.backend/pkg/crypto"
)

const (
	defaultAuthorizeURL = "https://twitter.com/i/oauth2/authorize"
	defaultAPIBaseURL   = "https://api.twitter.com/2"

	// users.read gives access to the profile; offline.access asks for a
	// refresh token.
	oauthScope = "users.read offline.access"
)

// XClient drives the X (Twitter) OAuth 2.0 authorization-code flow with
// S256 PKCE and fetches the authenticated user's profile.
type XClient struct {
	clientID     string
	clientSecret string
	callbackURL  string
	authorizeURL string
	apiBaseURL   string
	httpClient   *http.Client
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	Data struct {
		ID              string `json:"id"`
		Username        string `json:"username"`
		ProfileImageURL string `json:"profile_image_url"`
		Description     string `json:"description"`
	} `json:"data"`
}

// NewXClient creates an OAuth client for the X API.
func NewXClient(clientID, clientSecret, callbackURL string) *XClient {
	return &XClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		callbackURL:  strings.TrimRight(callbackURL, "/"),
		authorizeURL: defaultAuthorizeURL,
		apiBaseURL:   defaultAPIBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AuthorizationURL builds the consent-screen URL with a fresh state token and
// S256 PKCE challenge. The caller must stash the verifier keyed by state and
// supply it again to ExchangeCode.
func (c *XClient) AuthorizationURL() (authURL, state, verifier string, err error) {
	state, err = crypto.GenerateStateToken()
	if err != nil {
		return "", "", "", fmt.Errorf("failed to generate state: %w", err)
	}
	verifier, err = crypto.GeneratePKCEVerifier()
	if err != nil {
		return "", "", "", fmt.Errorf("failed to generate verifier: %w", err)
	}

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", c.callbackURL)
	params.Set("scope", oauthScope)
	params.Set("state", state)
	params.Set("code_challenge", crypto.PKCEChallenge(verifier))
	params.Set("code_challenge_method", "S256")

	return c.authorizeURL + "?" + params.Encode(), state, verifier, nil
}

// ExchangeCode trades an authorization code plus PKCE verifier for an access
// token. The token endpoint authenticates the app with HTTP Basic.
func (c *XClient) ExchangeCode(ctx context.Context, code, verifier string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", c.clientID)
	form.Set("redirect_uri", c.callbackURL)
	form.Set("code_verifier", verifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBaseURL+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var token tokenResponse
	if err := json.Unmarshal(respBody, &token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}
	return token.AccessToken, nil
}

// FetchProfile retrieves the authenticated user's profile.
func (c *XClient) FetchProfile(ctx context.Context, accessToken string) (*entities.IdentityProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+"/users/me?user.fields=profile_image_url,description", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile fetch failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var user userResponse
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}
	if user.Data.ID == "" {
		return nil, fmt.Errorf("profile response missing user id")
	}

	return &entities.IdentityProfile{
		UserID:          user.Data.ID,
		Username:        user.Data.Username,
		ProfileImageURL: user.Data.ProfileImageURL,
		Bio:             user.Data.Description,
	}, nil
}
