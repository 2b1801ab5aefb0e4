package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

var randomRead = rand.Read

// GeneratePKCEVerifier generates a random PKCE code verifier (43 URL-safe
// characters, per RFC 7636).
func GeneratePKCEVerifier() (string, error) {
	bytes := make([]byte, 32)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate PKCE verifier: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// PKCEChallenge computes the S256 code challenge for a verifier.
func PKCEChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// GenerateStateToken generates a random OAuth state token (32 hex characters).
func GenerateStateToken() (string, error) {
	bytes := make([]byte, 16)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
