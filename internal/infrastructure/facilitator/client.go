package facilitator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aura-creatures.backend/internal/domain/entities"
)

// Client verifies x402 payment payloads against a facilitator service.
// Production facilitators authenticate via HTTP Basic credentials; the
// public testnet facilitator takes no auth.
type Client struct {
	url        string
	username   string
	password   string
	httpClient *http.Client
}

type verifyResponse struct {
	Payer     string `json:"payer"`
	Amount    string `json:"amount"`
	Asset     string `json:"asset"`
	Network   string `json:"network"`
	Recipient string `json:"recipient"`
}

// NewClient creates a facilitator client. username/password may be empty.
func NewClient(url, username, password string) *Client {
	return &Client{
		url:      strings.TrimRight(url, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Verify submits the raw X-PAYMENT header value for verification and returns
// the canonical payment proof. Any failure, malformed header included, is an
// error; callers treat errors as payment-not-verified.
func (c *Client) Verify(ctx context.Context, paymentHeader string) (*entities.PaymentProof, error) {
	var payment json.RawMessage
	if err := json.Unmarshal([]byte(paymentHeader), &payment); err != nil {
		return nil, fmt.Errorf("malformed payment header: %w", err)
	}

	body, err := json.Marshal(map[string]json.RawMessage{"payment": payment})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/verify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facilitator request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read facilitator response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facilitator verify failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var verification verifyResponse
	if err := json.Unmarshal(respBody, &verification); err != nil {
		return nil, fmt.Errorf("failed to decode facilitator response: %w", err)
	}
	if verification.Payer == "" {
		return nil, fmt.Errorf("facilitator response missing payer")
	}
	if verification.Asset == "" {
		verification.Asset = "USDC"
	}
	if verification.Network == "" {
		verification.Network = "base"
	}

	return &entities.PaymentProof{
		Payer:     verification.Payer,
		Amount:    verification.Amount,
		Asset:     verification.Asset,
		Network:   verification.Network,
		Recipient: verification.Recipient,
	}, nil
}
