package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domainerrors "aura-creatures.backend/internal/domain/errors"
	"aura-creatures.backend/pkg/traits"
)

// Client calls the paid image generation backend. The backend meters usage
// per account and answers 402 when the balance is exhausted.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Seed   string `json:"seed"`
	Model  string `json:"model,omitempty"`
}

// NewClient creates an image generation client.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Generate renders the creature described by the trait set and returns the
// PNG bytes. A 402 from the backend surfaces as ErrPaymentRequired so callers
// can relay the remediation to the client.
func (c *Client) Generate(ctx context.Context, set traits.TraitSet, seed, theme string) ([]byte, error) {
	body, err := json.Marshal(generateRequest{
		Prompt: traits.BuildPrompt(set, theme),
		Seed:   seed,
		Model:  c.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image backend request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusPaymentRequired:
		return nil, fmt.Errorf("image backend balance exhausted: %s: %w", string(respBody), domainerrors.ErrPaymentRequired)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("image backend returned %d: %s", resp.StatusCode, string(respBody))
	}

	if len(respBody) == 0 {
		return nil, fmt.Errorf("image backend returned an empty image")
	}
	return respBody, nil
}
