package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultPinataURL = "https://api.pinata.cloud"

// PinataClient pins content to IPFS through the Pinata pinning API.
type PinataClient struct {
	baseURL    string
	jwt        string
	gateway    string
	httpClient *http.Client
}

type pinataResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int    `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// NewPinataClient creates a Pinata client. baseURL may be empty to use the
// public API endpoint; gateway is the HTTP gateway host used for previews.
func NewPinataClient(baseURL, jwt, gateway string) *PinataClient {
	if baseURL == "" {
		baseURL = defaultPinataURL
	}
	if gateway == "" {
		gateway = "https://gateway.pinata.cloud"
	}
	return &PinataClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		jwt:     jwt,
		gateway: strings.TrimRight(gateway, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// PinFile pins raw file bytes and returns the ipfs:// URI.
func (c *PinataClient) PinFile(ctx context.Context, data []byte, filename string) (string, error) {
	if c.jwt == "" {
		return "", fmt.Errorf("pinata jwt is not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pinning/pinFileToIPFS", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create pin request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.jwt)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.doPin(req)
}

// PinJSON pins a JSON document and returns the ipfs:// URI.
func (c *PinataClient) PinJSON(ctx context.Context, doc any) (string, error) {
	if c.jwt == "" {
		return "", fmt.Errorf("pinata jwt is not configured")
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal json document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pinning/pinJSONToIPFS", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create pin request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.jwt)
	req.Header.Set("Content-Type", "application/json")

	return c.doPin(req)
}

// GatewayURL converts an ipfs:// URI into an HTTP gateway URL. Non-ipfs URIs
// pass through unchanged.
func (c *PinataClient) GatewayURL(uri string) string {
	if hash, ok := strings.CutPrefix(uri, "ipfs://"); ok {
		return c.gateway + "/ipfs/" + hash
	}
	return uri
}

func (c *PinataClient) doPin(req *http.Request) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pinata request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read pinata response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pinata returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed pinataResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode pinata response: %w", err)
	}
	if parsed.IpfsHash == "" {
		return "", fmt.Errorf("pinata response missing hash")
	}
	return "ipfs://" + parsed.IpfsHash, nil
}
