// Package metadata pins token metadata documents to IPFS through Pinata.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ttma1046/launchmeow/core"
)

const defaultPinataURL = "https://api.pinata.cloud"

// Pinner uploads token metadata and returns its IPFS URI.
type Pinner interface {
	PinTokenMetadata(ctx context.Context, md core.TokenMetadata) (string, error)
}

// PinataClient pins JSON documents via Pinata's pinning API.
type PinataClient struct {
	baseURL string
	jwt     string
	http    *http.Client
}

func NewPinataClient(jwt string) *PinataClient {
	return NewPinataClientWithURL(defaultPinataURL, jwt)
}

func NewPinataClientWithURL(baseURL, jwt string) *PinataClient {
	return &PinataClient{
		baseURL: baseURL,
		jwt:     jwt,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type pinRequest struct {
	PinataContent  interface{}       `json:"pinataContent"`
	PinataMetadata map[string]string `json:"pinataMetadata"`
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// PinTokenMetadata pins the metadata document and returns an ipfs:// URI.
func (c *PinataClient) PinTokenMetadata(ctx context.Context, md core.TokenMetadata) (string, error) {
	payload, err := json.Marshal(pinRequest{
		PinataContent:  md,
		PinataMetadata: map[string]string{"name": md.Symbol + ".json"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal pin request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/pinning/pinJSONToIPFS", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.jwt)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("pinata request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pinata returned %d: %s", resp.StatusCode, body)
	}

	var parsed pinResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode pinata response: %w", err)
	}
	if parsed.IpfsHash == "" {
		return "", fmt.Errorf("pinata response missing IpfsHash")
	}
	return "ipfs://" + parsed.IpfsHash, nil
}
