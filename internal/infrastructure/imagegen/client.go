// Package imagegen derives a header image for a post via an
// OpenAI-compatible image-generation API.
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"newsroom/internal/config"
	"newsroom/internal/ports"
)

// Client talks to an image-generation endpoint.
type Client struct {
	endpoint string
	apiKey   string
	size     string
	http     *http.Client
}

var _ ports.ImageGenerator = (*Client)(nil)

// NewClient creates a reusable HTTP client from configuration.
func NewClient(cfg config.ImageConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		size:     cfg.Size,
		http:     &http.Client{Timeout: timeout},
	}
}

type imageRequest struct {
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality,omitempty"`
	Style   string `json:"style,omitempty"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Generate requests one image and returns its hosted URL.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" || c.endpoint == "" {
		return "", fmt.Errorf("image client misconfigured")
	}

	body, err := json.Marshal(imageRequest{
		Prompt:  prompt,
		N:       1,
		Size:    c.size,
		Quality: "standard",
		Style:   "natural",
	})
	if err != nil {
		return "", fmt.Errorf("marshal image payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image api returned %s", resp.Status)
	}

	var parsed imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Data) == 0 || parsed.Data[0].URL == "" {
		return "", fmt.Errorf("empty image response")
	}

	return parsed.Data[0].URL, nil
}

// PlaceholderURL builds the fallback image used when generation fails.
func PlaceholderURL(title string) string {
	return "https://placehold.co/1200x630/1a1a2e/ffffff?text=" + url.QueryEscape(title)
}
