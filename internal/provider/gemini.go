package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Gemini defaults.
const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-pro"
	DefaultTemperature   = 0.7
	DefaultMaxTokens     = 1024
	DefaultTimeout       = 30 * time.Second
)

// GeminiOptions configures a GeminiClient.
type GeminiOptions struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// GeminiClient calls the generateContent REST endpoint.
type GeminiClient struct {
	client      *http.Client
	endpoint    string
	apiKey      string
	temperature float64
	maxTokens   int
}

var _ Completer = (*GeminiClient)(nil)

// NewGeminiClient validates opts and builds a client.
func NewGeminiClient(opts GeminiOptions) (*GeminiClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("gemini model name cannot be empty")
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultGeminiBaseURL
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &GeminiClient{
		client:      client,
		endpoint:    fmt.Sprintf("%s/models/%s:generateContent", base, url.PathEscape(opts.Model)),
		apiKey:      opts.APIKey,
		temperature: opts.Temperature,
		maxTokens:   maxTokens,
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Complete sends prompt and returns the first candidate's text.
func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     g.temperature,
			MaxOutputTokens: g.maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := g.endpoint + "?key=" + url.QueryEscape(g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", newNetworkError("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", newNetworkError("generation request failed", redactKey(err, g.apiKey))
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort close of response body.
			_ = cerr
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", newNetworkError("failed to read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newNetworkError(fmt.Sprintf("unexpected status %d", resp.StatusCode), fmt.Errorf("%s", snippet(data)))
	}

	var decoded generateResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", newMalformedError("failed to decode generation response", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", newMalformedError("response has no candidate text", nil)
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

// redactKey keeps the API key out of logged transport errors, which embed the URL.
func redactKey(err error, key string) error {
	escaped := url.QueryEscape(key)
	if key == "" || !strings.Contains(err.Error(), escaped) {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), escaped, "REDACTED"))
}

func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
