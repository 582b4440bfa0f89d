package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// DefaultOllamaURL is the local Ollama server address.
const DefaultOllamaURL = "http://localhost:11434"

// OllamaOptions configures an OllamaCompleter.
type OllamaOptions struct {
	ServerURL   string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// OllamaCompleter generates questions with a local model through langchaingo.
type OllamaCompleter struct {
	llm         *ollama.LLM
	temperature float64
	maxTokens   int
}

var _ Completer = (*OllamaCompleter)(nil)

// NewOllamaCompleter builds the langchaingo client. No request is made here.
func NewOllamaCompleter(opts OllamaOptions) (*OllamaCompleter, error) {
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}
	serverURL := opts.ServerURL
	if serverURL == "" {
		serverURL = DefaultOllamaURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	llm, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(opts.Model),
		ollama.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return &OllamaCompleter{llm: llm, temperature: opts.Temperature, maxTokens: maxTokens}, nil
}

func (o *OllamaCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	response, err := o.llm.Call(ctx, prompt,
		llms.WithTemperature(o.temperature),
		llms.WithMaxTokens(o.maxTokens),
	)
	if err != nil {
		return "", newNetworkError("ollama call failed", err)
	}
	return response, nil
}
