package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewGeminiClient(GeminiOptions{
		APIKey:      "test-key",
		Model:       DefaultGeminiModel,
		BaseURL:     srv.URL + "/v1beta",
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	})
	require.NoError(t, err)
	return client
}

func candidateBody(text string) string {
	body, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	return string(body)
}

func TestNewGeminiClientValidation(t *testing.T) {
	_, err := NewGeminiClient(GeminiOptions{Model: DefaultGeminiModel})
	assert.Error(t, err)

	_, err = NewGeminiClient(GeminiOptions{APIKey: "k", Model: "  "})
	assert.Error(t, err)

	client, err := NewGeminiClient(GeminiOptions{APIKey: "k", Model: DefaultGeminiModel})
	require.NoError(t, err)
	assert.Equal(t, DefaultGeminiBaseURL+"/models/gemini-pro:generateContent", client.endpoint)
	assert.Equal(t, DefaultMaxTokens, client.maxTokens)
}

func TestGeminiCompleteSendsRequest(t *testing.T) {
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-pro:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req generateRequest
		require.NoError(t, json.Unmarshal(data, &req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 1)
		assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)
		assert.InDelta(t, 0.7, req.GenerationConfig.Temperature, 1e-9)
		assert.Equal(t, 1024, req.GenerationConfig.MaxOutputTokens)

		_, _ = io.WriteString(w, candidateBody("world"))
	})

	text, err := client.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "world", text)
}

func TestGeminiCompleteErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: ErrNetwork},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":"bad key"}`, wantErr: ErrNetwork},
		{name: "not json", status: http.StatusOK, body: "<html>", wantErr: ErrMalformedResponse},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`, wantErr: ErrMalformedResponse},
		{name: "no parts", status: http.StatusOK, body: `{"candidates":[{"content":{"parts":[]}}]}`, wantErr: ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestGemini(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := client.Complete(context.Background(), "prompt")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestGeminiCompleteTransportFailureHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client, err := NewGeminiClient(GeminiOptions{APIKey: "secret-key", Model: "m", BaseURL: base})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.NotContains(t, err.Error(), "secret-key")
}
