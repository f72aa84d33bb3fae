package aiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOllamaClient_Complete(t *testing.T) {
	var sent map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3","created_at":"2026-01-01T00:00:00Z","message":{"role":"assistant","content":"{\"tone\":\"grim\"}"},"done":true,"prompt_eval_count":40,"eval_count":12}` + "\n"))
	}))
	defer srv.Close()

	c, err := NewOllamaClient(Config{BaseURL: srv.URL + "/v1/", Timeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)

	resp, err := c.Complete(context.Background(), Request{Model: "llama3", System: "s", User: "u", MaxTokens: 64, Temperature: 0.4, JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"tone":"grim"}`, resp.Content)
	require.NotNil(t, resp.Usage.TotalTokens)
	assert.Equal(t, 52, *resp.Usage.TotalTokens)

	assert.Equal(t, "json", sent["format"])
	assert.Equal(t, false, sent["stream"])
	options, ok := sent["options"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 64, options["num_predict"])
}

func TestOllamaClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"model not loaded"}`))
	}))
	defer srv.Close()

	c, err := NewOllamaClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), Request{Model: "llama3", System: "s", User: "u"})
	assert.ErrorIs(t, err, ErrCompletionFailed)
}
