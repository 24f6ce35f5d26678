package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const modelsPayload = `{
  "data": [
    {
      "id": "qwen/qwen3-coder:free",
      "name": "Qwen3 Coder (free)",
      "context_length": 262144,
      "architecture": {"input_modalities": ["text"]},
      "top_provider": {"context_length": 262144},
      "pricing": {"prompt": "0", "completion": "0"},
      "supported_parameters": ["tools", "tool_choice", "temperature"]
    },
    {
      "id": "qwen/qwen2.5-vl-72b-instruct",
      "name": "Qwen2.5 VL 72B",
      "context_length": 32768,
      "architecture": {"input_modalities": ["text", "image"]},
      "top_provider": {},
      "pricing": {"prompt": "0", "completion": "0"},
      "supported_parameters": ["temperature"]
    },
    {
      "id": "anthropic/claude-sonnet-4",
      "name": "Paid model",
      "context_length": 200000,
      "architecture": {"input_modalities": ["text"]},
      "top_provider": {"context_length": 200000},
      "pricing": {"prompt": "0.000003", "completion": "0.000015"},
      "supported_parameters": ["tools"]
    },
    {
      "id": "mistralai/mistral-small-3.1:free",
      "name": "Mistral Small (free)",
      "context_length": 96000,
      "architecture": {"input_modalities": ["text"]},
      "top_provider": {},
      "pricing": {"prompt": "", "completion": ""},
      "supported_parameters": []
    }
  ]
}`

func TestClientListFiltersToFreeModels(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(modelsPayload))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-or-test", time.Second)
	entries, err := c.List(context.Background())
	require.NoError(t, err)

	require.Equal(t, "Bearer sk-or-test", gotAuth)
	require.Equal(t, "/v1/models", gotPath)

	// The paid model is dropped at the client boundary.
	require.Len(t, entries, 3)

	byID := map[string]ModelEntry{}
	for _, e := range entries {
		byID[e.ID] = e
	}
	require.NotContains(t, byID, "anthropic/claude-sonnet-4")

	coder := byID["qwen/qwen3-coder:free"]
	require.True(t, coder.Free)
	require.True(t, coder.SupportsTools)
	require.False(t, coder.Vision)
	require.Equal(t, 262144, coder.ContextLength)

	// Context falls back to the model-level field when top_provider is empty.
	vl := byID["qwen/qwen2.5-vl-72b-instruct"]
	require.True(t, vl.Vision)
	require.False(t, vl.SupportsTools)
	require.Equal(t, 32768, vl.ContextLength)
}

func TestClientListNoAuthHeaderWithoutKey(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.List(context.Background())
	require.NoError(t, err)
	require.False(t, sawAuth)
}

func TestClientListErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.List(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 429")
	require.Contains(t, err.Error(), "rate limited")
}

func TestIsFree(t *testing.T) {
	free := wireModel{ID: "meta-llama/llama-3.3-70b-instruct:free"}
	require.True(t, isFree(free))

	zero := wireModel{ID: "some/model"}
	zero.Pricing.Prompt = "0"
	require.True(t, isFree(zero))

	paid := wireModel{ID: "some/model"}
	paid.Pricing.Prompt = "0.000001"
	require.False(t, isFree(paid))

	// Missing pricing without a ":free" id is not assumed free.
	require.False(t, isFree(wireModel{ID: "some/model"}))
}
