package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client fetches the model catalog from an OpenRouter-compatible API.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewClient constructs a Client with sane defaults.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api"
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// wire format of the upstream /v1/models response.
type modelsResponse struct {
	Data []wireModel `json:"data"`
}

type wireModel struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length"`
	Architecture  struct {
		InputModalities []string `json:"input_modalities"`
	} `json:"architecture"`
	TopProvider struct {
		ContextLength int `json:"context_length"`
	} `json:"top_provider"`
	Pricing struct {
		Prompt     string `json:"prompt"`
		Completion string `json:"completion"`
	} `json:"pricing"`
	SupportedParameters []string `json:"supported_parameters"`
}

// List fetches the full catalog and reduces it to free ModelEntry rows.
func (c *Client) List(ctx context.Context) ([]ModelEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("catalog: status %d: %s", res.StatusCode, strings.TrimSpace(string(b)))
	}

	var resp modelsResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	var entries []ModelEntry
	for _, m := range resp.Data {
		e := toEntry(m)
		if e.Free {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// toEntry reduces one wire model to the ranking fields.
func toEntry(m wireModel) ModelEntry {
	ctx := m.TopProvider.ContextLength
	if ctx == 0 {
		ctx = m.ContextLength
	}

	vision := false
	for _, mod := range m.Architecture.InputModalities {
		if mod == "image" {
			vision = true
			break
		}
	}

	tools := false
	for _, p := range m.SupportedParameters {
		if p == "tools" || p == "tool_choice" {
			tools = true
			break
		}
	}

	return ModelEntry{
		ID:            m.ID,
		Name:          m.Name,
		ContextLength: ctx,
		SupportsTools: tools,
		Vision:        vision,
		Free:          isFree(m),
	}
}

// isFree applies the catalog's free policy: zero prompt pricing or an
// explicit ":free" id variant.
func isFree(m wireModel) bool {
	if strings.Contains(m.ID, ":free") {
		return true
	}
	if m.Pricing.Prompt == "" {
		return false
	}
	cost, err := strconv.ParseFloat(m.Pricing.Prompt, 64)
	return err == nil && cost == 0
}
