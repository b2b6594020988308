package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// OllamaGenerator calls a local Ollama /api/generate endpoint.
type OllamaGenerator struct {
	client *resty.Client
	model  string
}

// NewOllamaGenerator falls back to http://localhost:11434 when base is empty.
func NewOllamaGenerator(base, model string, timeout time.Duration) *OllamaGenerator {
	if base == "" {
		base = "http://localhost:11434"
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(base, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &OllamaGenerator{client: c, model: model}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var out generateResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(&generateRequest{Model: g.model, Prompt: prompt}).
		SetResult(&out).
		SetError(&out).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("ollama generate status %d: %s", resp.StatusCode(), resp.String())
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama generate error: %s", out.Error)
	}
	return out.Response, nil
}
