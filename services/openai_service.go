package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// OpenAIGenerator calls the OpenAI Responses API.
type OpenAIGenerator struct {
	client *resty.Client
	model  string
}

// NewOpenAIGenerator builds a client for baseURL (https://api.openai.com when empty).
func NewOpenAIGenerator(baseURL, apiKey, model string, timeout time.Duration) *OpenAIGenerator {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(apiKey).
		SetTimeout(timeout)
	return &OpenAIGenerator{client: c, model: model}
}

type responsesRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type responsesResponse struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// text joins every output_text part of the response.
func (r *responsesResponse) text() string {
	if r.OutputText != "" {
		return r.OutputText
	}
	var sb strings.Builder
	for _, item := range r.Output {
		for _, c := range item.Content {
			if c.Type == "output_text" {
				sb.WriteString(c.Text)
			}
		}
	}
	return sb.String()
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var out responsesResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(&responsesRequest{Model: g.model, Input: prompt}).
		SetResult(&out).
		SetError(&out).
		Post("/v1/responses")
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		msg := resp.String()
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("openai responses status %d: %s", resp.StatusCode(), msg)
	}
	return out.text(), nil
}
