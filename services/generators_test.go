package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIGenerator(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/responses", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output":[{"type":"message","content":[{"type":"output_text","text":"350"}]}]}`))
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator(srv.URL, "sk-test", "gpt-5-mini", 5*time.Second)
	text, err := gen.Generate(context.Background(), "quantas calorias?")
	require.NoError(t, err)
	assert.Equal(t, "350", text)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-5-mini", gotBody["model"])
	assert.Equal(t, "quantas calorias?", gotBody["input"])
}

func TestOpenAIGenerator_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIGenerator(srv.URL, "k", "m", time.Second).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestOllamaGenerator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		var body generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.False(t, body.Stream)
		assert.Equal(t, "llama3", body.Model)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":" 420 ","done":true}`))
	}))
	defer srv.Close()

	text, err := NewOllamaGenerator(srv.URL, "llama3", time.Second).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, " 420 ", text)
}

func TestOllamaGenerator_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	svc := NewEstimatorService(NewOllamaGenerator(url, "llama3", time.Second), zerolog.Nop())
	_, err := svc.Estimate(context.Background(), "arroz")
	assert.ErrorIs(t, err, ErrEstimatorUnavailable)
}
