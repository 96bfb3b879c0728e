package llms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/config"
)

// ============================================================================
// GEMINI PROVIDER IMPLEMENTATION
// Based on: https://ai.google.dev/api/generate-content
// ============================================================================

// GeminiProvider implements LLMProvider for the Google Gemini API.
type GeminiProvider struct {
	config     *config.LLMProviderConfig
	httpClient *http.Client
}

// GeminiRequest is the generateContent request payload.
type GeminiRequest struct {
	Contents         []GeminiContent         `json:"contents"`
	GenerationConfig *GeminiGenerationConfig `json:"generationConfig,omitempty"`
}

type GeminiGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type GeminiContent struct {
	Role  string       `json:"role"` // "user" or "model"
	Parts []GeminiPart `json:"parts"`
}

type GeminiPart struct {
	Text string `json:"text,omitempty"`
}

type GeminiResponse struct {
	Candidates    []GeminiCandidate    `json:"candidates"`
	UsageMetadata *GeminiUsageMetadata `json:"usageMetadata,omitempty"`
	Error         *GeminiError         `json:"error,omitempty"`
}

type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type GeminiUsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type GeminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewGeminiProviderFromConfig creates a new Gemini provider from configuration.
func NewGeminiProviderFromConfig(cfg *config.LLMProviderConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	return &GeminiProvider{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}, nil
}

// Complete sends the prompt as a single user turn and returns the
// concatenated text parts of the first candidate. Transport failures are
// not retried.
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	temperature := p.config.Temperature
	req := GeminiRequest{
		Contents: []GeminiContent{
			{Role: "user", Parts: []GeminiPart{{Text: prompt}}},
		},
		GenerationConfig: &GeminiGenerationConfig{
			Temperature:     &temperature,
			MaxOutputTokens: p.config.MaxTokens,
		},
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		p.config.Host, p.config.Model, p.config.APIKey)

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", NewTransportError("gemini", "failed to encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", NewTransportError("gemini", "failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", NewTransportError("gemini", "request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewTransportError("gemini", "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", NewTransportError("gemini",
			fmt.Sprintf("API returned HTTP %d: %s", resp.StatusCode, string(respBody)), nil)
	}

	var geminiResp GeminiResponse
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return "", NewTransportError("gemini", "failed to parse response", err)
	}

	if geminiResp.Error != nil {
		return "", NewTransportError("gemini",
			fmt.Sprintf("API error %s: %s", geminiResp.Error.Status, geminiResp.Error.Message), nil)
	}

	if len(geminiResp.Candidates) == 0 {
		return "", NewTransportError("gemini", "no candidates in response", nil)
	}

	if geminiResp.UsageMetadata != nil {
		slog.Debug("Gemini completion",
			"model", p.config.Model,
			"prompt_tokens", geminiResp.UsageMetadata.PromptTokenCount,
			"completion_tokens", geminiResp.UsageMetadata.CandidatesTokenCount)
	}

	var sb strings.Builder
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

func (p *GeminiProvider) GetModelName() string {
	return p.config.Model
}

func (p *GeminiProvider) Close() error {
	return nil
}

var _ LLMProvider = (*GeminiProvider)(nil)
