package llms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/config"
)

// OllamaProvider implements LLMProvider for a local Ollama server.
type OllamaProvider struct {
	config     *config.LLMProviderConfig
	httpClient *http.Client
}

type OllamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type OllamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

func NewOllamaProviderFromConfig(cfg *config.LLMProviderConfig) (*OllamaProvider, error) {
	return &OllamaProvider{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}, nil
}

func (p *OllamaProvider) Complete(ctx context.Context, prompt string) (string, error) {
	req := OllamaGenerateRequest{
		Model:  p.config.Model,
		Prompt: prompt,
		Stream: false,
		Options: map[string]any{
			"temperature": p.config.Temperature,
			"num_predict": p.config.MaxTokens,
		},
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", NewTransportError("ollama", "failed to encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.Host+"/api/generate", bytes.NewReader(reqBody))
	if err != nil {
		return "", NewTransportError("ollama", "failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", NewTransportError("ollama", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", NewTransportError("ollama",
			fmt.Sprintf("API returned HTTP %d: %s", resp.StatusCode, string(body)), nil)
	}

	var ollamaResp OllamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", NewTransportError("ollama", "failed to decode response", err)
	}

	if ollamaResp.Error != "" {
		return "", NewTransportError("ollama", ollamaResp.Error, nil)
	}

	return ollamaResp.Response, nil
}

func (p *OllamaProvider) GetModelName() string {
	return p.config.Model
}

func (p *OllamaProvider) Close() error {
	return nil
}

var _ LLMProvider = (*OllamaProvider)(nil)
