// Package ollama implements name enhancement against a local Ollama server.
// Claim images and text never leave the machine, which keeps the pipeline
// HIPAA-safe without a BAA.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/lennonalatorre/claimflow/internal/config"
	"github.com/lennonalatorre/claimflow/internal/enhance"
	"github.com/lennonalatorre/claimflow/internal/port"
)

const namePrompt = `You are a medical billing data extractor. Extract the patient's full name from this ERA insurance document.

CRITICAL RULES:
1. Return ONLY the patient's name in format: "FirstName LastName"
2. Remove OCR errors like dots, underscores, or special characters between words
3. Do NOT include explanations, patient IDs, claim numbers, or extra text
4. If no valid patient name found, return exactly: "NOTFOUND"

ERA TEXT:
%s

EXTRACT PATIENT NAME (FirstName LastName only):`

// Enhancer implements port.NameEnhancer using the Ollama generate API.
type Enhancer struct {
	endpoint string
	model    string
	engine   port.RecognitionEngine
	client   *http.Client
}

// Factory returns a provider factory bound to the given recognition engine,
// for registration at startup.
func Factory(engine port.RecognitionEngine) enhance.ProviderFactory {
	return func(cfg *config.EnhancerConfig) (port.NameEnhancer, error) {
		timeout := time.Duration(cfg.TimeoutSecs) * time.Second
		if timeout == 0 {
			timeout = 120 * time.Second
		}
		return &Enhancer{
			endpoint: cfg.Endpoint,
			model:    cfg.Model,
			engine:   engine,
			client:   &http.Client{Timeout: timeout},
		}, nil
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// ExtractClientName re-reads the image text and asks the model for the
// patient name. Returns "" when the model cannot find one.
func (e *Enhancer) ExtractClientName(ctx context.Context, imagePath string) (string, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return "", fmt.Errorf("ollama: stat %s: %w", imagePath, err)
	}

	text, err := e.engine.Recognize(ctx, imagePath)
	if err != nil {
		return "", fmt.Errorf("ollama: recognize: %w", err)
	}
	if len(text) > 1000 {
		text = text[:1000]
	}

	reply, err := e.generate(ctx, fmt.Sprintf(namePrompt, text))
	if err != nil {
		return "", err
	}

	name := enhance.CleanName(reply)
	if name == "" {
		return "", nil
	}
	// The name row in the image was garbage; make sure the model did not
	// just echo a table heading back.
	if enhance.NeedsEnhancement(name) {
		return "", nil
	}
	return name, nil
}

func (e *Enhancer) Name() string { return "ollama" }

func (e *Enhancer) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  e.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ollama: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama: status %d: %s", resp.StatusCode, string(data))
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("ollama: decode response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama: %s", out.Error)
	}
	return out.Response, nil
}
