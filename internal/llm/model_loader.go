package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"personal-rag/internal/contextutil"
)

// ModelLoader makes sure models are present on the Ollama server,
// pulling them through /api/pull when missing.
type ModelLoader struct {
	baseURL string
	client  *http.Client
}

// NewModelLoader creates a new model loader.
func NewModelLoader(baseURL string) *ModelLoader {
	return &ModelLoader{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Pulls can take minutes for large models.
		client: &http.Client{Timeout: 30 * time.Minute},
	}
}

// ListModels returns the names of the models the server has locally.
func (ml *ModelLoader) ListModels(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("%s/api/tags", ml.baseURL)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tags request: %w", err)
	}

	resp, err := ml.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama is not reachable at %s: %w", ml.baseURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var tags TagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags response: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// IsModelAvailable reports whether modelName is present. A name without a
// tag also matches its ":latest" variant.
func (ml *ModelLoader) IsModelAvailable(ctx context.Context, modelName string) (bool, error) {
	names, err := ml.ListModels(ctx)
	if err != nil {
		return false, err
	}
	return containsModel(names, modelName), nil
}

func containsModel(names []string, modelName string) bool {
	for _, name := range names {
		if name == modelName {
			return true
		}
		if !strings.Contains(modelName, ":") && name == modelName+":latest" {
			return true
		}
	}
	return false
}

// PullModel downloads a model and blocks until the pull finishes.
func (ml *ModelLoader) PullModel(ctx context.Context, modelName string) error {
	url := fmt.Sprintf("%s/api/pull", ml.baseURL)

	body, err := json.Marshal(PullRequest{Model: modelName, Stream: false})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ml.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var pullResp PullResponse
	if err := json.NewDecoder(resp.Body).Decode(&pullResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if pullResp.Error != "" {
		return fmt.Errorf("model pull failed: %s", pullResp.Error)
	}
	if pullResp.Status != "success" {
		return fmt.Errorf("model pull did not complete: status %q", pullResp.Status)
	}

	return nil
}

// EnsureModels pulls every model in modelNames that the server does not have.
func (ml *ModelLoader) EnsureModels(ctx context.Context, modelNames ...string) error {
	logger := contextutil.LoggerFromContext(ctx)

	names, err := ml.ListModels(ctx)
	if err != nil {
		return err
	}

	for _, model := range modelNames {
		if model == "" {
			continue
		}
		if containsModel(names, model) {
			logger.DebugContext(ctx, "model available", "model", model)
			continue
		}

		logger.InfoContext(ctx, "model not found, pulling", "model", model)
		start := time.Now()
		if err := ml.PullModel(ctx, model); err != nil {
			return fmt.Errorf("failed to pull model %s: %w", model, err)
		}
		logger.InfoContext(ctx, "model pulled", "model", model, "duration_ms", time.Since(start).Milliseconds())
	}

	return nil
}
