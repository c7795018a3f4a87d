package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/medsafe/medsafe-api/logging"
)

const (
	huggingFaceDefaultURL = "https://api.huggingface.co/v1/chat/completions"

	huggingFaceSystemPrompt = "You are a medical AI assistant providing accurate, evidence-based information " +
		"about medications. Always structure your responses clearly and include safety warnings when appropriate."
)

// HuggingFace is the secondary fallback provider. It speaks a fixed
// request/response envelope and deliberately performs no internal retries:
// retry and timeout behavior for this adapter belong to the orchestrator.
type HuggingFace struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewHuggingFace creates the HuggingFace adapter. A missing token is allowed
// at construction so the process can come up without the secondary fallback;
// calls will fail with a credentials error.
func NewHuggingFace(apiKey, model string, httpClient *http.Client, baseURL string) *HuggingFace {
	if strings.TrimSpace(apiKey) == "" {
		logging.Warn("HF_TOKEN not found in environment variables")
	}
	if baseURL == "" {
		baseURL = huggingFaceDefaultURL
	}
	return &HuggingFace{apiKey: apiKey, baseURL: baseURL, model: model, httpClient: httpClient}
}

func (h *HuggingFace) Name() string { return "huggingface" }

// TestConnection sends a minimal completion request.
func (h *HuggingFace) TestConnection(ctx context.Context) error {
	payload := map[string]any{
		"model": h.model,
		"messages": []chatMessage{
			{Role: "user", Content: "Hello, this is a connection test."},
		},
		"max_tokens":  10,
		"temperature": 0.1,
	}

	if _, err := h.post(ctx, payload); err != nil {
		logging.Error("Hugging Face API connection test failed", "error", err)
		return err
	}
	logging.Info("Hugging Face API connection successful")
	return nil
}

// GenerateContent returns the text of a structured generation call.
func (h *HuggingFace) GenerateContent(ctx context.Context, prompt string) (string, error) {
	out, err := h.GenerateStructuredContent(ctx, prompt)
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

// GenerateStructuredContent sends one chat completion request. The response
// is always text-shaped; no retry, no JSON sniffing.
func (h *HuggingFace) GenerateStructuredContent(ctx context.Context, prompt string) (*Output, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, newError("huggingface", KindUnknown, "prompt is empty", ErrEmptyPrompt)
	}

	logging.Debug("Sending request to Hugging Face API", "model", h.model)

	payload := map[string]any{
		"model": h.model,
		"messages": []chatMessage{
			{Role: "system", Content: huggingFaceSystemPrompt},
			{Role: "user", Content: prompt},
		},
		"max_tokens":  2000,
		"temperature": 0.7,
		"stream":      false,
	}

	content, err := h.post(ctx, payload)
	if err != nil {
		return nil, err
	}
	return TextOutput(content), nil
}

func (h *HuggingFace) post(ctx context.Context, payload map[string]any) (string, error) {
	headers := map[string]string{"Authorization": "Bearer " + h.apiKey}

	body, status, err := doJSON(ctx, h.httpClient, h.baseURL, headers, payload)
	if err != nil {
		if isTimeoutErr(err) {
			return "", newError("huggingface", KindTimeout, "Hugging Face API request timed out", err)
		}
		return "", newError("huggingface", KindUnknown, "Hugging Face API request failed", err)
	}

	switch {
	case status == http.StatusUnauthorized:
		return "", newError("huggingface", KindInvalidCredentials, "invalid Hugging Face API token", nil)
	case status == http.StatusForbidden:
		return "", newError("huggingface", KindInvalidCredentials, "Hugging Face API access forbidden - check your token permissions", nil)
	case status == http.StatusTooManyRequests:
		return "", newError("huggingface", KindRateLimited, "Hugging Face API rate limit exceeded", nil)
	case status == http.StatusServiceUnavailable:
		return "", newError("huggingface", KindOverloaded, "Hugging Face API service temporarily unavailable", nil)
	case status >= 300:
		return "", newError("huggingface", KindUnknown, "Hugging Face API returned status "+http.StatusText(status), nil)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", newError("huggingface", KindUnknown, "invalid response structure from Hugging Face API", err)
	}
	if len(parsed.Choices) == 0 {
		return "", newError("huggingface", KindUnknown, "invalid response structure from Hugging Face API", nil)
	}

	logging.Debug("Successfully received response from Hugging Face API",
		"model", parsed.Model, "total_tokens", parsed.Usage.TotalTokens)
	return parsed.Choices[0].Message.Content, nil
}
