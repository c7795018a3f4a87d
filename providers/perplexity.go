package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/medsafe/medsafe-api/logging"
)

const (
	perplexityDefaultURL = "https://api.perplexity.ai/chat/completions"
	perplexityMaxRetries = 2

	perplexitySystemPrompt = "You are a medical AI assistant specializing in medication safety analysis, " +
		"particularly for women and children. Provide detailed, accurate, and well-structured information."

	// Appended to structured prompts; the vendor returns markdown-formatted
	// prose rather than JSON, so the parser receives headed sections.
	structuredSuffix = "\n\nPlease provide your response in a well-structured format with clear sections " +
		"and subsections. Use markdown formatting where appropriate for better readability."
)

// Perplexity is the first fallback provider, wrapping the Perplexity chat
// completions API over plain HTTP.
type Perplexity struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewPerplexity creates the Perplexity adapter. The API key is required.
func NewPerplexity(apiKey, model string, httpClient *http.Client, baseURL string) (*Perplexity, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, newError("perplexity", KindInvalidCredentials, "PERPLEXITY_API_KEY is required", ErrMissingAPIKey)
	}
	if baseURL == "" {
		baseURL = perplexityDefaultURL
	}
	return &Perplexity{apiKey: apiKey, baseURL: baseURL, model: model, httpClient: httpClient}, nil
}

func (p *Perplexity) Name() string { return "perplexity" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Model string `json:"model"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// TestConnection sends a minimal completion request.
func (p *Perplexity) TestConnection(ctx context.Context) error {
	payload := map[string]any{
		"model": p.model,
		"messages": []chatMessage{
			{Role: "user", Content: `Test connection - respond with "OK"`},
		},
		"max_tokens":  10,
		"temperature": 0,
	}

	if _, err := p.post(ctx, payload); err != nil {
		logging.Error("Perplexity API connection test failed", "error", err)
		return err
	}
	logging.Info("Perplexity API connection test successful")
	return nil
}

// GenerateContent sends one chat completion request and returns the text.
func (p *Perplexity) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", newError("perplexity", KindUnknown, "prompt is empty", ErrEmptyPrompt)
	}

	logging.Debug("Sending request to Perplexity API", "model", p.model)

	payload := map[string]any{
		"model": p.model,
		"messages": []chatMessage{
			{Role: "system", Content: perplexitySystemPrompt},
			{Role: "user", Content: prompt},
		},
		"max_tokens":  4000,
		"temperature": 0.1,
		"top_p":       0.9,
	}

	return p.post(ctx, payload)
}

// GenerateStructuredContent asks for markdown-structured prose. The result is
// always a text output: this vendor formats well but does not emit JSON.
func (p *Perplexity) GenerateStructuredContent(ctx context.Context, prompt string) (*Output, error) {
	attempt := 0
	return retryWithBackoff(ctx, perplexityMaxRetries, func() (*Output, error) {
		if attempt > 0 {
			logging.Warn("Retrying Perplexity request", "attempt", attempt, "max_retries", perplexityMaxRetries)
		}
		attempt++

		content, err := p.GenerateContent(ctx, prompt+structuredSuffix)
		if err != nil {
			return nil, err
		}
		return TextOutput(content), nil
	})
}

func (p *Perplexity) post(ctx context.Context, payload map[string]any) (string, error) {
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}

	body, status, err := doJSON(ctx, p.httpClient, p.baseURL, headers, payload)
	if err != nil {
		if isTimeoutErr(err) {
			return "", newError("perplexity", KindTimeout, "Perplexity API request timed out", err)
		}
		return "", newError("perplexity", KindUnknown, "Perplexity API request failed", err)
	}

	switch {
	case status == http.StatusUnauthorized:
		return "", newError("perplexity", KindInvalidCredentials, "invalid Perplexity API key", nil)
	case status == http.StatusTooManyRequests:
		return "", newError("perplexity", KindRateLimited, "Perplexity API rate limit exceeded", nil)
	case status == http.StatusPaymentRequired:
		return "", newError("perplexity", KindQuotaExceeded, "Perplexity API quota exceeded", nil)
	case status == http.StatusServiceUnavailable:
		return "", newError("perplexity", KindOverloaded, "Perplexity API is overloaded", nil)
	case status >= 300:
		return "", newError("perplexity", KindUnknown, "Perplexity API returned status "+http.StatusText(status), nil)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", newError("perplexity", KindUnknown, "invalid response from Perplexity API", err)
	}
	if len(parsed.Choices) == 0 {
		return "", newError("perplexity", KindUnknown, "empty response from Perplexity API", nil)
	}

	logging.Debug("Perplexity API response received successfully")
	return parsed.Choices[0].Message.Content, nil
}
