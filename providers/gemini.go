package providers

import (
	"context"
	"strings"

	"github.com/medsafe/medsafe-api/logging"
	"google.golang.org/genai"
)

const geminiMaxRetries = 2

// Gemini is the primary provider, backed by the official Gemini SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates the Gemini adapter. The API key is required.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, newError("gemini", KindInvalidCredentials, "GEMINI_API_KEY is required", ErrMissingAPIKey)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, newError("gemini", KindInvalidCredentials, "failed to create Gemini client", err)
	}

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string { return "gemini" }

// TestConnection issues a minimal generation request.
func (g *Gemini) TestConnection(ctx context.Context) error {
	if _, err := g.GenerateContent(ctx, "Test connection"); err != nil {
		logging.Error("Gemini API connection test failed", "error", err)
		return err
	}
	logging.Info("Gemini API connection test successful")
	return nil
}

// GenerateContent sends one generation request and returns the response text.
func (g *Gemini) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", newError("gemini", KindUnknown, "prompt is empty", ErrEmptyPrompt)
	}

	logging.Debug("Sending request to Gemini API", "model", g.model)

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", g.classify(err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", newError("gemini", KindUnknown, "empty response from Gemini API", nil)
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	logging.Debug("Gemini API response received", "length", text.Len())
	return text.String(), nil
}

// GenerateStructuredContent generates content and parses it as JSON when the
// response looks JSON-shaped. Transient failures are retried with linear
// backoff before being propagated to the orchestrator.
func (g *Gemini) GenerateStructuredContent(ctx context.Context, prompt string) (*Output, error) {
	attempt := 0
	return retryWithBackoff(ctx, geminiMaxRetries, func() (*Output, error) {
		if attempt > 0 {
			logging.Warn("Retrying Gemini request", "attempt", attempt, "max_retries", geminiMaxRetries)
		}
		attempt++

		text, err := g.GenerateContent(ctx, prompt)
		if err != nil {
			return nil, err
		}
		return SniffJSON(text), nil
	})
}

// classify maps SDK errors onto the provider error taxonomy by sniffing the
// error message, the same way the vendor surfaces these conditions.
func (g *Gemini) classify(err error) error {
	if isTimeoutErr(err) {
		return newError("gemini", KindTimeout, "Gemini API request timed out", err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "api_key") || strings.Contains(msg, "401"):
		return newError("gemini", KindInvalidCredentials, "invalid API key configuration", err)
	case strings.Contains(msg, "quota"):
		return newError("gemini", KindQuotaExceeded, "API quota exceeded", err)
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		return newError("gemini", KindRateLimited, "API rate limit exceeded", err)
	case strings.Contains(msg, "overloaded") || strings.Contains(msg, "503"):
		return newError("gemini", KindOverloaded, "Gemini API is overloaded", err)
	}
	return newError("gemini", KindUnknown, "Gemini API error: "+err.Error(), err)
}
