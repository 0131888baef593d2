package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mbergner/oberfranken-events/internal/logger"
	"github.com/mbergner/oberfranken-events/internal/ratelimit"
)

// HTTPCategorizer calls an OpenAI-compatible chat-completions endpoint to
// label event text. Every call is paced through the rate limiter; a 429
// response feeds its Retry-After back into the limiter so the whole request
// stream slows down, and session rotation resets the per-session budget.
type HTTPCategorizer struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	limiter *ratelimit.Limiter
}

// NewHTTPCategorizer creates a remote categorizer. limiter must not be nil.
func NewHTTPCategorizer(baseURL, apiKey, model string, timeout time.Duration, limiter *ratelimit.Limiter) *HTTPCategorizer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPCategorizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Categorize asks the provider to pick one of the known Categories for the
// given event text. Any transport, status or parse problem is returned as
// an error for the caller to fall back on.
func (h *HTTPCategorizer) Categorize(ctx context.Context, title, description string) (string, float64, error) {
	if h.limiter.ShouldRotate() {
		logger.Debug("rotating categorizer session", nil)
		h.limiter.ResetSession()
	}
	h.limiter.Wait()

	prompt := fmt.Sprintf(
		"Ordne die folgende Veranstaltung genau einer Kategorie zu und antworte nur mit der Kategorie.\nKategorien: %s\nTitel: %s\nBeschreibung: %s",
		strings.Join(Categories, ", "), title, description)

	reqBody, err := json.Marshal(chatRequest{
		Model: h.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", 0, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("calling categorizer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		if secs, parseErr := strconv.Atoi(resp.Header.Get("Retry-After")); parseErr == nil {
			h.limiter.HandleRateLimit(secs)
		}
		return "", 0, fmt.Errorf("categorizer rate limited: status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("categorizer error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("reading response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", 0, fmt.Errorf("parsing response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", 0, fmt.Errorf("empty categorizer response")
	}

	label := normalizeCategory(parsed.Choices[0].Message.Content)
	if label == "" {
		return "", 0, fmt.Errorf("unknown category in response: %q", parsed.Choices[0].Message.Content)
	}
	return label, 0.9, nil
}

// normalizeCategory maps a free-form provider answer onto a known category.
func normalizeCategory(answer string) string {
	answer = strings.ToLower(strings.TrimSpace(answer))
	for _, c := range Categories {
		if strings.Contains(answer, strings.ToLower(c)) {
			return c
		}
	}
	return ""
}
