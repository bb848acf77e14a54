package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// maxInputChars bounds the request size sent to the model. Longer
	// bodies are cut and marked with an ellipsis.
	maxInputChars = 4000

	// maxOutputTokens bounds the response size requested from the model.
	maxOutputTokens = 300

	// temperature is kept low so repeated runs over the same inbox
	// produce similar summaries.
	temperature = 0.5

	systemPrompt = "You are a helpful assistant that summarizes emails concisely and accurately."

	// NoContentSummary is returned for bodies with nothing to summarize,
	// without making a network call.
	NoContentSummary = "No content to summarize."
)

// Client is an HTTP client for an OpenAI-compatible chat completions API
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// New creates a new summarizer client
func New(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // Long timeout for LLM inference
		},
	}
}

// Summarize asks the model for a summary of text in roughly wordBudget
// words. The input is truncated to maxInputChars before the call.
func (c *Client) Summarize(ctx context.Context, text string, wordBudget int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return NoContentSummary, nil
	}

	// The limit is measured in characters, not bytes, so a multi-byte
	// body is never cut mid-rune.
	if utf8.RuneCountInString(text) > maxInputChars {
		runes := []rune(text)
		text = string(runes[:maxInputChars]) + "..."
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(text, wordBudget)},
		},
		MaxTokens:   maxOutputTokens,
		Temperature: temperature,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("summarization request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("summarization failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("summarization failed: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("summarization returned no choices")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// buildPrompt formats the user message for the model
func buildPrompt(text string, wordBudget int) string {
	return fmt.Sprintf(`Please summarize the following email in approximately %d words or less.
Focus on the key points, action items, and important information.

Email content:
%s

Summary:`, wordBudget, text)
}
