package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrMissingKey means no provider API key was available for the request
	ErrMissingKey = errors.New("provider API key not configured")

	// ErrInvalidKey means the provider rejected the supplied key
	ErrInvalidKey = errors.New("provider rejected API key")

	// ErrRateLimited means the provider throttled the request
	ErrRateLimited = errors.New("provider rate limit exceeded")

	// ErrProviderError covers every other upstream failure
	ErrProviderError = errors.New("provider request failed")
)

// Client calls an OpenAI-compatible chat completions endpoint. It holds no
// API key of its own: the key is supplied per call, because each request is
// billed to a specific parent. Keys appear only in the Authorization header,
// never in errors or logs.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a tutor client against an OpenAI-compatible base URL
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Chat sends one tutoring exchange and returns the assistant's reply
func (c *Client) Chat(ctx context.Context, apiKey, systemPrompt, message string) (string, error) {
	if apiKey == "" {
		return "", ErrMissingKey
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: message},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The transport error may echo request details; report only the
		// class of failure.
		return "", fmt.Errorf("%w: request did not complete", ErrProviderError)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", ErrInvalidKey
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode >= 400:
		return "", fmt.Errorf("%w: status %d", ErrProviderError, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response", ErrProviderError)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("%w: malformed response", ErrProviderError)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrProviderError, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrProviderError)
	}

	return parsed.Choices[0].Message.Content, nil
}

// SystemPrompt builds the subject- and age-specific tutoring instructions
func SystemPrompt(subject, ageGroup string) string {
	prompt := fmt.Sprintf("You are a helpful %s tutor for students in the %s age group. ", subject, ageGroup)

	switch subject {
	case "math":
		prompt += "You help with math concepts, problem-solving, and explaining mathematical ideas in a clear, " +
			"age-appropriate way. You can work through problems step-by-step and provide guidance without giving away answers immediately. " +
			"Always encourage critical thinking and provide praise for effort."
	case "language":
		prompt += fmt.Sprintf("You help with reading comprehension, writing, vocabulary, grammar, and language skills "+
			"appropriate for the %s age group. You provide explanations, examples, and constructive feedback "+
			"that helps the student improve their language abilities.", ageGroup)
	case "science":
		prompt += fmt.Sprintf("You help explain scientific concepts, theories, and experiments in an engaging and "+
			"age-appropriate way for %s students. You make complex ideas understandable and encourage "+
			"curiosity and critical thinking.", ageGroup)
	default:
		prompt += fmt.Sprintf("You provide helpful, educational guidance on %s topics appropriate for %s students. "+
			"You're encouraging, patient, and focus on making learning engaging and fun.", subject, ageGroup)
	}

	return prompt
}
