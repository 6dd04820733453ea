package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testKey = "sk-test-secret-key-12345"

func newProviderServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "gpt-4o-mini", 5*time.Second)
}

func TestChatSuccess(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest

	client := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Let's work through it step by step."}},
			},
		})
	})

	reply, err := client.Chat(context.Background(), testKey, "You are a math tutor.", "What is 7 x 8?")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply != "Let's work through it step by step." {
		t.Errorf("Unexpected reply: %q", reply)
	}
	if gotAuth != "Bearer "+testKey {
		t.Errorf("Expected bearer auth header, got %q", gotAuth)
	}
	if gotBody.Model != "gpt-4o-mini" {
		t.Errorf("Expected model gpt-4o-mini, got %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Role != "user" {
		t.Errorf("Unexpected message layout: %+v", gotBody.Messages)
	}
}

func TestChatMissingKey(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "gpt-4o-mini", time.Second)

	_, err := client.Chat(context.Background(), "", "prompt", "message")
	if !errors.Is(err, ErrMissingKey) {
		t.Errorf("Expected ErrMissingKey, got %v", err)
	}
}

func TestChatErrorStatuses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrInvalidKey},
		{"forbidden", http.StatusForbidden, ErrInvalidKey},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusInternalServerError, ErrProviderError},
		{"bad request", http.StatusBadRequest, ErrProviderError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.Chat(context.Background(), testKey, "prompt", "message")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestChatErrorsNeverContainKey(t *testing.T) {
	handlers := []http.HandlerFunc{
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusUnauthorized) },
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) },
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
		func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": "model overloaded"}})
		},
		func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("not json")) },
	}

	for i, handler := range handlers {
		client := newProviderServer(t, handler)
		_, err := client.Chat(context.Background(), testKey, "prompt", "message")
		if err == nil {
			t.Fatalf("Handler %d: expected an error", i)
		}
		if strings.Contains(err.Error(), testKey) {
			t.Errorf("Handler %d: error leaked the API key: %v", i, err)
		}
	}
}

func TestChatProviderBodyError(t *testing.T) {
	client := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": "model overloaded"}})
	})

	_, err := client.Chat(context.Background(), testKey, "prompt", "message")
	if !errors.Is(err, ErrProviderError) {
		t.Errorf("Expected ErrProviderError, got %v", err)
	}
}

func TestChatEmptyChoices(t *testing.T) {
	client := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := client.Chat(context.Background(), testKey, "prompt", "message")
	if !errors.Is(err, ErrProviderError) {
		t.Errorf("Expected ErrProviderError, got %v", err)
	}
}

func TestSystemPrompt(t *testing.T) {
	tests := []struct {
		subject string
		want    string
	}{
		{"math", "step-by-step"},
		{"language", "reading comprehension"},
		{"science", "scientific concepts"},
		{"history", "educational guidance"},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			prompt := SystemPrompt(tt.subject, "8-10")
			if !strings.Contains(prompt, tt.want) {
				t.Errorf("Prompt for %s missing %q: %s", tt.subject, tt.want, prompt)
			}
			if !strings.Contains(prompt, "8-10") {
				t.Errorf("Prompt for %s missing age group: %s", tt.subject, prompt)
			}
		})
	}
}
