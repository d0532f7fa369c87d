package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"CompanyNewsScanner/internal/config"
)

func TestClientChat(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": `{"tema": "ninguno"}`}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(config.LLMConfig{
		Endpoint:       server.URL,
		Model:          "llama3",
		APIKey:         "test-key",
		RequestsPerMin: 6000,
	})

	content, err := client.Chat(context.Background(), "instrucciones", "Titular: x")
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if content != `{"tema": "ninguno"}` {
		t.Fatalf("unexpected content %q", content)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
}

func TestClientChatErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(config.LLMConfig{Endpoint: server.URL, Model: "llama3", RequestsPerMin: 6000})

	if _, err := client.Chat(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error on 429 response")
	}
}

func TestClientChatNoChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := NewClient(config.LLMConfig{Endpoint: server.URL, Model: "llama3", RequestsPerMin: 6000})

	if _, err := client.Chat(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestClientMisconfigured(t *testing.T) {
	t.Parallel()

	client := NewClient(config.LLMConfig{})
	if _, err := client.Chat(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected misconfiguration error")
	}
}
