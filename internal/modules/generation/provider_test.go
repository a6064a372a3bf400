package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appcfg "github.com/inkwell-app/core/internal/config"
)

func TestUnmarshalModelJSON(t *testing.T) {
	type out struct {
		Title string `json:"title"`
	}

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", `{"title":"x"}`, "x"},
		{"fenced", "```json\n{\"title\":\"x\"}\n```", "x"},
		{"fenced upper", "```JSON\n{\"title\":\"x\"}\n```", "x"},
		{"surrounding prose", `Sure! Here you go: {"title":"x"} Hope that helps.`, "x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var o out
			if err := unmarshalModelJSON(tc.raw, &o); err != nil {
				t.Fatal(err)
			}
			if o.Title != tc.want {
				t.Fatalf("title = %q", o.Title)
			}
		})
	}

	var o out
	if err := unmarshalModelJSON("no json here", &o); err == nil {
		t.Fatal("expected error")
	}
}

func TestNormalizeOpenAIBaseURL(t *testing.T) {
	cases := map[string]string{
		"":                              "",
		"https://api.example.com":       "https://api.example.com/v1",
		"https://api.example.com/":      "https://api.example.com/v1",
		"https://api.example.com/v1":    "https://api.example.com/v1",
		"https://api.example.com/v1/":   "https://api.example.com/v1",
		"https://api.example.com/sub":   "https://api.example.com/sub/v1",
	}
	for in, want := range cases {
		if got := normalizeOpenAIBaseURL(in); got != want {
			t.Errorf("normalizeOpenAIBaseURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeOpenAICompatibleEndpoint(t *testing.T) {
	cases := map[string]string{
		"":                             "https://api.openai.com",
		"https://api.example.com/v1":   "https://api.example.com",
		"https://api.example.com/v1/":  "https://api.example.com",
		"https://api.example.com":      "https://api.example.com",
		"https://g.example.com/beta":   "https://g.example.com/beta",
	}
	for in, want := range cases {
		if got := normalizeOpenAICompatibleEndpoint(in); got != want {
			t.Errorf("normalizeOpenAICompatibleEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncateText(t *testing.T) {
	if got := truncateText("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := truncateText("abcdefghij", 4); got != "abcd..." {
		t.Fatalf("got %q", got)
	}
	// Rune-safe, not byte-safe.
	if got := truncateText("ééééé", 3); got != "ééé..." {
		t.Fatalf("got %q", got)
	}
}

func TestSelectProvider(t *testing.T) {
	cfg := appcfg.AIConfig{Providers: []appcfg.AIProvider{
		{ID: "a", Type: "OpenAI", Enabled: false},
		{ID: "b", Type: "Anthropic", DefaultModel: "claude-x", Enabled: true},
		{ID: "c", Type: "OpenAI", DefaultModel: "gpt-x", Enabled: true},
	}}

	if p := selectProvider(cfg, nil); p == nil || p.ID != "b" {
		t.Fatalf("first enabled = %#v", p)
	}

	p := selectProvider(cfg, &appcfg.AIModelAssignment{ProviderID: "c", Model: "gpt-override"})
	if p == nil || p.ID != "c" || p.DefaultModel != "gpt-override" {
		t.Fatalf("assignment pick = %#v", p)
	}

	// Disabled assignment target falls back to the first enabled provider.
	if p := selectProvider(cfg, &appcfg.AIModelAssignment{ProviderID: "a"}); p == nil || p.ID != "b" {
		t.Fatalf("disabled fallback = %#v", p)
	}

	if p := selectProvider(appcfg.AIConfig{}, nil); p != nil {
		t.Fatalf("expected nil, got %#v", p)
	}
}

func TestCallOpenAICompatibleChatCompletions(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("authorization = %q", auth)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "generated text"}},
			},
		})
	}))
	defer srv.Close()

	provider := &appcfg.AIProvider{
		Type:         "OpenAI-Compatible",
		APIKey:       "sk-test",
		Endpoint:     srv.URL,
		DefaultModel: "test-model",
	}
	text, err := callOpenAICompatibleChatCompletions(context.Background(), provider, "sys", "hello", 128)
	if err != nil {
		t.Fatal(err)
	}
	if text != "generated text" {
		t.Fatalf("text = %q", text)
	}
	if gotBody["model"] != "test-model" {
		t.Fatalf("model = %v", gotBody["model"])
	}
	msgs := gotBody["messages"].([]interface{})
	if len(msgs) != 2 {
		t.Fatalf("messages = %#v", msgs)
	}
}

func TestCallOpenAICompatibleErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	provider := &appcfg.AIProvider{Type: "OpenAI-Compatible", APIKey: "k", Endpoint: srv.URL}
	_, err := callOpenAICompatibleChatCompletions(context.Background(), provider, "", "p", 64)
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("err = %v", err)
	}
}

func TestProviderTypeNormalization(t *testing.T) {
	for _, raw := range []string{"OpenAI-Compatible", "openai_compatible", "OpenAI Compatible", "openaicompatible"} {
		if !isOpenAICompatibleProviderType(raw) {
			t.Errorf("%q not recognized as openai-compatible", raw)
		}
	}
	if isOpenAICompatibleProviderType("OpenAI") {
		t.Error("plain OpenAI misclassified")
	}
}
