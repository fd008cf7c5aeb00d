package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseVerdict(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		want    Verdict
		wantErr bool
	}{
		{
			name: "bare json",
			text: `{"verified": true, "confidence": 0.85, "message": "clearly visible"}`,
			want: Verdict{Verified: true, Confidence: 0.85, Message: "clearly visible"},
		},
		{
			name: "markdown fenced",
			text: "```json\n{\"verified\": false, \"confidence\": 0.2, \"message\": \"face not found\"}\n```",
			want: Verdict{Verified: false, Confidence: 0.2, Message: "face not found"},
		},
		{
			name: "prose wrapped",
			text: `Here is my analysis: {"verified": true, "confidence": 0.7, "message": "present"} Hope that helps!`,
			want: Verdict{Verified: true, Confidence: 0.7, Message: "present"},
		},
		{
			name: "empty message defaulted",
			text: `{"verified": true, "confidence": 0.9}`,
			want: Verdict{Verified: true, Confidence: 0.9, Message: "Analysis complete"},
		},
		{
			name:    "no json object",
			text:    "I cannot analyze this image.",
			wantErr: true,
		},
		{
			name:    "malformed json",
			text:    `{"verified": yes}`,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		got, err := parseVerdict(tc.text)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: expected error, got %+v", tc.name, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if got.Verified != tc.want.Verified || got.Confidence != tc.want.Confidence || got.Message != tc.want.Message {
			t.Errorf("%s: expected %+v, got %+v", tc.name, tc.want, got)
		}
	}
}

func TestGeminiVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Sure! {\"verified\": true, \"confidence\": 0.85, \"message\": \"student visible\"}"}]}}]}`))
	}))
	defer srv.Close()

	g := NewGemini("test-key", "gemini-1.5-flash", 2*time.Second)
	g.BaseURL = srv.URL

	v, err := g.Verify(context.Background(), []byte("jpeg-bytes"), "Ada Lovelace")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Verified || v.Confidence != 0.85 {
		t.Fatalf("unexpected verdict: %+v", v)
	}
}

func TestGeminiVerifyMissingKey(t *testing.T) {
	g := NewGemini("", "gemini-1.5-flash", time.Second)
	if _, err := g.Verify(context.Background(), []byte("img"), "Ada"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestGeminiVerifyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGemini("test-key", "gemini-1.5-flash", time.Second)
	g.BaseURL = srv.URL

	if _, err := g.Verify(context.Background(), []byte("img"), "Ada"); err == nil {
		t.Fatal("expected error on provider failure")
	}
}

func TestGeminiVerifyNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	g := NewGemini("test-key", "gemini-1.5-flash", time.Second)
	g.BaseURL = srv.URL

	if _, err := g.Verify(context.Background(), []byte("img"), "Ada"); err == nil {
		t.Fatal("expected error when model returns no candidates")
	}
}
