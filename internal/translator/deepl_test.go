package translator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deepl-go/deepl-cli/internal/apperr"
)

// fakeAPI serves /v2/translate and /v2/usage and counts calls.
type fakeAPI struct {
	calls       int64
	translate   func(w http.ResponseWriter, r *http.Request)
	usageCount  int64
	usageLimit  int64
	usageStatus int
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/translate", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.calls, 1)
		f.translate(w, r)
	})
	mux.HandleFunc("/v2/usage", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.calls, 1)
		if f.usageStatus != 0 && f.usageStatus != http.StatusOK {
			w.WriteHeader(f.usageStatus)
			return
		}
		json.NewEncoder(w).Encode(Usage{CharacterCount: f.usageCount, CharacterLimit: f.usageLimit})
	})
	return mux
}

// echoTranslate answers with a fixed translation and detected language.
func echoTranslate(text, detected string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"translations": []map[string]string{
				{"detected_source_language": detected, "text": text},
			},
		})
	}
}

func statusTranslate(status int) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithEndpoint(srv.URL))
}

func TestNewClient_EndpointByKeySuffix(t *testing.T) {
	if c := NewClient("abc123"); c.endpoint != proEndpoint {
		t.Errorf("pro key should use %s, got %s", proEndpoint, c.endpoint)
	}
	if c := NewClient("abc123:fx"); c.endpoint != freeEndpoint {
		t.Errorf("free key should use %s, got %s", freeEndpoint, c.endpoint)
	}
	if c := NewClient("abc123:fx", WithEndpoint("http://localhost:1")); c.endpoint != "http://localhost:1" {
		t.Errorf("explicit endpoint should win, got %s", c.endpoint)
	}
}

func TestWithTimeout(t *testing.T) {
	c := NewClient("k", WithTimeout(5*time.Second))
	if c.client.Timeout != 5*time.Second {
		t.Errorf("got %v", c.client.Timeout)
	}
	c = NewClient("k", WithTimeout(0))
	if c.client.Timeout != 30*time.Second {
		t.Errorf("zero timeout should keep the default, got %v", c.client.Timeout)
	}
}

func TestTranslate_Success(t *testing.T) {
	api := &fakeAPI{}
	api.translate = func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "DeepL-Auth-Key test-key" {
			t.Errorf("bad auth header: %q", got)
		}
		var body struct {
			Text       []string `json:"text"`
			TargetLang string   `json:"target_lang"`
			SourceLang string   `json:"source_lang"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if len(body.Text) != 1 || body.Text[0] != "Hello, world!" {
			t.Errorf("unexpected text: %v", body.Text)
		}
		if body.TargetLang != "JA" {
			t.Errorf("unexpected target: %s", body.TargetLang)
		}
		if body.SourceLang != "" {
			t.Errorf("absent source must not be sent: %s", body.SourceLang)
		}
		echoTranslate("こんにちは、世界！", "EN")(w, r)
	}
	client := newTestClient(t, api)

	result, err := client.Translate(context.Background(), TranslateRequest{
		Text:       "Hello, world!",
		TargetLang: "JA",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "こんにちは、世界！" {
		t.Errorf("got %q", result.Text)
	}
	if result.DetectedSourceLang != "EN" {
		t.Errorf("expected detected EN, got %q", result.DetectedSourceLang)
	}
}

func TestTranslate_CallerSourceWinsOverDetected(t *testing.T) {
	api := &fakeAPI{translate: echoTranslate("Hallo", "FR")}
	client := newTestClient(t, api)

	result, err := client.Translate(context.Background(), TranslateRequest{
		Text:       "Hello",
		SourceLang: "EN",
		TargetLang: "DE",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DetectedSourceLang != "EN" {
		t.Errorf("caller-supplied source should be reported, got %q", result.DetectedSourceLang)
	}
}

func TestTranslate_BlankInputSkipsRemoteCall(t *testing.T) {
	api := &fakeAPI{translate: echoTranslate("never", "EN")}
	client := newTestClient(t, api)

	for _, text := range []string{"", "   ", "\n\t\n"} {
		result, err := client.Translate(context.Background(), TranslateRequest{Text: text, TargetLang: "JA"})
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", text, err)
		}
		if result.Text != "" {
			t.Errorf("%q: expected empty result, got %q", text, result.Text)
		}
	}
	if n := atomic.LoadInt64(&api.calls); n != 0 {
		t.Errorf("expected zero remote calls, got %d", n)
	}
}

func TestTranslate_AuthRejected(t *testing.T) {
	api := &fakeAPI{translate: statusTranslate(http.StatusForbidden)}
	client := newTestClient(t, api)

	_, err := client.Translate(context.Background(), TranslateRequest{Text: "hi", TargetLang: "JA"})
	if !apperr.Is(err, apperr.KindAuth) {
		t.Fatalf("expected auth kind, got %v (%v)", apperr.KindOf(err), err)
	}
	if !strings.Contains(err.Error(), "deepl.com/account/summary") {
		t.Errorf("auth error should point at account management: %q", err.Error())
	}
}

func TestTranslate_QuotaExceeded(t *testing.T) {
	api := &fakeAPI{translate: statusTranslate(statusQuotaExceeded)}
	client := newTestClient(t, api)

	_, err := client.Translate(context.Background(), TranslateRequest{Text: "hi", TargetLang: "JA"})
	if !apperr.Is(err, apperr.KindQuota) {
		t.Fatalf("expected quota kind, got %v (%v)", apperr.KindOf(err), err)
	}
	if !strings.Contains(err.Error(), "deepl.com/account/usage") {
		t.Errorf("quota error should include a remediation reference: %q", err.Error())
	}
}

func TestTranslate_ProviderFailure(t *testing.T) {
	api := &fakeAPI{translate: statusTranslate(http.StatusInternalServerError)}
	client := newTestClient(t, api)

	_, err := client.Translate(context.Background(), TranslateRequest{Text: "hi", TargetLang: "JA"})
	if !apperr.Is(err, apperr.KindProvider) {
		t.Fatalf("expected provider kind, got %v (%v)", apperr.KindOf(err), err)
	}
}

func TestTranslate_EmptyResponseIsProviderError(t *testing.T) {
	api := &fakeAPI{translate: echoTranslate("", "EN")}
	client := newTestClient(t, api)

	_, err := client.Translate(context.Background(), TranslateRequest{Text: "hi", TargetLang: "JA"})
	if !apperr.Is(err, apperr.KindProvider) {
		t.Fatalf("expected provider kind, got %v (%v)", apperr.KindOf(err), err)
	}
}

// Structural round-trip: translating and then feeding the result back with
// the language pair swapped must not fail.
func TestTranslate_RoundTrip(t *testing.T) {
	api := &fakeAPI{translate: echoTranslate("bonjour le monde", "EN")}
	client := newTestClient(t, api)
	ctx := context.Background()

	first, err := client.Translate(ctx, TranslateRequest{Text: "hello world", SourceLang: "EN", TargetLang: "FR"})
	if err != nil {
		t.Fatalf("forward translation failed: %v", err)
	}
	if _, err := client.Translate(ctx, TranslateRequest{Text: first.Text, SourceLang: "FR", TargetLang: "EN"}); err != nil {
		t.Fatalf("reverse translation failed: %v", err)
	}
}

func TestUsage(t *testing.T) {
	api := &fakeAPI{usageCount: 125000, usageLimit: 500000}
	client := newTestClient(t, api)

	usage, err := client.Usage(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usage.CharacterCount != 125000 || usage.CharacterLimit != 500000 {
		t.Errorf("got %+v", usage)
	}
	if got := usage.Percentage(); got != 25 {
		t.Errorf("expected 25%%, got %v", got)
	}
}

func TestVerify_MapsAuthFailure(t *testing.T) {
	api := &fakeAPI{usageStatus: http.StatusForbidden}
	client := newTestClient(t, api)

	err := client.Verify(context.Background())
	if !apperr.Is(err, apperr.KindAuth) {
		t.Fatalf("expected auth kind, got %v (%v)", apperr.KindOf(err), err)
	}
}

func TestUsage_Percentage(t *testing.T) {
	cases := []struct {
		name  string
		usage Usage
		want  float64
	}{
		{"zero limit", Usage{CharacterCount: 0, CharacterLimit: 0}, 100},
		{"over limit clamps", Usage{CharacterCount: 600, CharacterLimit: 500}, 100},
		{"negative count clamps", Usage{CharacterCount: -10, CharacterLimit: 500}, 0},
		{"half", Usage{CharacterCount: 250, CharacterLimit: 500}, 50},
		{"empty account", Usage{CharacterCount: 0, CharacterLimit: 500}, 0},
	}
	for _, tc := range cases {
		if got := tc.usage.Percentage(); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestUsage_Remaining(t *testing.T) {
	if got := (Usage{CharacterCount: 400, CharacterLimit: 500}).Remaining(); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
	if got := (Usage{CharacterCount: 600, CharacterLimit: 500}).Remaining(); got != 0 {
		t.Errorf("remaining must not go negative, got %d", got)
	}
}
