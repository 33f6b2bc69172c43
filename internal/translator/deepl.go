// Package translator is the DeepL REST client. One client per process
// invocation; the credential never leaves this package and is never logged.
package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deepl-go/deepl-cli/internal/apperr"
)

const (
	proEndpoint  = "https://api.deepl.com"
	freeEndpoint = "https://api-free.deepl.com"

	// freeKeySuffix marks keys issued for the free tier, which lives on a
	// separate host.
	freeKeySuffix = ":fx"

	// statusQuotaExceeded is DeepL's non-standard "character limit reached"
	// status.
	statusQuotaExceeded = 456
)

type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

type Option func(*Client)

// WithEndpoint overrides the API host, e.g. for a proxy or a test server.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = strings.TrimRight(endpoint, "/")
		}
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// NewClient builds a client for the given key. Free-tier keys (":fx"
// suffix) are routed to the free API host.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		endpoint: proEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	if strings.HasSuffix(apiKey, freeKeySuffix) {
		c.endpoint = freeEndpoint
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Verify exercises the credential with a usage call before any translation
// is attempted, so a rejected key fails as an auth error rather than
// mid-translation.
func (c *Client) Verify(ctx context.Context) error {
	_, err := c.Usage(ctx)
	return err
}

// Translate sends one translation request. Empty or whitespace-only input
// returns an empty result without contacting the service.
func (c *Client) Translate(ctx context.Context, req TranslateRequest) (*TranslateResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return &TranslateResult{}, nil
	}

	body := map[string]any{
		"text":        []string{req.Text},
		"target_lang": req.TargetLang,
	}
	if req.SourceLang != "" {
		body["source_lang"] = req.SourceLang
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, err, "failed to marshal request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v2/translate", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, err, "failed to create request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperr.Wrap(apperr.KindProvider, err, "Translation request failed: %v", err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	var deeplResp struct {
		Translations []struct {
			DetectedSourceLanguage string `json:"detected_source_language"`
			Text                   string `json:"text"`
		} `json:"translations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&deeplResp); err != nil {
		return nil, apperr.Wrap(apperr.KindProvider, err, "failed to decode translation response: %v", err)
	}

	if len(deeplResp.Translations) == 0 || deeplResp.Translations[0].Text == "" {
		return nil, apperr.New(apperr.KindProvider, "Translation returned empty result")
	}

	detected := deeplResp.Translations[0].DetectedSourceLanguage
	if req.SourceLang != "" {
		detected = req.SourceLang
	}
	return &TranslateResult{
		Text:               deeplResp.Translations[0].Text,
		DetectedSourceLang: detected,
	}, nil
}

// Usage fetches the current character quota snapshot. Never cached.
func (c *Client) Usage(ctx context.Context) (*Usage, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/v2/usage", nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, err, "failed to create request: %v", err)
	}
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperr.Wrap(apperr.KindProvider, err, "Usage request failed: %v", err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	var usage Usage
	if err := json.NewDecoder(resp.Body).Decode(&usage); err != nil {
		return nil, apperr.Wrap(apperr.KindProvider, err, "failed to decode usage response: %v", err)
	}
	return &usage, nil
}

// classifyStatus maps the service's failure statuses onto the error
// taxonomy. The caller only proceeds on 200.
func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return apperr.New(apperr.KindAuth,
			"Invalid DeepL API key. Please check your API key at:\nhttps://www.deepl.com/account/summary")
	case resp.StatusCode == statusQuotaExceeded:
		return apperr.New(apperr.KindQuota,
			"DeepL API quota exceeded. Please check your usage limits:\nhttps://www.deepl.com/account/usage")
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		detail := strings.TrimSpace(string(body))
		if detail == "" {
			detail = resp.Status
		}
		return apperr.New(apperr.KindProvider,
			"Translation service returned status %d: %s", resp.StatusCode, detail)
	}
}
