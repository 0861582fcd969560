package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Verifier checks reCAPTCHA responses. With no secret configured every
// response passes, which keeps local development working without keys.
type Verifier struct {
	secret     string
	verifyURL  string
	httpClient *http.Client
}

type Option func(*Verifier)

func WithVerifyURL(u string) Option {
	return func(v *Verifier) {
		v.verifyURL = u
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(v *Verifier) {
		v.httpClient = c
	}
}

func NewVerifier(secret string, opts ...Option) *Verifier {
	v := &Verifier{
		secret:    secret,
		verifyURL: defaultVerifyURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Configured returns true if a secret is set.
func (v *Verifier) Configured() bool {
	return v.secret != ""
}

type verifyResponse struct {
	Success bool `json:"success"`
}

// Verify posts the client response token to the verification API.
func (v *Verifier) Verify(ctx context.Context, response string) (bool, error) {
	if !v.Configured() {
		return true, nil
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", response)

	req, err := http.NewRequestWithContext(ctx, "POST", v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("captcha request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("captcha API returned status %d", resp.StatusCode)
	}

	var vr verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return false, fmt.Errorf("decode captcha response: %w", err)
	}
	return vr.Success, nil
}
