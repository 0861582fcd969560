package email

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func captureServer(t *testing.T, got *postmarkEmail) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := r.Header.Get("X-Postmark-Server-Token"); token != "server-token" {
			t.Errorf("server token header = %q", token)
		}
		if err := json.NewDecoder(r.Body).Decode(got); err != nil {
			t.Fatalf("decode email payload: %v", err)
		}
		w.Write([]byte(`{}`))
	}))
}

func TestSendConfirmation(t *testing.T) {
	var got postmarkEmail
	ts := captureServer(t, &got)
	defer ts.Close()

	c := NewClient("server-token", "noreply@pricecheck.app", "https://pricecheck.app", WithAPIURL(ts.URL))
	if err := c.SendConfirmation("alice@example.com", "Alice", "uid123", "tok456"); err != nil {
		t.Fatalf("send confirmation: %v", err)
	}

	if got.To != "alice@example.com" || got.From != "noreply@pricecheck.app" {
		t.Errorf("addressing wrong: %+v", got)
	}
	wantLink := "https://pricecheck.app/confirm-email/?uid=uid123&token=tok456"
	if !strings.Contains(got.TextBody, wantLink) {
		t.Errorf("text body missing link %q:\n%s", wantLink, got.TextBody)
	}
	if !strings.Contains(got.HtmlBody, wantLink) {
		t.Errorf("html body missing link %q", wantLink)
	}
}

func TestSendPasswordReset(t *testing.T) {
	var got postmarkEmail
	ts := captureServer(t, &got)
	defer ts.Close()

	c := NewClient("server-token", "noreply@pricecheck.app", "https://pricecheck.app", WithAPIURL(ts.URL))
	if err := c.SendPasswordReset("alice@example.com", "Alice", "uid123", "tok456"); err != nil {
		t.Fatalf("send reset: %v", err)
	}

	wantLink := "https://pricecheck.app/reset-password/?uid=uid123&token=tok456"
	if !strings.Contains(got.TextBody, wantLink) {
		t.Errorf("text body missing link %q:\n%s", wantLink, got.TextBody)
	}
}

func TestSendContactNotification(t *testing.T) {
	var got postmarkEmail
	ts := captureServer(t, &got)
	defer ts.Close()

	c := NewClient("server-token", "noreply@pricecheck.app", "https://pricecheck.app", WithAPIURL(ts.URL))
	err := c.SendContactNotification("owner@pricecheck.app", "ref-1", "Bob", "bob@example.com", "Question", "How do I export data?")
	if err != nil {
		t.Fatalf("send contact notification: %v", err)
	}

	if got.To != "owner@pricecheck.app" {
		t.Errorf("to = %q, want owner address", got.To)
	}
	if !strings.Contains(got.Subject, "Question") {
		t.Errorf("subject = %q, should carry the original subject", got.Subject)
	}
	if !strings.Contains(got.TextBody, "ref-1") || !strings.Contains(got.TextBody, "bob@example.com") {
		t.Errorf("body missing reference or sender:\n%s", got.TextBody)
	}
}

func TestSendUnconfiguredFails(t *testing.T) {
	c := NewClient("", "noreply@pricecheck.app", "https://pricecheck.app")
	if c.Configured() {
		t.Error("Configured() should be false without a token")
	}
	if err := c.SendConfirmation("a@b.c", "A", "u", "t"); err == nil {
		t.Error("expected error when no server token is set")
	}
}

func TestSendAPIErrorSurfaces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer ts.Close()

	c := NewClient("server-token", "noreply@pricecheck.app", "https://pricecheck.app", WithAPIURL(ts.URL))
	if err := c.SendConfirmation("a@b.c", "A", "u", "t"); err == nil {
		t.Error("expected error for 4xx from the email API")
	}
}
