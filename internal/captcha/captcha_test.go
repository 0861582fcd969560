package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVerifyUnconfiguredAlwaysPasses(t *testing.T) {
	v := NewVerifier("")
	ok, err := v.Verify(context.Background(), "anything")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Error("unconfigured verifier should pass every response")
	}
	if v.Configured() {
		t.Error("Configured() should be false without a secret")
	}
}

func TestVerifyPostsFormAndDecodes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    bool
	}{
		{"success", `{"success": true}`, true},
		{"failure", `{"success": false}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := r.ParseForm(); err != nil {
					t.Fatalf("parse form: %v", err)
				}
				if got := r.PostForm.Get("secret"); got != "captcha-secret" {
					t.Errorf("secret = %q, want captcha-secret", got)
				}
				if got := r.PostForm.Get("response"); got != "client-token" {
					t.Errorf("response = %q, want client-token", got)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.payload))
			}))
			defer ts.Close()

			v := NewVerifier("captcha-secret", WithVerifyURL(ts.URL))
			ok, err := v.Verify(context.Background(), "client-token")
			if err != nil {
				t.Fatalf("verify: %v", err)
			}
			if ok != tt.want {
				t.Errorf("ok = %v, want %v", ok, tt.want)
			}
		})
	}
}

func TestVerifyAPIErrorSurfaces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	v := NewVerifier("captcha-secret", WithVerifyURL(ts.URL))
	if _, err := v.Verify(context.Background(), "client-token"); err == nil {
		t.Error("expected error for non-200 verification response")
	}
}
