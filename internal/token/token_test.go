package token

import (
	"testing"
	"time"

	"github.com/dukerupert/pricecheck/internal/model"
)

func testUser() *model.User {
	return &model.User{
		ID:           42,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
		IsActive:     false,
	}
}

func TestGenerateVerifyRoundTrip(t *testing.T) {
	m := NewMaker("secret")
	u := testUser()

	tok := m.Generate(PurposeConfirmEmail, u)
	if !m.Verify(PurposeConfirmEmail, u, tok) {
		t.Error("token should verify for unchanged state")
	}
}

func TestPurposeSeparation(t *testing.T) {
	m := NewMaker("secret")
	u := testUser()

	tok := m.Generate(PurposeConfirmEmail, u)
	if m.Verify(PurposeResetPassword, u, tok) {
		t.Error("confirm token must not verify as a reset token")
	}
}

func TestStateChangeInvalidates(t *testing.T) {
	m := NewMaker("secret")

	tests := []struct {
		name   string
		mutate func(*model.User)
	}{
		{"activation", func(u *model.User) { u.IsActive = true }},
		{"password change", func(u *model.User) { u.PasswordHash = "$2a$10$other" }},
		{"login", func(u *model.User) {
			at := time.Now()
			u.LastLoginAt = &at
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := testUser()
			tok := m.Generate(PurposeConfirmEmail, u)
			tt.mutate(u)
			if m.Verify(PurposeConfirmEmail, u, tok) {
				t.Errorf("token should be invalid after %s", tt.name)
			}
		})
	}
}

func TestDifferentSecretsDiffer(t *testing.T) {
	u := testUser()
	a := NewMaker("secret-a").Generate(PurposeConfirmEmail, u)
	b := NewMaker("secret-b").Generate(PurposeConfirmEmail, u)
	if a == b {
		t.Error("different secrets should yield different tokens")
	}
}

func TestEncodeDecodeID(t *testing.T) {
	for _, id := range []int64{1, 42, 999999} {
		encoded := EncodeID(id)
		decoded, err := DecodeID(encoded)
		if err != nil {
			t.Fatalf("decode %q: %v", encoded, err)
		}
		if decoded != id {
			t.Errorf("round trip %d -> %q -> %d", id, encoded, decoded)
		}
	}

	if _, err := DecodeID("!!!not-base64!!!"); err == nil {
		t.Error("expected error for malformed input")
	}
}
