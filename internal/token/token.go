package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/dukerupert/pricecheck/internal/model"
)

// Token purposes. A token minted for one purpose never verifies for another.
const (
	PurposeConfirmEmail  = "confirm-email"
	PurposeResetPassword = "reset-password"
)

// Maker derives single-use account tokens without storing anything. The HMAC
// input includes the mutable account state, so consuming the token (activating
// the account, changing the password, logging in) invalidates it implicitly.
type Maker struct {
	secret []byte
}

func NewMaker(secret string) *Maker {
	return &Maker{secret: []byte(secret)}
}

// Generate returns the hex HMAC for the user in its current state.
func (m *Maker) Generate(purpose string, u *model.User) string {
	mac := hmac.New(sha256.New, m.secret)
	fmt.Fprintf(mac, "%s|%d|%s", purpose, u.ID, fingerprint(u))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the token for the user's current state and compares in
// constant time. Any state change since Generate makes this fail.
func (m *Maker) Verify(purpose string, u *model.User, token string) bool {
	expected := m.Generate(purpose, u)
	return hmac.Equal([]byte(expected), []byte(token))
}

func fingerprint(u *model.User) string {
	lastLogin := int64(0)
	if u.LastLoginAt != nil {
		lastLogin = u.LastLoginAt.Unix()
	}
	return fmt.Sprintf("%t|%s|%d", u.IsActive, u.PasswordHash, lastLogin)
}

// EncodeID encodes a user id for inclusion in email links.
func EncodeID(id int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(id, 10)))
}

// DecodeID reverses EncodeID.
func DecodeID(encoded string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return 0, fmt.Errorf("decode id: %w", err)
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id: %w", err)
	}
	return id, nil
}
