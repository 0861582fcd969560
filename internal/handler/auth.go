package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/pricecheck/internal/account"
)

// forgotAck is the single acknowledgment for forgot-password, returned
// whether or not the address exists.
const forgotAck = "If an account with that email exists, a password reset link has been sent."

type AuthHandler struct {
	accounts *account.Service
	logger   *slog.Logger
}

func NewAuthHandler(accounts *account.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req account.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	user, err := h.accounts.Signup(req)
	if err != nil {
		var ve *account.ValidationError
		switch {
		case errors.As(err, &ve):
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": ve.Fields})
		case errors.Is(err, account.ErrSignupDisabled):
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "account creation is currently disabled"})
		default:
			h.logger.Error("signup", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "signup failed, please try again later"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"username": user.Username,
		"email":    user.Email,
		"detail":   "Account created. Check your email to confirm your address.",
	})
}

func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	pair, err := h.accounts.Login(strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no active account found with the given credentials"})
			return
		}
		h.logger.Error("login", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

func (h *AuthHandler) TokenRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	pair, err := h.accounts.Refresh(req.Refresh)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token is invalid or expired"})
			return
		}
		h.logger.Error("token refresh", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "refresh failed"})
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID   string `json:"uid"`
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := h.accounts.ConfirmEmail(req.UID, req.Token); err != nil {
		if errors.Is(err, account.ErrInvalidToken) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid or expired confirmation link"})
			return
		}
		h.logger.Error("confirm email", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "confirmation failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"detail": "Email confirmed. You can now log in."})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := h.accounts.ForgotPassword(strings.TrimSpace(req.Email)); err != nil {
		// The generic acknowledgment goes out regardless; existence of the
		// address must not be observable from the response.
		h.logger.Error("forgot password", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"detail": forgotAck})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID      string `json:"uid"`
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := h.accounts.ResetPassword(req.UID, req.Token, req.Password); err != nil {
		var ve *account.ValidationError
		switch {
		case errors.As(err, &ve):
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": ve.Fields})
		case errors.Is(err, account.ErrInvalidToken):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid or expired reset link"})
		default:
			h.logger.Error("reset password", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "reset failed"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"detail": "Password has been reset. You can now log in."})
}
