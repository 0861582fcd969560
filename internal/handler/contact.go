package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/pricecheck/internal/captcha"
	"github.com/dukerupert/pricecheck/internal/email"
	"github.com/dukerupert/pricecheck/internal/store"
)

// ContactHandler serves the public contact form and mailing list signup.
type ContactHandler struct {
	messages     *store.MessageStore
	emailList    *store.EmailListStore
	captcha      *captcha.Verifier
	mailer       *email.Client
	contactEmail string
	logger       *slog.Logger
}

func NewContactHandler(messages *store.MessageStore, emailList *store.EmailListStore, verifier *captcha.Verifier, mailer *email.Client, contactEmail string, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		messages:     messages,
		emailList:    emailList,
		captcha:      verifier,
		mailer:       mailer,
		contactEmail: contactEmail,
		logger:       logger,
	}
}

func (h *ContactHandler) ContactUs(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Subject   string `json:"subject"`
		Message   string `json:"message"`
		Recaptcha string `json:"recaptcha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	if req.Email == "" || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and message are required"})
		return
	}

	ok, err := h.captcha.Verify(r.Context(), req.Recaptcha)
	if err != nil {
		h.logger.Error("captcha verify", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "captcha verification failed"})
		return
	}
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "captcha verification failed"})
		return
	}

	reference := uuid.NewString()
	msg, err := h.messages.Create(reference, req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		h.logger.Error("store contact message", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to submit message"})
		return
	}

	// Notification failure is logged but does not fail the submission; the
	// message is already stored under its reference.
	if h.mailer.Configured() && h.contactEmail != "" {
		if err := h.mailer.SendContactNotification(h.contactEmail, reference, req.Name, req.Email, req.Subject, req.Message); err != nil {
			h.logger.Error("contact notification", "reference", reference, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"reference": msg.Reference,
		"detail":    "Message received. We will get back to you soon.",
	})
}

func (h *ContactHandler) EmailListSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Origin string `json:"origin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
		return
	}

	entry, err := h.emailList.Add(strings.TrimSpace(req.Name), req.Email, strings.TrimSpace(req.Origin))
	if err != nil {
		h.logger.Error("email list signup", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to sign up"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"email":  entry.Email,
		"detail": "You are on the list.",
	})
}
