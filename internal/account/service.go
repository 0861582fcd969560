package account

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/pricecheck/internal/auth"
	"github.com/dukerupert/pricecheck/internal/model"
	"github.com/dukerupert/pricecheck/internal/store"
	"github.com/dukerupert/pricecheck/internal/token"
)

var (
	// ErrSignupDisabled means account creation is switched off by configuration.
	ErrSignupDisabled = errors.New("account creation is disabled")

	// ErrInvalidCredentials covers every login failure: unknown identifier,
	// wrong password, inactive account. Callers never learn which.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers bad ids and failed token verification on the
	// confirm and reset flows.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// ValidationError reports field-level signup problems. Nothing is created
// when validation fails.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Mailer sends the account lifecycle emails.
type Mailer interface {
	SendConfirmation(toEmail, firstName, uid, token string) error
	SendPasswordReset(toEmail, firstName, uid, token string) error
}

// Config controls account lifecycle behavior.
type Config struct {
	SignupEnabled bool
}

// Service owns the signup, confirmation, login, and password reset flows.
type Service struct {
	db     *sql.DB
	users  *store.UserStore
	tokens *token.Maker
	jwt    *auth.TokenManager
	mailer Mailer
	cfg    Config
	logger *slog.Logger
}

func NewService(db *sql.DB, users *store.UserStore, tokens *token.Maker, jwt *auth.TokenManager, mailer Mailer, cfg Config, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		users:  users,
		tokens: tokens,
		jwt:    jwt,
		mailer: mailer,
		cfg:    cfg,
		logger: logger,
	}
}

type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// Signup validates the request, creates an inactive account, and sends the
// confirmation email. The insert and the email send are one unit: if the
// email cannot be sent, the account row is rolled back so a half-created
// account is never observable.
func (s *Service) Signup(req SignupRequest) (*model.User, error) {
	if !s.cfg.SignupEnabled {
		return nil, ErrSignupDisabled
	}

	if err := s.validateSignup(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin signup tx: %w", err)
	}
	defer tx.Rollback()

	user, err := s.users.WithTx(tx).Create(req.Username, req.Email, string(hash), req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}

	uid := token.EncodeID(user.ID)
	confirmToken := s.tokens.Generate(token.PurposeConfirmEmail, user)
	if err := s.mailer.SendConfirmation(user.Email, user.FirstName, uid, confirmToken); err != nil {
		return nil, fmt.Errorf("send confirmation email: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit signup tx: %w", err)
	}

	s.logger.Info("account created", "username", user.Username)
	return user, nil
}

func (s *Service) validateSignup(req SignupRequest) error {
	fields := make(map[string]string)

	if req.Username == "" {
		fields["username"] = "Username is required."
	} else if !isAlnum(req.Username) {
		fields["username"] = "Username can only contain alphanumeric characters."
	} else {
		existing, err := s.users.GetByUsername(req.Username)
		if err != nil {
			return err
		}
		if existing != nil {
			fields["username"] = "Username already exists."
		}
	}

	if req.Email == "" {
		fields["email"] = "Email is required."
	} else {
		existing, err := s.users.GetByEmail(req.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			fields["email"] = "Email already exists."
		}
	}

	if msg := passwordProblem(req.Password); msg != "" {
		fields["password"] = msg
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// passwordProblem returns an empty string for acceptable passwords.
func passwordProblem(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters long."
	}
	var hasDigit, hasUpper bool
	for _, r := range password {
		if unicode.IsDigit(r) {
			hasDigit = true
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	if !hasDigit {
		return "Password must contain at least one number."
	}
	if !hasUpper {
		return "Password must contain at least one uppercase letter."
	}
	return ""
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// ConfirmEmail activates the account identified by the encoded id if the
// token matches the account's current pre-activation state. Activation
// changes that state, so the token only works once.
func (s *Service) ConfirmEmail(uid, confirmToken string) error {
	id, err := token.DecodeID(uid)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.users.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidToken
	}

	if !s.tokens.Verify(token.PurposeConfirmEmail, user, confirmToken) {
		return ErrInvalidToken
	}

	if err := s.users.Activate(user.ID); err != nil {
		return err
	}
	s.logger.Info("account activated", "username", user.Username)
	return nil
}

// TokenPair is the signed JWT pair handed out on login and refresh.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login verifies credentials and issues a token pair. The identifier may be a
// username or an email address; emails are resolved to the owning username
// first. Unknown identifiers, wrong passwords, and inactive accounts all
// produce the same generic failure.
func (s *Service) Login(identifier, password string) (*TokenPair, error) {
	var user *model.User
	var err error

	if strings.Contains(identifier, "@") {
		user, err = s.users.GetByEmail(identifier)
	} else {
		user, err = s.users.GetByUsername(identifier)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(user.ID, time.Now()); err != nil {
		return nil, err
	}

	access, refresh, err := s.jwt.IssuePair(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *Service) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	id, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := s.jwt.IssuePair(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// ForgotPassword sends a reset email when the address belongs to an account.
// It reports success either way; callers answer with the same generic
// acknowledgment so addresses cannot be probed.
func (s *Service) ForgotPassword(email string) error {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	uid := token.EncodeID(user.ID)
	resetToken := s.tokens.Generate(token.PurposeResetPassword, user)
	if err := s.mailer.SendPasswordReset(user.Email, user.FirstName, uid, resetToken); err != nil {
		// Still acknowledge generically; the address exists and that must
		// not be observable from the outside.
		s.logger.Error("send reset email", "error", err)
	}
	return nil
}

// ResetPassword replaces the password hash after verifying the state-bound
// token. The password change itself invalidates the token.
func (s *Service) ResetPassword(uid, resetToken, newPassword string) error {
	id, err := token.DecodeID(uid)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.users.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidToken
	}

	if !s.tokens.Verify(token.PurposeResetPassword, user, resetToken) {
		return ErrInvalidToken
	}

	if msg := passwordProblem(newPassword); msg != "" {
		return &ValidationError{Fields: map[string]string{"password": msg}}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(user.ID, string(hash)); err != nil {
		return err
	}
	s.logger.Info("password reset", "username", user.Username)
	return nil
}
