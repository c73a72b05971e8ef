package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"atlas/internal/entity"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Audit failure reason codes. Internal only; they never reach a client.
const (
	reasonUserNotFound    = "user_not_found"
	reasonAccountInactive = "account_inactive"
	reasonInvalidPassword = "invalid_password"
)

// CredentialStore is the narrow contract the auth core holds against the
// user store. The core issues no queries beyond these four operations.
type CredentialStore interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	UpdateUserPasswordHash(ctx context.Context, id uint, hash string) error
	UpdateUserLastLogin(ctx context.Context, id uint, at time.Time) error
}

// Service orchestrates login, logout, and password changes. It is the only
// component that touches the credential store and the audit sink.
type Service struct {
	store  CredentialStore
	audit  AuditSink
	tokens *Manager
}

// NewService creates the auth service. The store handle is owned by process
// start-up and injected here once.
func NewService(store CredentialStore, audit AuditSink, tokens *Manager) *Service {
	return &Service{
		store:  store,
		audit:  audit,
		tokens: tokens,
	}
}

// NormalizeEmail trims and lowercases an email for lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login verifies the credentials and issues a token. Unknown email, wrong
// password, and disabled account all fail without telling the caller which
// check tripped; only the audit trail distinguishes them.
func (s *Service) Login(ctx context.Context, email, password, ip, userAgent string) (*entity.DbUser, string, time.Time, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" || password == "" {
		s.recordAudit(entity.AuditActorUnknown, entity.AuditActionLogin, entity.AuditOutcomeFailure, reasonUserNotFound, ip, userAgent)
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, normalized)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).Error("failed to look up user for login")
		}
		s.recordAudit(entity.AuditActorUnknown, entity.AuditActionLogin, entity.AuditOutcomeFailure, reasonUserNotFound, ip, userAgent)
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	actor := fmt.Sprintf("%d", user.ID)

	if !user.IsActive {
		s.recordAudit(actor, entity.AuditActionLogin, entity.AuditOutcomeFailure, reasonAccountInactive, ip, userAgent)
		return nil, "", time.Time{}, ErrAccountInactive
	}

	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		s.recordAudit(actor, entity.AuditActionLogin, entity.AuditOutcomeFailure, reasonInvalidPassword, ip, userAgent)
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.store.UpdateUserLastLogin(ctx, user.ID, now); err != nil {
		// The token is complete without it; a stale lastLoginAt is not worth
		// failing the login over.
		logrus.WithError(err).WithField("user_id", user.ID).Warn("failed to update last login")
	} else {
		user.LastLoginAt = &now
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to generate token")
		return nil, "", time.Time{}, fmt.Errorf("generate token: %w", err)
	}

	s.recordAudit(actor, entity.AuditActionLogin, entity.AuditOutcomeSuccess, "", ip, userAgent)
	return user, token, expiresAt, nil
}

// Logout is advisory client-side cleanup, not server-enforced revocation:
// the token stays valid until its natural expiry. It never fails, whatever
// state the token is in; a decodable token gets a LOGOUT audit entry
// attributed to its subject.
func (s *Service) Logout(ctx context.Context, token, ip, userAgent string) {
	if strings.TrimSpace(token) == "" {
		return
	}
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return
	}
	s.recordAudit(claims.Subject, entity.AuditActionLogout, entity.AuditOutcomeSuccess, "", ip, userAgent)
}

// ChangePassword validates the new password, verifies the current one, and
// persists a fresh hash. Precondition order: field presence, confirmation
// match, then policy; only after all of those does the current password get
// verified.
func (s *Service) ChangePassword(ctx context.Context, userID uint, current, newPassword, confirm, ip, userAgent string) error {
	if current == "" || newPassword == "" || confirm == "" {
		return ErrMissingPasswordFields
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if err := ValidatePasswordPolicy(newPassword); err != nil {
		return err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("load user: %w", err)
	}

	actor := fmt.Sprintf("%d", user.ID)

	if err := VerifyPassword(user.PasswordHash, current); err != nil {
		s.recordAudit(actor, entity.AuditActionChangePassword, entity.AuditOutcomeFailure, reasonInvalidPassword, ip, userAgent)
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdateUserPasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("persist password: %w", err)
	}

	s.recordAudit(actor, entity.AuditActionChangePassword, entity.AuditOutcomeSuccess, "", ip, userAgent)
	return nil
}
