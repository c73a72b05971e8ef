package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"atlas/internal/entity"

	"gorm.io/gorm"
)

// fakeStore is an in-memory CredentialStore and AuditSink.
type fakeStore struct {
	mu      sync.Mutex
	users   map[uint]*entity.DbUser
	entries []entity.DbAuditEntry

	failAudit bool
}

func newFakeStore(users ...*entity.DbUser) *fakeStore {
	s := &fakeStore{users: make(map[uint]*entity.DbUser)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeStore) GetUserByEmail(_ context.Context, email string) (*entity.DbUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeStore) GetUserByID(_ context.Context, id uint) (*entity.DbUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeStore) UpdateUserPasswordHash(_ context.Context, id uint, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (s *fakeStore) UpdateUserLastLogin(_ context.Context, id uint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (s *fakeStore) CreateAuditEntry(_ context.Context, entry *entity.DbAuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAudit {
		return errors.New("audit sink down")
	}
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *fakeStore) lastEntry(t *testing.T) entity.DbAuditEntry {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		t.Fatal("expected at least one audit entry")
	}
	return s.entries[len(s.entries)-1]
}

func newTestService(t *testing.T, store *fakeStore) *Service {
	t.Helper()
	mgr, err := NewManager("test-secret", "atlas", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error creating manager: %v", err)
	}
	return NewService(store, store, mgr)
}

func testUser(t *testing.T, id uint, email, password string, active bool) *entity.DbUser {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("unexpected error hashing password: %v", err)
	}
	return &entity.DbUser{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		IsActive:     active,
	}
}

func TestLoginSuccess(t *testing.T) {
	store := newFakeStore(testUser(t, 42, "admin@atlas.com", "Str0ng!Pass", true))
	svc := newTestService(t, store)

	user, token, expiresAt, err := svc.Login(context.Background(), "  Admin@Atlas.COM ", "Str0ng!Pass", "10.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("unexpected login error: %v", err)
	}
	if user.ID != 42 {
		t.Fatalf("expected user 42, got %d", user.ID)
	}
	if user.LastLoginAt == nil {
		t.Fatal("expected lastLoginAt to be set")
	}
	if expiresAt.Before(time.Now()) {
		t.Fatal("expected future expiry")
	}

	claims, err := svc.tokens.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error parsing issued token: %v", err)
	}
	if claims.Subject != "42" {
		t.Fatalf("expected subject 42, got %s", claims.Subject)
	}

	entry := store.lastEntry(t)
	if entry.Action != entity.AuditActionLogin || entry.Outcome != entity.AuditOutcomeSuccess {
		t.Fatalf("expected LOGIN success entry, got %s/%s", entry.Action, entry.Outcome)
	}
	if entry.Actor != "42" || entry.IP != "10.0.0.1" || entry.UserAgent != "go-test" {
		t.Fatalf("unexpected entry attribution: %+v", entry)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	store := newFakeStore(testUser(t, 1, "admin@atlas.com", "Str0ng!Pass", true))
	svc := newTestService(t, store)

	_, _, _, unknownErr := svc.Login(context.Background(), "nobody@atlas.com", "whatever", "", "")
	_, _, _, wrongErr := svc.Login(context.Background(), "admin@atlas.com", "wrong-password", "", "")

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatal("expected identical errors for unknown email and wrong password")
	}

	// The audit trail does distinguish the two.
	if store.entries[0].Actor != entity.AuditActorUnknown {
		t.Fatalf("expected unknown actor, got %s", store.entries[0].Actor)
	}
	if store.entries[1].Actor != "1" {
		t.Fatalf("expected actor 1, got %s", store.entries[1].Actor)
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	store := newFakeStore(testUser(t, 1, "gone@atlas.com", "Str0ng!Pass", false))
	svc := newTestService(t, store)

	_, _, _, err := svc.Login(context.Background(), "gone@atlas.com", "Str0ng!Pass", "", "")
	if !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}

	entry := store.lastEntry(t)
	if entry.Outcome != entity.AuditOutcomeFailure || entry.Reason != reasonAccountInactive {
		t.Fatalf("expected inactive failure entry, got %+v", entry)
	}
}

func TestLoginSurvivesAuditSinkFailure(t *testing.T) {
	store := newFakeStore(testUser(t, 1, "admin@atlas.com", "Str0ng!Pass", true))
	store.failAudit = true
	svc := newTestService(t, store)

	if _, _, _, err := svc.Login(context.Background(), "admin@atlas.com", "Str0ng!Pass", "", ""); err != nil {
		t.Fatalf("expected login to succeed despite audit failure, got %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	store := newFakeStore(testUser(t, 9, "admin@atlas.com", "Str0ng!Pass", true))
	svc := newTestService(t, store)

	_, token, _, err := svc.Login(context.Background(), "admin@atlas.com", "Str0ng!Pass", "", "")
	if err != nil {
		t.Fatalf("unexpected login error: %v", err)
	}

	svc.Logout(context.Background(), token, "10.0.0.1", "go-test")
	svc.Logout(context.Background(), token, "10.0.0.1", "go-test")
	svc.Logout(context.Background(), "garbage-token", "", "")

	logouts := 0
	for _, entry := range store.entries {
		if entry.Action == entity.AuditActionLogout {
			logouts++
			if entry.Actor != "9" {
				t.Fatalf("expected logout attributed to 9, got %s", entry.Actor)
			}
		}
	}
	// Two decodable logouts recorded; the garbage token records nothing.
	if logouts != 2 {
		t.Fatalf("expected 2 logout entries, got %d", logouts)
	}
}

func TestChangePasswordPreconditionOrder(t *testing.T) {
	store := newFakeStore(testUser(t, 5, "admin@atlas.com", "Str0ng!Pass", true))
	svc := newTestService(t, store)
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, 5, "", "New1!Pass", "New1!Pass", "", ""); !errors.Is(err, ErrMissingPasswordFields) {
		t.Fatalf("expected ErrMissingPasswordFields, got %v", err)
	}
	if err := svc.ChangePassword(ctx, 5, "Str0ng!Pass", "New1!Pass", "Other1!Pass", "", ""); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}

	var weak *WeakPasswordError
	if err := svc.ChangePassword(ctx, 5, "Str0ng!Pass", "short1!", "short1!", "", ""); !errors.As(err, &weak) {
		t.Fatalf("expected WeakPasswordError, got %v", err)
	} else if weak.Rule != PasswordRuleLength {
		t.Fatalf("expected length rule, got %s", weak.Rule)
	}

	if err := svc.ChangePassword(ctx, 5, "not-the-password", "New1!Pass", "New1!Pass", "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestChangePasswordSuccess(t *testing.T) {
	store := newFakeStore(testUser(t, 5, "admin@atlas.com", "Str0ng!Pass", true))
	svc := newTestService(t, store)

	if err := svc.ChangePassword(context.Background(), 5, "Str0ng!Pass", "New1!Pass", "New1!Pass", "10.0.0.1", "go-test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Old password no longer verifies, the new one does.
	if _, _, _, err := svc.Login(context.Background(), "admin@atlas.com", "Str0ng!Pass", "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password to be rejected, got %v", err)
	}
	if _, _, _, err := svc.Login(context.Background(), "admin@atlas.com", "New1!Pass", "", ""); err != nil {
		t.Fatalf("expected new password to work, got %v", err)
	}

	found := false
	for _, entry := range store.entries {
		if entry.Action == entity.AuditActionChangePassword && entry.Outcome == entity.AuditOutcomeSuccess {
			found = true
		}
	}
	if !found {
		t.Fatal("expected CHANGE_PASSWORD success audit entry")
	}
}
