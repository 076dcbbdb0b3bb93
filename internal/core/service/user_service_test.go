package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/danmigwi24/credential-service/internal/core/domain"
	"github.com/danmigwi24/credential-service/internal/core/ports"
	"github.com/danmigwi24/credential-service/internal/infrastructure/security"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	inserts int
	updates int

	// blindPreCheck makes FindByEmail always miss, simulating the window
	// between the pre-check and the insert.
	blindPreCheck bool
	findErr       error
	insertErr     error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.blindPreCheck {
		return nil, domain.ErrNotFound
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

// Insert enforces email and username uniqueness atomically, like a unique index.
func (r *stubUserRepo) Insert(_ context.Context, nu domain.NewUser) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	for _, u := range r.users {
		if u.Email == nu.Email || u.Username == nu.Username {
			return nil, domain.ErrAlreadyExists
		}
	}
	now := time.Now().UTC()
	u := &domain.User{
		ID:           uuid.NewString(),
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		Active:       nu.Active,
		Role:         nu.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[u.ID] = u
	r.inserts++
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateByID(_ context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	u.UpdatedAt = time.Now().UTC()
	r.updates++
	return cloneUser(u), nil
}

func (r *stubUserRepo) countByEmail(email string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.users {
		if u.Email == email {
			n++
		}
	}
	return n
}

type stubLimiter struct {
	blocked    bool
	blockedErr error
	checks     []string
	failures   []string
	resets     []string
}

func (l *stubLimiter) Blocked(_ context.Context, email string) (bool, error) {
	l.checks = append(l.checks, email)
	return l.blocked, l.blockedErr
}

func (l *stubLimiter) RecordFailure(_ context.Context, email string) error {
	l.failures = append(l.failures, email)
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, email string) error {
	l.resets = append(l.resets, email)
	return nil
}

// cancellingHasher cancels the request context once the hash is computed,
// simulating a caller that goes away before the write. cancel is set after
// the service is built so the dummy hash does not trigger it.
type cancellingHasher struct {
	ports.PasswordHasher
	cancel context.CancelFunc
}

func (h *cancellingHasher) Hash(ctx context.Context, password string) (string, error) {
	hash, err := h.PasswordHasher.Hash(ctx, password)
	if h.cancel != nil {
		h.cancel()
	}
	return hash, err
}

// slowVerifyHasher blocks Verify until the caller's context ends.
type slowVerifyHasher struct {
	ports.PasswordHasher
}

func (h slowVerifyHasher) Verify(ctx context.Context, _, _ string) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}

// countingHasher counts Hash calls.
type countingHasher struct {
	ports.PasswordHasher
	mu     sync.Mutex
	hashes int
}

func (h *countingHasher) Hash(ctx context.Context, password string) (string, error) {
	h.mu.Lock()
	h.hashes++
	h.mu.Unlock()
	return h.PasswordHasher.Hash(ctx, password)
}

type failingHasher struct {
	ports.PasswordHasher
	err error
}

func (h failingHasher) Hash(context.Context, string) (string, error) { return "", h.err }

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newHasher(t *testing.T) *security.BcryptHasher {
	t.Helper()
	h, err := security.NewBcryptHasher(bcrypt.MinCost, nil)
	if err != nil {
		t.Fatalf("NewBcryptHasher: %v", err)
	}
	return h
}

func newIssuer(t *testing.T) *security.JWTIssuer {
	t.Helper()
	i, err := security.NewJWTIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewJWTIssuer: %v", err)
	}
	return i
}

func newTestService(t *testing.T, repo *stubUserRepo) *UserService {
	t.Helper()
	return NewUserService(repo, newHasher(t), newIssuer(t), nil, zerolog.Nop(), time.Hour)
}

func mustRegister(t *testing.T, svc *UserService, username, email, password string) *ports.UserProfile {
	t.Helper()
	u, err := svc.Register(context.Background(), ports.RegisterInput{Username: username, Email: email, Password: password})
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return u
}

func login(svc *UserService, email, password string) (*ports.LoginResult, error) {
	return svc.Login(context.Background(), ports.LoginInput{Email: email, Password: password})
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestUserService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	user := mustRegister(t, svc, "alice", "A@X.com ", "secret1")

	if user.ID == "" || user.Username != "alice" {
		t.Fatalf("unexpected profile: %+v", user)
	}
	if user.Email != "a@x.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Role != domain.RoleUser || !user.Active {
		t.Fatalf("expected active user role, got %+v", user)
	}

	stored := repo.users[user.ID]
	if stored.PasswordHash == "" || stored.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	mustRegister(t, svc, "alice", "a@x.com", "secret1")
	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice2", Email: "a@x.com", Password: "secret2"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if n := repo.countByEmail("a@x.com"); n != 1 {
		t.Fatalf("expected exactly one user with email, got %d", n)
	}
}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	mustRegister(t, svc, "alice", "a@x.com", "secret1")
	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Email: "b@x.com", Password: "secret2"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUserService_Register_StoreRaceIsAuthoritative(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	mustRegister(t, svc, "alice", "a@x.com", "secret1")

	repo.blindPreCheck = true
	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice2", Email: "a@x.com", Password: "secret2"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists from store, got %v", err)
	}
	if repo.inserts != 1 {
		t.Fatalf("expected no retry, inserts = %d", repo.inserts)
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	svc := newTestService(t, newStubUserRepo())

	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "al", Email: "not-an-email", Password: "123"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *domain.ValidationError, got %T", err)
	}
	got := map[string]bool{}
	for _, f := range ve.Fields {
		got[f.Field] = true
	}
	for _, field := range []string{"username", "email", "password"} {
		if !got[field] {
			t.Fatalf("expected %s in failing fields, got %+v", field, ve.Fields)
		}
	}

	long := strings.Repeat("a", 31)
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: long, Email: "a@x.com", Password: "secret1"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("31-char username: expected ErrValidation, got %v", err)
	}
	tooLong := strings.Repeat("é", 40) // 80 bytes
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Email: "a@x.com", Password: tooLong}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("80-byte password: expected ErrValidation, got %v", err)
	}
}

func TestUserService_Register_ConcurrentSameEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		others    []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Register(context.Background(), ports.RegisterInput{
				Username: "user" + string(rune('a'+i)) + "xx",
				Email:    "same@x.com",
				Password: "secret1",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrAlreadyExists):
				conflicts++
			default:
				others = append(others, err)
			}
		}(i)
	}
	wg.Wait()

	if len(others) > 0 {
		t.Fatalf("unexpected errors: %v", others)
	}
	if successes != 1 || conflicts != n-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d and %d", n-1, successes, conflicts)
	}
	if c := repo.countByEmail("same@x.com"); c != 1 {
		t.Fatalf("expected one stored user, got %d", c)
	}
}

func TestUserService_Register_CancelledBeforeInsert(t *testing.T) {
	repo := newStubUserRepo()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hasher := &cancellingHasher{PasswordHasher: newHasher(t)}
	svc := NewUserService(repo, hasher, newIssuer(t), nil, zerolog.Nop(), time.Hour)
	hasher.cancel = cancel
	_, err := svc.Register(ctx, ports.RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"})
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if repo.inserts != 0 {
		t.Fatalf("insert must not run after cancellation, inserts = %d", repo.inserts)
	}
}

func TestUserService_Register_HashTimeout(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, failingHasher{err: context.DeadlineExceeded}, newIssuer(t), nil, zerolog.Nop(), time.Hour)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"})
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if repo.inserts != 0 {
		t.Fatalf("expected no insert, got %d", repo.inserts)
	}
}

func TestUserService_Register_StoreFailures(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	repo.findErr = errors.Join(domain.ErrUnavailable, errors.New("socket closed"))
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"}); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	repo.findErr = errors.New("disk on fire")
	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"})
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if strings.Contains(err.Error(), "disk on fire") {
		t.Fatalf("internal cause leaked into error: %v", err)
	}

	repo.findErr = nil
	repo.insertErr = fmt.Errorf("insert user: %w", context.DeadlineExceeded)
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"}); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on insert timeout, got %v", err)
	}
	if c := repo.countByEmail("a@x.com"); c != 0 {
		t.Fatalf("failed insert must not store a user, got %d", c)
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestUserService_Login_Success(t *testing.T) {
	svc := newTestService(t, newStubUserRepo())
	user := mustRegister(t, svc, "carol", "carol@example.com", "s3cret!")

	res, err := login(svc, "Carol@Example.com", "s3cret!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}
	if res.User.ID != user.ID || res.User.Username != "carol" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if !res.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected expiry in the future, got %v", res.ExpiresAt)
	}

	claims, err := svc.issuer.Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	want := ports.Claims{ID: user.ID, Username: "carol", Email: "carol@example.com"}
	if claims != want {
		t.Fatalf("claims = %+v, want %+v", claims, want)
	}
}

func TestUserService_Login_FailuresAreIndistinguishable(t *testing.T) {
	svc := newTestService(t, newStubUserRepo())
	mustRegister(t, svc, "alice", "a@x.com", "secret1")

	_, wrongPassword := login(svc, "a@x.com", "wrong")
	_, unknownEmail := login(svc, "missing@x.com", "anything")

	if !errors.Is(wrongPassword, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("errors differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestUserService_Login_InactiveUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	user := mustRegister(t, svc, "alice", "a@x.com", "secret1")
	repo.users[user.ID].Active = false

	if _, err := login(svc, "a@x.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_Login_Validation(t *testing.T) {
	svc := newTestService(t, newStubUserRepo())
	if _, err := login(svc, "", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUserService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{blocked: true}
	svc := NewUserService(repo, newHasher(t), newIssuer(t), limiter, zerolog.Nop(), time.Hour)
	mustRegister(t, svc, "alice", "a@x.com", "secret1")

	if _, err := login(svc, "A@x.com", "secret1"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if len(limiter.checks) != 1 || limiter.checks[0] != "a@x.com" {
		t.Fatalf("expected one normalized check, got %v", limiter.checks)
	}
}

func TestUserService_Login_CountsOnlyFailures(t *testing.T) {
	limiter := &stubLimiter{}
	svc := NewUserService(newStubUserRepo(), newHasher(t), newIssuer(t), limiter, zerolog.Nop(), time.Hour)
	mustRegister(t, svc, "alice", "a@x.com", "secret1")

	if _, err := login(svc, "a@x.com", "wrong1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := login(svc, "ghost@x.com", "wrong1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(limiter.failures) != 2 || limiter.failures[0] != "a@x.com" || limiter.failures[1] != "ghost@x.com" {
		t.Fatalf("expected a failure per bad login, got %v", limiter.failures)
	}
	if len(limiter.resets) != 0 {
		t.Fatalf("failed login must not reset, got %v", limiter.resets)
	}

	if _, err := login(svc, "a@x.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if len(limiter.failures) != 2 {
		t.Fatalf("successful login must not count as a failure, got %v", limiter.failures)
	}
	if len(limiter.resets) != 1 {
		t.Fatalf("expected one reset, got %v", limiter.resets)
	}
}

func TestUserService_Login_LimiterFailsOpen(t *testing.T) {
	limiter := &stubLimiter{blockedErr: errors.New("redis down")}
	svc := NewUserService(newStubUserRepo(), newHasher(t), newIssuer(t), limiter, zerolog.Nop(), time.Hour)
	mustRegister(t, svc, "alice", "a@x.com", "secret1")

	if _, err := login(svc, "a@x.com", "secret1"); err != nil {
		t.Fatalf("expected login to succeed with limiter down, got %v", err)
	}
}

func TestUserService_Login_UnknownEmailHonoursDeadline(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), slowVerifyHasher{PasswordHasher: newHasher(t)}, newIssuer(t), nil, zerolog.Nop(), time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := svc.Login(ctx, ports.LoginInput{Email: "ghost@x.com", Password: "secret1"})
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("login ignored the caller deadline, took %v", elapsed)
	}
}

func TestUserService_DummyHashPreparedOnce(t *testing.T) {
	hasher := &countingHasher{PasswordHasher: newHasher(t)}
	svc := NewUserService(newStubUserRepo(), hasher, newIssuer(t), nil, zerolog.Nop(), time.Hour)
	if hasher.hashes != 1 || svc.dummyHash == "" {
		t.Fatalf("expected the dummy hash at construction, hashes = %d", hasher.hashes)
	}

	for i := 0; i < 3; i++ {
		if _, err := login(svc, "ghost@x.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	}
	if hasher.hashes != 1 {
		t.Fatalf("unknown-email logins must not hash, hashes = %d", hasher.hashes)
	}
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

func TestUserService_Get(t *testing.T) {
	svc := newTestService(t, newStubUserRepo())
	user := mustRegister(t, svc, "alice", "a@x.com", "secret1")

	got, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if *got != *user {
		t.Fatalf("Get = %+v, want %+v", got, user)
	}

	if _, err := svc.Get(context.Background(), uuid.NewString()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown id: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "not-a-uuid"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("malformed id: expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ChangePassword
// ---------------------------------------------------------------------------

func TestUserService_ChangePassword_WrongOldPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	user := mustRegister(t, svc, "alice", "a@x.com", "secret1")

	_, err := svc.ChangePassword(context.Background(), ports.ChangePasswordInput{ID: user.ID, OldPassword: "wrongold", NewPassword: "newpass1"})
	if !errors.Is(err, domain.ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if repo.updates != 0 {
		t.Fatalf("expected no update, got %d", repo.updates)
	}
	if _, err := login(svc, "a@x.com", "secret1"); err != nil {
		t.Fatalf("old password must still work: %v", err)
	}
}

func TestUserService_ChangePassword_Success(t *testing.T) {
	svc := newTestService(t, newStubUserRepo())
	user := mustRegister(t, svc, "alice", "a@x.com", "secret1")

	updated, err := svc.ChangePassword(context.Background(), ports.ChangePasswordInput{ID: user.ID, OldPassword: "secret1", NewPassword: "newpass1"})
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if updated.ID != user.ID {
		t.Fatalf("unexpected user: %+v", updated)
	}

	if _, err := login(svc, "a@x.com", "newpass1"); err != nil {
		t.Fatalf("new password must work: %v", err)
	}
	if _, err := login(svc, "a@x.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_ChangePassword_NotFound(t *testing.T) {
	svc := newTestService(t, newStubUserRepo())

	_, err := svc.ChangePassword(context.Background(), ports.ChangePasswordInput{ID: uuid.NewString(), OldPassword: "secret1", NewPassword: "newpass1"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_ChangePassword_Validation(t *testing.T) {
	svc := newTestService(t, newStubUserRepo())
	user := mustRegister(t, svc, "alice", "a@x.com", "secret1")

	cases := []ports.ChangePasswordInput{
		{ID: user.ID, OldPassword: "secret1", NewPassword: "short"},
		{ID: user.ID, OldPassword: "secret1", NewPassword: "secret1"},
		{ID: user.ID, OldPassword: "", NewPassword: "newpass1"},
	}
	for _, in := range cases {
		if _, err := svc.ChangePassword(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%+v: expected ErrValidation, got %v", in, err)
		}
	}
}
