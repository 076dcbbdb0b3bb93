package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/danmigwi24/credential-service/internal/core/domain"
	"github.com/danmigwi24/credential-service/internal/core/ports"
	"github.com/danmigwi24/credential-service/internal/pkg/metrics"
)

const (
	defaultTokenTTL = 24 * time.Hour

	// dummyPassword is hashed at construction and verified against when a
	// login names an unknown email, so both failure paths spend the same
	// bcrypt time.
	dummyPassword = "credential-service/dummy-password"
)

// UserService implements registration, login, lookup and password change.
type UserService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	issuer   ports.TokenIssuer
	limiter  ports.LoginLimiter // optional
	log      zerolog.Logger
	tokenTTL time.Duration

	dummyHash string
}

// NewUserService wires the service. limiter may be nil to disable login
// throttling; tokenTTL <= 0 falls back to 24h.
func NewUserService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
	limiter ports.LoginLimiter,
	log zerolog.Logger,
	tokenTTL time.Duration,
) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	s := &UserService{
		repo:     repo,
		hasher:   hasher,
		issuer:   issuer,
		limiter:  limiter,
		log:      log,
		tokenTTL: tokenTTL,
	}
	hash, err := hasher.Hash(context.Background(), dummyPassword)
	if err != nil {
		log.Warn().Err(err).Msg("failed to prepare dummy hash")
	}
	s.dummyHash = hash
	return s
}

// Register creates a new account with the default role.
func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (_ *ports.UserProfile, err error) {
	defer func() { metrics.RegistrationsTotal.WithLabelValues(result(err)).Inc() }()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := check(registerRules{Username: in.Username, Email: in.Email, Password: in.Password}); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, s.translate("register: find by email", err)
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, s.translate("register: hash password", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, s.translate("register: before insert", err)
	}
	// The insert is not abandoned once issued; the store bounds it.
	user, err := s.repo.Insert(context.WithoutCancel(ctx), domain.NewUser{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Active:       true,
		Role:         domain.RoleUser,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			s.log.Info().Msg("registration lost uniqueness race")
		}
		return nil, s.translate("register: insert", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return toProfile(user), nil
}

// Login authenticates email and password and issues a bearer token. Unknown
// emails, wrong passwords and inactive accounts all fail with
// domain.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, in ports.LoginInput) (_ *ports.LoginResult, err error) {
	defer func() { metrics.LoginsTotal.WithLabelValues(result(err)).Inc() }()

	in.Email = normalizeEmail(in.Email)
	if err := check(loginRules{Email: in.Email, Password: in.Password}); err != nil {
		return nil, err
	}

	if s.limiter != nil {
		blocked, err := s.limiter.Blocked(ctx, in.Email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
		} else if blocked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, in.Email)
	if errors.Is(err, domain.ErrNotFound) {
		if err := s.burnVerify(ctx, in.Password); err != nil {
			return nil, s.translate("login: verify password", err)
		}
		s.recordFailure(ctx, in.Email)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, s.translate("login: find by email", err)
	}

	ok, err := s.hasher.Verify(ctx, in.Password, user.PasswordHash)
	if err != nil {
		return nil, s.translate("login: verify password", err)
	}
	if !ok || !user.Active {
		s.recordFailure(ctx, in.Email)
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(ports.Claims{ID: user.ID, Username: user.Username, Email: user.Email}, s.tokenTTL)
	if err != nil {
		return nil, s.translate("login: issue token", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, in.Email); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to reset login attempts")
		}
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.LoginResult{
		User:      *toProfile(user),
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, id string) (*ports.UserProfile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate("get user", err)
	}
	return toProfile(user), nil
}

// ChangePassword replaces the password of user in.ID after checking the
// current one. A wrong current password leaves the account untouched.
func (s *UserService) ChangePassword(ctx context.Context, in ports.ChangePasswordInput) (_ *ports.UserProfile, err error) {
	defer func() { metrics.PasswordChangesTotal.WithLabelValues(result(err)).Inc() }()

	if err := check(changePasswordRules{OldPassword: in.OldPassword, NewPassword: in.NewPassword}); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(in.ID); err != nil {
		return nil, domain.ErrNotFound
	}

	user, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, s.translate("change password: find by id", err)
	}

	ok, err := s.hasher.Verify(ctx, in.OldPassword, user.PasswordHash)
	if err != nil {
		return nil, s.translate("change password: verify password", err)
	}
	if !ok {
		return nil, domain.ErrInvalidPassword
	}

	hash, err := s.hasher.Hash(ctx, in.NewPassword)
	if err != nil {
		return nil, s.translate("change password: hash password", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, s.translate("change password: before update", err)
	}
	updated, err := s.repo.UpdateByID(context.WithoutCancel(ctx), in.ID, domain.UserUpdate{PasswordHash: &hash})
	if err != nil {
		return nil, s.translate("change password: update", err)
	}

	s.log.Info().Str("user_id", updated.ID).Msg("password changed")
	return toProfile(updated), nil
}

// burnVerify spends one bcrypt verification against the dummy hash. Only a
// hasher failure, such as the caller's deadline passing, is returned.
func (s *UserService) burnVerify(ctx context.Context, password string) error {
	if s.dummyHash == "" {
		return nil
	}
	_, err := s.hasher.Verify(ctx, password, s.dummyHash)
	return err
}

func (s *UserService) recordFailure(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

// translate maps collaborator failures onto the error taxonomy. Not-found and
// uniqueness errors pass through; timeouts and outages become
// domain.ErrUnavailable; anything else is logged and hidden behind
// domain.ErrInternal.
func (s *UserService) translate(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrAlreadyExists):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, domain.ErrUnavailable):
		s.log.Warn().Err(err).Str("op", op).Msg("dependency unavailable")
		return fmt.Errorf("%s: %w", op, domain.ErrUnavailable)
	default:
		s.log.Error().Err(err).Str("op", op).Msg("unexpected failure")
		return fmt.Errorf("%s: %w", op, domain.ErrInternal)
	}
}

func result(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, domain.ErrUnavailable), errors.Is(err, domain.ErrInternal):
		return metrics.ResultError
	default:
		return metrics.ResultFailure
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toProfile(u *domain.User) *ports.UserProfile {
	return &ports.UserProfile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Active:    u.Active,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
