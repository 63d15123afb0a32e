package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cronicas-api/internal/model"
	"cronicas-api/internal/pkg/jwtutil"
	"cronicas-api/internal/repository"
)

// bcrypt ignores input past 72 bytes.
const maxPasswordBytes = 72

// LoginThrottle counts failed logins per username.
type LoginThrottle interface {
	// Blocked reports whether username is locked out and for how long.
	Blocked(ctx context.Context, username string) (time.Duration, bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

type AuthService struct {
	userRepo      *repository.UserRepository
	throttle      LoginThrottle
	audit         auditor
	jwtSecret     string
	jwtExpiration time.Duration
	bcryptCost    int
	now           func() time.Time
}

type AuthConfig struct {
	JWTSecret     string
	JWTExpiration time.Duration
	BcryptCost    int
}

type RegisterInput struct {
	Nombre   string
	Apellido string
	Username string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	Token string
	User  *model.User
}

// NewAuthService wires the identity service. throttle and publisher may be nil.
func NewAuthService(
	userRepo *repository.UserRepository,
	throttle LoginThrottle,
	publisher EventPublisher,
	log *slog.Logger,
	cfg AuthConfig,
) *AuthService {
	if cfg.JWTExpiration <= 0 {
		cfg.JWTExpiration = time.Hour
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:      userRepo,
		throttle:      throttle,
		audit:         newAuditor(publisher, log),
		jwtSecret:     cfg.JWTSecret,
		jwtExpiration: cfg.JWTExpiration,
		bcryptCost:    cfg.BcryptCost,
		now:           time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	nombre := strings.TrimSpace(input.Nombre)
	apellido := strings.TrimSpace(input.Apellido)
	username := strings.TrimSpace(input.Username)

	switch {
	case nombre == "":
		return nil, invalid("nombre", "is required")
	case apellido == "":
		return nil, invalid("apellido", "is required")
	case username == "":
		return nil, invalid("username", "is required")
	case input.Password == "":
		return nil, invalid("password", "is required")
	case len(input.Password) > maxPasswordBytes:
		return nil, invalid("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Nombre:       nombre,
		Apellido:     apellido,
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent signup for the same username
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	s.audit.record(ctx, model.AuditUserCreated, user.ID, user.ID, "")
	return user, nil
}

// Authenticate checks a username/password pair. Unknown usernames yield ErrUserNotFound,
// wrong passwords ErrInvalidCredential.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalid("username/password", "both are required")
	}

	if s.throttle != nil {
		retryAfter, blocked, err := s.throttle.Blocked(ctx, username)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, &ThrottledError{RetryAfter: retryAfter}
		}
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.loginFailed(ctx, username, 0, "unknown username")
		return nil, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.loginFailed(ctx, username, user.ID, "wrong password")
		return nil, ErrInvalidCredential
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.audit.log.WarnContext(ctx, "auth.throttle_reset_failed", "username", username, "err", err)
		}
	}
	s.audit.record(ctx, model.AuditLoginSucceeded, user.ID, 0, "")
	return user, nil
}

func (s *AuthService) loginFailed(ctx context.Context, username string, userID uint, reason string) {
	if s.throttle != nil {
		if err := s.throttle.RecordFailure(ctx, username); err != nil {
			s.audit.log.WarnContext(ctx, "auth.throttle_record_failed", "username", username, "err", err)
		}
	}
	s.audit.record(ctx, model.AuditLoginFailed, userID, 0, "username="+username+" reason="+reason)
}

func (s *AuthService) IssueToken(user *model.User) (string, error) {
	return jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, jwtutil.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Nombre:   user.Nombre,
		Apellido: user.Apellido,
	}, s.now())
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// VerifyToken returns the identity of a valid bearer token or ErrUnauthenticated.
func (s *AuthService) VerifyToken(token string) (*jwtutil.Identity, error) {
	identity, err := jwtutil.ParseToken(s.jwtSecret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return identity, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}
