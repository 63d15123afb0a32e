package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cronicas-api/internal/model"
	"cronicas-api/internal/platform/logger"
	"cronicas-api/internal/repository"
	"cronicas-api/internal/testutil"
)

func newAuthService(t *testing.T, throttle LoginThrottle, pub EventPublisher) *AuthService {
	t.Helper()
	repo := repository.NewUserRepository(testutil.NewDB(t))
	return NewAuthService(repo, throttle, pub, logger.Discard(), AuthConfig{
		JWTSecret:     "secret",
		JWTExpiration: time.Hour,
		BcryptCost:    bcrypt.MinCost,
	})
}

func register(t *testing.T, s *AuthService, username, password string) *model.User {
	t.Helper()
	u, err := s.Register(context.Background(), RegisterInput{Nombre: "Ana", Apellido: "Ríos", Username: username, Password: password})
	require.NoError(t, err)
	return u
}

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	pub := &recordingPublisher{}
	s := newAuthService(t, nil, pub)

	u := register(t, s, "ana", "s3cret pass")
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "s3cret pass", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret pass")))
	assert.Equal(t, []string{model.AuditUserCreated}, pub.actions())
}

func TestRegisterValidation(t *testing.T) {
	s := newAuthService(t, nil, nil)
	register(t, s, "ana", "pw")

	cases := map[string]struct {
		in   RegisterInput
		want error
	}{
		"missing nombre":    {RegisterInput{Apellido: "R", Username: "x", Password: "p"}, ErrInvalidInput},
		"missing apellido":  {RegisterInput{Nombre: "N", Username: "x", Password: "p"}, ErrInvalidInput},
		"blank username":    {RegisterInput{Nombre: "N", Apellido: "R", Username: "  ", Password: "p"}, ErrInvalidInput},
		"missing password":  {RegisterInput{Nombre: "N", Apellido: "R", Username: "x"}, ErrInvalidInput},
		"password too long": {RegisterInput{Nombre: "N", Apellido: "R", Username: "x", Password: string(make([]byte, 73))}, ErrInvalidInput},
		"duplicate":         {RegisterInput{Nombre: "N", Apellido: "R", Username: "ana", Password: "p"}, ErrUsernameExists},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAuthenticateAndTokenRoundTrip(t *testing.T) {
	s := newAuthService(t, nil, nil)
	u := register(t, s, "ana", "Secreto")

	result, err := s.Login(context.Background(), LoginInput{Username: "ana", Password: "Secreto"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, result.User.ID)

	identity, err := s.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, identity.UserID)
	assert.Equal(t, "Ana", identity.Nombre)
}

func TestAuthenticateFailures(t *testing.T) {
	pub := &recordingPublisher{}
	s := newAuthService(t, nil, pub)
	register(t, s, "ana", "Secreto")

	_, err := s.Authenticate(context.Background(), "nadie", "Secreto")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.Authenticate(context.Background(), "ana", "secreto")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = s.Authenticate(context.Background(), "ana", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, []string{model.AuditUserCreated, model.AuditLoginFailed, model.AuditLoginFailed}, pub.actions())
}

func TestAuthenticateThrottle(t *testing.T) {
	throttle := newMemoryThrottle(2)
	s := newAuthService(t, throttle, nil)
	register(t, s, "ana", "Secreto")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := s.Authenticate(ctx, "ana", "mal")
		require.ErrorIs(t, err, ErrInvalidCredential)
	}

	_, err := s.Authenticate(ctx, "ana", "Secreto")
	var throttled *ThrottledError
	require.True(t, errors.As(err, &throttled))
	assert.ErrorIs(t, err, ErrLoginThrottled)
	assert.Equal(t, time.Minute, throttled.RetryAfter)

	require.NoError(t, throttle.Reset(ctx, "ana"))
	_, err = s.Authenticate(ctx, "ana", "Secreto")
	require.NoError(t, err)
	assert.Zero(t, throttle.failures["ana"])
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	s := newAuthService(t, nil, nil)
	_, err := s.VerifyToken("abc.def.ghi")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestPublishFailureDoesNotFailRegister(t *testing.T) {
	s := newAuthService(t, nil, &recordingPublisher{err: errors.New("broker down")})
	register(t, s, "ana", "pw")
}

func TestListUsers(t *testing.T) {
	s := newAuthService(t, nil, nil)
	register(t, s, "ana", "pw")
	register(t, s, "bruno", "pw")

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ana", users[0].Username)
	assert.Equal(t, "bruno", users[1].Username)
}
