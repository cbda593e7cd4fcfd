package service

import (
	"context"
	"testing"
	"time"

	"peakform/coaching-app/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-not-for-production"

func newAuthFixture() (AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	return NewAuthService(users, testJWTSecret, time.Hour), users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), "Coach Carter", "coach@example.com", "hunter22", domain.RoleCoach)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCoach, user.Role)
	assert.Empty(t, user.PasswordHash, "hash is never returned")

	token, loggedIn, err := svc.Login(context.Background(), "coach@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Empty(t, loggedIn.PasswordHash)

	// The token carries the user id and role and verifies with the secret.
	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleCoach, claims.Role)
	assert.Equal(t, "coaching-app", claims.Issuer)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "Coach Carter", "coach@example.com", "hunter22", domain.RoleCoach)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Impostor", "coach@example.com", "other", domain.RoleClient)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "Someone", "s@example.com", "pw", "admin")
	assert.Error(t, err)
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "Coach Carter", "coach@example.com", "hunter22", domain.RoleCoach)
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "coach@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
