package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/daybook/backend/internal/config"
	"github.com/daybook/backend/internal/model"
)

const testSecret = "test-secret"

func newTestAuthService(t *testing.T, clock *time.Time) *AuthService {
	t.Helper()
	svc, err := NewAuthService(nil, config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)
	svc.now = func() time.Time { return *clock }
	return svc
}

func testUser() *model.User {
	return &model.User{ID: 7, Username: "daybook", Email: "daybook@example.com"}
}

func TestAuthenticateRequiresRefreshToken(t *testing.T) {
	clock := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestAuthService(t, &clock)

	accessToken, _, err := svc.IssueTokens(testUser())
	require.NoError(t, err)

	// Even a perfectly valid access token is rejected without a refresh
	// token alongside it.
	_, _, err = svc.Authenticate(accessToken, "")
	require.ErrorIs(t, err, ErrAuthRequired)

	_, _, err = svc.Authenticate("", "")
	require.ErrorIs(t, err, ErrAuthRequired)
}

func TestAuthenticateValidAccessToken(t *testing.T) {
	clock := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestAuthService(t, &clock)

	accessToken, refreshToken, err := svc.IssueTokens(testUser())
	require.NoError(t, err)

	user, minted, err := svc.Authenticate(accessToken, refreshToken)
	require.NoError(t, err)
	require.Equal(t, int64(7), user.ID)
	require.Equal(t, "daybook", user.Username)
	require.Equal(t, "daybook@example.com", user.Email)
	require.Empty(t, minted, "no new token should be minted while the access token is valid")
}

func TestAuthenticateRefreshOnlyMintsAccessToken(t *testing.T) {
	clock := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestAuthService(t, &clock)

	_, refreshToken, err := svc.IssueTokens(testUser())
	require.NoError(t, err)

	clock = clock.Add(time.Hour)

	user, minted, err := svc.Authenticate("", refreshToken)
	require.NoError(t, err)
	require.Equal(t, int64(7), user.ID)
	require.NotEmpty(t, minted)

	claims, err := svc.parseToken(minted)
	require.NoError(t, err)
	require.Equal(t, "7", claims.Subject)
	require.Equal(t, "daybook", claims.Username)
	require.Equal(t, "daybook@example.com", claims.Email)
	require.Equal(t, clock.Add(AccessTokenTTL).Unix(), claims.ExpiresAt.Unix())
}

func TestAuthenticateExpiredAccessFallsBackToRefresh(t *testing.T) {
	clock := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestAuthService(t, &clock)

	accessToken, refreshToken, err := svc.IssueTokens(testUser())
	require.NoError(t, err)

	clock = clock.Add(AccessTokenTTL + time.Minute)

	user, minted, err := svc.Authenticate(accessToken, refreshToken)
	require.NoError(t, err)
	require.Equal(t, int64(7), user.ID)
	require.NotEmpty(t, minted)
}

func TestAuthenticateTamperedAccessFallsBackToRefresh(t *testing.T) {
	clock := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestAuthService(t, &clock)

	accessToken, refreshToken, err := svc.IssueTokens(testUser())
	require.NoError(t, err)

	user, minted, err := svc.Authenticate(accessToken+"x", refreshToken)
	require.NoError(t, err)
	require.Equal(t, int64(7), user.ID)
	require.NotEmpty(t, minted)
}

func TestAuthenticateInvalidRefreshToken(t *testing.T) {
	clock := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestAuthService(t, &clock)

	_, _, err := svc.Authenticate("", "not-a-jwt")
	require.ErrorIs(t, err, ErrRefreshToken)

	// Expired refresh token
	_, refreshToken, err := svc.IssueTokens(testUser())
	require.NoError(t, err)
	clock = clock.Add(RefreshTokenTTL + time.Minute)
	_, _, err = svc.Authenticate("", refreshToken)
	require.ErrorIs(t, err, ErrRefreshToken)
}

func TestAuthenticateRejectsBadSubject(t *testing.T) {
	clock := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestAuthService(t, &clock)

	for _, subject := range []string{"", "abc", "0"} {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
			Username: "daybook",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   subject,
				IssuedAt:  jwt.NewNumericDate(clock),
				ExpiresAt: jwt.NewNumericDate(clock.Add(RefreshTokenTTL)),
			},
		})
		signed, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, _, err = svc.Authenticate("", signed)
		require.ErrorIs(t, err, ErrTokenPayload, "subject %q", subject)
	}
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	_, err := NewAuthService(nil, config.AuthConfig{})
	require.ErrorIs(t, err, ErrMisconfigured)
}

func TestNewAuthServiceRejectsInsecureSameSiteNone(t *testing.T) {
	_, err := NewAuthService(nil, config.AuthConfig{
		JWTSecret:      testSecret,
		CookieSecure:   "false",
		CookieSameSite: "none",
	})
	require.ErrorIs(t, err, ErrMisconfigured)
}

func TestValidateCredentials(t *testing.T) {
	require.NoError(t, validateCredentials("ab", "a@b.com", "password1"))
	require.Error(t, validateCredentials("a", "a@b.com", "password1"))
	require.Error(t, validateCredentials("ab", "not-an-email", "password1"))
	require.Error(t, validateCredentials("ab", "@b.com", "password1"))
	require.Error(t, validateCredentials("ab", "a@", "password1"))
	require.Error(t, validateCredentials("ab", "a@b.com", "short"))
}
