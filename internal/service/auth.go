package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/daybook/backend/internal/config"
	"github.com/daybook/backend/internal/db"
	"github.com/daybook/backend/internal/model"
)

// Token validities are fixed by contract, not configurable.
const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"

	minUsernameLength = 2
	minPasswordLength = 8
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrMisconfigured = errors.New("auth config invalid")

	// Rejection reasons surfaced by Authenticate. The messages are part of
	// the API contract.
	ErrAuthRequired = errors.New("Authentication required")
	ErrTokenPayload = errors.New("Invalid token payload")
	ErrRefreshToken = errors.New("Invalid refresh token")
)

type CookieConfig struct {
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

type AuthService struct {
	repo      *db.Postgres
	jwtSecret []byte
	cookieCfg CookieConfig
	now       func() time.Time
}

// authClaims mirrors the registered claims plus the identity fields both
// token variants carry. Access and refresh tokens share one shape and one
// signing secret; only the TTL differs.
type authClaims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func NewAuthService(repo *db.Postgres, cfg config.AuthConfig) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}

	cookieSecure, err := parseBool(cfg.CookieSecure, true)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SECURE", ErrMisconfigured)
	}

	cookieSameSite, err := parseSameSite(cfg.CookieSameSite)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SAMESITE", ErrMisconfigured)
	}

	if cookieSameSite == http.SameSiteNoneMode && !cookieSecure {
		return nil, fmt.Errorf("%w: SameSite=None requires Secure cookie", ErrMisconfigured)
	}

	cookiePath := cfg.CookiePath
	if strings.TrimSpace(cookiePath) == "" {
		cookiePath = "/"
	}

	return &AuthService{
		repo:      repo,
		jwtSecret: []byte(cfg.JWTSecret),
		cookieCfg: CookieConfig{
			Path:     cookiePath,
			Domain:   cfg.CookieDomain,
			Secure:   cookieSecure,
			SameSite: cookieSameSite,
		},
		now: time.Now,
	}, nil
}

func (s *AuthService) CookieConfig() CookieConfig {
	return s.cookieCfg
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, string, string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateCredentials(username, email, password); err != nil {
		return nil, "", "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	user, err := s.repo.CreateUser(ctx, username, email, string(hash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, "", "", ErrConflict
		}
		return nil, "", "", err
	}

	accessToken, refreshToken, err := s.IssueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, accessToken, refreshToken, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", "", ErrInvalidInput
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, "", "", ErrUnauthorized
		}
		return nil, "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrUnauthorized
	}

	accessToken, refreshToken, err := s.IssueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, accessToken, refreshToken, nil
}

// IssueTokens mints the access/refresh pair for a user. Both are stateless
// JWTs; nothing is persisted, so revocation before natural expiry is only
// possible by clearing the client's cookies.
func (s *AuthService) IssueTokens(user *model.User) (string, string, error) {
	accessToken, err := s.mintToken(user.ID, user.Username, user.Email, AccessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := s.mintToken(user.ID, user.Username, user.Email, RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// Authenticate resolves the identity of a request from its access and
// refresh tokens. Ordered and short-circuiting:
//
//  1. no refresh token: reject, whatever the access token says
//  2. valid access token: accept
//  3. otherwise fall back to the refresh token; when it verifies, a fresh
//     access token is minted from its claims and returned for the caller
//     to hand back to the client
//
// A bad access token alone never rejects a request.
func (s *AuthService) Authenticate(accessToken, refreshToken string) (*model.AuthUser, string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, "", ErrAuthRequired
	}

	if accessToken != "" {
		if claims, err := s.parseToken(accessToken); err == nil {
			user, err := userFromClaims(claims)
			if err != nil {
				return nil, "", err
			}
			return user, "", nil
		}
	}

	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, "", ErrRefreshToken
	}
	user, err := userFromClaims(claims)
	if err != nil {
		return nil, "", err
	}

	minted, err := s.mintToken(user.ID, user.Username, user.Email, AccessTokenTTL)
	if err != nil {
		return nil, "", err
	}
	return user, minted, nil
}

func (s *AuthService) mintToken(userID int64, username, email string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := authClaims{
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) parseToken(tokenStr string) (*authClaims, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

func userFromClaims(claims *authClaims) (*model.AuthUser, error) {
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return nil, ErrTokenPayload
	}
	return &model.AuthUser{
		ID:       userID,
		Username: claims.Username,
		Email:    claims.Email,
	}, nil
}

func validateCredentials(username, email, password string) error {
	if len(username) < minUsernameLength || len(username) > 64 {
		return ErrInvalidInput
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return ErrInvalidInput
	}
	if len(password) < minPasswordLength || len(password) > 128 {
		return ErrInvalidInput
	}
	return nil
}

func parseBool(value string, fallback bool) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, err
	}
	return parsed, nil
}

func parseSameSite(value string) (http.SameSite, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return http.SameSiteLaxMode, nil
	}
	switch value {
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, ErrInvalidInput
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
