package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/daybook/backend/internal/config"
	"github.com/daybook/backend/internal/db"
	"github.com/daybook/backend/internal/model"
)

// OIDCService handles the Google sign-in flow. Accounts are matched by
// email; unknown emails get a fresh account with an unusable password.
type OIDCService struct {
	repo     *db.Postgres
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	oauthCfg oauth2.Config
}

func NewOIDCService(ctx context.Context, repo *db.Postgres, cfg config.OIDCConfig) (*OIDCService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: OIDC client credentials are required", ErrMisconfigured)
	}

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("discovering OIDC provider: %w", err)
	}

	return &OIDCService{
		repo:     repo,
		provider: provider,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauthCfg: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

// NewState mints the opaque anti-CSRF state carried through the redirect.
func (s *OIDCService) NewState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *OIDCService) AuthURL(state string) string {
	return s.oauthCfg.AuthCodeURL(state)
}

// HandleCallback exchanges the authorization code, verifies the ID token
// and resolves it to a local user, creating one on first sign-in.
func (s *OIDCService) HandleCallback(ctx context.Context, code string) (*model.User, error) {
	token, err := s.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange failed", ErrUnauthorized)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("%w: no id_token in token response", ErrUnauthorized)
	}

	idToken, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: id_token verification failed", ErrUnauthorized)
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: id_token carries no email", ErrUnauthorized)
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !db.IsNoRows(err) {
		return nil, err
	}

	username := claims.Name
	if strings.TrimSpace(username) == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	// Federated accounts never log in with a password; store a hash of
	// random bytes so the column is filled but unusable.
	random := make([]byte, 32)
	if _, err := rand.Read(random); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword(random, bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateUser(ctx, username, email, string(hash))
	if err != nil {
		if isUniqueViolation(err) {
			return s.repo.GetUserByEmail(ctx, email)
		}
		return nil, err
	}
	return created, nil
}
