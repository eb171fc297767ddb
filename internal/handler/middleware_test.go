package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/daybook/backend/internal/config"
	"github.com/daybook/backend/internal/model"
	"github.com/daybook/backend/internal/service"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, err := service.NewAuthService(nil, config.AuthConfig{JWTSecret: "test-secret"})
	if err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.GET("/me", AuthMiddleware(svc), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetAuthUser(c).ID})
	})
	return r, svc
}

func issueTestTokens(t *testing.T, svc *service.AuthService) (string, string) {
	t.Helper()
	access, refresh, err := svc.IssueTokens(&model.User{ID: 7, Username: "daybook", Email: "daybook@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	return access, refresh
}

func TestAuthMiddlewareRejectsWithoutRefreshCookie(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	var body model.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Message != "Authentication required" {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestAuthMiddlewareAcceptsCookiePair(t *testing.T) {
	r, svc := newAuthTestRouter(t)
	access, refresh := issueTestTokens(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: service.AccessCookieName, Value: access})
	req.AddCookie(&http.Cookie{Name: service.RefreshCookieName, Value: refresh})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatal("no cookie should be set when the access token is valid")
	}
}

func TestAuthMiddlewareAcceptsBearerAccessToken(t *testing.T) {
	r, svc := newAuthTestRouter(t)
	access, refresh := issueTestTokens(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	req.AddCookie(&http.Cookie{Name: service.RefreshCookieName, Value: refresh})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAuthMiddlewareMintsAccessFromRefresh(t *testing.T) {
	r, svc := newAuthTestRouter(t)
	_, refresh := issueTestTokens(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: service.RefreshCookieName, Value: refresh})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var minted *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == service.AccessCookieName {
			minted = cookie
		}
	}
	if minted == nil || minted.Value == "" {
		t.Fatal("expected a fresh access token cookie")
	}
	if !strings.Contains(w.Body.String(), `"id":7`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestAuthMiddlewareRejectsBadRefreshToken(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: service.RefreshCookieName, Value: "garbage"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	var body model.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Message != "Invalid refresh token" {
		t.Fatalf("message = %q", body.Message)
	}
}
