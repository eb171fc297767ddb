package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daybook/backend/internal/model"
	"github.com/daybook/backend/internal/service"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 300
)

// OAuthHandler implements the Google sign-in flow on top of the OIDC
// service. On success the regular auth cookies are set and the browser is
// sent back to the frontend.
type OAuthHandler struct {
	oidc      *service.OIDCService
	auth      *service.AuthService
	clientURL string
}

func NewOAuthHandler(oidc *service.OIDCService, auth *service.AuthService, clientURL string) *OAuthHandler {
	return &OAuthHandler{oidc: oidc, auth: auth, clientURL: clientURL}
}

// GoogleLogin godoc
// @Summary Start Google sign-in
// @Tags auth
// @Success 307
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/users/google/login [get]
func (h *OAuthHandler) GoogleLogin(c *gin.Context) {
	state, err := h.oidc.NewState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Message: "server error"})
		return
	}

	cfg := h.auth.CookieConfig()
	setTokenCookie(c, cfg, oauthStateCookie, state, oauthStateMaxAge)
	c.Redirect(http.StatusTemporaryRedirect, h.oidc.AuthURL(state))
}

// GoogleCallback godoc
// @Summary Finish Google sign-in
// @Tags auth
// @Success 307
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/users/google/callback [get]
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	stored, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != stored {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Message: "state mismatch"})
		return
	}
	setTokenCookie(c, h.auth.CookieConfig(), oauthStateCookie, "", -1)

	user, err := h.oidc.HandleCallback(c.Request.Context(), c.Query("code"))
	if err != nil {
		writeAuthError(c, err)
		return
	}

	accessToken, refreshToken, err := h.auth.IssueTokens(user)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	cfg := h.auth.CookieConfig()
	setTokenCookie(c, cfg, service.AccessCookieName, accessToken, int(service.AccessTokenTTL.Seconds()))
	setTokenCookie(c, cfg, service.RefreshCookieName, refreshToken, int(service.RefreshTokenTTL.Seconds()))
	c.Redirect(http.StatusTemporaryRedirect, h.clientURL)
}
