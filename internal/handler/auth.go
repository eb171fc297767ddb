package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daybook/backend/internal/model"
	"github.com/daybook/backend/internal/service"
)

type AuthHandler struct {
	svc   *service.AuthService
	users *service.UserService
}

func NewAuthHandler(svc *service.AuthService, users *service.UserService) *AuthHandler {
	return &AuthHandler{svc: svc, users: users}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Username, email and password"
// @Success 201 {object} model.AuthResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/users/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "invalid request"})
		return
	}

	user, accessToken, refreshToken, err := h.svc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	h.setAuthCookies(c, accessToken, refreshToken)
	c.JSON(http.StatusCreated, model.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(service.AccessTokenTTL.Seconds()),
		User:         user,
	})
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Email and password"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "invalid request"})
		return
	}

	user, accessToken, refreshToken, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	h.setAuthCookies(c, accessToken, refreshToken)
	c.JSON(http.StatusOK, model.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(service.AccessTokenTTL.Seconds()),
		User:         user,
	})
}

// Refresh godoc
// @Summary Mint a new access token from the refresh token cookie
// @Tags auth
// @Produce json
// @Success 200 {object} model.RefreshResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /api/v1/users/token [get]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(service.RefreshCookieName)
	_, minted, err := h.svc.Authenticate("", refreshToken)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	h.setAccessCookie(c, minted)
	c.JSON(http.StatusOK, model.RefreshResponse{
		AccessToken: minted,
		ExpiresIn:   int64(service.AccessTokenTTL.Seconds()),
	})
}

// Logout godoc
// @Summary Logout
// @Description Clears the auth cookies. Tokens stay valid until expiry.
// @Tags auth
// @Produce json
// @Success 200 {object} model.StatusResponse
// @Router /api/v1/users/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, model.StatusResponse{Status: "logged_out"})
}

// Me godoc
// @Summary Get current user
// @Tags auth
// @Produce json
// @Success 200 {object} model.AuthMeResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/users/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	authUser := GetAuthUser(c)
	if authUser == nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Message: service.ErrAuthRequired.Error()})
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), authUser.ID)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.AuthMeResponse{Success: true, User: user})
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	cfg := h.svc.CookieConfig()
	setTokenCookie(c, cfg, service.AccessCookieName, accessToken, int(service.AccessTokenTTL.Seconds()))
	setTokenCookie(c, cfg, service.RefreshCookieName, refreshToken, int(service.RefreshTokenTTL.Seconds()))
}

func (h *AuthHandler) setAccessCookie(c *gin.Context, accessToken string) {
	setTokenCookie(c, h.svc.CookieConfig(), service.AccessCookieName, accessToken, int(service.AccessTokenTTL.Seconds()))
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	cfg := h.svc.CookieConfig()
	setTokenCookie(c, cfg, service.AccessCookieName, "", -1)
	setTokenCookie(c, cfg, service.RefreshCookieName, "", -1)
}

func writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "invalid input"})
	case errors.Is(err, service.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrTokenPayload), errors.Is(err, service.ErrRefreshToken):
		c.JSON(http.StatusForbidden, model.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Message: "invalid credentials"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{Message: "not found"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, model.ErrorResponse{Message: "already exists"})
	case errors.Is(err, service.ErrMisconfigured):
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Message: "service unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Message: "server error"})
	}
}
