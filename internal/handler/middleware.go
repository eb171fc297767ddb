package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/daybook/backend/internal/model"
	"github.com/daybook/backend/internal/service"
)

const authUserKey = "auth_user"

// AuthMiddleware resolves the request identity from the auth cookies. The
// access token may also arrive as a Bearer header. When authentication
// succeeds off the refresh token alone, the freshly minted access token is
// set back as a cookie so the client recovers transparently.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		accessToken, _ := c.Cookie(service.AccessCookieName)
		if accessToken == "" {
			header := c.GetHeader("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				accessToken = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			}
		}
		refreshToken, _ := c.Cookie(service.RefreshCookieName)

		user, minted, err := authService.Authenticate(accessToken, refreshToken)
		if err != nil {
			status := http.StatusForbidden
			if errors.Is(err, service.ErrAuthRequired) {
				status = http.StatusUnauthorized
			}
			c.JSON(status, model.ErrorResponse{Message: err.Error()})
			c.Abort()
			return
		}

		if minted != "" {
			setTokenCookie(c, authService.CookieConfig(), service.AccessCookieName, minted, int(service.AccessTokenTTL.Seconds()))
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

func GetAuthUser(c *gin.Context) *model.AuthUser {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.AuthUser); ok {
			return user
		}
	}
	return nil
}

func setTokenCookie(c *gin.Context, cfg service.CookieConfig, name, value string, maxAge int) {
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(name, value, maxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
}

func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
