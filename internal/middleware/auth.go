package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"etailor-admin/internal/auth"
	"etailor-admin/pkg/config"
	"etailor-admin/pkg/jwtutil"
	"etailor-admin/pkg/logger"
	"etailor-admin/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SessionGuard validates inbound requests and transparently renews expired
// access tokens against a still-valid refresh token. Only the access token
// is reissued on this path; refresh-token rotation happens solely through
// the explicit refresh endpoint.
type SessionGuard struct {
	jwt  *jwtutil.JWTUtil
	auth *auth.Service
	cfg  *config.JWTConfig
}

// NewSessionGuard creates the guard over the token utility and auth service
func NewSessionGuard(jwt *jwtutil.JWTUtil, authService *auth.Service, cfg *config.JWTConfig) *SessionGuard {
	return &SessionGuard{jwt: jwt, auth: authService, cfg: cfg}
}

// Middleware is the per-request session check
func (g *SessionGuard) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		accessToken := extractAccessToken(c)
		if accessToken == "" {
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"success": false,
				"message": "No access token provided. Please log in.",
			})
		}

		claims, err := g.jwt.VerifyAccessToken(accessToken)
		if err == nil {
			attachIdentity(c, claims.ID, claims.Email, claims.Role)
			return next(c)
		}

		if !jwtutil.IsExpired(err) {
			// Tampered or malformed tokens are not retried against the
			// refresh token.
			log.Warn("Invalid access token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusForbidden, echo.Map{
				"success": false,
				"message": "Invalid access token.",
			})
		}

		// Access token merely expired: attempt transparent renewal.
		refreshToken := readCookie(c, "refresh_token")
		if refreshToken == "" {
			prometheus.RecordAuthError("session_expired")
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"success": false,
				"message": "Session expired. Please log in again.",
			})
		}

		admin, newAccessToken, err := g.auth.RenewAccess(c.Request().Context(), refreshToken)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenInvalid):
				prometheus.RecordAuthError("refresh_invalid")
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false,
					"message": "Invalid refresh token. Please log in again.",
				})
			case errors.Is(err, auth.ErrTokenRevoked):
				prometheus.RecordAuthError("refresh_revoked")
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false,
					"message": "Refresh token expired or revoked. Please log in again.",
				})
			case errors.Is(err, auth.ErrIdentityGone):
				prometheus.RecordAuthError("admin_gone")
				return c.JSON(http.StatusNotFound, echo.Map{
					"success": false,
					"message": "Admin no longer exists.",
				})
			default:
				log.Error("Token renewal failed", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"success": false,
					"message": "Server error",
				})
			}
		}

		prometheus.RenewalCounter.Inc()
		c.SetCookie(&http.Cookie{
			Name:     "access_token",
			Value:    newAccessToken,
			Path:     "/",
			MaxAge:   int(g.cfg.AccessTTL / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
			Secure:   c.Request().TLS != nil,
		})

		log.Debug("Access token renewed transparently", zap.Uint("admin_id", admin.ID))
		attachIdentity(c, admin.ID, admin.Email, admin.Role)
		return next(c)
	}
}

// extractAccessToken prefers the Authorization header, falling back to the
// access_token cookie.
func extractAccessToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	return readCookie(c, "access_token")
}

func readCookie(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func attachIdentity(c echo.Context, id uint, email, role string) {
	c.Set("admin_id", id)
	c.Set("email", email)
	c.Set("role", role)
}
