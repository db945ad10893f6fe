package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"etailor-admin/internal/apperr"
	"etailor-admin/internal/auth"
	"etailor-admin/internal/model"
	"etailor-admin/internal/store"
	"etailor-admin/internal/upload"
	"etailor-admin/pkg/config"
	"etailor-admin/pkg/jwtutil"
	"etailor-admin/pkg/logger"
	"etailor-admin/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var phonePattern = regexp.MustCompile(`^\+?\d{10,15}$`)

// AuthHandler serves admin session endpoints and tailor registration/login
type AuthHandler struct {
	auth    *auth.Service
	db      *gorm.DB
	jwt     *jwtutil.JWTUtil
	events  store.LoginEventStore
	uploads upload.Store
	cfg     *config.Config
}

// NewAuthHandler wires the auth handler
func NewAuthHandler(authService *auth.Service, db *gorm.DB, jwt *jwtutil.JWTUtil, events store.LoginEventStore, uploads upload.Store, cfg *config.Config) *AuthHandler {
	return &AuthHandler{auth: authService, db: db, jwt: jwt, events: events, uploads: uploads, cfg: cfg}
}

// Login authenticates an admin and issues the cookie pair
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return fail(c, &h.cfg.Server, apperr.Validation("Email and password are required"))
	}
	if req.Email == "" || req.Password == "" {
		prometheus.RecordAuthError("invalid_request")
		return fail(c, &h.cfg.Server, apperr.Validation("Email and password are required"))
	}

	admin, pair, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrBadEmail), errors.Is(err, auth.ErrBadPassword):
			prometheus.RecordAuthError("invalid_request")
			return fail(c, &h.cfg.Server, apperr.Validation(err.Error()))
		case errors.Is(err, auth.ErrInvalidCredentials):
			// Same message for unknown email and wrong password.
			prometheus.RecordAuthError("invalid_credentials")
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": "Invalid email or password",
			})
		default:
			log.Error("Login failed", zap.Error(err))
			return fail(c, &h.cfg.Server, apperr.Internal("Server error during login", err))
		}
	}

	prometheus.ActiveSessionsGauge.Inc()
	setAuthCookies(c, &h.cfg.JWT, pair)

	log.Info("Admin logged in", zap.String("email", admin.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful",
		"data":    admin.Safe(),
		"tokens":  pair,
	})
}

// Refresh rotates the token pair against the presented refresh token
func (h *AuthHandler) Refresh(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RefreshCounter.Inc()

	refreshToken := readCookie(c, "refresh_token")
	if refreshToken == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.Bind(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		prometheus.RecordAuthError("refresh_missing")
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"message": "Refresh token missing",
		})
	}

	_, pair, err := h.auth.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenNotFound):
			prometheus.RecordAuthError("token_not_found")
			return fail(c, &h.cfg.Server, apperr.Forbidden("Invalid refresh token"))
		case errors.Is(err, auth.ErrTokenInvalid):
			prometheus.RecordAuthError("token_invalid")
			return fail(c, &h.cfg.Server, apperr.Forbidden("Refresh token expired or invalid"))
		case errors.Is(err, auth.ErrIdentityGone):
			prometheus.RecordAuthError("admin_gone")
			return fail(c, &h.cfg.Server, apperr.Forbidden("Admin not found"))
		default:
			log.Error("Refresh failed", zap.Error(err))
			return fail(c, &h.cfg.Server, apperr.Internal("Internal server error during refresh", err))
		}
	}

	setAuthCookies(c, &h.cfg.JWT, pair)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Token refreshed",
		"tokens":  pair,
	})
}

// Logout revokes the session. Cookies are cleared even when no stored token
// matched; logging out an expired session is a no-op success.
func (h *AuthHandler) Logout(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LogoutCounter.Inc()

	refreshToken := readCookie(c, "refresh_token")
	ended, err := h.auth.Logout(c.Request().Context(), refreshToken)
	if err != nil {
		log.Error("Logout failed", zap.Error(err))
		clearAuthCookies(c)
		return fail(c, &h.cfg.Server, apperr.Internal("Server error", err))
	}
	if ended {
		// Repeat logouts with no stored session must not drag the gauge down.
		prometheus.ActiveSessionsGauge.Dec()
	}
	clearAuthCookies(c)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Register creates a tailor account with an optional logo upload
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RegisterCounter.Inc()

	shopName := strings.TrimSpace(c.FormValue("shopName"))
	ownerName := strings.TrimSpace(c.FormValue("ownerName"))
	phone := strings.TrimSpace(c.FormValue("phone"))
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")

	if shopName == "" || ownerName == "" || phone == "" || email == "" || password == "" {
		return fail(c, &h.cfg.Server, apperr.Validation("shopName, ownerName, phone, email and password are required"))
	}
	if !phonePattern.MatchString(phone) {
		return fail(c, &h.cfg.Server, apperr.Validation("Phone must be 10-15 digits"))
	}
	if len(password) < 8 {
		return fail(c, &h.cfg.Server, apperr.Validation("Password must be at least 8 characters"))
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var existing model.Tailor
	if err := h.db.WithContext(c.Request().Context()).Where("email = ?", email).First(&existing).Error; err == nil {
		return fail(c, &h.cfg.Server, apperr.Conflict("Tailor already exists"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("Tailor email lookup failed", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Registration failed", err))
	}
	if err := h.db.WithContext(c.Request().Context()).Where("phone = ?", phone).First(&existing).Error; err == nil {
		return fail(c, &h.cfg.Server, apperr.Conflict("Phone number already exists"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("Tailor phone lookup failed", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Registration failed", err))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Registration failed", err))
	}

	var logoPath string
	if file, err := c.FormFile("logo"); err == nil {
		logoPath, err = h.uploads.Save(file)
		if err != nil {
			log.Error("Failed to store logo", zap.Error(err))
			return fail(c, &h.cfg.Server, apperr.Internal("Registration failed", err))
		}
	}

	tailor := model.Tailor{
		ShopName:         shopName,
		OwnerName:        ownerName,
		Phone:            phone,
		Email:            email,
		Password:         string(hashed),
		SubscriptionPlan: orDefault(c.FormValue("subscriptionPlan"), "Basic"),
		Logo:             logoPath,
		Category:         orDefault(c.FormValue("category"), "Both"),
		Status:           orDefault(c.FormValue("status"), model.StatusActive),
		Address:          c.FormValue("address"),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.WithContext(c.Request().Context()).Create(&tailor).Error; err != nil {
		log.Error("Failed to create tailor", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Registration failed", err))
	}

	log.Info("Tailor registered", zap.String("email", tailor.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Successfully registered tailor",
		"tailor":  tailor.Safe(),
	})
}

// TailorLogin authenticates a tailor and records the login event consumed by
// the dashboard's last-logins list. Tailors get an access token only; the
// refresh flow is admin-exclusive.
func (h *AuthHandler) TailorLogin(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Password == "" {
		return fail(c, &h.cfg.Server, apperr.Validation("Email and password are required"))
	}

	var tailor model.Tailor
	err := h.db.WithContext(c.Request().Context()).
		Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&tailor).Error
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Invalid email or password",
		})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(tailor.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Invalid email or password",
		})
	}

	token, err := h.jwt.GenerateAccessToken(tailor.ID, tailor.Email, "tailor")
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Server error during login", err))
	}

	event := &model.LoginEvent{
		TailorID:  tailor.ID,
		LoginAt:   time.Now(),
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
	if err := h.events.Record(c.Request().Context(), event); err != nil {
		// The session is already established; losing one audit row is not
		// worth failing the login.
		log.Warn("Failed to record login event", zap.Error(err))
	}

	log.Info("Tailor logged in", zap.String("email", tailor.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful",
		"data":    tailor.Safe(),
		"token":   token,
	})
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
