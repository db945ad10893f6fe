package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"etailor-admin/internal/apperr"
	"etailor-admin/internal/model"
	"etailor-admin/internal/upload"
	"etailor-admin/pkg/config"
	"etailor-admin/pkg/logger"
	"etailor-admin/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	rgbColorPattern = regexp.MustCompile(`^rgba?\(\s*\d{1,3}%?\s*,\s*\d{1,3}%?\s*,\s*\d{1,3}%?\s*(,\s*[0-9.]+\s*)?\)$`)
	urlPattern      = regexp.MustCompile(`^https?://.+`)
)

// validColor accepts hex (#abc, #aabbcc) and rgb/rgba color grammars
func validColor(color string) bool {
	color = strings.TrimSpace(color)
	return hexColorPattern.MatchString(color) || rgbColorPattern.MatchString(strings.ToLower(color))
}

// validSocialURL accepts empty values and http(s) URLs
func validSocialURL(url string) bool {
	return url == "" || urlPattern.MatchString(url)
}

// ConfigurationHandler serves the app branding configuration
type ConfigurationHandler struct {
	db      *gorm.DB
	uploads upload.Store
	cfg     *config.Config
}

// NewConfigurationHandler wires the configuration handler
func NewConfigurationHandler(db *gorm.DB, uploads upload.Store, cfg *config.Config) *ConfigurationHandler {
	return &ConfigurationHandler{db: db, uploads: uploads, cfg: cfg}
}

// Create stores a new configuration; appName is unique
func (h *ConfigurationHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	appName := strings.TrimSpace(c.FormValue("appName"))
	primaryColor := c.FormValue("primaryColor")
	secondaryColor := c.FormValue("secondaryColor")

	if appName == "" || primaryColor == "" || secondaryColor == "" {
		return fail(c, &h.cfg.Server, apperr.Validation("appName, primaryColor, and secondaryColor are required"))
	}
	if !validColor(primaryColor) {
		return fail(c, &h.cfg.Server, apperr.Validation("Invalid primaryColor format (e.g., #FF0000 or rgb(43, 32, 32))"))
	}
	if !validColor(secondaryColor) {
		return fail(c, &h.cfg.Server, apperr.Validation("Invalid secondaryColor format (e.g., #123456 or rgb(49, 38, 48))"))
	}
	for _, social := range []string{c.FormValue("facebook"), c.FormValue("twitter"), c.FormValue("instagram"), c.FormValue("youtube"), c.FormValue("linkedin")} {
		if !validSocialURL(social) {
			return fail(c, &h.cfg.Server, apperr.Validation("Social links must be valid URLs if provided"))
		}
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var existing model.AppConfiguration
	if err := h.db.WithContext(c.Request().Context()).Where("app_name = ?", appName).First(&existing).Error; err == nil {
		return fail(c, &h.cfg.Server, apperr.Conflict("Configuration with this appName already exists"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("Configuration lookup failed", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to create configuration", err))
	}

	var logoPath string
	if file, err := c.FormFile("appLogo"); err == nil {
		logoPath, err = h.uploads.Save(file)
		if err != nil {
			log.Error("Failed to store app logo", zap.Error(err))
			return fail(c, &h.cfg.Server, apperr.Internal("Failed to create configuration", err))
		}
	}

	configuration := model.AppConfiguration{
		AppName:        appName,
		AppLogo:        logoPath,
		PrimaryColor:   primaryColor,
		SecondaryColor: secondaryColor,
		AboutUs:        c.FormValue("aboutUs"),
		ContactEmails:  c.FormValue("contactEmails"),
		SupportPhones:  c.FormValue("supportPhones"),
		Facebook:       c.FormValue("facebook"),
		Twitter:        c.FormValue("twitter"),
		Instagram:      c.FormValue("instagram"),
		Youtube:        c.FormValue("youtube"),
		Linkedin:       c.FormValue("linkedin"),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.WithContext(c.Request().Context()).Create(&configuration).Error; err != nil {
		log.Error("Error creating configuration", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to create configuration", err))
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":       true,
		"message":       "Configuration created successfully",
		"configuration": configuration,
	})
}

// Update applies partial changes to a configuration by id
func (h *ConfigurationHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return fail(c, &h.cfg.Server, apperr.Validation("Invalid configuration ID"))
	}

	var configuration model.AppConfiguration
	if err := h.db.WithContext(c.Request().Context()).First(&configuration, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, &h.cfg.Server, apperr.NotFound("Configuration not found"))
		}
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to update configuration", err))
	}

	updates := map[string]interface{}{}
	if v := c.FormValue("appName"); v != "" {
		updates["app_name"] = strings.TrimSpace(v)
	}
	if v := c.FormValue("primaryColor"); v != "" {
		if !validColor(v) {
			return fail(c, &h.cfg.Server, apperr.Validation("Invalid primaryColor format (e.g., #FF0000 or rgb(43, 32, 32))"))
		}
		updates["primary_color"] = v
	}
	if v := c.FormValue("secondaryColor"); v != "" {
		if !validColor(v) {
			return fail(c, &h.cfg.Server, apperr.Validation("Invalid secondaryColor format (e.g., #123456 or rgb(49, 38, 48))"))
		}
		updates["secondary_color"] = v
	}
	socials := map[string]string{
		"facebook":  c.FormValue("facebook"),
		"twitter":   c.FormValue("twitter"),
		"instagram": c.FormValue("instagram"),
		"youtube":   c.FormValue("youtube"),
		"linkedin":  c.FormValue("linkedin"),
	}
	for column, value := range socials {
		if value == "" {
			continue
		}
		if !validSocialURL(value) {
			return fail(c, &h.cfg.Server, apperr.Validation("Social links must be valid URLs if provided"))
		}
		updates[column] = value
	}
	if v := c.FormValue("aboutUs"); v != "" {
		updates["about_us"] = v
	}
	if v := c.FormValue("contactEmails"); v != "" {
		updates["contact_emails"] = v
	}
	if v := c.FormValue("supportPhones"); v != "" {
		updates["support_phones"] = v
	}

	if file, err := c.FormFile("appLogo"); err == nil {
		logoPath, err := h.uploads.Save(file)
		if err != nil {
			log.Error("Failed to store app logo", zap.Error(err))
			return fail(c, &h.cfg.Server, apperr.Internal("Failed to update configuration", err))
		}
		if configuration.AppLogo != "" {
			if err := h.uploads.Remove(configuration.AppLogo); err != nil {
				log.Warn("Failed to remove previous app logo", zap.Error(err))
			}
		}
		updates["app_logo"] = logoPath
	}

	if len(updates) == 0 {
		return fail(c, &h.cfg.Server, apperr.Validation("No updatable fields provided"))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.db.WithContext(c.Request().Context()).
		Model(&configuration).
		Updates(updates).Error; err != nil {
		log.Error("Error updating configuration", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to update configuration", err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"message":       "Configuration updated successfully",
		"configuration": configuration,
	})
}

// Get returns one configuration by id
func (h *ConfigurationHandler) Get(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return fail(c, &h.cfg.Server, apperr.Validation("Invalid configuration ID"))
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var configuration model.AppConfiguration
	if err := h.db.WithContext(c.Request().Context()).First(&configuration, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, &h.cfg.Server, apperr.NotFound("Configuration not found"))
		}
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to fetch configuration", err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"message":       "Configuration fetched successfully",
		"configuration": configuration,
	})
}
