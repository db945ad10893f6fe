package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

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

// AnnouncementHandler serves announcement CRUD
type AnnouncementHandler struct {
	db      *gorm.DB
	uploads upload.Store
	cfg     *config.Config
}

// NewAnnouncementHandler wires the announcement handler
func NewAnnouncementHandler(db *gorm.DB, uploads upload.Store, cfg *config.Config) *AnnouncementHandler {
	return &AnnouncementHandler{db: db, uploads: uploads, cfg: cfg}
}

// announcementInput carries the create-form fields before validation
type announcementInput struct {
	Title       string
	Message     string
	PublishDate string
	ExpiryDate  string
	SendTo      string
	Status      string
}

// validateAnnouncement checks the create input and resolves the publish
// window. An absent publish date defaults to now; expiry is required and
// must fall strictly after publish.
func validateAnnouncement(in announcementInput, now time.Time) (publish, expiry time.Time, err error) {
	if in.Title == "" || in.Message == "" || in.Status == "" {
		return publish, expiry, apperr.Validation("Title, message, and status are required")
	}
	if n := utf8.RuneCountInString(in.Title); n < 3 || n > 100 {
		return publish, expiry, apperr.Validation("Title must be between 3 and 100 characters")
	}
	if n := utf8.RuneCountInString(in.Message); n < 10 || n > 1000 {
		return publish, expiry, apperr.Validation("Message must be between 10 and 1000 characters")
	}
	if in.Status != model.StatusActive && in.Status != model.StatusInactive {
		return publish, expiry, apperr.Validation("Status must be Active or Inactive")
	}
	if in.SendTo != model.SendToAll && in.SendTo != model.SendToSpecific {
		return publish, expiry, apperr.Validation("sendTo must be All or Specific")
	}

	publish = now
	if in.PublishDate != "" {
		publish, err = parseDateInput(in.PublishDate)
		if err != nil {
			return publish, expiry, apperr.Validation("Invalid publishDate format")
		}
	}
	if in.ExpiryDate == "" {
		return publish, expiry, apperr.Validation("Expiry date is required")
	}
	expiry, err = parseDateInput(in.ExpiryDate)
	if err != nil {
		return publish, expiry, apperr.Validation("Invalid expiryDate format")
	}
	if !expiry.After(publish) {
		return publish, expiry, apperr.Validation("expiryDate must be after publishDate")
	}
	return publish, expiry, nil
}

func parseDateInput(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// List returns announcements newest first with an optional status filter
func (h *AnnouncementHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)

	page, limit := 1, 10
	if raw := c.QueryParam("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	query := h.db.WithContext(c.Request().Context()).Model(&model.Announcement{})
	if status := c.QueryParam("status"); status == model.StatusActive || status == model.StatusInactive {
		query = query.Where("status = ?", status)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error("Error counting announcements", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to fetch announcements", err))
	}

	var announcements []model.Announcement
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&announcements).Error; err != nil {
		log.Error("Error fetching announcements", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to fetch announcements", err))
	}

	if len(announcements) == 0 {
		return c.JSON(http.StatusOK, echo.Map{
			"success":       true,
			"message":       "No announcements found",
			"announcements": []model.Announcement{},
		})
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"message":       "Announcements fetched successfully",
		"announcements": announcements,
		"pagination": echo.Map{
			"currentPage":        page,
			"totalPages":         totalPages,
			"totalAnnouncements": total,
			"hasNextPage":        page < totalPages,
			"hasPrevPage":        page > 1,
		},
	})
}

// Create validates and stores an announcement with an optional image
func (h *AnnouncementHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	in := announcementInput{
		Title:       c.FormValue("title"),
		Message:     c.FormValue("message"),
		PublishDate: c.FormValue("publishDate"),
		ExpiryDate:  c.FormValue("expiryDate"),
		SendTo:      c.FormValue("sendTo"),
		Status:      c.FormValue("status"),
	}

	publish, expiry, err := validateAnnouncement(in, time.Now())
	if err != nil {
		return fail(c, &h.cfg.Server, apperr.From(err, "Failed to create announcement"))
	}

	// Unique title check, case-insensitive.
	defer prometheus.TrackDBOperation("query")(time.Now())
	var existing model.Announcement
	lookup := h.db.WithContext(c.Request().Context()).
		Where("LOWER(title) = LOWER(?)", in.Title).
		First(&existing)
	if lookup.Error == nil {
		return fail(c, &h.cfg.Server, apperr.Conflict("Announcement with this title already exists"))
	}
	if !errors.Is(lookup.Error, gorm.ErrRecordNotFound) {
		log.Error("Announcement title lookup failed", zap.Error(lookup.Error))
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to create announcement", lookup.Error))
	}

	var imagePath string
	if file, err := c.FormFile("announcementImage"); err == nil {
		imagePath, err = h.uploads.Save(file)
		if err != nil {
			log.Error("Failed to store announcement image", zap.Error(err))
			return fail(c, &h.cfg.Server, apperr.Internal("Failed to create announcement", err))
		}
	}

	announcement := model.Announcement{
		Title:     in.Title,
		Image:     imagePath,
		Message:   in.Message,
		PublishAt: publish,
		ExpiresAt: expiry,
		SendTo:    in.SendTo,
		Status:    in.Status,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.WithContext(c.Request().Context()).Create(&announcement).Error; err != nil {
		log.Error("Error creating announcement", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to create announcement", err))
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":      true,
		"message":      "Announcement created successfully",
		"announcement": announcement,
	})
}

// Delete removes an announcement and its stored image
func (h *AnnouncementHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return fail(c, &h.cfg.Server, apperr.Validation("Invalid announcement ID"))
	}

	var announcement model.Announcement
	if err := h.db.WithContext(c.Request().Context()).First(&announcement, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, &h.cfg.Server, apperr.NotFound("Announcement not found"))
		}
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to delete announcement", err))
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.db.WithContext(c.Request().Context()).Delete(&announcement).Error; err != nil {
		log.Error("Error deleting announcement", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to delete announcement", err))
	}

	if err := h.uploads.Remove(announcement.Image); err != nil {
		// The row is gone; an orphaned file only wastes disk.
		log.Warn("Failed to remove announcement image", zap.Error(err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"message":      "Announcement deleted successfully",
		"announcement": announcement,
	})
}
