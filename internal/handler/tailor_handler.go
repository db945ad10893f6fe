package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
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

const tailorPageSize = 10

// TailorHandler serves tailor CRUD
type TailorHandler struct {
	db      *gorm.DB
	uploads upload.Store
	cfg     *config.Config
}

// NewTailorHandler wires the tailor handler
func NewTailorHandler(db *gorm.DB, uploads upload.Store, cfg *config.Config) *TailorHandler {
	return &TailorHandler{db: db, uploads: uploads, cfg: cfg}
}

// Get returns one tailor by id, password excluded
func (h *TailorHandler) Get(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return fail(c, &h.cfg.Server, apperr.Validation("Invalid tailor ID"))
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var tailor model.Tailor
	if err := h.db.WithContext(c.Request().Context()).First(&tailor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, &h.cfg.Server, apperr.NotFound("Tailor not found"))
		}
		return fail(c, &h.cfg.Server, apperr.Internal("Server error while fetching tailor", err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Tailor fetched successfully",
		"data":    tailor.Safe(),
	})
}

// List returns tailors newest first, paginated
func (h *TailorHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)

	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var total int64
	if err := h.db.WithContext(c.Request().Context()).Model(&model.Tailor{}).Count(&total).Error; err != nil {
		log.Error("Error counting tailors", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Error fetching tailors", err))
	}

	var tailors []model.Tailor
	if err := h.db.WithContext(c.Request().Context()).
		Order("created_at DESC").
		Offset((page - 1) * tailorPageSize).
		Limit(tailorPageSize).
		Find(&tailors).Error; err != nil {
		log.Error("Error fetching tailors", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Error fetching tailors", err))
	}

	safe := make([]map[string]interface{}, 0, len(tailors))
	for i := range tailors {
		safe = append(safe, tailors[i].Safe())
	}

	totalPages := int(math.Ceil(float64(total) / float64(tailorPageSize)))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Tailors fetched successfully",
		"data": echo.Map{
			"tailors": safe,
			"pagination": echo.Map{
				"currentPage":  page,
				"totalPages":   totalPages,
				"totalTailors": total,
				"hasNextPage":  page < totalPages,
				"hasPrevPage":  page > 1,
			},
		},
	})
}

// Update applies allow-listed field changes
func (h *TailorHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return fail(c, &h.cfg.Server, apperr.Validation("Invalid tailor ID"))
	}

	var req map[string]interface{}
	if err := c.Bind(&req); err != nil {
		return fail(c, &h.cfg.Server, apperr.Validation("Invalid request body"))
	}

	allowed := []string{"shopName", "ownerName", "phone", "subscriptionPlan", "category", "status", "email", "address", "logo"}
	columns := map[string]string{
		"shopName":         "shop_name",
		"ownerName":        "owner_name",
		"phone":            "phone",
		"subscriptionPlan": "subscription_plan",
		"category":         "category",
		"status":           "status",
		"email":            "email",
		"address":          "address",
		"logo":             "logo",
	}
	updates := map[string]interface{}{}
	for _, key := range allowed {
		if value, ok := req[key]; ok {
			updates[columns[key]] = value
		}
	}
	if len(updates) == 0 {
		return fail(c, &h.cfg.Server, apperr.Validation("No updatable fields provided"))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	result := h.db.WithContext(c.Request().Context()).
		Model(&model.Tailor{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		log.Error("Error updating tailor", zap.Error(result.Error))
		return fail(c, &h.cfg.Server, apperr.Internal("Server error while updating tailor", result.Error))
	}
	if result.RowsAffected == 0 {
		return fail(c, &h.cfg.Server, apperr.NotFound("Tailor not found"))
	}

	var tailor model.Tailor
	if err := h.db.WithContext(c.Request().Context()).First(&tailor, id).Error; err != nil {
		return fail(c, &h.cfg.Server, apperr.Internal("Server error while updating tailor", err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Tailor updated successfully",
		"data":    tailor.Safe(),
	})
}

// Delete soft-deletes a tailor; referencing records keep their tailor id
func (h *TailorHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return fail(c, &h.cfg.Server, apperr.Validation("Invalid tailor ID"))
	}

	var tailor model.Tailor
	if err := h.db.WithContext(c.Request().Context()).First(&tailor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, &h.cfg.Server, apperr.NotFound("Tailor not found"))
		}
		return fail(c, &h.cfg.Server, apperr.Internal("Server error while deleting tailor", err))
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.db.WithContext(c.Request().Context()).Delete(&tailor).Error; err != nil {
		log.Error("Error deleting tailor", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Server error while deleting tailor", err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Tailor deleted successfully",
		"data": echo.Map{
			"id":        tailor.ID,
			"shop_name": tailor.ShopName,
		},
	})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
