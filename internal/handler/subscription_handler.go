package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"etailor-admin/internal/apperr"
	"etailor-admin/internal/model"
	"etailor-admin/pkg/config"
	"etailor-admin/pkg/logger"
	"etailor-admin/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubscriptionHandler serves subscription plan CRUD
type SubscriptionHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewSubscriptionHandler wires the subscription handler
func NewSubscriptionHandler(db *gorm.DB, cfg *config.Config) *SubscriptionHandler {
	return &SubscriptionHandler{db: db, cfg: cfg}
}

type subscriptionRequest struct {
	PlanName     string  `json:"planName"`
	Price        float64 `json:"price"`
	Status       string  `json:"status"`
	Duration     int     `json:"duration"`
	Description  string  `json:"description"`
	MaxCustomers *int    `json:"maxCustomers,omitempty"`
	TailorID     *uint   `json:"tailorId,omitempty"`
}

// Create stores a new subscription plan
func (h *SubscriptionHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req subscriptionRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, &h.cfg.Server, apperr.Validation("Invalid request body"))
	}
	if req.PlanName == "" || req.Status == "" || req.Duration == 0 || req.Price == 0 {
		return fail(c, &h.cfg.Server, apperr.Validation("Missing required fields"))
	}
	if req.Price < 0 || req.Duration < 0 {
		return fail(c, &h.cfg.Server, apperr.Validation("Price and duration must be non-negative"))
	}
	if req.Status != model.StatusActive && req.Status != model.StatusInactive {
		return fail(c, &h.cfg.Server, apperr.Validation("Status must be Active or Inactive"))
	}

	subscription := model.Subscription{
		PlanName:     req.PlanName,
		Price:        req.Price,
		Status:       req.Status,
		Duration:     req.Duration,
		Description:  req.Description,
		MaxCustomers: req.MaxCustomers,
		TailorID:     req.TailorID,
		StartDate:    time.Now(),
		EndDate:      time.Now().AddDate(0, 0, req.Duration),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.WithContext(c.Request().Context()).Create(&subscription).Error; err != nil {
		log.Error("Error creating subscription", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to create subscription", err))
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":      true,
		"message":      "Subscription created successfully",
		"subscription": subscription,
	})
}

// List returns subscriptions paginated with an optional status filter
func (h *SubscriptionHandler) List(c echo.Context) error {
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

	query := h.db.WithContext(c.Request().Context()).Model(&model.Subscription{})
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error("Error counting subscriptions", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to fetch subscriptions", err))
	}

	var subscriptions []model.Subscription
	if err := query.
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&subscriptions).Error; err != nil {
		log.Error("Error fetching subscriptions", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to fetch subscriptions", err))
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"message":       "Subscriptions fetched successfully",
		"subscriptions": subscriptions,
		"pagination": echo.Map{
			"currentPage":        page,
			"totalPages":         totalPages,
			"totalSubscriptions": total,
			"hasNextPage":        page < totalPages,
		},
	})
}

// Get returns one subscription by id
func (h *SubscriptionHandler) Get(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return fail(c, &h.cfg.Server, apperr.Validation("Invalid subscription ID"))
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var subscription model.Subscription
	if err := h.db.WithContext(c.Request().Context()).First(&subscription, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, &h.cfg.Server, apperr.NotFound("Subscription not found"))
		}
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to fetch subscription", err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"message":      "Subscription fetched successfully",
		"subscription": subscription,
	})
}

// Update applies partial changes to a subscription
func (h *SubscriptionHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return fail(c, &h.cfg.Server, apperr.Validation("Invalid subscription ID"))
	}

	var req map[string]interface{}
	if err := c.Bind(&req); err != nil {
		return fail(c, &h.cfg.Server, apperr.Validation("Invalid request body"))
	}

	columns := map[string]string{
		"planName":     "plan_name",
		"price":        "price",
		"status":       "status",
		"duration":     "duration",
		"description":  "description",
		"maxCustomers": "max_customers",
	}
	updates := map[string]interface{}{}
	for key, column := range columns {
		if value, ok := req[key]; ok {
			updates[column] = value
		}
	}
	if len(updates) == 0 {
		return fail(c, &h.cfg.Server, apperr.Validation("No updatable fields provided"))
	}
	if price, ok := updates["price"].(float64); ok && price < 0 {
		return fail(c, &h.cfg.Server, apperr.Validation("Price and duration must be non-negative"))
	}
	if duration, ok := updates["duration"].(float64); ok && duration < 0 {
		return fail(c, &h.cfg.Server, apperr.Validation("Price and duration must be non-negative"))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	result := h.db.WithContext(c.Request().Context()).
		Model(&model.Subscription{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		log.Error("Error updating subscription", zap.Error(result.Error))
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to update subscription", result.Error))
	}
	if result.RowsAffected == 0 {
		return fail(c, &h.cfg.Server, apperr.NotFound("Subscription not found"))
	}

	var subscription model.Subscription
	if err := h.db.WithContext(c.Request().Context()).First(&subscription, id).Error; err != nil {
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to update subscription", err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"message":      "Subscription updated successfully",
		"subscription": subscription,
	})
}

// Delete removes a subscription
func (h *SubscriptionHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return fail(c, &h.cfg.Server, apperr.Validation("Invalid subscription ID"))
	}

	var subscription model.Subscription
	if err := h.db.WithContext(c.Request().Context()).First(&subscription, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, &h.cfg.Server, apperr.NotFound("Subscription not found"))
		}
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to delete subscription", err))
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.db.WithContext(c.Request().Context()).Delete(&subscription).Error; err != nil {
		log.Error("Error deleting subscription", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to delete subscription", err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"message":      "Subscription deleted successfully",
		"subscription": subscription,
	})
}
