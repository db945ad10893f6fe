package handler

import (
	"net/http"

	"etailor-admin/internal/apperr"
	"etailor-admin/internal/stats"
	"etailor-admin/pkg/config"
	"etailor-admin/pkg/logger"
	"etailor-admin/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DashboardHandler serves the aggregated dashboard payload
type DashboardHandler struct {
	engine *stats.Engine
	cfg    *config.Config
}

// NewDashboardHandler wires the dashboard handler
func NewDashboardHandler(engine *stats.Engine, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{engine: engine, cfg: cfg}
}

// Stats returns the dashboard aggregate. Revenue totals are rendered as
// currency strings here, at the boundary.
func (h *DashboardHandler) Stats(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordReport("dashboard")

	dashboard, err := h.engine.Dashboard(c.Request().Context())
	if err != nil {
		log.Error("Error fetching dashboard stats", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to fetch dashboard stats", err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":             true,
		"message":             "Dashboard stats fetched successfully",
		"totalTailors":        dashboard.TotalTailors,
		"totalCustomers":      dashboard.TotalCustomers,
		"totalRevenue":        stats.FormatCurrency(dashboard.TotalRevenue),
		"tailorRevenue":       dashboard.TailorRevenue,
		"subscriptions":       dashboard.Subscriptions,
		"newTailorsThisMonth": dashboard.NewTailorsThisMonth,
		"recentActivity":      dashboard.RecentActivity,
		"lastLogins":          dashboard.LastLogins,
	})
}
