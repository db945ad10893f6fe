package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"etailor-admin/internal/apperr"
	"etailor-admin/internal/stats"
	"etailor-admin/pkg/config"
	"etailor-admin/pkg/logger"
	"etailor-admin/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ReportHandler serves the date-windowed report and the yearly series
type ReportHandler struct {
	engine *stats.Engine
	cfg    *config.Config
}

// NewReportHandler wires the report handler
func NewReportHandler(engine *stats.Engine, cfg *config.Config) *ReportHandler {
	return &ReportHandler{engine: engine, cfg: cfg}
}

// Report returns per-tailor revenue/orders/customers over an optional date
// window (from/to query parameters, RFC3339 or plain dates).
func (h *ReportHandler) Report(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordReport("report")

	from, to, err := h.engine.ParseDateRange(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return fail(c, &h.cfg.Server, apperr.Validation(err.Error()))
	}

	report, err := h.engine.Report(c.Request().Context(), from, to)
	if err != nil {
		log.Error("Error generating reports", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to generate reports", err))
	}

	rows := make([]echo.Map, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, echo.Map{
			"shopName":           row.ShopName,
			"plan":               row.Plan,
			"subscriptionStatus": row.SubscriptionStatus,
			"revenue":            stats.FormatCurrency(row.Revenue),
			"ordersCount":        row.OrdersCount,
			"customersCount":     row.CustomersCount,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Report stats fetched successfully",
		"window": echo.Map{
			"from": report.From.Format(time.RFC3339),
			"to":   report.To.Format(time.RFC3339),
		},
		"totalTailors":   report.TotalTailors,
		"totalCustomers": report.TotalCustomers,
		"totalRevenue":   stats.FormatCurrency(report.TotalRevenue),
		"tailorReport":   rows,
		"subscriptions":  report.Subscriptions,
	})
}

// YearlyTailorStats returns the dense January..December registration series
func (h *ReportHandler) YearlyTailorStats(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordReport("yearly")

	year := time.Now().Year()
	if raw := c.QueryParam("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1970 || parsed > 9999 {
			return fail(c, &h.cfg.Server, apperr.Validation("year must be a four-digit number"))
		}
		year = parsed
	}

	series, err := h.engine.YearlyTailorStats(c.Request().Context(), year)
	if err != nil {
		if errors.Is(err, stats.ErrInvalidDateRange) {
			return fail(c, &h.cfg.Server, apperr.Validation(err.Error()))
		}
		log.Error("Error fetching yearly tailor stats", zap.Error(err))
		return fail(c, &h.cfg.Server, apperr.Internal("Failed to fetch yearly tailor stats", err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": fmt.Sprintf("Tailor registrations per month for %d", year),
		"year":    year,
		"stats":   series,
	})
}
