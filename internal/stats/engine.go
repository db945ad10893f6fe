package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"etailor-admin/internal/model"

	"gorm.io/gorm"
)

// ErrInvalidDateRange is returned before any query when a caller-supplied
// date window cannot be parsed or is inverted.
var ErrInvalidDateRange = errors.New("invalid date range")

// ErrAggregationFailed is returned for any datastore failure. Reports are
// read-only, so callers may retry; the engine itself never does.
var ErrAggregationFailed = errors.New("aggregation failed")

func aggFailed(err error) error {
	return fmt.Errorf("%w: %v", ErrAggregationFailed, err)
}

// Engine computes point-in-time statistics across tailors, customers,
// subscriptions and orders. All operations are pure reads.
type Engine struct {
	db  *gorm.DB
	now func() time.Time
}

// NewEngine creates an aggregation engine over the given database handle
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db, now: time.Now}
}

// CountWithGrowth pairs a total with its month-over-month growth label
type CountWithGrowth struct {
	Count  int64  `json:"count"`
	Growth string `json:"growth"`
}

// TailorRevenue is one row of the per-shop revenue breakdown
type TailorRevenue struct {
	ShopName string  `json:"shopName"`
	Revenue  float64 `json:"revenue"`
}

// SubscriptionSplit counts subscriptions by lifecycle status
type SubscriptionSplit struct {
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

// ActivityEntry is a recent-registration or last-login line
type ActivityEntry struct {
	ShopName  string `json:"shopName"`
	OwnerName string `json:"ownerName"`
	TimeAgo   string `json:"timeAgo"`
}

// Dashboard is the aggregate payload behind the dashboard-stats endpoint.
// Revenue fields stay numeric; the handler renders currency strings.
type Dashboard struct {
	TotalTailors        CountWithGrowth
	TotalCustomers      CountWithGrowth
	TotalRevenue        float64
	TailorRevenue       []TailorRevenue
	Subscriptions       SubscriptionSplit
	NewTailorsThisMonth []DayCount
	RecentActivity      []ActivityEntry
	LastLogins          []ActivityEntry
}

// ReportRow is one tailor's slice of the date-windowed report. Every tailor
// appears; joined-but-absent fields carry explicit sentinels rather than
// going missing.
type ReportRow struct {
	ShopName           string  `json:"shopName"`
	Plan               string  `json:"plan"`
	SubscriptionStatus string  `json:"subscriptionStatus"`
	Revenue            float64 `json:"revenue"`
	OrdersCount        int64   `json:"ordersCount"`
	CustomersCount     int64   `json:"customersCount"`
}

// Report is the date-windowed report payload
type Report struct {
	From           time.Time
	To             time.Time
	TotalTailors   CountWithGrowth
	TotalCustomers CountWithGrowth
	TotalRevenue   float64
	Rows           []ReportRow
	Subscriptions  SubscriptionSplit
}

// ParseDateRange validates an optional from/to pair. Absent bounds default
// to the epoch floor and now. Accepts RFC3339 or plain dates.
func (e *Engine) ParseDateRange(from, to string) (time.Time, time.Time, error) {
	start := time.Unix(0, 0).UTC()
	end := e.now()

	var err error
	if from != "" {
		start, err = parseDate(from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: bad 'from' value %q", ErrInvalidDateRange, from)
		}
	}
	if to != "" {
		end, err = parseDate(to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: bad 'to' value %q", ErrInvalidDateRange, to)
		}
		// A plain date upper bound means the whole day.
		if len(to) == len("2006-01-02") {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: 'to' precedes 'from'", ErrInvalidDateRange)
	}
	return start, end, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// Dashboard computes the full dashboard aggregate
func (e *Engine) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := e.now()
	lastStart, lastEnd := LastMonthWindow(now)
	thisStart, thisEnd := ThisMonthWindow(now)

	out := &Dashboard{}

	tailors, err := e.countWithGrowth(ctx, &model.Tailor{}, lastStart, lastEnd)
	if err != nil {
		return nil, err
	}
	out.TotalTailors = tailors

	customers, err := e.countWithGrowth(ctx, &model.Customer{}, lastStart, lastEnd)
	if err != nil {
		return nil, err
	}
	out.TotalCustomers = customers

	if err := e.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("status = ?", model.StatusActive).
		Select("COALESCE(SUM(revenue), 0)").
		Scan(&out.TotalRevenue).Error; err != nil {
		return nil, aggFailed(err)
	}

	if err := e.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Select("tailors.shop_name AS shop_name, SUM(subscriptions.revenue) AS revenue").
		Joins("JOIN tailors ON tailors.id = subscriptions.tailor_id AND tailors.deleted_at IS NULL").
		Where("subscriptions.status = ?", model.StatusActive).
		Group("tailors.shop_name").
		Scan(&out.TailorRevenue).Error; err != nil {
		return nil, aggFailed(err)
	}

	split, err := e.subscriptionSplit(ctx)
	if err != nil {
		return nil, err
	}
	out.Subscriptions = split

	daily, err := e.dailyNewTailors(ctx, now, thisStart, thisEnd)
	if err != nil {
		return nil, err
	}
	out.NewTailorsThisMonth = daily

	recent, err := e.recentTailors(ctx, now)
	if err != nil {
		return nil, err
	}
	out.RecentActivity = recent

	logins, err := e.lastLogins(ctx, now)
	if err != nil {
		return nil, err
	}
	out.LastLogins = logins

	return out, nil
}

// Report computes the date-windowed per-tailor report. The subscription join
// preserves tailors without one ("No Subscription"); when a tailor holds
// several rows the one with the latest end date wins.
func (e *Engine) Report(ctx context.Context, from, to time.Time) (*Report, error) {
	now := e.now()
	lastStart, lastEnd := LastMonthWindow(now)

	out := &Report{From: from, To: to}

	tailors, err := e.countWithGrowth(ctx, &model.Tailor{}, lastStart, lastEnd)
	if err != nil {
		return nil, err
	}
	out.TotalTailors = tailors

	customers, err := e.countWithGrowth(ctx, &model.Customer{}, lastStart, lastEnd)
	if err != nil {
		return nil, err
	}
	out.TotalCustomers = customers

	split, err := e.subscriptionSplit(ctx)
	if err != nil {
		return nil, err
	}
	out.Subscriptions = split

	var allTailors []model.Tailor
	if err := e.db.WithContext(ctx).
		Select("id", "shop_name").
		Order("shop_name ASC").
		Find(&allTailors).Error; err != nil {
		return nil, aggFailed(err)
	}

	var subs []model.Subscription
	if err := e.db.WithContext(ctx).
		Where("tailor_id IS NOT NULL").
		Order("end_date DESC").
		Find(&subs).Error; err != nil {
		return nil, aggFailed(err)
	}
	// First row per tailor is the latest end_date; later rows lose the tie-break.
	latestSub := make(map[uint]*model.Subscription, len(subs))
	for i := range subs {
		sub := &subs[i]
		if _, seen := latestSub[*sub.TailorID]; !seen {
			latestSub[*sub.TailorID] = sub
		}
	}

	type orderAgg struct {
		TailorID       uint
		Revenue        float64
		OrdersCount    int64
		CustomersCount int64
	}
	var orderRows []orderAgg
	if err := e.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("tailor_id, COALESCE(SUM(amount), 0) AS revenue, COUNT(*) AS orders_count, COUNT(DISTINCT customer_id) AS customers_count").
		Where("created_at BETWEEN ? AND ?", from, to).
		Group("tailor_id").
		Scan(&orderRows).Error; err != nil {
		return nil, aggFailed(err)
	}
	ordersByTailor := make(map[uint]orderAgg, len(orderRows))
	for _, row := range orderRows {
		ordersByTailor[row.TailorID] = row
	}

	rows := make([]ReportRow, 0, len(allTailors))
	for _, t := range allTailors {
		row := ReportRow{
			ShopName:           t.ShopName,
			Plan:               "No Subscription",
			SubscriptionStatus: "Unknown",
		}
		if sub, ok := latestSub[t.ID]; ok {
			row.Plan = sub.PlanName
			row.SubscriptionStatus = sub.Status
		}
		if agg, ok := ordersByTailor[t.ID]; ok {
			row.Revenue = agg.Revenue
			row.OrdersCount = agg.OrdersCount
			row.CustomersCount = agg.CustomersCount
		}
		out.TotalRevenue += row.Revenue
		rows = append(rows, row)
	}
	out.Rows = rows

	return out, nil
}

// YearlyTailorStats partitions tailor registrations for a year into a dense
// 12-slot monthly series, January through December.
func (e *Engine) YearlyTailorStats(ctx context.Context, year int) ([]MonthCount, error) {
	start, end := YearWindow(year, time.UTC)

	type monthRow struct {
		Month int
		Count int64
	}
	var rows []monthRow
	if err := e.db.WithContext(ctx).
		Model(&model.Tailor{}).
		Select("EXTRACT(MONTH FROM created_at)::int AS month, COUNT(*) AS count").
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("month").
		Scan(&rows).Error; err != nil {
		return nil, aggFailed(err)
	}

	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.Month] = row.Count
	}
	return DenseMonthSeries(counts), nil
}

func (e *Engine) countWithGrowth(ctx context.Context, entity interface{}, priorStart, priorEnd time.Time) (CountWithGrowth, error) {
	var total int64
	if err := e.db.WithContext(ctx).Model(entity).Count(&total).Error; err != nil {
		return CountWithGrowth{}, aggFailed(err)
	}

	var prior int64
	if err := e.db.WithContext(ctx).
		Model(entity).
		Where("created_at BETWEEN ? AND ?", priorStart, priorEnd).
		Count(&prior).Error; err != nil {
		return CountWithGrowth{}, aggFailed(err)
	}

	return CountWithGrowth{Count: total, Growth: FormatGrowth(total, prior)}, nil
}

func (e *Engine) subscriptionSplit(ctx context.Context) (SubscriptionSplit, error) {
	var split SubscriptionSplit
	if err := e.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("status = ?", model.StatusActive).
		Count(&split.Active).Error; err != nil {
		return split, aggFailed(err)
	}
	if err := e.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("status = ?", model.StatusInactive).
		Count(&split.Inactive).Error; err != nil {
		return split, aggFailed(err)
	}
	return split, nil
}

func (e *Engine) dailyNewTailors(ctx context.Context, now, start, end time.Time) ([]DayCount, error) {
	type dayRow struct {
		Day   int
		Count int64
	}
	var rows []dayRow
	if err := e.db.WithContext(ctx).
		Model(&model.Tailor{}).
		Select("EXTRACT(DAY FROM created_at)::int AS day, COUNT(*) AS count").
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("day").
		Scan(&rows).Error; err != nil {
		return nil, aggFailed(err)
	}

	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.Day] = row.Count
	}
	return DenseDaySeries(now.Year(), now.Month(), counts), nil
}

func (e *Engine) recentTailors(ctx context.Context, now time.Time) ([]ActivityEntry, error) {
	var tailors []model.Tailor
	if err := e.db.WithContext(ctx).
		Select("shop_name", "owner_name", "created_at").
		Order("created_at DESC").
		Limit(5).
		Find(&tailors).Error; err != nil {
		return nil, aggFailed(err)
	}

	entries := make([]ActivityEntry, 0, len(tailors))
	for _, t := range tailors {
		entries = append(entries, ActivityEntry{
			ShopName:  t.ShopName,
			OwnerName: t.OwnerName,
			TimeAgo:   TimeAgo(t.CreatedAt, now),
		})
	}
	return entries, nil
}

func (e *Engine) lastLogins(ctx context.Context, now time.Time) ([]ActivityEntry, error) {
	type loginRow struct {
		ShopName  string
		OwnerName string
		LoginAt   time.Time
	}
	var rows []loginRow
	if err := e.db.WithContext(ctx).
		Model(&model.LoginEvent{}).
		Select("tailors.shop_name AS shop_name, tailors.owner_name AS owner_name, login_events.login_at AS login_at").
		Joins("LEFT JOIN tailors ON tailors.id = login_events.tailor_id AND tailors.deleted_at IS NULL").
		Order("login_events.login_at DESC").
		Limit(6).
		Scan(&rows).Error; err != nil {
		return nil, aggFailed(err)
	}

	entries := make([]ActivityEntry, 0, len(rows))
	for _, row := range rows {
		entry := ActivityEntry{
			ShopName:  row.ShopName,
			OwnerName: row.OwnerName,
			TimeAgo:   TimeAgo(row.LoginAt, now),
		}
		if entry.ShopName == "" {
			entry.ShopName = "Unknown"
		}
		if entry.OwnerName == "" {
			entry.OwnerName = "Unknown"
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
