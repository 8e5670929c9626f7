package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"club_admin_backend/internal/models"
	"club_admin_backend/internal/session"
	"club_admin_backend/pkg/utils"
)

// Attendance report windows.
const (
	WindowToday = "today"
	WindowWeek  = "week"
	WindowMonth = "month"
	WindowAll   = "all"
)

// Number of usage records attached to the inventory report.
const recentUsageLimit = 10

// --- ReportService Interface ---
type ReportService interface {
	GetDashboard(ctx context.Context, sess *session.Session) (*models.DashboardReport, error)
	GetFinanceReport(ctx context.Context, sess *session.Session, clubID string) (*models.FinanceReport, error)
	GetInventoryReport(ctx context.Context, sess *session.Session, clubID string, params models.InventoryReportParams) (*models.InventoryReport, error)
	GetAttendanceReport(ctx context.Context, sess *session.Session, clubID string, params models.AttendanceReportParams) (*models.AttendanceReport, error)
	GetSubscriptionReport(ctx context.Context, sess *session.Session, clubID string) (*models.SubscriptionReport, error)
}

// --- reportService Implementation ---
type reportService struct{}

// NewReportService creates a new instance of ReportService.
func NewReportService() ReportService {
	return &reportService{}
}

// GetDashboard returns the selected club with its metrics. When nothing is selected
// yet the first visible club is selected and loaded.
func (s *reportService) GetDashboard(ctx context.Context, sess *session.Session) (*models.DashboardReport, error) {
	if !sess.IsAuthenticated() {
		return nil, fmt.Errorf("%w: not signed in", ErrForbidden)
	}
	st := sess.Store
	sel := st.SelectedClub()
	if sel != nil && !sess.CanViewClub(sel.ID) {
		sel = nil
	}
	switch {
	case sel == nil:
		if clubs := sess.VisibleClubs(); len(clubs) > 0 {
			if err := st.SetSelectedClub(ctx, &clubs[0]); err != nil {
				return nil, fmt.Errorf("failed to load club %s: %w", clubs[0].ID, storeError(err))
			}
		}
	case st.LoadedClubID() != sel.ID:
		if err := st.LoadClubData(ctx, sel.ID); err != nil {
			return nil, fmt.Errorf("failed to load club %s: %w", sel.ID, storeError(err))
		}
	}
	state := st.State()
	return &models.DashboardReport{
		SelectedClub: state.SelectedClub,
		Metrics:      st.Metrics(),
		Counts:       state.Counts,
	}, nil
}

func (s *reportService) GetFinanceReport(ctx context.Context, sess *session.Session, clubID string) (*models.FinanceReport, error) {
	if err := requireClub(ctx, sess, clubID); err != nil {
		return nil, err
	}
	r := &models.FinanceReport{
		ClubID:   clubID,
		Payments: sess.Store.Payments.QueryByClub(clubID),
		Expenses: sess.Store.Expenses.QueryByClub(clubID),
	}
	for _, p := range r.Payments {
		r.TotalRevenue += p.Amount
		r.TotalPending += p.PendingAmount
	}
	for _, e := range r.Expenses {
		r.TotalExpenses += e.Amount
	}
	r.NetProfit = r.TotalRevenue - r.TotalExpenses
	return r, nil
}

// GetInventoryReport counts each item once under its derived stock status.
func (s *reportService) GetInventoryReport(ctx context.Context, sess *session.Session, clubID string, params models.InventoryReportParams) (*models.InventoryReport, error) {
	if err := requireClub(ctx, sess, clubID); err != nil {
		return nil, err
	}
	category := strings.ToUpper(strings.TrimSpace(params.Category))
	term := strings.TrimSpace(params.Search)

	r := &models.InventoryReport{ClubID: clubID, Items: []models.InventoryReportItem{}}
	for _, item := range sess.Store.InventoryItems.QueryByClub(clubID) {
		if category != "" && category != "ALL" && string(item.Category) != category {
			continue
		}
		if term != "" && !utils.ContainsFold(item.Name, term) && !utils.ContainsFold(item.Description, term) {
			continue
		}
		row := models.InventoryReportItem{InventoryItem: item, Status: item.StockStatus(), Value: item.Value()}
		switch row.Status {
		case models.StockLow:
			r.LowStock++
		case models.StockOutOfStock:
			r.OutOfStock++
		}
		r.TotalValue += row.Value
		r.Items = append(r.Items, row)
	}
	r.TotalItems = len(r.Items)

	usages := sess.Store.InventoryUsage.QueryByClub(clubID)
	sort.SliceStable(usages, func(i, j int) bool { return usages[i].Date.After(usages[j].Date) })
	if len(usages) > recentUsageLimit {
		usages = usages[:recentUsageLimit]
	}
	r.RecentUsages = usages
	return r, nil
}

// inWindow reports whether t falls inside window as seen at now. today compares UTC calendar days.
func inWindow(t, now time.Time, window string) bool {
	switch window {
	case WindowToday:
		return t.UTC().Format("2006-01-02") == now.UTC().Format("2006-01-02")
	case WindowWeek:
		return !t.Before(now.AddDate(0, 0, -7))
	case WindowMonth:
		return !t.Before(now.AddDate(0, -1, 0))
	default:
		return true
	}
}

// GetAttendanceReport defaults to today's records. Rate is a percentage of present records.
func (s *reportService) GetAttendanceReport(ctx context.Context, sess *session.Session, clubID string, params models.AttendanceReportParams) (*models.AttendanceReport, error) {
	window := strings.ToLower(strings.TrimSpace(params.Window))
	if window == "" {
		window = WindowToday
	}
	switch window {
	case WindowToday, WindowWeek, WindowMonth, WindowAll:
	default:
		return nil, fmt.Errorf("%w: unknown window %q", ErrValidation, params.Window)
	}
	status := strings.ToUpper(strings.TrimSpace(params.Status))

	if err := requireClub(ctx, sess, clubID); err != nil {
		return nil, err
	}
	now := sess.Store.Now()
	r := &models.AttendanceReport{ClubID: clubID, Window: window, Records: []models.Attendance{}}
	for _, a := range sess.Store.Attendance.QueryByClub(clubID) {
		if !inWindow(a.Date, now, window) {
			continue
		}
		if status != "" && status != "ALL" && string(a.Status) != status {
			continue
		}
		switch a.Status {
		case models.AttendancePresent:
			r.Present++
		case models.AttendanceAbsent:
			r.Absent++
		}
		r.Records = append(r.Records, a)
	}
	r.Total = len(r.Records)
	if r.Total > 0 {
		r.Rate = float64(r.Present) / float64(r.Total) * 100
	}
	return r, nil
}

// GetSubscriptionReport counts members holding a plan; monthly revenue sums their plan prices.
func (s *reportService) GetSubscriptionReport(ctx context.Context, sess *session.Session, clubID string) (*models.SubscriptionReport, error) {
	if err := requireClub(ctx, sess, clubID); err != nil {
		return nil, err
	}
	plans := sess.Store.SubscriptionPlans.QueryByClub(clubID)
	price := make(map[string]float64, len(plans))
	r := &models.SubscriptionReport{ClubID: clubID, Plans: plans}
	for _, p := range plans {
		price[p.ID] = p.Price
		if p.IsActive {
			r.ActivePlans++
		}
	}
	for _, m := range sess.Store.Members.QueryByClub(clubID) {
		if m.SubscriptionPlanID == "" {
			continue
		}
		r.Subscribers++
		r.MonthlyRevenue += price[m.SubscriptionPlanID]
	}
	return r, nil
}
