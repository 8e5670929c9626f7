package models

// DashboardMetrics holds the headline figures of the selected club.
type DashboardMetrics struct {
	DailyVisitors    int            `json:"dailyVisitors"`
	TrialConversions int            `json:"trialConversions"`
	NewMemberships   int            `json:"newMemberships"`
	DailyRevenue     float64        `json:"dailyRevenue"`
	MonthlyRevenue   float64        `json:"monthlyRevenue"`
	StockLevels      map[string]int `json:"stockLevels"`
	AttendanceRate   float64        `json:"attendanceRate"`
	MemberGrowth     []float64      `json:"memberGrowth"`
	RevenueAnalytics []float64      `json:"revenueAnalytics"`
	VisitorTrends    []float64      `json:"visitorTrends"`
}

// Clone returns a deep copy so callers cannot mutate shared slices and maps.
func (m *DashboardMetrics) Clone() *DashboardMetrics {
	if m == nil {
		return nil
	}
	out := *m
	if m.StockLevels != nil {
		out.StockLevels = make(map[string]int, len(m.StockLevels))
		for k, v := range m.StockLevels {
			out.StockLevels[k] = v
		}
	}
	out.MemberGrowth = append([]float64(nil), m.MemberGrowth...)
	out.RevenueAnalytics = append([]float64(nil), m.RevenueAnalytics...)
	out.VisitorTrends = append([]float64(nil), m.VisitorTrends...)
	return &out
}

// FinanceReport summarizes payments and expenses of a club.
type FinanceReport struct {
	ClubID        string    `json:"clubId"`
	TotalRevenue  float64   `json:"totalRevenue"`
	TotalExpenses float64   `json:"totalExpenses"`
	NetProfit     float64   `json:"netProfit"`
	TotalPending  float64   `json:"totalPending"`
	Payments      []Payment `json:"payments"`
	Expenses      []Expense `json:"expenses"`
}

// InventoryReportItem pairs an item with its derived stock status.
type InventoryReportItem struct {
	InventoryItem
	Status StockStatus `json:"stockStatus"`
	Value  float64     `json:"value"`
}

// InventoryReport summarizes a club's stock, optionally filtered.
type InventoryReport struct {
	ClubID       string                `json:"clubId"`
	TotalItems   int                   `json:"totalItems"`
	LowStock     int                   `json:"lowStock"`
	OutOfStock   int                   `json:"outOfStock"`
	TotalValue   float64               `json:"totalValue"`
	Items        []InventoryReportItem `json:"items"`
	RecentUsages []InventoryUsage      `json:"recentUsages"`
}

// AttendanceReport summarizes attendance inside a date window.
type AttendanceReport struct {
	ClubID  string       `json:"clubId"`
	Window  string       `json:"window"`
	Total   int          `json:"total"`
	Present int          `json:"present"`
	Absent  int          `json:"absent"`
	Rate    float64      `json:"rate"` // percent, 0 when there are no records
	Records []Attendance `json:"records"`
}

// SubscriptionReport summarizes plans and subscribed members.
type SubscriptionReport struct {
	ClubID         string             `json:"clubId"`
	Plans          []SubscriptionPlan `json:"plans"`
	ActivePlans    int                `json:"activePlans"`
	Subscribers    int                `json:"subscribers"`
	MonthlyRevenue float64            `json:"monthlyRevenue"`
}

// InventoryReportParams filters the inventory report.
type InventoryReportParams struct {
	Category string `form:"category"`
	Search   string `form:"search"`
}

// AttendanceReportParams filters the attendance report.
type AttendanceReportParams struct {
	Window string `form:"window"` // today, week, month, all
	Status string `form:"status"`
}

// MemberSearchParams filters the member list.
type MemberSearchParams struct {
	Search string `form:"search"`
	Status string `form:"status"`
}

// DashboardReport is the landing view: selected club, its stored metrics and live record counts.
type DashboardReport struct {
	SelectedClub *Club             `json:"selectedClub"`
	Metrics      *DashboardMetrics `json:"metrics"`
	Counts       map[string]int    `json:"counts"`
}
