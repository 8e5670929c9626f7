package dataset

import (
	"time"

	"club_admin_backend/internal/models"
)

// Demo user ids referenced by the login credentials.
const (
	SuperAdminID = "user-1"
	AdminID      = "user-2"
)

func strPtr(s string) *string { return &s }

// Fixtures returns the demo dataset. Dates are relative to now.
func Fixtures(now time.Time) *Dataset {
	ago := func(days int) time.Time { return now.AddDate(0, 0, -days) }
	base := func(id string, created, updated int) models.Base {
		return models.Base{ID: id, CreatedAt: ago(created), UpdatedAt: ago(updated)}
	}

	users := []models.User{
		{
			Base:     base(SuperAdminID, 100, 50),
			Username: "superadmin",
			Name:     "Super Admin",
			Email:    "superadmin@magicalcommunity.com",
			Phone:    "+1-555-0100",
			Role:     models.RoleSuperAdmin,
		},
		{
			Base:        base(AdminID, 90, 45),
			Username:    "admin1",
			Name:        "Admin One",
			Email:       "admin1@magicalcommunity.com",
			Phone:       "+1-555-0101",
			Role:        models.RoleAdmin,
			CreatedByID: strPtr(SuperAdminID),
			ClubIDs:     []string{"club-1", "club-3"},
		},
		{
			Base:        base("user-3", 80, 40),
			Username:    "admin2",
			Name:        "Admin Two",
			Email:       "admin2@magicalcommunity.com",
			Phone:       "+1-555-0102",
			Role:        models.RoleAdmin,
			CreatedByID: strPtr(AdminID),
			ClubIDs:     []string{"club-2"},
		},
	}

	clubs := []models.Club{
		{
			Base:          base("club-1", 85, 42),
			Name:          "Magical Wellness Central",
			Location:      "Downtown",
			Address:       "123 Central Avenue, Downtown City, State 12345",
			ContactNumber: "+91 9876543210",
			Phone:         "+91 9876543210",
			Email:         "central@magicalwellness.com",
			AdminID:       AdminID,
			AdminIDs:      []string{AdminID},
		},
		{
			Base:          base("club-2", 75, 38),
			Name:          "Magical Fitness East",
			Location:      "East City",
			Address:       "456 East Street, East City, State 12346",
			ContactNumber: "+91 9876543211",
			Phone:         "+91 9876543211",
			Email:         "east@magicalfitness.com",
			AdminID:       "user-3",
			AdminIDs:      []string{"user-3"},
		},
		{
			Base:          base("club-3", 65, 32),
			Name:          "Magical Health North",
			Location:      "North City",
			Address:       "789 North Road, North City, State 12347",
			ContactNumber: "+91 9876543212",
			Phone:         "+91 9876543212",
			Email:         "north@magicalhealth.com",
			AdminID:       AdminID,
			AdminIDs:      []string{AdminID},
		},
	}

	plans := []models.SubscriptionPlan{
		{
			Base:        base("plan-1", 85, 42),
			Name:        "Basic Monthly",
			Description: "Basic membership with standard amenities",
			Duration:    30,
			Price:       7500,
			Features:    []string{"Access to gym", "Basic training", "Locker access"},
			IsActive:    true,
			ClubID:      "club-1",
		},
		{
			Base:        base("plan-2", 84, 41),
			Name:        "Premium Monthly",
			Description: "Premium membership with all amenities",
			Duration:    30,
			Price:       10000,
			Features:    []string{"Access to gym", "Premium training", "Locker access", "Nutrition counseling", "Spa access"},
			IsActive:    true,
			ClubID:      "club-1",
		},
		{
			Base:        base("plan-3", 83, 40),
			Name:        "Basic Monthly",
			Description: "Basic membership with standard amenities",
			Duration:    30,
			Price:       7000,
			Features:    []string{"Access to gym", "Basic training", "Locker access"},
			IsActive:    true,
			ClubID:      "club-2",
		},
	}

	members := []models.Member{
		{
			Base: base("member-1", 70, 65),
			VisitInfo: models.VisitInfo{
				Name:           "Rahul Sharma",
				Mobile:         "+91 9876543220",
				Address:        "123 Main St, Downtown",
				ReferralSource: "Google",
				VisitDate:      ago(70),
				Type:           models.VisitTypeMember,
				ClubID:         "club-1",
			},
			MemberID:            "M001",
			MembershipStartDate: ago(65),
			MembershipEndDate:   ago(-25),
			SubscriptionPlanID:  "plan-1",
			IsActive:            true,
			Phone:               "+91 9876543220",
			Email:               "rahul@example.com",
			Status:              models.MemberStatusActive,
		},
		{
			Base: base("member-2", 60, 58),
			VisitInfo: models.VisitInfo{
				Name:           "Priya Patel",
				Mobile:         "+91 9876543221",
				Address:        "456 Park Ave, East City",
				ReferralSource: "Friend",
				VisitDate:      ago(60),
				Type:           models.VisitTypeMember,
				ClubID:         "club-2",
			},
			MemberID:            "M002",
			MembershipStartDate: ago(58),
			MembershipEndDate:   ago(-32),
			SubscriptionPlanID:  "plan-3",
			IsActive:            true,
			Phone:               "+91 9876543221",
			Email:               "priya@example.com",
			Status:              models.MemberStatusActive,
		},
	}

	trials := []models.Trial{
		{
			Base: base("trial-1", 10, 10),
			VisitInfo: models.VisitInfo{
				Name:           "Vikram Singh",
				Mobile:         "+91 9876543222",
				Address:        "789 Lake Rd, North City",
				ReferralSource: "Instagram",
				VisitDate:      ago(10),
				Type:           models.VisitTypeTrial,
				ClubID:         "club-1",
			},
			Fee:            700,
			TrialStartDate: ago(10),
			TrialEndDate:   ago(7),
		},
		{
			Base: base("trial-2", 15, 12),
			VisitInfo: models.VisitInfo{
				Name:           "Anita Desai",
				Mobile:         "+91 9876543223",
				Address:        "234 Hill St, Downtown",
				ReferralSource: "Facebook",
				VisitDate:      ago(15),
				Type:           models.VisitTypeTrial,
				ClubID:         "club-2",
			},
			Fee:               700,
			TrialStartDate:    ago(15),
			TrialEndDate:      ago(12),
			ConvertedToMember: true,
		},
	}

	visitors := []models.Visitor{
		{
			Base: base("visitor-1", 5, 5),
			VisitInfo: models.VisitInfo{
				Name:           "Suresh Kumar",
				Mobile:         "+91 9876543224",
				Address:        "567 River Rd, East City",
				ReferralSource: "Walk-in",
				VisitDate:      ago(5),
				Type:           models.VisitTypeVisitor,
				ClubID:         "club-1",
			},
		},
		{
			Base: base("visitor-2", 3, 3),
			VisitInfo: models.VisitInfo{
				Name:           "Meera Joshi",
				Mobile:         "+91 9876543225",
				Address:        "890 Mountain Ave, North City",
				ReferralSource: "Flyer",
				VisitDate:      ago(3),
				Type:           models.VisitTypeVisitor,
				ClubID:         "club-3",
			},
		},
	}

	payments := []models.Payment{
		{
			Base:          base("payment-1", 65, 65),
			Amount:        7500,
			Date:          ago(65),
			PaymentMethod: "Credit Card",
			Status:        models.PaymentFull,
			ClubID:        "club-1",
			MemberID:      strPtr("member-1"),
		},
		{
			Base:          base("payment-2", 58, 58),
			Amount:        5000,
			Date:          ago(58),
			PaymentMethod: "Cash",
			Status:        models.PaymentPartial,
			PendingAmount: 2000,
			ClubID:        "club-2",
			MemberID:      strPtr("member-2"),
		},
		{
			Base:          base("payment-3", 10, 10),
			Amount:        700,
			Date:          ago(10),
			PaymentMethod: "UPI",
			Status:        models.PaymentFull,
			ClubID:        "club-1",
			TrialID:       strPtr("trial-1"),
		},
	}

	expenses := []models.Expense{
		{Base: base("expense-1", 30, 30), Description: "Equipment maintenance", Amount: 5000, Date: ago(30), Category: "Maintenance", ClubID: "club-1"},
		{Base: base("expense-2", 20, 20), Description: "Utility bills", Amount: 8000, Date: ago(20), Category: "Utilities", ClubID: "club-2"},
	}

	items := []models.InventoryItem{
		{Base: base("inventory-1", 90, 15), Name: "Protein Shake", Category: models.CategorySupplies, Quantity: 50, MinThreshold: 10, Unit: "bottles", UnitPrice: 150, ClubID: "club-1"},
		{Base: base("inventory-2", 85, 10), Name: "Multivitamin", Category: models.CategorySupplies, Quantity: 100, MinThreshold: 20, Unit: "bottles", UnitPrice: 200, ClubID: "club-2"},
		{Base: base("inventory-3", 80, 5), Name: "BCAA Supplement", Category: models.CategorySupplies, Quantity: 30, MinThreshold: 5, Unit: "containers", UnitPrice: 350, ClubID: "club-1"},
	}

	usage := []models.InventoryUsage{
		{Base: base("usage-1", 15, 15), Date: ago(15), Quantity: 2, InventoryItemID: "inventory-1", MemberID: strPtr("member-1"), ClubID: "club-1"},
		{Base: base("usage-2", 10, 10), Date: ago(10), Quantity: 1, InventoryItemID: "inventory-2", MemberID: strPtr("member-2"), ClubID: "club-2"},
	}

	attendance := []models.Attendance{
		{Base: base("attendance-1", 5, 5), Date: ago(5), Status: models.AttendancePresent, MemberID: "member-1", ClubID: "club-1"},
		{Base: base("attendance-2", 4, 4), Date: ago(4), Status: models.AttendancePresent, MemberID: "member-2", ClubID: "club-2"},
		{Base: base("attendance-3", 3, 3), Date: ago(3), Status: models.AttendanceAbsent, MemberID: "member-1", ClubID: "club-1"},
	}

	return &Dataset{
		Users:             users,
		Clubs:             clubs,
		Members:           members,
		Trials:            trials,
		Visitors:          visitors,
		Payments:          payments,
		Expenses:          expenses,
		InventoryItems:    items,
		InventoryUsage:    usage,
		Attendance:        attendance,
		SubscriptionPlans: plans,
		DashboardMetrics: &models.DashboardMetrics{
			DailyVisitors:    5,
			TrialConversions: 2,
			NewMemberships:   1,
			DailyRevenue:     8900,
			MonthlyRevenue:   165000,
			StockLevels: map[string]int{
				"Protein Shake":   50,
				"Multivitamin":    100,
				"BCAA Supplement": 30,
			},
			AttendanceRate:   0.75,
			MemberGrowth:     []float64{10, 12, 15, 18, 20, 23, 25},
			RevenueAnalytics: []float64{120000, 140000, 135000, 150000, 165000, 155000, 165000},
			VisitorTrends:    []float64{20, 25, 18, 30, 28, 35, 32},
		},
	}
}
