package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"club_admin_backend/internal/dataset"
	"club_admin_backend/internal/models"
	"club_admin_backend/internal/services"
	"club_admin_backend/internal/session"
	"club_admin_backend/internal/store"
	"club_admin_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

func login(t *testing.T, username string) *session.Session {
	t.Helper()
	sess, _ := loginWithSource(t, username)
	return sess
}

// loginWithSource also returns the dataset behind the session so tests can fail it.
func loginWithSource(t *testing.T, username string) (*session.Session, *dataset.Source) {
	t.Helper()
	src := dataset.NewSource(dataset.Fixtures(testNow), 0)
	issuer, err := utils.NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	creds, err := session.DemoCredentials(dataset.SuperAdminID, dataset.AdminID, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
	m, err := session.NewManager(session.Config{
		Issuer:       issuer,
		Tokens:       session.NewMemoryTokenStore(),
		Source:       src,
		Credentials:  creds,
		StoreOptions: []store.Option{store.WithClock(func() time.Time { return testNow })},
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	sess, err := m.Login(context.Background(), username, "password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return sess, src
}

func strPtr(s string) *string { return &s }

func TestScopedCreateAssignsIdentityAndClub(t *testing.T) {
	sess := login(t, "admin")
	svc := services.NewExpenseService()
	ctx := context.Background()

	created, err := svc.Create(ctx, sess, "club-1", models.Expense{
		Base:        models.Base{ID: "client-chosen"},
		Description: "Towels",
		Amount:      1200,
		Category:    "Supplies",
		ClubID:      "club-2",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.ID == "client-chosen" {
		t.Fatalf("expected generated id, got %q", created.ID)
	}
	if created.ClubID != "club-1" {
		t.Fatalf("expected club-1, got %s", created.ClubID)
	}
	if !created.CreatedAt.Equal(testNow) || !created.Date.Equal(testNow) {
		t.Fatalf("expected timestamps from store clock, got %v / %v", created.CreatedAt, created.Date)
	}

	list, err := svc.List(ctx, sess, "club-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 expenses in club-1, got %d", len(list))
	}
}

func TestScopedRejectsInvisibleClub(t *testing.T) {
	sess := login(t, "admin")
	if err := sess.Store.Clubs.Add(models.Club{Base: models.Base{ID: "club-9"}, Name: "Elsewhere"}); err != nil {
		t.Fatalf("seed club: %v", err)
	}
	_, err := services.NewVisitorService().List(context.Background(), sess, "club-9")
	if !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestScopedUnknownClubIsNotFound(t *testing.T) {
	sess := login(t, "superadmin")
	_, err := services.NewVisitorService().List(context.Background(), sess, "club-404")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScopedHidesOtherClubEntities(t *testing.T) {
	sess := login(t, "superadmin")
	svc := services.NewPaymentService()
	ctx := context.Background()

	// payment-2 belongs to club-2
	if _, err := svc.Get(ctx, sess, "club-1", "payment-2"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, sess, "club-1", "payment-404"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestScopedUpdateKeepsIdentity(t *testing.T) {
	sess := login(t, "superadmin")
	svc := services.NewInventoryItemService()
	ctx := context.Background()

	before, err := svc.Get(ctx, sess, "club-1", "inventory-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	next := *before
	next.Quantity = 4
	next.Base = models.Base{ID: "other"}
	updated, err := svc.Update(ctx, sess, "club-1", "inventory-1", next)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != "inventory-1" || !updated.CreatedAt.Equal(before.CreatedAt) {
		t.Fatalf("identity changed: %+v", updated.Base)
	}
	if !updated.UpdatedAt.After(before.UpdatedAt) {
		t.Fatal("expected updatedAt to advance")
	}
	if updated.StockStatus() != models.StockLow {
		t.Fatalf("expected LOW_STOCK, got %s", updated.StockStatus())
	}
}

func TestPaymentRules(t *testing.T) {
	sess := login(t, "superadmin")
	svc := services.NewPaymentService()
	ctx := context.Background()

	cases := []struct {
		name    string
		payment models.Payment
		wantErr bool
	}{
		{"full", models.Payment{Amount: 100, PaymentMethod: "Cash", Status: models.PaymentFull}, false},
		{"partial with pending", models.Payment{Amount: 100, PaymentMethod: "Cash", Status: models.PaymentPartial, PendingAmount: 50}, false},
		{"partial without pending", models.Payment{Amount: 100, PaymentMethod: "Cash", Status: models.PaymentPartial}, true},
		{"full with pending", models.Payment{Amount: 100, PaymentMethod: "Cash", Status: models.PaymentFull, PendingAmount: 10}, true},
		{"member and trial", models.Payment{Amount: 100, PaymentMethod: "Cash", Status: models.PaymentFull, MemberID: strPtr("member-1"), TrialID: strPtr("trial-1")}, true},
		{"member of other club", models.Payment{Amount: 100, PaymentMethod: "Cash", Status: models.PaymentFull, MemberID: strPtr("member-2")}, true},
		{"zero amount", models.Payment{PaymentMethod: "Cash", Status: models.PaymentFull}, true},
		{"unknown status", models.Payment{Amount: 100, PaymentMethod: "Cash", Status: "LATER"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, sess, "club-1", tc.payment)
			if tc.wantErr && !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAttendanceRequiresClubMember(t *testing.T) {
	sess := login(t, "superadmin")
	svc := services.NewAttendanceService()
	_, err := svc.Create(context.Background(), sess, "club-1", models.Attendance{
		Status:   models.AttendancePresent,
		MemberID: "member-2",
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTrialDefaultsAndConversion(t *testing.T) {
	sess := login(t, "superadmin")
	ctx := context.Background()
	trials := services.NewTrialService()

	trial, err := trials.Create(ctx, sess, "club-1", models.Trial{
		VisitInfo: models.VisitInfo{Name: "Nisha Rao", Mobile: "+91 9000000001"},
		Fee:       500,
	})
	if err != nil {
		t.Fatalf("create trial: %v", err)
	}
	if trial.Type != models.VisitTypeTrial {
		t.Fatalf("expected TRIAL tag, got %s", trial.Type)
	}
	if !trial.TrialEndDate.Equal(testNow.AddDate(0, 0, 3)) {
		t.Fatalf("unexpected trial end %v", trial.TrialEndDate)
	}

	members := services.NewMemberService()
	member, err := members.ConvertTrial(ctx, sess, "club-1", trial.ID, services.ConvertTrialRequest{SubscriptionPlanID: "plan-2"})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if member.Name != "Nisha Rao" || member.Phone != "+91 9000000001" || !member.IsActive {
		t.Fatalf("unexpected member %+v", member)
	}
	if !member.MembershipEndDate.Equal(testNow.AddDate(0, 0, 30)) {
		t.Fatalf("expected plan duration, got %v", member.MembershipEndDate)
	}
	after, _ := trials.Get(ctx, sess, "club-1", trial.ID)
	if !after.ConvertedToMember {
		t.Fatal("expected trial flagged as converted")
	}
	if _, err := members.ConvertTrial(ctx, sess, "club-1", trial.ID, services.ConvertTrialRequest{}); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected ErrConflict on second conversion, got %v", err)
	}
}

func TestCreateMemberDefaults(t *testing.T) {
	sess := login(t, "admin")
	svc := services.NewMemberService()

	m, err := svc.CreateMember(context.Background(), sess, "club-1", services.CreateMemberRequest{
		Name:   "Kiran Mehta",
		Phone:  "+91 9000000002",
		Email:  "kiran@example.com",
		Status: models.MemberStatusInactive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(m.MemberID, "MEM-") {
		t.Fatalf("expected MEM- number, got %s", m.MemberID)
	}
	if m.Type != models.VisitTypeMember || m.Mobile != m.Phone || m.ReferralSource != "Direct" {
		t.Fatalf("unexpected defaults %+v", m)
	}
	if m.IsActive {
		t.Fatal("INACTIVE member must not be active")
	}
	if !m.MembershipStartDate.Equal(testNow) || !m.MembershipEndDate.Equal(testNow.AddDate(0, 0, 365)) {
		t.Fatalf("unexpected membership window %v - %v", m.MembershipStartDate, m.MembershipEndDate)
	}
	if m.SubscriptionPlanID != "plan-1" {
		t.Fatalf("expected first active plan, got %q", m.SubscriptionPlanID)
	}

	active := models.MemberStatusActive
	phone := "+91 9000000003"
	updated, err := svc.UpdateMember(context.Background(), sess, "club-1", m.ID, services.UpdateMemberRequest{Status: &active, Phone: &phone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsActive || updated.Mobile != phone || updated.MemberID != m.MemberID {
		t.Fatalf("unexpected update %+v", updated)
	}
}

func TestCreateMemberRejectsForeignPlan(t *testing.T) {
	sess := login(t, "superadmin")
	_, err := services.NewMemberService().CreateMember(context.Background(), sess, "club-1", services.CreateMemberRequest{
		Name:               "Dev Anand",
		SubscriptionPlanID: "plan-3",
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestListMembersSearch(t *testing.T) {
	sess := login(t, "superadmin")
	svc := services.NewMemberService()
	ctx := context.Background()

	if _, err := svc.CreateMember(ctx, sess, "club-1", services.CreateMemberRequest{Name: "Zara Khan", Phone: "555-777", Status: models.MemberStatusVisitor}); err != nil {
		t.Fatalf("create: %v", err)
	}

	cases := []struct {
		params models.MemberSearchParams
		want   []string
	}{
		{models.MemberSearchParams{}, []string{"Zara Khan", "Rahul Sharma"}},
		{models.MemberSearchParams{Search: "rahul"}, []string{"Rahul Sharma"}},
		{models.MemberSearchParams{Search: "777"}, []string{"Zara Khan"}},
		{models.MemberSearchParams{Search: "EXAMPLE.COM"}, []string{"Rahul Sharma"}},
		{models.MemberSearchParams{Status: "active"}, []string{"Rahul Sharma"}},
		{models.MemberSearchParams{Status: "ALL", Search: "nobody"}, nil},
	}
	for _, tc := range cases {
		got, err := svc.ListMembers(ctx, sess, "club-1", tc.params)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("%+v: expected %v, got %d members", tc.params, tc.want, len(got))
		}
		for i, name := range tc.want {
			if got[i].Name != name {
				t.Fatalf("%+v: position %d expected %s, got %s", tc.params, i, name, got[i].Name)
			}
		}
	}
}

func TestVisitLogIsTaggedAndOrdered(t *testing.T) {
	sess := login(t, "superadmin")
	log, err := services.NewMemberService().VisitLog(context.Background(), sess, "club-1")
	if err != nil {
		t.Fatalf("visit log: %v", err)
	}
	// visitor-1 (5d), trial-1 (10d), member-1 (70d)
	if len(log) != 3 {
		t.Fatalf("expected 3 records, got %d", len(log))
	}
	for i, want := range []models.VisitType{models.VisitTypeVisitor, models.VisitTypeTrial, models.VisitTypeMember} {
		rec := log[i]
		if rec.Visit().Type != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, rec.Visit().Type)
		}
		switch r := rec.(type) {
		case *models.Visitor:
		case *models.Trial:
			if r.Fee != 700 {
				t.Fatalf("unexpected trial fee %v", r.Fee)
			}
		case *models.Member:
			if r.MemberID != "M001" {
				t.Fatalf("unexpected member %s", r.MemberID)
			}
		default:
			t.Fatalf("unexpected record type %T", rec)
		}
	}
}

func TestClubServicePermissions(t *testing.T) {
	admin := login(t, "admin")
	clubs := services.NewClubService()

	if _, err := clubs.CreateClub(admin, services.CreateClubRequest{Name: "New"}); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for admin create, got %v", err)
	}
	if err := clubs.DeleteClub(admin, "club-1"); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for admin delete, got %v", err)
	}
	list, err := clubs.ListClubs(admin)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected admin to see 3 clubs, got %d", len(list))
	}
}

func TestClubServiceCreateUpdate(t *testing.T) {
	super := login(t, "superadmin")
	clubs := services.NewClubService()
	ctx := context.Background()

	c, err := clubs.CreateClub(super, services.CreateClubRequest{
		Name:     "Magical Yoga West",
		Address:  "1 West Lane",
		Phone:    "+91 9000000010",
		Email:    "west@magicalyoga.com",
		AdminIDs: []string{"user-3", dataset.AdminID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.AdminID != "user-3" || c.Location != "1 West Lane" || c.ContactNumber != "+91 9000000010" {
		t.Fatalf("unexpected derived fields %+v", c)
	}

	name := "Magical Yoga West End"
	updated, err := clubs.UpdateClub(super, c.ID, services.UpdateClubRequest{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.AdminID != "user-3" || updated.Name != name {
		t.Fatalf("expected primary admin kept, got %+v", updated)
	}

	selected, err := clubs.SelectClub(ctx, super, c.ID)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if selected == nil || selected.ID != c.ID {
		t.Fatalf("expected %s selected, got %+v", c.ID, selected)
	}

	if _, err := clubs.CreateClub(super, services.CreateClubRequest{Name: "X", AdminIDs: []string{"ghost"}}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown admin, got %v", err)
	}
}

func TestDeleteClubDoesNotCascade(t *testing.T) {
	super := login(t, "superadmin")
	ctx := context.Background()
	if _, err := services.NewClubService().SelectClub(ctx, super, "club-1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := services.NewClubService().DeleteClub(super, "club-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if super.Store.SelectedClub() != nil {
		t.Fatal("expected selection cleared")
	}
	if super.Store.Members.Len() == 0 {
		t.Fatal("members must survive club delete")
	}
}

func TestAdminServiceLifecycle(t *testing.T) {
	super := login(t, "superadmin")
	admins := services.NewAdminService()

	created, err := admins.CreateAdmin(super, services.CreateAdminRequest{
		Name:    "Admin Three",
		Email:   "admin3@magicalcommunity.com",
		ClubIDs: []string{"club-3"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Username != created.Email || created.Role != models.RoleAdmin {
		t.Fatalf("unexpected admin %+v", created)
	}
	if created.CreatedByID == nil || *created.CreatedByID != dataset.SuperAdminID {
		t.Fatal("expected creator recorded")
	}
	if !super.HasCreatedAdmin(created.ID) {
		t.Fatal("super-admin manages every admin")
	}

	if _, err := admins.CreateAdmin(super, services.CreateAdminRequest{Name: "Dup", Email: "ADMIN3@magicalcommunity.com"}); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	email := "admin.three@magicalcommunity.com"
	updated, err := admins.UpdateAdmin(super, created.ID, services.UpdateAdminRequest{Email: &email})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Username != email || *updated.CreatedByID != dataset.SuperAdminID {
		t.Fatalf("unexpected update %+v", updated)
	}

	list, _ := admins.ListAdmins(super)
	if len(list) != 3 {
		t.Fatalf("expected 3 admins, got %d", len(list))
	}
	if err := admins.DeleteAdmin(super, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := admins.DeleteAdmin(super, dataset.SuperAdminID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("super-admin is not an admin record, got %v", err)
	}

	admin := login(t, "admin")
	if _, err := admins.ListAdmins(admin); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for admin, got %v", err)
	}
}

func TestReports(t *testing.T) {
	sess := login(t, "superadmin")
	reports := services.NewReportService()
	ctx := context.Background()

	fin, err := reports.GetFinanceReport(ctx, sess, "club-1")
	if err != nil {
		t.Fatalf("finance: %v", err)
	}
	if fin.TotalRevenue != 8200 || fin.TotalExpenses != 5000 || fin.NetProfit != 3200 || fin.TotalPending != 0 {
		t.Fatalf("unexpected finance %+v", fin)
	}

	inv, err := reports.GetInventoryReport(ctx, sess, "club-1", models.InventoryReportParams{Search: "shake"})
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if inv.TotalItems != 1 || inv.TotalValue != 7500 || inv.LowStock != 0 {
		t.Fatalf("unexpected inventory %+v", inv)
	}
	if inv.Items[0].Status != models.StockInStock {
		t.Fatalf("unexpected status %s", inv.Items[0].Status)
	}

	att, err := reports.GetAttendanceReport(ctx, sess, "club-1", models.AttendanceReportParams{Window: "week"})
	if err != nil {
		t.Fatalf("attendance: %v", err)
	}
	if att.Total != 2 || att.Present != 1 || att.Absent != 1 || att.Rate != 50 {
		t.Fatalf("unexpected attendance %+v", att)
	}
	today, _ := reports.GetAttendanceReport(ctx, sess, "club-1", models.AttendanceReportParams{})
	if today.Window != services.WindowToday || today.Total != 0 || today.Rate != 0 {
		t.Fatalf("unexpected today report %+v", today)
	}
	if _, err := reports.GetAttendanceReport(ctx, sess, "club-1", models.AttendanceReportParams{Window: "decade"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	sub, err := reports.GetSubscriptionReport(ctx, sess, "club-1")
	if err != nil {
		t.Fatalf("subscriptions: %v", err)
	}
	if len(sub.Plans) != 2 || sub.Subscribers != 1 || sub.MonthlyRevenue != 7500 {
		t.Fatalf("unexpected subscriptions %+v", sub)
	}
}

func TestDashboardSelectsFirstVisibleClub(t *testing.T) {
	sess := login(t, "admin")
	dash, err := services.NewReportService().GetDashboard(context.Background(), sess)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.SelectedClub == nil || dash.SelectedClub.ID != "club-1" {
		t.Fatalf("expected club-1 selected, got %+v", dash.SelectedClub)
	}
	if dash.Metrics == nil || dash.Metrics.DailyVisitors != 5 {
		t.Fatalf("unexpected metrics %+v", dash.Metrics)
	}
	if dash.Counts[store.CollectionMembers] != 1 {
		t.Fatalf("expected 1 member loaded, got %d", dash.Counts[store.CollectionMembers])
	}
}

func TestFailedSelectReloadsOnNextAccess(t *testing.T) {
	sess, src := loginWithSource(t, "superadmin")
	ctx := context.Background()
	members := services.NewMemberService()
	clubs := services.NewClubService()

	if got, err := members.ListMembers(ctx, sess, "club-2", models.MemberSearchParams{}); err != nil || len(got) != 1 {
		t.Fatalf("club-2: expected 1 member, got %d (%v)", len(got), err)
	}
	if _, err := members.ListMembers(ctx, sess, "club-1", models.MemberSearchParams{}); err != nil {
		t.Fatalf("club-1: %v", err)
	}

	src.FailWith(dataset.ErrUnavailable)
	if _, err := clubs.SelectClub(ctx, sess, "club-2"); !errors.Is(err, dataset.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if sel := sess.Store.SelectedClub(); sel == nil || sel.ID != "club-1" {
		t.Fatalf("expected club-1 to stay selected, got %+v", sel)
	}
	src.FailWith(nil)

	got, err := members.ListMembers(ctx, sess, "club-2", models.MemberSearchParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ClubID != "club-2" {
		t.Fatalf("expected club-2's member, got %+v", got)
	}

	// the dashboard never pairs a club with another club's counts
	src.FailWith(dataset.ErrUnavailable)
	_, _ = clubs.SelectClub(ctx, sess, "club-1")
	src.FailWith(nil)
	dash, err := services.NewReportService().GetDashboard(ctx, sess)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.SelectedClub == nil || dash.SelectedClub.ID != "club-2" || dash.Counts[store.CollectionMembers] != 1 {
		t.Fatalf("unexpected dashboard %+v", dash)
	}
}

func TestAuthServiceMe(t *testing.T) {
	sess := login(t, "admin")
	// AuthService only needs the manager for Login/Authenticate/Logout
	me, err := services.NewAuthService(nil).Me(sess)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.ID != dataset.AdminID || me.Role != models.RoleAdmin {
		t.Fatalf("unexpected user %+v", me)
	}
	if _, err := services.NewAuthService(nil).Me(nil); !errors.Is(err, services.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
