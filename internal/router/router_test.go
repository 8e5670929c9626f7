package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"club_admin_backend/internal/dataset"
	"club_admin_backend/internal/metrics"
	"club_admin_backend/internal/router"
	"club_admin_backend/internal/session"
	"club_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	issuer, err := utils.NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	creds, err := session.DemoCredentials(dataset.SuperAdminID, dataset.AdminID, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
	rec := metrics.New()
	m, err := session.NewManager(session.Config{
		Issuer:      issuer,
		Tokens:      session.NewMemoryTokenStore(),
		Source:      dataset.NewSource(dataset.Fixtures(time.Now()), 0),
		Credentials: creds,
		Hooks:       rec.Hooks(),
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	t.Cleanup(m.Shutdown)

	engine := gin.New()
	engine.Use(rec.GinMiddleware())
	router.Setup(engine, m, rec)
	return engine
}

func do(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

func login(t *testing.T, engine *gin.Engine, username string) string {
	t.Helper()
	w := do(t, engine, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": "password"})
	expectStatus(t, w, http.StatusOK)
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	decode(t, w, &resp)
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	return resp.AccessToken
}

func TestPingAndMetrics(t *testing.T) {
	engine := newEngine(t)
	expectStatus(t, do(t, engine, http.MethodGet, "/ping", "", nil), http.StatusOK)

	do(t, engine, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "superadmin", "password": "nope"})
	w := do(t, engine, http.MethodGet, "/metrics", "", nil)
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), `club_admin_logins_total{result="failure"} 1`) {
		t.Fatalf("failed login not counted:\n%s", w.Body.String())
	}
}

func TestAuthFlow(t *testing.T) {
	engine := newEngine(t)

	w := do(t, engine, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "superadmin", "password": "wrong"})
	expectStatus(t, w, http.StatusUnauthorized)
	var e apiError
	decode(t, w, &e)
	if e.Error.Code != utils.ErrCodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %+v", e)
	}

	expectStatus(t, do(t, engine, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "superadmin"}), http.StatusBadRequest)

	token := login(t, engine, "superadmin")
	w = do(t, engine, http.MethodGet, "/api/v1/auth/me", token, nil)
	expectStatus(t, w, http.StatusOK)
	var me struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	decode(t, w, &me)
	if me.ID != dataset.SuperAdminID || me.Role != "SUPER_ADMIN" {
		t.Fatalf("unexpected user %+v", me)
	}

	w = do(t, engine, http.MethodGet, "/api/v1/state", token, nil)
	expectStatus(t, w, http.StatusOK)
	var st struct {
		Loading bool           `json:"loading"`
		Counts  map[string]int `json:"counts"`
	}
	decode(t, w, &st)
	if st.Loading || st.Counts["clubs"] != 3 {
		t.Fatalf("unexpected state %+v", st)
	}

	expectStatus(t, do(t, engine, http.MethodPost, "/api/v1/auth/logout", token, nil), http.StatusOK)
	expectStatus(t, do(t, engine, http.MethodGet, "/api/v1/auth/me", token, nil), http.StatusUnauthorized)
}

func TestAuthHeaderRequired(t *testing.T) {
	engine := newEngine(t)
	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/clubs", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			expectStatus(t, w, http.StatusUnauthorized)
		})
	}
}

func TestRoleRestrictedRoutes(t *testing.T) {
	engine := newEngine(t)
	admin := login(t, engine, "admin")
	super := login(t, engine, "superadmin")

	expectStatus(t, do(t, engine, http.MethodGet, "/api/v1/admins", admin, nil), http.StatusForbidden)
	expectStatus(t, do(t, engine, http.MethodPost, "/api/v1/clubs", admin, map[string]string{"name": "X"}), http.StatusForbidden)
	expectStatus(t, do(t, engine, http.MethodDelete, "/api/v1/clubs/club-1", admin, nil), http.StatusForbidden)

	w := do(t, engine, http.MethodGet, "/api/v1/admins", super, nil)
	expectStatus(t, w, http.StatusOK)
	var list struct {
		Total int `json:"total"`
	}
	decode(t, w, &list)
	if list.Total != 2 {
		t.Fatalf("expected 2 admins, got %d", list.Total)
	}

	w = do(t, engine, http.MethodPost, "/api/v1/admins", super, map[string]interface{}{"name": "New Admin", "email": "new@club.test", "clubIds": []string{"club-2"}})
	expectStatus(t, w, http.StatusCreated)
	expectStatus(t, do(t, engine, http.MethodPost, "/api/v1/admins", super, map[string]interface{}{"name": "Dup", "email": "new@club.test"}), http.StatusConflict)
}

func TestClubRoutes(t *testing.T) {
	engine := newEngine(t)
	super := login(t, engine, "superadmin")

	w := do(t, engine, http.MethodPost, "/api/v1/clubs", super, map[string]interface{}{"name": "South", "address": "1 Main St", "phone": "555"})
	expectStatus(t, w, http.StatusCreated)
	var club struct {
		ID       string `json:"id"`
		Location string `json:"location"`
	}
	decode(t, w, &club)
	if club.ID == "" || club.Location != "1 Main St" {
		t.Fatalf("unexpected club %+v", club)
	}

	w = do(t, engine, http.MethodPost, "/api/v1/clubs/club-2/select", super, nil)
	expectStatus(t, w, http.StatusOK)
	var sel struct {
		SelectedClub struct {
			ID string `json:"id"`
		} `json:"selectedClub"`
	}
	decode(t, w, &sel)
	if sel.SelectedClub.ID != "club-2" {
		t.Fatalf("expected club-2 selected, got %+v", sel)
	}

	expectStatus(t, do(t, engine, http.MethodGet, "/api/v1/clubs/nope", super, nil), http.StatusNotFound)
	expectStatus(t, do(t, engine, http.MethodDelete, "/api/v1/clubs/"+club.ID, super, nil), http.StatusNoContent)
}

func TestClubScopedCRUD(t *testing.T) {
	engine := newEngine(t)
	token := login(t, engine, "admin")
	base := "/api/v1/clubs/club-1/expenses"

	w := do(t, engine, http.MethodPost, base, token, map[string]interface{}{"description": "Towels", "amount": 1200, "category": "Supplies"})
	expectStatus(t, w, http.StatusCreated)
	var exp struct {
		ID     string `json:"id"`
		ClubID string `json:"clubId"`
	}
	decode(t, w, &exp)
	if exp.ClubID != "club-1" {
		t.Fatalf("expected club-1, got %s", exp.ClubID)
	}

	w = do(t, engine, http.MethodGet, base, token, nil)
	expectStatus(t, w, http.StatusOK)
	var list struct {
		Total int `json:"total"`
	}
	decode(t, w, &list)
	if list.Total != 2 {
		t.Fatalf("expected 2 expenses, got %d", list.Total)
	}

	w = do(t, engine, http.MethodPost, base, token, map[string]interface{}{"description": "Free", "amount": 0, "category": "Supplies"})
	expectStatus(t, w, http.StatusBadRequest)
	var e apiError
	decode(t, w, &e)
	if e.Error.Code != utils.ErrCodeValidationFailed {
		t.Fatalf("expected VALIDATION_FAILED, got %+v", e)
	}

	expectStatus(t, do(t, engine, http.MethodPut, base+"/"+exp.ID, token, map[string]interface{}{"description": "Towels", "amount": 1500, "category": "Supplies"}), http.StatusOK)
	expectStatus(t, do(t, engine, http.MethodDelete, base+"/"+exp.ID, token, nil), http.StatusNoContent)
	expectStatus(t, do(t, engine, http.MethodGet, base+"/"+exp.ID, token, nil), http.StatusNotFound)
	expectStatus(t, do(t, engine, http.MethodGet, "/api/v1/clubs/club-9/expenses", token, nil), http.StatusForbidden)
	// switching clubs reloads from the dataset, so this runs last
	expectStatus(t, do(t, engine, http.MethodGet, "/api/v1/clubs/club-2/expenses/expense-1", token, nil), http.StatusNotFound)
}

func TestMembersAndTrialConversion(t *testing.T) {
	engine := newEngine(t)
	token := login(t, engine, "superadmin")

	w := do(t, engine, http.MethodPost, "/api/v1/clubs/club-1/members", token, map[string]string{"name": "Kiran Rao", "phone": "9876500000"})
	expectStatus(t, w, http.StatusCreated)
	var m struct {
		MemberID string `json:"memberId"`
		Mobile   string `json:"mobile"`
		IsActive bool   `json:"isActive"`
	}
	decode(t, w, &m)
	if !strings.HasPrefix(m.MemberID, "MEM-") || m.Mobile != "9876500000" || !m.IsActive {
		t.Fatalf("unexpected member %+v", m)
	}

	w = do(t, engine, http.MethodGet, "/api/v1/clubs/club-1/members?search=kiran", token, nil)
	expectStatus(t, w, http.StatusOK)
	var list struct {
		Total int `json:"total"`
	}
	decode(t, w, &list)
	if list.Total != 1 {
		t.Fatalf("expected one match, got %d", list.Total)
	}

	expectStatus(t, do(t, engine, http.MethodPost, "/api/v1/clubs/club-1/trials/trial-1/convert", token, nil), http.StatusCreated)
	expectStatus(t, do(t, engine, http.MethodPost, "/api/v1/clubs/club-1/trials/trial-1/convert", token, nil), http.StatusConflict)

	w = do(t, engine, http.MethodGet, "/api/v1/clubs/club-1/visits", token, nil)
	expectStatus(t, w, http.StatusOK)
	decode(t, w, &list)
	// visitor-1, trial-1, member-1, the new member and the converted trial
	if list.Total != 5 {
		t.Fatalf("expected 5 visits, got %d", list.Total)
	}
}

func TestReportRoutes(t *testing.T) {
	engine := newEngine(t)
	token := login(t, engine, "superadmin")

	w := do(t, engine, http.MethodGet, "/api/v1/clubs/club-1/reports/finance", token, nil)
	expectStatus(t, w, http.StatusOK)
	var fin struct {
		ClubID        string  `json:"clubId"`
		TotalExpenses float64 `json:"totalExpenses"`
	}
	decode(t, w, &fin)
	if fin.ClubID != "club-1" || fin.TotalExpenses != 5000 {
		t.Fatalf("unexpected finance report %+v", fin)
	}

	expectStatus(t, do(t, engine, http.MethodGet, "/api/v1/clubs/club-1/reports/inventory?category=SUPPLIES", token, nil), http.StatusOK)
	expectStatus(t, do(t, engine, http.MethodGet, "/api/v1/clubs/club-1/reports/attendance?window=all", token, nil), http.StatusOK)
	expectStatus(t, do(t, engine, http.MethodGet, "/api/v1/clubs/club-1/reports/attendance?window=decade", token, nil), http.StatusBadRequest)
	expectStatus(t, do(t, engine, http.MethodGet, "/api/v1/clubs/club-1/reports/subscriptions", token, nil), http.StatusOK)

	w = do(t, engine, http.MethodGet, "/api/v1/dashboard", token, nil)
	expectStatus(t, w, http.StatusOK)
	var dash struct {
		SelectedClub *struct {
			ID string `json:"id"`
		} `json:"selectedClub"`
	}
	decode(t, w, &dash)
	if dash.SelectedClub == nil {
		t.Fatal("expected a selected club on the dashboard")
	}
}
