package metrics_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"club_admin_backend/internal/dataset"
	"club_admin_backend/internal/metrics"
	"club_admin_backend/internal/models"
	"club_admin_backend/internal/session"
	"club_admin_backend/internal/store"
	"club_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/crypto/bcrypt"
)

func TestHooksCountSessionsAndEvents(t *testing.T) {
	rec := metrics.New()
	issuer, _ := utils.NewTokenIssuer("test-secret", time.Hour)
	creds, err := session.DemoCredentials(dataset.SuperAdminID, dataset.AdminID, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
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
	ctx := context.Background()

	sess, err := m.Login(ctx, "superadmin", "password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	// subscribed after LoadClubs, so only later events count
	if err := sess.Store.Expenses.Add(models.Expense{Base: models.Base{ID: "e-1"}, ClubID: "club-1"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	sess.Store.Expenses.Remove("e-1")

	want := `
# HELP club_admin_active_sessions Sessions currently held in memory.
# TYPE club_admin_active_sessions gauge
club_admin_active_sessions 1
`
	if err := testutil.GatherAndCompare(rec.Registry(), strings.NewReader(want), "club_admin_active_sessions"); err != nil {
		t.Fatalf("sessions gauge: %v", err)
	}
	count, err := testutil.GatherAndCount(rec.Registry(), "club_admin_store_events_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected ADD and DELETE series, got %d", count)
	}

	if err := m.Logout(ctx, sess.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	want = strings.Replace(want, "club_admin_active_sessions 1", "club_admin_active_sessions 0", 1)
	if err := testutil.GatherAndCompare(rec.Registry(), strings.NewReader(want), "club_admin_active_sessions"); err != nil {
		t.Fatalf("sessions gauge after logout: %v", err)
	}
}

func TestObserveEventLabels(t *testing.T) {
	rec := metrics.New()
	rec.ObserveEvent(store.Event{Collection: store.CollectionMembers, Action: store.ActionAdd, ID: "m1"})
	rec.ObserveEvent(store.Event{Collection: store.CollectionMembers, Action: store.ActionAdd, ID: "m2"})

	want := `
# HELP club_admin_store_events_total Entity store changes by collection and action.
# TYPE club_admin_store_events_total counter
club_admin_store_events_total{action="ADD",collection="members"} 2
`
	if err := testutil.GatherAndCompare(rec.Registry(), strings.NewReader(want), "club_admin_store_events_total"); err != nil {
		t.Fatal(err)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := metrics.New()
	rec.ObserveLogin(metrics.LoginFailure)

	engine := gin.New()
	engine.Use(rec.GinMiddleware())
	engine.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	engine.GET("/metrics", gin.WrapH(rec.Handler()))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body, _ := io.ReadAll(w.Body)
	for _, want := range []string{
		`club_admin_logins_total{result="failure"} 1`,
		`club_admin_http_request_duration_seconds_count{method="GET",route="/ping",status="200"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}
