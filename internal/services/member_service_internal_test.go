package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"club_admin_backend/internal/dataset"
	"club_admin_backend/internal/models"
	"club_admin_backend/internal/session"
	"club_admin_backend/internal/store"
	"club_admin_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

func superAdminSession(t *testing.T) *session.Session {
	t.Helper()
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	issuer, _ := utils.NewTokenIssuer("test-secret", time.Hour)
	creds, _ := session.DemoCredentials(dataset.SuperAdminID, dataset.AdminID, bcrypt.MinCost)
	m, err := session.NewManager(session.Config{
		Issuer:       issuer,
		Tokens:       session.NewMemoryTokenStore(),
		Source:       dataset.NewSource(dataset.Fixtures(now), 0),
		Credentials:  creds,
		StoreOptions: []store.Option{store.WithClock(func() time.Time { return now })},
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	sess, err := m.Login(context.Background(), "superadmin", "password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return sess
}

func TestConvertTrialRemovesMemberWhenFlagFails(t *testing.T) {
	sess := superAdminSession(t)
	ctx := context.Background()
	svc := NewMemberService().(*memberService)

	trial, err := svc.trials.Create(ctx, sess, "club-1", models.Trial{
		VisitInfo: models.VisitInfo{Name: "Nisha Rao", Mobile: "+91 9000000001"},
	})
	if err != nil {
		t.Fatalf("create trial: %v", err)
	}
	before := len(sess.Store.Members.QueryByClub("club-1"))

	prepare := svc.trials.prepare
	svc.trials.prepare = func(sess *session.Session, e *models.Trial, prev *models.Trial) error {
		if prev != nil {
			return fmt.Errorf("%w: trial locked", ErrValidation)
		}
		return prepare(sess, e, prev)
	}
	if _, err := svc.ConvertTrial(ctx, sess, "club-1", trial.ID, ConvertTrialRequest{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if n := len(sess.Store.Members.QueryByClub("club-1")); n != before {
		t.Fatalf("expected %d members after failed conversion, got %d", before, n)
	}

	svc.trials.prepare = prepare
	if _, err := svc.ConvertTrial(ctx, sess, "club-1", trial.ID, ConvertTrialRequest{}); err != nil {
		t.Fatalf("retry convert: %v", err)
	}
	if n := len(sess.Store.Members.QueryByClub("club-1")); n != before+1 {
		t.Fatalf("expected exactly one member added by retry, got %d", n-before)
	}
}

func TestStoreErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{fmt.Errorf("add member: %w", store.ErrDuplicateID), ErrConflict},
		{store.ErrStoreClosed, ErrUnauthenticated},
		{fmt.Errorf("load: %w", store.ErrStoreClosed), ErrUnauthenticated},
	}
	for _, tt := range tests {
		if got := storeError(tt.err); !errors.Is(got, tt.want) {
			t.Fatalf("%v: expected %v, got %v", tt.err, tt.want, got)
		}
	}
	if storeError(nil) != nil {
		t.Fatal("expected nil for nil")
	}
	other := errors.New("backend unavailable")
	if got := storeError(other); got != other {
		t.Fatalf("expected other errors unchanged, got %v", got)
	}
}
