package services

import (
	"fmt"
	"time"

	"club_admin_backend/internal/models"
	"club_admin_backend/internal/session"
	"club_admin_backend/internal/store"
)

// Default trial length when the request leaves the end date empty.
const defaultTrialDays = 3

func nowOr(t time.Time, sess *session.Session) time.Time {
	if t.IsZero() {
		return sess.Store.Now()
	}
	return t
}

func memberInClub(sess *session.Session, clubID, memberID string) bool {
	m, ok := sess.Store.Members.Get(memberID)
	return ok && m.ClubID == clubID
}

// NewTrialService manages trials.
func NewTrialService() *ScopedService[models.Trial] {
	return NewScopedService("trial",
		func(s *store.EntityStore) *store.Collection[models.Trial] { return s.Trials },
		func(e *models.Trial, clubID string) { e.ClubID = clubID },
		func(sess *session.Session, e *models.Trial, prev *models.Trial) error {
			e.Type = models.VisitTypeTrial
			e.VisitDate = nowOr(e.VisitDate, sess)
			if e.TrialStartDate.IsZero() {
				e.TrialStartDate = e.VisitDate
			}
			if e.TrialEndDate.IsZero() {
				e.TrialEndDate = e.TrialStartDate.AddDate(0, 0, defaultTrialDays)
			}
			if e.TrialEndDate.Before(e.TrialStartDate) {
				return fmt.Errorf("%w: trialEndDate must not precede trialStartDate", ErrValidation)
			}
			if prev != nil && prev.ConvertedToMember {
				e.ConvertedToMember = true
			}
			return nil
		})
}

// NewVisitorService manages walk-in visitors.
func NewVisitorService() *ScopedService[models.Visitor] {
	return NewScopedService("visitor",
		func(s *store.EntityStore) *store.Collection[models.Visitor] { return s.Visitors },
		func(e *models.Visitor, clubID string) { e.ClubID = clubID },
		func(sess *session.Session, e *models.Visitor, _ *models.Visitor) error {
			e.Type = models.VisitTypeVisitor
			e.VisitDate = nowOr(e.VisitDate, sess)
			return nil
		})
}

// NewPaymentService manages payments. A PARTIAL payment must leave a pending amount,
// a FULL one must not, and at most one of memberId and trialId may be set.
func NewPaymentService() *ScopedService[models.Payment] {
	return NewScopedService("payment",
		func(s *store.EntityStore) *store.Collection[models.Payment] { return s.Payments },
		func(e *models.Payment, clubID string) { e.ClubID = clubID },
		func(sess *session.Session, e *models.Payment, _ *models.Payment) error {
			e.Date = nowOr(e.Date, sess)
			switch e.Status {
			case models.PaymentPartial:
				if e.PendingAmount <= 0 {
					return fmt.Errorf("%w: PARTIAL payment needs a positive pendingAmount", ErrValidation)
				}
			case models.PaymentFull:
				if e.PendingAmount != 0 {
					return fmt.Errorf("%w: FULL payment must not have a pendingAmount", ErrValidation)
				}
			}
			if e.MemberID != nil && *e.MemberID == "" {
				e.MemberID = nil
			}
			if e.TrialID != nil && *e.TrialID == "" {
				e.TrialID = nil
			}
			if e.MemberID != nil && e.TrialID != nil {
				return fmt.Errorf("%w: a payment links to a member or a trial, not both", ErrValidation)
			}
			if e.MemberID != nil && !memberInClub(sess, e.ClubID, *e.MemberID) {
				return fmt.Errorf("%w: member %s not found in club", ErrValidation, *e.MemberID)
			}
			if e.TrialID != nil {
				if t, ok := sess.Store.Trials.Get(*e.TrialID); !ok || t.ClubID != e.ClubID {
					return fmt.Errorf("%w: trial %s not found in club", ErrValidation, *e.TrialID)
				}
			}
			return nil
		})
}

// NewExpenseService manages expenses.
func NewExpenseService() *ScopedService[models.Expense] {
	return NewScopedService("expense",
		func(s *store.EntityStore) *store.Collection[models.Expense] { return s.Expenses },
		func(e *models.Expense, clubID string) { e.ClubID = clubID },
		func(sess *session.Session, e *models.Expense, _ *models.Expense) error {
			e.Date = nowOr(e.Date, sess)
			return nil
		})
}

// NewInventoryItemService manages stocked items.
func NewInventoryItemService() *ScopedService[models.InventoryItem] {
	return NewScopedService("inventory item",
		func(s *store.EntityStore) *store.Collection[models.InventoryItem] { return s.InventoryItems },
		func(e *models.InventoryItem, clubID string) { e.ClubID = clubID },
		nil)
}

// NewInventoryUsageService records item consumption. Item quantities are not debited.
func NewInventoryUsageService() *ScopedService[models.InventoryUsage] {
	return NewScopedService("inventory usage",
		func(s *store.EntityStore) *store.Collection[models.InventoryUsage] { return s.InventoryUsage },
		func(e *models.InventoryUsage, clubID string) { e.ClubID = clubID },
		func(sess *session.Session, e *models.InventoryUsage, _ *models.InventoryUsage) error {
			e.Date = nowOr(e.Date, sess)
			if item, ok := sess.Store.InventoryItems.Get(e.InventoryItemID); e.InventoryItemID != "" && (!ok || item.ClubID != e.ClubID) {
				return fmt.Errorf("%w: inventory item %s not found in club", ErrValidation, e.InventoryItemID)
			}
			if e.MemberID != nil && *e.MemberID == "" {
				e.MemberID = nil
			}
			if e.MemberID != nil && !memberInClub(sess, e.ClubID, *e.MemberID) {
				return fmt.Errorf("%w: member %s not found in club", ErrValidation, *e.MemberID)
			}
			return nil
		})
}

// NewAttendanceService manages attendance records.
func NewAttendanceService() *ScopedService[models.Attendance] {
	return NewScopedService("attendance",
		func(s *store.EntityStore) *store.Collection[models.Attendance] { return s.Attendance },
		func(e *models.Attendance, clubID string) { e.ClubID = clubID },
		func(sess *session.Session, e *models.Attendance, _ *models.Attendance) error {
			e.Date = nowOr(e.Date, sess)
			if e.MemberID != "" && !memberInClub(sess, e.ClubID, e.MemberID) {
				return fmt.Errorf("%w: member %s not found in club", ErrValidation, e.MemberID)
			}
			return nil
		})
}

// NewSubscriptionPlanService manages subscription plans.
func NewSubscriptionPlanService() *ScopedService[models.SubscriptionPlan] {
	return NewScopedService("subscription plan",
		func(s *store.EntityStore) *store.Collection[models.SubscriptionPlan] { return s.SubscriptionPlans },
		func(e *models.SubscriptionPlan, clubID string) { e.ClubID = clubID },
		func(_ *session.Session, e *models.SubscriptionPlan, _ *models.SubscriptionPlan) error {
			if e.Features == nil {
				e.Features = []string{}
			}
			return nil
		})
}
