// Package dataset provides the in-process backing data read by the entity
// store: built-in fixtures and JSON fixture files.
package dataset

import (
	"context"
	"errors"
	"time"

	"club_admin_backend/internal/models"
	"club_admin_backend/internal/store"
)

// DefaultLatency simulates the round trip of a remote fetch.
const DefaultLatency = 500 * time.Millisecond

// ErrUnavailable is returned by a Source configured to fail.
var ErrUnavailable = errors.New("dataset unavailable")

// Dataset is the flat seed-data shape: clubs, users and nine collections keyed by clubId.
type Dataset struct {
	Users             []models.User             `json:"users"`
	Clubs             []models.Club             `json:"clubs"`
	Members           []models.Member           `json:"members"`
	Trials            []models.Trial            `json:"trials"`
	Visitors          []models.Visitor          `json:"visitors"`
	Payments          []models.Payment          `json:"payments"`
	Expenses          []models.Expense          `json:"expenses"`
	InventoryItems    []models.InventoryItem    `json:"inventoryItems"`
	InventoryUsage    []models.InventoryUsage   `json:"inventoryUsage"`
	Attendance        []models.Attendance       `json:"attendance"`
	SubscriptionPlans []models.SubscriptionPlan `json:"subscriptionPlans"`
	DashboardMetrics  *models.DashboardMetrics  `json:"dashboardMetrics"`
}

// Source serves a Dataset to the entity store after a simulated delay.
type Source struct {
	data    *Dataset
	latency time.Duration
	fail    error
}

var _ store.Source = (*Source)(nil)

// NewSource wraps ds. A zero latency answers immediately.
func NewSource(ds *Dataset, latency time.Duration) *Source {
	return &Source{data: ds, latency: latency}
}

// FailWith makes every subsequent fetch return err. Passing nil restores normal operation.
func (s *Source) FailWith(err error) { s.fail = err }

// wait blocks for the configured latency or until ctx is done.
func (s *Source) wait(ctx context.Context) error {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}
	return s.fail
}

// Clubs returns every club of the dataset.
func (s *Source) Clubs(ctx context.Context) ([]models.Club, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.data.Clubs, nil
}

// Users returns every user of the dataset. Users are loaded with the clubs, so no extra delay applies.
func (s *Source) Users(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.fail != nil {
		return nil, s.fail
	}
	return s.data.Users, nil
}

// ClubData filters every club-scoped collection by clubID.
func (s *Source) ClubData(ctx context.Context, clubID string) (*store.ClubData, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	d := s.data
	out := &store.ClubData{
		Members:           filter(d.Members, func(e models.Member) bool { return e.ClubID == clubID }),
		Trials:            filter(d.Trials, func(e models.Trial) bool { return e.ClubID == clubID }),
		Visitors:          filter(d.Visitors, func(e models.Visitor) bool { return e.ClubID == clubID }),
		Payments:          filter(d.Payments, func(e models.Payment) bool { return e.ClubID == clubID }),
		Expenses:          filter(d.Expenses, func(e models.Expense) bool { return e.ClubID == clubID }),
		InventoryItems:    filter(d.InventoryItems, func(e models.InventoryItem) bool { return e.ClubID == clubID }),
		InventoryUsage:    filter(d.InventoryUsage, func(e models.InventoryUsage) bool { return e.ClubID == clubID }),
		Attendance:        filter(d.Attendance, func(e models.Attendance) bool { return e.ClubID == clubID }),
		SubscriptionPlans: filter(d.SubscriptionPlans, func(e models.SubscriptionPlan) bool { return e.ClubID == clubID }),
		Metrics:           d.DashboardMetrics,
	}
	for i := range d.Clubs {
		if d.Clubs[i].ID == clubID {
			c := d.Clubs[i]
			out.Club = &c
			break
		}
	}
	return out, nil
}

func filter[E any](in []E, keep func(E) bool) []E {
	out := []E{}
	for _, e := range in {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
