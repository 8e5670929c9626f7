// Package store holds the per-session, in-memory entity collections of the
// club dashboard together with the selected club, load state and dashboard
// metrics. Every mutation is announced to subscribers synchronously.
package store

import (
	"context"
	"sync"
	"time"

	"club_admin_backend/internal/models"
)

// ClubData is everything loaded for one club.
type ClubData struct {
	Club              *models.Club
	Members           []models.Member
	Trials            []models.Trial
	Visitors          []models.Visitor
	Payments          []models.Payment
	Expenses          []models.Expense
	InventoryItems    []models.InventoryItem
	InventoryUsage    []models.InventoryUsage
	Attendance        []models.Attendance
	SubscriptionPlans []models.SubscriptionPlan
	Metrics           *models.DashboardMetrics
}

// Source is the backing dataset read by LoadClubs and LoadClubData.
type Source interface {
	Clubs(ctx context.Context) ([]models.Club, error)
	Users(ctx context.Context) ([]models.User, error)
	ClubData(ctx context.Context, clubID string) (*ClubData, error)
}

// State is a snapshot of the store-wide fields.
type State struct {
	Loading      bool           `json:"loading"`
	Error        string         `json:"error,omitempty"`
	SelectedClub *models.Club   `json:"selectedClub"`
	Counts       map[string]int `json:"counts"`
}

// Option configures an EntityStore.
type Option func(*EntityStore)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *EntityStore) {
		if now != nil {
			s.now = now
		}
	}
}

// EntityStore owns the collections of one session.
type EntityStore struct {
	mu     sync.RWMutex
	now    func() time.Time
	source Source
	closed bool

	selectedClub *models.Club
	loadedClubID string // club whose data the scoped collections hold
	loading      bool
	err          string
	metrics      *models.DashboardMetrics

	subMu     sync.Mutex
	nextSubID int
	listeners map[int]Listener

	Clubs             *Collection[models.Club]
	Users             *Collection[models.User]
	Members           *Collection[models.Member]
	Trials            *Collection[models.Trial]
	Visitors          *Collection[models.Visitor]
	Payments          *Collection[models.Payment]
	Expenses          *Collection[models.Expense]
	InventoryItems    *Collection[models.InventoryItem]
	InventoryUsage    *Collection[models.InventoryUsage]
	Attendance        *Collection[models.Attendance]
	SubscriptionPlans *Collection[models.SubscriptionPlan]
}

// New creates an empty store reading from src.
func New(src Source, opts ...Option) *EntityStore {
	s := &EntityStore{
		now:       time.Now,
		source:    src,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Clubs = newCollection(s, CollectionClubs,
		func(e *models.Club) *models.Base { return &e.Base }, nil, cloneClub)
	s.Users = newCollection(s, CollectionUsers,
		func(e *models.User) *models.Base { return &e.Base }, nil, cloneUser)
	s.Members = newCollection(s, CollectionMembers,
		func(e *models.Member) *models.Base { return &e.Base },
		func(e *models.Member) string { return e.ClubID }, cloneMember)
	s.Trials = newCollection(s, CollectionTrials,
		func(e *models.Trial) *models.Base { return &e.Base },
		func(e *models.Trial) string { return e.ClubID }, nil)
	s.Visitors = newCollection(s, CollectionVisitors,
		func(e *models.Visitor) *models.Base { return &e.Base },
		func(e *models.Visitor) string { return e.ClubID }, nil)
	s.Payments = newCollection(s, CollectionPayments,
		func(e *models.Payment) *models.Base { return &e.Base },
		func(e *models.Payment) string { return e.ClubID }, clonePayment)
	s.Expenses = newCollection(s, CollectionExpenses,
		func(e *models.Expense) *models.Base { return &e.Base },
		func(e *models.Expense) string { return e.ClubID }, nil)
	s.InventoryItems = newCollection(s, CollectionInventoryItems,
		func(e *models.InventoryItem) *models.Base { return &e.Base },
		func(e *models.InventoryItem) string { return e.ClubID }, nil)
	s.InventoryUsage = newCollection(s, CollectionInventoryUsage,
		func(e *models.InventoryUsage) *models.Base { return &e.Base },
		func(e *models.InventoryUsage) string { return e.ClubID }, cloneUsage)
	s.Attendance = newCollection(s, CollectionAttendance,
		func(e *models.Attendance) *models.Base { return &e.Base },
		func(e *models.Attendance) string { return e.ClubID }, nil)
	s.SubscriptionPlans = newCollection(s, CollectionSubscriptionPlans,
		func(e *models.SubscriptionPlan) *models.Base { return &e.Base },
		func(e *models.SubscriptionPlan) string { return e.ClubID }, clonePlan)
	return s
}

// Now returns the store clock reading.
func (s *EntityStore) Now() time.Time { return s.now() }

// Subscribe registers fn for every subsequent event. The returned func removes it.
func (s *EntityStore) Subscribe(fn Listener) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.listeners, id)
			s.subMu.Unlock()
		})
	}
}

func (s *EntityStore) notify(events ...Event) {
	s.subMu.Lock()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.subMu.Unlock()

	for _, ev := range events {
		for _, l := range ls {
			l(ev)
		}
	}
}

func (s *EntityStore) setLoading() {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	s.notify(Event{Collection: CollectionStore, Action: ActionLoading})
}

// fail records a load failure. Collections are left as they were.
func (s *EntityStore) fail(err error) error {
	s.mu.Lock()
	s.err = err.Error()
	s.loading = false
	s.mu.Unlock()
	s.notify(Event{Collection: CollectionStore, Action: ActionError})
	return err
}

// LoadClubs fetches clubs and users from the source and replaces both collections.
// On failure the error is recorded in State and returned; collections are untouched.
func (s *EntityStore) LoadClubs(ctx context.Context) error {
	if s.isClosed() {
		return ErrStoreClosed
	}
	s.setLoading()

	clubs, err := s.source.Clubs(ctx)
	if err != nil {
		return s.fail(err)
	}
	users, err := s.source.Users(ctx)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	s.Clubs.setAllLocked(clubs)
	s.Users.setAllLocked(users)
	s.err = ""
	s.loading = false
	s.mu.Unlock()

	s.notify(
		Event{Collection: CollectionClubs, Action: ActionSet},
		Event{Collection: CollectionUsers, Action: ActionSet},
	)
	return nil
}

// LoadClubData replaces the nine club-scoped collections and the dashboard metrics
// with the source's data for clubID, and selects that club. The selection is nil when
// neither the source nor the clubs collection knows clubID.
func (s *EntityStore) LoadClubData(ctx context.Context, clubID string) error {
	if s.isClosed() {
		return ErrStoreClosed
	}
	s.setLoading()

	data, err := s.source.ClubData(ctx, clubID)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	s.Members.setAllLocked(data.Members)
	s.Trials.setAllLocked(data.Trials)
	s.Visitors.setAllLocked(data.Visitors)
	s.Payments.setAllLocked(data.Payments)
	s.Expenses.setAllLocked(data.Expenses)
	s.InventoryItems.setAllLocked(data.InventoryItems)
	s.InventoryUsage.setAllLocked(data.InventoryUsage)
	s.Attendance.setAllLocked(data.Attendance)
	s.SubscriptionPlans.setAllLocked(data.SubscriptionPlans)
	s.metrics = data.Metrics.Clone()
	switch {
	case data.Club != nil:
		c := cloneClub(*data.Club)
		s.selectedClub = &c
	case s.Clubs.indexOf(clubID) >= 0:
		// created in this session, unknown to the source
		c := cloneClub(s.Clubs.items[s.Clubs.indexOf(clubID)])
		s.selectedClub = &c
	default:
		s.selectedClub = nil
	}
	s.loadedClubID = clubID
	s.err = ""
	s.loading = false
	s.mu.Unlock()

	s.notify(
		Event{Collection: CollectionMembers, Action: ActionSet},
		Event{Collection: CollectionTrials, Action: ActionSet},
		Event{Collection: CollectionVisitors, Action: ActionSet},
		Event{Collection: CollectionPayments, Action: ActionSet},
		Event{Collection: CollectionExpenses, Action: ActionSet},
		Event{Collection: CollectionInventoryItems, Action: ActionSet},
		Event{Collection: CollectionInventoryUsage, Action: ActionSet},
		Event{Collection: CollectionAttendance, Action: ActionSet},
		Event{Collection: CollectionSubscriptionPlans, Action: ActionSet},
		Event{Collection: CollectionMetrics, Action: ActionSet},
		Event{Collection: CollectionStore, Action: ActionSelect, ID: clubID},
	)
	return nil
}

// SetSelectedClub sets the selected club. A non-nil club also loads its data;
// when that load fails the previous selection is restored.
func (s *EntityStore) SetSelectedClub(ctx context.Context, club *models.Club) error {
	s.mu.Lock()
	prev := s.selectedClub
	var id string
	if club != nil {
		c := cloneClub(*club)
		s.selectedClub = &c
		id = c.ID
	} else {
		s.selectedClub = nil
	}
	s.mu.Unlock()
	s.notify(Event{Collection: CollectionStore, Action: ActionSelect, ID: id})

	if club == nil {
		return nil
	}
	if err := s.LoadClubData(ctx, club.ID); err != nil {
		s.mu.Lock()
		var prevID string
		if !s.closed {
			s.selectedClub = prev
			if prev != nil {
				prevID = prev.ID
			}
		}
		s.mu.Unlock()
		s.notify(Event{Collection: CollectionStore, Action: ActionSelect, ID: prevID})
		return err
	}
	return nil
}

// LoadedClubID returns the id of the club whose data was last loaded successfully,
// or "" before any load.
func (s *EntityStore) LoadedClubID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedClubID
}

// SelectedClub returns a copy of the selected club, or nil. Edits made to the
// club through the clubs collection are reflected.
func (s *EntityStore) SelectedClub() *models.Club {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedLocked()
}

func (s *EntityStore) selectedLocked() *models.Club {
	if s.selectedClub == nil {
		return nil
	}
	c := *s.selectedClub
	if i := s.Clubs.indexOf(c.ID); i >= 0 {
		c = s.Clubs.items[i]
	}
	c = cloneClub(c)
	return &c
}

// Metrics returns a copy of the dashboard metrics, or nil before any club is loaded.
func (s *EntityStore) Metrics() *models.DashboardMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics.Clone()
}

// SetMetrics replaces the dashboard metrics.
func (s *EntityStore) SetMetrics(m *models.DashboardMetrics) {
	s.mu.Lock()
	s.metrics = m.Clone()
	s.mu.Unlock()
	s.notify(Event{Collection: CollectionMetrics, Action: ActionSet})
}

// State returns the loading flag, last load error, selected club and collection sizes.
func (s *EntityStore) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		Loading: s.loading,
		Error:   s.err,
		Counts: map[string]int{
			CollectionClubs:             len(s.Clubs.items),
			CollectionUsers:             len(s.Users.items),
			CollectionMembers:           len(s.Members.items),
			CollectionTrials:            len(s.Trials.items),
			CollectionVisitors:          len(s.Visitors.items),
			CollectionPayments:          len(s.Payments.items),
			CollectionExpenses:          len(s.Expenses.items),
			CollectionInventoryItems:    len(s.InventoryItems.items),
			CollectionInventoryUsage:    len(s.InventoryUsage.items),
			CollectionAttendance:        len(s.Attendance.items),
			CollectionSubscriptionPlans: len(s.SubscriptionPlans.items),
		},
	}
	st.SelectedClub = s.selectedLocked()
	return st
}

func (s *EntityStore) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Close drops every collection and subscriber. Later writes fail with ErrStoreClosed.
func (s *EntityStore) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.Clubs.items = nil
	s.Users.items = nil
	s.Members.items = nil
	s.Trials.items = nil
	s.Visitors.items = nil
	s.Payments.items = nil
	s.Expenses.items = nil
	s.InventoryItems.items = nil
	s.InventoryUsage.items = nil
	s.Attendance.items = nil
	s.SubscriptionPlans.items = nil
	s.selectedClub = nil
	s.loadedClubID = ""
	s.metrics = nil
	s.mu.Unlock()

	s.subMu.Lock()
	s.listeners = make(map[int]Listener)
	s.subMu.Unlock()
}
