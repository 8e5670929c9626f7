package store

import "errors"

var (
	// ErrDuplicateID is returned by Add for an empty id or one already in the collection.
	ErrDuplicateID = errors.New("duplicate entity id")
	// ErrStoreClosed is returned by writes after Close.
	ErrStoreClosed = errors.New("entity store closed")
)

// Action names a kind of store change.
type Action string

const (
	ActionSet     Action = "SET"
	ActionAdd     Action = "ADD"
	ActionUpdate  Action = "UPDATE"
	ActionDelete  Action = "DELETE"
	ActionLoading Action = "LOADING"
	ActionError   Action = "ERROR"
	ActionSelect  Action = "SELECT"
)

// Collection names, also used as metric labels.
const (
	CollectionClubs             = "clubs"
	CollectionUsers             = "users"
	CollectionMembers           = "members"
	CollectionTrials            = "trials"
	CollectionVisitors          = "visitors"
	CollectionPayments          = "payments"
	CollectionExpenses          = "expenses"
	CollectionInventoryItems    = "inventoryItems"
	CollectionInventoryUsage    = "inventoryUsage"
	CollectionAttendance        = "attendance"
	CollectionSubscriptionPlans = "subscriptionPlans"
	CollectionMetrics           = "dashboardMetrics"
	// CollectionStore marks events about store-wide state (loading, error, selection).
	CollectionStore = "store"
)

// Event describes a single change. ID is empty for bulk and store-wide changes.
type Event struct {
	Collection string `json:"collection"`
	Action     Action `json:"action"`
	ID         string `json:"id,omitempty"`
}

// Listener receives events synchronously, after the store lock is released.
type Listener func(Event)
