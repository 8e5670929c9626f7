package services

import (
	"context"
	"fmt"

	"club_admin_backend/internal/models"
	"club_admin_backend/internal/session"
	"club_admin_backend/internal/store"
	"club_admin_backend/pkg/utils"
)

// ScopedService is CRUD over one club-scoped collection of the session's store.
type ScopedService[E any] struct {
	name       string
	collection func(*store.EntityStore) *store.Collection[E]
	setClub    func(*E, string)
	// prepare derives fields and applies per-kind rules before validation. prev is nil on create.
	prepare func(sess *session.Session, e *E, prev *E) error
	newID   func() string
}

// NewScopedService builds a ScopedService. prepare may be nil.
func NewScopedService[E any](
	name string,
	collection func(*store.EntityStore) *store.Collection[E],
	setClub func(*E, string),
	prepare func(sess *session.Session, e *E, prev *E) error,
) *ScopedService[E] {
	return &ScopedService[E]{
		name:       name,
		collection: collection,
		setClub:    setClub,
		prepare:    prepare,
		newID:      utils.NewID,
	}
}

// Name is the singular entity name used in messages.
func (s *ScopedService[E]) Name() string { return s.name }

// List returns the club's entities in insertion order.
func (s *ScopedService[E]) List(ctx context.Context, sess *session.Session, clubID string) ([]E, error) {
	if err := requireClub(ctx, sess, clubID); err != nil {
		return nil, err
	}
	return s.collection(sess.Store).QueryByClub(clubID), nil
}

// Get returns one entity of the club.
func (s *ScopedService[E]) Get(ctx context.Context, sess *session.Session, clubID, id string) (*E, error) {
	if err := requireClub(ctx, sess, clubID); err != nil {
		return nil, err
	}
	return s.find(sess, clubID, id)
}

func (s *ScopedService[E]) find(sess *session.Session, clubID, id string) (*E, error) {
	coll := s.collection(sess.Store)
	e, ok := coll.Get(id)
	if !ok || coll.ClubOf(&e) != clubID {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, s.name, id)
	}
	return &e, nil
}

// Create assigns a fresh id, scopes e to clubID and adds it.
func (s *ScopedService[E]) Create(ctx context.Context, sess *session.Session, clubID string, e E) (*E, error) {
	if err := requireClub(ctx, sess, clubID); err != nil {
		return nil, err
	}
	coll := s.collection(sess.Store)
	s.setClub(&e, clubID)
	*coll.Meta(&e) = models.Base{ID: s.newID()}

	if s.prepare != nil {
		if err := s.prepare(sess, &e, nil); err != nil {
			return nil, err
		}
	}
	if err := validateStruct(e); err != nil {
		return nil, err
	}
	if err := coll.Add(e); err != nil {
		return nil, storeError(err)
	}
	return s.find(sess, clubID, coll.Meta(&e).ID)
}

// Update replaces the entity id of clubID with e, keeping id, club and createdAt.
func (s *ScopedService[E]) Update(ctx context.Context, sess *session.Session, clubID, id string, e E) (*E, error) {
	if err := requireClub(ctx, sess, clubID); err != nil {
		return nil, err
	}
	prev, err := s.find(sess, clubID, id)
	if err != nil {
		return nil, err
	}
	coll := s.collection(sess.Store)
	s.setClub(&e, clubID)
	*coll.Meta(&e) = *coll.Meta(prev)

	if s.prepare != nil {
		if err := s.prepare(sess, &e, prev); err != nil {
			return nil, err
		}
	}
	if err := validateStruct(e); err != nil {
		return nil, err
	}
	if !coll.Update(e) {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, s.name, id)
	}
	return s.find(sess, clubID, id)
}

// Delete removes the entity. Entities of other clubs are reported as not found.
func (s *ScopedService[E]) Delete(ctx context.Context, sess *session.Session, clubID, id string) error {
	if err := requireClub(ctx, sess, clubID); err != nil {
		return err
	}
	if _, err := s.find(sess, clubID, id); err != nil {
		return err
	}
	s.collection(sess.Store).Remove(id)
	return nil
}
