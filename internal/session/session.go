// Package session authenticates dashboard users and owns one entity store per
// signed-in session.
package session

import (
	"time"

	"club_admin_backend/internal/models"
	"club_admin_backend/internal/store"
)

// Session is an authenticated user together with their entity store.
type Session struct {
	User      models.User
	Token     string
	Store     *store.EntityStore
	StartedAt time.Time
}

// IsAuthenticated reports whether s holds a user.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.User.ID != ""
}

func (s *Session) IsSuperAdmin() bool {
	return s.IsAuthenticated() && s.User.Role == models.RoleSuperAdmin
}

func (s *Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.Role == models.RoleAdmin
}

// current returns the live record of the session user, falling back to the login snapshot.
func (s *Session) current() models.User {
	if u, ok := s.Store.Users.Get(s.User.ID); ok {
		u.Role = s.User.Role
		return u
	}
	return s.User
}

// HasCreatedAdmin reports whether adminID was created directly by the session user.
// Super-admins manage every admin.
func (s *Session) HasCreatedAdmin(adminID string) bool {
	if !s.IsAuthenticated() {
		return false
	}
	if s.IsSuperAdmin() {
		return true
	}
	u, ok := s.Store.Users.Get(adminID)
	return ok && u.CreatedByID != nil && *u.CreatedByID == s.User.ID
}

// CanViewClub reports whether the session user may see clubID: super-admins see every club,
// admins see the clubs they administer and those of every admin they created, transitively.
func (s *Session) CanViewClub(clubID string) bool {
	if !s.IsAuthenticated() {
		return false
	}
	if s.IsSuperAdmin() {
		return true
	}

	users := s.Store.Users.All()
	clubs := s.Store.Clubs.All()
	administers := func(u models.User) bool {
		if u.HasClub(clubID) {
			return true
		}
		for _, c := range clubs {
			if c.ID != clubID {
				continue
			}
			for _, id := range c.AdminIDs {
				if id == u.ID {
					return true
				}
			}
		}
		return false
	}

	me := s.current()
	visited := map[string]bool{me.ID: true}
	queue := []models.User{me}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if administers(u) {
			return true
		}
		for _, child := range users {
			if child.CreatedByID == nil || *child.CreatedByID != u.ID || visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			queue = append(queue, child)
		}
	}
	return false
}

// VisibleClubs returns the clubs the session user may see.
func (s *Session) VisibleClubs() []models.Club {
	all := s.Store.Clubs.All()
	if s.IsSuperAdmin() {
		return all
	}
	out := []models.Club{}
	for _, c := range all {
		if s.CanViewClub(c.ID) {
			out = append(out, c)
		}
	}
	return out
}
