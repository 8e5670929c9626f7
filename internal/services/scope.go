package services

import (
	"context"
	"fmt"

	"club_admin_backend/internal/session"
)

// requireClub checks that sess may see clubID and makes it the selected club,
// loading its data when another club is selected.
func requireClub(ctx context.Context, sess *session.Session, clubID string) error {
	if !sess.IsAuthenticated() {
		return fmt.Errorf("%w: not signed in", ErrForbidden)
	}
	if !sess.CanViewClub(clubID) {
		return fmt.Errorf("%w: club %s", ErrForbidden, clubID)
	}
	if _, ok := sess.Store.Clubs.Get(clubID); !ok {
		return fmt.Errorf("%w: club %s", ErrNotFound, clubID)
	}
	if sel := sess.Store.SelectedClub(); sel != nil && sel.ID == clubID && sess.Store.LoadedClubID() == clubID {
		return nil
	}
	if err := sess.Store.LoadClubData(ctx, clubID); err != nil {
		return fmt.Errorf("failed to load club %s: %w", clubID, storeError(err))
	}
	return nil
}

func requireSuperAdmin(sess *session.Session) error {
	if !sess.IsSuperAdmin() {
		return fmt.Errorf("%w: super-admin only", ErrForbidden)
	}
	return nil
}
