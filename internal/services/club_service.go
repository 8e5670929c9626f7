package services

import (
	"context"
	"fmt"
	"strings"

	"club_admin_backend/internal/models"
	"club_admin_backend/internal/session"
	"club_admin_backend/pkg/utils"
)

// --- Club DTOs ---
type CreateClubRequest struct {
	Name     string   `json:"name" binding:"required"`
	Address  string   `json:"address"`
	Phone    string   `json:"phone"`
	Email    string   `json:"email" binding:"omitempty,email"`
	AdminIDs []string `json:"adminIds"`
}

type UpdateClubRequest struct {
	Name     *string  `json:"name"`
	Address  *string  `json:"address"`
	Phone    *string  `json:"phone"`
	Email    *string  `json:"email" binding:"omitempty,email"`
	AdminIDs []string `json:"adminIds"`
}

// --- ClubService Interface ---
type ClubService interface {
	ListClubs(sess *session.Session) ([]models.Club, error)
	GetClub(sess *session.Session, clubID string) (*models.Club, error)
	SelectClub(ctx context.Context, sess *session.Session, clubID string) (*models.Club, error)
	CreateClub(sess *session.Session, req CreateClubRequest) (*models.Club, error)
	UpdateClub(sess *session.Session, clubID string, req UpdateClubRequest) (*models.Club, error)
	DeleteClub(sess *session.Session, clubID string) error
}

// --- clubService Implementation ---
type clubService struct {
	newID func() string
}

// NewClubService creates a new instance of ClubService.
func NewClubService() ClubService {
	return &clubService{newID: utils.NewID}
}

// ListClubs returns the clubs visible to the session user.
func (s *clubService) ListClubs(sess *session.Session) ([]models.Club, error) {
	if !sess.IsAuthenticated() {
		return nil, fmt.Errorf("%w: not signed in", ErrForbidden)
	}
	return sess.VisibleClubs(), nil
}

func (s *clubService) GetClub(sess *session.Session, clubID string) (*models.Club, error) {
	if !sess.IsAuthenticated() || !sess.CanViewClub(clubID) {
		return nil, fmt.Errorf("%w: club %s", ErrForbidden, clubID)
	}
	c, ok := sess.Store.Clubs.Get(clubID)
	if !ok {
		return nil, fmt.Errorf("%w: club %s", ErrNotFound, clubID)
	}
	return &c, nil
}

// SelectClub makes clubID the selected club and loads its data.
func (s *clubService) SelectClub(ctx context.Context, sess *session.Session, clubID string) (*models.Club, error) {
	c, err := s.GetClub(sess, clubID)
	if err != nil {
		return nil, err
	}
	if err := sess.Store.SetSelectedClub(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to load club %s: %w", clubID, storeError(err))
	}
	return sess.Store.SelectedClub(), nil
}

// checkAdmins rejects admin ids that are not known users of the session.
func checkAdmins(sess *session.Session, ids []string) error {
	for _, id := range ids {
		if _, ok := sess.Store.Users.Get(id); !ok {
			return fmt.Errorf("%w: admin %s not found", ErrValidation, id)
		}
	}
	return nil
}

// CreateClub adds a club. The first admin id becomes the primary admin; address
// and phone are mirrored into location and contactNumber.
func (s *clubService) CreateClub(sess *session.Session, req CreateClubRequest) (*models.Club, error) {
	if err := requireSuperAdmin(sess); err != nil {
		return nil, err
	}
	if err := checkAdmins(sess, req.AdminIDs); err != nil {
		return nil, err
	}
	c := models.Club{
		Base:          models.Base{ID: s.newID()},
		Name:          strings.TrimSpace(req.Name),
		Location:      req.Address,
		Address:       req.Address,
		ContactNumber: req.Phone,
		Phone:         req.Phone,
		Email:         req.Email,
		AdminIDs:      append([]string(nil), req.AdminIDs...),
	}
	if len(req.AdminIDs) > 0 {
		c.AdminID = req.AdminIDs[0]
	}
	if err := validateStruct(c); err != nil {
		return nil, err
	}
	if err := sess.Store.Clubs.Add(c); err != nil {
		return nil, storeError(err)
	}
	utils.LogInfo("Club created", map[string]interface{}{"club_id": c.ID, "by": sess.User.ID})
	return s.GetClub(sess, c.ID)
}

// UpdateClub merges req into the club. Without admin ids the primary admin is kept.
func (s *clubService) UpdateClub(sess *session.Session, clubID string, req UpdateClubRequest) (*models.Club, error) {
	if err := requireSuperAdmin(sess); err != nil {
		return nil, err
	}
	existing, ok := sess.Store.Clubs.Get(clubID)
	if !ok {
		return nil, fmt.Errorf("%w: club %s", ErrNotFound, clubID)
	}
	c := existing
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		c.Address = *req.Address
		c.Location = *req.Address
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
		c.ContactNumber = *req.Phone
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.AdminIDs != nil {
		if err := checkAdmins(sess, req.AdminIDs); err != nil {
			return nil, err
		}
		c.AdminIDs = append([]string(nil), req.AdminIDs...)
		if len(req.AdminIDs) > 0 {
			c.AdminID = req.AdminIDs[0]
		}
	}
	if err := validateStruct(c); err != nil {
		return nil, err
	}
	if !sess.Store.Clubs.Update(c) {
		return nil, fmt.Errorf("%w: club %s", ErrNotFound, clubID)
	}
	return s.GetClub(sess, clubID)
}

// DeleteClub removes the club only; its members, payments and other records stay.
func (s *clubService) DeleteClub(sess *session.Session, clubID string) error {
	if err := requireSuperAdmin(sess); err != nil {
		return err
	}
	if !sess.Store.Clubs.Remove(clubID) {
		return fmt.Errorf("%w: club %s", ErrNotFound, clubID)
	}
	if sel := sess.Store.SelectedClub(); sel != nil && sel.ID == clubID {
		// a nil selection never loads, so the error is always nil
		_ = sess.Store.SetSelectedClub(context.Background(), nil)
	}
	utils.LogInfo("Club deleted", map[string]interface{}{"club_id": clubID, "by": sess.User.ID})
	return nil
}
