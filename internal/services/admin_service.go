package services

import (
	"fmt"
	"strings"

	"club_admin_backend/internal/models"
	"club_admin_backend/internal/session"
	"club_admin_backend/pkg/utils"
)

// --- Admin DTOs ---
type CreateAdminRequest struct {
	Name    string   `json:"name" binding:"required"`
	Email   string   `json:"email" binding:"required,email"`
	Phone   string   `json:"phone"`
	ClubIDs []string `json:"clubIds"`
}

type UpdateAdminRequest struct {
	Name    *string  `json:"name"`
	Email   *string  `json:"email" binding:"omitempty,email"`
	Phone   *string  `json:"phone"`
	ClubIDs []string `json:"clubIds"`
}

// --- AdminService Interface ---
type AdminService interface {
	ListAdmins(sess *session.Session) ([]models.User, error)
	GetAdmin(sess *session.Session, adminID string) (*models.User, error)
	CreateAdmin(sess *session.Session, req CreateAdminRequest) (*models.User, error)
	UpdateAdmin(sess *session.Session, adminID string, req UpdateAdminRequest) (*models.User, error)
	DeleteAdmin(sess *session.Session, adminID string) error
}

// --- adminService Implementation ---
type adminService struct {
	newID func() string
}

// NewAdminService creates a new instance of AdminService.
// Admins created here live in the session only and cannot sign in.
func NewAdminService() AdminService {
	return &adminService{newID: utils.NewID}
}

func (s *adminService) ListAdmins(sess *session.Session) ([]models.User, error) {
	if err := requireSuperAdmin(sess); err != nil {
		return nil, err
	}
	out := []models.User{}
	for _, u := range sess.Store.Users.All() {
		if u.Role == models.RoleAdmin {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *adminService) GetAdmin(sess *session.Session, adminID string) (*models.User, error) {
	if err := requireSuperAdmin(sess); err != nil {
		return nil, err
	}
	u, ok := sess.Store.Users.Get(adminID)
	if !ok || u.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: admin %s", ErrNotFound, adminID)
	}
	return &u, nil
}

func checkClubs(sess *session.Session, ids []string) error {
	for _, id := range ids {
		if _, ok := sess.Store.Clubs.Get(id); !ok {
			return fmt.Errorf("%w: club %s not found", ErrValidation, id)
		}
	}
	return nil
}

func emailTaken(sess *session.Session, email, exceptID string) bool {
	for _, u := range sess.Store.Users.All() {
		if u.ID != exceptID && strings.EqualFold(u.Username, email) {
			return true
		}
	}
	return false
}

// CreateAdmin adds an ADMIN user whose username is their email and whose creator is the session user.
func (s *adminService) CreateAdmin(sess *session.Session, req CreateAdminRequest) (*models.User, error) {
	if err := requireSuperAdmin(sess); err != nil {
		return nil, err
	}
	if err := checkClubs(sess, req.ClubIDs); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(req.Email)
	if emailTaken(sess, email, "") {
		return nil, fmt.Errorf("%w: username %s", ErrConflict, email)
	}
	creator := sess.User.ID
	u := models.User{
		Base:        models.Base{ID: s.newID()},
		Username:    email,
		Name:        strings.TrimSpace(req.Name),
		Email:       email,
		Phone:       req.Phone,
		Role:        models.RoleAdmin,
		CreatedByID: &creator,
		ClubIDs:     append([]string(nil), req.ClubIDs...),
	}
	if err := validateStruct(u); err != nil {
		return nil, err
	}
	if err := sess.Store.Users.Add(u); err != nil {
		return nil, storeError(err)
	}
	utils.LogInfo("Admin created", map[string]interface{}{"admin_id": u.ID, "by": creator})
	return s.GetAdmin(sess, u.ID)
}

// UpdateAdmin merges req into the admin, keeping id, role, creator and createdAt.
func (s *adminService) UpdateAdmin(sess *session.Session, adminID string, req UpdateAdminRequest) (*models.User, error) {
	existing, err := s.GetAdmin(sess, adminID)
	if err != nil {
		return nil, err
	}
	u := *existing
	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if emailTaken(sess, email, adminID) {
			return nil, fmt.Errorf("%w: username %s", ErrConflict, email)
		}
		u.Email = email
		u.Username = email
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.ClubIDs != nil {
		if err := checkClubs(sess, req.ClubIDs); err != nil {
			return nil, err
		}
		u.ClubIDs = append([]string(nil), req.ClubIDs...)
	}
	if err := validateStruct(u); err != nil {
		return nil, err
	}
	if !sess.Store.Users.Update(u) {
		return nil, fmt.Errorf("%w: admin %s", ErrNotFound, adminID)
	}
	return s.GetAdmin(sess, adminID)
}

func (s *adminService) DeleteAdmin(sess *session.Session, adminID string) error {
	if _, err := s.GetAdmin(sess, adminID); err != nil {
		return err
	}
	sess.Store.Users.Remove(adminID)
	utils.LogInfo("Admin deleted", map[string]interface{}{"admin_id": adminID, "by": sess.User.ID})
	return nil
}
