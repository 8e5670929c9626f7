package session

import (
	"fmt"

	"club_admin_backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// Credential is one accepted username/password pair and the user it signs in as.
type Credential struct {
	Username     string
	PasswordHash []byte
	UserID       string
	Role         models.Role
}

// NewCredential hashes password with bcrypt at the given cost (bcrypt.DefaultCost when 0).
func NewCredential(username, password, userID string, role models.Role, cost int) (Credential, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return Credential{}, fmt.Errorf("failed to hash password for %s: %w", username, err)
	}
	return Credential{Username: username, PasswordHash: hash, UserID: userID, Role: role}, nil
}

// DemoCredentials returns the two demo logins: superadmin/password and admin/password.
func DemoCredentials(superAdminID, adminID string, cost int) ([]Credential, error) {
	super, err := NewCredential("superadmin", "password", superAdminID, models.RoleSuperAdmin, cost)
	if err != nil {
		return nil, err
	}
	admin, err := NewCredential("admin", "password", adminID, models.RoleAdmin, cost)
	if err != nil {
		return nil, err
	}
	return []Credential{super, admin}, nil
}

func (c Credential) matches(username, password string) bool {
	if c.Username != username {
		return false
	}
	return bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password)) == nil
}
