package models

// Role is the authorization level of a dashboard user.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// User represents an administrator of one or more clubs.
type User struct {
	Base
	Username    string   `json:"username" db:"username" validate:"required"`
	Name        string   `json:"name" db:"name" validate:"required"`
	Email       string   `json:"email" db:"email" validate:"required,email"`
	Phone       string   `json:"phone" db:"phone"`
	Role        Role     `json:"role" db:"role" validate:"required,oneof=SUPER_ADMIN ADMIN"`
	CreatedByID *string  `json:"createdById,omitempty" db:"created_by_id"`
	ClubIDs     []string `json:"clubIds,omitempty" db:"club_ids"`
}

// HasClub reports whether clubID is directly assigned to the user.
func (u *User) HasClub(clubID string) bool {
	for _, id := range u.ClubIDs {
		if id == clubID {
			return true
		}
	}
	return false
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}
