package domain

import "time"

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleClient
}

// Account models a platform account. The password hash never serializes:
// every externally visible payload is derived from this type.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"nombre"`
	Lastname     string    `json:"apellido"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"rol"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AccountUpdate carries the mutable profile fields. Nil means "leave as is".
type AccountUpdate struct {
	Name     *string
	Lastname *string
	Email    *string
	Role     *string
}

// AccountFilter narrows a listing. Zero values impose no constraint.
type AccountFilter struct {
	Role  string
	Name  string // matches name or lastname, substring
	Page  int64
	Limit int64
}
