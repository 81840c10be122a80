package user

import (
	"strings"
	"time"
)

// User is the stored account. The password hash never leaves the service
// layer; handlers render Profile instead.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	FullName       *string   `json:"full_name"`
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Profile is the public view of a user.
type Profile struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type SignupParams struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8,bytemax=72"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
}

type LoginParams struct {
	Email    string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileParams is a partial update. The email is deliberately absent.
type UpdateProfileParams struct {
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8,bytemax=72"`
}

type CreateUserParams struct {
	Email          string
	HashedPassword string
	FullName       *string
}

// UpdateUserParams leaves nil fields unchanged.
type UpdateUserParams struct {
	FullName       *string
	HashedPassword *string
	IsActive       *bool
	IsSuperuser    *bool
}

// NormalizeEmail trims and lower-cases an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
