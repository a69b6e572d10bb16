package domain

import (
	"strings"
	"time"
)

// User is the public profile of an account. The password hash is not part of it.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfilePatch is a partial profile update, merged by truthiness like TaskPatch.
type ProfilePatch struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

// Apply merges the non-empty fields of p into u and stamps UpdatedAt.
func (u *User) Apply(p ProfilePatch, now time.Time) {
	if truthy(p.Name) {
		u.Name = strings.TrimSpace(p.Name)
	}
	if truthy(p.Email) {
		u.Email = NormalizeEmail(p.Email)
	}
	if truthy(p.Bio) {
		u.Bio = strings.TrimSpace(p.Bio)
	}
	if truthy(p.Avatar) {
		u.Avatar = strings.TrimSpace(p.Avatar)
	}
	u.UpdatedAt = now
}

// Registration is the input of account creation.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Credentials is the input of a login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by register and login.
type Session struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Caller is the authenticated identity on whose behalf an operation runs.
// TokenID and ExpiresAt identify the session so that it can be revoked.
type Caller struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
