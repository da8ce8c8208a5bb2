package domain

import (
	"fmt"
	"strings"
	"time"
)

// User is a mock identity. Email is the persistence namespace key; name and
// avatar are display-only and derived from it.
type User struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserFromEmail derives the display identity the login flow produces:
// name is the local part of the email and the avatar URL is deterministic
// per email.
func NewUserFromEmail(email string) *User {
	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	return &User{
		Email:     email,
		Name:      name,
		Avatar:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", email),
		CreatedAt: time.Now().UTC(),
	}
}
