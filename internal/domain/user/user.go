package user

import (
	"errors"
	"strings"
	"time"
)

// ErrAlreadyDeleted is returned when a deleted user is destroyed again.
var ErrAlreadyDeleted = errors.New("user already deleted")

type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"` // never expose the credential in JSON
	Deleted      bool       `json:"deleted"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type RegistrationRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"required,max=100"`
	Password string `json:"password" binding:"required,min=1,max=72"`
}

type ModificationRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Password string `json:"password" binding:"required,min=1,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// New builds an active user that has not been persisted yet.
func New(email, name, passwordHash string) User {
	now := time.Now().UTC()

	return User{
		Email:        strings.TrimSpace(email),
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (u User) Active() bool {
	return !u.Deleted
}

// Change replaces the mutable profile fields. Email is immutable.
func (u User) Change(name, passwordHash string) User {
	u.Name = name
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	return u
}

// Destroy moves the user into the terminal deleted state.
func (u User) Destroy(at time.Time) (User, error) {
	if u.Deleted {
		return u, ErrAlreadyDeleted
	}

	at = at.UTC()
	u.Deleted = true
	u.DeletedAt = &at
	u.UpdatedAt = at
	return u, nil
}
