// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollboard/models"
)

// Directory is the fixed set of known users. It is a placeholder for a real
// identity provider: passwords are never checked.
var directory = []models.User{
	{
		ID:      "admin-1",
		Email:   "admin@example.com",
		Name:    "Admin User",
		IsAdmin: true,
	},
	{
		ID:      "user-1",
		Email:   "user@example.com",
		Name:    "Regular User",
		IsAdmin: false,
	},
}

// Users returns a copy of the directory.
func Users() []models.User {
	return append([]models.User(nil), directory...)
}

// LookupEmail finds a user by email, ignoring case and surrounding spaces.
func LookupEmail(email string) (models.User, bool) {
	email = strings.TrimSpace(email)
	for _, u := range directory {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return models.User{}, false
}

// LookupID finds a user by ID.
func LookupID(id string) (models.User, bool) {
	for _, u := range directory {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// GenerateID creates a random UUIDv4 string for polls, options and templates
func GenerateID() string {
	return uuid.NewString()
}
