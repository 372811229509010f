// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package policy decides which user may run which poll operation.
package policy

import (
	"github.com/danielhkuo/pollboard/apperr"
	"github.com/danielhkuo/pollboard/models"
)

type Operation string

const (
	CreatePoll         Operation = "create_poll"
	UpdatePoll         Operation = "update_poll"
	DeletePoll         Operation = "delete_poll"
	VotePoll           Operation = "vote_poll"
	ToggleStatus       Operation = "toggle_status"
	SaveTemplate       Operation = "save_template"
	CreateFromTemplate Operation = "create_from_template"
)

// denied holds the notification text shown for each operation.
var denied = map[Operation]string{
	CreatePoll:         "Only admins can create polls",
	UpdatePoll:         "Only admins can update polls",
	DeletePoll:         "Only admins can delete polls",
	VotePoll:           "You must be logged in to vote",
	ToggleStatus:       "Only admins can activate/deactivate polls",
	SaveTemplate:       "Only admins can save templates",
	CreateFromTemplate: "Only admins can create polls",
}

// RequiresAdmin reports whether op is limited to admins. Voting is the only
// operation open to every signed-in user.
func RequiresAdmin(op Operation) bool {
	return op != VotePoll
}

// Authorize returns nil when user may run op. user is nil when nobody is
// signed in.
func Authorize(user *models.User, op Operation) error {
	msg, ok := denied[op]
	if !ok {
		msg = "Operation not allowed"
	}

	if user == nil {
		return apperr.Unauthenticated(msg)
	}
	if RequiresAdmin(op) && !user.IsAdmin {
		return apperr.NotAdmin(msg)
	}
	return nil
}
