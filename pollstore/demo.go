// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollstore

import (
	"time"

	"github.com/danielhkuo/pollboard/models"
)

// DemoPolls returns the two sample polls shown on a fresh install.
func DemoPolls(now time.Time) []models.Poll {
	created := now.UTC()
	return []models.Poll{
		{
			ID:       "poll-1",
			Question: "What's your favorite programming language?",
			Options: []models.Option{
				{ID: "opt-1", Text: "JavaScript", Votes: 7},
				{ID: "opt-2", Text: "Python", Votes: 5},
				{ID: "opt-3", Text: "Java", Votes: 3},
				{ID: "opt-4", Text: "C#", Votes: 2},
			},
			CreatedAt: created,
			CreatedBy: "admin-1",
			IsActive:  true,
			Voted:     []string{},
		},
		{
			ID:       "poll-2",
			Question: "Which frontend framework do you prefer?",
			Options: []models.Option{
				{ID: "opt-5", Text: "React", Votes: 10},
				{ID: "opt-6", Text: "Vue", Votes: 4},
				{ID: "opt-7", Text: "Angular", Votes: 3},
				{ID: "opt-8", Text: "Svelte", Votes: 6},
			},
			CreatedAt: created,
			CreatedBy: "admin-1",
			IsActive:  true,
			Voted:     []string{},
		},
	}
}
