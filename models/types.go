// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Domain types
//
// These are stored as JSON blobs, so the tags keep the camelCase field names
// the browser client has always written.

type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

type Option struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

type Poll struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Options   []Option  `json:"options"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
	IsActive  bool      `json:"isActive"`
	Voted     []string  `json:"voted"` // user IDs who already voted
}

// Clone returns a deep copy so callers never share slices with the store.
func (p Poll) Clone() Poll {
	c := p
	c.Options = append([]Option(nil), p.Options...)
	c.Voted = append([]string{}, p.Voted...)
	return c
}

// TotalVotes sums the vote counters of all options.
func (p Poll) TotalVotes() int {
	total := 0
	for _, opt := range p.Options {
		total += opt.Votes
	}
	return total
}

// HasVoted reports whether userID is already recorded as a voter.
func (p Poll) HasVoted(userID string) bool {
	for _, id := range p.Voted {
		if id == userID {
			return true
		}
	}
	return false
}

// OptionIndex returns the index of the option with the given ID, or -1.
func (p Poll) OptionIndex(optionID string) int {
	for i, opt := range p.Options {
		if opt.ID == optionID {
			return i
		}
	}
	return -1
}

// OptionTexts returns the option texts in display order.
func (p Poll) OptionTexts() []string {
	texts := make([]string, len(p.Options))
	for i, opt := range p.Options {
		texts[i] = opt.Text
	}
	return texts
}

// Request types

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type VoteRequest struct {
	OptionID string `json:"option_id"`
}

type SetActivePollRequest struct {
	PollID string `json:"poll_id"`
}

// Response types

type SessionResponse struct {
	Authenticated bool  `json:"authenticated"`
	Loading       bool  `json:"loading"`
	User          *User `json:"user,omitempty"`
}

type LoginResponse struct {
	User    User   `json:"user"`
	Message string `json:"message"`
}

type PollResponse struct {
	Poll       Poll   `json:"poll"`
	CanVote    bool   `json:"can_vote"`
	TotalVotes int    `json:"total_votes"`
	CreatedAgo string `json:"created_ago"`
	Message    string `json:"message,omitempty"`
}

type PollListResponse struct {
	Polls []PollResponse `json:"polls"`
}

type TemplateResponse struct {
	Template Poll   `json:"template"`
	Message  string `json:"message,omitempty"`
}

type TemplateListResponse struct {
	Templates []Poll `json:"templates"`
}

type ActivePollResponse struct {
	Poll *Poll `json:"poll"`
}

type CanVoteResponse struct {
	PollID  string `json:"poll_id"`
	CanVote bool   `json:"can_vote"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}
