// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollstore

import (
	"context"
	"log/slog"

	"github.com/danielhkuo/pollboard/apperr"
	"github.com/danielhkuo/pollboard/auth"
	"github.com/danielhkuo/pollboard/events"
	"github.com/danielhkuo/pollboard/kvstore"
	"github.com/danielhkuo/pollboard/metrics"
	"github.com/danielhkuo/pollboard/models"
	"github.com/danielhkuo/pollboard/policy"
)

// CreatePoll adds an active poll owned by the signed-in admin and focuses it.
func (s *Store) CreatePoll(ctx context.Context, question string, optionTexts []string) (models.Poll, error) {
	user, err := s.authorize(policy.CreatePoll)
	if err != nil {
		return models.Poll{}, s.reject(policy.CreatePoll, err)
	}

	question, err = cleanQuestion(question)
	if err != nil {
		return models.Poll{}, s.reject(policy.CreatePoll, err)
	}
	texts, err := cleanOptions(optionTexts)
	if err != nil {
		return models.Poll{}, s.reject(policy.CreatePoll, err)
	}

	poll := models.Poll{
		ID:        auth.GenerateID(),
		Question:  question,
		Options:   newOptions(texts),
		CreatedAt: s.now().UTC(),
		CreatedBy: user.ID,
		IsActive:  true,
		Voted:     []string{},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.polls = append(s.polls, poll)
	s.activeID = poll.ID
	s.persist(ctx, kvstore.KeyPolls, s.polls)

	slog.Info("poll created", "poll_id", poll.ID, "created_by", user.ID, "options", len(poll.Options))
	s.accept(ctx, policy.CreatePoll, events.Event{Type: events.PollCreated, PollID: poll.ID, UserID: user.ID})

	return poll.Clone(), nil
}

// UpdatePoll replaces a poll's question and options. Options get fresh IDs
// and inherit votes via carryVotes.
func (s *Store) UpdatePoll(ctx context.Context, pollID, question string, optionTexts []string) (models.Poll, error) {
	user, err := s.authorize(policy.UpdatePoll)
	if err != nil {
		return models.Poll{}, s.reject(policy.UpdatePoll, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(pollID)
	if i < 0 {
		return models.Poll{}, s.reject(policy.UpdatePoll, apperr.NotFound("Poll"))
	}

	question, err = cleanQuestion(question)
	if err != nil {
		return models.Poll{}, s.reject(policy.UpdatePoll, err)
	}
	texts, err := cleanOptions(optionTexts)
	if err != nil {
		return models.Poll{}, s.reject(policy.UpdatePoll, err)
	}

	options := newOptions(texts)
	carryVotes(s.polls[i].Options, options)

	updated := s.polls[i].Clone()
	updated.Question = question
	updated.Options = options
	s.polls[i] = updated
	s.persist(ctx, kvstore.KeyPolls, s.polls)

	slog.Info("poll updated", "poll_id", pollID, "updated_by", user.ID)
	s.accept(ctx, policy.UpdatePoll, events.Event{Type: events.PollUpdated, PollID: pollID, UserID: user.ID})

	return updated.Clone(), nil
}

// DeletePoll removes a poll. Deleting an unknown ID changes nothing and is not
// an error. If the active poll goes, the first remaining poll takes its place.
func (s *Store) DeletePoll(ctx context.Context, pollID string) error {
	user, err := s.authorize(policy.DeletePoll)
	if err != nil {
		return s.reject(policy.DeletePoll, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(pollID)
	if i < 0 {
		slog.Debug("delete of unknown poll ignored", "poll_id", pollID)
		return nil
	}

	s.polls = append(s.polls[:i:i], s.polls[i+1:]...)
	if s.activeID == pollID {
		s.activeID = ""
		if len(s.polls) > 0 {
			s.activeID = s.polls[0].ID
		}
	}
	s.persist(ctx, kvstore.KeyPolls, s.polls)

	slog.Info("poll deleted", "poll_id", pollID, "deleted_by", user.ID)
	s.accept(ctx, policy.DeletePoll, events.Event{Type: events.PollDeleted, PollID: pollID, UserID: user.ID})

	return nil
}

// VotePoll records one vote by the signed-in user. A user votes at most once
// per poll.
func (s *Store) VotePoll(ctx context.Context, pollID, optionID string) (models.Poll, error) {
	user, err := s.authorize(policy.VotePoll)
	if err != nil {
		return models.Poll{}, s.reject(policy.VotePoll, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(pollID)
	if i < 0 {
		return models.Poll{}, s.reject(policy.VotePoll, apperr.NotFound("Poll"))
	}
	poll := &s.polls[i]

	j := poll.OptionIndex(optionID)
	if j < 0 {
		return models.Poll{}, s.reject(policy.VotePoll, apperr.NotFound("Option"))
	}
	if !poll.IsActive {
		return models.Poll{}, s.reject(policy.VotePoll, apperr.PollInactive())
	}
	if poll.HasVoted(user.ID) {
		return models.Poll{}, s.reject(policy.VotePoll, apperr.AlreadyVoted())
	}

	poll.Options[j].Votes++
	poll.Voted = append(poll.Voted, user.ID)
	s.persist(ctx, kvstore.KeyPolls, s.polls)

	slog.Info("vote recorded", "poll_id", pollID, "option_id", optionID, "user_id", user.ID)
	s.metrics.ObserveVote()
	s.accept(ctx, policy.VotePoll, events.Event{Type: events.PollVoted, PollID: pollID, OptionID: optionID, UserID: user.ID})

	return poll.Clone(), nil
}

// ToggleStatus flips whether a poll accepts votes.
func (s *Store) ToggleStatus(ctx context.Context, pollID string) (models.Poll, error) {
	user, err := s.authorize(policy.ToggleStatus)
	if err != nil {
		return models.Poll{}, s.reject(policy.ToggleStatus, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(pollID)
	if i < 0 {
		return models.Poll{}, s.reject(policy.ToggleStatus, apperr.NotFound("Poll"))
	}

	s.polls[i].IsActive = !s.polls[i].IsActive
	active := s.polls[i].IsActive
	s.persist(ctx, kvstore.KeyPolls, s.polls)

	slog.Info("poll status toggled", "poll_id", pollID, "is_active", active, "user_id", user.ID)
	s.accept(ctx, policy.ToggleStatus, events.Event{Type: events.PollToggled, PollID: pollID, UserID: user.ID, IsActive: &active})

	return s.polls[i].Clone(), nil
}

// SaveAsTemplate stores a vote-free copy of a poll as a template. The source
// poll is not touched.
func (s *Store) SaveAsTemplate(ctx context.Context, pollID string) (models.Poll, error) {
	user, err := s.authorize(policy.SaveTemplate)
	if err != nil {
		return models.Poll{}, s.reject(policy.SaveTemplate, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(pollID)
	if i < 0 {
		return models.Poll{}, s.reject(policy.SaveTemplate, apperr.NotFound("Poll"))
	}
	src := s.polls[i]

	template := models.Poll{
		ID:        auth.GenerateID(),
		Question:  src.Question,
		Options:   newOptions(src.OptionTexts()),
		CreatedAt: s.now().UTC(),
		CreatedBy: src.CreatedBy,
		IsActive:  src.IsActive,
		Voted:     []string{},
	}

	s.templates = append(s.templates, template)
	s.persist(ctx, kvstore.KeyTemplates, s.templates)

	slog.Info("poll saved as template", "poll_id", pollID, "template_id", template.ID, "user_id", user.ID)
	s.accept(ctx, policy.SaveTemplate, events.Event{Type: events.TemplateSaved, PollID: pollID, TemplateID: template.ID, UserID: user.ID})

	return template.Clone(), nil
}

// CreateFromTemplate creates a new poll seeded with a template's question and
// option texts. The template itself is left as is.
func (s *Store) CreateFromTemplate(ctx context.Context, templateID string) (models.Poll, error) {
	if _, err := s.authorize(policy.CreateFromTemplate); err != nil {
		return models.Poll{}, s.reject(policy.CreateFromTemplate, err)
	}

	s.mu.RLock()
	i := s.templateIndex(templateID)
	var question string
	var texts []string
	if i >= 0 {
		question = s.templates[i].Question
		texts = s.templates[i].OptionTexts()
	}
	s.mu.RUnlock()

	if i < 0 {
		return models.Poll{}, s.reject(policy.CreateFromTemplate, apperr.NotFound("Template"))
	}

	// The inner create publishes poll.created; only the outer outcome is
	// counted here.
	p, err := s.CreatePoll(ctx, question, texts)
	if err != nil {
		s.metrics.ObserveOperation(string(policy.CreateFromTemplate), string(apperr.CodeOf(err)))
		return models.Poll{}, err
	}
	s.metrics.ObserveOperation(string(policy.CreateFromTemplate), metrics.OutcomeOK)
	return p, nil
}

// carryVotes copies vote counts from old options onto their replacements.
// A new option first takes the votes of an unclaimed old option with exactly
// the same text (case-sensitive, in order). A new option left unmatched then
// takes the votes of the old option at the same position, if that option is
// unclaimed and its text no longer appears at all: an in-place rename. Every
// old count is claimed at most once, so no votes are ever duplicated.
func carryVotes(old, updated []models.Option) {
	claimed := make([]bool, len(old))
	byText := make(map[string][]int, len(old))
	for k, opt := range old {
		byText[opt.Text] = append(byText[opt.Text], k)
	}

	present := make(map[string]bool, len(updated))
	matched := make([]bool, len(updated))
	for j := range updated {
		present[updated[j].Text] = true
		queue := byText[updated[j].Text]
		if len(queue) == 0 {
			continue
		}
		k := queue[0]
		byText[updated[j].Text] = queue[1:]
		updated[j].Votes = old[k].Votes
		claimed[k] = true
		matched[j] = true
	}

	for j := range updated {
		if matched[j] || j >= len(old) || claimed[j] || present[old[j].Text] {
			continue
		}
		updated[j].Votes = old[j].Votes
		claimed[j] = true
	}
}
