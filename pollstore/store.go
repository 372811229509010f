// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/pollboard/apperr"
	"github.com/danielhkuo/pollboard/auth"
	"github.com/danielhkuo/pollboard/events"
	"github.com/danielhkuo/pollboard/kvstore"
	"github.com/danielhkuo/pollboard/metrics"
	"github.com/danielhkuo/pollboard/models"
	"github.com/danielhkuo/pollboard/policy"
)

// MinOptions is the smallest number of options a poll may have.
const MinOptions = 2

// UserSource yields the signed-in user, or nil. *session.Manager satisfies it.
type UserSource interface {
	CurrentUser() *models.User
}

// Store owns the polls, the saved templates and the active poll reference.
// Every rejected call leaves all three unchanged.
type Store struct {
	kv        kvstore.Store
	users     UserSource
	now       func() time.Time
	publisher events.Publisher
	metrics   *metrics.Metrics

	mu        sync.RWMutex
	polls     []models.Poll
	templates []models.Poll
	activeID  string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithSeed sets the polls used when nothing is stored.
func WithSeed(polls []models.Poll) Option {
	return func(s *Store) {
		s.polls = clonePolls(polls)
	}
}

func New(kv kvstore.Store, users UserSource, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		users:     users,
		now:       time.Now,
		publisher: events.LogPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.polls) > 0 {
		s.activeID = s.polls[0].ID
	}
	return s
}

// Restore replaces the seed with stored polls and templates. Unreadable blobs
// are ignored. Stored polls with fewer than MinOptions options are dropped.
// A key with nothing stored is written from memory so storage mirrors the
// seed from the start.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	polls, ok, absent := s.load(ctx, kvstore.KeyPolls)
	if ok {
		s.polls = polls
	} else if absent {
		s.persist(ctx, kvstore.KeyPolls, s.polls)
	}

	templates, ok, absent := s.load(ctx, kvstore.KeyTemplates)
	if ok {
		s.templates = templates
	} else if absent {
		s.persist(ctx, kvstore.KeyTemplates, s.templates)
	}

	s.activeID = ""
	if len(s.polls) > 0 {
		s.activeID = s.polls[0].ID
	}

	slog.Info("poll store restored", "polls", len(s.polls), "templates", len(s.templates))
}

// load reads one collection. ok is false when nothing usable was read;
// absent is true only when the key holds nothing at all.
func (s *Store) load(ctx context.Context, key string) (polls []models.Poll, ok, absent bool) {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		slog.Warn("failed to read stored polls", "key", key, "error", err)
		return nil, false, false
	}
	if !found {
		return nil, false, true
	}

	var stored []models.Poll
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		slog.Warn("ignoring malformed stored polls", "key", key, "error", err)
		return nil, false, false
	}

	polls = make([]models.Poll, 0, len(stored))
	for _, p := range stored {
		if len(p.Options) < MinOptions {
			slog.Warn("dropping stored poll with too few options", "key", key, "poll_id", p.ID)
			continue
		}
		p.Voted = dedupe(p.Voted)
		polls = append(polls, p)
	}
	return polls, true, false
}

// Polls returns a copy of every poll in creation order.
func (s *Store) Polls() []models.Poll {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePolls(s.polls)
}

// Templates returns a copy of every saved template.
func (s *Store) Templates() []models.Poll {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePolls(s.templates)
}

// Poll returns a copy of the poll with the given ID.
func (s *Store) Poll(id string) (models.Poll, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Poll{}, false
	}
	return s.polls[i].Clone(), true
}

// ActivePoll returns a copy of the focused poll, or nil.
func (s *Store) ActivePoll() *models.Poll {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(s.activeID)
	if i < 0 {
		return nil
	}
	p := s.polls[i].Clone()
	return &p
}

// SetActivePoll focuses the poll with the given ID. An empty ID clears the
// focus.
func (s *Store) SetActivePoll(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.activeID = ""
		return nil
	}
	if s.indexOf(id) < 0 {
		return apperr.NotFound("Poll")
	}
	s.activeID = id
	return nil
}

// UserCanVote reports whether the signed-in user may vote on the poll now.
func (s *Store) UserCanVote(pollID string) bool {
	user := s.users.CurrentUser()
	if user == nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(pollID)
	if i < 0 {
		return false
	}
	p := s.polls[i]
	return p.IsActive && !p.HasVoted(user.ID)
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.polls {
		if s.polls[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) templateIndex(id string) int {
	for i := range s.templates {
		if s.templates[i].ID == id {
			return i
		}
	}
	return -1
}

// authorize runs the policy check for op against the signed-in user.
func (s *Store) authorize(op policy.Operation) (*models.User, error) {
	user := s.users.CurrentUser()
	if err := policy.Authorize(user, op); err != nil {
		return nil, err
	}
	return user, nil
}

// reject records a refused operation and hands the error back.
func (s *Store) reject(op policy.Operation, err error) error {
	s.metrics.ObserveOperation(string(op), string(apperr.CodeOf(err)))
	slog.Info("poll operation rejected", "operation", op, "code", apperr.CodeOf(err), "reason", apperr.ReasonOf(err))
	return err
}

// accept records a completed operation and emits its event.
func (s *Store) accept(ctx context.Context, op policy.Operation, e events.Event) {
	s.metrics.ObserveOperation(string(op), metrics.OutcomeOK)
	e.OccurredAt = s.now().UTC()
	if err := s.publisher.Publish(ctx, e); err != nil {
		slog.Warn("failed to publish event", "type", e.Type, "error", err)
	}
}

// persist writes a collection back to the blob store. Failures are logged and
// never undo the in-memory change. Callers hold s.mu.
func (s *Store) persist(ctx context.Context, key string, polls []models.Poll) {
	if polls == nil {
		polls = []models.Poll{}
	}
	b, err := json.Marshal(polls)
	if err != nil {
		slog.Warn("failed to encode polls", "key", key, "error", err)
		return
	}
	if err := s.kv.Set(ctx, key, string(b)); err != nil {
		slog.Warn("failed to persist polls", "key", key, "error", err)
	}
}

// cleanOptions trims option texts and drops blank ones. It fails unless at
// least MinOptions distinct texts remain. Repeated texts are kept.
func cleanOptions(texts []string) ([]string, error) {
	cleaned := make([]string, 0, len(texts))
	distinct := make(map[string]struct{}, len(texts))
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		cleaned = append(cleaned, t)
		distinct[t] = struct{}{}
	}
	if len(distinct) < MinOptions {
		return nil, apperr.TooFewOptions()
	}
	return cleaned, nil
}

func cleanQuestion(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", apperr.MissingQuestion()
	}
	return q, nil
}

func newOptions(texts []string) []models.Option {
	opts := make([]models.Option, len(texts))
	for i, t := range texts {
		opts[i] = models.Option{ID: auth.GenerateID(), Text: t}
	}
	return opts
}

func clonePolls(polls []models.Poll) []models.Poll {
	out := make([]models.Poll, len(polls))
	for i, p := range polls {
		out[i] = p.Clone()
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
