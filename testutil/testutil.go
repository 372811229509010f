// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/pollboard/kvstore"
	"github.com/danielhkuo/pollboard/models"
	"github.com/danielhkuo/pollboard/pollstore"
	"github.com/danielhkuo/pollboard/session"
)

// Directory accounts used throughout the tests.
const (
	AdminEmail = "admin@example.com"
	UserEmail  = "user@example.com"
)

// Stack is an in-memory session manager and poll store sharing one kv store.
type Stack struct {
	KV       *kvstore.MemoryStore
	Sessions *session.Manager
	Polls    *pollstore.Store
}

// NewStack builds a restored, signed-out stack with no login delay. With seed
// set the store starts with the demo polls.
func NewStack(t *testing.T, seed bool) *Stack {
	t.Helper()

	ctx := context.Background()
	kv := kvstore.NewMemoryStore()

	sessions := session.New(kv, session.WithLoginDelay(0))
	sessions.Restore(ctx)

	var opts []pollstore.Option
	if seed {
		opts = append(opts, pollstore.WithSeed(pollstore.DemoPolls(time.Now())))
	}
	polls := pollstore.New(kv, sessions, opts...)
	polls.Restore(ctx)

	return &Stack{KV: kv, Sessions: sessions, Polls: polls}
}

// LoginAs signs in the directory user with the given email.
func (s *Stack) LoginAs(t *testing.T, email string) models.User {
	t.Helper()
	user, err := s.Sessions.Login(context.Background(), email, "password")
	if err != nil {
		t.Fatalf("Failed to log in as %s: %v", email, err)
	}
	return user
}

// Logout signs the current user out.
func (s *Stack) Logout() {
	s.Sessions.Logout(context.Background())
}

// CreateTestPoll creates a poll as the admin and then restores whoever was
// signed in before.
func (s *Stack) CreateTestPoll(t *testing.T, question string, options ...string) models.Poll {
	t.Helper()

	prev := s.Sessions.CurrentUser()
	s.LoginAs(t, AdminEmail)
	defer func() {
		if prev == nil {
			s.Logout()
			return
		}
		s.LoginAs(t, prev.Email)
	}()

	p, err := s.Polls.CreatePoll(context.Background(), question, options)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return p
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
