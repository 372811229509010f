// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielhkuo/pollboard/metrics"
	"github.com/danielhkuo/pollboard/models"
	"github.com/danielhkuo/pollboard/testutil"
)

func newTestMux(t *testing.T) (*http.ServeMux, *testutil.Stack) {
	t.Helper()
	stack := testutil.NewStack(t, true)
	return NewRouter(stack.Sessions, stack.Polls, nil), stack
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "pollboard API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}

	// Unknown paths are not swallowed by the root route
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", w.Code)
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := newTestMux(t)

	// 400, 401, 403 and 404 are all valid answers from the handlers
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},

		{"GET", "/session"},
		{"POST", "/session/login"},
		{"POST", "/session/logout"},

		{"GET", "/polls"},
		{"POST", "/polls"},
		{"GET", "/polls/test-id"},
		{"PUT", "/polls/test-id"},
		{"DELETE", "/polls/test-id"},
		{"POST", "/polls/test-id/votes"},
		{"POST", "/polls/test-id/toggle"},
		{"POST", "/polls/test-id/template"},
		{"GET", "/polls/test-id/can-vote"},

		{"GET", "/active-poll"},
		{"PUT", "/active-poll"},

		{"GET", "/templates"},
		{"POST", "/templates/test-id/polls"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
			if w.Code >= http.StatusInternalServerError {
				t.Errorf("Route %s %s returned %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestMux(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"DELETE", "/session"},
		{"PATCH", "/polls/test-id"},
		{"GET", "/polls/test-id/votes"},
		{"POST", "/active-poll"},
		{"DELETE", "/templates"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	mux, stack := newTestMux(t)
	stack.LoginAs(t, testutil.UserEmail)

	req := testutil.MakeRequest("POST", "/polls/poll-2/votes", models.VoteRequest{OptionID: "opt-8"}, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.PollResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Poll.ID != "poll-2" || resp.Poll.Options[3].Votes != 7 {
		t.Errorf("Expected Svelte on poll-2 to reach 7, got %+v", resp.Poll)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	stack := testutil.NewStack(t, false)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.ObserveVote()

	mux := NewRouter(stack.Sessions, stack.Polls, reg)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "pollboard_polls_votes_accepted_total 1") {
		t.Errorf("Expected vote counter in exposition, got:\n%s", w.Body.String())
	}

	// without a gatherer the route is not registered
	mux, _ = newTestMux(t)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 without a gatherer, got %d", w.Code)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	mux, _ := newTestMux(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/session/login", models.LoginRequest{Email: "admin@example.com"}, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/session", nil))
	var resp models.SessionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Authenticated || resp.User == nil || !resp.User.IsAdmin {
		t.Errorf("Expected admin session, got %+v", resp)
	}
}
