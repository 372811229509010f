// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/pollboard/models"
	"github.com/danielhkuo/pollboard/testutil"
)

// pathRequest builds a request with the {id} path value set, as the router would.
func pathRequest(method, path, id string, body interface{}) *http.Request {
	req := testutil.MakeRequest(method, path, body, nil)
	req.SetPathValue("id", id)
	return req
}

func TestListPolls(t *testing.T) {
	stack := testutil.NewStack(t, true)
	handler := NewPollHandler(stack.Polls)

	t.Run("signed out", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListPolls(w, testutil.MakeRequest("GET", "/polls", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.PollListResponse
		testutil.AssertJSON(t, w, &resp)

		if len(resp.Polls) != 2 {
			t.Fatalf("Expected 2 demo polls, got %d", len(resp.Polls))
		}
		if resp.Polls[0].Poll.ID != "poll-1" || resp.Polls[0].TotalVotes != 17 {
			t.Errorf("Unexpected first poll %+v", resp.Polls[0])
		}
		if resp.Polls[1].TotalVotes != 23 {
			t.Errorf("Expected 23 votes on poll-2, got %d", resp.Polls[1].TotalVotes)
		}
		for _, p := range resp.Polls {
			if p.CanVote {
				t.Errorf("Signed-out user should not be able to vote on %s", p.Poll.ID)
			}
			if p.CreatedAgo == "" {
				t.Errorf("Expected created_ago on %s", p.Poll.ID)
			}
		}
	})

	t.Run("signed in", func(t *testing.T) {
		stack.LoginAs(t, testutil.UserEmail)
		defer stack.Logout()

		w := httptest.NewRecorder()
		handler.ListPolls(w, testutil.MakeRequest("GET", "/polls", nil, nil))

		var resp models.PollListResponse
		testutil.AssertJSON(t, w, &resp)
		for _, p := range resp.Polls {
			if !p.CanVote {
				t.Errorf("Expected user to be able to vote on %s", p.Poll.ID)
			}
		}
	})

	t.Run("empty store lists an empty array", func(t *testing.T) {
		empty := testutil.NewStack(t, false)
		w := httptest.NewRecorder()
		NewPollHandler(empty.Polls).ListPolls(w, testutil.MakeRequest("GET", "/polls", nil, nil))

		if got := bytes.TrimSpace(w.Body.Bytes()); string(got) != `{"polls":[]}` {
			t.Errorf("Expected empty polls array, got %s", got)
		}
	})
}

func TestCreatePoll(t *testing.T) {
	tests := []struct {
		name           string
		email          string
		body           interface{}
		expectedStatus int
		expectedCode   string
		expectedReason string
	}{
		{
			name:           "admin creates poll",
			email:          testutil.AdminEmail,
			body:           models.PollRequest{Question: "Best pet?", Options: []string{"Cat", "Dog"}},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "blank options are dropped",
			email:          testutil.AdminEmail,
			body:           models.PollRequest{Question: "Best pet?", Options: []string{"Cat", " ", "Dog", ""}},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "signed out",
			body:           models.PollRequest{Question: "Best pet?", Options: []string{"Cat", "Dog"}},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "not_authorized",
			expectedReason: "unauthenticated",
		},
		{
			name:           "regular user",
			email:          testutil.UserEmail,
			body:           models.PollRequest{Question: "Best pet?", Options: []string{"Cat", "Dog"}},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "not_authorized",
			expectedReason: "not_admin",
		},
		{
			name:           "one option",
			email:          testutil.AdminEmail,
			body:           models.PollRequest{Question: "Best pet?", Options: []string{"Cat", "  "}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid_input",
			expectedReason: "too_few_options",
		},
		{
			name:           "missing question",
			email:          testutil.AdminEmail,
			body:           models.PollRequest{Options: []string{"Cat", "Dog"}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid_input",
			expectedReason: "missing_question",
		},
		{
			name:           "invalid JSON",
			email:          testutil.AdminEmail,
			body:           "invalid json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stack := testutil.NewStack(t, false)
			handler := NewPollHandler(stack.Polls)
			if tt.email != "" {
				stack.LoginAs(t, tt.email)
			}

			var body []byte
			if str, ok := tt.body.(string); ok {
				body = []byte(str)
			} else {
				body, _ = json.Marshal(tt.body)
			}
			req := httptest.NewRequest("POST", "/polls", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.CreatePoll(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.PollResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Message != "Poll created successfully!" {
					t.Errorf("Unexpected message %q", resp.Message)
				}
				if got := resp.Poll.OptionTexts(); len(got) != 2 || got[0] != "Cat" || got[1] != "Dog" {
					t.Errorf("Expected options [Cat Dog], got %v", got)
				}
				if !resp.Poll.IsActive || resp.Poll.CreatedBy != "admin-1" {
					t.Errorf("Unexpected poll %+v", resp.Poll)
				}
				if !resp.CanVote {
					t.Error("Expected the creator to be able to vote")
				}
				if len(stack.Polls.Polls()) != 1 {
					t.Error("Expected the poll to be stored")
				}
				return
			}

			if len(stack.Polls.Polls()) != 0 {
				t.Error("Rejected request must not create a poll")
			}
			if tt.expectedCode != "" {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Code != tt.expectedCode || resp.Reason != tt.expectedReason {
					t.Errorf("Expected %s/%s, got %s/%s", tt.expectedCode, tt.expectedReason, resp.Code, resp.Reason)
				}
			}
		})
	}
}

func TestGetPoll(t *testing.T) {
	stack := testutil.NewStack(t, true)
	handler := NewPollHandler(stack.Polls)

	w := httptest.NewRecorder()
	handler.GetPoll(w, pathRequest("GET", "/polls/poll-2", "poll-2", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.PollResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Poll.Question != "Which frontend framework do you prefer?" {
		t.Errorf("Unexpected question %q", resp.Poll.Question)
	}

	w = httptest.NewRecorder()
	handler.GetPoll(w, pathRequest("GET", "/polls/missing", "missing", nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestUpdatePoll(t *testing.T) {
	stack := testutil.NewStack(t, false)
	handler := NewPollHandler(stack.Polls)
	p := stack.CreateTestPoll(t, "Q?", "A", "B")

	stack.LoginAs(t, testutil.UserEmail)
	w := httptest.NewRecorder()
	handler.Vote(w, pathRequest("POST", "/polls/"+p.ID+"/votes", p.ID, models.VoteRequest{OptionID: p.Options[0].ID}))
	testutil.AssertStatus(t, w, http.StatusOK)

	t.Run("regular user is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.UpdatePoll(w, pathRequest("PUT", "/polls/"+p.ID, p.ID,
			models.PollRequest{Question: "Q2?", Options: []string{"A", "B"}}))
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	stack.LoginAs(t, testutil.AdminEmail)

	t.Run("unknown poll", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.UpdatePoll(w, pathRequest("PUT", "/polls/missing", "missing",
			models.PollRequest{Question: "Q2?", Options: []string{"A", "B"}}))
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("too few options", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.UpdatePoll(w, pathRequest("PUT", "/polls/"+p.ID, p.ID,
			models.PollRequest{Question: "Q2?", Options: []string{"A"}}))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("rename keeps votes", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.UpdatePoll(w, pathRequest("PUT", "/polls/"+p.ID, p.ID,
			models.PollRequest{Question: "Q2?", Options: []string{"A2", "B", "C"}}))
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.PollResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Message != "Poll updated successfully!" {
			t.Errorf("Unexpected message %q", resp.Message)
		}
		got := []int{resp.Poll.Options[0].Votes, resp.Poll.Options[1].Votes, resp.Poll.Options[2].Votes}
		if got[0] != 1 || got[1] != 0 || got[2] != 0 {
			t.Errorf("Expected votes [1 0 0], got %v", got)
		}
		if resp.Poll.Question != "Q2?" || resp.TotalVotes != 1 {
			t.Errorf("Unexpected poll %+v", resp)
		}
	})
}

func TestDeletePoll(t *testing.T) {
	stack := testutil.NewStack(t, true)
	handler := NewPollHandler(stack.Polls)

	w := httptest.NewRecorder()
	handler.DeletePoll(w, pathRequest("DELETE", "/polls/poll-1", "poll-1", nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	stack.LoginAs(t, testutil.AdminEmail)
	for _, id := range []string{"poll-1", "poll-1", "missing"} {
		w := httptest.NewRecorder()
		handler.DeletePoll(w, pathRequest("DELETE", "/polls/"+id, id, nil))
		testutil.AssertStatus(t, w, http.StatusNoContent)
		if w.Body.Len() != 0 {
			t.Errorf("Expected empty body, got %s", w.Body.String())
		}
	}

	polls := stack.Polls.Polls()
	if len(polls) != 1 || polls[0].ID != "poll-2" {
		t.Errorf("Expected only poll-2 to remain, got %d polls", len(polls))
	}
}

func TestVote(t *testing.T) {
	stack := testutil.NewStack(t, true)
	handler := NewPollHandler(stack.Polls)

	vote := func(pollID, optionID string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.Vote(w, pathRequest("POST", "/polls/"+pollID+"/votes", pollID, models.VoteRequest{OptionID: optionID}))
		return w
	}
	codeOf := func(t *testing.T, w *httptest.ResponseRecorder) string {
		t.Helper()
		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		return resp.Code
	}

	w := vote("poll-1", "opt-2")
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	stack.LoginAs(t, testutil.UserEmail)

	w = vote("poll-1", "opt-2")
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.PollResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "Vote recorded!" {
		t.Errorf("Unexpected message %q", resp.Message)
	}
	if resp.Poll.Options[1].Votes != 6 || resp.TotalVotes != 18 {
		t.Errorf("Expected Python at 6 and 18 total, got %d and %d", resp.Poll.Options[1].Votes, resp.TotalVotes)
	}
	if resp.CanVote {
		t.Error("Expected can_vote to be false after voting")
	}

	w = vote("poll-1", "opt-1")
	testutil.AssertStatus(t, w, http.StatusConflict)
	if code := codeOf(t, w); code != "already_voted" {
		t.Errorf("Expected already_voted, got %s", code)
	}

	w = vote("poll-2", "opt-1")
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = vote("missing", "opt-1")
	testutil.AssertStatus(t, w, http.StatusNotFound)

	stack.LoginAs(t, testutil.AdminEmail)
	w = httptest.NewRecorder()
	handler.ToggleStatus(w, pathRequest("POST", "/polls/poll-2/toggle", "poll-2", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = vote("poll-2", "opt-5")
	testutil.AssertStatus(t, w, http.StatusConflict)
	if code := codeOf(t, w); code != "poll_inactive" {
		t.Errorf("Expected poll_inactive, got %s", code)
	}
}

func TestToggleStatus(t *testing.T) {
	stack := testutil.NewStack(t, true)
	handler := NewPollHandler(stack.Polls)

	toggle := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.ToggleStatus(w, pathRequest("POST", "/polls/poll-1/toggle", "poll-1", nil))
		return w
	}

	stack.LoginAs(t, testutil.UserEmail)
	testutil.AssertStatus(t, toggle(), http.StatusForbidden)

	stack.LoginAs(t, testutil.AdminEmail)
	for _, want := range []struct {
		active  bool
		message string
	}{
		{false, "Poll deactivated"},
		{true, "Poll activated"},
	} {
		w := toggle()
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.PollResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Poll.IsActive != want.active || resp.Message != want.message {
			t.Errorf("Expected active=%v %q, got active=%v %q", want.active, want.message, resp.Poll.IsActive, resp.Message)
		}
	}
}

func TestSaveTemplate(t *testing.T) {
	stack := testutil.NewStack(t, true)
	handler := NewPollHandler(stack.Polls)

	w := httptest.NewRecorder()
	handler.SaveTemplate(w, pathRequest("POST", "/polls/poll-1/template", "poll-1", nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	stack.LoginAs(t, testutil.AdminEmail)

	w = httptest.NewRecorder()
	handler.SaveTemplate(w, pathRequest("POST", "/polls/poll-1/template", "poll-1", nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.TemplateResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "Poll saved as template" {
		t.Errorf("Unexpected message %q", resp.Message)
	}
	if resp.Template.ID == "poll-1" || resp.Template.TotalVotes() != 0 || len(resp.Template.Voted) != 0 {
		t.Errorf("Expected a fresh template, got %+v", resp.Template)
	}

	w = httptest.NewRecorder()
	handler.SaveTemplate(w, pathRequest("POST", "/polls/missing/template", "missing", nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestCanVote(t *testing.T) {
	stack := testutil.NewStack(t, true)
	handler := NewPollHandler(stack.Polls)

	check := func(id string) bool {
		t.Helper()
		w := httptest.NewRecorder()
		handler.CanVote(w, pathRequest("GET", "/polls/"+id+"/can-vote", id, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.CanVoteResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.PollID != id {
			t.Errorf("Expected poll_id %s, got %s", id, resp.PollID)
		}
		return resp.CanVote
	}

	if check("poll-1") {
		t.Error("Signed-out user cannot vote")
	}
	stack.LoginAs(t, testutil.UserEmail)
	if !check("poll-1") {
		t.Error("Expected user to be able to vote")
	}
	if check("missing") {
		t.Error("Unknown poll cannot be voted on")
	}
}

func TestActivePoll(t *testing.T) {
	stack := testutil.NewStack(t, true)
	handler := NewPollHandler(stack.Polls)

	get := func() *models.Poll {
		t.Helper()
		w := httptest.NewRecorder()
		handler.GetActivePoll(w, testutil.MakeRequest("GET", "/active-poll", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.ActivePollResponse
		testutil.AssertJSON(t, w, &resp)
		return resp.Poll
	}
	set := func(id string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.SetActivePoll(w, testutil.MakeRequest("PUT", "/active-poll", models.SetActivePollRequest{PollID: id}, nil))
		return w
	}

	if p := get(); p == nil || p.ID != "poll-1" {
		t.Fatalf("Expected poll-1 to be focused, got %+v", p)
	}

	testutil.AssertStatus(t, set("poll-2"), http.StatusOK)
	if p := get(); p == nil || p.ID != "poll-2" {
		t.Errorf("Expected poll-2 to be focused, got %+v", p)
	}

	testutil.AssertStatus(t, set("missing"), http.StatusNotFound)
	if p := get(); p == nil || p.ID != "poll-2" {
		t.Error("Failed focus change must keep the previous poll")
	}

	testutil.AssertStatus(t, set(""), http.StatusOK)
	if p := get(); p != nil {
		t.Errorf("Expected no focused poll, got %+v", p)
	}
}
