// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/pollboard/apperr"
	"github.com/danielhkuo/pollboard/middleware"
	"github.com/danielhkuo/pollboard/models"
	"github.com/danielhkuo/pollboard/pollstore"
)

type PollHandler struct {
	polls *pollstore.Store
}

func NewPollHandler(polls *pollstore.Store) *PollHandler {
	return &PollHandler{polls: polls}
}

// pollResponse decorates a poll with what the current user can do with it.
func (h *PollHandler) pollResponse(p models.Poll, message string) models.PollResponse {
	return models.PollResponse{
		Poll:       p,
		CanVote:    h.polls.UserCanVote(p.ID),
		TotalVotes: p.TotalVotes(),
		CreatedAgo: humanize.Time(p.CreatedAt),
		Message:    message,
	}
}

// ListPolls handles GET /polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls := h.polls.Polls()
	resp := models.PollListResponse{Polls: make([]models.PollResponse, 0, len(polls))}
	for _, p := range polls {
		resp.Polls = append(resp.Polls, h.pollResponse(p, ""))
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.PollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.polls.CreatePoll(r.Context(), req.Question, req.Options)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, h.pollResponse(p, "Poll created successfully!"))
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	p, ok := h.polls.Poll(r.PathValue("id"))
	if !ok {
		middleware.WriteError(w, apperr.NotFound("Poll"))
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.pollResponse(p, ""))
}

// UpdatePoll handles PUT /polls/{id}
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.PollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.polls.UpdatePoll(r.Context(), r.PathValue("id"), req.Question, req.Options)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.pollResponse(p, "Poll updated successfully!"))
}

// DeletePoll handles DELETE /polls/{id}. Deleting an unknown poll succeeds.
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	if err := h.polls.DeletePoll(r.Context(), r.PathValue("id")); err != nil {
		middleware.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Vote handles POST /polls/{id}/votes
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.polls.VotePoll(r.Context(), r.PathValue("id"), req.OptionID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.pollResponse(p, "Vote recorded!"))
}

// ToggleStatus handles POST /polls/{id}/toggle
func (h *PollHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	p, err := h.polls.ToggleStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	message := "Poll deactivated"
	if p.IsActive {
		message = "Poll activated"
	}
	middleware.JSONResponse(w, http.StatusOK, h.pollResponse(p, message))
}

// SaveTemplate handles POST /polls/{id}/template
func (h *PollHandler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.polls.SaveAsTemplate(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.TemplateResponse{
		Template: tmpl,
		Message:  "Poll saved as template",
	})
}

// CanVote handles GET /polls/{id}/can-vote. Unknown polls answer false.
func (h *PollHandler) CanVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	middleware.JSONResponse(w, http.StatusOK, models.CanVoteResponse{
		PollID:  pollID,
		CanVote: h.polls.UserCanVote(pollID),
	})
}

// GetActivePoll handles GET /active-poll
func (h *PollHandler) GetActivePoll(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.ActivePollResponse{
		Poll: h.polls.ActivePoll(),
	})
}

// SetActivePoll handles PUT /active-poll. An empty poll_id clears the focus.
func (h *PollHandler) SetActivePoll(w http.ResponseWriter, r *http.Request) {
	var req models.SetActivePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.polls.SetActivePoll(req.PollID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ActivePollResponse{
		Poll: h.polls.ActivePoll(),
	})
}
