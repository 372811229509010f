// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/pollboard/middleware"
	"github.com/danielhkuo/pollboard/models"
	"github.com/danielhkuo/pollboard/pollstore"
)

type TemplateHandler struct {
	polls *pollstore.Store
	view  *PollHandler
}

func NewTemplateHandler(polls *pollstore.Store) *TemplateHandler {
	return &TemplateHandler{polls: polls, view: NewPollHandler(polls)}
}

// ListTemplates handles GET /templates
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.TemplateListResponse{
		Templates: h.polls.Templates(),
	})
}

// CreatePoll handles POST /templates/{id}/polls
func (h *TemplateHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	p, err := h.polls.CreateFromTemplate(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, h.view.pollResponse(p, "Poll created successfully!"))
}
