// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/pollboard/handlers"
	"github.com/danielhkuo/pollboard/middleware"
	"github.com/danielhkuo/pollboard/pollstore"
	"github.com/danielhkuo/pollboard/session"
)

// NewRouter registers every endpoint. A nil gatherer leaves /metrics out.
func NewRouter(sessions *session.Manager, polls *pollstore.Store, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(sessions)
	pollHandler := handlers.NewPollHandler(polls)
	templateHandler := handlers.NewTemplateHandler(polls)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Session
	mux.HandleFunc("GET /session", middleware.WithLogging(sessionHandler.GetSession))
	mux.HandleFunc("POST /session/login", middleware.WithLogging(sessionHandler.Login))
	mux.HandleFunc("POST /session/logout", middleware.WithLogging(sessionHandler.Logout))

	// Polls
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("PUT /polls/{id}", middleware.WithLogging(pollHandler.UpdatePoll))
	mux.HandleFunc("DELETE /polls/{id}", middleware.WithLogging(pollHandler.DeletePoll))
	mux.HandleFunc("POST /polls/{id}/votes", middleware.WithLogging(pollHandler.Vote))
	mux.HandleFunc("POST /polls/{id}/toggle", middleware.WithLogging(pollHandler.ToggleStatus))
	mux.HandleFunc("POST /polls/{id}/template", middleware.WithLogging(pollHandler.SaveTemplate))
	mux.HandleFunc("GET /polls/{id}/can-vote", middleware.WithLogging(pollHandler.CanVote))

	// Focused poll
	mux.HandleFunc("GET /active-poll", middleware.WithLogging(pollHandler.GetActivePoll))
	mux.HandleFunc("PUT /active-poll", middleware.WithLogging(pollHandler.SetActivePoll))

	// Templates
	mux.HandleFunc("GET /templates", middleware.WithLogging(templateHandler.ListTemplates))
	mux.HandleFunc("POST /templates/{id}/polls", middleware.WithLogging(templateHandler.CreatePoll))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pollboard API v1"))
	})

	return mux
}
