// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the pollboard API.

# Handler Types

Each handler is a struct wrapping the component it exposes:

  - SessionHandler: login, logout and the current session
  - PollHandler: poll lifecycle, voting and the focused poll
  - TemplateHandler: saved templates and polls created from them

	sessionHandler := handlers.NewSessionHandler(sessions)
	pollHandler := handlers.NewPollHandler(polls)

The process holds a single session, so every client sees the same signed-in
user. Authorization is enforced by the poll store, not by the handlers.

# Session

	GET  /session         → GetSession
	POST /session/login   → Login (simulated round trip, then signs in)
	POST /session/logout  → Logout

# Polls

	GET    /polls                → ListPolls
	POST   /polls                → CreatePoll (admin)
	GET    /polls/{id}           → GetPoll
	PUT    /polls/{id}           → UpdatePoll (admin, votes follow option texts)
	DELETE /polls/{id}           → DeletePoll (admin, 204 even when absent)
	POST   /polls/{id}/votes     → Vote (signed in, once per poll)
	POST   /polls/{id}/toggle    → ToggleStatus (admin)
	POST   /polls/{id}/template  → SaveTemplate (admin)
	GET    /polls/{id}/can-vote  → CanVote
	GET    /active-poll          → GetActivePoll
	PUT    /active-poll          → SetActivePoll

Poll responses carry can_vote for the signed-in user, total_votes and a
humanized created_ago.

# Templates

	GET  /templates             → ListTemplates
	POST /templates/{id}/polls  → CreatePoll (admin)

# Errors

Rejections are written with middleware.WriteError, which keeps the error
code and reason so clients can tell "log in first" from "admins only".
*/
package handlers
