// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the pollboard API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(sessions, polls, registry)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics - Prometheus exposition (when a gatherer is given)

Session:

	GET  /session        - Current user and loading flag
	POST /session/login  - Sign in by email
	POST /session/logout - Sign out

Polls:

	GET    /polls               - List polls
	POST   /polls               - Create poll (admin)
	GET    /polls/{id}          - Get poll
	PUT    /polls/{id}          - Update poll (admin)
	DELETE /polls/{id}          - Delete poll (admin)
	POST   /polls/{id}/votes    - Vote
	POST   /polls/{id}/toggle   - Activate/deactivate (admin)
	POST   /polls/{id}/template - Save as template (admin)
	GET    /polls/{id}/can-vote - Voting eligibility
	GET    /active-poll         - Focused poll
	PUT    /active-poll         - Change focus

Templates:

	GET  /templates            - List templates
	POST /templates/{id}/polls - Create poll from template (admin)

Every API route is wrapped with middleware.WithLogging. CORS is applied by
the caller around the whole mux.
*/
package router
