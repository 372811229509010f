// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, request, and response types.

# Domain Types

Persisted as JSON blobs (camelCase field names):

  - User: id, email, name, isAdmin
  - Option: id, text, votes
  - Poll: id, question, options, createdAt, createdBy, isActive, voted

Templates reuse the Poll type with zeroed votes and an empty voted list.

Poll helpers never mutate the receiver:

	p.Clone()           // deep copy
	p.TotalVotes()      // sum of option votes
	p.HasVoted(userID)  // membership in voted
	p.OptionIndex(id)   // -1 when absent

# Request Types

Types for parsing incoming JSON:

  - LoginRequest: email, password
  - PollRequest: question, options ([]string)
  - VoteRequest: option_id
  - SetActivePollRequest: poll_id

# Response Types

  - SessionResponse: authenticated, loading, user
  - LoginResponse: user, message
  - PollResponse: poll, can_vote, total_votes, created_ago
  - PollListResponse, TemplateResponse, TemplateListResponse
  - ActivePollResponse, CanVoteResponse, MessageResponse
  - ErrorResponse: error, code, reason, message
*/
package models
