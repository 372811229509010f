// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the static user directory and ID generation.

# User Directory

Exactly two users are known:

	admin@example.com  (admin-1, admin)
	user@example.com   (user-1)

Email lookup is case-insensitive:

	user, ok := auth.LookupEmail("Admin@Example.com")

The directory is a stand-in for real identity: there is no password check.
Anything that needs production authentication must replace it.

Stored sessions are re-resolved by ID so a stale blob cannot grant rights the
directory does not:

	user, ok := auth.LookupID("admin-1")

# ID Generation

Random UUIDv4 strings for polls, options and templates:

	id := auth.GenerateID()
*/
package auth
