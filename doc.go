// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the pollboard API server.

pollboard is a small poll-voting service. Admins create, edit, activate,
template and delete polls; signed-in users vote once per poll. Accounts come
from a fixed directory and state is kept as JSON blobs in a key-value store.

# Starting the Server

With no configuration the server listens on 3318 and stores state in a local
SQLite file:

	go run .

Or with flags:

	go run . -p 8080 -t postgres -d "postgres://..."

# Configuration

  - PORT (-p): Server port (default: 3318)
  - STORE_TYPE (-t): memory, sqlite, postgres or redis (default: sqlite)
  - STORE_URL (-d): DSN or URL; required for postgres and redis
  - LOGIN_DELAY (-login-delay): Simulated login round trip (default: 800ms)
  - SEED_DEMO_POLLS (-seed): Seed two demo polls on first start (default: true)
  - LOG_LEVEL (-log-level): debug, info, warn or error
  - EVENT_BROKERS / EVENT_TOPIC: Publish poll events to Kafka

A .env file in the working directory is read first when present.

# Architecture

  - session: signed-in user, login/logout, restore on start
  - pollstore: polls, votes, templates and the focused poll
  - policy: who may run which poll operation
  - apperr: typed rejections shared by every layer
  - kvstore: blob storage (memory, SQL, Redis)
  - events: change notifications (log or Kafka)
  - metrics: Prometheus counters
  - handlers, router, middleware: HTTP adapter
  - auth: account directory and ID generation
  - cliparse, logging: configuration and log setup

See package documentation for each component.
*/
package main
