// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p              Server port (default 3318)
	-t              Store type: memory, sqlite, postgres or redis (default sqlite)
	-d              Store URL (sqlite defaults to file:pollboard.db)
	-login-delay    Simulated login round trip (default 800ms)
	-seed           Seed demo polls when nothing is stored (default true)
	-log-level      debug, info, warn or error (default info)
	-event-brokers  Comma-separated Kafka brokers (events are logged when empty)
	-event-topic    Kafka topic (default poll-events)

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	STORE_TYPE       → -t
	STORE_URL        → -d
	LOGIN_DELAY      → -login-delay
	SEED_DEMO_POLLS  → -seed
	LOG_LEVEL        → -log-level
	EVENT_BROKERS    → -event-brokers
	EVENT_TOPIC      → -event-topic

CLI flags take precedence over environment variables. LoadDotEnv can be
called first to pull variables from a .env file; a missing file is ignored.

# Validation

ParseFlags returns an error when:

  - the port is not a number in 1..65535
  - the store type is unknown
  - postgres or redis is selected without a store URL
  - the login delay or seed flag cannot be parsed
*/
package cliparse
