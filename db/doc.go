// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes the blob table:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS. The same statement runs on
SQLite (modernc.org/sqlite, driver "sqlite") and PostgreSQL (lib/pq, driver
"postgres").

# Tables

  - kv_blob: one row per stored key (currentUser, polls, templates)

The application never queries inside the blobs; each value is an opaque JSON
document owned by the session or poll store.
*/
package db
