// Package database provides SQLite persistence for Aura Core.
//
// It wraps database/sql with connection lifecycle management, WAL mode
// configuration, health checks, and an embedded-filesystem migration
// runner. Group definitions and member ordering survive restarts through
// this layer; live playback state does not (it is rebuilt from member
// state reports).
//
// Migrations live in the top-level migrations/ directory and are compiled
// into the binary via embed. Each migration runs in its own transaction
// and is recorded in schema_migrations, so a failed migration leaves
// earlier ones committed and can be retried after a fix.
package database
