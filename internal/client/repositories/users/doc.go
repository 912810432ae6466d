// Package users is the persistence layer for locally stored Talk accounts.
//
// # Overview
//
// Repository exposes the point lookups and scans the account service is built
// from. SQLiteRepository implements it over a dbx.DBTX, so the same code runs
// against *sql.DB or inside a transaction (*sql.Tx).
//
// # Data Model
//
// One row per (username, base_url) pair. Two flags drive the account
// lifecycle: is_current marks the active account and scheduled_for_deletion is
// the soft-delete marker set on logout. Optional strings are stored as NULL and
// read back as "".
//
// Lookups return (nil, nil) when no row matches.
package users
