// Package store holds the per-user, per-day state the server owns itself:
// analysis usage counters and daily mission completions. Users and saved
// analyses live in the hosted database (see package notion), not here.
//
// Every record is keyed by Key{UserID, Date}. Date is a calendar day
// formatted 2006-01-02 in the server's configured time zone, so a new day
// simply starts a new key; nothing is ever reset in place.
//
// Two backends share the same method set:
//   - Memory: thread-safe map with an injectable clock; Run(ctx) prunes keys
//     older than the retention window.
//   - SQLite: pure-Go SQLite (modernc.org/sqlite) with upsert writes;
//     Run(ctx) prunes on the same schedule.
//
// Pruning never touches today's key.
package store
