// Package quota implements the per-day analysis quota.
//
// CheckAndIncrement(tier, current) is the pure gate: the "free" tier may run
// 3 analyses per calendar day, every other tier is unlimited. A denied
// decision returns the count unchanged and the caller must neither score nor
// increment.
//
// Gate wraps the same policy around an injected Counter (see package store)
// keyed by (user id, date). Admit reads today's count, checks it and writes
// the new count only when allowed. The read-check-write runs under a per-key
// lock held by the Gate, so one process admits at most the limit per user
// and day. Separate processes sharing a counter are not coordinated.
package quota
