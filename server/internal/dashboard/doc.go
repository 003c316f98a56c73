// Package dashboard computes the per-user home screen: the daily mission
// board, the skill radar derived from the growth index and the Elite
// comparison insight.
//
// Mission completions are persisted through a Tracker (see package store)
// keyed by user and calendar day, so the board resets at local midnight
// without any cleanup job. Mission 3 (check-in) is always complete; the
// analysis pipeline completes mission 1 and the coach chat completes
// mission 2.
package dashboard
