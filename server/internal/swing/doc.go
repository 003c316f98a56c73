// Package swing derives a deterministic swing analysis from the metadata of an
// uploaded video. No video content is ever read.
//
// The pipeline is three pure steps:
//
//	ArtifactDescriptor --NewSeed--> Seed --DeriveMetrics--> Metrics --Score--> Result
//
// seed.go folds name + size + MIME type into a 32-bit seed with wrapping
// int32 arithmetic (hash*31 + UTF-16 code unit), so the value matches the
// browser client for any file name, including non-ASCII ones.
//
// metrics.go maps the seed onto the four swing metrics: address angle [35,59],
// balance [40,99] before the file-name keyword override, and two weighted
// category tables for swing path (20% In-Out, 40% Out-In, 40% Neutral) and
// impact timing (50% Good, 25% Early, 25% Late).
//
// score.go applies the ordered rule table (address, balance, path/timing)
// starting from 50 and clamps to [0,100]. Comment clauses come from a
// per-language catalog in comments.go; deltas and thresholds never vary by
// language.
//
// Invalid input (negative size, out-of-range caller-supplied metrics, unknown
// enum strings) fails with ErrInvalidInput.
package swing
