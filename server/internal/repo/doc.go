// Package repo defines the roster and analysis repository ports and an
// in-memory implementation used for local runs and tests. The hosted
// implementation lives in package notion.
package repo
