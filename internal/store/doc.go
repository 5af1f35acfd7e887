// Package store persists fetched quotes and per-source health snapshots
// to PostgreSQL. Quotes tagged DOWN are rejected before any pool access.
package store
