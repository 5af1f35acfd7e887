// Package cache implements the last-known-good store consulted by the
// fallback chain only after every live source has failed or been skipped.
// Get never returns an entry older than the configured max age.
package cache
