// Package poller runs the periodic fetch cycle: it drives the fallback
// chain for each configured key and persists quotes and health snapshots
// through the writer boundary.
package poller
