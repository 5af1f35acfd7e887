// Package middleware provides the chi HTTP middleware stack: structured
// request logging, panic recovery, and Prometheus request metrics.
package middleware
