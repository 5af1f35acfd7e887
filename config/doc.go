// Package config handles loading and parsing of configuration from YAML
// files and environment variables. It defines the application configuration
// structure covering the HTTP server, logging, retry policy, circuit
// breaker, last-known-good cache, health thresholds, source priority list,
// database, and poll loop.
package config
