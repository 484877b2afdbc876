// Package main is the entry point for the fsview file server.
//
// fsview exposes one managed directory tree over a JSON API. Callers act as
// admin or user; users never see dot names or entries with blocked
// extensions.
//
// Configuration (later sources win):
//   - Defaults
//   - YAML or TOML file (-config or FSVIEW_CONFIG)
//   - Environment variables (12-factor)
//   - CLI flags
//
// Usage:
//
//	# Production mode
//	./server -root /srv/share -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
