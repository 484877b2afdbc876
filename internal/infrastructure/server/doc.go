// Package server assembles the fsview HTTP server.
//
// NewServer builds the logger from configuration, registers metrics on a
// private Prometheus registry, creates the filesystem service and mounts the
// middleware stack and routes on a gin router. Responses are gzip-compressed
// by klauspost/compress/gzhttp.
package server
