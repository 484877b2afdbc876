// Package config provides 12-factor configuration management for fsview.
//
// Configuration is layered: built-in defaults, then an optional YAML or TOML
// file, then environment variables. CLI flags can override the result for
// development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host, trusted role header)
//   - Storage: Managed root directory and scan limits
//   - Visibility: Extensions hidden from non-admin callers
//   - Upload: Per-file size limit and multipart memory
//   - Logging: Log level, output format and optional rotating file
//   - RateLimit: Per-IP rate limiting configuration
//   - CORS: Allowed origins
//
// Example Usage:
//
//	cfg, err := config.LoadWithFile("fsview.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Serving %s on %s:%s\n", cfg.Storage.Root, cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, ROLE_HEADER, DEFAULT_ROLE, SHUTDOWN_TIMEOUT_SECONDS
//   - FSVIEW_CONFIG, FSVIEW_ROOT, FSVIEW_MAX_SCAN_ENTRIES, FSVIEW_ADMIN_ONLY_OPS
//   - FSVIEW_HIDDEN_EXTENSIONS, FSVIEW_UPLOAD_MAX_BYTES, FSVIEW_UPLOAD_MAX_MEMORY
//   - LOG_LEVEL, LOG_DEV, LOG_FILE, LOG_MAX_SIZE_MB, LOG_MAX_BACKUPS, LOG_MAX_AGE_DAYS, LOG_COMPRESS
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED, RATE_LIMIT_GLOBAL
//   - CORS_ALLOW_ORIGINS
package config
