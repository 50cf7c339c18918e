// Package config loads runtime configuration for the blogsync CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the blog API
//	-t int      request timeout (seconds)
//	-d string   path of the local SQLite database holding the session
//	-l string   log file (rotated); empty logs to stderr
//	-v string   log level: debug, info, warn or error
//	-m string   listen address for /metrics; empty disables it
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds. Keys that are absent keep their previous value:
//
//	{
//	  "api_base_url": "http://localhost:8080/api/v1",
//	  "request_timeout": "10s",
//	  "db_path": "blogsync.db",
//	  "log_file": "blogsync.log",
//	  "log_level": "info",
//	  "metrics_addr": "127.0.0.1:9100",
//	  "retry_max_attempts": 3,
//	  "retry_base_delay": "1s",
//	  "retry_max_delay": "30s",
//	  "recent_count": 4
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
