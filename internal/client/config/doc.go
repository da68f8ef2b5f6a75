// Package config loads runtime configuration for the userdesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the remote users API
//	-d string   path of the local SQLite store
//	-t int      request timeout (seconds)
//	-s int      search fan-out concurrency
//	-r float    outbound requests per second (0 = unlimited)
//	-k string   API key sent as x-api-key
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so "10s" and integer nanoseconds both work:
//
//	{
//	  "base_url": "https://reqres.in/api",
//	  "database_path": "userdesk.db",
//	  "request_timeout": "10s",
//	  "search_concurrency": 4,
//	  "requests_per_second": 5,
//	  "api_key": "reqres-free-v1",
//	  "log_level": "debug"
//	}
//
// Keys absent from the file keep their default value.
package config
