// Package config loads runtime configuration for the Talk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config, or the TALK_CONFIG
//     environment variable.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-s string   default server URL
//	-d string   path of the local account database
//	-l string   log level
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-p int      account purge interval (seconds)
//	-r uint     retries of a failed room operation
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "server_url": "https://cloud.example.com",
//	  "database_path": "/home/me/.talk/talk.db",
//	  "log_level": "debug",
//	  "request_timeout": "15s",
//	  "online_check_interval": "10s",
//	  "purge_interval": "1m",
//	  "retries": 1,
//	  "retry_delay": "250ms",
//	  "success_dismiss_delay": "2500ms"
//	}
package config
