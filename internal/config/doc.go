// Package config loads the tenderdesk configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/tenderdesk/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// # Default Values
//
//   - API endpoint: 127.0.0.1:8000
//   - Request timeout: 10s
//   - Poll interval: 30s (never below 2s)
//   - Log directory: ~/.local/share/tenderdesk
//   - Activity log: <log_dir>/tenderdesk.log
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:8000"
//	username = "finance"
//	password = "finance"
//	request_timeout = "10s"
//	poll_interval = "30s"
//	log_dir = "~/.local/share/tenderdesk"
//
//	[identity]
//	username = "finance"
//	full_name = "Finance Head"
//	role = "finance"
//
// With username and password set the console logs in and takes its role
// from the service. Without a password the [identity] table supplies the
// role directly. Tilde expansion is performed for log_dir and the config
// path itself.
//
// # Error Handling
//
// Missing config files are not an error. Malformed TOML, unparsable
// durations and unknown identity roles are reported with a "parse config"
// prefix.
package config
