// Package app wires configuration, the gateway client, the dashboard poller
// and the Bubble Tea console together.
//
// Setup signs the user in, either against /login/ with the configured
// credentials or from the preset [identity] table, and opens the activity
// log the console tails. Run then starts a background poller that keeps the
// dashboard counters fresh, backing off while the API is unreachable.
package app
