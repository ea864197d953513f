package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/tenderdesk/internal/roles"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.RequestTimeout != defaultRequestTimeout || cfg.PollInterval != defaultPollInterval {
		t.Fatalf("durations = %v/%v, want defaults", cfg.RequestTimeout, cfg.PollInterval)
	}

	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if cfg.LogPath() != filepath.Join(wantLogDir, "tenderdesk.log") {
		t.Fatalf("LogPath = %q", cfg.LogPath())
	}
	if cfg.HasCredentials() || cfg.Identity.Configured() {
		t.Fatalf("defaults should carry no credentials or identity")
	}
	if cfg.PrefsPath() != filepath.Join(home, "prefs.toml") {
		t.Fatalf("PrefsPath = %q, want next to config", cfg.PrefsPath())
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_url = "  10.0.0.5:9999  "
username = " vendor "
password = "vendor"
request_timeout = "3s"
poll_interval = "1m"
log_dir = "  ~/.tenderdesk/logs  "

[identity]
username = "vendor"
full_name = "Trusted Vendor"
role = "Vendor"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "10.0.0.5:9999" {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, "10.0.0.5:9999")
	}
	if !cfg.HasCredentials() || cfg.Username != "vendor" {
		t.Fatalf("credentials = %q/%q", cfg.Username, cfg.Password)
	}
	if cfg.RequestTimeout != 3*time.Second || cfg.PollInterval != time.Minute {
		t.Fatalf("durations = %v/%v", cfg.RequestTimeout, cfg.PollInterval)
	}
	if !strings.HasPrefix(cfg.LogDir, home) {
		t.Fatalf("LogDir = %q, want it under HOME %q", cfg.LogDir, home)
	}
	if cfg.Identity.Role != roles.Vendor || cfg.Identity.FullName != "Trusted Vendor" {
		t.Fatalf("Identity = %#v", cfg.Identity)
	}
	if cfg.Path != path {
		t.Fatalf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(writeConfig(t, `
api_url = "   "
log_dir = ""
poll_interval = ""
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("PollInterval = %v, want %v", cfg.PollInterval, defaultPollInterval)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid toml", `api_url = [`, "parse config"},
		{"bad duration", `request_timeout = "soon"`, "request_timeout"},
		{"bad role", "[identity]\nusername = \"x\"\nrole = \"auditor\"", "identity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatalf("Load returned nil error, want %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %q, want it to mention %q", err.Error(), tt.want)
			}
		})
	}

	_, err := Load(writeConfig(t, "[identity]\nusername = \"x\"\nrole = \"auditor\""))
	if !errors.Is(err, roles.ErrUnknownRole) {
		t.Fatalf("Load error = %v, want ErrUnknownRole", err)
	}
}

func TestClampPoll(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{0, defaultPollInterval},
		{-time.Second, defaultPollInterval},
		{time.Millisecond, minPollInterval},
		{5 * time.Second, 5 * time.Second},
	}
	for _, tt := range tests {
		if got := ClampPoll(tt.in); got != tt.want {
			t.Fatalf("ClampPoll(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
