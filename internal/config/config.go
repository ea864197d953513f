package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/tenderdesk/internal/roles"
)

// Config holds everything the console needs to reach the procurement service.
type Config struct {
	APIURL         string
	Username       string
	Password       string
	RequestTimeout time.Duration
	PollInterval   time.Duration
	LogDir         string
	Identity       Identity
	Path           string
}

// Identity is a preset user used when no password is configured, so the
// console can run against services without a login endpoint.
type Identity struct {
	Username string
	FullName string
	Role     roles.Role
}

// Configured reports whether a usable identity was given.
func (i Identity) Configured() bool {
	return i.Username != "" && i.Role != ""
}

const (
	DefaultConfigPath     = "~/.config/tenderdesk/config.toml"
	defaultLogDir         = "~/.local/share/tenderdesk"
	defaultAPIURL         = "127.0.0.1:8000"
	defaultRequestTimeout = 10 * time.Second
	defaultPollInterval   = 30 * time.Second
	minPollInterval       = 2 * time.Second
)

// Load locates and parses the console config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()
	cfg.Path = resolved

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string `toml:"api_url"`
		Username       string `toml:"username"`
		Password       string `toml:"password"`
		RequestTimeout string `toml:"request_timeout"`
		PollInterval   string `toml:"poll_interval"`
		LogDir         string `toml:"log_dir"`
		Identity       struct {
			Username string `toml:"username"`
			FullName string `toml:"full_name"`
			Role     string `toml:"role"`
		} `toml:"identity"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	cfg.Username = strings.TrimSpace(raw.Username)
	cfg.Password = raw.Password

	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout, defaultRequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval, err = parseDuration("poll_interval", raw.PollInterval, defaultPollInterval); err != nil {
		return Config{}, err
	}
	cfg.PollInterval = ClampPoll(cfg.PollInterval)

	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}

	if name := strings.TrimSpace(raw.Identity.Username); name != "" {
		role, err := roles.Parse(raw.Identity.Role)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: identity: %w", err)
		}
		cfg.Identity = Identity{
			Username: name,
			FullName: strings.TrimSpace(raw.Identity.FullName),
			Role:     role,
		}
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		APIURL:         defaultAPIURL,
		RequestTimeout: defaultRequestTimeout,
		PollInterval:   defaultPollInterval,
		LogDir:         mustExpand(defaultLogDir),
	}
}

// ClampPoll keeps the poll interval above a sane floor.
func ClampPoll(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultPollInterval
	}
	if d < minPollInterval {
		return minPollInterval
	}
	return d
}

// HasCredentials reports whether a login should be attempted.
func (c Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// LogPath returns the console's activity log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/tenderdesk.log")
	}
	return filepath.Join(c.LogDir, "tenderdesk.log")
}

// PrefsPath returns the preferences file next to the config file.
func (c Config) PrefsPath() string {
	dir := filepath.Dir(c.Path)
	if strings.TrimSpace(c.Path) == "" {
		dir = filepath.Dir(mustExpand(DefaultConfigPath))
	}
	return filepath.Join(dir, "prefs.toml")
}

func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", key, err)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(DefaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
