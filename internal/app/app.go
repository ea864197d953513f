package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/five82/tenderdesk/internal/config"
	"github.com/five82/tenderdesk/internal/gateway"
	"github.com/five82/tenderdesk/internal/prefs"
	"github.com/five82/tenderdesk/internal/roles"
	"github.com/five82/tenderdesk/internal/state"
	"github.com/five82/tenderdesk/internal/ui"
	"github.com/five82/tenderdesk/internal/views"
)

// ErrNotPermitted is returned when the signed-in role may not perform a
// command.
var ErrNotPermitted = errors.New("not permitted")

// ErrNoIdentity is returned when neither credentials nor an [identity] table
// are configured.
var ErrNoIdentity = errors.New("no credentials or identity configured")

// Options configure the console.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses the prefs.toml next to the config file
	APIURL     string        // overrides api_url
	PollEvery  time.Duration // zero uses poll_interval
	Debug      bool
}

// Session is the signed-in user.
type Session struct {
	User gateway.User
	Role roles.Role
}

// Env is everything built from config before the UI or a subcommand runs.
type Env struct {
	Config  config.Config
	Logger  *slog.Logger
	Client  *gateway.Client
	Session Session
	close   func() error
}

// Close releases the log file.
func (e *Env) Close() error {
	if e == nil || e.close == nil {
		return nil
	}
	return e.close()
}

// Setup loads config, opens the activity log, builds the client and signs in.
func Setup(ctx context.Context, opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = config.ClampPoll(opts.PollEvery)
	}

	logger, closeLog, err := OpenLogger(cfg.LogPath(), opts.Debug)
	if err != nil {
		return nil, err
	}

	client, err := gateway.NewClient(cfg.APIURL,
		gateway.WithTimeout(cfg.RequestTimeout),
		gateway.WithLogger(logger),
	)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init gateway client: %w", err)
	}

	session, err := signIn(ctx, client, cfg)
	if err != nil {
		logger.Error("sign in failed", "api_url", client.BaseURL(), "error", err)
		_ = closeLog()
		return nil, err
	}
	logger.Info("signed in", "user", session.User.Username, "role", session.Role, "api_url", client.BaseURL())

	return &Env{Config: cfg, Logger: logger, Client: client, Session: session, close: closeLog}, nil
}

// signIn logs in with configured credentials, or falls back to the preset
// identity when no password is set.
func signIn(ctx context.Context, svc gateway.Service, cfg config.Config) (Session, error) {
	if cfg.HasCredentials() {
		user, err := svc.Login(ctx, gateway.Credentials{Username: cfg.Username, Password: cfg.Password})
		if err != nil {
			if gateway.IsUnauthorized(err) {
				return Session{}, fmt.Errorf("login as %q: invalid credentials", cfg.Username)
			}
			return Session{}, fmt.Errorf("login as %q: %w", cfg.Username, err)
		}
		role, err := roles.Parse(user.Role)
		if err != nil {
			return Session{}, fmt.Errorf("login as %q: %w", cfg.Username, err)
		}
		return Session{User: user, Role: role}, nil
	}
	if cfg.Identity.Configured() {
		return Session{
			User: gateway.User{
				Username: cfg.Identity.Username,
				FullName: cfg.Identity.FullName,
				Role:     string(cfg.Identity.Role),
			},
			Role: cfg.Identity.Role,
		}, nil
	}
	return Session{}, fmt.Errorf("%w: set username/password or [identity] in %s", ErrNoIdentity, cfg.Path)
}

// Run boots the console until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	env, err := Setup(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = env.Config.PrefsPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		env.Logger.Warn("prefs unreadable, using defaults", "path", prefsPath, "error", err)
	}

	store := &state.Store{}
	loader := views.NewLoader(env.Client)

	pollCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	StartPoller(pollCtx, store, loader, env.Config.PollInterval, env.Logger)

	return ui.Run(ui.Options{
		Context:   ctx,
		Service:   env.Client,
		Loader:    loader,
		Store:     store,
		User:      env.Session.User,
		Role:      env.Session.Role,
		LogPath:   env.Config.LogPath(),
		APIURL:    env.Client.BaseURL(),
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		Logger:    env.Logger,
	})
}

// Dashboard signs in and returns the caller's dashboard tiles, for the
// non-interactive dashboard command.
func Dashboard(ctx context.Context, opts Options) (Session, []views.Tile, error) {
	env, err := Setup(ctx, opts)
	if err != nil {
		return Session{}, nil, err
	}
	defer func() { _ = env.Close() }()

	data, err := views.NewLoader(env.Client).Dashboard(ctx)
	if err != nil {
		return env.Session, nil, err
	}
	return env.Session, views.DashboardTiles(env.Session.Role, data.Counts), nil
}

// AddItem signs in and adds item to the catalogue.
func AddItem(ctx context.Context, opts Options, item gateway.Item) (Session, gateway.Item, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return Session{}, gateway.Item{}, errors.New("item name is required")
	}
	if item.Rate < 0 {
		return Session{}, gateway.Item{}, fmt.Errorf("item rate %v is negative", item.Rate)
	}

	env, err := Setup(ctx, opts)
	if err != nil {
		return Session{}, gateway.Item{}, err
	}
	defer func() { _ = env.Close() }()

	if !env.Session.Role.CanAddItem() {
		return env.Session, gateway.Item{}, fmt.Errorf("%w: %s users cannot add catalogue items", ErrNotPermitted, env.Session.Role.Title())
	}
	created, err := env.Client.CreateItem(ctx, item)
	if err != nil {
		env.Logger.Error("create item failed", "name", item.Name, "error", err)
		return env.Session, gateway.Item{}, fmt.Errorf("create item %q: %w", item.Name, err)
	}
	env.Logger.Info("item created", "id", created.ID, "name", created.Name, "user", env.Session.User.Username)
	return env.Session, created, nil
}
