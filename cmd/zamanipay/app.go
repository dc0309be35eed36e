package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/zamanipay/zamanipay/internal/alert"
	"github.com/zamanipay/zamanipay/internal/api"
	"github.com/zamanipay/zamanipay/internal/biometric"
	"github.com/zamanipay/zamanipay/internal/config"
	"github.com/zamanipay/zamanipay/internal/identity"
	"github.com/zamanipay/zamanipay/internal/infra"
	"github.com/zamanipay/zamanipay/internal/logging"
	"github.com/zamanipay/zamanipay/internal/screen"
)

type globalFlags struct {
	envFile  string
	apiURL   string
	store    string
	stateDir string
	logLevel string
}

// app holds what one command invocation needs.
type app struct {
	cfg    config.Config
	deps   screen.Deps
	out    io.Writer
	logger *slog.Logger
	cache  *redis.Client
}

func newApp(cmd *cobra.Command, g *globalFlags) (*app, error) {
	if err := config.LoadDotEnv(g.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if g.apiURL != "" {
		cfg.APIBaseURL = g.apiURL
	}
	if g.store != "" {
		cfg.IdentityStore = g.store
	}
	if g.stateDir != "" {
		cfg.StateDir = g.stateDir
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewWithWriter(cfg.LogLevel, logging.FormatText, cmd.ErrOrStderr())
	client, err := api.New(cfg.APIBaseURL, api.WithTimeout(cfg.RequestTimeout), api.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, out: cmd.OutOrStdout(), logger: logger}
	store, err := a.openStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	a.deps = screen.Deps{
		Client: client,
		Store:  store,
		Alerts: alert.NewWriterNotifier(a.out),
		Biometrics: &biometric.Console{
			Hardware: cfg.BiometricHardware,
			Enrolled: cfg.BiometricEnrolled,
			In:       cmd.InOrStdin(),
			Out:      a.out,
		},
		Logger:   logger,
		Currency: cfg.CurrencySymbol,
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) (identity.Store, error) {
	switch a.cfg.IdentityStore {
	case config.StoreMemory:
		return identity.NewMemoryStore(), nil
	case config.StoreRedis:
		cache, err := infra.NewRedisClient(ctx, a.cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("open identity store: %w", err)
		}
		a.cache = cache
		return identity.NewRedisStore(cache, ""), nil
	default:
		return identity.NewFileStore(a.cfg.StateDir), nil
	}
}

func (a *app) close() {
	if a.cache == nil {
		return
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("close redis", "error", err)
	}
}

// run builds the app for one command and releases it afterwards.
func run(g *globalFlags, fn func(ctx context.Context, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd, g)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd.Context(), a)
	}
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
