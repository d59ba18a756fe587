package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rcourtman/irconsole/internal/accounts"
	"github.com/rcourtman/irconsole/internal/agentexec"
	"github.com/rcourtman/irconsole/internal/ai/explain"
	"github.com/rcourtman/irconsole/internal/audit"
	"github.com/rcourtman/irconsole/internal/config"
	"github.com/rcourtman/irconsole/internal/console"
	"github.com/rcourtman/irconsole/internal/gateway"
	"github.com/rcourtman/irconsole/internal/gateway/sshexec"
	"github.com/rcourtman/irconsole/internal/logging"
	"github.com/rcourtman/irconsole/internal/ssh/knownhosts"
	"github.com/rcourtman/irconsole/pkg/netutil"
)

const (
	agentPath       = "/agent/ws"
	shutdownTimeout = 5 * time.Second
)

// loadConfig resolves the configuration and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	loader := config.NewLoader()
	loader.SetConfigPath(configPath)
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Init(logging.Config{
		Format:    cfg.Logging.Format,
		Level:     cfg.Logging.Level,
		Component: "irconsole",
		FilePath:  cfg.Logging.File,
	})
	return cfg, nil
}

// consoleRuntime is everything a command needs, wired from the configuration.
type consoleRuntime struct {
	cfg      *config.Config
	app      *console.App
	accounts *accounts.Loader
	gateway  gateway.Gateway
	audit    *audit.Store
	settings *config.SettingsWatcher
	explain  *explain.Explainer
	agents   *agentexec.Server

	group   *errgroup.Group
	cancel  context.CancelFunc
	closers []func() error
}

type runtimeOptions struct {
	renderer  console.Renderer
	serveHTTP bool // agent listener and metrics endpoint
}

func newRuntime(ctx context.Context, cfg *config.Config, opts runtimeOptions) (*consoleRuntime, error) {
	ctx, cancel := context.WithCancel(ctx)
	group, gctx := errgroup.WithContext(ctx)
	rt := &consoleRuntime{
		cfg:      cfg,
		accounts: accounts.NewLoader(accounts.NewFileLister(cfg.ConnectionsPath)),
		group:    group,
		cancel:   cancel,
	}

	store, err := audit.NewStore(audit.StoreConfig{
		DBPath:    cfg.AuditPath,
		Retention: audit.DefaultConfig(cfg.DataDir).Retention,
		MaxOutput: audit.DefaultConfig(cfg.DataDir).MaxOutput,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.audit = store
	rt.closers = append(rt.closers, store.Close)

	settings, err := config.NewSettingsWatcher(cfg.SettingsPath)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("watch settings: %w", err)
	}
	settings.SetReloadCallback(func(*config.SettingsDocument) {
		log.Info().Str("path", cfg.SettingsPath).Msg("AI settings reloaded")
	})
	if err := settings.Start(); err != nil {
		rt.Close()
		return nil, err
	}
	rt.settings = settings
	rt.closers = append(rt.closers, func() error { settings.Stop(); return nil })

	resolver := netutil.NewResolver(cfg.DNSCacheTTL)
	rt.closers = append(rt.closers, func() error { resolver.Stop(); return nil })
	rt.explain = explain.New(settings, explain.WithHTTPClient(resolver.NewHTTPClient()))

	gw, err := rt.buildGateway(gctx, opts.serveHTTP)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.gateway = gw

	if opts.serveHTTP && cfg.MetricsAddr != "" {
		startMetricsServer(gctx, group, cfg.MetricsAddr)
	}

	rt.app = console.NewApp(console.Deps{
		Gateway:   gw,
		Backend:   cfg.Backend,
		Explainer: rt.explain,
		Accounts:  rt.accounts,
		Audit:     store,
		Renderer:  opts.renderer,
	})

	log.Debug().Str("backend", cfg.Backend).Str("dataDir", cfg.DataDir).Msg("Console runtime ready")
	return rt, nil
}

func (rt *consoleRuntime) buildGateway(ctx context.Context, serveHTTP bool) (gateway.Gateway, error) {
	cfg := rt.cfg
	switch cfg.Backend {
	case config.BackendLocal:
		return gateway.NewLocalExecutor(), nil

	case config.BackendAgent:
		tokens, err := agentexec.NewTokens(cfg.Agent.Secret)
		if err != nil {
			return nil, err
		}
		rt.agents = agentexec.NewServer(tokens.Validate)
		rt.closers = append(rt.closers, func() error { rt.agents.Close(); return nil })
		if serveHTTP {
			mux := http.NewServeMux()
			mux.HandleFunc(agentPath, rt.agents.HandleWebSocket)
			serveUntilDone(ctx, rt.group, "agent listener", &http.Server{
				Addr:              cfg.Agent.Listen,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			})
		}
		return rt.agents.Gateway(cfg.Agent.Target), nil

	default:
		conn, ok, err := rt.accounts.Primary(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("no connections configured in %s", cfg.ConnectionsPath)
		}
		hostKeys, err := knownhosts.New(cfg.KnownHostsPath, knownhosts.WithTimeout(cfg.SSH.KeyscanTimeout))
		if err != nil {
			return nil, err
		}
		exec, err := sshexec.New(conn, hostKeys, sshexec.WithDialTimeout(cfg.SSH.DialTimeout))
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, exec.Close)
		return exec, nil
	}
}

// serveUntilDone runs srv in group and shuts it down when ctx ends.
func serveUntilDone(ctx context.Context, group *errgroup.Group, name string, srv *http.Server) {
	group.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msgf("Starting %s", name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn().Err(err).Msgf("Failed to shut down %s cleanly", name)
		}
		return nil
	})
}

// Wait blocks until the background servers stop.
func (rt *consoleRuntime) Wait() error {
	return rt.group.Wait()
}

// Close hides every modal and releases resources in reverse order.
func (rt *consoleRuntime) Close() error {
	if rt.app != nil {
		rt.app.Close()
	}
	rt.cancel()
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	if err := rt.group.Wait(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
