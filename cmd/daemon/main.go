package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/mpdsleep/internal/api"
	"github.com/genricoloni/mpdsleep/internal/config"
	"github.com/genricoloni/mpdsleep/internal/discovery"
	"github.com/genricoloni/mpdsleep/internal/domain"
	"github.com/genricoloni/mpdsleep/internal/player"
	"github.com/genricoloni/mpdsleep/internal/sleeptimer"
	"github.com/genricoloni/mpdsleep/internal/stream"
	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// AppOptions is the dependency graph of the daemon. It expects a
// *config.Options to be supplied.
var AppOptions = fx.Options(
	fx.Provide(
		newLogger,
		config.NewAppConfig,
		asDomainConfig,
		newPlayer,
		newHub,
		newFader,
		newCoordinator,
		newSleepTimer,
		newServer,
		newAdvertiser,
	),
	fx.Invoke(registerHooks),
)

func main() {
	opts, err := config.ParseFlags("mpdsleep", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Supply(opts),
		AppOptions,
	)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds a production logger at the configured level, or a
// development logger with --dev
func newLogger(opts *config.Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Dev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	if opts.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(opts.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		cfg.Level = level
	}

	return cfg.Build()
}

func asDomainConfig(cfg *config.AppConfig) domain.Config {
	return cfg
}

func newPlayer(logger *zap.Logger, cfg *config.AppConfig) (domain.PlayerControl, error) {
	return player.New(logger.Named("player"), cfg.GetPlayerOptions())
}

func newHub(logger *zap.Logger) *stream.Hub {
	return stream.NewHub(logger.Named("stream"), stream.Config{})
}

func newFader(logger *zap.Logger, cfg domain.Config, p domain.PlayerControl) *sleeptimer.Fader {
	return sleeptimer.NewFader(logger.Named("fade"), p, cfg.GetFadeFloor(), cfg.GetFadeStep())
}

func newCoordinator(logger *zap.Logger, cfg domain.Config, fader *sleeptimer.Fader, hub *stream.Hub) *sleeptimer.Coordinator {
	return sleeptimer.NewCoordinator(logger.Named("sleeptimer"), fader, hub, cfg.GetInboxSize())
}

func newSleepTimer(c *sleeptimer.Coordinator) domain.SleepTimer {
	return c.Sender()
}

func newServer(logger *zap.Logger, cfg domain.Config, timer domain.SleepTimer, p domain.PlayerControl, hub *stream.Hub) *api.Server {
	return api.NewServer(logger.Named("api"), cfg, timer, p, hub)
}

func newAdvertiser(logger *zap.Logger, cfg *config.AppConfig) *discovery.Advertiser {
	return discovery.NewAdvertiser(logger.Named("discovery"), cfg.GetDiscoveryOptions())
}

// registerHooks sets up application lifecycle hooks. fx runs OnStop hooks
// in reverse order, so the HTTP surface goes away before the coordinator.
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	hub *stream.Hub,
	coordinator *sleeptimer.Coordinator,
	server *api.Server,
	advertiser *discovery.Advertiser,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("mpdsleep daemon starting")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			// stderr/stdout sync errors are expected on some platforms
			_ = logger.Sync()
			return nil
		},
	})
	lc.Append(fx.Hook{OnStart: hub.Start, OnStop: hub.Stop})
	lc.Append(fx.Hook{OnStart: coordinator.Start, OnStop: coordinator.Stop})
	lc.Append(fx.Hook{OnStart: server.Start, OnStop: server.Stop})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return advertiser.Start(ctx, server.Port())
		},
		OnStop: advertiser.Stop,
	})
}
