package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shardkv/shard/server/internal/api"
	"github.com/shardkv/shard/server/internal/config"
	"github.com/shardkv/shard/server/internal/healthrpc"
	"github.com/shardkv/shard/server/internal/reqlog"
	"github.com/shardkv/shard/server/internal/store"
	"github.com/shardkv/shard/server/internal/uptime"
)

func main() {
	// Uptime counts from process start, before config and listeners.
	up := uptime.New()

	configPath := flag.String("config", "", "path to config file; empty uses built-in defaults")
	flag.Parse()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("shard starting", "version", api.Version, "config", *configPath)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "err", err)
			os.Exit(1)
		}
	}
	level.Set(cfg.Server.Level())

	slog.Info("config loaded",
		"bind_address", cfg.Server.BindAddress,
		"http_port", cfg.Server.HTTPPort,
		"grpc_port", cfg.Server.GRPCPort,
		"log_level", cfg.Server.LogLevel,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Hot reload applies the log level only; listeners are bound once.
	if *configPath != "" {
		go func() {
			if err := config.Watch(ctx, *configPath, cfg, level, nil); err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	httpLis, err := net.Listen("tcp", cfg.Server.HTTPAddr())
	if err != nil {
		slog.Error("failed to listen on HTTP port", "addr", cfg.Server.HTTPAddr(), "err", err)
		os.Exit(1)
	}

	var grpcLis net.Listener
	if cfg.Server.GRPCPort != 0 {
		grpcLis, err = net.Listen("tcp", cfg.Server.GRPCAddr())
		if err != nil {
			slog.Error("failed to listen on gRPC port", "addr", cfg.Server.GRPCAddr(), "err", err)
			os.Exit(1)
		}
	}

	if err := run(ctx, cfg.Server, up, httpLis, grpcLis, logger); err != nil {
		slog.Error("shard stopped", "err", err)
		os.Exit(1)
	}
}

// run serves the key-value API on httpLis, and the gRPC health service on
// grpcLis when it is non-nil, until ctx is cancelled or a listener fails.
func run(ctx context.Context, cfg config.ServerConfig, up *uptime.Tracker, httpLis, grpcLis net.Listener, logger *slog.Logger) error {
	st := store.New()

	httpSrv := &http.Server{
		Handler:           reqlog.Middleware(logger, api.New(st, up)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", "addr", httpLis.Addr().String())
		if err := httpSrv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	var rpc *healthrpc.Server
	if grpcLis != nil {
		rpc = healthrpc.New(logger)
		go func() {
			logger.Info("gRPC health listening", "addr", grpcLis.Addr().String())
			if err := rpc.Serve(grpcLis); err != nil {
				errc <- err
			}
		}()
	}

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shard shutting down")
	case serveErr = <-errc:
		logger.Error("listener failed", "err", serveErr)
	}

	if rpc != nil {
		rpc.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "err", err)
	}
	return serveErr
}
