package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Reload describes one accepted change to the config file.
type Reload struct {
	// Config is the newly loaded configuration.
	Config *Config

	// LevelChanged is set when the log level differs from the active one.
	LevelChanged bool

	// RestartRequired is set when bind_address, http_port or grpc_port differ
	// from the values the listeners were bound with. Those are not applied.
	RestartRequired bool
}

// apply compares next against the active and bound settings, sets level when
// the log level changed and returns what happened.
func apply(active, bound ServerConfig, next *Config, level *slog.LevelVar) Reload {
	rl := Reload{Config: next}
	if next.Server.Level() != active.Level() {
		rl.LevelChanged = true
	}
	if level != nil {
		level.Set(next.Server.Level())
	}
	n := next.Server
	if n.BindAddress != bound.BindAddress || n.HTTPPort != bound.HTTPPort || n.GRPCPort != bound.GRPCPort {
		rl.RestartRequired = true
	}
	return rl
}

// Watch monitors path and applies each successfully loaded revision on top of
// initial, the configuration the shard started with. The log level is set on
// level live; listener changes are reported but need a restart. onChange, if
// non-nil, is called with every accepted Reload. Watch runs until ctx is
// cancelled.
//
// If a reload fails (e.g., invalid YAML), the error is logged and the
// previous config remains active; onChange is not called.
func Watch(ctx context.Context, path string, initial *Config, level *slog.LevelVar, onChange func(Reload)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	bound := initial.Server
	active := initial.Server

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often save via rename, so Create counts as a change too.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload failed, keeping previous config",
					"path", path, "err", err)
				continue
			}

			rl := apply(active, bound, cfg, level)
			active = cfg.Server
			if rl.LevelChanged {
				slog.Info("config: log level updated", "log_level", cfg.Server.LogLevel)
			}
			if rl.RestartRequired {
				slog.Warn("config: listener settings changed, restart to apply",
					"http_addr", cfg.Server.HTTPAddr(), "grpc_port", cfg.Server.GRPCPort)
			}
			if onChange != nil {
				onChange(rl)
			}

			// Re-add the file in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
