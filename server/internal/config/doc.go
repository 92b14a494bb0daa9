// Package config loads the shard configuration from the `server:` section of
// a YAML file.
//
// Config fields:
//   - BindAddress     — interface for the HTTP listener (default 0.0.0.0)
//   - HTTPPort        — key-value API port (default 8080)
//   - GRPCPort        — gRPC health listener port; 0 disables it (default 0)
//   - LogLevel        — debug | info | warn | error (default info)
//   - ShutdownTimeout — grace period for in-flight requests (default 10s)
//
// Load(path) applies defaults before unmarshalling, then validates.
// Default() returns the same defaults without reading a file.
// Watch(ctx, path, fn) reloads the file on change via fsnotify.
package config
