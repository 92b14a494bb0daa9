package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultBindAddress     = "0.0.0.0"
	DefaultHTTPPort        = 8080
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds the shard configuration parsed from the `server:` section of
// the config file.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// BindAddress is the interface the HTTP listener binds to (default 0.0.0.0).
	BindAddress string `yaml:"bind_address"`

	// HTTPPort is the port the key-value API listens on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// GRPCPort enables the gRPC health listener when non-zero.
	GRPCPort int `yaml:"grpc_port"`

	// LogLevel is one of: debug | info | warn | error. Applied live on reload.
	LogLevel string `yaml:"log_level"`

	// ShutdownTimeout bounds how long in-flight requests may run after a
	// termination signal.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// HTTPAddr returns the host:port the HTTP listener binds to.
func (s ServerConfig) HTTPAddr() string {
	return net.JoinHostPort(s.BindAddress, fmt.Sprint(s.HTTPPort))
}

// GRPCAddr returns the host:port the gRPC health listener binds to.
func (s ServerConfig) GRPCAddr() string {
	return net.JoinHostPort(s.BindAddress, fmt.Sprint(s.GRPCPort))
}

// Level returns the parsed log level. validate guarantees LogLevel parses.
func (s ServerConfig) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return defaults()
}

// Load reads and parses the config file at path.
// Missing fields are filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			BindAddress:     DefaultBindAddress,
			HTTPPort:        DefaultHTTPPort,
			LogLevel:        DefaultLogLevel,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	s := cfg.Server
	if s.BindAddress == "" {
		return fmt.Errorf("server.bind_address must not be empty")
	}
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", s.HTTPPort)
	}
	if s.GRPCPort < 0 || s.GRPCPort > 65535 {
		return fmt.Errorf("server.grpc_port %d is out of range [0, 65535]", s.GRPCPort)
	}
	if s.GRPCPort != 0 && s.GRPCPort == s.HTTPPort {
		return fmt.Errorf("server.grpc_port %d collides with server.http_port", s.GRPCPort)
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return fmt.Errorf("server.log_level %q unknown: want debug|info|warn|error", s.LogLevel)
	}
	if s.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	return nil
}
