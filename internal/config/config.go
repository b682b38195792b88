// YAML config loader with CUE validation integration
package config

import (
	"log/slog"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Defaults for the OSC endpoint published by muse-io.
const (
	DefaultHost    = "127.0.0.1"
	DefaultPort    = 12000
	DefaultAddress = "/muse/elements/blink"
)

// Listener describes the UDP endpoint and the OSC address that carries blinks.
type Listener struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Address string `yaml:"address"`
}

// Endpoint returns host:port suitable for net.ListenPacket.
func (l Listener) Endpoint() string {
	return net.JoinHostPort(l.Host, strconv.Itoa(l.Port))
}

// Admin controls the optional local HTTP status surface.
type Admin struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Log configures the slog handler and the optional rotating file sink.
type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Display tunes the terminal front end.
type Display struct {
	AltScreen bool `yaml:"alt_screen"`
	ShowHelp  bool `yaml:"show_help"`
}

// Config is the root configuration. Physics constants are intentionally absent.
type Config struct {
	Listener Listener `yaml:"listener"`
	Admin    Admin    `yaml:"admin"`
	Log      Log      `yaml:"log"`
	Display  Display  `yaml:"display"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Listener: Listener{Host: DefaultHost, Port: DefaultPort, Address: DefaultAddress},
		Admin:    Admin{Addr: "127.0.0.1:8080"},
		Log:      Log{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
		Display:  Display{AltScreen: true, ShowHelp: true},
	}
}

// Load reads a YAML config on top of Default and validates it against a CUE
// schema. An empty configPath returns the defaults; an empty cueSchemaPath
// uses the embedded schema.
func Load(configPath, cueSchemaPath string) (*Config, error) {
	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}

	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	slog.Debug("loaded configuration", "path", configPath, "listener", cfg.Listener.Endpoint(), "admin", cfg.Admin.Enabled)

	return cfg, nil
}
