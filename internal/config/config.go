package config

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"time"
)

var Config Configuration

type Configuration struct {
	LogLevel int `json:"logLevel"`

	// Server
	Address            string `json:"address"`
	TickMs             int    `json:"tickMs"`
	ReadTimeoutMs      int    `json:"readTimeoutMs"`
	WriteTimeoutMs     int    `json:"writeTimeoutMs"`
	HandshakeTimeoutMs int    `json:"handshakeTimeoutMs"`

	// Client
	Name    string `json:"name"`
	LogFile string `json:"logFile"`
}

func Default() Configuration {
	return Configuration{
		LogLevel:           int(slog.LevelInfo),
		Address:            "127.0.0.1:9090",
		TickMs:             35,
		ReadTimeoutMs:      25,
		WriteTimeoutMs:     250,
		HandshakeTimeoutMs: 30000,
		Name:               "Default Name",
		LogFile:            "client.log",
	}
}

func (c Configuration) Tick() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

func (c Configuration) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMs) * time.Millisecond
}

func (c Configuration) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMs) * time.Millisecond
}

func (c Configuration) HandshakeTimeout() time.Duration {
	return time.Duration(c.HandshakeTimeoutMs) * time.Millisecond
}

// LoadConfig reads the JSON file at path, or config.json when path is empty,
// into Config. Fields missing from the file keep their defaults and a missing
// file yields the defaults. Non-positive timings fall back to the defaults as
// well.
func LoadConfig(path string) {
	var c = Default()

	if path == "" {
		path = "config.json"
	}
	cf, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Info("no config file found, using default config", slog.String("path", path))
	case err != nil:
		slog.Info("failed to open config at path provided, using default config instead", slog.Any("error", err))
	default:
		if err := json.Unmarshal(cf, &c); err != nil {
			slog.Info("failed to read configuration, using default config instead...", slog.Any("error", err))
			c = Default()
		}
	}

	c.sanitize()
	Config = c
}

func (c *Configuration) sanitize() {
	d := Default()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.TickMs <= 0 {
		c.TickMs = d.TickMs
	}
	if c.ReadTimeoutMs <= 0 {
		c.ReadTimeoutMs = d.ReadTimeoutMs
	}
	if c.WriteTimeoutMs <= 0 {
		c.WriteTimeoutMs = d.WriteTimeoutMs
	}
	if c.HandshakeTimeoutMs < 0 {
		c.HandshakeTimeoutMs = d.HandshakeTimeoutMs
	}
	if c.Name == "" {
		c.Name = d.Name
	}
}
