// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the static profile a connection is provisioned with: its own
// key material, the peer it talks to, how it is reached, and the ambient
// logging/metrics/transport knobs.
type Config struct {
	Environment string           `yaml:"environment" json:"environment"`
	Identity    *IdentityConfig  `yaml:"identity" json:"identity"`
	Peer        *PeerConfig      `yaml:"peer" json:"peer"`
	Transport   *TransportConfig `yaml:"transport" json:"transport"`
	Logging     *LoggingConfig   `yaml:"logging" json:"logging"`
	Metrics     *MetricsConfig   `yaml:"metrics" json:"metrics"`
}

// IdentityConfig locates this connection's own key material.
type IdentityConfig struct {
	KeysPath string `yaml:"keys_path" json:"keys_path"`
}

// PeerConfig locates the remote peer's static profile on disk.
type PeerConfig struct {
	ProfilePath string `yaml:"profile_path" json:"profile_path"`
}

// TransportConfig controls how messages are packed and delivered.
type TransportConfig struct {
	Scheme            string        `yaml:"scheme" json:"scheme"` // "http" or "ws"
	ListenAddr        string        `yaml:"listen_addr" json:"listen_addr"`
	DialTimeout       time.Duration `yaml:"dial_timeout" json:"dial_timeout"`
	ReadTimeout       time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout" json:"write_timeout"`
	ReturnRouteDefault string       `yaml:"return_route_default" json:"return_route_default"` // "none", "thread", "all"
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
}

// MetricsConfig represents metrics configuration.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
	Path    string `yaml:"path" json:"path"`
}

// LoadFromFile loads configuration from a YAML (or JSON) file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}

	// Try to parse as YAML first.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		// Try JSON if YAML fails.
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file (tried YAML and JSON): %w", err)
		}
	}

	setDefaults(cfg)

	return cfg, nil
}

// SaveToFile saves configuration to a file, choosing format by extension.
func SaveToFile(cfg *Config, path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setDefaults fills in conventional defaults for unset fields.
func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Identity == nil {
		cfg.Identity = &IdentityConfig{}
	}
	if cfg.Identity.KeysPath == "" {
		cfg.Identity.KeysPath = ".staticagent/keys.yaml"
	}

	if cfg.Peer == nil {
		cfg.Peer = &PeerConfig{}
	}
	if cfg.Peer.ProfilePath == "" {
		cfg.Peer.ProfilePath = ".staticagent/peer.yaml"
	}

	if cfg.Transport == nil {
		cfg.Transport = &TransportConfig{}
	}
	if cfg.Transport.Scheme == "" {
		cfg.Transport.Scheme = "http"
	}
	if cfg.Transport.ListenAddr == "" {
		cfg.Transport.ListenAddr = ":8080"
	}
	if cfg.Transport.DialTimeout == 0 {
		cfg.Transport.DialTimeout = 10 * time.Second
	}
	if cfg.Transport.ReadTimeout == 0 {
		cfg.Transport.ReadTimeout = 30 * time.Second
	}
	if cfg.Transport.WriteTimeout == 0 {
		cfg.Transport.WriteTimeout = 10 * time.Second
	}
	if cfg.Transport.ReturnRouteDefault == "" {
		cfg.Transport.ReturnRouteDefault = "none"
	}

	if cfg.Logging == nil {
		cfg.Logging = &LoggingConfig{}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics == nil {
		cfg.Metrics = &MetricsConfig{}
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
