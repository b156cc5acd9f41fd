// SAGE - Secure Agent Guarantee Engine
// Copyright (C) 2025 SAGE-X-project
//
// This file is part of SAGE.
//
// SAGE is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SAGE is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with SAGE. If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoaderOptions configures the configuration loader
type LoaderOptions struct {
	// ConfigDir is the directory containing config files (default: ./config)
	ConfigDir string
	// Environment overrides automatic environment detection
	Environment string
	// SkipEnvSubstitution disables environment variable substitution
	SkipEnvSubstitution bool
	// SkipValidation disables configuration validation
	SkipValidation bool
}

// DefaultLoaderOptions returns default loader options
func DefaultLoaderOptions() LoaderOptions {
	return LoaderOptions{
		ConfigDir:           "config",
		Environment:         "",
		SkipEnvSubstitution: false,
		SkipValidation:      false,
	}
}

// Load loads configuration with automatic environment detection
func Load(opts ...LoaderOptions) (*Config, error) {
	options := DefaultLoaderOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	env := options.Environment
	if env == "" {
		env = GetEnvironment()
	}

	envConfigPath := filepath.Join(options.ConfigDir, fmt.Sprintf("%s.yaml", env))
	cfg, err := loadConfigFile(envConfigPath)
	if err != nil {
		defaultConfigPath := filepath.Join(options.ConfigDir, "default.yaml")
		cfg, err = loadConfigFile(defaultConfigPath)
		if err != nil {
			configPath := filepath.Join(options.ConfigDir, "config.yaml")
			cfg, err = loadConfigFile(configPath)
			if err != nil {
				cfg = &Config{}
			}
		}
	}

	if cfg.Environment == "" {
		cfg.Environment = env
	}

	setDefaults(cfg)

	if !options.SkipEnvSubstitution {
		SubstituteEnvVarsInConfig(cfg)
	}

	applyEnvironmentOverrides(cfg)

	if !options.SkipValidation {
		if issues := ValidateConfiguration(cfg); len(issues) > 0 {
			for _, issue := range issues {
				if issue.Level == "error" {
					return nil, fmt.Errorf("configuration validation failed: %s - %s", issue.Field, issue.Message)
				}
			}
		}
	}

	return cfg, nil
}

// loadConfigFile loads a single config file
func loadConfigFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	return LoadFromFile(path)
}

// applyEnvironmentOverrides overrides config with environment variables. These
// take priority over both file contents and ${VAR} substitution.
func applyEnvironmentOverrides(cfg *Config) {
	if keys := os.Getenv("STATICAGENT_KEYS_PATH"); keys != "" && cfg.Identity != nil {
		cfg.Identity.KeysPath = keys
	}
	if peer := os.Getenv("STATICAGENT_PEER_PATH"); peer != "" && cfg.Peer != nil {
		cfg.Peer.ProfilePath = peer
	}

	if scheme := os.Getenv("STATICAGENT_TRANSPORT_SCHEME"); scheme != "" && cfg.Transport != nil {
		cfg.Transport.Scheme = scheme
	}
	if addr := os.Getenv("STATICAGENT_LISTEN_ADDR"); addr != "" && cfg.Transport != nil {
		cfg.Transport.ListenAddr = addr
	}

	if logLevel := os.Getenv("STATICAGENT_LOG_LEVEL"); logLevel != "" && cfg.Logging != nil {
		cfg.Logging.Level = logLevel
	}
	if logFormat := os.Getenv("STATICAGENT_LOG_FORMAT"); logFormat != "" && cfg.Logging != nil {
		cfg.Logging.Format = logFormat
	}

	if os.Getenv("STATICAGENT_METRICS_ENABLED") == "true" && cfg.Metrics != nil {
		cfg.Metrics.Enabled = true
	}
	if os.Getenv("STATICAGENT_METRICS_ENABLED") == "false" && cfg.Metrics != nil {
		cfg.Metrics.Enabled = false
	}
}

// ValidationIssue describes a single problem found while validating a Config.
// Level is either "error" (fails loading) or "warning" (logged, non-fatal).
type ValidationIssue struct {
	Field   string
	Message string
	Level   string
}

// ValidateConfiguration checks a loaded Config for inconsistencies that would
// otherwise surface later as a connection-time ConfigurationError.
func ValidateConfiguration(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Identity == nil || cfg.Identity.KeysPath == "" {
		issues = append(issues, ValidationIssue{
			Field: "identity.keys_path", Message: "must be set", Level: "error",
		})
	}
	if cfg.Peer == nil || cfg.Peer.ProfilePath == "" {
		issues = append(issues, ValidationIssue{
			Field: "peer.profile_path", Message: "must be set", Level: "error",
		})
	}

	if cfg.Transport != nil {
		switch cfg.Transport.Scheme {
		case "http", "https", "ws", "wss":
		default:
			issues = append(issues, ValidationIssue{
				Field: "transport.scheme", Message: fmt.Sprintf("unknown scheme %q", cfg.Transport.Scheme), Level: "error",
			})
		}
		switch cfg.Transport.ReturnRouteDefault {
		case "none", "thread", "all":
		default:
			issues = append(issues, ValidationIssue{
				Field: "transport.return_route_default", Message: fmt.Sprintf("unknown return_route %q", cfg.Transport.ReturnRouteDefault), Level: "warning",
			})
		}
	}

	return issues
}

// LoadForEnvironment loads configuration for a specific environment
func LoadForEnvironment(environment string) (*Config, error) {
	return Load(LoaderOptions{
		ConfigDir:   "config",
		Environment: environment,
	})
}

// MustLoad loads configuration or panics on error
func MustLoad(opts ...LoaderOptions) *Config {
	cfg, err := Load(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
	return cfg
}
