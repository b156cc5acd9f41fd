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

package main

import (
	"fmt"
	"os"

	"github.com/mr-tron/base58"
	"github.com/sage-x-project/staticagent/config"
	"github.com/sage-x-project/staticagent/pkg/agent/connection"
	"github.com/sage-x-project/staticagent/pkg/agent/dispatcher"
	"github.com/sage-x-project/staticagent/pkg/agent/peer"
	"github.com/sage-x-project/staticagent/pkg/agent/transport"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configPath is the --config flag shared by every subcommand that needs a
// Config; left empty it falls back to config.Load's environment-detection
// search.
var configPath string

func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a config file (default: environment-detected)")
}

// loadConfig loads a Config from configPath if set, otherwise via the
// default environment-detected search, falling back to bare defaults if
// neither a file nor an environment override is found.
func loadConfig() *config.Config {
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err == nil {
			return cfg
		}
		fmt.Fprintf(os.Stderr, "warning: %v; using defaults\n", err)
	}

	cfg, err := config.Load(config.LoaderOptions{SkipValidation: true})
	if err != nil {
		cfg = &config.Config{}
	}
	return cfg
}

// peerFile is the on-disk shape of a peer's static addressing profile.
type peerFile struct {
	Endpoint       string   `yaml:"endpoint"`
	TheirVKB58     string   `yaml:"their_vk_b58,omitempty"`
	RecipientsB58  []string `yaml:"recipients_b58,omitempty"`
	RoutingKeysB58 []string `yaml:"routing_keys_b58,omitempty"`
}

func decodeB58Keys(in []string) ([][]byte, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([][]byte, len(in))
	for i, s := range in {
		b, err := base58.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("decode key %d: %w", i, err)
		}
		out[i] = b
	}
	return out, nil
}

func loadPeerAddress(path string) (*peer.Address, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read peer profile: %w", err)
	}
	var pf peerFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse peer profile: %w", err)
	}

	var theirVK []byte
	if pf.TheirVKB58 != "" {
		theirVK, err = base58.Decode(pf.TheirVKB58)
		if err != nil {
			return nil, fmt.Errorf("decode their_vk: %w", err)
		}
	}
	recipients, err := decodeB58Keys(pf.RecipientsB58)
	if err != nil {
		return nil, fmt.Errorf("decode recipients: %w", err)
	}
	routingKeys, err := decodeB58Keys(pf.RoutingKeysB58)
	if err != nil {
		return nil, fmt.Errorf("decode routing_keys: %w", err)
	}

	return peer.New(pf.Endpoint, theirVK, recipients, routingKeys)
}

// buildConnection assembles a Connection from a loaded Config: own identity
// and peer profile from disk, transport resolved from the peer's endpoint
// scheme (falling back to cfg.Transport.Scheme when the peer has no
// endpoint of its own, as with a reply-only or mediator-routed peer).
func buildConnection(cfg *config.Config) (*connection.Connection, error) {
	own, err := loadKeyPair(cfg.Identity.KeysPath)
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	peerAddr, err := loadPeerAddress(cfg.Peer.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("load peer profile: %w", err)
	}

	endpoint := peerAddr.Endpoint
	if endpoint == "" {
		endpoint = cfg.Transport.Scheme + "://unused/"
	}
	tr, err := transport.SelectByURL(endpoint)
	if err != nil {
		return nil, fmt.Errorf("select transport: %w", err)
	}

	disp := dispatcher.New()
	return connection.New(own, peerAddr, tr, disp), nil
}
