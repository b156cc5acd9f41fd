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

	"github.com/mr-tron/base58"
	"github.com/sage-x-project/staticagent/pkg/agent/peer"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "peer",
	Short: "Inspect or provision a peer's static addressing profile",
}

var (
	peerInitEndpoint    string
	peerInitTheirVK     string
	peerInitRecipients  []string
	peerInitRoutingKeys []string
	peerInitOutput      string
)

var peerInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a peer profile YAML file from explicit key material",
	Long: `Write a peer profile describing how to reach and encrypt for a
remote agent: its endpoint plus either a single verkey or a recipient list,
and an optional mediator routing-key chain.`,
	Example: `  staticagent peer init --endpoint https://peer.example/inbox \
    --their-vk 7nYZ... --output peer.yaml`,
	RunE: runPeerInit,
}

var peerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print this identity's own shareable addressing information",
	Long: `Print the verkey and DID this agent's own identity would hand to a
peer so it can be embedded in that peer's "their_vk_b58" field.`,
	RunE: runPeerShow,
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(peerInitCmd)
	profileCmd.AddCommand(peerShowCmd)

	peerInitCmd.Flags().StringVar(&peerInitEndpoint, "endpoint", "", "peer's transport endpoint URL")
	peerInitCmd.Flags().StringVar(&peerInitTheirVK, "their-vk", "", "peer's base58 verkey (mutually exclusive with --recipient)")
	peerInitCmd.Flags().StringSliceVar(&peerInitRecipients, "recipient", nil, "base58 recipient verkey (repeatable; mutually exclusive with --their-vk)")
	peerInitCmd.Flags().StringSliceVar(&peerInitRoutingKeys, "routing-key", nil, "base58 mediator routing key, innermost hop (closest to the peer) first (repeatable)")
	peerInitCmd.Flags().StringVarP(&peerInitOutput, "output", "o", "", "output file (default: peer.profile_path from config)")

	addConfigFlag(peerShowCmd)
}

func runPeerInit(cmd *cobra.Command, args []string) error {
	path := peerInitOutput
	if path == "" {
		path = loadConfig().Peer.ProfilePath
	}

	// Validate the combination up front via peer.New before ever touching
	// disk, rather than writing an address that would fail to load later.
	if err := validatePeerInitKeys(); err != nil {
		return fmt.Errorf("peer init: %w", err)
	}

	pf := peerFile{
		Endpoint:       peerInitEndpoint,
		TheirVKB58:     peerInitTheirVK,
		RecipientsB58:  peerInitRecipients,
		RoutingKeysB58: peerInitRoutingKeys,
	}
	if err := writeYAMLFile(path, pf); err != nil {
		return fmt.Errorf("peer init: %w", err)
	}

	fmt.Printf("Peer profile written to %s\n", path)
	return nil
}

// validatePeerInitKeys checks the flag combination against peer.New's
// mutual-exclusion rule without writing anything to disk.
func validatePeerInitKeys() error {
	theirVK, err := decodeB58KeyOrEmpty(peerInitTheirVK)
	if err != nil {
		return fmt.Errorf("decode their-vk: %w", err)
	}
	recipients, err := decodeB58Keys(peerInitRecipients)
	if err != nil {
		return fmt.Errorf("decode recipients: %w", err)
	}
	routingKeys, err := decodeB58Keys(peerInitRoutingKeys)
	if err != nil {
		return fmt.Errorf("decode routing-keys: %w", err)
	}
	_, err = peer.New(peerInitEndpoint, theirVK, recipients, routingKeys)
	return err
}

func decodeB58KeyOrEmpty(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return base58.Decode(s)
}

func runPeerShow(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	own, err := loadKeyPair(cfg.Identity.KeysPath)
	if err != nil {
		return fmt.Errorf("peer show: %w", err)
	}

	fmt.Printf("DID:    %s\n", own.DID())
	fmt.Printf("Verkey: %s\n", own.VerkeyB58())
	return nil
}
