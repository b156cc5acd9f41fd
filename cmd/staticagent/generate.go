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
	"path/filepath"

	"github.com/mr-tron/base58"
	"github.com/sage-x-project/staticagent/pkg/agent/keys"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// keysFile is the on-disk shape of an identity's key material, loaded by
// every subcommand that needs this agent's own KeyPair.
type keysFile struct {
	VerkeyB58 string `yaml:"verkey_b58"`
	SigkeyB58 string `yaml:"sigkey_b58"`
	DID       string `yaml:"did"`
}

var (
	genOutputPath string
	genForce      bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new Ed25519 identity key pair",
	Long: `Generate a fresh Ed25519 key pair for this agent's own identity and
write it to a YAML profile that "peer show" and the connection commands
can load.`,
	Example: `  # Generate a key pair at the default path
  staticagent generate

  # Generate into a specific file, overwriting if present
  staticagent generate --output ./keys.yaml --force`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genOutputPath, "output", "o", "", "output file (default: identity.keys_path from config)")
	generateCmd.Flags().BoolVarP(&genForce, "force", "f", false, "overwrite an existing file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	path := genOutputPath
	if path == "" {
		path = loadConfig().Identity.KeysPath
	}

	if !genForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("generate: %s already exists (use --force to overwrite)", path)
		}
	}

	kp, err := keys.Generate()
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	kf := keysFile{
		VerkeyB58: kp.VerkeyB58(),
		SigkeyB58: base58.Encode(kp.Sigkey),
		DID:       kp.DID(),
	}

	if err := writeYAMLFile(path, kf); err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	fmt.Printf("Identity written to %s\n", path)
	fmt.Printf("  DID:    %s\n", kf.DID)
	fmt.Printf("  Verkey: %s\n", kf.VerkeyB58)
	return nil
}

func loadKeyPair(path string) (*keys.KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keys file: %w", err)
	}
	var kf keysFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse keys file: %w", err)
	}

	verkey, err := base58.Decode(kf.VerkeyB58)
	if err != nil {
		return nil, fmt.Errorf("decode verkey: %w", err)
	}
	sigkey, err := base58.Decode(kf.SigkeyB58)
	if err != nil {
		return nil, fmt.Errorf("decode sigkey: %w", err)
	}
	return keys.FromBytes(verkey, sigkey)
}

func writeYAMLFile(path string, v interface{}) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
