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

	"github.com/spf13/cobra"

	// Import transport scheme providers to register them.
	_ "github.com/sage-x-project/staticagent/pkg/agent/transport/http"
	_ "github.com/sage-x-project/staticagent/pkg/agent/transport/websocket"
)

var rootCmd = &cobra.Command{
	Use:   "staticagent",
	Short: "Static agent connection CLI - identity, peer profiles, and messaging",
	Long: `staticagent provides tools for provisioning and operating a static,
pre-shared agent-to-agent connection: key generation, peer profile
inspection, one-shot sends, and a long-running serve loop.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Commands are registered in their respective files:
	// - generate.go: generateCmd
	// - profile.go: profileCmd
	// - send.go: sendCmd
	// - serve.go: serveCmd
}
