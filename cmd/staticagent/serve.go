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
	"context"
	"fmt"
	"net/http"

	"github.com/sage-x-project/staticagent/internal/logger"
	"github.com/sage-x-project/staticagent/internal/metrics"
	agenthttp "github.com/sage-x-project/staticagent/pkg/agent/transport/http"
	agentws "github.com/sage-x-project/staticagent/pkg/agent/transport/websocket"
	"github.com/spf13/cobra"
)

var serveListenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the inbound listener for a static connection",
	Long: `serve builds a Connection from the loaded config and runs its
inbound side: an HTTP or WebSocket listener (per transport.scheme) that
feeds every received frame to the connection's receive engine, replying
in-band when a handler uses the installed reply channel. Metrics are
exposed alongside on metrics.addr when metrics.enabled is set.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addConfigFlag(serveCmd)

	serveCmd.Flags().StringVar(&serveListenAddr, "listen", "", "listen address (default: transport.listen_addr from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	conn, err := buildConnection(cfg)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	addr := serveListenAddr
	if addr == "" {
		addr = cfg.Transport.ListenAddr
	}

	inbound := func(packed []byte) (reply []byte, err error) {
		var captured []byte
		release := conn.ReplyHandler(func(p []byte) error {
			captured = p
			return nil
		})
		defer release()

		if err := conn.Receive(context.Background(), packed); err != nil {
			logger.Warn("serve: receive failed", logger.Error(err))
			return nil, err
		}
		return captured, nil
	}

	mux := http.NewServeMux()
	switch cfg.Transport.Scheme {
	case "ws", "wss":
		mux.Handle("/", agentws.NewServer(inbound))
	default:
		mux.Handle("/", agenthttp.NewServer(inbound))
	}

	if cfg.Metrics.Enabled {
		go func() {
			logger.Info("serve: metrics listening", logger.String("addr", cfg.Metrics.Addr))
			if err := metrics.StartServer(cfg.Metrics.Addr); err != nil {
				logger.Warn("serve: metrics server stopped", logger.Error(err))
			}
		}()
	}

	logger.Info("serve: listening", logger.String("addr", addr), logger.String("scheme", cfg.Transport.Scheme))
	return http.ListenAndServe(addr, mux)
}
