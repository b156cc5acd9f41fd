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
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sage-x-project/staticagent/pkg/agent/connection"
	"github.com/sage-x-project/staticagent/pkg/agent/message"
	"github.com/spf13/cobra"
)

var (
	sendTypeURI     string
	sendBodyJSON    string
	sendAwait       bool
	sendTimeout     time.Duration
	sendAnoncrypt   bool
	sendPlaintext   bool
	sendReturnRoute string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Pack and deliver a single message to the configured peer",
	Long: `Build a Message from --type and --body, pack it for the peer
addressed by the loaded config, and deliver it over the matching
transport. With --await, block for the matching reply instead of
returning as soon as delivery succeeds.`,
	Example: `  staticagent send --type "https://example.org/ping/1.0/ping" --body '{"note":"hi"}'

  staticagent send --type "https://example.org/ping/1.0/ping" --await --timeout 5s`,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	addConfigFlag(sendCmd)

	sendCmd.Flags().StringVar(&sendTypeURI, "type", "", "message @type URI (required)")
	sendCmd.Flags().StringVar(&sendBodyJSON, "body", "{}", "message body as a JSON object, merged alongside @type")
	sendCmd.Flags().BoolVar(&sendAwait, "await", false, "block for the matching reply (send_and_await_reply)")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 30*time.Second, "reply timeout when --await is set")
	sendCmd.Flags().BoolVar(&sendAnoncrypt, "anoncrypt", false, "pack anoncrypt instead of authcrypt")
	sendCmd.Flags().BoolVar(&sendPlaintext, "plaintext", false, "pack as plaintext, no encryption")
	sendCmd.Flags().StringVar(&sendReturnRoute, "return-route", "", `return route hint ("none", "thread", "all")`)
	_ = sendCmd.MarkFlagRequired("type")
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	conn, err := buildConnection(cfg)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}

	msg, err := buildMessage(sendTypeURI, sendBodyJSON)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}

	ctx := context.Background()

	if sendAwait {
		reply, err := conn.RequestWithOptions(ctx, msg, connection.RequestOptions{
			ReturnRoute: firstNonEmpty(sendReturnRoute, "all"),
			Anoncrypt:   sendAnoncrypt,
			Plaintext:   sendPlaintext,
			Timeout:     sendTimeout,
		})
		if err != nil {
			return fmt.Errorf("send: %w", err)
		}
		return printMessage(reply)
	}

	err = conn.SendWithOptions(ctx, msg, connection.SendOptions{
		ReturnRoute: sendReturnRoute,
		Anoncrypt:   sendAnoncrypt,
		Plaintext:   sendPlaintext,
	})
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	fmt.Println("Message delivered.")
	return nil
}

func buildMessage(typeURI, bodyJSON string) (message.Message, error) {
	var body map[string]interface{}
	if err := json.Unmarshal([]byte(bodyJSON), &body); err != nil {
		return nil, fmt.Errorf("parse --body as JSON: %w", err)
	}

	msg := message.FromMap(body)
	msg["@type"] = typeURI
	if msg.ID() == "" {
		msg.SetID(uuid.NewString())
	}
	return msg, nil
}

func printMessage(msg message.Message) error {
	out, err := json.MarshalIndent(map[string]interface{}(msg), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reply: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
