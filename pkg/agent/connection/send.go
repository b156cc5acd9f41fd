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

package connection

import (
	"context"
	"fmt"
	"time"

	"github.com/sage-x-project/staticagent/internal/logger"
	"github.com/sage-x-project/staticagent/internal/metrics"
	"github.com/sage-x-project/staticagent/pkg/agent/codec"
	"github.com/sage-x-project/staticagent/pkg/agent/message"
)

// SendOptions controls one Send call: which return-route hint to request
// and which codec mode to pack under. The zero value sends authcrypt with
// no return-route hint.
type SendOptions struct {
	ReturnRoute string
	Anoncrypt   bool
	Plaintext   bool
}

func returnRouteRequested(rr string) bool {
	return rr != "" && rr != "none"
}

// Send packs and delivers msg with default options (authcrypt, no
// return-route hint). It satisfies dispatcher.Replier.
func (c *Connection) Send(ctx context.Context, msg message.Message) error {
	return c.SendWithOptions(ctx, msg, SendOptions{})
}

// SendWithOptions is the full send engine (C7): it decides the delivery
// route (an installed reply channel takes priority over the outbound
// transport), injects ~transport.return_route when appropriate, packs, and
// delivers a single attempt.
func (c *Connection) SendWithOptions(ctx context.Context, msg message.Message, opts SendOptions) error {
	if opts.Anoncrypt && opts.Plaintext {
		return &ConfigurationError{Reason: "plaintext and anoncrypt are mutually exclusive"}
	}

	c.mu.Lock()
	replyFn := c.replyFn
	endpoint := c.peer.Endpoint
	recipientVKs := c.peer.RecipientKeys()
	routingKeys := c.peer.RoutingKeys
	hasRouting := c.peer.HasRoutingKeys()
	c.mu.Unlock()

	requested := returnRouteRequested(opts.ReturnRoute)

	if replyFn == nil && endpoint == "" && !requested {
		return &DeliveryError{Reason: "no endpoint and no return route"}
	}

	// Only the outbound transport will ever see a synchronous response
	// frame; an installed reply channel implies the reverse direction is
	// already available, so the hint is only injected in the transport path.
	if requested && replyFn == nil {
		msg.SetReturnRoute(opts.ReturnRoute)
	}

	codecOpts := codec.Opts{Anoncrypt: opts.Anoncrypt, Plaintext: opts.Plaintext}
	packed, err := codec.Pack(msg, c.own, recipientVKs, codecOpts)
	if err != nil {
		return fmt.Errorf("connection: pack message: %w", err)
	}

	if hasRouting && len(recipientVKs) > 0 {
		packed, err = codec.WrapForward(packed, recipientVKs[0], routingKeys)
		if err != nil {
			return fmt.Errorf("connection: wrap forward chain: %w", err)
		}
	}

	start := time.Now()
	defer func() { metrics.SendDuration.Observe(time.Since(start).Seconds()) }()

	if replyFn != nil {
		if err := replyFn(packed); err != nil {
			metrics.MessagesSent.WithLabelValues("delivery_error").Inc()
			return fmt.Errorf("connection: reply channel send: %w", err)
		}
		metrics.MessagesSent.WithLabelValues("ok").Inc()
		return nil
	}

	var deliveryErr error
	onResponse := func(data []byte) {
		if !requested {
			deliveryErr = &UnexpectedResponseError{Reason: "peer responded but no return route was requested"}
			return
		}
		if hErr := c.Receive(ctx, data); hErr != nil {
			logger.Warn("connection: in-band reply handling failed", logger.Error(hErr))
			deliveryErr = hErr
		}
	}
	onError := func(msg string) {
		deliveryErr = &DeliveryError{Reason: msg}
	}

	if err := c.transport.Send(ctx, packed, endpoint, onResponse, onError); err != nil {
		metrics.MessagesSent.WithLabelValues("delivery_error").Inc()
		return fmt.Errorf("connection: transport send: %w", err)
	}
	if deliveryErr != nil {
		metrics.MessagesSent.WithLabelValues("delivery_error").Inc()
	} else {
		metrics.MessagesSent.WithLabelValues("ok").Inc()
	}
	return deliveryErr
}
