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

	"github.com/sage-x-project/staticagent/internal/metrics"
	"github.com/sage-x-project/staticagent/pkg/agent/codec"
)

// Receive is the receive engine (C8): unpack the inbound frame, clear a
// stale reply channel when the message does not opt into a return route,
// then either enqueue it (hold predicate matched) or dispatch it.
func (c *Connection) Receive(ctx context.Context, data []byte) error {
	msg, mtc, err := codec.Unpack(data, c.own)
	if err != nil {
		return fmt.Errorf("connection: unpack inbound frame: %w", err)
	}
	msg.SetMTC(mtc)
	metrics.MessagesUnpacked.WithLabelValues(mtc.Kind.String()).Inc()

	rr, present := msg.ReturnRoute()
	if !present || rr == "" || rr == "none" {
		c.mu.Lock()
		c.replyFn = nil
		c.mu.Unlock()
	}

	c.mu.Lock()
	predicate := c.holdPredicate
	c.mu.Unlock()

	if predicate(msg) {
		c.queue.push(msg)
		metrics.MessagesReceived.WithLabelValues("held").Inc()
		return nil
	}

	metrics.MessagesReceived.WithLabelValues("dispatched").Inc()
	return c.dispatcher.Dispatch(ctx, msg, c)
}
