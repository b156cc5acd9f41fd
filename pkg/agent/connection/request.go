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
	"time"

	"github.com/sage-x-project/staticagent/pkg/agent/message"
)

// defaultRequestTimeout bounds SendAndAwaitReply, the dispatcher.Replier
// entry point that callers reach with no way to name a deadline of their
// own; RequestWithOptions lets a direct caller override it.
const defaultRequestTimeout = 30 * time.Second

// RequestOptions controls one send_and_await_reply composition.
type RequestOptions struct {
	// Condition gates which inbound messages are intercepted during the
	// hold scope; nil holds every inbound message.
	Condition HoldPredicate
	// ReturnRoute defaults to "all" when empty, asking the peer to reply on
	// this same transport.
	ReturnRoute string
	Anoncrypt   bool
	Plaintext   bool
	Timeout     time.Duration
}

// SendAndAwaitReply sends msg with return_route="all" and waits up to
// defaultRequestTimeout for the matching reply. It satisfies
// dispatcher.Replier.
func (c *Connection) SendAndAwaitReply(ctx context.Context, msg message.Message) (message.Message, error) {
	return c.RequestWithOptions(ctx, msg, RequestOptions{Timeout: defaultRequestTimeout})
}

// RequestWithOptions is the full request/await composition (C9): enter a
// hold scope, send msg, then await the next held message. The hold scope
// is released on every exit path, success or failure.
func (c *Connection) RequestWithOptions(ctx context.Context, msg message.Message, opts RequestOptions) (message.Message, error) {
	returnRoute := opts.ReturnRoute
	if returnRoute == "" {
		returnRoute = "all"
	}

	release := c.Hold(opts.Condition)
	defer release()

	if err := c.SendWithOptions(ctx, msg, SendOptions{
		ReturnRoute: returnRoute,
		Anoncrypt:   opts.Anoncrypt,
		Plaintext:   opts.Plaintext,
	}); err != nil {
		return nil, err
	}

	return c.queue.pop(opts.Timeout)
}
