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

	"github.com/sage-x-project/staticagent/pkg/agent/message"
)

// SendSync blocks the calling goroutine to completion; a plain convenience
// over SendWithOptions for callers with no context of their own to thread
// through.
func (c *Connection) SendSync(msg message.Message, opts SendOptions) error {
	return c.SendWithOptions(context.Background(), msg, opts)
}

// SendAndAwaitReplySync is the blocking counterpart to RequestWithOptions.
func (c *Connection) SendAndAwaitReplySync(msg message.Message, opts RequestOptions) (message.Message, error) {
	return c.RequestWithOptions(context.Background(), msg, opts)
}
