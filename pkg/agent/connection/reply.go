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

// ReplyFunc is a one-shot send used in place of opening a new transport
// connection: it is how a handler answers a message that arrived with an
// in-band return route.
type ReplyFunc func(packed []byte) error

// ReplyHandler installs fn as the active reply channel for the lifetime of
// the returned release function. The receive engine also clears it
// automatically when an inbound frame does not request a return route, so
// a channel from a previous exchange is never reused by accident.
func (c *Connection) ReplyHandler(fn ReplyFunc) (release func()) {
	c.mu.Lock()
	c.replyFn = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		c.replyFn = nil
		c.mu.Unlock()
	}
}
