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

// Package connection implements a static agent-to-agent connection: one
// local KeyPair, one remote peer.Address, wired to a codec for
// encrypt/decrypt, a transport.Transport for delivery, and a
// dispatcher.Dispatcher for routing inbound messages by type.
package connection

import (
	"sync"

	"github.com/sage-x-project/staticagent/pkg/agent/dispatcher"
	"github.com/sage-x-project/staticagent/pkg/agent/keys"
	"github.com/sage-x-project/staticagent/pkg/agent/peer"
	"github.com/sage-x-project/staticagent/pkg/agent/transport"
)

// Connection is a single static peer connection. Outside the well-defined
// suspension points documented in its component design (transport.Send,
// a ReplyFunc, dispatcher.Dispatch, heldQueue.pop), its fields are accessed
// without assuming any particular goroutine affinity, so mutable state is
// guarded by mu.
type Connection struct {
	own  *keys.KeyPair
	peer *peer.Address

	transport  transport.Transport
	dispatcher dispatcher.Dispatcher

	mu            sync.Mutex
	holdPredicate HoldPredicate
	replyFn       ReplyFunc

	queue *heldQueue
}

// New builds a Connection around own's identity, addressed to peerAddr,
// delivering through tr and routing inbound messages through disp.
func New(own *keys.KeyPair, peerAddr *peer.Address, tr transport.Transport, disp dispatcher.Dispatcher) *Connection {
	return &Connection{
		own:           own,
		peer:          peerAddr,
		transport:     tr,
		dispatcher:    disp,
		holdPredicate: neverHold,
		queue:         newHeldQueue(),
	}
}

// KeyPair returns the connection's own identity.
func (c *Connection) KeyPair() *keys.KeyPair {
	return c.own
}

// Peer returns the connection's current peer addressing state. Callers
// needing to mutate it should go through UpdatePeer rather than writing the
// returned pointer's fields directly.
func (c *Connection) Peer() *peer.Address {
	return c.peer
}

// UpdatePeer applies a partial update to the peer address; see
// peer.Address.Update for field semantics. Configuration errors (e.g.
// TheirVK and Recipients both given) are returned as a ConfigurationError.
func (c *Connection) UpdatePeer(endpoint *string, theirVK []byte, recipients, routingKeys [][]byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.peer.Update(endpoint, theirVK, recipients, routingKeys); err != nil {
		return &ConfigurationError{Reason: err.Error()}
	}
	return nil
}

// Route registers h to handle messages of the given type URI.
func (c *Connection) Route(typeURI string, h dispatcher.Handler) {
	c.dispatcher.AddHandler(typeURI, h)
}

// RouteModule registers a whole map of type URI to Handler at once.
func (c *Connection) RouteModule(handlers map[string]dispatcher.Handler) {
	c.dispatcher.AddHandlers(handlers)
}

// ClearRoutes removes every registered handler from the dispatcher.
func (c *Connection) ClearRoutes() {
	c.dispatcher.ClearHandlers()
}

var _ dispatcher.Replier = (*Connection)(nil)
