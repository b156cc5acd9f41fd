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

// Package dispatcher routes an unpacked Message to the Handler registered
// for its "@type", the thin collaborator a Connection hands received
// messages off to once they clear the hold gate.
package dispatcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/sage-x-project/staticagent/pkg/agent/message"
)

// Replier is the minimal back-reference a Handler needs into its owning
// connection, kept separate from the concrete connection type to avoid an
// import cycle between dispatcher and connection.
type Replier interface {
	Send(ctx context.Context, msg message.Message) error
	SendAndAwaitReply(ctx context.Context, msg message.Message) (message.Message, error)
}

// Handler processes one message type.
type Handler interface {
	Handle(ctx context.Context, msg message.Message, conn Replier) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, msg message.Message, conn Replier) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, msg message.Message, conn Replier) error {
	return f(ctx, msg, conn)
}

// Dispatcher routes messages to registered handlers by "@type" URI.
type Dispatcher interface {
	AddHandler(typeURI string, h Handler)
	AddHandlers(handlers map[string]Handler)
	ClearHandlers()
	Dispatch(ctx context.Context, msg message.Message, conn Replier) error
}

// MapDispatcher is a minimal concrete Dispatcher keyed by exact "@type"
// match, sufficient to exercise every end-to-end scenario a connection must
// support.
type MapDispatcher struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// New returns an empty MapDispatcher.
func New() *MapDispatcher {
	return &MapDispatcher{handlers: make(map[string]Handler)}
}

// AddHandler registers h for typeURI, replacing any existing registration.
func (d *MapDispatcher) AddHandler(typeURI string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[typeURI] = h
}

// AddHandlers registers every entry in handlers.
func (d *MapDispatcher) AddHandlers(handlers map[string]Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for t, h := range handlers {
		d.handlers[t] = h
	}
}

// ClearHandlers removes every registered handler.
func (d *MapDispatcher) ClearHandlers() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = make(map[string]Handler)
}

// Dispatch looks up the handler for msg.Type() and invokes it.
func (d *MapDispatcher) Dispatch(ctx context.Context, msg message.Message, conn Replier) error {
	d.mu.RLock()
	h, ok := d.handlers[msg.Type()]
	d.mu.RUnlock()

	if !ok {
		return fmt.Errorf("dispatcher: no handler registered for type %q", msg.Type())
	}
	return h.Handle(ctx, msg, conn)
}
