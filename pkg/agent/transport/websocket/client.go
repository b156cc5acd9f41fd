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

// Package websocket is a persistent-connection Transport: one WebSocket per
// endpoint is dialed lazily and reused across Send calls, rather than a new
// round trip per message like the http transport.
package websocket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sage-x-project/staticagent/pkg/agent/transport"
)

// Transport implements transport.Transport over a pool of persistent
// WebSocket connections, one per endpoint.
type Transport struct {
	dialTimeout  time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration

	mu    sync.Mutex
	conns map[string]*wsConn
}

// New creates a WebSocket transport with default timeouts.
func New() *Transport {
	return &Transport{
		dialTimeout:  30 * time.Second,
		readTimeout:  60 * time.Second,
		writeTimeout: 30 * time.Second,
		conns:        make(map[string]*wsConn),
	}
}

// NewWithTimeouts creates a WebSocket transport with custom timeouts.
func NewWithTimeouts(dialTimeout, readTimeout, writeTimeout time.Duration) *Transport {
	t := New()
	t.dialTimeout = dialTimeout
	t.readTimeout = readTimeout
	t.writeTimeout = writeTimeout
	return t
}

// wsConn is one persistent socket to one endpoint. Replies are matched to
// sends in FIFO order: the reader loop hands each inbound frame to the
// oldest still-pending onResponse callback.
type wsConn struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   []func([]byte)

	closeOnce sync.Once
	closed    chan struct{}
}

// Send delivers packed to endpoint over a persistent WebSocket connection,
// dialing one if none is open yet.
func (t *Transport) Send(ctx context.Context, packed []byte, endpoint string, onResponse func([]byte), onError func(string)) error {
	wc, err := t.connFor(ctx, endpoint)
	if err != nil {
		onError(fmt.Sprintf("websocket dial failed: %v", err))
		return nil
	}

	if onResponse != nil {
		wc.pendingMu.Lock()
		wc.pending = append(wc.pending, onResponse)
		wc.pendingMu.Unlock()
	}

	wc.writeMu.Lock()
	writeErr := wc.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout))
	if writeErr == nil {
		writeErr = wc.conn.WriteMessage(websocket.BinaryMessage, packed)
	}
	wc.writeMu.Unlock()

	if writeErr != nil {
		t.drop(endpoint, wc)
		onError(fmt.Sprintf("websocket write failed: %v", writeErr))
		return nil
	}
	return nil
}

// connFor returns the cached connection for endpoint, dialing a new one if
// necessary.
func (t *Transport) connFor(ctx context.Context, endpoint string) (*wsConn, error) {
	t.mu.Lock()
	if wc, ok := t.conns[endpoint]; ok {
		t.mu.Unlock()
		return wc, nil
	}
	t.mu.Unlock()

	dialer := &websocket.Dialer{HandshakeTimeout: t.dialTimeout}
	conn, resp, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s (HTTP %d): %w", endpoint, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}

	wc := &wsConn{conn: conn, closed: make(chan struct{})}

	t.mu.Lock()
	t.conns[endpoint] = wc
	t.mu.Unlock()

	go t.readLoop(endpoint, wc)
	return wc, nil
}

func (t *Transport) readLoop(endpoint string, wc *wsConn) {
	defer t.drop(endpoint, wc)
	for {
		if err := wc.conn.SetReadDeadline(time.Now().Add(t.readTimeout)); err != nil {
			return
		}
		_, data, err := wc.conn.ReadMessage()
		if err != nil {
			return
		}

		wc.pendingMu.Lock()
		var next func([]byte)
		if len(wc.pending) > 0 {
			next = wc.pending[0]
			wc.pending = wc.pending[1:]
		}
		wc.pendingMu.Unlock()

		if next != nil {
			next(data)
		}
	}
}

func (t *Transport) drop(endpoint string, wc *wsConn) {
	wc.closeOnce.Do(func() {
		close(wc.closed)
		_ = wc.conn.Close()
	})

	t.mu.Lock()
	if t.conns[endpoint] == wc {
		delete(t.conns, endpoint)
	}
	t.mu.Unlock()
}

// Close tears down every open connection.
func (t *Transport) Close() error {
	t.mu.Lock()
	conns := t.conns
	t.conns = make(map[string]*wsConn)
	t.mu.Unlock()

	for endpoint, wc := range conns {
		t.drop(endpoint, wc)
	}
	return nil
}

var _ transport.Transport = (*Transport)(nil)
