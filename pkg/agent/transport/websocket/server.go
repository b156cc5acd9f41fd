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

package websocket

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// InboundHandler processes one received packed envelope and returns the
// in-band reply bytes to write back over the same socket, or nil if
// nothing should be written (return_route was "none").
type InboundHandler func(packed []byte) (reply []byte, err error)

// Server upgrades incoming HTTP requests to persistent WebSocket
// connections and feeds every frame received on each one to an
// InboundHandler, writing back whatever reply it produces.
type Server struct {
	handler      InboundHandler
	upgrader     websocket.Upgrader
	readTimeout  time.Duration
	writeTimeout time.Duration

	connMu      sync.RWMutex
	connections map[*websocket.Conn]bool
}

// NewServer wraps handler as an http.Handler serving WebSocket upgrades.
func NewServer(handler InboundHandler) *Server {
	return &Server{
		handler: handler,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		readTimeout:  60 * time.Second,
		writeTimeout: 30 * time.Second,
		connections:  make(map[*websocket.Conn]bool),
	}
}

// NewServerWithTimeouts creates a Server with custom read/write timeouts.
func NewServerWithTimeouts(handler InboundHandler, readTimeout, writeTimeout time.Duration) *Server {
	s := NewServer(handler)
	s.readTimeout = readTimeout
	s.writeTimeout = writeTimeout
	return s
}

// ServeHTTP implements http.Handler, upgrading the connection and serving
// frames from it until it closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, fmt.Sprintf("websocket upgrade failed: %v", err), http.StatusBadRequest)
		return
	}

	s.track(conn, true)
	defer s.track(conn, false)
	defer func() { _ = conn.Close() }()

	s.serve(conn)
}

func (s *Server) serve(conn *websocket.Conn) {
	for {
		if err := conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
			return
		}
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.BinaryMessage && msgType != websocket.TextMessage {
			continue
		}

		reply, err := s.handler(data)
		if err != nil {
			continue
		}
		if len(reply) == 0 {
			continue
		}

		if err := conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
			return
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, reply); err != nil {
			return
		}
	}
}

func (s *Server) track(conn *websocket.Conn, active bool) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if active {
		s.connections[conn] = true
	} else {
		delete(s.connections, conn)
	}
}

// ConnectionCount returns the number of currently-served connections.
func (s *Server) ConnectionCount() int {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	return len(s.connections)
}

// Close closes every connection currently served.
func (s *Server) Close() error {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	for conn := range s.connections {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}
	s.connections = make(map[*websocket.Conn]bool)
	return nil
}
