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

// Package transport provides transport-layer abstraction for delivering
// packed envelopes, independent of any specific protocol (HTTP, WebSocket,
// or anything else a caller registers).
package transport

import "context"

// Transport delivers an already-packed envelope to endpoint and reports the
// outcome through callbacks rather than a return value, since a delivery
// can yield zero, one, or (on a persistent transport) many in-band replies.
// The http transport invokes its callbacks before Send returns; the
// websocket transport hands replies to onResponse later, from its read
// loop.
//
// onResponse is called once per in-band reply body the transport receives
// (an HTTP response body carrying a return-routed message, or a WebSocket
// frame). onError is called if the transport fails to deliver at all.
// A non-nil error from Send is reserved for failures outside the callback
// protocol; the http and websocket transports in this module report every
// failure, context cancellation included, through onError and return nil.
type Transport interface {
	Send(ctx context.Context, packed []byte, endpoint string, onResponse func([]byte), onError func(string)) error
}
