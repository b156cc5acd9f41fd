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

package transport

import (
	"context"
	"sync"
)

// SentMessage records one call to MockTransport.Send for test assertions.
type SentMessage struct {
	Packed   []byte
	Endpoint string
}

// MockTransport is a test double implementing Transport. If SendFunc is set
// it drives the onResponse/onError callbacks itself; otherwise Send is a
// no-op success with no reply.
type MockTransport struct {
	SendFunc func(ctx context.Context, packed []byte, endpoint string, onResponse func([]byte), onError func(string)) error

	mu           sync.Mutex
	SentMessages []SentMessage
}

// Send implements Transport.
func (m *MockTransport) Send(ctx context.Context, packed []byte, endpoint string, onResponse func([]byte), onError func(string)) error {
	m.mu.Lock()
	m.SentMessages = append(m.SentMessages, SentMessage{Packed: packed, Endpoint: endpoint})
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, packed, endpoint, onResponse, onError)
	}
	return nil
}

// Reset clears captured messages.
func (m *MockTransport) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentMessages = nil
}

// LastMessage returns the most recently sent message, or nil.
func (m *MockTransport) LastMessage() *SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.SentMessages) == 0 {
		return nil
	}
	return &m.SentMessages[len(m.SentMessages)-1]
}
