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
	"fmt"
	"net/url"
	"strings"
)

// Scheme identifies the transport protocol to use for an endpoint URL.
type Scheme string

const (
	SchemeHTTP            Scheme = "http"
	SchemeHTTPS           Scheme = "https"
	SchemeWebSocket       Scheme = "ws"
	SchemeWebSocketSecure Scheme = "wss"
)

// Factory creates a Transport instance for a given scheme.
type Factory func() (Transport, error)

// Selector resolves an endpoint URL's scheme to a registered Transport
// factory. Concrete transport packages (http, websocket) register
// themselves with DefaultSelector from an init() function, so importing one
// for side effect is what wires a scheme in.
type Selector struct {
	factories map[Scheme]Factory
}

// NewSelector returns an empty Selector.
func NewSelector() *Selector {
	return &Selector{factories: make(map[Scheme]Factory)}
}

// RegisterFactory registers factory for scheme.
func (s *Selector) RegisterFactory(scheme Scheme, factory Factory) {
	s.factories[scheme] = factory
}

// IsRegistered reports whether scheme has a registered factory.
func (s *Selector) IsRegistered(scheme Scheme) bool {
	_, ok := s.factories[scheme]
	return ok
}

// SelectByURL parses endpoint's scheme and returns the matching Transport.
func (s *Selector) SelectByURL(endpoint string) (Transport, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("transport: invalid endpoint %q: %w", endpoint, err)
	}

	scheme := Scheme(strings.ToLower(parsed.Scheme))
	factory, ok := s.factories[scheme]
	if !ok {
		return nil, fmt.Errorf("transport: scheme %q not registered (missing import?)", scheme)
	}
	return factory()
}

// DefaultSelector is the process-wide selector transport sub-packages
// register against from their init() functions.
var DefaultSelector = NewSelector()

// SelectByURL resolves endpoint using DefaultSelector.
func SelectByURL(endpoint string) (Transport, error) {
	return DefaultSelector.SelectByURL(endpoint)
}
