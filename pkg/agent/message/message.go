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

// Package message defines the DIDComm-style message body and the Message
// Trust Context the codec attaches to it after unpacking.
package message

import "encoding/json"

// Message is an arbitrary DIDComm-style body. It round-trips through
// encoding/json as a plain map so unknown fields are preserved, while
// exposing typed accessors for the handful of well-known `@`-prefixed and
// `~`-prefixed fields every handler cares about.
type Message map[string]interface{}

// New returns an empty Message with its type set.
func New(typeURI string) Message {
	return Message{"@type": typeURI}
}

// FromMap normalizes a plain map into a Message, assigning "@id" if one is
// not already present would be a policy decision left to callers; this
// constructor only wraps.
func FromMap(m map[string]interface{}) Message {
	return Message(m)
}

// Type returns the "@type" field, or "" if absent.
func (m Message) Type() string {
	if v, ok := m["@type"].(string); ok {
		return v
	}
	return ""
}

// ID returns the "@id" field, or "" if absent.
func (m Message) ID() string {
	if v, ok := m["@id"].(string); ok {
		return v
	}
	return ""
}

// SetID sets the "@id" field.
func (m Message) SetID(id string) {
	m["@id"] = id
}

// ReturnRoute returns the value of "~transport.return_route" and whether it
// was present at all.
func (m Message) ReturnRoute() (string, bool) {
	transport, ok := m["~transport"].(map[string]interface{})
	if !ok {
		return "", false
	}
	rr, ok := transport["return_route"].(string)
	return rr, ok
}

// SetReturnRoute injects "~transport.return_route" into the message,
// creating the "~transport" block if needed.
func (m Message) SetReturnRoute(value string) {
	transport, ok := m["~transport"].(map[string]interface{})
	if !ok {
		transport = map[string]interface{}{}
		m["~transport"] = transport
	}
	transport["return_route"] = value
}

// Bytes marshals the message to JSON.
func (m Message) Bytes() ([]byte, error) {
	return json.Marshal(map[string]interface{}(m))
}

// Parse unmarshals JSON bytes into a Message.
func Parse(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
