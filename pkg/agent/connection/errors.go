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

import "fmt"

// ConfigurationError reports a caller-supplied combination of options that
// is invalid by construction: mutually exclusive fields, a non-callable
// hold predicate, or a message value of the wrong type.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("connection: configuration error: %s", e.Reason)
}

// DeliveryError reports that a message could not be handed to the peer: no
// route was available, or the transport itself reported failure.
type DeliveryError struct {
	Reason     string
	StatusCode *int
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != nil {
		return fmt.Sprintf("connection: delivery error (status %d): %s", *e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("connection: delivery error: %s", e.Reason)
}

// InsufficientTrustError reports that a handler gated on the Message Trust
// Context refused to process a message.
type InsufficientTrustError struct {
	Reason string
}

func (e *InsufficientTrustError) Error() string {
	return fmt.Sprintf("connection: insufficient trust: %s", e.Reason)
}

// UnexpectedResponseError reports that the transport delivered a response
// body for a send that carried no return route.
type UnexpectedResponseError struct {
	Reason string
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("connection: unexpected response: %s", e.Reason)
}

// TimeoutError reports that await_message's deadline elapsed before a
// message arrived.
type TimeoutError struct {
	Reason string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("connection: timeout: %s", e.Reason)
}
