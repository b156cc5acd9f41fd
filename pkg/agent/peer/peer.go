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

// Package peer describes the remote side of a static connection: where to
// reach it, and which verkey(s) to encrypt for.
package peer

import "fmt"

// Address is the addressing state of a connection's remote peer. Its
// recipient keys are given either as a single verkey (TheirVK) or as a list
// (Recipients); the two forms are mutually exclusive. RoutingKeys, when
// set, name the mediator chain the envelope is rewrapped through hop by
// hop, whichever form the recipient keys take.
type Address struct {
	Endpoint    string
	TheirVK     []byte
	Recipients  [][]byte
	RoutingKeys [][]byte
}

// New constructs an Address, validating the mutual exclusion between
// TheirVK and Recipients up front.
func New(endpoint string, theirVK []byte, recipients, routingKeys [][]byte) (*Address, error) {
	a := &Address{
		Endpoint:    endpoint,
		TheirVK:     theirVK,
		Recipients:  recipients,
		RoutingKeys: routingKeys,
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// validate enforces that TheirVK and Recipients are not both set. Neither
// being set is allowed: a peer not yet known (to be supplied later via
// Update) is a legitimate construction.
func (a *Address) validate() error {
	if len(a.TheirVK) > 0 && len(a.Recipients) > 0 {
		return fmt.Errorf("peer: their_vk and recipients are mutually exclusive")
	}
	return nil
}

// Update applies a partial update: any non-nil argument replaces the
// corresponding field, after which the mutual-exclusion invariant is
// re-checked against the resulting whole. Passing both theirVK and
// recipients is an error. Pass nil for fields that should be left
// unchanged.
func (a *Address) Update(endpoint *string, theirVK []byte, recipients, routingKeys [][]byte) error {
	if theirVK != nil && recipients != nil {
		return fmt.Errorf("peer: their_vk and recipients are mutually exclusive")
	}
	next := *a
	if endpoint != nil {
		next.Endpoint = *endpoint
	}
	if theirVK != nil {
		next.TheirVK = theirVK
		next.Recipients = nil
	}
	if recipients != nil {
		next.Recipients = recipients
		next.TheirVK = nil
	}
	if routingKeys != nil {
		next.RoutingKeys = routingKeys
	}

	if err := next.validate(); err != nil {
		return err
	}
	*a = next
	return nil
}

// RecipientKeys returns the set of verkeys the envelope should be encrypted
// for: either the single TheirVK, or the full Recipients list.
func (a *Address) RecipientKeys() [][]byte {
	if len(a.TheirVK) > 0 {
		return [][]byte{a.TheirVK}
	}
	return a.Recipients
}

// HasRoutingKeys reports whether the envelope must be rewrapped through a
// mediator chain before reaching the peer.
func (a *Address) HasRoutingKeys() bool {
	return len(a.RoutingKeys) > 0
}
