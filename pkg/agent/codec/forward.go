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

package codec

import (
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/sage-x-project/staticagent/pkg/agent/message"
)

const forwardType = "https://didcomm.org/routing/1.0/forward"

// WrapForward nests an already-packed envelope inside one "forward" message
// per routing key, innermost (final peer) first, anoncrypted to each
// mediator in turn so only that mediator can see who it must relay to next.
// "msg" carries the inner envelope as a nested JSON object, not a
// JSON-encoded string, so a mediator can decrypt it without an extra
// unescape pass.
func WrapForward(packed []byte, finalRecipient []byte, routingKeys [][]byte) ([]byte, error) {
	current := packed
	to := finalRecipient

	for _, routingKey := range routingKeys {
		var inner map[string]interface{}
		if err := json.Unmarshal(current, &inner); err != nil {
			return nil, fmt.Errorf("codec: decode inner envelope: %w", err)
		}

		fwd := message.New(forwardType)
		fwd["to"] = base58.Encode(to)
		fwd["msg"] = inner

		wrapped, err := Pack(fwd, nil, [][]byte{routingKey}, Opts{Anoncrypt: true})
		if err != nil {
			return nil, fmt.Errorf("codec: wrap forward message: %w", err)
		}
		current = wrapped
		to = routingKey
	}

	return current, nil
}
