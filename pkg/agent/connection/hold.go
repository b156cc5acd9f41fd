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

import (
	"sync"
	"time"

	"github.com/sage-x-project/staticagent/internal/metrics"
	"github.com/sage-x-project/staticagent/pkg/agent/message"
)

// HoldPredicate decides whether an inbound Message should be diverted to
// the held queue instead of dispatched.
type HoldPredicate func(msg message.Message) bool

func neverHold(message.Message) bool { return false }
func holdAll(message.Message) bool   { return true }

// heldQueue is an unbounded FIFO of Messages with single-consumer-per-call
// await semantics: concurrent pop callers each receive one message, in
// arrival order. Blocking is implemented with a channel that is closed and
// replaced on every push, rather than sync.Cond, so a pending pop can also
// select on a timeout.
type heldQueue struct {
	mu    sync.Mutex
	items []message.Message
	wake  chan struct{}
}

func newHeldQueue() *heldQueue {
	return &heldQueue{wake: make(chan struct{})}
}

// push enqueues msg and wakes any goroutine blocked in pop.
func (q *heldQueue) push(msg message.Message) {
	q.mu.Lock()
	q.items = append(q.items, msg)
	old := q.wake
	q.wake = make(chan struct{})
	q.mu.Unlock()
	close(old)
}

// pop removes and returns the oldest queued Message. timeout<=0 waits
// indefinitely; a positive timeout yields a TimeoutError once it elapses
// with nothing queued.
func (q *heldQueue) pop(timeout time.Duration) (message.Message, error) {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			msg := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return msg, nil
		}
		wake := q.wake
		q.mu.Unlock()

		select {
		case <-wake:
		case <-deadline:
			metrics.AwaitTimeouts.Inc()
			return nil, &TimeoutError{Reason: "await_message: no message arrived before the deadline"}
		}
	}
}

// Hold installs predicate as the active hold gate for the lifetime of the
// returned release function; calling it resets the gate to "never hold"
// unconditionally — nested scopes do not restore the previous predicate.
// This replicates a documented quirk rather than introducing a predicate
// stack: see DESIGN.md.
func (c *Connection) Hold(predicate HoldPredicate) (release func()) {
	if predicate == nil {
		predicate = holdAll
	}
	c.mu.Lock()
	c.holdPredicate = predicate
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		c.holdPredicate = neverHold
		c.mu.Unlock()
	}
}

// AwaitMessage consumes the next held Message, per the rules in heldQueue.pop.
func (c *Connection) AwaitMessage(timeout time.Duration) (message.Message, error) {
	return c.queue.pop(timeout)
}
