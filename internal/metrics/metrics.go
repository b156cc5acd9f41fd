// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package metrics exposes Prometheus counters and histograms for the
// connection's pack/unpack/send/receive/hold lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "staticagent"

// Registry is the Prometheus registry all package counters register against.
// A standalone Registry (rather than the global default) keeps a connection's
// metrics isolated when several run in the same process (as in tests).
var Registry = prometheus.NewRegistry()

var (
	// MessagesPacked counts successful codec.Pack calls, by mode
	// ("authcrypt", "anoncrypt", "plaintext").
	MessagesPacked = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_packed_total",
		Help:      "Number of envelopes packed, by mode.",
	}, []string{"mode"})

	// MessagesUnpacked counts inbound frames Connection.Receive unpacked
	// successfully, by resulting MTC kind.
	MessagesUnpacked = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_unpacked_total",
		Help:      "Number of envelopes unpacked, by resulting trust context.",
	}, []string{"mtc"})

	// MessagesSent counts Connection.Send/SendWithOptions attempts, by outcome.
	MessagesSent = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Number of send attempts, by outcome (ok, delivery_error).",
	}, []string{"outcome"})

	// MessagesReceived counts inbound messages handled, by disposition
	// ("dispatched", "held").
	MessagesReceived = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_received_total",
		Help:      "Number of inbound messages handled, by disposition.",
	}, []string{"disposition"})

	// AwaitTimeouts counts await_message calls that expired before a message
	// arrived.
	AwaitTimeouts = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "await_timeouts_total",
		Help:      "Number of await_message calls that timed out.",
	})

	// SendDuration observes wall-clock time spent inside Send, including the
	// blocking transport call.
	SendDuration = promauto.With(Registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "send_duration_seconds",
		Help:      "Time spent sending a message through the transport.",
		Buckets:   prometheus.DefBuckets,
	})
)
