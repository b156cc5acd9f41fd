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

// Package http is the default Transport: a single HTTP POST attempt per
// Send call, with the response body (if any) fed back as the in-band
// reply a return-routed send expects.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sage-x-project/staticagent/pkg/agent/transport"
)

// Transport implements transport.Transport over HTTP POST.
type Transport struct {
	client *http.Client
}

// New creates an HTTP transport with the given request timeout.
func New(timeout time.Duration) *Transport {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Transport{client: &http.Client{Timeout: timeout}}
}

// NewWithClient creates an HTTP transport using a caller-provided client
// (for custom TLS config, proxying, etc).
func NewWithClient(client *http.Client) *Transport {
	return &Transport{client: client}
}

// Send POSTs packed to endpoint and, if the response carries a non-empty
// body, treats it as the in-band reply.
func (t *Transport) Send(ctx context.Context, packed []byte, endpoint string, onResponse func([]byte), onError func(string)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(packed))
	if err != nil {
		onError(fmt.Sprintf("build request: %v", err))
		return nil
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := t.client.Do(req)
	if err != nil {
		onError(fmt.Sprintf("http request failed: %v", err))
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		onError(fmt.Sprintf("read response body: %v", err))
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		onError(fmt.Sprintf("http %d: %s", resp.StatusCode, string(body)))
		return nil
	}

	if len(body) > 0 {
		onResponse(body)
	}
	return nil
}

var _ transport.Transport = (*Transport)(nil)
