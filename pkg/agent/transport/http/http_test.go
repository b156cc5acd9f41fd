// SPDX-License-Identifier: LGPL-3.0-or-later

package http_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	agenthttp "github.com/sage-x-project/staticagent/pkg/agent/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport_SendAndReceiveInBandReply(t *testing.T) {
	srv := httptest.NewServer(agenthttp.NewServer(func(packed []byte) ([]byte, error) {
		assert.Equal(t, "ping", string(packed))
		return []byte("pong"), nil
	}))
	defer srv.Close()

	tr := agenthttp.New(0)

	var reply []byte
	err := tr.Send(context.Background(), []byte("ping"), srv.URL, func(b []byte) { reply = b }, func(s string) {
		t.Fatalf("unexpected transport error: %s", s)
	})
	require.NoError(t, err)
	assert.Equal(t, "pong", string(reply))
}

func TestTransport_NoReplyWhenBodyEmpty(t *testing.T) {
	srv := httptest.NewServer(agenthttp.NewServer(func(packed []byte) ([]byte, error) {
		return nil, nil
	}))
	defer srv.Close()

	tr := agenthttp.New(0)

	called := false
	err := tr.Send(context.Background(), []byte("ping"), srv.URL, func(b []byte) { called = true }, func(string) {})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestTransport_OnErrorOnBadEndpoint(t *testing.T) {
	tr := agenthttp.New(0)

	var gotErr string
	err := tr.Send(context.Background(), []byte("ping"), "http://127.0.0.1:1", func([]byte) {}, func(s string) { gotErr = s })
	require.NoError(t, err)
	assert.NotEmpty(t, gotErr)
}

func TestServer_RejectsNonPost(t *testing.T) {
	srv := httptest.NewServer(agenthttp.NewServer(func(packed []byte) ([]byte, error) { return nil, nil }))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.NotEqual(t, 200, resp.StatusCode, string(body))
}
