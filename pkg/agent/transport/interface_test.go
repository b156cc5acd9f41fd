// SPDX-License-Identifier: LGPL-3.0-or-later

package transport_test

import (
	"context"
	"testing"

	"github.com/sage-x-project/staticagent/pkg/agent/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTransport_DefaultIsNoopSuccess(t *testing.T) {
	mock := &transport.MockTransport{}

	err := mock.Send(context.Background(), []byte("packed"), "https://peer.example.com", func([]byte) {}, func(string) {})
	require.NoError(t, err)

	last := mock.LastMessage()
	require.NotNil(t, last)
	assert.Equal(t, []byte("packed"), last.Packed)
	assert.Equal(t, "https://peer.example.com", last.Endpoint)
}

func TestMockTransport_CustomSendFunc(t *testing.T) {
	var gotResponse []byte
	mock := &transport.MockTransport{
		SendFunc: func(ctx context.Context, packed []byte, endpoint string, onResponse func([]byte), onError func(string)) error {
			onResponse([]byte("reply"))
			return nil
		},
	}

	err := mock.Send(context.Background(), []byte("packed"), "endpoint", func(b []byte) { gotResponse = b }, func(string) {})
	require.NoError(t, err)
	assert.Equal(t, "reply", string(gotResponse))
}

func TestMockTransport_CapturesMultipleMessages(t *testing.T) {
	mock := &transport.MockTransport{}
	_ = mock.Send(context.Background(), []byte("1"), "e1", nil, nil)
	_ = mock.Send(context.Background(), []byte("2"), "e2", nil, nil)

	require.Len(t, mock.SentMessages, 2)
	assert.Equal(t, "e1", mock.SentMessages[0].Endpoint)
}

func TestMockTransport_Reset(t *testing.T) {
	mock := &transport.MockTransport{}
	_ = mock.Send(context.Background(), []byte("1"), "e1", nil, nil)
	mock.Reset()
	assert.Nil(t, mock.LastMessage())
}
