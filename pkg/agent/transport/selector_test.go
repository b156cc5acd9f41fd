// SPDX-License-Identifier: LGPL-3.0-or-later

package transport_test

import (
	"context"
	"testing"

	"github.com/sage-x-project/staticagent/pkg/agent/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct{}

func (fakeTransport) Send(ctx context.Context, packed []byte, endpoint string, onResponse func([]byte), onError func(string)) error {
	return nil
}

func TestSelector_SelectByURL(t *testing.T) {
	s := transport.NewSelector()
	s.RegisterFactory(transport.SchemeHTTP, func() (transport.Transport, error) {
		return fakeTransport{}, nil
	})

	tr, err := s.SelectByURL("http://agent.example.com")
	require.NoError(t, err)
	assert.NotNil(t, tr)
}

func TestSelector_UnregisteredScheme(t *testing.T) {
	s := transport.NewSelector()
	_, err := s.SelectByURL("ws://agent.example.com")
	assert.Error(t, err)
}

func TestSelector_MalformedURL(t *testing.T) {
	s := transport.NewSelector()
	_, err := s.SelectByURL("not a url")
	assert.Error(t, err)
}

func TestSelector_IsRegistered(t *testing.T) {
	s := transport.NewSelector()
	assert.False(t, s.IsRegistered(transport.SchemeHTTP))
	s.RegisterFactory(transport.SchemeHTTP, func() (transport.Transport, error) { return fakeTransport{}, nil })
	assert.True(t, s.IsRegistered(transport.SchemeHTTP))
}
