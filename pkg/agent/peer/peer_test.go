// SPDX-License-Identifier: LGPL-3.0-or-later

package peer_test

import (
	"testing"

	"github.com/sage-x-project/staticagent/pkg/agent/peer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TheirVKOnly(t *testing.T) {
	a, err := peer.New("https://peer.example.com", []byte("verkey"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("verkey")}, a.RecipientKeys())
}

func TestNew_RecipientsOnly(t *testing.T) {
	recipients := [][]byte{[]byte("r1"), []byte("r2")}
	a, err := peer.New("https://peer.example.com", nil, recipients, nil)
	require.NoError(t, err)
	assert.Equal(t, recipients, a.RecipientKeys())
}

func TestNew_MutualExclusionViolated(t *testing.T) {
	_, err := peer.New("https://peer.example.com", []byte("vk"), [][]byte{[]byte("r1")}, nil)
	assert.Error(t, err)
}

func TestNew_NeitherSet(t *testing.T) {
	// A peer not yet known is a legitimate construction: its addressing is
	// filled in later via Update.
	a, err := peer.New("https://peer.example.com", nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, a.RecipientKeys())
}

func TestUpdate_PartialSwapsAddressingStyle(t *testing.T) {
	a, err := peer.New("https://peer.example.com", []byte("vk"), nil, nil)
	require.NoError(t, err)

	recipients := [][]byte{[]byte("r1")}
	err = a.Update(nil, nil, recipients, nil)
	require.NoError(t, err)
	assert.Nil(t, a.TheirVK)
	assert.Equal(t, recipients, a.Recipients)
}

func TestUpdate_EndpointOnly(t *testing.T) {
	a, err := peer.New("https://old.example.com", []byte("vk"), nil, nil)
	require.NoError(t, err)

	newEndpoint := "https://new.example.com"
	err = a.Update(&newEndpoint, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, newEndpoint, a.Endpoint)
	assert.Equal(t, []byte("vk"), a.TheirVK)
}

func TestHasRoutingKeys(t *testing.T) {
	a, err := peer.New("https://peer.example.com", []byte("vk"), nil, nil)
	require.NoError(t, err)
	assert.False(t, a.HasRoutingKeys())

	require.NoError(t, a.Update(nil, []byte("vk"), nil, [][]byte{[]byte("route1")}))
	assert.True(t, a.HasRoutingKeys())
}
