// SPDX-License-Identifier: LGPL-3.0-or-later

package message_test

import (
	"testing"

	"github.com/sage-x-project/staticagent/pkg/agent/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndAccessors(t *testing.T) {
	m := message.New("did:sage:ping")
	m.SetID("msg-1")

	assert.Equal(t, "did:sage:ping", m.Type())
	assert.Equal(t, "msg-1", m.ID())

	_, ok := m.ReturnRoute()
	assert.False(t, ok)
}

func TestReturnRoute(t *testing.T) {
	m := message.New("did:sage:ping")
	m.SetReturnRoute("all")

	rr, ok := m.ReturnRoute()
	require.True(t, ok)
	assert.Equal(t, "all", rr)
}

func TestBytesAndParseRoundTrip(t *testing.T) {
	m := message.New("did:sage:ping")
	m.SetID("msg-2")
	m["content"] = "hello"

	data, err := m.Bytes()
	require.NoError(t, err)

	parsed, err := message.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "did:sage:ping", parsed.Type())
	assert.Equal(t, "msg-2", parsed.ID())
	assert.Equal(t, "hello", parsed["content"])
}

func TestMTC_Flags(t *testing.T) {
	mtc := message.Plaintext()
	assert.Equal(t, message.PlaintextKind, mtc.Kind)
	assert.False(t, mtc.Has(message.AuthcryptAffirmed))

	mtc.Affirm(message.AuthcryptAffirmed)
	assert.True(t, mtc.Has(message.AuthcryptAffirmed))
	assert.False(t, mtc.Has(message.AnoncryptAffirmed))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "plaintext", message.PlaintextKind.String())
	assert.Equal(t, "anoncrypt", message.AnoncryptKind.String())
	assert.Equal(t, "authcrypt", message.AuthcryptKind.String())
}
