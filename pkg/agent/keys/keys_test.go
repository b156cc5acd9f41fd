// SPDX-License-Identifier: LGPL-3.0-or-later

package keys_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/sage-x-project/staticagent/pkg/agent/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	kp, err := keys.Generate()
	require.NoError(t, err)
	assert.Len(t, kp.Verkey, keys.VerkeySize)
	assert.Len(t, kp.Sigkey, keys.SigkeySize)
}

func TestFromSeed_Deterministic(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}

	a, err := keys.FromSeed(seed)
	require.NoError(t, err)
	b, err := keys.FromSeed(seed)
	require.NoError(t, err)

	assert.Equal(t, a.Verkey, b.Verkey)
	assert.Equal(t, a.DID(), b.DID())
}

func TestFromSeed_WrongLength(t *testing.T) {
	_, err := keys.FromSeed([]byte("too short"))
	assert.Error(t, err)
}

func TestDID_Is16BytesOfVerkey(t *testing.T) {
	kp, err := keys.Generate()
	require.NoError(t, err)

	did := kp.DID()
	assert.NotEmpty(t, did)
	assert.Equal(t, base58.Encode(kp.Verkey[:16]), did)

	decoded, err := keys.VerkeyFromB58(kp.VerkeyB58())
	require.NoError(t, err)
	assert.Equal(t, kp.Verkey, decoded)
}

func TestSignVerify(t *testing.T) {
	kp, err := keys.Generate()
	require.NoError(t, err)

	msg := []byte("hello peer")
	sig := kp.Sign(msg)

	assert.True(t, keys.Verify(kp.Verkey, msg, sig))
	assert.False(t, keys.Verify(kp.Verkey, []byte("tampered"), sig))
}

func TestFromBytes_RoundTrip(t *testing.T) {
	kp, err := keys.Generate()
	require.NoError(t, err)

	restored, err := keys.FromBytes(kp.Verkey, kp.Sigkey)
	require.NoError(t, err)
	assert.Equal(t, kp.Verkey, restored.Verkey)
	assert.Equal(t, kp.Sigkey, restored.Sigkey)
}

func TestFromBytes_WrongLengths(t *testing.T) {
	_, err := keys.FromBytes([]byte("short"), make([]byte, keys.SigkeySize))
	assert.Error(t, err)

	_, err = keys.FromBytes(make([]byte, keys.VerkeySize), []byte("short"))
	assert.Error(t, err)
}
