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

// Package keys holds a connection's own Ed25519 key material and derives the
// short DID-like identifier other agents address it by.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/mr-tron/base58"
)

// VerkeySize and SigkeySize are the fixed lengths of the two halves of a
// KeyPair: an Ed25519 public key and an Ed25519 private key (seed||public).
const (
	VerkeySize = ed25519.PublicKeySize
	SigkeySize = ed25519.PrivateKeySize
)

// KeyPair is a connection's static Ed25519 identity: Verkey is the public
// signing/encryption-capable key shared with peers, Sigkey is the private
// key used to sign and to derive shared secrets.
type KeyPair struct {
	Verkey ed25519.PublicKey
	Sigkey ed25519.PrivateKey
}

// Generate creates a fresh random Ed25519 KeyPair.
func Generate() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("keys: generate: %w", err)
	}
	return &KeyPair{Verkey: pub, Sigkey: priv}, nil
}

// FromSeed deterministically derives a KeyPair from a 32-byte seed.
func FromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("keys: seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &KeyPair{Verkey: priv.Public().(ed25519.PublicKey), Sigkey: priv}, nil
}

// FromBytes reconstructs a KeyPair from raw verkey/sigkey bytes, as loaded
// from a persisted profile.
func FromBytes(verkey, sigkey []byte) (*KeyPair, error) {
	if len(verkey) != VerkeySize {
		return nil, fmt.Errorf("keys: verkey must be %d bytes, got %d", VerkeySize, len(verkey))
	}
	if len(sigkey) != SigkeySize {
		return nil, fmt.Errorf("keys: sigkey must be %d bytes, got %d", SigkeySize, len(sigkey))
	}
	return &KeyPair{
		Verkey: ed25519.PublicKey(verkey),
		Sigkey: ed25519.PrivateKey(sigkey),
	}, nil
}

// VerkeyB58 returns the base58 encoding of the public verkey, the form peers
// embed in envelope headers and profile files.
func (k *KeyPair) VerkeyB58() string {
	return base58.Encode(k.Verkey)
}

// DID returns the short identifier derived from the first 16 bytes of the
// verkey, mirroring the aries-style `did:key` abbreviation.
func (k *KeyPair) DID() string {
	return base58.Encode(k.Verkey[:16])
}

// Sign produces an Ed25519 signature over msg.
func (k *KeyPair) Sign(msg []byte) []byte {
	return ed25519.Sign(k.Sigkey, msg)
}

// Verify checks an Ed25519 signature against a given verkey.
func Verify(verkey, msg, sig []byte) bool {
	if len(verkey) != VerkeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(verkey), msg, sig)
}

// VerkeyFromB58 decodes a base58-encoded verkey.
func VerkeyFromB58(s string) (ed25519.PublicKey, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("keys: decode verkey: %w", err)
	}
	if len(b) != VerkeySize {
		return nil, fmt.Errorf("keys: decoded verkey must be %d bytes, got %d", VerkeySize, len(b))
	}
	return ed25519.PublicKey(b), nil
}
