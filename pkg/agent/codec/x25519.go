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

package codec

import (
	"crypto/ecdh"
	"crypto/ed25519"
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"
)

// ed25519PrivateToX25519 derives the X25519 scalar matching an Ed25519
// signing key, the same birational-map technique libsodium's
// crypto_sign_ed25519_sk_to_curve25519 uses: hash the 32-byte seed with
// SHA-512 and clamp the low half per RFC 7748/8032.
func ed25519PrivateToX25519(priv ed25519.PrivateKey) (*ecdh.PrivateKey, error) {
	seed := priv.Seed()
	h := sha512.Sum512(seed)

	scalar := make([]byte, 32)
	copy(scalar, h[:32])
	scalar[0] &= 248
	scalar[31] &= 127
	scalar[31] |= 64

	key, err := ecdh.X25519().NewPrivateKey(scalar)
	if err != nil {
		return nil, fmt.Errorf("codec: derive x25519 private key: %w", err)
	}
	return key, nil
}

// ed25519PublicToX25519 converts an Ed25519 verification key's twisted
// Edwards point into the Montgomery u-coordinate X25519 uses, matching
// libsodium's crypto_sign_ed25519_pk_to_curve25519.
func ed25519PublicToX25519(pub ed25519.PublicKey) (*ecdh.PublicKey, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("codec: verkey must be %d bytes, got %d", ed25519.PublicKeySize, len(pub))
	}

	p, err := new(edwards25519.Point).SetBytes(pub)
	if err != nil {
		return nil, fmt.Errorf("codec: invalid edwards25519 point: %w", err)
	}

	key, err := ecdh.X25519().NewPublicKey(p.BytesMontgomery())
	if err != nil {
		return nil, fmt.Errorf("codec: derive x25519 public key: %w", err)
	}
	return key, nil
}
