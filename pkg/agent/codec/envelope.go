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
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	encAlg        = "xchacha20poly1305"
	typJWM        = "JWM/1.0"
	algAuthcrypt  = "Authcrypt"
	algAnoncrypt  = "Anoncrypt"
	hkdfWrapInfo  = "staticagent/wrap/v1"
	hkdfSenderInfo = "staticagent/sender/v1"
)

// envelope is the outer JWE-shaped object Pack produces and Unpack consumes.
type envelope struct {
	Protected  string `json:"protected"`
	IV         string `json:"iv"`
	CipherText string `json:"ciphertext"`
	Tag        string `json:"tag"`
}

// protectedHeader is base64url-JSON-encoded into envelope.Protected and also
// used verbatim as AAD for the content encryption.
type protectedHeader struct {
	Enc        string              `json:"enc"`
	Typ        string              `json:"typ"`
	Alg        string              `json:"alg"`
	Recipients []recipientEnvelope `json:"recipients"`
}

type recipientEnvelope struct {
	EncryptedKey string          `json:"encrypted_key"`
	Header       recipientHeader `json:"header"`
}

type recipientHeader struct {
	KID    string `json:"kid"`
	IV     string `json:"iv"`
	Sender string `json:"sender,omitempty"`
}

// sealXChaCha encrypts plaintext under key with a fresh random 24-byte
// nonce, returning (ciphertext||tag, nonce).
func sealXChaCha(key, plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, nil, fmt.Errorf("codec: init aead: %w", err)
	}
	nonce = make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, fmt.Errorf("codec: generate nonce: %w", err)
	}
	ciphertext = aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// openXChaCha reverses sealXChaCha.
func openXChaCha(key, nonce, ciphertext, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("codec: init aead: %w", err)
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("codec: aead open: %w", err)
	}
	return plaintext, nil
}

// deriveWrappingKey runs HKDF-SHA256 over an ECDH shared secret to produce a
// 32-byte symmetric key, scoped by info so the CEK-wrapping key and the
// sender-identity-sealing key can never collide even when derived from the
// same shared secret.
func deriveWrappingKey(shared []byte, info string) ([]byte, error) {
	kdf := hkdf.New(sha256.New, shared, nil, []byte(info))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("codec: hkdf expand: %w", err)
	}
	return key, nil
}

// ecdhSharedSecret computes X25519(priv, pub).
func ecdhSharedSecret(priv *ecdh.PrivateKey, pub *ecdh.PublicKey) ([]byte, error) {
	secret, err := priv.ECDH(pub)
	if err != nil {
		return nil, fmt.Errorf("codec: ecdh: %w", err)
	}
	return secret, nil
}
