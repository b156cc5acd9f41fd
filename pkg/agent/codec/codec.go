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

// Package codec packs Messages into authcrypt/anoncrypt/plaintext envelopes
// and unpacks them back, tagging the result with a Message Trust Context.
//
// The envelope is a from-scratch JWE-shaped AEAD recipe (XChaCha20-Poly1305
// content encryption, per-recipient X25519 ECDH + HKDF key wrapping) built
// entirely from primitives available in this module's dependency tree. It
// is not byte-compatible with libsodium's crypto_box/crypto_box_seal.
package codec

import (
	"crypto/ecdh"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sage-x-project/staticagent/internal/metrics"
	"github.com/sage-x-project/staticagent/pkg/agent/keys"
	"github.com/sage-x-project/staticagent/pkg/agent/message"
)

// packMode names opts for the MessagesPacked metric label.
func packMode(opts Opts) string {
	switch {
	case opts.Plaintext:
		return "plaintext"
	case opts.Anoncrypt:
		return "anoncrypt"
	default:
		return "authcrypt"
	}
}

// Opts controls which envelope mode Pack produces. Anoncrypt and Plaintext
// are mutually exclusive; the zero value packs authcrypt.
type Opts struct {
	Anoncrypt bool
	Plaintext bool
}

func b64(b []byte) string    { return base64.RawURLEncoding.EncodeToString(b) }
func unb64(s string) ([]byte, error) { return base64.RawURLEncoding.DecodeString(s) }

// Pack encrypts msg for one or more recipient verkeys. sender is required
// unless opts.Plaintext or opts.Anoncrypt is set.
func Pack(msg message.Message, sender *keys.KeyPair, recipientVKs [][]byte, opts Opts) ([]byte, error) {
	if opts.Anoncrypt && opts.Plaintext {
		return nil, fmt.Errorf("codec: anoncrypt and plaintext are mutually exclusive")
	}
	if len(recipientVKs) == 0 && !opts.Plaintext {
		return nil, fmt.Errorf("codec: at least one recipient verkey is required")
	}

	body, err := msg.Bytes()
	if err != nil {
		return nil, fmt.Errorf("codec: marshal message: %w", err)
	}

	if opts.Plaintext {
		metrics.MessagesPacked.WithLabelValues(packMode(opts)).Inc()
		return body, nil
	}
	if !opts.Anoncrypt && sender == nil {
		return nil, fmt.Errorf("codec: authcrypt requires a sender key pair")
	}

	cek := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, cek); err != nil {
		return nil, fmt.Errorf("codec: generate cek: %w", err)
	}

	alg := algAuthcrypt
	if opts.Anoncrypt {
		alg = algAnoncrypt
	}

	recipients := make([]recipientEnvelope, 0, len(recipientVKs))
	for _, vk := range recipientVKs {
		renv, err := wrapForRecipient(cek, vk, sender, opts.Anoncrypt)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, *renv)
	}

	header := protectedHeader{Enc: encAlg, Typ: typJWM, Alg: alg, Recipients: recipients}
	headerBytes, err := json.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal protected header: %w", err)
	}
	protected := b64(headerBytes)

	ciphertext, nonce, err := sealXChaCha(cek, body, []byte(protected))
	if err != nil {
		return nil, err
	}

	tagStart := len(ciphertext) - 16
	env := envelope{
		Protected:  protected,
		IV:         b64(nonce),
		CipherText: b64(ciphertext[:tagStart]),
		Tag:        b64(ciphertext[tagStart:]),
	}

	out, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal envelope: %w", err)
	}
	metrics.MessagesPacked.WithLabelValues(packMode(opts)).Inc()
	return out, nil
}

// wrapForRecipient generates an ephemeral X25519 key pair, ECDHs it against
// the recipient's verkey (converted to X25519), and seals cek under the
// resulting HKDF-derived wrapping key. For authcrypt it additionally seals
// the sender's static verkey under a second key derived from that same
// ephemeral/recipient shared secret (see sealSenderIdentity).
func wrapForRecipient(cek, recipientVK []byte, sender *keys.KeyPair, anon bool) (*recipientEnvelope, error) {
	recipientPub, err := ed25519PublicToX25519(ed25519.PublicKey(recipientVK))
	if err != nil {
		return nil, err
	}

	ephPriv, err := ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("codec: generate ephemeral key: %w", err)
	}

	shared, err := ecdhSharedSecret(ephPriv, recipientPub)
	if err != nil {
		return nil, err
	}
	wrapKey, err := deriveWrappingKey(shared, hkdfWrapInfo)
	if err != nil {
		return nil, err
	}

	sealed, nonce, err := sealXChaCha(wrapKey, cek, nil)
	if err != nil {
		return nil, err
	}

	renv := &recipientEnvelope{
		EncryptedKey: b64(append(append([]byte{}, ephPriv.PublicKey().Bytes()...), sealed...)),
		Header: recipientHeader{
			KID: keysB58(recipientVK),
			IV:  b64(nonce),
		},
	}

	if !anon {
		senderSealed, err := sealSenderIdentity(sender, shared)
		if err != nil {
			return nil, err
		}
		renv.Header.Sender = senderSealed
	}

	return renv, nil
}

// sealSenderIdentity seals the sender's static verkey under a key derived
// from the same per-recipient ephemeral shared secret used to wrap the CEK
// (domain-separated by a distinct HKDF info string), rather than a second
// DH keyed by the sender's own static key: the recipient cannot compute
// that second DH until it has already recovered the sender's public key,
// so reusing the ephemeral/recipient shared secret is what makes the seal
// recoverable in one pass.
func sealSenderIdentity(sender *keys.KeyPair, ephemeralShared []byte) (string, error) {
	key, err := deriveWrappingKey(ephemeralShared, hkdfSenderInfo)
	if err != nil {
		return "", err
	}
	sealed, nonce, err := sealXChaCha(key, sender.Verkey, nil)
	if err != nil {
		return "", err
	}
	return b64(append(append([]byte{}, nonce...), sealed...)), nil
}

// Unpack attempts authcrypt/anoncrypt decryption against own's key, falling
// back to treating data as an unencrypted plaintext Message when it is not
// an envelope at all (not JSON of the envelope shape, or no "protected"
// field). An envelope with no recipient entry addressed to own is an
// error, and so is one whose AEAD tag fails to verify: neither is a
// plaintext fallback, since the input is an envelope rather than an
// unencrypted message.
func Unpack(data []byte, own *keys.KeyPair) (message.Message, message.MTC, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Protected == "" {
		msg, perr := message.Parse(data)
		if perr != nil {
			return nil, message.MTC{}, fmt.Errorf("codec: not a valid envelope or plaintext message: %w", perr)
		}
		return msg, message.Plaintext(), nil
	}

	headerBytes, err := unb64(env.Protected)
	if err != nil {
		return nil, message.MTC{}, fmt.Errorf("codec: decode protected header: %w", err)
	}
	var header protectedHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, message.MTC{}, fmt.Errorf("codec: parse protected header: %w", err)
	}

	ownX25519Priv, err := ed25519PrivateToX25519(own.Sigkey)
	if err != nil {
		return nil, message.MTC{}, err
	}
	ownKID := keysB58(own.Verkey)

	for _, r := range header.Recipients {
		if r.Header.KID != ownKID {
			continue
		}
		cek, senderVK, err := unwrapRecipient(r, ownX25519Priv)
		if err != nil {
			return nil, message.MTC{}, fmt.Errorf("codec: unwrap recipient entry: %w", err)
		}

		nonce, err := unb64(env.IV)
		if err != nil {
			return nil, message.MTC{}, fmt.Errorf("codec: decode iv: %w", err)
		}
		ciphertext, err := unb64(env.CipherText)
		if err != nil {
			return nil, message.MTC{}, fmt.Errorf("codec: decode ciphertext: %w", err)
		}
		tag, err := unb64(env.Tag)
		if err != nil {
			return nil, message.MTC{}, fmt.Errorf("codec: decode tag: %w", err)
		}

		body, err := openXChaCha(cek, nonce, append(ciphertext, tag...), []byte(env.Protected))
		if err != nil {
			return nil, message.MTC{}, fmt.Errorf("codec: decrypt body: %w", err)
		}

		msg, err := message.Parse(body)
		if err != nil {
			return nil, message.MTC{}, fmt.Errorf("codec: parse decrypted body: %w", err)
		}

		mtc := message.MTC{RecipientVK: own.Verkey}
		if senderVK != nil {
			mtc.Kind = message.AuthcryptKind
			mtc.SenderVK = senderVK
		} else {
			mtc.Kind = message.AnoncryptKind
		}
		return msg, mtc, nil
	}

	return nil, message.MTC{}, fmt.Errorf("codec: no recipient entry addressed to this key")
}

// unwrapRecipient recovers the CEK (and, for authcrypt, the sender verkey)
// from a single recipient entry.
func unwrapRecipient(r recipientEnvelope, ownPriv *ecdh.PrivateKey) (cek, senderVK []byte, err error) {
	encKey, err := unb64(r.EncryptedKey)
	if err != nil {
		return nil, nil, fmt.Errorf("decode encrypted_key: %w", err)
	}
	if len(encKey) < 32 {
		return nil, nil, fmt.Errorf("encrypted_key too short")
	}
	ephPubBytes, sealed := encKey[:32], encKey[32:]

	ephPub, err := ecdh.X25519().NewPublicKey(ephPubBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("parse ephemeral public key: %w", err)
	}

	shared, err := ecdhSharedSecret(ownPriv, ephPub)
	if err != nil {
		return nil, nil, err
	}
	wrapKey, err := deriveWrappingKey(shared, hkdfWrapInfo)
	if err != nil {
		return nil, nil, err
	}

	nonce, err := unb64(r.Header.IV)
	if err != nil {
		return nil, nil, fmt.Errorf("decode iv: %w", err)
	}

	cek, err = openXChaCha(wrapKey, nonce, sealed, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("unwrap cek: %w", err)
	}

	if r.Header.Sender == "" {
		return cek, nil, nil
	}

	senderVK, err = recoverSenderIdentity(r.Header.Sender, shared)
	if err != nil {
		return nil, nil, fmt.Errorf("recover sender identity: %w", err)
	}
	return cek, senderVK, nil
}

// recoverSenderIdentity reverses sealSenderIdentity using the same
// ephemeral/recipient shared secret the caller already derived for the CEK
// unwrap.
func recoverSenderIdentity(sealed string, ephemeralShared []byte) ([]byte, error) {
	raw, err := unb64(sealed)
	if err != nil {
		return nil, fmt.Errorf("decode sender field: %w", err)
	}
	if len(raw) < 24 {
		return nil, fmt.Errorf("sender field too short")
	}
	nonce, ciphertext := raw[:24], raw[24:]

	key, err := deriveWrappingKey(ephemeralShared, hkdfSenderInfo)
	if err != nil {
		return nil, err
	}
	return openXChaCha(key, nonce, ciphertext, nil)
}

func keysB58(vk []byte) string {
	kp := keys.KeyPair{Verkey: vk}
	return kp.VerkeyB58()
}
