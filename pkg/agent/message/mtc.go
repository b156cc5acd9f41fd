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

package message

// Kind identifies which envelope mode produced a message, as observed by
// the codec during Unpack.
type Kind int

const (
	// PlaintextKind means the codec received a bare JSON message with no
	// envelope at all (unpack found nothing to decrypt and parsed the bytes
	// as a Message directly).
	PlaintextKind Kind = iota
	// AnoncryptKind means the envelope decrypted successfully but carried
	// no recoverable sender identity.
	AnoncryptKind
	// AuthcryptKind means the envelope decrypted and the sender's verkey
	// was recovered from the authcrypt header.
	AuthcryptKind
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case PlaintextKind:
		return "plaintext"
	case AnoncryptKind:
		return "anoncrypt"
	case AuthcryptKind:
		return "authcrypt"
	default:
		return "unknown"
	}
}

// TrustFlag is a bitmask handlers may consult (but this package never
// interprets) to record whether an out-of-band trust decision about the
// envelope's crypto mode has been affirmed or denied by some other
// collaborator.
type TrustFlag uint8

const (
	AuthcryptAffirmed TrustFlag = 1 << iota
	AuthcryptDenied
	AnoncryptAffirmed
	AnoncryptDenied
)

// MTC (Message Trust Context) carries what the codec learned while
// unpacking an envelope: the crypto mode, the sender/recipient verkeys it
// could recover, and a flag set for handlers to layer policy on top of.
// Its algebra (what affirmed/denied combinations mean) is out of scope here.
type MTC struct {
	Kind         Kind
	SenderVK     []byte
	RecipientVK  []byte
	Flags        TrustFlag
}

// Plaintext returns the MTC for an unencrypted message.
func Plaintext() MTC {
	return MTC{Kind: PlaintextKind}
}

// Affirm sets the given flag bits.
func (m *MTC) Affirm(f TrustFlag) {
	m.Flags |= f
}

// Has reports whether all bits in f are set.
func (m MTC) Has(f TrustFlag) bool {
	return m.Flags&f == f
}

// mtcKey is the Message field the codec's caller stashes the MTC under
// after Unpack. It is not part of the wire format: nothing re-marshals a
// Message carrying one back out over the wire.
const mtcKey = "~mtc"

// SetMTC attaches mtc to m, as the receive path does immediately after a
// successful Unpack.
func (m Message) SetMTC(mtc MTC) {
	m[mtcKey] = mtc
}

// GetMTC returns the MTC previously attached with SetMTC, if any.
func (m Message) GetMTC() (MTC, bool) {
	v, ok := m[mtcKey].(MTC)
	return v, ok
}
