// Copyright (C) 2025 ecrypt-io
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package securecell implements authenticated encryption of opaque byte
// blobs in three modes: Seal (self-contained), Token-Protect (detached
// auth token) and Context-Imprint (deterministic, unauthenticated).
package securecell

import (
	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
	"github.com/ecrypt-io/ecrypt-go/internal/endian"
	"github.com/ecrypt-io/ecrypt-go/primitives"
)

// AlgDefault is the only algorithm id this module issues: AES-256-GCM with
// a 12-byte IV and 16-byte tag. Its reserved bits (everything outside bit
// 0) must be zero; bit 0 distinguishes Seal/Token-Protect (1) framing from
// future extension.
const AlgDefault uint32 = 0x00000001

const algReservedMask = ^uint32(0x00000001)

// authTokenFixedSize is the on-wire size of every field except the
// variable-length iv and auth_tag:
//
//	u32 alg + u32 iv_length + u32 auth_tag_length + u32 message_length
const authTokenFixedSize = 4 * 4

// authToken is the non-ciphertext metadata of a Seal / Token-Protect blob,
// per the wire layout in the data model: alg, iv_length, iv,
// auth_tag_length, auth_tag, message_length — all little-endian.
type authToken struct {
	Alg            uint32
	IV             []byte
	AuthTag        []byte
	MessageLength  uint32
}

func (t *authToken) size() int {
	return authTokenFixedSize + len(t.IV) + len(t.AuthTag)
}

func (t *authToken) marshal() []byte {
	buf := make([]byte, t.size())
	off := 0
	endian.PutUint32LE(buf[off:], t.Alg)
	off += 4
	endian.PutUint32LE(buf[off:], uint32(len(t.IV)))
	off += 4
	off += copy(buf[off:], t.IV)
	endian.PutUint32LE(buf[off:], uint32(len(t.AuthTag)))
	off += 4
	off += copy(buf[off:], t.AuthTag)
	endian.PutUint32LE(buf[off:], t.MessageLength)
	return buf
}

func unmarshalAuthToken(buf []byte) (*authToken, error) {
	if len(buf) < authTokenFixedSize {
		return nil, ecrypterr.ErrDataCorrupt
	}
	off := 0
	alg := endian.Uint32LE(buf[off:])
	if alg&algReservedMask != 0 {
		return nil, ecrypterr.ErrFail
	}
	off += 4

	ivLen := int(endian.Uint32LE(buf[off:]))
	off += 4
	if ivLen != primitives.AEADIVSize || len(buf) < off+ivLen+4 {
		return nil, ecrypterr.ErrDataCorrupt
	}
	iv := buf[off : off+ivLen]
	off += ivLen

	tagLen := int(endian.Uint32LE(buf[off:]))
	off += 4
	if tagLen != primitives.AEADTagSize || len(buf) < off+tagLen+4 {
		return nil, ecrypterr.ErrDataCorrupt
	}
	tag := buf[off : off+tagLen]
	off += tagLen

	msgLen := endian.Uint32LE(buf[off:])
	off += 4
	if off != len(buf) {
		return nil, ecrypterr.ErrDataCorrupt
	}

	return &authToken{Alg: alg, IV: iv, AuthTag: tag, MessageLength: msgLen}, nil
}
