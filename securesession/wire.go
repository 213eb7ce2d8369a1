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

package securesession

import (
	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
	"github.com/ecrypt-io/ecrypt-go/internal/endian"
)

// connectRequestMsg is the client's first handshake message: its session
// id, an ephemeral ECDH public key, and a signature over both made with
// its long-term signing key.
type connectRequestMsg struct {
	SessionID    uint32
	EphemeralPub []byte
	Signature    []byte
}

func (m *connectRequestMsg) signedTranscript() []byte {
	buf := make([]byte, 4+len(m.EphemeralPub))
	endian.PutUint32BE(buf[:4], m.SessionID)
	copy(buf[4:], m.EphemeralPub)
	return buf
}

func (m *connectRequestMsg) marshal() []byte {
	return marshalLenPrefixed(m.SessionID, m.EphemeralPub, m.Signature)
}

func unmarshalConnectRequest(buf []byte) (*connectRequestMsg, error) {
	sessionID, fields, err := unmarshalLenPrefixed(buf, 2)
	if err != nil {
		return nil, err
	}
	return &connectRequestMsg{SessionID: sessionID, EphemeralPub: fields[0], Signature: fields[1]}, nil
}

// acceptMsg is the server's response: its own ephemeral public key, a
// signature over the full exchange (both public keys), and a confirmation
// HMAC proving it derived the same master key.
type acceptMsg struct {
	SessionID    uint32
	EphemeralPub []byte
	Signature    []byte
	Confirm      []byte
}

func (m *acceptMsg) marshal() []byte {
	return marshalLenPrefixed(m.SessionID, m.EphemeralPub, m.Signature, m.Confirm)
}

func unmarshalAccept(buf []byte) (*acceptMsg, error) {
	sessionID, fields, err := unmarshalLenPrefixed(buf, 3)
	if err != nil {
		return nil, err
	}
	return &acceptMsg{SessionID: sessionID, EphemeralPub: fields[0], Signature: fields[1], Confirm: fields[2]}, nil
}

// finishMsg is the client's handshake acknowledgement: a confirmation HMAC
// proving it, too, derived the master key.
type finishMsg struct {
	SessionID uint32
	Confirm   []byte
}

func (m *finishMsg) marshal() []byte {
	return marshalLenPrefixed(m.SessionID, m.Confirm)
}

func unmarshalFinish(buf []byte) (*finishMsg, error) {
	sessionID, fields, err := unmarshalLenPrefixed(buf, 1)
	if err != nil {
		return nil, err
	}
	return &finishMsg{SessionID: sessionID, Confirm: fields[0]}, nil
}

// marshalLenPrefixed writes sessionID followed by each field as a
// u32-length-prefixed block.
func marshalLenPrefixed(sessionID uint32, fields ...[]byte) []byte {
	size := 4
	for _, f := range fields {
		size += 4 + len(f)
	}
	buf := make([]byte, size)
	endian.PutUint32BE(buf[:4], sessionID)
	off := 4
	for _, f := range fields {
		endian.PutUint32BE(buf[off:off+4], uint32(len(f)))
		off += 4
		off += copy(buf[off:], f)
	}
	return buf
}

func unmarshalLenPrefixed(buf []byte, fieldCount int) (uint32, [][]byte, error) {
	if len(buf) < 4 {
		return 0, nil, ecrypterr.ErrDataCorrupt
	}
	sessionID := endian.Uint32BE(buf[:4])
	off := 4
	fields := make([][]byte, 0, fieldCount)
	for i := 0; i < fieldCount; i++ {
		if len(buf) < off+4 {
			return 0, nil, ecrypterr.ErrDataCorrupt
		}
		n := int(endian.Uint32BE(buf[off : off+4]))
		off += 4
		if n < 0 || len(buf) < off+n {
			return 0, nil, ecrypterr.ErrDataCorrupt
		}
		fields = append(fields, buf[off:off+n])
		off += n
	}
	if off != len(buf) {
		return 0, nil, ecrypterr.ErrDataCorrupt
	}
	return sessionID, fields, nil
}
