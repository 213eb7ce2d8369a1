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
	"github.com/ecrypt-io/ecrypt-go/container"
	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
	"github.com/ecrypt-io/ecrypt-go/internal/endian"
	"github.com/ecrypt-io/ecrypt-go/primitives"
)

// contextPayloadSize is session_id(4) + is_client(4) + master_key(32) +
// out_seq(4) + in_seq(4).
const contextPayloadSize = 4 + 4 + primitives.AEADKeySize + 4 + 4

// Save serialises an established session into a container.TagSessionContext
// envelope: session id, client/server role, master key, and both sequence
// numbers. Only an established session can be saved — a handshake in
// progress has no master key yet.
func Save(ctx *Context) ([]byte, error) {
	if ctx.State != StateEstablished {
		return nil, ecrypterr.ErrFail
	}

	payload := make([]byte, contextPayloadSize)
	endian.PutUint32BE(payload[0:4], ctx.SessionID)
	isClient := uint32(0)
	if ctx.IsClient {
		isClient = 1
	}
	endian.PutUint32BE(payload[4:8], isClient)
	copy(payload[8:8+primitives.AEADKeySize], ctx.masterKey)
	off := 8 + primitives.AEADKeySize
	endian.PutUint32BE(payload[off:off+4], ctx.outSeq)
	endian.PutUint32BE(payload[off+4:off+8], ctx.inSeq)

	return container.New(container.TagSessionContext, payload)
}

// Load restores a session previously produced by Save, directly into
// StateEstablished.
//
// Session keys are derived from the master key before the sequence numbers
// are read out of the payload: deriveSessionKeys has no dependency on
// out_seq/in_seq, but reading them out of order would invite a future
// change to deriveSessionKeys growing one without reviewers noticing the
// ordering requirement had been load-bearing all along.
func Load(blob []byte, curve primitives.Curve, callbacks Callbacks) (*Context, error) {
	tag, err := container.Tag(blob)
	if err != nil {
		return nil, ecrypterr.ErrInvalidParameter
	}
	if tag != container.TagSessionContext {
		return nil, ecrypterr.ErrInvalidParameter
	}
	declared, err := container.DataSize(blob)
	if err != nil {
		return nil, ecrypterr.ErrInvalidParameter
	}
	if len(blob) != container.HeaderSize+declared {
		return nil, ecrypterr.ErrInvalidParameter
	}
	if declared != contextPayloadSize {
		return nil, ecrypterr.ErrInvalidParameter
	}
	if err := container.VerifyChecksum(blob); err != nil {
		return nil, err
	}

	payload := container.Data(blob)

	ctx := &Context{
		Curve:     curve,
		callbacks: callbacks,
	}
	ctx.SessionID = endian.Uint32BE(payload[0:4])
	ctx.IsClient = endian.Uint32BE(payload[4:8]) != 0
	ctx.masterKey = make([]byte, primitives.AEADKeySize)
	copy(ctx.masterKey, payload[8:8+primitives.AEADKeySize])

	ctx.deriveSessionKeys()

	off := 8 + primitives.AEADKeySize
	ctx.outSeq = endian.Uint32BE(payload[off : off+4])
	ctx.inSeq = endian.Uint32BE(payload[off+4 : off+8])

	ctx.State = StateEstablished
	return ctx, nil
}
