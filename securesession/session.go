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
	"crypto/rand"
	"math"
	"time"

	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
	"github.com/ecrypt-io/ecrypt-go/internal/endian"
	"github.com/ecrypt-io/ecrypt-go/internal/logger"
	"github.com/ecrypt-io/ecrypt-go/internal/metrics"
	"github.com/ecrypt-io/ecrypt-go/internal/wipe"
	"github.com/ecrypt-io/ecrypt-go/primitives"
)

const aesGCMAlgorithmLabel = "aes256gcm"

const (
	clientToServerKeyLabel = "Ecrypt secure session client to server key"
	serverToClientKeyLabel = "Ecrypt secure session server to client key"
)

// wrapAuxData is the fixed per-frame overhead: seq(4) + timestamp(8) +
// iv(12) + tag(16). The session id is not carried on the wire at all —
// both ends already hold it in their respective contexts — but it is
// folded into the AEAD associated data alongside seq and timestamp so a
// frame spliced from a different session, or with a doctored sequence
// number or timestamp, fails authentication rather than silently
// decrypting.
const wrapAuxData = 4 + 8 + primitives.AEADIVSize + primitives.AEADTagSize

// deriveSessionKeys computes the steady-state directional keys from the
// handshake master key. Keys are named by direction (client->server,
// server->client) rather than by side, so ctx.outKey/ctx.inKey pick the
// right one depending on ctx.IsClient. Must run before any sequence number
// is read or assigned — loaded sequence numbers are meaningless without
// the keys they were paired with.
func (ctx *Context) deriveSessionKeys() {
	var sessionIDBuf [4]byte
	endian.PutUint32BE(sessionIDBuf[:], ctx.SessionID)

	clientKey := make([]byte, primitives.AEADKeySize)
	_ = primitives.DeriveKey(clientKey, ctx.masterKey, clientToServerKeyLabel, sessionIDBuf[:])

	serverKey := make([]byte, primitives.AEADKeySize)
	_ = primitives.DeriveKey(serverKey, ctx.masterKey, serverToClientKeyLabel, sessionIDBuf[:])

	if ctx.IsClient {
		ctx.outKey, ctx.inKey = clientKey, serverKey
	} else {
		ctx.outKey, ctx.inKey = serverKey, clientKey
	}
}

func (ctx *Context) frameAAD(seq uint32, timestamp uint64) []byte {
	aad := make([]byte, 4+4+8)
	endian.PutUint32BE(aad[0:4], ctx.SessionID)
	endian.PutUint32BE(aad[4:8], seq)
	endian.PutUint64BE(aad[8:16], timestamp)
	return aad
}

// Wrap encrypts and authenticates plaintext as the next message in the
// outbound direction. The wire frame is
//
//	seq(4, BE) || timestamp(8, BE) || iv(12) || ciphertext(N) || tag(16)
//
// for a total of N+40 bytes.
func (ctx *Context) Wrap(plaintext []byte) ([]byte, error) {
	metrics.CryptoOperations.WithLabelValues("wrap", aesGCMAlgorithmLabel).Inc()
	metrics.GlobalCollector().RecordWrap()

	if ctx.State != StateEstablished {
		metrics.CryptoErrors.WithLabelValues("wrap", "fail").Inc()
		return nil, ecrypterr.ErrFail
	}
	if ctx.outSeq == math.MaxUint32 {
		ctx.State = StateTerminated
		if ctx.callbacks != nil {
			ctx.callbacks.StateChanged(StateTerminated)
		}
		metrics.CryptoErrors.WithLabelValues("wrap", "fail").Inc()
		return nil, ecrypterr.ErrFail
	}

	seq := ctx.outSeq
	timestamp := uint64(time.Now().Unix())

	iv := make([]byte, primitives.AEADIVSize)
	if _, err := rand.Read(iv); err != nil {
		metrics.CryptoErrors.WithLabelValues("wrap", "no_memory").Inc()
		return nil, ecrypterr.ErrNoMemory
	}

	aad := ctx.frameAAD(seq, timestamp)
	ciphertext, tag, err := primitives.Seal(ctx.outKey, iv, aad, plaintext)
	if err != nil {
		metrics.CryptoErrors.WithLabelValues("wrap", "fail").Inc()
		return nil, err
	}

	frame := make([]byte, wrapAuxData+len(plaintext))
	endian.PutUint32BE(frame[0:4], seq)
	endian.PutUint64BE(frame[4:12], timestamp)
	copy(frame[12:12+primitives.AEADIVSize], iv)
	off := 12 + primitives.AEADIVSize
	off += copy(frame[off:], ciphertext)
	copy(frame[off:], tag)

	ctx.outSeq++
	return frame, nil
}

// Unwrap authenticates and decrypts a frame produced by the peer's Wrap.
//
// Sequence numbers are enforced strictly monotonic with no reordering
// window: a frame whose seq does not exactly match ctx.inSeq is rejected.
// A failed unwrap does not terminate the session — the source this module
// is modelled on leaves the state machine untouched on unwrap failure, so
// a transient delivery error (duplicate, corrupt frame) does not burn the
// channel; callers that want to retire a session after repeated failures
// are expected to track that themselves and call Close.
func (ctx *Context) Unwrap(frame []byte) ([]byte, error) {
	if ctx.State != StateEstablished {
		metrics.GlobalCollector().RecordUnwrap(false, false)
		metrics.CryptoErrors.WithLabelValues("unwrap", "fail").Inc()
		return nil, ecrypterr.ErrFail
	}
	if len(frame) < wrapAuxData {
		metrics.GlobalCollector().RecordUnwrap(false, false)
		metrics.CryptoErrors.WithLabelValues("unwrap", "data_corrupt").Inc()
		return nil, ecrypterr.ErrDataCorrupt
	}

	seq := endian.Uint32BE(frame[0:4])
	timestamp := endian.Uint64BE(frame[4:12])
	iv := frame[12 : 12+primitives.AEADIVSize]
	body := frame[12+primitives.AEADIVSize:]
	ciphertext := body[:len(body)-primitives.AEADTagSize]
	tag := body[len(body)-primitives.AEADTagSize:]

	if seq != ctx.inSeq {
		metrics.GlobalCollector().RecordUnwrap(false, true)
		metrics.SessionSequenceGap.Inc()
		metrics.CryptoErrors.WithLabelValues("unwrap", "invalid_signature").Inc()
		logger.Warn("unwrap sequence mismatch",
			logger.Int("session_id", int(ctx.SessionID)),
			logger.Int("expected_seq", int(ctx.inSeq)),
			logger.Int("received_seq", int(seq)))
		return nil, ecrypterr.ErrInvalidSignature
	}

	aad := ctx.frameAAD(seq, timestamp)
	plaintext, err := primitives.Open(ctx.inKey, iv, aad, ciphertext, tag)
	if err != nil {
		metrics.GlobalCollector().RecordUnwrap(false, false)
		metrics.CryptoErrors.WithLabelValues("unwrap", "invalid_signature").Inc()
		logger.Warn("unwrap authentication failed",
			logger.Int("session_id", int(ctx.SessionID)),
			logger.Int("seq", int(seq)))
		return nil, err
	}

	ctx.inSeq++
	metrics.GlobalCollector().RecordUnwrap(true, false)
	metrics.CryptoOperations.WithLabelValues("unwrap", aesGCMAlgorithmLabel).Inc()
	return plaintext, nil
}

// Close wipes the session's master and directional keys and transitions
// the session to StateTerminated. Wrap and Unwrap refuse to run once
// terminated.
func (ctx *Context) Close() {
	if ctx.State == StateTerminated {
		return
	}
	wipe.Bytes(ctx.masterKey)
	wipe.Bytes(ctx.outKey)
	wipe.Bytes(ctx.inKey)
	ctx.masterKey = nil
	ctx.outKey = nil
	ctx.inKey = nil
	ctx.State = StateTerminated
	if ctx.callbacks != nil {
		ctx.callbacks.StateChanged(StateTerminated)
	}
}
