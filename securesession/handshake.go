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
	"crypto/ecdh"
	"crypto/hmac"
	"crypto/sha256"

	"time"

	"github.com/google/uuid"

	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
	"github.com/ecrypt-io/ecrypt-go/internal/endian"
	"github.com/ecrypt-io/ecrypt-go/internal/logger"
	"github.com/ecrypt-io/ecrypt-go/internal/metrics"
	"github.com/ecrypt-io/ecrypt-go/internal/wipe"
	"github.com/ecrypt-io/ecrypt-go/primitives"
)

const masterKeyLabel = "Ecrypt secure session master key"

const ecdsaAlgorithmLabel = "ecdsa"

// Connect drives the client side of the handshake to completion,
// synchronously, through ctx.callbacks. On success ctx.State is
// StateEstablished and wrap/unwrap become usable; on any failure ctx.State
// is left at StateNegotiating and the caller may retry or abandon.
func (ctx *Context) Connect() (err error) {
	start := time.Now()
	handshakeID := uuid.NewString()
	defer func() {
		metrics.CryptoOperations.WithLabelValues("handshake_connect", ecdsaAlgorithmLabel).Inc()
		metrics.CryptoOperationDuration.WithLabelValues("handshake_connect", ecdsaAlgorithmLabel).Observe(time.Since(start).Seconds())
		metrics.GlobalCollector().RecordHandshake(err == nil, time.Since(start))
		if err != nil {
			metrics.CryptoErrors.WithLabelValues("handshake_connect", "fail").Inc()
			logger.Warn("handshake connect failed",
				logger.String("handshake_id", handshakeID),
				logger.Int("session_id", int(ctx.SessionID)),
				logger.Error(err))
			return
		}
		logger.Info("handshake connect established",
			logger.String("handshake_id", handshakeID),
			logger.Int("session_id", int(ctx.SessionID)),
			logger.Duration("elapsed", time.Since(start)))
	}()

	if !ctx.IsClient || ctx.State != StateNegotiating {
		return ecrypterr.ErrFail
	}

	ephemeral, err := primitives.GenerateEphemeralKeyPair(ctx.Curve)
	if err != nil {
		return err
	}
	ctx.ephemeral = ephemeral

	req := &connectRequestMsg{SessionID: ctx.SessionID, EphemeralPub: ephemeral.Public.Bytes()}
	sig, err := primitives.ECDSASign(ctx.SigningKey, req.signedTranscript())
	if err != nil {
		return err
	}
	req.Signature = sig

	if err := ctx.callbacks.Send(req.marshal()); err != nil {
		return ecrypterr.ErrFail
	}

	respBytes, err := ctx.callbacks.Receive()
	if err != nil {
		return ecrypterr.ErrFail
	}
	accept, err := unmarshalAccept(respBytes)
	if err != nil {
		return err
	}
	if accept.SessionID != ctx.SessionID {
		return ecrypterr.ErrDataCorrupt
	}

	serverKey, err := ctx.callbacks.GetPublicKeyForID(ctx.SessionID)
	if err != nil {
		return ecrypterr.ErrFail
	}
	transcript := handshakeTranscript(ctx.SessionID, req.EphemeralPub, accept.EphemeralPub)
	if err := primitives.ECDSAVerify(serverKey, transcript, accept.Signature); err != nil {
		return err
	}

	masterKey, err := deriveMasterKey(ephemeral.Private, accept.EphemeralPub, transcript)
	if err != nil {
		return err
	}

	if !hmac.Equal(accept.Confirm, confirmationTag(masterKey, transcript, "server")) {
		wipe.Bytes(masterKey)
		return ecrypterr.ErrInvalidSignature
	}

	finish := &finishMsg{SessionID: ctx.SessionID, Confirm: confirmationTag(masterKey, transcript, "client")}
	if err := ctx.callbacks.Send(finish.marshal()); err != nil {
		wipe.Bytes(masterKey)
		return ecrypterr.ErrFail
	}

	ctx.establish(masterKey)
	return nil
}

// Accept drives the server side of the handshake to completion,
// synchronously, through ctx.callbacks.
func (ctx *Context) Accept() (err error) {
	start := time.Now()
	handshakeID := uuid.NewString()
	defer func() {
		metrics.CryptoOperations.WithLabelValues("handshake_accept", ecdsaAlgorithmLabel).Inc()
		metrics.CryptoOperationDuration.WithLabelValues("handshake_accept", ecdsaAlgorithmLabel).Observe(time.Since(start).Seconds())
		metrics.GlobalCollector().RecordHandshake(err == nil, time.Since(start))
		if err != nil {
			metrics.CryptoErrors.WithLabelValues("handshake_accept", "fail").Inc()
			logger.Warn("handshake accept failed",
				logger.String("handshake_id", handshakeID),
				logger.Int("session_id", int(ctx.SessionID)),
				logger.Error(err))
			return
		}
		logger.Info("handshake accept established",
			logger.String("handshake_id", handshakeID),
			logger.Int("session_id", int(ctx.SessionID)),
			logger.Duration("elapsed", time.Since(start)))
	}()

	if ctx.IsClient || ctx.State != StateAccepting {
		return ecrypterr.ErrFail
	}

	reqBytes, err := ctx.callbacks.Receive()
	if err != nil {
		return ecrypterr.ErrFail
	}
	req, err := unmarshalConnectRequest(reqBytes)
	if err != nil {
		return err
	}
	ctx.SessionID = req.SessionID

	clientKey, err := ctx.callbacks.GetPublicKeyForID(req.SessionID)
	if err != nil {
		return ecrypterr.ErrFail
	}
	if err := primitives.ECDSAVerify(clientKey, req.signedTranscript(), req.Signature); err != nil {
		return err
	}

	ephemeral, err := primitives.GenerateEphemeralKeyPair(ctx.Curve)
	if err != nil {
		return err
	}
	ctx.ephemeral = ephemeral

	transcript := handshakeTranscript(ctx.SessionID, req.EphemeralPub, ephemeral.Public.Bytes())
	masterKey, err := deriveMasterKey(ephemeral.Private, req.EphemeralPub, transcript)
	if err != nil {
		return err
	}

	sig, err := primitives.ECDSASign(ctx.SigningKey, transcript)
	if err != nil {
		wipe.Bytes(masterKey)
		return err
	}
	accept := &acceptMsg{
		SessionID:    ctx.SessionID,
		EphemeralPub: ephemeral.Public.Bytes(),
		Signature:    sig,
		Confirm:      confirmationTag(masterKey, transcript, "server"),
	}
	if err := ctx.callbacks.Send(accept.marshal()); err != nil {
		wipe.Bytes(masterKey)
		return ecrypterr.ErrFail
	}

	finishBytes, err := ctx.callbacks.Receive()
	if err != nil {
		wipe.Bytes(masterKey)
		return ecrypterr.ErrFail
	}
	finish, err := unmarshalFinish(finishBytes)
	if err != nil {
		wipe.Bytes(masterKey)
		return err
	}
	if !hmac.Equal(finish.Confirm, confirmationTag(masterKey, transcript, "client")) {
		wipe.Bytes(masterKey)
		return ecrypterr.ErrInvalidSignature
	}

	ctx.establish(masterKey)
	return nil
}

func handshakeTranscript(sessionID uint32, clientPub, serverPub []byte) []byte {
	buf := make([]byte, 4+len(clientPub)+len(serverPub))
	endian.PutUint32BE(buf[:4], sessionID)
	off := 4
	off += copy(buf[off:], clientPub)
	copy(buf[off:], serverPub)
	return buf
}

// deriveMasterKey computes the ECDH shared secret between priv and
// peerPub, then binds it to the handshake transcript via the module KDF,
// producing the 32-byte session master key.
func deriveMasterKey(priv *ecdh.PrivateKey, peerPub, transcript []byte) ([]byte, error) {
	shared, err := primitives.DeriveHandshakeSecret(priv, peerPub)
	if err != nil {
		return nil, err
	}
	defer wipe.Bytes(shared)

	masterKey := make([]byte, primitives.AEADKeySize)
	if err := primitives.DeriveKey(masterKey, shared, masterKeyLabel, transcript); err != nil {
		wipe.Bytes(masterKey)
		return nil, err
	}
	return masterKey, nil
}

func confirmationTag(masterKey, transcript []byte, role string) []byte {
	mac := hmac.New(sha256.New, masterKey)
	mac.Write(transcript)
	mac.Write([]byte(role))
	return mac.Sum(nil)
}

// establish finalises a successful handshake: records the master key,
// derives the steady-state in/out keys, resets sequence numbers, and
// transitions to StateEstablished.
func (ctx *Context) establish(masterKey []byte) {
	ctx.masterKey = masterKey
	ctx.deriveSessionKeys()
	ctx.outSeq = 0
	ctx.inSeq = 0
	ctx.State = StateEstablished
	if ctx.callbacks != nil {
		ctx.callbacks.StateChanged(StateEstablished)
	}
}
