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

package primitives

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/sha256"

	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
)

// EphemeralKeyPair is an ephemeral ECDH key pair used once per handshake
// and discarded, never persisted through the container format.
type EphemeralKeyPair struct {
	Private *ecdh.PrivateKey
	Public  *ecdh.PublicKey
}

func curveFor(c Curve) (ecdh.Curve, bool) {
	switch c {
	case CurveP256:
		return ecdh.P256(), true
	case CurveP384:
		return ecdh.P384(), true
	case CurveP521:
		return ecdh.P521(), true
	default:
		return nil, false
	}
}

// GenerateEphemeralKeyPair generates a fresh ECDH key pair on curve, for use
// as one side of a single handshake.
func GenerateEphemeralKeyPair(curve Curve) (*EphemeralKeyPair, error) {
	ec, ok := curveFor(curve)
	if !ok {
		return nil, ecrypterr.ErrInvalidParameter
	}
	priv, err := ec.GenerateKey(rand.Reader)
	if err != nil {
		return nil, ecrypterr.ErrFail
	}
	return &EphemeralKeyPair{Private: priv, Public: priv.PublicKey()}, nil
}

// DeriveHandshakeSecret computes SHA-256(ECDH(priv, peerPublic)), the shared
// secret the handshake state machine feeds into the session KDF.
func DeriveHandshakeSecret(priv *ecdh.PrivateKey, peerPublic []byte) ([]byte, error) {
	peer, err := priv.Curve().NewPublicKey(peerPublic)
	if err != nil {
		return nil, ecrypterr.ErrInvalidParameter
	}
	raw, err := priv.ECDH(peer)
	if err != nil {
		return nil, ecrypterr.ErrFail
	}
	sum := sha256.Sum256(raw)
	return sum[:], nil
}
