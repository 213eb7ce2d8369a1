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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"

	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
)

// Curve identifies one of the NIST curves the module issues EC keys over.
// The numeric value is also the curve byte stored in EC key containers.
type Curve byte

const (
	CurveP256 Curve = 0
	CurveP384 Curve = 1
	CurveP521 Curve = 2
)

func (c Curve) ellipticCurve() (elliptic.Curve, bool) {
	switch c {
	case CurveP256:
		return elliptic.P256(), true
	case CurveP384:
		return elliptic.P384(), true
	case CurveP521:
		return elliptic.P521(), true
	default:
		return nil, false
	}
}

// GenerateECDSAKeyPair generates a private key on the given curve.
func GenerateECDSAKeyPair(curve Curve) (*ecdsa.PrivateKey, error) {
	ec, ok := curve.ellipticCurve()
	if !ok {
		return nil, ecrypterr.ErrInvalidParameter
	}
	key, err := ecdsa.GenerateKey(ec, rand.Reader)
	if err != nil {
		return nil, ecrypterr.ErrFail
	}
	return key, nil
}

// ECDSASign signs message (hashed internally with SHA-256, regardless of
// curve, matching the reference implementation's fixed digest choice) and
// returns an ASN.1 DER-encoded signature.
func ECDSASign(priv *ecdsa.PrivateKey, message []byte) ([]byte, error) {
	digest := sha256.Sum256(message)
	sig, err := ecdsa.SignASN1(rand.Reader, priv, digest[:])
	if err != nil {
		return nil, ecrypterr.ErrFail
	}
	return sig, nil
}

// ECDSAVerify verifies sig over message against pub. Any outcome other than
// an affirmatively successful verification — malformed signature included —
// is reported uniformly as ErrInvalidSignature, mirroring the reference
// verifier's "default case" fallthrough.
func ECDSAVerify(pub *ecdsa.PublicKey, message, sig []byte) error {
	digest := sha256.Sum256(message)
	if !ecdsa.VerifyASN1(pub, digest[:], sig) {
		return ecrypterr.ErrInvalidSignature
	}
	return nil
}
