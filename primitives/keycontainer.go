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
	"crypto/rsa"
	"crypto/x509"
	"math/big"

	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
)

// KeyKind distinguishes the three shapes a key container can hold. It
// replaces tag-byte dispatch ('R' / 'U' / "EC") with a single parsed
// variant: every container is classified exactly once, at ParseKeyContainer
// time, and every caller downstream switches on Kind instead of re-deriving
// it from raw bytes.
type KeyKind int

const (
	KeyKindRSAPrivate KeyKind = iota
	KeyKindRSAPublic
	KeyKindEC
)

// Container tag prefixes. RSA containers are tagged by a single leading
// byte; EC containers by two bytes followed by a curve-size byte at
// offset 3.
const (
	tagRSAPrivate = 'R'
	tagRSAPublic  = 'U'
)

// KeyContainer is the parsed, tagged-variant result of ParseKeyContainer.
// Exactly one of the RSA* or EC* fields is populated, selected by Kind.
type KeyContainer struct {
	Kind KeyKind

	RSAPrivate *rsa.PrivateKey
	RSAPublic  *rsa.PublicKey

	Curve  Curve
	ECKey  *ecdsa.PrivateKey // populated only when the container held a private EC key
	ECPub  *ecdsa.PublicKey
}

func curveSizes(curve Curve) (compressed, uncompressed, priv int, ok bool) {
	switch curve {
	case CurveP256:
		return 33, 65, 32, true
	case CurveP384:
		return 49, 97, 48, true
	case CurveP521:
		return 67, 133, 66, true
	default:
		return 0, 0, 0, false
	}
}

// ParseKeyContainer classifies raw, a container payload (header already
// stripped by the caller via the container package), by its leading tag
// bytes and validates its length against the EC key length policy before
// decoding coordinates.
//
// raw must be the *payload* region of a container (container.Data), not
// the full buffer including the 12-byte header.
func ParseKeyContainer(raw []byte) (*KeyContainer, error) {
	if len(raw) < 4 {
		return nil, ecrypterr.ErrInvalidParameter
	}

	switch raw[0] {
	case tagRSAPrivate:
		key, err := parseRSAPrivate(raw[4:])
		if err != nil {
			return nil, err
		}
		return &KeyContainer{Kind: KeyKindRSAPrivate, RSAPrivate: key}, nil
	case tagRSAPublic:
		key, err := parseRSAPublic(raw[4:])
		if err != nil {
			return nil, err
		}
		return &KeyContainer{Kind: KeyKindRSAPublic, RSAPublic: key}, nil
	case 'E':
		if raw[1] != 'C' {
			return nil, ecrypterr.ErrInvalidParameter
		}
		return parseECContainer(Curve(raw[3]), raw[4:])
	default:
		return nil, ecrypterr.ErrInvalidParameter
	}
}

func parseECContainer(curve Curve, body []byte) (*KeyContainer, error) {
	compressed, uncompressed, privSize, ok := curveSizes(curve)
	if !ok {
		return nil, ecrypterr.ErrInvalidParameter
	}
	ec, _ := curve.ellipticCurve()

	// A legacy private key body is privSize + 1 bytes with a zero last byte,
	// the same length as a compressed public key; it is told apart by not
	// decoding as a compressed point, and is then parsed as its canonical
	// privSize prefix.
	if len(body) == privSize+1 && body[privSize] == 0 {
		if x, _ := elliptic.UnmarshalCompressed(ec, body); x == nil {
			body = body[:privSize]
		}
	}

	switch len(body) {
	case compressed, uncompressed:
		x, y := elliptic.UnmarshalCompressed(ec, body)
		if x == nil {
			x, y = elliptic.Unmarshal(ec, body)
		}
		if x == nil {
			return nil, ecrypterr.ErrInvalidParameter
		}
		pub := &ecdsa.PublicKey{Curve: ec, X: x, Y: y}
		return &KeyContainer{Kind: KeyKindEC, Curve: curve, ECPub: pub}, nil
	case privSize, privSize + 1:
		// The canonical layout is exactly privSize bytes. The legacy
		// privSize + 1 layout (zero last byte) has already been cut to
		// privSize above, since that length also matches the compressed
		// public key case.
		d := new(big.Int).SetBytes(body[:privSize])
		priv := new(ecdsa.PrivateKey)
		priv.Curve = ec
		priv.D = d
		priv.PublicKey.X, priv.PublicKey.Y = ec.ScalarBaseMult(d.Bytes())
		return &KeyContainer{Kind: KeyKindEC, Curve: curve, ECKey: priv, ECPub: &priv.PublicKey}, nil
	default:
		return nil, ecrypterr.ErrInvalidParameter
	}
}

func parseRSAPrivate(body []byte) (*rsa.PrivateKey, error) {
	if len(body) == 0 {
		return nil, ecrypterr.ErrInvalidParameter
	}
	// ASN.1 DER PKCS#1 RSAPrivateKey, the wire shape this module always
	// writes when it serialises an RSA private key container.
	key, err := x509.ParsePKCS1PrivateKey(body)
	if err != nil {
		return nil, ecrypterr.ErrInvalidParameter
	}
	return key, nil
}

func parseRSAPublic(body []byte) (*rsa.PublicKey, error) {
	if len(body) == 0 {
		return nil, ecrypterr.ErrInvalidParameter
	}
	key, err := x509.ParsePKCS1PublicKey(body)
	if err != nil {
		return nil, ecrypterr.ErrInvalidParameter
	}
	return key, nil
}

// MarshalRSAPrivateContainer serialises priv as a key container payload
// (tag 'R' followed by PKCS#1 DER), ready for container.New.
func MarshalRSAPrivateContainer(priv *rsa.PrivateKey) []byte {
	der := x509.MarshalPKCS1PrivateKey(priv)
	return marshalTagged(tagRSAPrivate, der)
}

// MarshalRSAPublicContainer serialises pub as a key container payload
// (tag 'U' followed by PKCS#1 DER), ready for container.New.
func MarshalRSAPublicContainer(pub *rsa.PublicKey) []byte {
	der := x509.MarshalPKCS1PublicKey(pub)
	return marshalTagged(tagRSAPublic, der)
}

// MarshalECPublicContainer serialises pub as a key container payload
// ("EC" tag + curve byte + uncompressed point), ready for container.New.
func MarshalECPublicContainer(curve Curve, pub *ecdsa.PublicKey) []byte {
	ec, _ := curve.ellipticCurve()
	point := elliptic.Marshal(ec, pub.X, pub.Y)
	return marshalECTagged(curve, point)
}

// MarshalECPrivateContainer serialises priv as a key container payload
// ("EC" tag + curve byte + canonical-length scalar), ready for
// container.New.
func MarshalECPrivateContainer(curve Curve, priv *ecdsa.PrivateKey) []byte {
	_, _, privSize, _ := curveSizes(curve)
	scalar := make([]byte, privSize)
	priv.D.FillBytes(scalar)
	return marshalECTagged(curve, scalar)
}

func marshalTagged(tag byte, body []byte) []byte {
	out := make([]byte, 4+len(body))
	out[0] = tag
	copy(out[4:], body)
	return out
}

func marshalECTagged(curve Curve, body []byte) []byte {
	out := make([]byte, 4+len(body))
	out[0] = 'E'
	out[1] = 'C'
	out[3] = byte(curve)
	copy(out[4:], body)
	return out
}
