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
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"

	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
)

// RSAPublicExponent is the only exponent the module ever generates keys
// with.
const RSAPublicExponent = 65537

// RSAAllowedBits enumerates the modulus sizes GenerateRSAKeyPair will
// generate, matching the size ladder offered by the reference key generator.
// Parsing, encryption and verification do not check modulus size.
var RSAAllowedBits = []int{1024, 2048, 4096, 8192}

// GenerateRSAKeyPair generates an RSA private key of the given modulus
// size. bits must be one of RSAAllowedBits.
func GenerateRSAKeyPair(bits int) (*rsa.PrivateKey, error) {
	if !rsaBitsAllowed(bits) {
		return nil, ecrypterr.ErrInvalidParameter
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, ecrypterr.ErrFail
	}
	if key.PublicKey.E != RSAPublicExponent {
		return nil, ecrypterr.ErrFail
	}
	return key, nil
}

func rsaBitsAllowed(bits int) bool {
	for _, b := range RSAAllowedBits {
		if b == bits {
			return true
		}
	}
	return false
}

// RSAEncryptOAEP encrypts plaintext for pub using OAEP with SHA-256, the
// module's only supported asymmetric encryption padding.
func RSAEncryptOAEP(pub *rsa.PublicKey, plaintext []byte) ([]byte, error) {
	hash := sha256.New()
	maxLen := pub.Size() - 2*hash.Size() - 2
	if maxLen < 0 || len(plaintext) > maxLen {
		return nil, ecrypterr.ErrInvalidParameter
	}
	ciphertext, err := rsa.EncryptOAEP(hash, rand.Reader, pub, plaintext, nil)
	if err != nil {
		return nil, ecrypterr.ErrFail
	}
	return ciphertext, nil
}

// RSADecryptOAEP decrypts ciphertext with priv. An OAEP padding failure is
// reported as ErrFail rather than leaking which stage of unpadding failed.
func RSADecryptOAEP(priv *rsa.PrivateKey, ciphertext []byte) ([]byte, error) {
	hash := sha256.New()
	plaintext, err := rsa.DecryptOAEP(hash, rand.Reader, priv, ciphertext, nil)
	if err != nil {
		return nil, ecrypterr.ErrFail
	}
	return plaintext, nil
}

// RSASignPSS signs digest (a SHA-256 hash of the message) with priv using
// PSS with a salt length equal to the hash size. The returned signature is
// always exactly priv's modulus size.
func RSASignPSS(priv *rsa.PrivateKey, digest []byte) ([]byte, error) {
	opts := &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash, Hash: 0}
	sig, err := rsa.SignPSS(rand.Reader, priv, crypto.SHA256, digest, opts)
	if err != nil {
		return nil, ecrypterr.ErrFail
	}
	if len(sig) != priv.Size() {
		return nil, ecrypterr.ErrFail
	}
	return sig, nil
}

// RSAVerifyPSS verifies sig over digest against pub. sig must equal pub's
// modulus size or it is rejected outright as an invalid signature.
func RSAVerifyPSS(pub *rsa.PublicKey, digest, sig []byte) error {
	if len(sig) != pub.Size() {
		return ecrypterr.ErrInvalidSignature
	}
	opts := &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash, Hash: 0}
	if err := rsa.VerifyPSS(pub, crypto.SHA256, digest, sig, opts); err != nil {
		return ecrypterr.ErrInvalidSignature
	}
	return nil
}
