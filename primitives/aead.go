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
	"crypto/aes"
	"crypto/cipher"

	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
)

// AEADKeySize is the only symmetric key size this module issues: AES-256.
const AEADKeySize = 32

// AEADIVSize is the nonce length AES-GCM is used with throughout the module.
const AEADIVSize = 12

// AEADTagSize is the authentication tag length produced by Seal and
// consumed by Open.
const AEADTagSize = 16

// NewAEAD builds an AES-256-GCM cipher.AEAD over key, which must be exactly
// AEADKeySize bytes.
func NewAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != AEADKeySize {
		return nil, ecrypterr.ErrInvalidParameter
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ecrypterr.ErrFail
	}
	aead, err := cipher.NewGCMWithTagSize(block, AEADTagSize)
	if err != nil {
		return nil, ecrypterr.ErrFail
	}
	return aead, nil
}

// Seal encrypts plaintext under key and iv, authenticating aad, and returns
// ciphertext and the detached authentication tag (AEADTagSize bytes).
// ciphertext and plaintext are always the same length: this package never
// produces combined ciphertext||tag output itself, leaving that layout
// decision to callers that need it (Secure Cell's Seal mode does).
func Seal(key, iv, aad, plaintext []byte) (ciphertext, tag []byte, err error) {
	if len(iv) != AEADIVSize {
		return nil, nil, ecrypterr.ErrInvalidParameter
	}
	aead, err := NewAEAD(key)
	if err != nil {
		return nil, nil, err
	}
	sealed := aead.Seal(nil, iv, plaintext, aad)
	split := len(sealed) - AEADTagSize
	ciphertext = sealed[:split]
	tag = sealed[split:]
	return ciphertext, tag, nil
}

// Open decrypts ciphertext under key and iv, verifying aad and tag. It
// returns ErrInvalidSignature when authentication fails; no partial
// plaintext is ever returned in that case.
func Open(key, iv, aad, ciphertext, tag []byte) ([]byte, error) {
	if len(iv) != AEADIVSize {
		return nil, ecrypterr.ErrInvalidParameter
	}
	if len(tag) != AEADTagSize {
		return nil, ecrypterr.ErrInvalidSignature
	}
	aead, err := NewAEAD(key)
	if err != nil {
		return nil, err
	}
	combined := make([]byte, 0, len(ciphertext)+len(tag))
	combined = append(combined, ciphertext...)
	combined = append(combined, tag...)
	plaintext, err := aead.Open(nil, iv, combined, aad)
	if err != nil {
		return nil, ecrypterr.ErrInvalidSignature
	}
	return plaintext, nil
}
