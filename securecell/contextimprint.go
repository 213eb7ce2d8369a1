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

package securecell

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
	"github.com/ecrypt-io/ecrypt-go/internal/wipe"
	"github.com/ecrypt-io/ecrypt-go/primitives"
)

const (
	imprintKeyLabel = "Ecrypt secure cell context imprint key"
	imprintIVLabel  = "Ecrypt secure cell message iv"
)

// ContextImprintEncrypt derives both key and IV from context alone (no
// random IV, no authentication tag), so identical (key, message, context)
// triples always produce byte-identical ciphertext. This is strictly
// weaker than Seal — there is no integrity protection at all — and exists
// only for callers who need that determinism and accept the cost.
func ContextImprintEncrypt(masterKey, plaintext, context []byte) ([]byte, error) {
	if len(masterKey) == 0 || len(context) == 0 {
		return nil, ecrypterr.ErrInvalidParameter
	}

	key, iv, err := deriveImprintKeyIV(masterKey, context)
	if err != nil {
		return nil, err
	}
	defer wipe.Bytes(key)
	defer wipe.Bytes(iv)

	stream, err := imprintStream(key, iv)
	if err != nil {
		return nil, err
	}
	ciphertext := make([]byte, len(plaintext))
	stream.XORKeyStream(ciphertext, plaintext)
	return ciphertext, nil
}

// ContextImprintDecrypt reverses ContextImprintEncrypt. Since the mode is
// unauthenticated, a corrupted ciphertext silently decrypts to garbage
// rather than returning an error; callers needing integrity must use Seal
// or Token-Protect instead.
func ContextImprintDecrypt(masterKey, ciphertext, context []byte) ([]byte, error) {
	if len(masterKey) == 0 || len(context) == 0 {
		return nil, ecrypterr.ErrInvalidParameter
	}

	key, iv, err := deriveImprintKeyIV(masterKey, context)
	if err != nil {
		return nil, err
	}
	defer wipe.Bytes(key)
	defer wipe.Bytes(iv)

	stream, err := imprintStream(key, iv)
	if err != nil {
		return nil, err
	}
	plaintext := make([]byte, len(ciphertext))
	stream.XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}

// deriveImprintKeyIV derives both key and IV from context alone — unlike
// Seal/Token-Protect, Context-Imprint binds to nothing but the caller's
// context, which is exactly what makes two calls with the same
// (key, context) deterministic regardless of message length.
func deriveImprintKeyIV(masterKey []byte, context []byte) (key, iv []byte, err error) {
	key = make([]byte, primitives.AEADKeySize)
	if err := primitives.DeriveKey(key, masterKey, imprintKeyLabel, context); err != nil {
		wipe.Bytes(key)
		return nil, nil, err
	}
	iv = make([]byte, aes.BlockSize)
	if err := primitives.DeriveKey(iv, masterKey, imprintIVLabel, context); err != nil {
		wipe.Bytes(key)
		wipe.Bytes(iv)
		return nil, nil, err
	}
	return key, iv, nil
}

// imprintStream builds an AES-CTR keystream from key and iv: Context-Imprint
// has no authentication tag to produce, so the AEAD construction used by
// Seal and Token-Protect does not apply here — a plain keystream cipher is
// the correct primitive for a deterministic, unauthenticated mode.
func imprintStream(key, iv []byte) (cipher.Stream, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ecrypterr.ErrFail
	}
	return cipher.NewCTR(block, iv), nil
}
