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
	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
	"github.com/ecrypt-io/ecrypt-go/internal/endian"
	"github.com/ecrypt-io/ecrypt-go/internal/wipe"
	"github.com/ecrypt-io/ecrypt-go/primitives"
)

// SealDecryptCompat is SealDecrypt with the legacy compatibility retry: if
// the canonical (u32 message-length KDF context) decryption fails for any
// reason other than a malformed container, it is retried once with a
// 64-bit message-length KDF context, matching the derivation an older
// version of this module used. Never call this by default; wire it in
// explicitly only for callers that must read blobs written by that older
// version. The retry is attempted only when the canonical path fails with
// something other than a data-corruption error — a malformed blob is never
// worth re-deriving a key for.
func SealDecryptCompat(masterKey, blob, context []byte) ([]byte, error) {
	plaintext, err := SealDecrypt(masterKey, blob, context)
	if err == nil {
		return plaintext, nil
	}
	if err == ecrypterr.ErrDataCorrupt {
		return nil, err
	}
	return sealDecryptLegacyKDF(masterKey, blob, context)
}

func sealDecryptLegacyKDF(masterKey, blob, context []byte) ([]byte, error) {
	if len(blob) < authTokenFixedSize {
		return nil, ecrypterr.ErrDataCorrupt
	}
	ivLen := int(endian.Uint32LE(blob[4:]))
	if ivLen < 0 || len(blob) < 8+ivLen+4 {
		return nil, ecrypterr.ErrDataCorrupt
	}
	tagLen := int(endian.Uint32LE(blob[8+ivLen:]))
	tokenSize := authTokenFixedSize + ivLen + tagLen
	if tokenSize < 0 || len(blob) < tokenSize {
		return nil, ecrypterr.ErrDataCorrupt
	}

	token, err := unmarshalAuthToken(blob[:tokenSize])
	if err != nil {
		return nil, err
	}
	ciphertext := blob[tokenSize:]
	if int(token.MessageLength) != len(ciphertext) {
		return nil, ecrypterr.ErrFail
	}

	var kdfContext [8]byte
	endian.PutUint64LE(kdfContext[:], uint64(len(ciphertext)))

	key := make([]byte, primitives.AEADKeySize)
	if err := primitives.DeriveKey(key, masterKey, messageKeyLabel, kdfContext[:], context); err != nil {
		wipe.Bytes(key)
		return nil, err
	}
	defer wipe.Bytes(key)

	plaintext, err := primitives.Open(key, token.IV, context, ciphertext, token.AuthTag)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}
