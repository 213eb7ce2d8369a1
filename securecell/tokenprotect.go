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
	"crypto/rand"

	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
	"github.com/ecrypt-io/ecrypt-go/internal/wipe"
	"github.com/ecrypt-io/ecrypt-go/primitives"
)

// TokenProtectEncrypt is identical to SealEncrypt except the auth token and
// ciphertext are returned separately, letting the caller store metadata
// apart from the payload.
func TokenProtectEncrypt(masterKey, plaintext, context []byte) (token, ciphertext []byte, err error) {
	if len(masterKey) == 0 {
		return nil, nil, ecrypterr.ErrInvalidParameter
	}

	key, err := deriveMessageKey(masterKey, len(plaintext), context)
	if err != nil {
		return nil, nil, err
	}
	defer wipe.Bytes(key)

	iv := make([]byte, primitives.AEADIVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, ecrypterr.ErrFail
	}
	defer wipe.Bytes(iv)

	ciphertext, tag, err := primitives.Seal(key, iv, context, plaintext)
	if err != nil {
		return nil, nil, err
	}
	defer wipe.Bytes(tag)

	t := &authToken{
		Alg:           AlgDefault,
		IV:            iv,
		AuthTag:       tag,
		MessageLength: uint32(len(plaintext)),
	}
	return t.marshal(), ciphertext, nil
}

// TokenProtectDecrypt reverses TokenProtectEncrypt.
func TokenProtectDecrypt(masterKey, token, ciphertext, context []byte) ([]byte, error) {
	if len(masterKey) == 0 {
		return nil, ecrypterr.ErrInvalidParameter
	}

	t, err := unmarshalAuthToken(token)
	if err != nil {
		return nil, err
	}
	if int(t.MessageLength) != len(ciphertext) {
		return nil, ecrypterr.ErrFail
	}

	key, err := deriveMessageKey(masterKey, len(ciphertext), context)
	if err != nil {
		return nil, err
	}
	defer wipe.Bytes(key)

	plaintext, err := primitives.Open(key, t.IV, context, ciphertext, t.AuthTag)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}
