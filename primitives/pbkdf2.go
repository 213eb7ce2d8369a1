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
	"crypto/sha256"
	"math"

	"golang.org/x/crypto/pbkdf2"

	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
)

// DerivePassphraseKey derives keyLength bytes from passphrase using
// PBKDF2-HMAC-SHA-256, mirroring the parameter bounds of the reference
// implementation: passphrase must be non-empty, iterations must be at
// least 1, and every length must fit an int (the backend's native word
// size for these counts).
func DerivePassphraseKey(passphrase, salt []byte, iterations int, keyLength int) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ecrypterr.ErrInvalidParameter
	}
	if len(passphrase) > math.MaxInt32 || len(salt) > math.MaxInt32 {
		return nil, ecrypterr.ErrInvalidParameter
	}
	if iterations < 1 || iterations > math.MaxInt32 {
		return nil, ecrypterr.ErrInvalidParameter
	}
	if keyLength <= 0 {
		return nil, ecrypterr.ErrInvalidParameter
	}
	return pbkdf2.Key(passphrase, salt, iterations, keyLength, sha256.New), nil
}
