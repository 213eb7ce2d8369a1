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
	"crypto/hmac"
	"crypto/sha256"

	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
	"github.com/ecrypt-io/ecrypt-go/internal/endian"
)

// DeriveKey implements the module's internal KDF: HMAC-SHA-256 keyed by
// masterKey, run over label followed by each context buffer in order, with
// a big-endian uint32 block counter appended before each 32-byte block is
// produced, filling out exactly len(out) bytes. A non-empty masterKey and
// at least one non-empty context buffer are required (label may be empty);
// a second, possibly-empty context
// buffer is accepted as a convenience for callers that always derive from a
// pair (as Secure Cell message-key derivation does).
func DeriveKey(out []byte, masterKey []byte, label string, contexts ...[]byte) error {
	if len(masterKey) == 0 {
		return ecrypterr.ErrInvalidParameter
	}
	if len(out) == 0 {
		return ecrypterr.ErrInvalidParameter
	}
	haveContext := false
	for _, c := range contexts {
		if len(c) > 0 {
			haveContext = true
			break
		}
	}
	if !haveContext {
		return ecrypterr.ErrInvalidParameter
	}

	var counter [4]byte
	var block uint32 = 1
	filled := 0
	for filled < len(out) {
		mac := hmac.New(sha256.New, masterKey)
		mac.Write([]byte(label))
		mac.Write([]byte{0})
		for _, c := range contexts {
			mac.Write(c)
		}
		endian.PutUint32BE(counter[:], block)
		mac.Write(counter[:])
		sum := mac.Sum(nil)

		n := copy(out[filled:], sum)
		filled += n
		block++
	}
	return nil
}
