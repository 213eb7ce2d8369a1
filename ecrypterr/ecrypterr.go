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

// Package ecrypterr defines the error taxonomy shared by every boundary in
// the module: container, primitives, secure cell and secure session all
// return one of these sentinels (or a wrapped instance of BufferTooSmall)
// instead of inventing their own error types.
package ecrypterr

import "errors"

// Precondition violations: caller error, never retried.
var ErrInvalidParameter = errors.New("ecrypt: invalid parameter")

// Memory: propagated immediately, resources wiped.
var ErrNoMemory = errors.New("ecrypt: out of memory")

// Cryptographic failures: signature/tag mismatch, malformed container, wrong CRC.
var ErrFail = errors.New("ecrypt: operation failed")
var ErrInvalidSignature = errors.New("ecrypt: invalid signature")
var ErrDataCorrupt = errors.New("ecrypt: data corrupt")

// Capability.
var ErrNotSupported = errors.New("ecrypt: not supported")

// Backend/transport-adjacent failures reported by a collaborator.
var ErrSSL = errors.New("ecrypt: ssl/backend error")

// BufferTooSmall is returned when an output buffer cannot hold the result.
// Required carries the exact size the caller must allocate and retry with.
// No other state changes and no partial output is written when this error
// is returned.
type BufferTooSmall struct {
	Required int
}

func (e *BufferTooSmall) Error() string {
	return "ecrypt: buffer too small"
}

// Is lets errors.Is(err, ErrBufferTooSmall) match any *BufferTooSmall value,
// since callers usually only care about the kind, not the exact Required.
func (e *BufferTooSmall) Is(target error) bool {
	_, ok := target.(*BufferTooSmall)
	return ok
}

// ErrBufferTooSmall is a zero-value sentinel for errors.Is comparisons; the
// concrete error returned by operations is always *BufferTooSmall carrying
// the required size.
var ErrBufferTooSmall = &BufferTooSmall{}
