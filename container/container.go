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

// Package container implements the 12-byte envelope wrapped around every
// persisted blob in the module: keys, Secure Session contexts, and anything
// else that crosses a save/load boundary.
//
// Layout (all integers big-endian):
//
//	offset  size   field
//	 0      4      ASCII tag
//	 4      4      payload size in bytes
//	 8      4      CRC32C of (header with this field zeroed) ++ payload
//	12      n      payload
package container

import (
	"fmt"

	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
	"github.com/ecrypt-io/ecrypt-go/internal/endian"
)

// TagSize is the length in bytes of the container's ASCII tag field.
const TagSize = 4

// HeaderSize is the length in bytes of the fixed container header
// (tag + size + CRC32C), excluding the payload.
const HeaderSize = TagSize + 4 + 4

const (
	sizeOffset = TagSize
	crcOffset  = TagSize + 4
)

// Known tags.
const (
	// TagSessionContext marks a serialised Secure Session context.
	TagSessionContext = "TSSC"
)

// New allocates a container of the given tag wrapping payload, and writes a
// correct checksum. The tag must be exactly TagSize bytes.
func New(tag string, payload []byte) ([]byte, error) {
	if len(tag) != TagSize {
		return nil, fmt.Errorf("container: tag must be %d bytes, got %d", TagSize, len(tag))
	}
	buf := make([]byte, HeaderSize+len(payload))
	copy(buf[:TagSize], tag)
	copy(buf[HeaderSize:], payload)
	SetDataSize(buf, len(payload))
	UpdateChecksum(buf)
	return buf, nil
}

// Tag returns the ASCII tag of a container whose header is present in buf.
func Tag(buf []byte) (string, error) {
	if len(buf) < HeaderSize {
		return "", fmt.Errorf("container: buffer shorter than header (%d < %d)", len(buf), HeaderSize)
	}
	return string(buf[:TagSize]), nil
}

// SetDataSize writes n into the container's size field.
func SetDataSize(buf []byte, n int) {
	endian.PutUint32BE(buf[sizeOffset:sizeOffset+4], uint32(n))
}

// DataSize reads the container's declared payload size. It does not verify
// that buf actually holds that many payload bytes; callers combine this with
// a length check before trusting Data.
func DataSize(buf []byte) (int, error) {
	if len(buf) < HeaderSize {
		return 0, fmt.Errorf("container: buffer shorter than header (%d < %d)", len(buf), HeaderSize)
	}
	return int(endian.Uint32BE(buf[sizeOffset : sizeOffset+4])), nil
}

// Data returns the payload region of buf, i.e. buf[HeaderSize:]. The caller
// is expected to have already validated buf's length against DataSize.
func Data(buf []byte) []byte {
	return buf[HeaderSize:]
}

// UpdateChecksum zeroes the CRC field, recomputes CRC32C over header ++
// payload, and writes the result back into the CRC field big-endian.
func UpdateChecksum(buf []byte) {
	endian.PutUint32BE(buf[crcOffset:crcOffset+4], 0)
	sum := crc32c(buf)
	endian.PutUint32BE(buf[crcOffset:crcOffset+4], sum)
}

// VerifyChecksum recomputes the CRC32C over buf (with the CRC field
// temporarily zeroed) and compares it against the stored value. It returns
// an error wrapping ecrypterr.ErrInvalidParameter on mismatch or malformed
// input, and restores buf's CRC field before returning in every case.
func VerifyChecksum(buf []byte) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("container: buffer shorter than header (%d < %d): %w", len(buf), HeaderSize, ecrypterr.ErrInvalidParameter)
	}
	declared, err := DataSize(buf)
	if err != nil {
		return err
	}
	if len(buf) != HeaderSize+declared {
		return fmt.Errorf("container: declared size %d does not match buffer length %d: %w", declared, len(buf)-HeaderSize, ecrypterr.ErrInvalidParameter)
	}

	var stored [4]byte
	copy(stored[:], buf[crcOffset:crcOffset+4])
	endian.PutUint32BE(buf[crcOffset:crcOffset+4], 0)
	sum := crc32c(buf)
	copy(buf[crcOffset:crcOffset+4], stored[:])

	if sum != endian.Uint32BE(stored[:]) {
		return fmt.Errorf("container: checksum mismatch: %w", ecrypterr.ErrInvalidParameter)
	}
	return nil
}
