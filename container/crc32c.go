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

package container

import "hash/crc32"

// crc32cTable is the Castagnoli polynomial table (0x1EDC6F41), the same
// table stdlib's hash/crc32 builds via crc32.MakeTable(crc32.Castagnoli).
// Built once at package init instead of hand-unrolled, since hash/crc32
// already implements the exact bit-reflected, init 0xFFFFFFFF, final-XOR
// 0xFFFFFFFF construction the container format requires.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// crc32c computes the CRC32C (Castagnoli) checksum of buffer.
func crc32c(buffer []byte) uint32 {
	return crc32.Checksum(buffer, crc32cTable)
}
