// Copyright 2021 DataStax
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package crc

import "hash/crc32"

// segmentPayloadSalt is prepended to every v5 segment payload before the CRC-32 is computed; Cassandra seeds its
// own implementation the same way so that an all-zero payload doesn't checksum to a fixed, predictable value.
var segmentPayloadSalt = [4]byte{0xFA, 0x2D, 0x55, 0xCA}

var (
	ieeeTable   = crc32.MakeTable(crc32.IEEE)
	saltedIEEE0 = crc32.Update(0, ieeeTable, segmentPayloadSalt[:])
)

// ChecksumIEEE returns the CRC-32/IEEE checksum Cassandra expects over a v5 segment payload: the payload bytes as
// if appended to segmentPayloadSalt.
func ChecksumIEEE(payload []byte) uint32 {
	return crc32.Update(saltedIEEE0, ieeeTable, payload)
}
