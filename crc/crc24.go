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

// koopmanCrc24 implements the 24-bit CRC Cassandra uses to protect v5 segment headers. The polynomial is one of
// Philip Koopman's (https://users.ece.cmu.edu/~koopman/crc/index.html, CC BY 4.0), chosen by the server for its
// Hamming distance of 8 over messages up to 105 bits; segment headers never exceed 64 bits here.
//
// See also: https://github.com/apache/cassandra/blob/cassandra-4.0/src/java/org/apache/cassandra/net/Crc.java
type koopmanCrc24 struct{}

const (
	koopmanInit uint32 = 0x875060
	koopmanPoly uint32 = 0x1974F0B
	koopmanMSB  uint32 = 0x1000000
)

func (koopmanCrc24) sum(register uint64, numBytes int) uint32 {
	crc := koopmanInit
	for i := 0; i < numBytes; i++ {
		crc ^= uint32(register) << 16
		register >>= 8
		for bit := 0; bit < 8; bit++ {
			crc <<= 1
			if crc&koopmanMSB != 0 {
				crc ^= koopmanPoly
			}
		}
	}
	return crc
}

// ChecksumKoopman computes the CRC-24 of the low numBytes bytes held in register (read least-significant byte
// first). numBytes must be between 0 and 8 inclusive; with 0 no byte is processed and the initial value is returned.
func ChecksumKoopman(register uint64, numBytes int) uint32 {
	return koopmanCrc24{}.sum(register, numBytes)
}
