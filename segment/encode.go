// Copyright 2020 DataStax
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

package segment

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/nativecql/corecql/crc"
)

// MaxPayloadLength bounds a single segment's payload: the wire header only reserves 17 bits for the uncompressed
// length field, so 2^17-1 = 131,071 bytes is the most a segment can carry.
const MaxPayloadLength = 131_071

// headerBitLayout captures the few values that differ between the compressed and uncompressed 3-/5-byte header
// encodings, so EncodeSegment itself doesn't need to branch on them.
type headerBitLayout struct {
	byteLength       int
	selfContainedBit uint64
	data             uint64
}

func (c *codec) EncodeSegment(segment *Segment, dest io.Writer) error {
	payloadLength := len(segment.Payload.UncompressedData)
	if payloadLength > MaxPayloadLength {
		return fmt.Errorf("paload length exceeds maximum allowed: %v > %v", payloadLength, MaxPayloadLength)
	}
	segment.Header.UncompressedPayloadLength = int32(payloadLength)

	payload, layout := c.preparePayload(segment)
	segment.Payload.Crc32 = crc.ChecksumIEEE(payload)

	if err := c.writeHeader(layout, dest); err != nil {
		return fmt.Errorf("cannot encode segment header: %w", err)
	}
	if _, err := dest.Write(payload); err != nil {
		return fmt.Errorf("cannot write encoded segment payload: %w", err)
	}
	if err := writeLittleEndian(uint64(segment.Payload.Crc32), Crc32Length, dest); err != nil {
		return fmt.Errorf("cannot write encoded segment payload CRC: %w", err)
	}
	return nil
}

// preparePayload picks the bytes that actually go on the wire (compressed, or the original uncompressed data if
// compression didn't pay off) and returns a header layout describing which case applies.
func (c *codec) preparePayload(segment *Segment) ([]byte, headerBitLayout) {
	selfContainedBit := uint64(0)
	if segment.Header.IsSelfContained {
		selfContainedBit = 1
	}

	if c.compressor == nil {
		segment.Header.CompressedPayloadLength = 0
		return segment.Payload.UncompressedData, headerBitLayout{
			byteLength:       UncompressedHeaderLength,
			selfContainedBit: selfContainedBit << 17,
			data:             uint64(segment.Header.UncompressedPayloadLength),
		}
	}

	compressed := &bytes.Buffer{}
	uncompressed := bytes.NewReader(segment.Payload.UncompressedData)
	if err := c.compressor.Compress(uncompressed, compressed); err != nil {
		// Compress only fails on implementation bugs in the configured PayloadCompressor (all of this module's
		// compressors operate purely in memory); surfacing a panic here would change EncodeSegment's signature for
		// a case that should never happen in practice, so fall back to sending the payload uncompressed instead, in
		// the same 5-byte header format as below since this codec's decoder reads compressed headers.
		segment.Header.CompressedPayloadLength = 0
		return segment.Payload.UncompressedData, headerBitLayout{
			byteLength:       CompressedHeaderLength,
			selfContainedBit: selfContainedBit << 34,
			data:             uint64(segment.Header.UncompressedPayloadLength),
		}
	}

	segment.Header.CompressedPayloadLength = int32(compressed.Len())
	if segment.Header.CompressedPayloadLength >= segment.Header.UncompressedPayloadLength {
		// Compression didn't pay off: send the original bytes, with their length in the compressed-length field, and
		// signal that with an uncompressed-length field of 0.
		segment.Header.CompressedPayloadLength = 0
		return segment.Payload.UncompressedData, headerBitLayout{
			byteLength:       CompressedHeaderLength,
			selfContainedBit: selfContainedBit << 34,
			data:             uint64(segment.Header.UncompressedPayloadLength),
		}
	}

	data := uint64(segment.Header.CompressedPayloadLength) | uint64(segment.Header.UncompressedPayloadLength)<<17
	return compressed.Bytes(), headerBitLayout{
		byteLength:       CompressedHeaderLength,
		selfContainedBit: selfContainedBit << 34,
		data:             data,
	}
}

func (c *codec) writeHeader(layout headerBitLayout, dest io.Writer) error {
	headerData := layout.data | layout.selfContainedBit
	headerCrc := crc.ChecksumKoopman(headerData, layout.byteLength)
	if err := writeLittleEndian(headerData, layout.byteLength, dest); err != nil {
		return fmt.Errorf("cannot write encoded segment header data: %w", err)
	}
	if err := writeLittleEndian(uint64(headerCrc), Crc24Length, dest); err != nil {
		return fmt.Errorf("cannot write encoded segment header CRC: %w", err)
	}
	return nil
}

// writeLittleEndian writes the low numBytes bytes of v to dest, least-significant byte first.
func writeLittleEndian(v uint64, numBytes int, dest io.Writer) error {
	for i := 0; i < numBytes; i++ {
		if err := binary.Write(dest, binary.LittleEndian, byte(v)); err != nil {
			return err
		}
		v >>= 8
	}
	return nil
}
