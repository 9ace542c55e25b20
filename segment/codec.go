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
	"io"
)

const (
	UncompressedHeaderLength = 3
	CompressedHeaderLength   = 5
)

const (
	Crc24Length = 3
	Crc32Length = 4
)

type Encoder interface {

	// EncodeSegment encodes the entire segment.
	EncodeSegment(segment *Segment, dest io.Writer) error
}

type Decoder interface {

	// DecodeSegment decodes the entire segment.
	DecodeSegment(source io.Reader) (*Segment, error)
}

// Codec exposes basic encoding and decoding operations for Segment instances. It should be the preferred interface to
// use in typical client applications such as drivers.
type Codec interface {
	Encoder
	Decoder
}

// PayloadCompressor compresses and decompresses segment payloads. Segment payloads are bounded by
// MaxPayloadLength, so implementations may buffer the entire payload in memory.
type PayloadCompressor interface {

	// Algorithm returns the name of the compression algorithm, as it appears in the STARTUP message options.
	Algorithm() string

	// Compress reads the entire uncompressed payload from source and writes the compressed payload to dest.
	Compress(source io.Reader, dest io.Writer) error

	// Decompress reads the entire compressed payload from source and writes the uncompressed payload to dest.
	Decompress(source io.Reader, dest io.Writer) error
}

type codec struct {
	compressor PayloadCompressor
}

func NewCodec() Codec {
	return NewCodecWithCompression(nil)
}

func NewCodecWithCompression(compressor PayloadCompressor) Codec {
	return &codec{compressor: compressor}
}
