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

// Package lz4 adapts github.com/pierrec/lz4 to the wire framing Cassandra expects for LZ4-compressed bodies and
// segment payloads: a 4-byte big-endian prefix holding the uncompressed length, followed by a raw LZ4 block (not
// the standard LZ4 frame format).
package lz4

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

const lengthPrefixSize = 4

// BodyCompressor implements both frame.BodyCompressor and segment.PayloadCompressor using LZ4 block compression.
type BodyCompressor struct{}

func (BodyCompressor) Algorithm() string {
	return "LZ4"
}

func (BodyCompressor) Compress(source io.Reader, dest io.Writer) error {
	raw, err := readAll(source)
	if err != nil {
		return fmt.Errorf("cannot read uncompressed data: %w", err)
	}

	out := make([]byte, lengthPrefixSize+lz4.CompressBlockBound(len(raw)))
	binary.BigEndian.PutUint32(out, uint32(len(raw)))

	// An empty block compresses to zero bytes from pierrec/lz4, but Cassandra's framing always expects at least
	// one payload byte after the length prefix, so CompressBlock's single written byte for an empty input is kept
	// as-is rather than treated as an error.
	n, err := lz4.CompressBlock(raw, out[lengthPrefixSize:], nil)
	if err != nil {
		return fmt.Errorf("cannot lz4-compress data: %w", err)
	}
	if _, err := dest.Write(out[:lengthPrefixSize+n]); err != nil {
		return fmt.Errorf("cannot write lz4-compressed data: %w", err)
	}
	return nil
}

func (BodyCompressor) Decompress(source io.Reader, dest io.Writer) error {
	var rawLen uint32
	if err := binary.Read(source, binary.BigEndian, &rawLen); err != nil {
		return fmt.Errorf("cannot read lz4 uncompressed-length prefix: %w", err)
	}
	if rawLen == 0 {
		// The lone byte CompressBlock wrote for an empty input still has to be drained from source.
		if _, err := io.CopyN(io.Discard, source, 1); err != nil {
			return fmt.Errorf("cannot discard empty lz4 block: %w", err)
		}
		return nil
	}

	block, err := readAll(source)
	if err != nil {
		return fmt.Errorf("cannot read lz4-compressed data: %w", err)
	}

	raw, n, err := uncompressBlock(block, int(rawLen))
	if err != nil {
		return fmt.Errorf("cannot lz4-decompress data: %w", err)
	}
	if n != int(rawLen) {
		return fmt.Errorf("lz4 decompressed length mismatch: expected %d, got %d", rawLen, n)
	}
	if _, err := dest.Write(raw[:n]); err != nil {
		return fmt.Errorf("cannot write lz4-decompressed data: %w", err)
	}
	return nil
}

func readAll(r io.Reader) ([]byte, error) {
	if buf, ok := r.(*bytes.Buffer); ok {
		return buf.Bytes(), nil
	}
	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// uncompressBlock decompresses block into a destination sized to exactly fit wantLen, since pierrec/lz4 requires
// the destination to be large enough to hold the whole decompressed block up front.
func uncompressBlock(block []byte, wantLen int) ([]byte, int, error) {
	dst := make([]byte, wantLen)
	n, err := lz4.UncompressBlock(block, dst)
	if err != nil {
		return nil, 0, err
	}
	return dst, n, nil
}
