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

// Package snappy adapts github.com/golang/snappy to frame.BodyCompressor and segment.PayloadCompressor. Unlike
// LZ4, Cassandra's SNAPPY framing needs no extra length prefix: the snappy block format is self-describing.
package snappy

import (
	"bytes"
	"fmt"
	"io"

	"github.com/golang/snappy"
)

// BodyCompressor implements both frame.BodyCompressor and segment.PayloadCompressor using block-format Snappy.
type BodyCompressor struct{}

func (BodyCompressor) Algorithm() string {
	return "SNAPPY"
}

func (BodyCompressor) Compress(source io.Reader, dest io.Writer) error {
	raw, err := bufferOf(source)
	if err != nil {
		return fmt.Errorf("cannot read uncompressed data: %w", err)
	}
	if _, err := dest.Write(snappy.Encode(nil, raw)); err != nil {
		return fmt.Errorf("cannot write snappy-compressed data: %w", err)
	}
	return nil
}

func (BodyCompressor) Decompress(source io.Reader, dest io.Writer) error {
	compressed, err := bufferOf(source)
	if err != nil {
		return fmt.Errorf("cannot read compressed data: %w", err)
	}
	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return fmt.Errorf("cannot snappy-decompress data: %w", err)
	}
	if _, err := dest.Write(raw); err != nil {
		return fmt.Errorf("cannot write snappy-decompressed data: %w", err)
	}
	return nil
}

func bufferOf(r io.Reader) ([]byte, error) {
	if buf, ok := r.(*bytes.Buffer); ok {
		return buf.Bytes(), nil
	}
	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
