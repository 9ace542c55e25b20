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

package frame

import (
	"bytes"
	"fmt"
)

// ConvertToRawFrame encodes frame's body eagerly and returns the result as a RawFrame, ready to be written to the
// wire or, in v5, embedded into a segment payload alongside other frames. Header.BodyLength is filled in from the
// encoded length.
func (c *codec) ConvertToRawFrame(frame *Frame) (*RawFrame, error) {
	encoded := &bytes.Buffer{}
	if err := c.EncodeBody(frame.Header, frame.Body, encoded); err != nil {
		return nil, fmt.Errorf("cannot encode frame body: %w", err)
	}
	frame.Header.BodyLength = int32(encoded.Len())
	return &RawFrame{
		Header: frame.Header,
		Body:   encoded.Bytes(),
	}, nil
}

// ConvertFromRawFrame decodes a RawFrame's opaque body bytes into the Frame's typed Message.
func (c *codec) ConvertFromRawFrame(raw *RawFrame) (*Frame, error) {
	body, err := c.DecodeBody(raw.Header, bytes.NewBuffer(raw.Body))
	if err != nil {
		return nil, fmt.Errorf("cannot decode frame body: %w", err)
	}
	return &Frame{
		Header: raw.Header,
		Body:   body,
	}, nil
}
