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

package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativecql/corecql/primitive"
)

func TestErrorCodec_RoundTrip(t *testing.T) {
	codec := &errorCodec{}
	tests := []Error{
		&ServerError{ErrorMessage: "internal error"},
		&ProtocolError{ErrorMessage: "bad opcode"},
		&SyntaxError{ErrorMessage: "line 1:0 no viable alternative"},
		&Unavailable{ErrorMessage: "not enough replicas", Consistency: primitive.ConsistencyLevelQuorum, Required: 2, Alive: 1},
	}
	for _, original := range tests {
		t.Run(original.String(), func(t *testing.T) {
			dest := &bytes.Buffer{}
			require.NoError(t, codec.Encode(original, dest, primitive.ProtocolVersion4))

			decoded, err := codec.Decode(dest, primitive.ProtocolVersion4)
			require.NoError(t, err)
			assert.Equal(t, original, decoded)
		})
	}
}

func TestErrorCodec_Encode_WrongType(t *testing.T) {
	codec := &errorCodec{}
	err := codec.Encode(&Ready{}, &bytes.Buffer{}, primitive.ProtocolVersion4)
	require.Error(t, err)
}

func TestUnavailable_Clone(t *testing.T) {
	original := &Unavailable{ErrorMessage: "nope", Consistency: primitive.ConsistencyLevelOne, Required: 1, Alive: 0}
	cloned := original.Clone().(*Unavailable)
	assert.Equal(t, original, cloned)
}
