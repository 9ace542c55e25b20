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

func TestQueryCodec_RoundTrip(t *testing.T) {
	for _, version := range primitive.SupportedProtocolVersions() {
		t.Run(version.String(), func(t *testing.T) {
			codec := &queryCodec{}
			original := &Query{
				Query: "SELECT * FROM system.local WHERE key = ?",
				Options: &QueryOptions{
					Consistency:      primitive.ConsistencyLevelOne,
					PositionalValues: []*Value{NewValue([]byte("local"))},
					PageSize:         100,
				},
			}

			length, err := codec.EncodedLength(original, version)
			require.NoError(t, err)

			dest := &bytes.Buffer{}
			require.NoError(t, codec.Encode(original, dest, version))
			assert.Equal(t, length, dest.Len())

			decoded, err := codec.Decode(dest, version)
			require.NoError(t, err)
			assert.Equal(t, original, decoded)
		})
	}
}

func TestQueryCodec_Encode_WrongType(t *testing.T) {
	codec := &queryCodec{}
	_, err := codec.EncodedLength(&Ready{}, primitive.ProtocolVersion4)
	require.Error(t, err)
}

func TestQuery_Clone(t *testing.T) {
	original := &Query{
		Query:   "SELECT * FROM t",
		Options: &QueryOptions{Consistency: primitive.ConsistencyLevelOne, PositionalValues: []*Value{NewValue([]byte("x"))}},
	}
	cloned := original.Clone().(*Query)
	assert.Equal(t, original, cloned)

	cloned.Options.PositionalValues[0].Contents[0] = 'y'
	assert.Equal(t, byte('x'), original.Options.PositionalValues[0].Contents[0])
}
