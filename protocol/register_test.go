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

func TestRegister_Clone(t *testing.T) {
	msg := &Register{EventTypes: []primitive.EventType{primitive.EventTypeStatusChange}}
	cloned := msg.Clone().(*Register)
	assert.Equal(t, msg, cloned)

	cloned.EventTypes[0] = primitive.EventTypeTopologyChange
	assert.Equal(t, primitive.EventTypeStatusChange, msg.EventTypes[0])
}

func TestRegisterCodec_RoundTrip(t *testing.T) {
	codec := &registerCodec{}
	for _, version := range primitive.SupportedProtocolVersions() {
		t.Run(version.String(), func(t *testing.T) {
			original := &Register{EventTypes: []primitive.EventType{
				primitive.EventTypeStatusChange,
				primitive.EventTypeTopologyChange,
			}}

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

func TestRegisterCodec_Encode_NoEventTypes(t *testing.T) {
	codec := &registerCodec{}
	err := codec.Encode(&Register{}, &bytes.Buffer{}, primitive.ProtocolVersion4)
	assert.EqualError(t, err, "REGISTER messages must have at least one event type")
}

func TestRegisterCodec_Encode_WrongType(t *testing.T) {
	codec := &registerCodec{}
	_, err := codec.EncodedLength(&Ready{}, primitive.ProtocolVersion4)
	require.Error(t, err)
}
