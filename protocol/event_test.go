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
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativecql/corecql/primitive"
)

func TestStatusChangeEvent_RoundTrip(t *testing.T) {
	codec := &eventCodec{}
	for _, version := range primitive.SupportedProtocolVersions() {
		t.Run(version.String(), func(t *testing.T) {
			original := &StatusChangeEvent{
				ChangeType: primitive.StatusChangeTypeDown,
				Address:    &primitive.Inet{Addr: net.ParseIP("10.0.0.1").To4(), Port: 9042},
			}

			dest := &bytes.Buffer{}
			require.NoError(t, codec.Encode(original, dest, version))

			decoded, err := codec.Decode(dest, version)
			require.NoError(t, err)
			assert.Equal(t, original, decoded)
			assert.Equal(t, primitive.EventTypeStatusChange, decoded.(Event).GetEventType())
		})
	}
}

func TestTopologyChangeEvent_RoundTrip(t *testing.T) {
	codec := &eventCodec{}
	for _, version := range primitive.SupportedProtocolVersions() {
		t.Run(version.String(), func(t *testing.T) {
			original := &TopologyChangeEvent{
				ChangeType: primitive.TopologyChangeTypeNewNode,
				Address:    &primitive.Inet{Addr: net.ParseIP("10.0.0.2").To4(), Port: 9042},
			}

			dest := &bytes.Buffer{}
			require.NoError(t, codec.Encode(original, dest, version))

			decoded, err := codec.Decode(dest, version)
			require.NoError(t, err)
			assert.Equal(t, original, decoded)
		})
	}
}

func TestEventCodec_Encode_WrongType(t *testing.T) {
	codec := &eventCodec{}
	err := codec.Encode(&Ready{}, &bytes.Buffer{}, primitive.ProtocolVersion4)
	require.Error(t, err)
}

func TestStatusChangeEvent_Clone(t *testing.T) {
	original := &StatusChangeEvent{
		ChangeType: primitive.StatusChangeTypeUp,
		Address:    &primitive.Inet{Addr: net.ParseIP("10.0.0.1").To4(), Port: 9042},
	}
	cloned := original.Clone().(*StatusChangeEvent)
	assert.Equal(t, original, cloned)

	cloned.Address.Port = 1234
	assert.EqualValues(t, 9042, original.Address.Port)
}
