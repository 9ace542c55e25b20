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

func TestReadyCodec_RoundTrip(t *testing.T) {
	codec := &readyCodec{}
	dest := &bytes.Buffer{}
	require.NoError(t, codec.Encode(&Ready{}, dest, primitive.ProtocolVersion4))
	assert.Empty(t, dest.Bytes())

	decoded, err := codec.Decode(dest, primitive.ProtocolVersion4)
	require.NoError(t, err)
	assert.Equal(t, &Ready{}, decoded)
}

func TestReadyCodec_Encode_WrongType(t *testing.T) {
	codec := &readyCodec{}
	err := codec.Encode(&Options{}, &bytes.Buffer{}, primitive.ProtocolVersion4)
	require.Error(t, err)
}

func TestOptionsCodec_RoundTrip(t *testing.T) {
	codec := &optionsCodec{}
	dest := &bytes.Buffer{}
	require.NoError(t, codec.Encode(&Options{}, dest, primitive.ProtocolVersion4))
	assert.Empty(t, dest.Bytes())

	decoded, err := codec.Decode(dest, primitive.ProtocolVersion4)
	require.NoError(t, err)
	assert.Equal(t, &Options{}, decoded)
}
