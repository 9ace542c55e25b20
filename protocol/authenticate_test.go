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

func TestAuthenticateCodec_RoundTrip(t *testing.T) {
	codec := &authenticateCodec{}
	original := &Authenticate{Authenticator: "org.apache.cassandra.auth.PasswordAuthenticator"}

	dest := &bytes.Buffer{}
	require.NoError(t, codec.Encode(original, dest, primitive.ProtocolVersion4))

	decoded, err := codec.Decode(dest, primitive.ProtocolVersion4)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestAuthenticateCodec_Encode_EmptyAuthenticator(t *testing.T) {
	codec := &authenticateCodec{}
	err := codec.Encode(&Authenticate{}, &bytes.Buffer{}, primitive.ProtocolVersion4)
	assert.EqualError(t, err, "AUTHENTICATE authenticator cannot be empty")
}

func TestSupportedCodec_RoundTrip(t *testing.T) {
	codec := &supportedCodec{}
	original := &Supported{Options: map[string][]string{
		"COMPRESSION":       {"snappy", "lz4"},
		"CQL_VERSION":       {"3.0.0"},
		"PROTOCOL_VERSIONS": {"3/v3", "4/v4", "5/v5"},
	}}

	dest := &bytes.Buffer{}
	require.NoError(t, codec.Encode(original, dest, primitive.ProtocolVersion4))

	decoded, err := codec.Decode(dest, primitive.ProtocolVersion4)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestSupported_Clone(t *testing.T) {
	original := &Supported{Options: map[string][]string{"COMPRESSION": {"snappy"}}}
	cloned := original.Clone().(*Supported)
	assert.Equal(t, original, cloned)

	cloned.Options["COMPRESSION"][0] = "lz4"
	assert.Equal(t, "snappy", original.Options["COMPRESSION"][0])
}
