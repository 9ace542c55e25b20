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

func TestNewStartup_DefaultsCqlVersion(t *testing.T) {
	s := NewStartup()
	assert.Equal(t, "3.0.0", s.Options[StartupOptionCqlVersion])
}

func TestNewStartup_OverridesAndExtends(t *testing.T) {
	s := NewStartup(StartupOptionCompression, "lz4", "CUSTOM", "value")
	assert.Equal(t, "3.0.0", s.Options[StartupOptionCqlVersion])
	assert.Equal(t, "lz4", s.Options[StartupOptionCompression])
	assert.Equal(t, "value", s.Options["CUSTOM"])
}

func TestNewStartup_OddArgsPanics(t *testing.T) {
	assert.Panics(t, func() { NewStartup("KEY") })
}

func TestStartup_Clone(t *testing.T) {
	msg := NewStartup()
	cloned := msg.Clone().(*Startup)
	assert.Equal(t, msg, cloned)

	cloned.Options["EXTRA"] = "value"
	_, present := msg.Options["EXTRA"]
	assert.False(t, present)
}

func TestStartupCodec_RoundTrip(t *testing.T) {
	codec := &startupCodec{}
	for _, version := range primitive.SupportedProtocolVersions() {
		t.Run(version.String(), func(t *testing.T) {
			original := NewStartup(StartupOptionCompression, "snappy")

			dest := &bytes.Buffer{}
			require.NoError(t, codec.Encode(original, dest, version))

			decoded, err := codec.Decode(dest, version)
			require.NoError(t, err)
			assert.Equal(t, original, decoded)
		})
	}
}
