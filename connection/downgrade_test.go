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

package connection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nativecql/corecql/primitive"
)

func TestParseProtocolDowngrade(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		attempted primitive.ProtocolVersion
		want      primitive.ProtocolVersion
		wantOk    bool
	}{
		{
			name:      "explicit lowest and greatest",
			message:   "Invalid or unsupported protocol version (5); the lowest supported version is 3 and the greatest is 4",
			attempted: primitive.ProtocolVersion5,
			want:      primitive.ProtocolVersion4,
			wantOk:    true,
		},
		{
			name:      "beta version rejected",
			message:   "Beta version of the protocol used (5/v5-beta), but USE_BETA flag is unset",
			attempted: primitive.ProtocolVersion5,
			want:      primitive.ProtocolVersion4,
			wantOk:    true,
		},
		{
			name:      "no parseable version falls back to next lower supported version",
			message:   "server rejected the request for an unrelated reason",
			attempted: primitive.ProtocolVersion4,
			want:      primitive.ProtocolVersion3,
			wantOk:    true,
		},
		{
			name:      "already at the floor",
			message:   "server rejected the request for an unrelated reason",
			attempted: primitive.ProtocolVersion2,
			wantOk:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseProtocolDowngrade(tt.message, tt.attempted)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
