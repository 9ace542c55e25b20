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

package topology

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativecql/corecql/primitive"
	"github.com/nativecql/corecql/protocol"
)

func columns(names ...string) []*protocol.ColumnMetadata {
	cols := make([]*protocol.ColumnMetadata, len(names))
	for i, n := range names {
		cols[i] = &protocol.ColumnMetadata{Keyspace: "system", Table: "peers", Name: n, Index: int32(i),
			Type: &protocol.TypeSpec{Code: primitive.DataTypeCodeVarchar}}
	}
	return cols
}

func TestHostsFromRows(t *testing.T) {
	result := &protocol.RowsResult{
		Metadata: &protocol.RowsMetadata{
			ColumnCount: 4,
			Columns:     columns("peer", "data_center", "rack", "tokens"),
		},
		Data: protocol.RowSet{
			protocol.Row{
				net.ParseIP("10.0.0.2").To4(),
				[]byte("dc1"),
				[]byte("rack1"),
				[]byte("opaque-token-blob"),
			},
		},
	}

	hosts, err := hostsFromRows(result, "peer", 9042)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, "10.0.0.2", hosts[0].Address.String())
	assert.EqualValues(t, 9042, hosts[0].Port)
	assert.Equal(t, "dc1", hosts[0].DataCenter)
	assert.Equal(t, "rack1", hosts[0].Rack)
	assert.Equal(t, [][]byte{[]byte("opaque-token-blob")}, hosts[0].Tokens)
}

func TestHostsFromRows_MissingAddressColumn(t *testing.T) {
	result := &protocol.RowsResult{
		Metadata: &protocol.RowsMetadata{Columns: columns("data_center")},
		Data:     protocol.RowSet{protocol.Row{[]byte("dc1")}},
	}
	_, err := hostsFromRows(result, "peer", 9042)
	assert.Error(t, err)
}

func TestHostsFromRows_Ipv6(t *testing.T) {
	result := &protocol.RowsResult{
		Metadata: &protocol.RowsMetadata{Columns: columns("peer")},
		Data: protocol.RowSet{
			protocol.Row{net.ParseIP("::1").To16()},
		},
	}
	hosts, err := hostsFromRows(result, "peer", 9042)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, "::1", hosts[0].Address.String())
}
