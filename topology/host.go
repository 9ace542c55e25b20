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
	"fmt"
	"net"

	"github.com/nativecql/corecql/protocol"
)

// Host is a single cluster member as seen through system.local/system.peers. Tokens are kept as opaque raw column
// bytes: this package reads just enough of the row to identify and place the node, not to interpret its ring
// position, matching the CQL value-(de)serialization non-goal.
type Host struct {
	Address    net.IP
	Port       int32
	DataCenter string
	Rack       string
	Tokens     [][]byte
}

// key identifies a Host the same way spec.md does: (address, port).
type hostKey struct {
	addr string
	port int32
}

func (h *Host) key() hostKey {
	return hostKey{addr: h.Address.String(), port: h.Port}
}

func (h *Host) String() string {
	return fmt.Sprintf("%s:%d (dc=%s, rack=%s)", h.Address, h.Port, h.DataCenter, h.Rack)
}

// columnIndex resolves a column's position by name, since system.local and system.peers are not guaranteed to
// return columns in a fixed order across server versions.
func columnIndex(columns []*protocol.ColumnMetadata, name string) int {
	for i, c := range columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// decodeInetColumn reads a native-protocol ROWS column holding an inet value. Unlike primitive.ReadInet (which
// decodes the length-prefixed [inet] protocol type used in frame bodies), a ROWS column's bytes already carry
// their own length via the outer [bytes] framing that RowsResult.Data stripped off, so the column's payload is
// simply the raw 4- or 16-byte address with nothing further to parse.
func decodeInetColumn(col protocol.Column) (net.IP, error) {
	switch len(col) {
	case net.IPv4len, net.IPv6len:
		ip := make(net.IP, len(col))
		copy(ip, col)
		return ip, nil
	default:
		return nil, fmt.Errorf("invalid inet column length: %d", len(col))
	}
}

func decodeTextColumn(col protocol.Column) string {
	return string(col)
}

// hostsFromRows builds Host records out of a system.peers or system.local RowsResult. addressColumn is "peer" for
// system.peers and "rpc_address"/"broadcast_address" for system.local, since the local node does not list itself
// under a "peer" column.
func hostsFromRows(result *protocol.RowsResult, addressColumn string, port int32) ([]*Host, error) {
	if result == nil || result.Metadata == nil {
		return nil, nil
	}
	columns := result.Metadata.Columns
	addrIdx := columnIndex(columns, addressColumn)
	dcIdx := columnIndex(columns, "data_center")
	rackIdx := columnIndex(columns, "rack")
	tokensIdx := columnIndex(columns, "tokens")
	if addrIdx < 0 {
		return nil, fmt.Errorf("column %q not found in result metadata", addressColumn)
	}

	hosts := make([]*Host, 0, len(result.Data))
	for _, row := range result.Data {
		if addrIdx >= len(row) || row[addrIdx] == nil {
			continue
		}
		addr, err := decodeInetColumn(row[addrIdx])
		if err != nil {
			return nil, fmt.Errorf("cannot decode %s column: %w", addressColumn, err)
		}
		host := &Host{Address: addr, Port: port}
		if dcIdx >= 0 && dcIdx < len(row) {
			host.DataCenter = decodeTextColumn(row[dcIdx])
		}
		if rackIdx >= 0 && rackIdx < len(row) {
			host.Rack = decodeTextColumn(row[rackIdx])
		}
		if tokensIdx >= 0 && tokensIdx < len(row) {
			host.Tokens = [][]byte{row[tokensIdx]}
		}
		hosts = append(hosts, host)
	}
	return hosts, nil
}
