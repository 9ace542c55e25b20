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
)

func host(ip string) *Host {
	return &Host{Address: net.ParseIP(ip), Port: 9042}
}

func TestDiffHosts_AddedAndRemoved(t *testing.T) {
	previous := []*Host{host("10.0.0.1"), host("10.0.0.2")}
	next := []*Host{host("10.0.0.2"), host("10.0.0.3")}

	deltas := diffHosts(previous, next)

	var added, removed []*Host
	for _, d := range deltas {
		switch d.Type {
		case HostAdded:
			added = append(added, d.Host)
		case HostRemoved:
			removed = append(removed, d.Host)
		default:
			t.Fatalf("unexpected delta type %v", d.Type)
		}
	}
	assert.Len(t, added, 1)
	assert.Equal(t, "10.0.0.3", added[0].Address.String())
	assert.Len(t, removed, 1)
	assert.Equal(t, "10.0.0.1", removed[0].Address.String())
}

func TestDiffHosts_UnchangedHostsNotReannounced(t *testing.T) {
	previous := []*Host{host("10.0.0.1")}
	next := []*Host{host("10.0.0.1")}
	assert.Empty(t, diffHosts(previous, next))
}

func TestDiffHosts_EmptyPrevious(t *testing.T) {
	next := []*Host{host("10.0.0.1"), host("10.0.0.2")}
	deltas := diffHosts(nil, next)
	assert.Len(t, deltas, 2)
	for _, d := range deltas {
		assert.Equal(t, HostAdded, d.Type)
	}
}
