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
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nativecql/corecql/connection"
	"github.com/nativecql/corecql/frame"
	"github.com/nativecql/corecql/primitive"
	"github.com/nativecql/corecql/protocol"
)

// fakeControlNode drives the handshake, answers system.local/system.peers with a single fixed row each, and lets
// the test push an unsolicited EVENT frame on demand once REGISTER completes.
type fakeControlNode struct {
	listener net.Listener
	pushCh   chan protocol.Message
}

func startFakeControlNode(t *testing.T) *fakeControlNode {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	n := &fakeControlNode{listener: ln, pushCh: make(chan protocol.Message, 4)}
	go n.serve()
	return n
}

func (n *fakeControlNode) addr() string {
	return n.listener.Addr().String()
}

func (n *fakeControlNode) push(msg protocol.Message) {
	n.pushCh <- msg
}

func (n *fakeControlNode) serve() {
	conn, err := n.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	codec := frame.NewCodec()

	options, err := codec.DecodeFrame(conn)
	if err != nil {
		return
	}
	if err := codec.EncodeFrame(frame.NewFrame(options.Header.Version, options.Header.StreamId, &protocol.Supported{
		Options: map[string][]string{},
	}), conn); err != nil {
		return
	}

	startup, err := codec.DecodeFrame(conn)
	if err != nil {
		return
	}
	if err := codec.EncodeFrame(frame.NewFrame(startup.Header.Version, startup.Header.StreamId, &protocol.Ready{}), conn); err != nil {
		return
	}

	version := startup.Header.Version

	for {
		req, err := codec.DecodeFrame(conn)
		if err != nil {
			return
		}
		switch m := req.Body.Message.(type) {
		case *protocol.Register:
			_ = codec.EncodeFrame(frame.NewFrame(version, req.Header.StreamId, &protocol.Ready{}), conn)
			go func() {
				for msg := range n.pushCh {
					_ = codec.EncodeFrame(frame.NewFrame(version, -1, msg), conn)
				}
			}()
		case *protocol.Query:
			_ = codec.EncodeFrame(frame.NewFrame(version, req.Header.StreamId, fakeRowsFor(m.Query)), conn)
		}
	}
}

func (n *fakeControlNode) Close() {
	close(n.pushCh)
	_ = n.listener.Close()
}

func fakeRowsFor(query string) *protocol.RowsResult {
	switch {
	case containsAll(query, "system.local"):
		return &protocol.RowsResult{
			Metadata: &protocol.RowsMetadata{ColumnCount: 4, Columns: columns("rpc_address", "data_center", "rack", "tokens")},
			Data: protocol.RowSet{
				protocol.Row{net.ParseIP("127.0.0.1").To4(), []byte("dc1"), []byte("rack1"), []byte("tok-local")},
			},
		}
	case containsAll(query, "system.peers"):
		return &protocol.RowsResult{
			Metadata: &protocol.RowsMetadata{ColumnCount: 4, Columns: columns("peer", "data_center", "rack", "tokens")},
			Data: protocol.RowSet{
				protocol.Row{net.ParseIP("127.0.0.2").To4(), []byte("dc1"), []byte("rack2"), []byte("tok-peer")},
			},
		}
	default:
		return &protocol.RowsResult{Metadata: &protocol.RowsMetadata{}}
	}
}

func containsAll(haystack, needle string) bool {
	return len(haystack) >= len(needle) && indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}

func TestController_InitialRefreshAndRegister(t *testing.T) {
	node := startFakeControlNode(t)
	defer node.Close()

	c := Start(Options{
		ConnOptions: connection.Options{
			Node:            node.addr(),
			ProtocolVersion: primitive.ProtocolVersion4,
			HeartbeatPeriod: time.Hour,
			ReconnectDelay:  time.Hour,
			RequestTimeout:  2 * time.Second,
		},
		RefreshInterval: time.Hour,
	})
	defer c.Close()

	var deltas []Delta
	for i := 0; i < 2; i++ {
		select {
		case d := <-c.Deltas():
			deltas = append(deltas, d)
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for initial deltas")
		}
	}

	var gotLocal, gotPeer bool
	for _, d := range deltas {
		require.Equal(t, HostAdded, d.Type)
		switch d.Host.Address.String() {
		case "127.0.0.1":
			gotLocal = true
		case "127.0.0.2":
			gotPeer = true
		}
	}
	require.True(t, gotLocal)
	require.True(t, gotPeer)
	require.Len(t, c.Hosts(), 2)
}

func TestController_StatusChangeEventEmitsHostDown(t *testing.T) {
	node := startFakeControlNode(t)
	defer node.Close()

	c := Start(Options{
		ConnOptions: connection.Options{
			Node:            node.addr(),
			ProtocolVersion: primitive.ProtocolVersion4,
			HeartbeatPeriod: time.Hour,
			ReconnectDelay:  time.Hour,
			RequestTimeout:  2 * time.Second,
		},
		RefreshInterval: time.Hour,
	})
	defer c.Close()

	// drain the two initial host_added deltas
	for i := 0; i < 2; i++ {
		<-c.Deltas()
	}

	node.push(&protocol.StatusChangeEvent{
		ChangeType: primitive.StatusChangeTypeDown,
		Address:    &primitive.Inet{Addr: net.ParseIP("127.0.0.2"), Port: 9042},
	})

	select {
	case d := <-c.Deltas():
		require.Equal(t, HostDown, d.Type)
		require.Equal(t, "127.0.0.2", d.Host.Address.String())
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for host_down delta")
	}
}
