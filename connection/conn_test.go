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
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativecql/corecql/frame"
	"github.com/nativecql/corecql/primitive"
	"github.com/nativecql/corecql/protocol"
)

// fakeNode is a minimal single-connection CQL server used to exercise Conn's handshake and request/response
// round trip without a real Cassandra instance, in the same spirit as client_local_test.go's in-process server.
type fakeNode struct {
	listener net.Listener
	codec    frame.Codec
}

func startFakeNode(t *testing.T) *fakeNode {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	n := &fakeNode{listener: ln, codec: frame.NewCodec()}
	go n.serve(t)
	return n
}

func (n *fakeNode) addr() string {
	return n.listener.Addr().String()
}

func (n *fakeNode) serve(t *testing.T) {
	conn, err := n.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	options, err := n.codec.DecodeFrame(conn)
	if err != nil {
		return
	}
	if _, ok := options.Body.Message.(*protocol.Options); !ok {
		return
	}
	if err := n.codec.EncodeFrame(frame.NewFrame(options.Header.Version, options.Header.StreamId, &protocol.Supported{
		Options: map[string][]string{},
	}), conn); err != nil {
		return
	}

	startup, err := n.codec.DecodeFrame(conn)
	if err != nil {
		return
	}
	if _, ok := startup.Body.Message.(*protocol.Startup); !ok {
		return
	}
	if err := n.codec.EncodeFrame(frame.NewFrame(startup.Header.Version, startup.Header.StreamId, &protocol.Ready{}), conn); err != nil {
		return
	}

	for {
		req, err := n.codec.DecodeFrame(conn)
		if err != nil {
			return
		}
		switch req.Body.Message.(type) {
		case *protocol.Options:
			_ = n.codec.EncodeFrame(frame.NewFrame(req.Header.Version, req.Header.StreamId, &protocol.Supported{
				Options: map[string][]string{},
			}), conn)
		default:
			_ = n.codec.EncodeFrame(frame.NewFrame(req.Header.Version, req.Header.StreamId, &protocol.VoidResult{}), conn)
		}
	}
}

func (n *fakeNode) Close() {
	_ = n.listener.Close()
}

func TestConn_ConnectAndSend(t *testing.T) {
	node := startFakeNode(t)
	defer node.Close()

	c := Open(Options{
		Node:            node.addr(),
		ProtocolVersion: primitive.ProtocolVersion4,
		HeartbeatPeriod: time.Hour, // disable heartbeats for this test
		ReconnectDelay:  time.Millisecond,
	})
	defer c.Close()

	ev := <-c.Events()
	require.Equal(t, EventConnected, ev.Type)
	assert.Equal(t, StateConnected, c.State())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := c.Send(ctx, &protocol.Query{Query: "SELECT * FROM system.local", Options: &protocol.QueryOptions{
		Consistency: primitive.ConsistencyLevelOne,
	}})
	require.NoError(t, err)
	_, ok := resp.Body.Message.(*protocol.VoidResult)
	assert.True(t, ok)
}

func TestConn_SendHeartbeat(t *testing.T) {
	node := startFakeNode(t)
	defer node.Close()

	c := Open(Options{
		Node:            node.addr(),
		ProtocolVersion: primitive.ProtocolVersion4,
		HeartbeatPeriod: time.Hour,
		ReconnectDelay:  time.Millisecond,
	})
	defer c.Close()

	require.Equal(t, EventConnected, (<-c.Events()).Type)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, c.SendHeartbeat(ctx))
}

func TestConn_DisconnectDrainsPendingRequests(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		codec := frame.NewCodec()
		options, err := codec.DecodeFrame(conn)
		if err != nil {
			return
		}
		_ = codec.EncodeFrame(frame.NewFrame(options.Header.Version, options.Header.StreamId, &protocol.Supported{
			Options: map[string][]string{},
		}), conn)
		startup, err := codec.DecodeFrame(conn)
		if err != nil {
			return
		}
		_ = codec.EncodeFrame(frame.NewFrame(startup.Header.Version, startup.Header.StreamId, &protocol.Ready{}), conn)
		accepted <- conn
		// deliberately never answer further requests, then close to simulate a mid-flight crash.
		_, _ = codec.DecodeFrame(conn)
		conn.Close()
	}()

	c := Open(Options{
		Node:            ln.Addr().String(),
		ProtocolVersion: primitive.ProtocolVersion4,
		HeartbeatPeriod: time.Hour,
		ReconnectDelay:  time.Hour, // don't race a reconnect attempt during the assertions below
	})
	defer c.Close()

	require.Equal(t, EventConnected, (<-c.Events()).Type)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = c.Send(ctx, &protocol.Query{Query: "SELECT * FROM system.local", Options: &protocol.QueryOptions{
		Consistency: primitive.ConsistencyLevelOne,
	}})
	assert.ErrorIs(t, err, ErrConnectionCrashed)

	ev := <-c.Events()
	assert.Equal(t, EventDisconnected, ev.Type)
}
