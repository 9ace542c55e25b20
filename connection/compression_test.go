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
	"bytes"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativecql/corecql/compression/snappy"
	"github.com/nativecql/corecql/frame"
	"github.com/nativecql/corecql/primitive"
	"github.com/nativecql/corecql/protocol"
)

// TestConn_CompressesOutboundFrames exercises a connection negotiated with SNAPPY compression end to end: it
// captures the raw bytes of a client-sent QUERY frame and checks that HeaderFlagCompressed is set and the body is
// actually the compressed form, not a plain encoding with the flag merely flipped on.
func TestConn_CompressesOutboundFrames(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	plainCodec := frame.NewRawCodec()
	compressor := snappy.BodyCompressor{}
	compressedCodec := frame.NewCodecWithCompression(compressor)

	rawQueryFrame := make(chan []byte, 1)

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		options, err := plainCodec.DecodeFrame(conn)
		if err != nil || options.Header.OpCode != primitive.OpCodeOptions {
			return
		}
		if err := plainCodec.EncodeFrame(frame.NewFrame(options.Header.Version, options.Header.StreamId, &protocol.Supported{
			Options: map[string][]string{protocol.StartupOptionCompression: {string(primitive.CompressionSnappy)}},
		}), conn); err != nil {
			return
		}

		startup, err := plainCodec.DecodeFrame(conn)
		if err != nil {
			return
		}
		startupMsg, ok := startup.Body.Message.(*protocol.Startup)
		if !ok || startupMsg.Options[protocol.StartupOptionCompression] != string(primitive.CompressionSnappy) {
			return
		}
		if err := plainCodec.EncodeFrame(frame.NewFrame(startup.Header.Version, startup.Header.StreamId, &protocol.Ready{}), conn); err != nil {
			return
		}

		var raw bytes.Buffer
		query, err := compressedCodec.DecodeFrame(io.TeeReader(conn, &raw))
		if err != nil {
			return
		}
		rawQueryFrame <- raw.Bytes()
		_ = compressedCodec.EncodeFrame(frame.NewFrame(query.Header.Version, query.Header.StreamId, &protocol.VoidResult{}), conn)
	}()

	c := Open(Options{
		Node:            ln.Addr().String(),
		ProtocolVersion: primitive.ProtocolVersion4,
		Compression:     primitive.CompressionSnappy,
		Compressor:      compressor,
		HeartbeatPeriod: time.Hour,
		ReconnectDelay:  time.Hour,
	})
	defer c.Close()

	require.Equal(t, EventConnected, (<-c.Events()).Type)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	query := "SELECT * FROM system.local"
	_, err = c.Send(ctx, &protocol.Query{Query: query, Options: &protocol.QueryOptions{
		Consistency: primitive.ConsistencyLevelOne,
	}})
	require.NoError(t, err)

	var raw []byte
	select {
	case raw = <-rawQueryFrame:
	case <-time.After(2 * time.Second):
		t.Fatal("server never captured the outbound query frame")
	}

	headerLen := primitive.ProtocolVersion4.FrameHeaderLengthInBytes()
	require.Greater(t, len(raw), headerLen)

	flags := primitive.HeaderFlag(raw[1])
	assert.True(t, flags.Contains(primitive.HeaderFlagCompressed), "expected HeaderFlagCompressed on the wire, got flags %v", flags)

	var plainBody bytes.Buffer
	require.NoError(t, plainCodec.EncodeBody(
		&frame.Header{Version: primitive.ProtocolVersion4, OpCode: primitive.OpCodeQuery},
		&frame.Body{Message: &protocol.Query{Query: query, Options: &protocol.QueryOptions{Consistency: primitive.ConsistencyLevelOne}}},
		&plainBody,
	))

	compressedBody := raw[headerLen:]
	assert.NotEqual(t, plainBody.Bytes(), compressedBody, "body on the wire should be compressed, not a plain encoding")
}
