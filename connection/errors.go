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
	"errors"
	"fmt"

	"github.com/nativecql/corecql/primitive"
)

// Sentinel connection-lifecycle errors. Callers should compare against these with errors.Is; ConnError and
// ServerError wrap them with connection-specific and server-specific context respectively.
var (
	// ErrNotConnected is returned by Send when the connection has not completed its handshake yet.
	ErrNotConnected = errors.New("connection: not connected")

	// ErrConnectFailed is returned when dialing the node or completing the handshake fails.
	ErrConnectFailed = errors.New("connection: connect failed")

	// ErrDisconnected is returned to every pending waiter when the connection is shut down by Close, and by Send once
	// the Conn has stopped. When the connection drops because of a socket or decode failure, pending waiters receive
	// that failure (e.g. an error wrapping ErrConnectionCrashed) instead of ErrDisconnected.
	ErrDisconnected = errors.New("connection: disconnected")

	// ErrTimeout is returned when a request does not receive a response before its deadline.
	ErrTimeout = errors.New("connection: request timed out")

	// ErrConnectionCrashed indicates the socket failed unexpectedly (read/write error, unexpected EOF).
	ErrConnectionCrashed = errors.New("connection: crashed")

	// ErrMalformedFrame indicates a frame or segment failed to decode.
	ErrMalformedFrame = errors.New("connection: malformed frame")

	// ErrCrcHeader indicates a protocol v5 segment header failed CRC24 verification.
	ErrCrcHeader = errors.New("connection: segment header checksum mismatch")

	// ErrCrcPayload indicates a protocol v5 segment payload failed CRC32 verification.
	ErrCrcPayload = errors.New("connection: segment payload checksum mismatch")

	// ErrUnsupportedCompression is returned when the configured compression algorithm is not advertised by the
	// server's SUPPORTED response.
	ErrUnsupportedCompression = errors.New("connection: compression algorithm not supported by server")

	// ErrUnsupportedProtocol reports a protocol version the server does not support. Conn's handshake does not return
	// it: when a PROTOCOL_ERROR names no usable version, the handshake retries with the next lower supported version,
	// and fails with ErrProtocolNegotiationFailed once no lower version is left.
	ErrUnsupportedProtocol = errors.New("connection: protocol version not supported by server")

	// ErrProtocolNegotiationFailed is returned when every protocol version down to the floor has been attempted
	// and rejected.
	ErrProtocolNegotiationFailed = errors.New("connection: protocol negotiation failed")

	// ErrCompressorMismatch is returned when Options.Compressor's algorithm name does not match Options.Compression.
	ErrCompressorMismatch = errors.New("connection: compressor does not implement the configured compression algorithm")

	// ErrUnexpectedStream indicates an inbound frame referenced a stream id with no matching waiter; this is
	// always fatal to the connection, since it means the wire is no longer trustworthy.
	ErrUnexpectedStream = errors.New("connection: response for unknown stream id")
)

// ConnError reports a failure of the connection itself (dialing, handshake, socket I/O), as opposed to an error
// reported by the server in a well-formed ERROR frame (see ServerError). It wraps one of the sentinel errors above
// and carries the node address the failure occurred on, mirroring client.CqlClientConnection's practice of
// prefixing log and error messages with the connection identity.
type ConnError struct {
	Node string
	Err  error
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("%s: %s", e.Node, e.Err)
}

func (e *ConnError) Unwrap() error { return e.Err }

func newConnError(node string, err error) *ConnError {
	return &ConnError{Node: node, Err: err}
}

// ServerError reports an ERROR frame sent by the server in response to a request. It carries the protocol error
// code and message verbatim so callers can distinguish e.g. an overloaded coordinator from a syntax error without
// this package having to re-derive CQL error-code semantics that belong to higher layers.
type ServerError struct {
	Node     string
	Code     primitive.ErrorCode
	Message  string
	StreamID int16
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: server error %v (stream %d): %s", e.Node, e.Code, e.StreamID, e.Message)
}

func newServerError(node string, streamID int16, errMsg interface {
	GetErrorCode() primitive.ErrorCode
	GetErrorMessage() string
}) *ServerError {
	return &ServerError{
		Node:     node,
		Code:     errMsg.GetErrorCode(),
		Message:  errMsg.GetErrorMessage(),
		StreamID: streamID,
	}
}
