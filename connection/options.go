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
	"crypto/tls"
	"time"

	"github.com/nativecql/corecql/frame"
	"github.com/nativecql/corecql/primitive"
	"github.com/nativecql/corecql/segment"
)

// Default timeouts and buffer sizes, carried over from client.CqlClientConnection's defaults.
const (
	DefaultConnectTimeout  = 5 * time.Second
	DefaultHeartbeatPeriod = 30 * time.Second
	DefaultReconnectDelay  = 5 * time.Second
	DefaultRequestTimeout  = 12 * time.Second
)

// ReconfigureFunc is invoked once at the start of every connect attempt (including reconnects), letting callers
// adjust per-attempt settings such as which node to dial next, without having to build an entirely new Options.
// It receives the Options that are about to be used and may mutate them in place.
type ReconfigureFunc func(options *Options)

// Compressor negotiates and performs protocol v3/v4 frame body compression; the same value additionally satisfies
// segment.PayloadCompressor so it can drive v5 per-segment compression too. lz4.BodyCompressor and
// snappy.BodyCompressor (see the compression/ subpackages) both implement it.
type Compressor interface {
	frame.BodyCompressor
	segment.PayloadCompressor
}

// Options configures a single Conn. It is a plain struct, not a builder, matching how client.ConnectionConfig and
// client.CqlClientConnection are configured in the teacher library.
type Options struct {
	// Name identifies this connection in logs, e.g. "control" or "node-3-conn-2". Defaults to the Node address.
	Name string

	// Node is the "host:port" address to dial.
	Node string

	// TLSConfig enables encryption when non-nil.
	TLSConfig *tls.Config

	// ProtocolVersion is the version to attempt on the first connect. If the server rejects it with a
	// PROTOCOL_ERROR, Conn negotiates down automatically (see parseProtocolDowngrade) and Options.ProtocolVersion
	// is updated in place to reflect the version that was ultimately negotiated.
	ProtocolVersion primitive.ProtocolVersion

	// Compression selects the negotiated body/segment compression algorithm. CompressionNone disables compression.
	Compression primitive.Compression

	// Compressor performs the compression selected by Compression. Required unless Compression is CompressionNone.
	Compressor Compressor

	// Keyspace, if non-empty, is set with a "USE <keyspace>" query right after the handshake completes.
	Keyspace string

	// DefaultConsistency is not used by this package directly; it is carried on Options purely so that the layer
	// issuing queries over this Conn has a single place to read the node's configured default consistency from.
	DefaultConsistency primitive.ConsistencyLevel

	// Credentials, when non-nil, answers AUTHENTICATE challenges during the handshake. Authenticator SASL mechanics
	// beyond this simple delegation point are out of scope for this package.
	Credentials Authenticator

	// Configure is called once per connect attempt before dialing; see ReconfigureFunc.
	Configure ReconfigureFunc

	ConnectTimeout  time.Duration
	RequestTimeout  time.Duration
	HeartbeatPeriod time.Duration
	ReconnectDelay  time.Duration
}

// Authenticator answers a single AUTHENTICATE challenge with the bytes to place in an AUTH_RESPONSE. It is
// intentionally minimal: SASL round-tripping, mechanism negotiation and credential storage are layered concerns
// that belong above this package.
type Authenticator interface {
	InitialResponse() []byte
}

// withDefaults returns a copy of o with zero-valued fields set to their defaults.
func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = o.Node
	}
	if o.ProtocolVersion == 0 {
		o.ProtocolVersion = primitive.ProtocolVersion4
	}
	if o.Compression == "" {
		o.Compression = primitive.CompressionNone
	}
	if o.ConnectTimeout == 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}
	if o.RequestTimeout == 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
	if o.HeartbeatPeriod == 0 {
		o.HeartbeatPeriod = DefaultHeartbeatPeriod
	}
	if o.ReconnectDelay == 0 {
		o.ReconnectDelay = DefaultReconnectDelay
	}
	return o
}
