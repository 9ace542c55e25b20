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

// Package connection implements the per-node connection state machine: dialing a node, performing the
// OPTIONS/STARTUP handshake, multiplexing up to 32767 concurrent requests over a single socket using stream ids,
// and tearing the connection down cleanly on error or on request.
//
// A Conn is a small actor: all of its mutable state is only ever touched from its own run loop goroutine, and
// callers interact with it exclusively through channels (Send, events, Close). This mirrors how
// github.com/datastax/go-cassandra-native-protocol's client.CqlClientConnection is built, generalized to the
// explicit Disconnected/Connected state machine and the wider stream id space this driver core requires.
package connection
