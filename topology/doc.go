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

// Package topology implements the cluster topology supervisor: a control connection that fetches the peer list
// from system.local/system.peers, subscribes to STATUS_CHANGE and TOPOLOGY_CHANGE server events, and republishes
// both as a small upstream delta model (host added/removed/up/down) that a connection pool above this package can
// react to without re-deriving the diff itself.
//
// Controller owns exactly one connection.Conn dedicated to this bookkeeping; it carries no user query traffic,
// mirroring how client.CqlClientConnection is a plain connection that any caller, including a control-plane one,
// can open.
package topology
