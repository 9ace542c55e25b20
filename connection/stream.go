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

import "fmt"

// maxStreamID is the largest stream id a protocol v3+ connection can multiplex, the largest positive value of the
// signed 16-bit stream id; stream id 0 is reserved for the frames the handshake sends (OPTIONS, STARTUP,
// AUTH_RESPONSE and the optional USE) and is never handed out by the pool.
const maxStreamID = 32767

// ErrStreamIDsExhausted is returned by streamIDPool.acquire when every stream id in [1, maxStreamID] is currently
// checked out.
var ErrStreamIDsExhausted = fmt.Errorf("no stream ids available: %d requests already in flight", maxStreamID)

// streamIDPool hands out stream ids for in-flight request multiplexing. It is modeled on
// client.inFlightRequestsHandler's streamIds channel, with the free-id set replaced by a stack so that
// releaseAll can restore the exact initial state after a disconnect without re-allocating a fresh channel.
//
// streamIDPool is not safe for concurrent use; it is only ever touched from the owning Conn's run loop.
type streamIDPool struct {
	free []int16 // free[len-1] is the next id to hand out
}

func newStreamIDPool() *streamIDPool {
	p := &streamIDPool{}
	p.releaseAll()
	return p
}

// acquire pops a free stream id. Ids are handed out in ascending order starting at 1.
func (p *streamIDPool) acquire() (int16, error) {
	if len(p.free) == 0 {
		return 0, ErrStreamIDsExhausted
	}
	n := len(p.free) - 1
	id := p.free[n]
	p.free = p.free[:n]
	return id, nil
}

// acquireSpecific removes a specific stream id from the free pool, reporting whether it was present. It exists so
// tests can force a deterministic stream id (e.g. to simulate an UnexpectedStream server reply) without acquiring
// all the ids ahead of it.
func (p *streamIDPool) acquireSpecific(id int16) bool {
	for i, free := range p.free {
		if free == id {
			p.free[i] = p.free[len(p.free)-1]
			p.free = p.free[:len(p.free)-1]
			return true
		}
	}
	return false
}

// release returns a stream id to the free pool, making it available for reuse.
func (p *streamIDPool) release(id int16) {
	p.free = append(p.free, id)
}

// releaseAll restores the pool to its initial, fully-free state. Called when a connection drops so a subsequent
// reconnect starts with a clean slate; this is also what guarantees the drain-on-disconnect invariant holds even if
// a release was somehow missed.
func (p *streamIDPool) releaseAll() {
	free := make([]int16, maxStreamID)
	for i := range free {
		free[i] = int16(maxStreamID - i)
	}
	p.free = free
}

// inUse reports how many stream ids are currently checked out.
func (p *streamIDPool) inUse() int {
	return maxStreamID - len(p.free)
}
