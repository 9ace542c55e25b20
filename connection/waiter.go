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
	"sync"

	"github.com/nativecql/corecql/frame"
)

// waiter is a one-shot handle tracking a single in-flight request. It is modeled on client.inFlightRequest, but
// simplified to deliver exactly one response: page-streaming iterators that need multiple frames per stream id are
// explicitly out of scope for this package.
//
// A waiter is created by Conn when a request is dispatched and is resolved exactly once, either with the matching
// response frame or with an error (ErrDisconnected, or the fatal connection error that caused the disconnect); a
// caller that stops waiting because its ctx ended does not resolve it. Resolving twice is a programming error and is guarded against so a buggy caller cannot panic the run loop.
type waiter struct {
	streamID int16
	done     chan struct{}

	mu       sync.Mutex
	resolved bool
	frame    *frame.Frame
	err      error
}

func newWaiter(streamID int16) *waiter {
	return &waiter{
		streamID: streamID,
		done:     make(chan struct{}),
	}
}

// resolve completes the waiter exactly once; subsequent calls are no-ops.
func (w *waiter) resolve(f *frame.Frame, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.resolved {
		return
	}
	w.resolved = true
	w.frame = f
	w.err = err
	close(w.done)
}

// Done returns a channel that is closed once the waiter has been resolved.
func (w *waiter) Done() <-chan struct{} {
	return w.done
}

// Result returns the resolved frame and error. It must only be called after Done() has fired.
func (w *waiter) Result() (*frame.Frame, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frame, w.err
}
