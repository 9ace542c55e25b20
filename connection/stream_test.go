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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamIDPool_AcquireIsUnique(t *testing.T) {
	pool := newStreamIDPool()
	seen := make(map[int16]bool, maxStreamID)
	for i := 0; i < maxStreamID; i++ {
		id, err := pool.acquire()
		require.NoError(t, err)
		assert.False(t, seen[id], "stream id %d handed out twice", id)
		seen[id] = true
		assert.True(t, id >= 1 && id <= maxStreamID)
	}
	_, err := pool.acquire()
	assert.ErrorIs(t, err, ErrStreamIDsExhausted)
}

func TestStreamIDPool_ReleaseMakesIdAvailableAgain(t *testing.T) {
	pool := newStreamIDPool()
	id, err := pool.acquire()
	require.NoError(t, err)
	pool.release(id)
	assert.Equal(t, maxStreamID, len(pool.free))
}

func TestStreamIDPool_ReleaseAllRestoresFullCapacity(t *testing.T) {
	pool := newStreamIDPool()
	for i := 0; i < 100; i++ {
		_, err := pool.acquire()
		require.NoError(t, err)
	}
	assert.Equal(t, 100, pool.inUse())
	pool.releaseAll()
	assert.Equal(t, 0, pool.inUse())
	assert.Equal(t, maxStreamID, len(pool.free))
}

func TestStreamIDPool_AcquireSpecific(t *testing.T) {
	pool := newStreamIDPool()
	ok := pool.acquireSpecific(42)
	assert.True(t, ok)
	ok = pool.acquireSpecific(42)
	assert.False(t, ok, "id 42 should no longer be in the free pool")
}
