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
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nativecql/corecql/connection"
	"github.com/nativecql/corecql/frame"
	"github.com/nativecql/corecql/primitive"
	"github.com/nativecql/corecql/protocol"
)

const (
	// DefaultRefreshInterval is how often the peer list is re-fetched even absent a TOPOLOGY_CHANGE push.
	DefaultRefreshInterval = 60 * time.Second

	// DefaultNewNodeSettleDelay is how long a NEW_NODE/REMOVED_NODE event waits before the peer list is re-queried,
	// giving the cluster time to finish gossiping the change to every node.
	DefaultNewNodeSettleDelay = 5 * time.Second
)

// Options configures a Controller. ConnOptions.Node selects which node the control connection dials; everything
// else follows connection.Options' own defaults.
type Options struct {
	ConnOptions connection.Options

	// Port is recorded on every fetched Host, since neither system.local nor system.peers carries the native
	// protocol port of the nodes they describe. Defaults to 9042, Cassandra's standard native port.
	Port int32

	RefreshInterval    time.Duration
	NewNodeSettleDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.Port == 0 {
		o.Port = 9042
	}
	if o.RefreshInterval == 0 {
		o.RefreshInterval = DefaultRefreshInterval
	}
	if o.NewNodeSettleDelay == 0 {
		o.NewNodeSettleDelay = DefaultNewNodeSettleDelay
	}
	if o.ConnOptions.RequestTimeout == 0 {
		// connection.Open applies this same default internally to its own copy of ConnOptions, but the controller
		// also needs it here to size the context it builds for queries issued against that connection.
		o.ConnOptions.RequestTimeout = connection.DefaultRequestTimeout
	}
	return o
}

// Controller is the cluster topology supervisor: one dedicated connection.Conn, no user query traffic, publishing
// a stream of Deltas as the peer set and node liveness change.
type Controller struct {
	opts   Options
	conn   *connection.Conn
	logger zerolog.Logger

	deltasCh   chan Delta
	shutdownCh chan struct{}
	doneCh     chan struct{}
	closeOnce  sync.Once

	mu    sync.Mutex
	hosts []*Host
}

// Start dials the control connection and begins the refresh/subscribe loop in the background. It does not block
// until the first refresh completes; callers that need the initial host list should read a few Deltas or poll
// Hosts() after observing connection.EventConnected via Conn().Events().
func Start(opts Options) *Controller {
	opts = opts.withDefaults()
	c := &Controller{
		opts:       opts,
		conn:       connection.Open(opts.ConnOptions),
		logger:     log.With().Str("component", "topology").Str("node", opts.ConnOptions.Node).Logger(),
		deltasCh:   make(chan Delta, 64),
		shutdownCh: make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	go c.run()
	return c
}

// Conn exposes the underlying control connection, e.g. for a caller that also wants its lifecycle Events().
func (c *Controller) Conn() *connection.Conn {
	return c.conn
}

// Deltas returns the channel on which the controller publishes host_added/host_removed/host_up/host_down
// notifications. The channel is closed once Close has fully torn the controller down.
func (c *Controller) Deltas() <-chan Delta {
	return c.deltasCh
}

// Hosts returns the most recently fetched peer set. Safe for concurrent use.
func (c *Controller) Hosts() []*Host {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Host, len(c.hosts))
	copy(out, c.hosts)
	return out
}

// Close stops the refresh loop and the underlying control connection. Idempotent.
func (c *Controller) Close() error {
	c.closeOnce.Do(func() {
		close(c.shutdownCh)
	})
	<-c.doneCh
	return nil
}

func (c *Controller) emit(d Delta) {
	select {
	case c.deltasCh <- d:
	default:
		c.logger.Warn().Msgf("delta channel full, dropping %v for %v", d.Type, d.Host)
	}
}

// run is the controller's own actor loop: it reacts to the control connection's lifecycle events and to pushed
// EVENT frames, re-fetching the peer list whenever either demands it.
func (c *Controller) run() {
	defer close(c.doneCh)
	defer close(c.deltasCh)
	defer c.conn.Close()

	var settleTimer *time.Timer
	var settleCh <-chan time.Time
	refresh := time.NewTicker(c.opts.RefreshInterval)
	defer refresh.Stop()
	defer func() {
		if settleTimer != nil {
			settleTimer.Stop()
		}
	}()

	for {
		select {
		case <-c.shutdownCh:
			return

		case ev, ok := <-c.conn.Events():
			if !ok {
				return
			}
			switch ev.Type {
			case connection.EventConnected:
				c.onConnected()
			case connection.EventDisconnected, connection.EventConnectFailed:
				c.logger.Debug().Err(ev.Err).Msg("control connection down, waiting for automatic reconnect")
			}

		case f, ok := <-c.conn.Pushes():
			if !ok {
				return
			}
			if settleAfter, settle := c.handlePush(f); settle {
				if settleTimer != nil {
					settleTimer.Stop()
				}
				settleTimer = time.NewTimer(settleAfter)
				settleCh = settleTimer.C
			}

		case <-refresh.C:
			c.refreshPeers()

		case <-settleCh:
			settleCh = nil
			c.refreshPeers()
		}
	}
}

// onConnected re-establishes the controller's server-side state after every (re)connect: the peer list is stale
// and the REGISTER subscription does not survive a reconnect, so both must be redone from scratch.
func (c *Controller) onConnected() {
	c.refreshPeers()
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.ConnOptions.RequestTimeout)
	defer cancel()
	resp, err := c.conn.Send(ctx, &protocol.Register{
		EventTypes: []primitive.EventType{primitive.EventTypeStatusChange, primitive.EventTypeTopologyChange},
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to register for topology events")
		return
	}
	if _, ok := resp.Body.Message.(*protocol.Ready); !ok {
		c.logger.Error().Msgf("unexpected REGISTER response: %T", resp.Body.Message)
	}
}

// handlePush reacts to a single unsolicited EVENT frame. It returns a delay and true when the caller should arm a
// one-shot settle timer before re-querying peers (NEW_NODE/REMOVED_NODE); STATUS_CHANGE is handled immediately.
func (c *Controller) handlePush(f *frame.Frame) (time.Duration, bool) {
	switch ev := f.Body.Message.(type) {
	case *protocol.StatusChangeEvent:
		host := c.findHost(ev.Address)
		if host == nil {
			c.logger.Debug().Msgf("STATUS_CHANGE %v for unknown host %v, ignoring", ev.ChangeType, ev.Address)
			return 0, false
		}
		switch ev.ChangeType {
		case primitive.StatusChangeTypeUp:
			c.emit(Delta{Type: HostUp, Host: host})
		case primitive.StatusChangeTypeDown:
			c.emit(Delta{Type: HostDown, Host: host})
		}
		return 0, false

	case *protocol.TopologyChangeEvent:
		switch ev.ChangeType {
		case primitive.TopologyChangeTypeNewNode, primitive.TopologyChangeTypeRemovedNode:
			c.logger.Debug().Msgf("TOPOLOGY_CHANGE %v for %v, refreshing in %v", ev.ChangeType, ev.Address, c.opts.NewNodeSettleDelay)
			return c.opts.NewNodeSettleDelay, true
		case primitive.TopologyChangeTypeMovedNode:
			c.logger.Warn().Msgf("TOPOLOGY_CHANGE MOVED_NODE for %v, ignoring", ev.Address)
		}
		return 0, false

	default:
		c.logger.Debug().Msgf("ignoring unexpected pushed frame: %T", f.Body.Message)
		return 0, false
	}
}

func (c *Controller) findHost(addr *primitive.Inet) *Host {
	if addr == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, h := range c.hosts {
		if h.Address.Equal(addr.Addr) {
			return h
		}
	}
	return nil
}

// refreshPeers performs step 1 of the control connection lifecycle: query system.local and system.peers, diff
// the result against the previously known set, and emit exactly one delta per host that appeared or disappeared.
func (c *Controller) refreshPeers() {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.ConnOptions.RequestTimeout)
	defer cancel()

	local, err := c.queryHosts(ctx, "SELECT rpc_address, data_center, rack, tokens FROM system.local", "rpc_address")
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to query system.local")
		return
	}
	peers, err := c.queryHosts(ctx, "SELECT peer, data_center, rack, tokens FROM system.peers", "peer")
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to query system.peers")
		return
	}

	// The local node is always first, per spec.
	next := make([]*Host, 0, len(local)+len(peers))
	next = append(next, local...)
	next = append(next, peers...)

	c.mu.Lock()
	previous := c.hosts
	c.hosts = next
	c.mu.Unlock()

	for _, d := range diffHosts(previous, next) {
		c.emit(d)
	}
}

func (c *Controller) queryHosts(ctx context.Context, query string, addressColumn string) ([]*Host, error) {
	resp, err := c.conn.Send(ctx, &protocol.Query{
		Query:   query,
		Options: &protocol.QueryOptions{Consistency: primitive.ConsistencyLevelOne},
	})
	if err != nil {
		return nil, fmt.Errorf("cannot execute %q: %w", query, err)
	}
	rows, ok := resp.Body.Message.(*protocol.RowsResult)
	if !ok {
		return nil, fmt.Errorf("unexpected response to %q: %T", query, resp.Body.Message)
	}
	return hostsFromRows(rows, addressColumn, c.opts.Port)
}
