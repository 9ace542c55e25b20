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
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nativecql/corecql/frame"
	"github.com/nativecql/corecql/primitive"
	"github.com/nativecql/corecql/protocol"
	"github.com/nativecql/corecql/segment"
)

// State is the high-level state of a Conn, as seen from the outside.
type State int32

const (
	StateDisconnected State = iota
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// EventType distinguishes the lifecycle events Conn publishes on its Events channel.
type EventType int

const (
	EventConnected EventType = iota
	EventConnectFailed
	EventDisconnected
	EventClosed
)

// Event is a single lifecycle notification, consumed by a parent (e.g. the topology package's control connection,
// or a connection pool) that needs to react to reconnects without polling State().
type Event struct {
	Type EventType
	Err  error
}

// Conn is a single-socket connection to one Cassandra node. All mutable state is confined to the run loop goroutine
// started by Open; every other method communicates with it over channels, the same mailbox discipline
// client.CqlClientConnection uses for its incomingLoop/outgoingLoop pair.
type Conn struct {
	opts   Options
	logger zerolog.Logger

	state int32 // atomic State, for State()'s fast path only; authoritative state lives in the run loop

	checkoutCh chan *checkoutRequest
	eventsCh   chan Event
	pushCh     chan *frame.Frame
	shutdownCh chan struct{}
	doneCh     chan struct{}

	closeOnce sync.Once
}

type checkoutRequest struct {
	msg      protocol.Message
	resultCh chan checkoutResult
}

type checkoutResult struct {
	w   *waiter
	err error
}

// inboundFrame is what the reader goroutine hands back to the run loop for each decoded application frame.
type inboundFrame struct {
	frame *frame.Frame
	err   error
}

// Open creates a Conn and immediately starts its background connect/serve/reconnect loop. The first connect
// attempt's outcome is reported on Events(); callers that need to block until the first connect succeeds should
// read from that channel themselves.
func Open(opts Options) *Conn {
	opts = opts.withDefaults()
	c := &Conn{
		opts:       opts,
		logger:     log.With().Str("component", "connection").Str("node", opts.Name).Logger(),
		checkoutCh: make(chan *checkoutRequest),
		eventsCh:   make(chan Event, 8),
		pushCh:     make(chan *frame.Frame, 8),
		shutdownCh: make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	atomic.StoreInt32(&c.state, int32(StateDisconnected))
	go c.run()
	return c
}

// State returns the connection's last known state. It is inherently racy with concurrent reconnects, and exists
// for diagnostics and tests, not for making correctness decisions; use Send's error or Events() for that.
func (c *Conn) State() State {
	return State(atomic.LoadInt32(&c.state))
}

// Events returns the channel on which Conn publishes connect/disconnect/close notifications. The channel is never
// closed by Conn while open; it is closed only after Close has fully torn the connection down.
func (c *Conn) Events() <-chan Event {
	return c.eventsCh
}

// Pushes returns the channel on which Conn publishes unsolicited server frames, i.e. EVENT frames sent after a
// REGISTER, which arrive on stream id -1 and have no waiter to resolve. It is closed when Close has fully torn
// the connection down, same as Events.
func (c *Conn) Pushes() <-chan *frame.Frame {
	return c.pushCh
}

// Close shuts the connection down, failing every in-flight request with ErrDisconnected and preventing further
// reconnect attempts. Close is idempotent and safe to call multiple times.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.shutdownCh)
	})
	<-c.doneCh
	return nil
}

// Send dispatches a request frame and waits for its matching response, honoring ctx's deadline: once it passes, Send
// returns ErrTimeout. It fails fast with ErrNotConnected if the connection is mid-handshake or mid-reconnect.
func (c *Conn) Send(ctx context.Context, msg protocol.Message) (*frame.Frame, error) {
	if c.State() != StateConnected {
		return nil, newConnError(c.opts.Name, ErrNotConnected)
	}
	ctxErr := func() error {
		if ctx.Err() == context.DeadlineExceeded {
			return newConnError(c.opts.Name, ErrTimeout)
		}
		return ctx.Err()
	}
	req := &checkoutRequest{msg: msg, resultCh: make(chan checkoutResult, 1)}
	select {
	case c.checkoutCh <- req:
	case <-ctx.Done():
		return nil, ctxErr()
	case <-c.doneCh:
		return nil, newConnError(c.opts.Name, ErrDisconnected)
	}
	var res checkoutResult
	select {
	case res = <-req.resultCh:
	case <-ctx.Done():
		return nil, ctxErr()
	case <-c.doneCh:
		return nil, newConnError(c.opts.Name, ErrDisconnected)
	}
	if res.err != nil {
		return nil, res.err
	}
	select {
	case <-res.w.Done():
		f, err := res.w.Result()
		return f, err
	case <-ctx.Done():
		return nil, ctxErr()
	}
}

// SendHeartbeat issues a liveness probe (a bare OPTIONS request) and confirms the server replies with SUPPORTED.
// This is the supplemental heartbeat mechanism: a connection that has seen no application traffic in a while may
// still be a half-open socket, and periodically round-tripping OPTIONS is the cheapest way to detect that. It
// mirrors the server-side HeartbeatHandler in the teacher library, applied from the client's point of view.
func (c *Conn) SendHeartbeat(ctx context.Context) error {
	resp, err := c.Send(ctx, &protocol.Options{})
	if err != nil {
		return fmt.Errorf("heartbeat failed: %w", err)
	}
	if _, ok := resp.Body.Message.(*protocol.Supported); !ok {
		return fmt.Errorf("heartbeat failed: unexpected response opcode %v", resp.Header.OpCode)
	}
	return nil
}

// run is the top-level actor loop: it alternates between connecting and serving until Close is called.
func (c *Conn) run() {
	defer close(c.doneCh)
	defer close(c.eventsCh)
	defer close(c.pushCh)
	for {
		select {
		case <-c.shutdownCh:
			return
		default:
		}

		session, err := c.connect()
		if err != nil {
			atomic.StoreInt32(&c.state, int32(StateDisconnected))
			c.emit(Event{Type: EventConnectFailed, Err: err})
			select {
			case <-time.After(c.opts.ReconnectDelay):
				continue
			case <-c.shutdownCh:
				return
			}
		}

		atomic.StoreInt32(&c.state, int32(StateConnected))
		c.emit(Event{Type: EventConnected})

		disconnectErr := c.serve(session)

		atomic.StoreInt32(&c.state, int32(StateDisconnected))
		session.teardown(disconnectErr)

		select {
		case <-c.shutdownCh:
			return
		default:
			c.emit(Event{Type: EventDisconnected, Err: disconnectErr})
		}
	}
}

func (c *Conn) emit(ev Event) {
	select {
	case c.eventsCh <- ev:
	default:
		// a slow or absent consumer must never stall the connection actor; drop the event.
		c.logger.Warn().Msgf("event channel full, dropping %v", ev.Type)
	}
}

func (c *Conn) emitPush(f *frame.Frame) {
	select {
	case c.pushCh <- f:
	default:
		c.logger.Warn().Msg("push channel full, dropping unsolicited event frame")
	}
}

// session holds everything that is only valid while connected: the socket, the negotiated codecs and the
// bookkeeping for in-flight requests. A fresh session is built on every (re)connect.
type session struct {
	conn         net.Conn
	frameCodec   frame.Codec
	segmentCodec segment.Codec
	modern       bool // true once the negotiated protocol version uses v5 segmented framing

	streamIDs *streamIDPool
	pending   map[int16]*waiter
	mu        sync.Mutex

	inboundCh chan inboundFrame
	quit      chan struct{}
	readerWg  sync.WaitGroup
	closeOnce sync.Once
}

func (s *session) teardown(err error) {
	s.closeOnce.Do(func() {
		close(s.quit)
		if s.conn != nil {
			_ = s.conn.Close()
		}
	})
	s.readerWg.Wait()
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, w := range pending {
		if err != nil {
			w.resolve(nil, err)
		} else {
			w.resolve(nil, ErrDisconnected)
		}
	}
	if s.streamIDs != nil {
		s.streamIDs.releaseAll()
	}
}

// connect dials the node and performs the full handshake described in the connection lifecycle: TCP/TLS dial,
// OPTIONS/SUPPORTED, compression validation, STARTUP with automatic protocol downgrade on PROTOCOL_ERROR,
// READY/AUTHENTICATE/ERROR branching, and an optional USE <keyspace>.
func (c *Conn) connect() (*session, error) {
	if c.opts.Configure != nil {
		c.opts.Configure(&c.opts)
	}

	dialer := net.Dialer{Timeout: c.opts.ConnectTimeout}
	var rawConn net.Conn
	var err error
	if c.opts.TLSConfig != nil {
		rawConn, err = tls.DialWithDialer(&dialer, "tcp", c.opts.Node, c.opts.TLSConfig)
	} else {
		rawConn, err = dialer.Dial("tcp", c.opts.Node)
	}
	if err != nil {
		return nil, newConnError(c.opts.Name, fmt.Errorf("%w: %v", ErrConnectFailed, err))
	}

	frameCodec := frame.NewCodec()
	s := &session{
		conn:       rawConn,
		frameCodec: frameCodec,
		streamIDs:  newStreamIDPool(),
		pending:    make(map[int16]*waiter),
		inboundCh:  make(chan inboundFrame, 16),
		quit:       make(chan struct{}),
	}

	if err := c.handshake(s); err != nil {
		_ = rawConn.Close()
		return nil, err
	}

	s.readerWg.Add(1)
	go c.readLoop(s)

	return s, nil
}

// handshake performs steps 2-7 of the connection lifecycle synchronously, before the reader goroutine and the run
// loop's multiplexed serve() take over. Exactly one frame is ever in flight during this phase, so it talks to the
// socket directly instead of going through the waiter/pending machinery.
func (c *Conn) handshake(s *session) error {
	version := c.opts.ProtocolVersion
	for {
		if err := c.writeHandshakeFrame(s, frame.NewFrame(version, 0, &protocol.Options{})); err != nil {
			return newConnError(c.opts.Name, fmt.Errorf("%w: sending OPTIONS: %v", ErrConnectFailed, err))
		}
		resp, err := c.readHandshakeFrame(s)
		if err != nil {
			return newConnError(c.opts.Name, fmt.Errorf("%w: reading SUPPORTED: %v", ErrConnectFailed, err))
		}
		supported, ok := resp.Body.Message.(*protocol.Supported)
		if !ok {
			return newConnError(c.opts.Name, fmt.Errorf("%w: expected SUPPORTED, got %T", ErrConnectFailed, resp.Body.Message))
		}
		if c.opts.Compression != primitive.CompressionNone {
			if err := checkCompressionSupported(supported, c.opts.Compression); err != nil {
				return newConnError(c.opts.Name, err)
			}
			if c.opts.Compressor == nil {
				return newConnError(c.opts.Name, ErrCompressorMismatch)
			}
			if c.opts.Compressor.Algorithm() != string(c.opts.Compression) {
				return newConnError(c.opts.Name, ErrCompressorMismatch)
			}
		}

		startupOpts := []string{protocol.StartupOptionCqlVersion, "3.0.0"}
		if c.opts.Compression != primitive.CompressionNone {
			startupOpts = append(startupOpts, protocol.StartupOptionCompression, string(c.opts.Compression))
		}
		startup := protocol.NewStartup(startupOpts...)
		if err := c.writeHandshakeFrame(s, frame.NewFrame(version, 0, startup)); err != nil {
			return newConnError(c.opts.Name, fmt.Errorf("%w: sending STARTUP: %v", ErrConnectFailed, err))
		}

		// From this point on the negotiated compressor applies to every subsequent frame, including the
		// STARTUP response itself per protocol v3/v4; protocol v5's segment layer is only switched on once the
		// handshake fully succeeds, mirroring client.CqlClientConnection.maybeSwitchToModernLayout.
		if c.opts.Compression != primitive.CompressionNone {
			s.frameCodec = frame.NewCodecWithCompression(c.opts.Compressor)
		}

		resp, err = c.readHandshakeFrame(s)
		if err != nil {
			return newConnError(c.opts.Name, fmt.Errorf("%w: reading STARTUP response: %v", ErrConnectFailed, err))
		}

		switch m := resp.Body.Message.(type) {
		case *protocol.Ready:
			c.opts.ProtocolVersion = version
			return c.finishHandshake(s, version)
		case *protocol.Authenticate:
			if c.opts.Credentials == nil {
				return newConnError(c.opts.Name, fmt.Errorf("%w: server requires authentication", ErrConnectFailed))
			}
			authResp := &protocol.AuthResponse{Token: c.opts.Credentials.InitialResponse()}
			if err := c.writeHandshakeFrame(s, frame.NewFrame(version, 0, authResp)); err != nil {
				return newConnError(c.opts.Name, fmt.Errorf("%w: sending AUTH_RESPONSE: %v", ErrConnectFailed, err))
			}
			authResult, err := c.readHandshakeFrame(s)
			if err != nil {
				return newConnError(c.opts.Name, fmt.Errorf("%w: reading auth result: %v", ErrConnectFailed, err))
			}
			switch authResult.Body.Message.(type) {
			case *protocol.AuthSuccess:
				c.opts.ProtocolVersion = version
				return c.finishHandshake(s, version)
			case *protocol.AuthChallenge:
				return newConnError(c.opts.Name, fmt.Errorf("%w: multi-step SASL challenges are not supported", ErrConnectFailed))
			default:
				return newConnError(c.opts.Name, serverErrorFrom(c.opts.Name, 0, authResult))
			}
		case *protocol.ProtocolError:
			next, ok := parseProtocolDowngrade(m.ErrorMessage, version)
			if !ok {
				return newConnError(c.opts.Name, fmt.Errorf("%w: %s", ErrProtocolNegotiationFailed, m.ErrorMessage))
			}
			c.logger.Debug().Msgf("protocol version %v rejected, retrying with %v", version, next)
			version = next
			continue
		default:
			return newConnError(c.opts.Name, serverErrorFrom(c.opts.Name, 0, resp))
		}
	}
}

// finishHandshake switches on v5 segmented framing if applicable and issues the optional USE <keyspace>.
func (c *Conn) finishHandshake(s *session, version primitive.ProtocolVersion) error {
	if version >= primitive.ProtocolVersion5 {
		s.modern = true
		if c.opts.Compression != primitive.CompressionNone {
			s.segmentCodec = segment.NewCodecWithCompression(c.opts.Compressor)
		} else {
			s.segmentCodec = segment.NewCodec()
		}
	}
	if c.opts.Keyspace != "" {
		useFrame := frame.NewFrame(version, 0, &protocol.Query{
			Query:   "USE " + quoteKeyspace(c.opts.Keyspace),
			Options: &protocol.QueryOptions{Consistency: primitive.ConsistencyLevelOne},
		})
		if err := c.writeHandshakeFrame(s, useFrame); err != nil {
			return newConnError(c.opts.Name, fmt.Errorf("%w: sending USE: %v", ErrConnectFailed, err))
		}
		resp, err := c.readHandshakeFrame(s)
		if err != nil {
			return newConnError(c.opts.Name, fmt.Errorf("%w: reading USE response: %v", ErrConnectFailed, err))
		}
		if _, ok := resp.Body.Message.(*protocol.SetKeyspaceResult); !ok {
			return newConnError(c.opts.Name, serverErrorFrom(c.opts.Name, 0, resp))
		}
	}
	return nil
}

// quoteKeyspace is a passthrough: Keyspace comes from trusted caller-supplied Options, not from untrusted input,
// so CQL identifier quoting is left to the caller if its keyspace name needs it.
func quoteKeyspace(keyspace string) string {
	return keyspace
}

func serverErrorFrom(node string, streamID int16, f *frame.Frame) error {
	if errMsg, ok := f.Body.Message.(protocol.Error); ok {
		return newServerError(node, streamID, errMsg)
	}
	return fmt.Errorf("unexpected response opcode %v", f.Header.OpCode)
}

func checkCompressionSupported(supported *protocol.Supported, compression primitive.Compression) error {
	for _, algo := range supported.Options[protocol.StartupOptionCompression] {
		if algo == string(compression) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedCompression, compression)
}

// writeHandshakeFrame and readHandshakeFrame talk to the socket directly using plain v3/v4 frame encoding; they are
// only used before the protocol version (and therefore the framing generation) has been finalized, so segmented
// framing never applies to them even when v5 is eventually negotiated.
func (c *Conn) writeHandshakeFrame(s *session, f *frame.Frame) error {
	return s.frameCodec.EncodeFrame(f, s.conn)
}

func (c *Conn) readHandshakeFrame(s *session) (*frame.Frame, error) {
	return s.frameCodec.DecodeFrame(s.conn)
}

// serve multiplexes checkouts, inbound frames and heartbeats until the socket fails or Close is requested. It
// returns the error that caused the disconnect, or nil for a clean shutdown.
func (c *Conn) serve(s *session) error {
	heartbeat := time.NewTicker(c.opts.HeartbeatPeriod)
	defer heartbeat.Stop()

	for {
		select {
		case req := <-c.checkoutCh:
			c.handleCheckout(s, req)

		case in := <-s.inboundCh:
			if in.err != nil {
				return in.err
			}
			if err := c.dispatchInbound(s, in.frame); err != nil {
				return err
			}

		case <-heartbeat.C:
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), c.opts.RequestTimeout)
				defer cancel()
				if err := c.SendHeartbeat(ctx); err != nil {
					c.logger.Debug().Err(err).Msg("heartbeat failed")
				}
			}()

		case <-c.shutdownCh:
			return nil
		}
	}
}

func (c *Conn) handleCheckout(s *session, req *checkoutRequest) {
	streamID, err := s.streamIDs.acquire()
	if err != nil {
		req.resultCh <- checkoutResult{err: newConnError(c.opts.Name, err)}
		return
	}
	f := frame.NewFrame(c.opts.ProtocolVersion, streamID, req.msg)
	// Compression is negotiated once at STARTUP and then applies to every subsequent frame; v5's modern framing
	// compresses at the segment level instead (see writeSegmented/s.segmentCodec), so this flag only matters for
	// plain v3/v4 framing, but SetCompress is a no-op for opcodes isCompressible excludes anyway.
	f.SetCompress(c.opts.Compression != primitive.CompressionNone)
	w := newWaiter(streamID)

	s.mu.Lock()
	s.pending[streamID] = w
	s.mu.Unlock()

	if err := c.writeFrame(s, f); err != nil {
		s.mu.Lock()
		delete(s.pending, streamID)
		s.mu.Unlock()
		s.streamIDs.release(streamID)
		req.resultCh <- checkoutResult{err: newConnError(c.opts.Name, fmt.Errorf("%w: %v", ErrConnectionCrashed, err))}
		return
	}
	req.resultCh <- checkoutResult{w: w}
}

func (c *Conn) dispatchInbound(s *session, f *frame.Frame) error {
	streamID := f.Header.StreamId

	// Unsolicited EVENT frames always carry stream id -1 and have no waiter: they are pushed to Pushes() for a
	// REGISTER'd listener (the topology package's Controller) to consume, rather than resolved against a checkout.
	if streamID < 0 {
		if _, ok := f.Body.Message.(protocol.Event); ok {
			c.emitPush(f)
			return nil
		}
		return fmt.Errorf("%w: stream %d", ErrUnexpectedStream, streamID)
	}

	s.mu.Lock()
	w, found := s.pending[streamID]
	if found {
		delete(s.pending, streamID)
	}
	s.mu.Unlock()

	if !found {
		return fmt.Errorf("%w: stream %d", ErrUnexpectedStream, streamID)
	}
	s.streamIDs.release(streamID)

	if result, ok := f.Body.Message.(*protocol.SetKeyspaceResult); ok {
		c.opts.Keyspace = result.Keyspace
	}
	if errMsg, ok := f.Body.Message.(protocol.Error); ok {
		w.resolve(nil, newServerError(c.opts.Name, streamID, errMsg))
		return nil
	}
	w.resolve(f, nil)
	return nil
}

// writeFrame encodes and writes a single application frame, choosing plain v3/v4 framing or v5 segmented framing
// depending on what finishHandshake negotiated.
func (c *Conn) writeFrame(s *session, f *frame.Frame) error {
	if !s.modern {
		return s.frameCodec.EncodeFrame(f, s.conn)
	}
	// Never compress frames individually once segmented: segment.Codec already compresses the whole segment
	// payload when a compressor is bound, so compressing the inner frame too would double-compress it.
	f.Header.Flags = f.Header.Flags.Remove(primitive.HeaderFlagCompressed)
	var buf bytes.Buffer
	if err := s.frameCodec.EncodeFrame(f, &buf); err != nil {
		return fmt.Errorf("cannot encode frame: %w", err)
	}
	return writeSegmented(s.segmentCodec, buf.Bytes(), s.conn)
}

// writeSegmented splits an encoded frame across one or more segments, honoring segment.MaxPayloadLength. Frames
// that fit in a single segment are marked self-contained; larger frames are split into consecutive non-self
// -contained chunks that the peer reassembles in order.
func writeSegmented(codec segment.Codec, payload []byte, dest io.Writer) error {
	if len(payload) <= segment.MaxPayloadLength {
		seg := &segment.Segment{
			Header:  &segment.Header{IsSelfContained: true},
			Payload: &segment.Payload{UncompressedData: payload},
		}
		return codec.EncodeSegment(seg, dest)
	}
	for offset := 0; offset < len(payload); offset += segment.MaxPayloadLength {
		end := offset + segment.MaxPayloadLength
		if end > len(payload) {
			end = len(payload)
		}
		seg := &segment.Segment{
			Header:  &segment.Header{IsSelfContained: false},
			Payload: &segment.Payload{UncompressedData: payload[offset:end]},
		}
		if err := codec.EncodeSegment(seg, dest); err != nil {
			return fmt.Errorf("cannot encode segment chunk: %w", err)
		}
	}
	return nil
}

// readLoop is the sole reader of the socket; it hands decoded frames (or the terminal error) to serve() over
// inboundCh so that all session state is mutated from a single goroutine.
func (c *Conn) readLoop(s *session) {
	defer s.readerWg.Done()
	defer close(s.inboundCh)

	// deliver sends a decoded frame or a terminal error to serve(), but never blocks past session teardown: once
	// the run loop has stopped reading inboundCh (shutdown or a prior fatal error), there is no point in a reader
	// goroutine piling up undelivered frames against a closed socket.
	deliver := func(in inboundFrame) bool {
		select {
		case s.inboundCh <- in:
			return true
		case <-s.quit:
			return false
		}
	}

	if !s.modern {
		for {
			f, err := s.frameCodec.DecodeFrame(s.conn)
			if err != nil {
				deliver(inboundFrame{err: classifyReadError(err)})
				return
			}
			if !deliver(inboundFrame{frame: f}) {
				return
			}
		}
	}

	acc := &segmentAccumulator{}
	for {
		seg, err := s.segmentCodec.DecodeSegment(s.conn)
		if err != nil {
			deliver(inboundFrame{err: classifySegmentError(err)})
			return
		}
		frames, err := acc.accept(seg)
		if err != nil {
			deliver(inboundFrame{err: fmt.Errorf("%w: %v", ErrMalformedFrame, err)})
			return
		}
		for _, payload := range frames {
			f, err := s.frameCodec.DecodeFrame(bytes.NewReader(payload))
			if err != nil {
				deliver(inboundFrame{err: fmt.Errorf("%w: %v", ErrMalformedFrame, err)})
				return
			}
			if !deliver(inboundFrame{frame: f}) {
				return
			}
		}
	}
}

func classifyReadError(err error) error {
	if errors.Is(err, io.EOF) {
		return ErrConnectionCrashed
	}
	return fmt.Errorf("%w: %v", ErrConnectionCrashed, err)
}

// classifySegmentError distinguishes a v5 checksum failure from an ordinary I/O error, so that callers can tell a
// corrupted wire transfer apart from a dropped connection.
func classifySegmentError(err error) error {
	var checksumErr *segment.ChecksumError
	if errors.As(err, &checksumErr) {
		if checksumErr.Part == segment.PartHeader {
			return fmt.Errorf("%w: %v", ErrCrcHeader, checksumErr)
		}
		return fmt.Errorf("%w: %v", ErrCrcPayload, checksumErr)
	}
	return classifyReadError(err)
}

// segmentAccumulator reassembles frames that were split across multiple non-self-contained segments, mirroring
// client.payloadAccumulator: it peeks the first chunk's inner frame header to learn the frame's total encoded
// length, then accumulates payload bytes until that many have arrived. Self-contained segments may themselves
// carry more than one coalesced frame back to back, so a self-contained segment is split by repeatedly decoding
// frame headers to find each frame's boundary.
type segmentAccumulator struct {
	rawCodec     frame.RawCodec
	targetLength int
	accumulated  []byte
}

func (a *segmentAccumulator) accept(seg *segment.Segment) ([][]byte, error) {
	if seg.Header.IsSelfContained {
		if a.targetLength > 0 {
			return nil, errors.New("received self-contained segment while a multi-segment frame was in progress")
		}
		return splitCoalescedFrames(seg.Payload.UncompressedData)
	}
	if a.rawCodec == nil {
		a.rawCodec = frame.NewRawCodec()
	}
	if a.targetLength == 0 {
		header, err := a.rawCodec.DecodeHeader(bytes.NewReader(seg.Payload.UncompressedData))
		if err != nil {
			return nil, fmt.Errorf("cannot decode first frame header in multi-segment payload: %w", err)
		}
		a.targetLength = int(primitive.FrameHeaderLengthV3AndHigher) + int(header.BodyLength)
	}
	a.accumulated = append(a.accumulated, seg.Payload.UncompressedData...)
	if len(a.accumulated) < a.targetLength {
		return nil, nil
	}
	if len(a.accumulated) > a.targetLength {
		return nil, fmt.Errorf("multi-segment frame overflowed: expected %d bytes, got %d", a.targetLength, len(a.accumulated))
	}
	completed := a.accumulated
	a.accumulated = nil
	a.targetLength = 0
	return [][]byte{completed}, nil
}

// splitCoalescedFrames walks a buffer containing one or more back-to-back encoded frames and returns each frame's
// raw bytes, using only the fixed-size v3+ header's body-length field to find each boundary.
func splitCoalescedFrames(data []byte) ([][]byte, error) {
	var out [][]byte
	for len(data) > 0 {
		if len(data) < primitive.FrameHeaderLengthV3AndHigher {
			return nil, fmt.Errorf("truncated frame header: %d bytes remaining", len(data))
		}
		bodyLength := int(int32(data[5])<<24 | int32(data[6])<<16 | int32(data[7])<<8 | int32(data[8]))
		total := primitive.FrameHeaderLengthV3AndHigher + bodyLength
		if total > len(data) {
			return nil, fmt.Errorf("frame declares body length %d but only %d bytes remain", bodyLength, len(data)-primitive.FrameHeaderLengthV3AndHigher)
		}
		out = append(out, data[:total])
		data = data[total:]
	}
	return out, nil
}
