// Package sessionclient drives the client side of a lesson session: fetching
// connection details, acquiring local media, and managing the transport
// connection through an explicit state machine.
package sessionclient

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// State is the connection state of the controller.
type State string

const (
	// StateIdle means no connection attempt is in progress.
	StateIdle State = "idle"
	// StateConnecting means media acquisition and transport connect are in flight.
	StateConnecting State = "connecting"
	// StateConnected means the transport is established and media is live.
	StateConnected State = "connected"
	// StateDisconnected is the transient state emitted on teardown before
	// returning to idle.
	StateDisconnected State = "disconnected"
)

// EventKind classifies controller events.
type EventKind string

const (
	// EventConnected fires when an attempt completes successfully.
	EventConnected EventKind = "connected"
	// EventDisconnected fires on teardown, whether requested or remote.
	EventDisconnected EventKind = "disconnected"
	// EventConnectFailed fires when a live attempt fails. Superseded
	// attempts never emit this.
	EventConnectFailed EventKind = "connect_failed"
	// EventDeviceError fires on a media device fault. It does not force a
	// disconnect; the session may continue degraded.
	EventDeviceError EventKind = "device_error"
)

// Event is delivered on the controller's event channel.
type Event struct {
	Kind EventKind
	Err  error
}

// ErrNotReady is returned by Start when no connection details are available.
var ErrNotReady = errors.New("connection details not ready")

// TransportConn is an established transport connection.
type TransportConn interface {
	Disconnect()
}

// Transport establishes connections to the media platform. The onDisconnect
// callback fires when the platform drops the connection.
type Transport interface {
	Connect(ctx context.Context, details *ConnectionDetails, onDisconnect func()) (TransportConn, error)
}

// attempt is a single connect attempt. Its context is cancelled when the
// attempt is superseded or the controller is stopped.
type attempt struct {
	id     uint64
	ctx    context.Context
	cancel context.CancelFunc
}

// Controller owns the client session state machine.
type Controller struct {
	transport Transport
	media     MediaSource
	log       zerolog.Logger

	mu         sync.Mutex
	state      State
	attemptSeq uint64
	current    *attempt
	conn       TransportConn

	events chan Event
}

// NewController creates a controller in the idle state.
func NewController(transport Transport, media MediaSource, log zerolog.Logger) *Controller {
	return &Controller{
		transport: transport,
		media:     media,
		log:       log.With().Str("component", "session-controller").Logger(),
		state:     StateIdle,
		events:    make(chan Event, 16),
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Events returns the channel on which controller events are delivered.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Start begins a connection attempt with the given details. A new attempt
// supersedes any attempt already in flight: the old attempt is cancelled and
// its outcome is discarded. An established connection is torn down first,
// with a disconnected event, so the controller never holds two transport
// connections.
func (c *Controller) Start(details *ConnectionDetails) error {
	if details == nil || details.ParticipantToken == "" {
		return ErrNotReady
	}

	c.mu.Lock()
	c.cancelCurrentLocked()
	conn := c.conn
	c.conn = nil
	if conn != nil {
		c.state = StateDisconnected
	}
	c.mu.Unlock()

	if conn != nil {
		conn.Disconnect()
		c.media.Release()
		c.emit(Event{Kind: EventDisconnected})
	}

	c.mu.Lock()
	c.attemptSeq++
	ctx, cancel := context.WithCancel(context.Background())
	att := &attempt{id: c.attemptSeq, ctx: ctx, cancel: cancel}
	c.current = att
	c.state = StateConnecting
	c.mu.Unlock()

	c.log.Debug().
		Uint64("attempt", att.id).
		Str("room", details.RoomName).
		Msg("connection attempt started")

	go c.connect(att, details)
	return nil
}

// connect runs media acquisition and transport connect concurrently. Both
// must succeed before the attempt is considered connected.
func (c *Controller) connect(att *attempt, details *ConnectionDetails) {
	var (
		conn     TransportConn
		mediaErr error
		connErr  error
		wg       sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		mediaErr = c.media.Acquire(att.ctx)
	}()
	go func() {
		defer wg.Done()
		conn, connErr = c.transport.Connect(att.ctx, details, func() {
			c.handleRemoteDisconnect(att)
		})
	}()
	wg.Wait()

	err := connErr
	if err == nil {
		err = mediaErr
	}

	c.mu.Lock()
	superseded := c.current == nil || c.current.id != att.id

	if superseded {
		// Outcome belongs to an abandoned attempt. Tear down whatever it
		// acquired and stay silent.
		c.mu.Unlock()
		if conn != nil {
			conn.Disconnect()
		}
		c.media.Release()
		c.log.Debug().Uint64("attempt", att.id).Msg("superseded attempt discarded")
		return
	}

	if err != nil {
		c.current = nil
		c.state = StateIdle
		c.mu.Unlock()
		if conn != nil {
			conn.Disconnect()
		}
		c.media.Release()
		c.log.Warn().Err(err).Uint64("attempt", att.id).Msg("connection attempt failed")
		c.emit(Event{Kind: EventConnectFailed, Err: err})
		return
	}

	c.conn = conn
	c.state = StateConnected
	c.mu.Unlock()

	c.log.Info().Uint64("attempt", att.id).Str("room", details.RoomName).Msg("connected")
	c.emit(Event{Kind: EventConnected})
}

// Stop tears down the active connection or cancels an in-flight attempt.
// Emits a disconnected event and returns the controller to idle.
func (c *Controller) Stop() {
	c.mu.Lock()
	wasActive := c.state == StateConnecting || c.state == StateConnected
	c.cancelCurrentLocked()
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	if conn != nil {
		conn.Disconnect()
	}
	c.media.Release()

	if wasActive {
		c.emit(Event{Kind: EventDisconnected})
	}

	c.mu.Lock()
	// A Start racing with the tail of this teardown owns the state now.
	if c.state == StateDisconnected {
		c.state = StateIdle
	}
	c.mu.Unlock()
}

// ReportDeviceError surfaces a media device fault. The connection is left
// up; the caller decides whether to stop the session.
func (c *Controller) ReportDeviceError(err error) {
	c.log.Warn().Err(err).Msg("media device error")
	c.emit(Event{Kind: EventDeviceError, Err: err})
}

// handleRemoteDisconnect reacts to the platform dropping the connection.
// Only the attempt that owns the current connection may tear it down.
func (c *Controller) handleRemoteDisconnect(att *attempt) {
	c.mu.Lock()
	if c.current == nil || c.current.id != att.id || c.state != StateConnected {
		c.mu.Unlock()
		return
	}
	c.cancelCurrentLocked()
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	if conn != nil {
		conn.Disconnect()
	}
	c.media.Release()

	c.log.Info().Uint64("attempt", att.id).Msg("remote disconnect")
	c.emit(Event{Kind: EventDisconnected})

	c.mu.Lock()
	if c.state == StateDisconnected {
		c.state = StateIdle
	}
	c.mu.Unlock()
}

func (c *Controller) cancelCurrentLocked() {
	if c.current != nil {
		c.current.cancel()
		c.current = nil
	}
}

// emit delivers an event without blocking the state machine. If the consumer
// has fallen behind the oldest event is dropped.
func (c *Controller) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		select {
		case <-c.events:
		default:
		}
		select {
		case c.events <- ev:
		default:
		}
	}
}
