package network

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// roomCodeAlphabet excludes characters that are easily confused when
// read aloud or handwritten (I, O, 0, 1) (spec.md §4.9).
const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const roomCodeLength = 6

// ValidRoomCode reports whether code has the right length and uses only
// characters from roomCodeAlphabet.
func ValidRoomCode(code string) bool {
	if len(code) != roomCodeLength {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(roomCodeAlphabet, r) {
			return false
		}
	}
	return true
}

// newRoomCode generates a random room code. Only the relay server calls
// this in production; it is unexported, so only code in this package
// (tests, or a local relay stub) can use the same generator.
func newRoomCode(rng *rand.Rand) string {
	b := make([]byte, roomCodeLength)
	for i := range b {
		b[i] = roomCodeAlphabet[rng.Intn(len(roomCodeAlphabet))]
	}
	return string(b)
}

// signalingMessage is the line-delimited JSON frame exchanged with the
// relay (spec.md §4.9), distinct from Envelope: signaling is
// client<->server lobby bookkeeping, Envelope is peer<->peer gameplay.
type signalingMessage struct {
	Type       string          `json:"type"`
	Code       string          `json:"code,omitempty"`
	Message    string          `json:"message,omitempty"`
	SignalType string          `json:"signal_type,omitempty"`
	Signal     json.RawMessage `json:"signal,omitempty"`
}

// SignalingClient drives the lobby handshake over a WebSocket connection
// to the relay and reports lobby events and connection-state
// transitions for the host loop to poll once per frame (spec.md §4.9's
// "the network layer runs its signaling poll from the host loop").
type SignalingClient struct {
	conn  *websocket.Conn
	state ConnectionState

	mu       sync.Mutex
	incoming chan signalingMessage
	errs     chan error
	states   chan StateChanged
	rooms    chan RoomEvent
	signals  chan signalingMessage

	cancel context.CancelFunc
}

// NewSignalingClient dials addr (a ws:// or wss:// URL) and begins the
// background read pump. The client is created in ConnectingToServer and
// is already InLobby when returned (that transition is queued on
// States); poll States/Rooms/NextSignal/Errors to observe progress.
func NewSignalingClient(ctx context.Context, addr string) (*SignalingClient, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("network: dial signaling server: %w", err)
	}

	pumpCtx, cancel := context.WithCancel(context.Background())
	c := &SignalingClient{
		conn:     conn,
		state:    ConnectingToServer,
		incoming: make(chan signalingMessage, 16),
		errs:     make(chan error, 4),
		states:   make(chan StateChanged, 8),
		rooms:    make(chan RoomEvent, 8),
		signals:  make(chan signalingMessage, 16),
		cancel:   cancel,
	}
	go c.readPump(pumpCtx)
	c.setState(InLobby, "signaling connected")
	return c, nil
}

func (c *SignalingClient) setState(to ConnectionState, reason string) {
	c.mu.Lock()
	from := c.state
	c.state = to
	c.mu.Unlock()
	if from == to {
		return
	}
	select {
	case c.states <- StateChanged{From: from, To: to, Reason: reason}:
	default:
		log.Printf("network: dropped state_changed event (%v -> %v): channel full", from, to)
	}
}

// State returns the current connection state.
func (c *SignalingClient) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *SignalingClient) readPump(ctx context.Context) {
	defer close(c.incoming)
	for {
		var msg signalingMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			select {
			case c.errs <- fmt.Errorf("network: signaling read: %w", err):
			default:
			}
			c.setState(Error, err.Error())
			return
		}
		select {
		case <-ctx.Done():
			return
		case c.incoming <- msg:
		}
	}
}

// Drain dispatches every signaling message buffered since the last call,
// routing lobby bookkeeping to the Rooms/State channels and "signal"
// relay messages (offer/answer/ice) to Signals. Intended to run once per
// frame from the host loop.
func (c *SignalingClient) Drain() {
	for {
		select {
		case msg, ok := <-c.incoming:
			if !ok {
				return
			}
			c.route(msg)
		default:
			return
		}
	}
}

func (c *SignalingClient) route(msg signalingMessage) {
	switch msg.Type {
	case "created", "joined":
		c.setState(ConnectingToPeer, msg.Type)
		select {
		case c.rooms <- RoomEvent{Kind: msg.Type, Code: msg.Code}:
		default:
		}
	case "error":
		c.setState(Error, msg.Message)
		select {
		case c.errs <- fmt.Errorf("network: signaling error: %s", msg.Message):
		default:
		}
	case "peer_joined", "peer_left":
		select {
		case c.rooms <- RoomEvent{Kind: msg.Type}:
		default:
		}
	case "signal":
		select {
		case c.signals <- msg:
		default:
			log.Printf("network: dropped signal message: channel full")
		}
	default:
		log.Printf("network: unrecognized signaling message type %q", msg.Type)
	}
}

// States returns the channel of connection-state transitions.
func (c *SignalingClient) States() <-chan StateChanged { return c.states }

// Rooms returns the channel of lobby events (created/joined/peer_joined/peer_left).
func (c *SignalingClient) Rooms() <-chan RoomEvent { return c.rooms }

// Errors returns the channel of signaling-layer errors.
func (c *SignalingClient) Errors() <-chan error { return c.errs }

// CreateRoom asks the relay to allocate a new room and assign it a code.
func (c *SignalingClient) CreateRoom() error {
	return c.send(signalingMessage{Type: "create"})
}

// JoinRoom asks the relay to join an existing room by code.
func (c *SignalingClient) JoinRoom(code string) error {
	if !ValidRoomCode(code) {
		return fmt.Errorf("network: invalid room code %q", code)
	}
	return c.send(signalingMessage{Type: "join", Code: code})
}

// LeaveRoom tells the relay this client is leaving its current room and
// tears down the underlying connection (spec.md §4.9's leave_room
// cancellation semantics: pending ACKs are discarded, GameState is
// retained but marked inert by the caller).
func (c *SignalingClient) LeaveRoom() error {
	err := c.send(signalingMessage{Type: "leave"})
	c.Close()
	return err
}

// SendSignal relays an SDP offer/answer or ICE candidate to the peer via
// the server.
func (c *SignalingClient) SendSignal(signalType string, payload json.RawMessage) error {
	return c.send(signalingMessage{Type: "signal", SignalType: signalType, Signal: payload})
}

// NextSignal drains one pending signal message, if any, without
// blocking.
func (c *SignalingClient) NextSignal() (signalType string, payload json.RawMessage, ok bool) {
	select {
	case msg := <-c.signals:
		return msg.SignalType, msg.Signal, true
	default:
		return "", nil, false
	}
}

func (c *SignalingClient) send(msg signalingMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("network: signaling write: %w", err)
	}
	return nil
}

// Close shuts down the signaling connection and background read pump.
func (c *SignalingClient) Close() error {
	c.cancel()
	c.setState(Disconnected, "closed")
	return c.conn.Close()
}
