package network

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/tomgun/saktris/internal/board"
	"github.com/tomgun/saktris/internal/events"
	"github.com/tomgun/saktris/internal/game"
)

// PingInterval and AckTimeout are the timeouts spec.md §4.9 names:
// "signaling connect timeout, ACK timeout (~10s), ping interval (~5s)".
const (
	PingInterval       = 5 * time.Second
	AckTimeout         = 10 * time.Second
	AckTimeoutWarnings = 3 // repeated timeouts before surfacing a warning event
)

// pendingAck tracks one unacknowledged outbound message.
type pendingAck struct {
	sent time.Time
}

// Session mirrors GameState transitions with sequence numbers, ACKs, and
// state-hash messages over a reliable, ordered peer data channel
// (spec.md §4.9). It sends StateHash but does not compare a received
// hash with the local position. It does not know how to establish that channel — the
// caller supplies it, already connected, as an io.ReadWriter — since
// the core specifies the protocol, not the transport.
type Session struct {
	conn io.ReadWriter
	enc  *json.Encoder
	dec  *json.Decoder

	nextSeq      int
	pending      map[int]pendingAck
	timeoutCount int

	lastPing     time.Time
	lastPongSeen time.Time

	inbox     chan Envelope
	warnings  chan string
	protoErrs chan error

	aborted bool
}

// NewSession wraps conn (an already-connected peer data channel) in
// sequence/ACK/resync bookkeeping.
func NewSession(conn io.ReadWriter) *Session {
	return &Session{
		conn:      conn,
		enc:       json.NewEncoder(conn),
		dec:       json.NewDecoder(conn),
		pending:   make(map[int]pendingAck),
		inbox:     make(chan Envelope, 32),
		warnings:  make(chan string, 4),
		protoErrs: make(chan error, 4),
	}
}

// Warnings returns the channel of escalation warnings (spec.md §7:
// "repeated failures (>=3 timeouts) are surfaced as a warning event").
func (s *Session) Warnings() <-chan string { return s.warnings }

// ProtocolErrors returns the channel of malformed/out-of-order message
// reports (spec.md §7's ProtocolError kind).
func (s *Session) ProtocolErrors() <-chan error { return s.protoErrs }

// Aborted reports whether a fatal failure has already torn this session
// down (spec.md §7: "the core then transitions game status to an
// aborted state").
func (s *Session) Aborted() bool { return s.aborted }

// nextSeqNum allocates the next outbound sequence number.
func (s *Session) nextSeqNum() int {
	seq := s.nextSeq
	s.nextSeq++
	return seq
}

// write marshals and writes the envelope for msgType/payload.
func (s *Session) write(msgType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("network: marshal %s payload: %w", msgType, err)
	}
	env := Envelope{Type: msgType, Data: data, Ts: time.Now().Unix()}
	if err := s.enc.Encode(env); err != nil {
		return fmt.Errorf("network: write %s: %w", msgType, err)
	}
	return nil
}

// trackAck records seq as awaiting acknowledgment.
func (s *Session) trackAck(seq int) {
	s.pending[seq] = pendingAck{sent: time.Now()}
}

// SendGameStart announces the negotiated settings and side assignment
// to the peer (spec.md §4.9: the host broadcasts {seed, settings,
// host_side} so the guest can build an identical GameState).
func (s *Session) SendGameStart(hostSide board.Color, settings game.Settings) error {
	return s.write(MsgGameStart, GameStart{
		HostSide:            hostSide,
		ArrivalFrequency:    settings.ArrivalFrequency,
		ArrivalMode:         settings.ArrivalMode,
		ArrivalSeed:         settings.ArrivalSeed,
		TripletClearEnabled: settings.TripletClearEnabled,
		PhysicsBump:         settings.PhysicsBump,
	})
}

// HandleGameStart decodes a received game_start envelope and constructs
// the GameState the guest plays from, wired to sink exactly like the
// host's own (spec.md §8 item 6 "Networked determinism": both peers
// must build an identical GameState from the same seed and settings).
func (s *Session) HandleGameStart(env Envelope, sink events.Sink) (*game.GameState, board.Color, error) {
	var payload GameStart
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, board.NoColor, fmt.Errorf("network: malformed game_start payload: %w", err)
	}
	settings := game.Settings{
		ArrivalFrequency:    payload.ArrivalFrequency,
		ArrivalMode:         payload.ArrivalMode,
		ArrivalSeed:         payload.ArrivalSeed,
		TripletClearEnabled: payload.TripletClearEnabled,
		PhysicsBump:         payload.PhysicsBump,
	}
	return game.New(settings, sink), payload.HostSide, nil
}

// SendGameReady tells the peer this side has finished loading and is
// ready for the first turn.
func (s *Session) SendGameReady() error {
	return s.write(MsgGameReady, GameReady{})
}

// HandleGameReady validates a received game_ready envelope. It carries
// no data; the host loop reacts to the envelope's arrival alone.
func (s *Session) HandleGameReady(env Envelope) error {
	var payload GameReady
	return json.Unmarshal(env.Data, &payload)
}

// SendMove sends a Move message and returns its sequence number.
func (s *Session) SendMove(from, to board.Square) (int, error) {
	seq := s.nextSeqNum()
	if err := s.write(MsgMove, Move{Seq: seq, From: from, To: to}); err != nil {
		return seq, err
	}
	s.trackAck(seq)
	return seq, nil
}

// SendPlacement sends a Placement message and returns its sequence number.
func (s *Session) SendPlacement(square board.Square, kind board.PieceType) (int, error) {
	seq := s.nextSeqNum()
	if err := s.write(MsgPlacement, Placement{Seq: seq, Square: square, Kind: kind}); err != nil {
		return seq, err
	}
	s.trackAck(seq)
	return seq, nil
}

// SendPromotion sends a Promotion message and returns its sequence number.
func (s *Session) SendPromotion(kind board.PieceType) (int, error) {
	seq := s.nextSeqNum()
	if err := s.write(MsgPromotion, Promotion{Seq: seq, Kind: kind}); err != nil {
		return seq, err
	}
	s.trackAck(seq)
	return seq, nil
}

// SendStateHash announces the position hash after the move/placement
// with the given sequence number. Not itself ACK-tracked: StateHash
// mismatches are handled by ResyncRequest/FullState, not retransmission.
func (s *Session) SendStateHash(moveSeq int, hash uint64) error {
	return s.write(MsgStateHash, StateHash{Seq: moveSeq, Hash: hash})
}

// SendResyncRequest asks the host for a FullState snapshot after a
// StateHash mismatch (spec.md §7's HashMismatch handling).
func (s *Session) SendResyncRequest(lastKnownSeq int) error {
	return s.write(MsgResyncRequest, ResyncRequest{LastKnownSeq: lastKnownSeq})
}

// SendFullState answers a ResyncRequest with the authoritative board.
func (s *Session) SendFullState(seq int, boardData []byte) error {
	return s.write(MsgFullState, FullState{Seq: seq, Board: boardData})
}

// SendAck acknowledges the message with the given sequence number.
func (s *Session) SendAck(seq int) error {
	return s.write(MsgAck, Ack{Seq: seq})
}

// SendPing sends a keepalive ping and records the send time.
func (s *Session) SendPing() error {
	s.lastPing = time.Now()
	return s.write(MsgPing, nil)
}

// SendPong answers a received ping.
func (s *Session) SendPong() error {
	return s.write(MsgPong, nil)
}

// SendResign tells the peer that side has resigned (spec.md §4.9's
// end-of-game messages).
func (s *Session) SendResign(side board.Color) error {
	return s.write(MsgResign, Resign{Side: side})
}

// HandleResign decodes a received resign envelope, returning which side
// resigned so the host loop can apply it via GameState.Resign.
func (s *Session) HandleResign(env Envelope) (board.Color, error) {
	var payload Resign
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return board.NoColor, fmt.Errorf("network: malformed resign payload: %w", err)
	}
	return payload.Side, nil
}

// SendDrawOffer proposes a draw to the peer.
func (s *Session) SendDrawOffer() error {
	return s.write(MsgDrawOffer, DrawOffer{})
}

// HandleDrawOffer validates a received draw_offer envelope.
func (s *Session) HandleDrawOffer(env Envelope) error {
	var payload DrawOffer
	return json.Unmarshal(env.Data, &payload)
}

// SendDrawAccept accepts a pending draw offer.
func (s *Session) SendDrawAccept() error {
	return s.write(MsgDrawAccept, DrawAccept{})
}

// HandleDrawAccept validates a received draw_accept envelope.
func (s *Session) HandleDrawAccept(env Envelope) error {
	var payload DrawAccept
	return json.Unmarshal(env.Data, &payload)
}

// SendDrawDecline declines a pending draw offer.
func (s *Session) SendDrawDecline() error {
	return s.write(MsgDrawDecline, DrawDecline{})
}

// HandleDrawDecline validates a received draw_decline envelope.
func (s *Session) HandleDrawDecline(env Envelope) error {
	var payload DrawDecline
	return json.Unmarshal(env.Data, &payload)
}

// SendRematchOffer proposes starting a new game once this one ends.
func (s *Session) SendRematchOffer() error {
	return s.write(MsgRematchOffer, RematchOffer{})
}

// HandleRematchOffer validates a received rematch_offer envelope.
func (s *Session) HandleRematchOffer(env Envelope) error {
	var payload RematchOffer
	return json.Unmarshal(env.Data, &payload)
}

// SendRematchAccept accepts a pending rematch offer.
func (s *Session) SendRematchAccept() error {
	return s.write(MsgRematchAccept, RematchAccept{})
}

// HandleRematchAccept validates a received rematch_accept envelope.
func (s *Session) HandleRematchAccept(env Envelope) error {
	var payload RematchAccept
	return json.Unmarshal(env.Data, &payload)
}

// SendRematchDecline declines a pending rematch offer.
func (s *Session) SendRematchDecline() error {
	return s.write(MsgRematchDecline, RematchDecline{})
}

// HandleRematchDecline validates a received rematch_decline envelope.
func (s *Session) HandleRematchDecline(env Envelope) error {
	var payload RematchDecline
	return json.Unmarshal(env.Data, &payload)
}

// HandleAck clears the pending-ACK entry for seq and resets the timeout
// escalation counter.
func (s *Session) HandleAck(ack Ack) {
	delete(s.pending, ack.Seq)
	s.timeoutCount = 0
}

// HandlePong records that the peer answered the most recent ping.
func (s *Session) HandlePong() {
	s.lastPongSeen = time.Now()
}

// CheckTimeouts scans pending ACKs for ones older than AckTimeout. Each
// timed-out entry is dropped (spec.md §7: AckTimeout is informational,
// it does not by itself tear down the session) and counted; once
// AckTimeoutWarnings consecutive timeouts accumulate, a warning is
// surfaced on Warnings(). Intended to run once per frame from the host
// loop alongside Drain.
func (s *Session) CheckTimeouts(now time.Time) {
	for seq, p := range s.pending {
		if now.Sub(p.sent) < AckTimeout {
			continue
		}
		delete(s.pending, seq)
		s.timeoutCount++
		log.Printf("network: ack timeout for seq=%d (count=%d)", seq, s.timeoutCount)
		if s.timeoutCount >= AckTimeoutWarnings {
			select {
			case s.warnings <- fmt.Sprintf("repeated ack timeouts (%d)", s.timeoutCount):
			default:
			}
		}
	}
}

// Drain reads and decodes messages from the connection until its Read
// returns io.EOF or an error, routing well-formed envelopes to Inbox and
// malformed ones to ProtocolErrors. On a connection whose Read blocks
// while no data is waiting, Drain blocks too.
// The host loop drains Inbox itself and dispatches by Envelope.Type,
// since only it can safely mutate GameState (spec.md §4.9: "handlers
// mutate GameState directly and therefore must run on the host loop").
func (s *Session) Drain() {
	for {
		var env Envelope
		if err := s.dec.Decode(&env); err != nil {
			if err == io.EOF {
				return
			}
			select {
			case s.protoErrs <- fmt.Errorf("network: malformed envelope: %w", err):
			default:
			}
			return
		}
		select {
		case s.inbox <- env:
		default:
			log.Printf("network: dropped inbound %s: inbox full", env.Type)
		}
	}
}

// Inbox returns the channel of decoded, not-yet-dispatched envelopes.
func (s *Session) Inbox() <-chan Envelope { return s.inbox }

// Abort marks the session as fatally failed (spec.md §7: a FullState
// that fails validation, or any failure that can no longer preserve
// core invariants). The caller is responsible for transitioning
// GameState's status and surfacing reason to the UI.
func (s *Session) Abort(reason string) {
	s.aborted = true
	log.Printf("network: session aborted: %s", reason)
}
