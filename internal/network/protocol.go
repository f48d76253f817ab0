// Package network implements NetworkCore: the signaling-client state
// machine, peer session bookkeeping, and the wire protocol spec.md §4.9
// describes. The core specifies the protocol, not the transport library;
// this package pins that protocol to gorilla/websocket for signaling and
// treats the post-handshake data channel as an io.ReadWriter the caller
// supplies (spec.md §4.9's "the core specifies the protocol, not the
// transport library").
package network

import (
	"encoding/json"

	"github.com/tomgun/saktris/internal/arrival"
	"github.com/tomgun/saktris/internal/board"
)

// Envelope is the normative wire format for every P2P protocol message
// (spec.md §6): {type, data, ts}. ts is the sender's Unix time and is
// informational only; receivers never reject a message because of it.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
	Ts   int64           `json:"ts"`
}

// Message type strings carried in Envelope.Type.
const (
	MsgPing           = "ping"
	MsgPong           = "pong"
	MsgGameStart      = "game_start"
	MsgGameReady      = "game_ready"
	MsgMove           = "move"
	MsgPlacement      = "placement"
	MsgPromotion      = "promotion"
	MsgAck            = "ack"
	MsgStateHash      = "state_hash"
	MsgFullState      = "full_state"
	MsgResyncRequest  = "resync_request"
	MsgResign         = "resign"
	MsgDrawOffer      = "draw_offer"
	MsgDrawAccept     = "draw_accept"
	MsgDrawDecline    = "draw_decline"
	MsgRematchOffer   = "rematch_offer"
	MsgRematchAccept  = "rematch_accept"
	MsgRematchDecline = "rematch_decline"
)

// GameStart carries the side assignment and initial settings agreed at
// session start: the host broadcasts {seed, settings, host_side} so the
// guest builds an identical GameState (spec.md §4.9, §8 item 6
// "Networked determinism").
type GameStart struct {
	HostSide            board.Color  `json:"host_side"`
	ArrivalFrequency    int          `json:"arrival_frequency"`
	ArrivalMode         arrival.Mode `json:"arrival_mode"`
	ArrivalSeed         uint64       `json:"arrival_seed"`
	TripletClearEnabled bool         `json:"triplet_clear_enabled"`
	PhysicsBump         bool         `json:"physics_bump"`
}

// GameReady is sent once a peer has finished loading and is ready for
// the first turn.
type GameReady struct{}

// Move carries a completed move, sequenced for ordering and ACK
// tracking (spec.md §4.9).
type Move struct {
	Seq  int          `json:"seq"`
	From board.Square `json:"from"`
	To   board.Square `json:"to"`
}

// Placement carries a completed arrival placement.
type Placement struct {
	Seq    int             `json:"seq"`
	Square board.Square    `json:"square"`
	Kind   board.PieceType `json:"kind"`
}

// Promotion carries a pawn promotion choice.
type Promotion struct {
	Seq  int             `json:"seq"`
	Kind board.PieceType `json:"kind"`
}

// Ack acknowledges receipt of the message with sequence number Seq.
type Ack struct {
	Seq int `json:"seq"`
}

// StateHash lets peers cross-check positions without transmitting the
// full board: Seq ties it to the move/placement that produced it.
type StateHash struct {
	Seq  int    `json:"seq"`
	Hash uint64 `json:"hash"`
}

// FullState is the host's authoritative recovery payload sent in
// response to a ResyncRequest (spec.md §7's HashMismatch handling).
type FullState struct {
	Seq   int    `json:"seq"`
	Board []byte `json:"board"` // serialized per the save-file board encoding
}

// ResyncRequest is sent by a guest that detects a StateHash mismatch.
type ResyncRequest struct {
	LastKnownSeq int `json:"last_known_seq"`
}

// Resign reports that Side has resigned.
type Resign struct {
	Side board.Color `json:"side"`
}

// DrawOffer, DrawAccept, and DrawDecline carry no payload beyond the
// envelope; they are distinguished entirely by Envelope.Type.
type DrawOffer struct{}
type DrawAccept struct{}
type DrawDecline struct{}

// RematchOffer, RematchAccept, and RematchDecline mirror the draw
// negotiation messages for starting a new game after one ends.
type RematchOffer struct{}
type RematchAccept struct{}
type RematchDecline struct{}
