package network

import (
	"bytes"
	"testing"
	"time"

	"github.com/tomgun/saktris/internal/arrival"
	"github.com/tomgun/saktris/internal/board"
	"github.com/tomgun/saktris/internal/events"
	"github.com/tomgun/saktris/internal/game"
)

func TestSessionSendMoveRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	s := NewSession(&buf)

	seq, err := s.SendMove(board.E2, board.E4)
	if err != nil {
		t.Fatalf("SendMove: %v", err)
	}
	if seq != 0 {
		t.Errorf("expected first sequence number 0, got %d", seq)
	}

	s.Drain()
	select {
	case env := <-s.Inbox():
		if env.Type != MsgMove {
			t.Errorf("expected type %q, got %q", MsgMove, env.Type)
		}
	default:
		t.Fatalf("expected the move envelope to be decoded back from the buffer")
	}
}

func TestSessionSequenceNumbersIncrement(t *testing.T) {
	var buf bytes.Buffer
	s := NewSession(&buf)

	seq1, _ := s.SendMove(board.E2, board.E4)
	seq2, _ := s.SendMove(board.D2, board.D4)
	if seq2 != seq1+1 {
		t.Errorf("expected sequential sequence numbers, got %d then %d", seq1, seq2)
	}
}

func TestSessionAckClearsPending(t *testing.T) {
	var buf bytes.Buffer
	s := NewSession(&buf)

	seq, _ := s.SendMove(board.E2, board.E4)
	if len(s.pending) != 1 {
		t.Fatalf("expected one pending ack, got %d", len(s.pending))
	}
	s.HandleAck(Ack{Seq: seq})
	if len(s.pending) != 0 {
		t.Errorf("expected HandleAck to clear the pending entry, got %d remaining", len(s.pending))
	}
}

func TestSessionCheckTimeoutsEscalatesWarning(t *testing.T) {
	var buf bytes.Buffer
	s := NewSession(&buf)

	for i := 0; i < AckTimeoutWarnings; i++ {
		if _, err := s.SendMove(board.E2, board.E4); err != nil {
			t.Fatalf("SendMove: %v", err)
		}
	}

	future := time.Now().Add(AckTimeout + time.Second)
	for i := 0; i < AckTimeoutWarnings; i++ {
		s.CheckTimeouts(future)
	}

	select {
	case <-s.Warnings():
	default:
		t.Fatalf("expected a warning after %d consecutive ack timeouts", AckTimeoutWarnings)
	}
	if len(s.pending) != 0 {
		t.Errorf("expected all timed-out entries to be cleared, got %d remaining", len(s.pending))
	}
}

func TestSessionDrainReportsMalformedEnvelope(t *testing.T) {
	buf := bytes.NewBufferString("not json\n")
	s := NewSession(buf)

	s.Drain()
	select {
	case <-s.ProtocolErrors():
	default:
		t.Fatalf("expected a protocol error for malformed input")
	}
}

func TestSessionGameStartRoundTripsSettings(t *testing.T) {
	var buf bytes.Buffer
	s := NewSession(&buf)

	settings := game.Settings{
		ArrivalFrequency:    3,
		ArrivalMode:         arrival.Random,
		ArrivalSeed:         42,
		TripletClearEnabled: true,
		PhysicsBump:         true,
	}
	if err := s.SendGameStart(board.White, settings); err != nil {
		t.Fatalf("SendGameStart: %v", err)
	}

	s.Drain()
	var env Envelope
	select {
	case env = <-s.Inbox():
		if env.Type != MsgGameStart {
			t.Fatalf("expected type %q, got %q", MsgGameStart, env.Type)
		}
	default:
		t.Fatalf("expected the game_start envelope to be decoded back from the buffer")
	}

	gs, hostSide, err := s.HandleGameStart(env, events.NopSink{})
	if err != nil {
		t.Fatalf("HandleGameStart: %v", err)
	}
	if hostSide != board.White {
		t.Errorf("expected host side White, got %v", hostSide)
	}
	if gs.SideToMove != board.White {
		t.Errorf("expected a freshly built GameState starting with White to move, got %v", gs.SideToMove)
	}
}

func TestSessionResignRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	s := NewSession(&buf)

	if err := s.SendResign(board.Black); err != nil {
		t.Fatalf("SendResign: %v", err)
	}
	s.Drain()

	env := <-s.Inbox()
	side, err := s.HandleResign(env)
	if err != nil {
		t.Fatalf("HandleResign: %v", err)
	}
	if side != board.Black {
		t.Errorf("expected Black to have resigned, got %v", side)
	}
}

func TestSessionDrawNegotiationRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	s := NewSession(&buf)

	if err := s.SendDrawOffer(); err != nil {
		t.Fatalf("SendDrawOffer: %v", err)
	}
	s.Drain()
	if err := s.HandleDrawOffer(<-s.Inbox()); err != nil {
		t.Errorf("HandleDrawOffer: %v", err)
	}

	if err := s.SendDrawDecline(); err != nil {
		t.Fatalf("SendDrawDecline: %v", err)
	}
	s.Drain()
	if err := s.HandleDrawDecline(<-s.Inbox()); err != nil {
		t.Errorf("HandleDrawDecline: %v", err)
	}
}

func TestSessionAbortMarksAborted(t *testing.T) {
	var buf bytes.Buffer
	s := NewSession(&buf)
	if s.Aborted() {
		t.Fatalf("expected session to start non-aborted")
	}
	s.Abort("full state validation failed")
	if !s.Aborted() {
		t.Errorf("expected Abort to mark the session aborted")
	}
}
