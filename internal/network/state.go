package network

// ConnectionState is the client-side connection state machine (spec.md
// §4.9): Offline -> ConnectingToServer -> InLobby -> ConnectingToPeer ->
// Connected -> Disconnected/Error. Transitions are driven by signaling
// events and data-channel state, never by the caller directly.
type ConnectionState uint8

const (
	Offline ConnectionState = iota
	ConnectingToServer
	InLobby
	ConnectingToPeer
	Connected
	Disconnected
	Error
)

// String returns the state name, used in state_changed events and logs.
func (s ConnectionState) String() string {
	switch s {
	case Offline:
		return "Offline"
	case ConnectingToServer:
		return "ConnectingToServer"
	case InLobby:
		return "InLobby"
	case ConnectingToPeer:
		return "ConnectingToPeer"
	case Connected:
		return "Connected"
	case Disconnected:
		return "Disconnected"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// StateChanged is emitted whenever ConnectionState transitions.
type StateChanged struct {
	From, To ConnectionState
	Reason   string
}

// RoomEvent reports lobby-level occurrences: this client creating or
// joining a room (which also moves the state to ConnectingToPeer), or a
// peer joining or leaving an already-formed room.
type RoomEvent struct {
	Kind string // "created", "joined", "peer_joined" or "peer_left"
	Code string
}
