package core

// SessionState is the lifecycle state of a ScanSession.
type SessionState int

const (
	// SessionStateIdle: no connection.
	SessionStateIdle SessionState = iota
	// SessionStateConnected: connection open, query not executed yet.
	SessionStateConnected
	// SessionStateExecuting: result set stored, rows are being fetched.
	SessionStateExecuting
	// SessionStateClosed: terminal, every resource released.
	SessionStateClosed
)

func SessionStateFromString(s string) SessionState {
	switch s {
	case SessionStateConnected.String():
		return SessionStateConnected
	case SessionStateExecuting.String():
		return SessionStateExecuting
	case SessionStateClosed.String():
		return SessionStateClosed
	default:
		return SessionStateIdle
	}
}

func (s SessionState) String() string {
	switch s {
	case SessionStateIdle:
		return "idle"
	case SessionStateConnected:
		return "connected"
	case SessionStateExecuting:
		return "executing"
	case SessionStateClosed:
		return "closed"
	default:
		return "idle"
	}
}
