package engine

// Status tags an Envelope.
type Status uint8

const (
	// StatusMissing means no callback was ever invoked for the call. This
	// is the zero value on purpose: an unwritten result cell decodes as
	// the missing-callback condition.
	StatusMissing Status = iota
	StatusOK
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	default:
		return "missing_callback"
	}
}

// Envelope is the tagged result of one engine call.
type Envelope struct {
	Status  Status
	Payload string // engine payload, valid when StatusOK
	Err     string // failure message, valid when StatusError
}

// OK builds a success envelope carrying payload.
func OK(payload string) Envelope {
	return Envelope{Status: StatusOK, Payload: payload}
}

// Fail builds a failure envelope carrying the engine's message.
func Fail(msg string) Envelope {
	return Envelope{Status: StatusError, Err: msg}
}
