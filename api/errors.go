package api

import (
	"errors"
	"fmt"
)

// Kind classifies why a remote call failed.
type Kind int

const (
	// KindUnknown covers responses that could not be interpreted.
	KindUnknown Kind = iota
	// KindTransport is a connection level failure; no response was received.
	KindTransport
	// KindServer is a non-2xx response, usually carrying {"error": "..."}.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the normalized failure of a single remote call.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s failure", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the human-readable message carried by err. Server messages
// win, then the underlying error text, then fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var aerr *Error
	if errors.As(err, &aerr) {
		if aerr.Message != "" {
			return aerr.Message
		}
		if aerr.Err != nil {
			return aerr.Err.Error()
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// ServerMessage returns the message only when the server supplied one.
func ServerMessage(err error, fallback string) string {
	var aerr *Error
	if errors.As(err, &aerr) && aerr.Kind == KindServer && aerr.Message != "" {
		return aerr.Message
	}
	return fallback
}

// StatusCode returns the HTTP status of a server failure, or 0.
func StatusCode(err error) int {
	var aerr *Error
	if errors.As(err, &aerr) {
		return aerr.Status
	}
	return 0
}
