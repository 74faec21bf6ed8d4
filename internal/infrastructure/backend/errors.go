package backend

import (
	"fmt"
	"net/http"
)

// Kind classifies an upstream failure.
type Kind int

const (
	// KindUnreachable: the request never produced an HTTP response.
	KindUnreachable Kind = iota + 1
	// KindServer: the upstream answered with a non-2xx status.
	KindServer
	// KindDecode: the upstream answered 2xx but the body did not match the schema.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// Error is returned by every Client method.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindServer:
		return fmt.Sprintf("%s: upstream returned %d: %s", e.Op, e.Status, e.Message)
	case KindUnreachable:
		return fmt.Sprintf("%s: upstream unreachable: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Unreachable reports whether the upstream could not be contacted.
func (e *Error) Unreachable() bool { return e.Kind == KindUnreachable }

// ServerMessage is the message reported by the upstream, empty unless Kind is KindServer.
func (e *Error) ServerMessage() string {
	if e.Kind != KindServer {
		return ""
	}
	return e.Message
}

// IsNotFound reports whether the upstream answered 404.
func (e *Error) IsNotFound() bool { return e.Kind == KindServer && e.Status == http.StatusNotFound }

// IsForbidden reports whether the upstream rejected the caller.
func (e *Error) IsForbidden() bool {
	return e.Kind == KindServer && (e.Status == http.StatusForbidden || e.Status == http.StatusUnauthorized)
}
