package domain

import "errors"

var (
	ErrNotFound       = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadyInRoom  = errors.New("client is already in a room")
	ErrInvalidInput   = errors.New("invalid input")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrMalformedFrame = errors.New("malformed frame")
	ErrTransport      = errors.New("transport error")
)

// InputError is an ErrInvalidInput carrying the reason shown to the client.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return e.Reason }
func (e *InputError) Unwrap() error { return ErrInvalidInput }

func Invalid(reason string) error {
	return &InputError{Reason: reason}
}

// UserMessage maps an error to the text sent in an error reply. Errors outside
// the taxonomy fall back to their own message.
func UserMessage(err error) string {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie.Reason
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "Room not found"
	case errors.Is(err, ErrRoomFull):
		return "Room is full"
	case errors.Is(err, ErrAlreadyInRoom):
		return "Client is already in a room"
	case errors.Is(err, ErrRateLimited):
		return "Rate limit exceeded"
	case errors.Is(err, ErrMalformedFrame):
		return "Invalid JSON message"
	case errors.Is(err, ErrTransport):
		return "Connection error"
	case errors.Is(err, ErrInvalidInput):
		return "Invalid input"
	case err == nil:
		return ""
	}
	return err.Error()
}
