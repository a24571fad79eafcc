package mail

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMessage     = errors.New("invalid message")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrAuthentication     = errors.New("authentication failed")
	ErrTransport          = errors.New("transport error")
	ErrSend               = errors.New("send failed")
)

// classify makes sure err carries kind, so callers can rely on errors.Is no
// matter which Transport produced it.
func classify(err, kind error) error {
	if err == nil || errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// reason maps an error to the metric label used for failures.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidMessage):
		return "invalid_message"
	case errors.Is(err, ErrAttachmentNotFound):
		return "attachment"
	case errors.Is(err, ErrAuthentication):
		return "auth"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrSend):
		return "send"
	default:
		return "other"
	}
}
