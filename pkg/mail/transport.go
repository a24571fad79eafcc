package mail

import (
	"context"
	"net"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Endpoint identifies the SMTP server for one session.
type Endpoint struct {
	Host string
	Port int
	// ImplicitTLS wraps the connection in TLS from the first byte; otherwise
	// the session must be upgraded with STARTTLS.
	ImplicitTLS bool
}

// Address returns host:port.
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Transport opens SMTP sessions. A returned Session is already encrypted.
type Transport interface {
	Dial(ctx context.Context, endpoint Endpoint) (Session, error)
}

// Session is one secured SMTP conversation. Send and Close follow the
// gomail.SendCloser contract.
type Session interface {
	gomail.SendCloser
	Auth(username, password string) error
}
