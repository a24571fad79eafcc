package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"os"
	"strings"
	"time"
)

// SMTPTransport dials real SMTP servers with net/smtp. Non-TLS endpoints are
// always upgraded with STARTTLS; a server that does not offer it is rejected
// before any credentials are sent.
type SMTPTransport struct {
	// TLSConfig is cloned for every session; ServerName defaults to the host.
	TLSConfig *tls.Config
	// LocalName is sent with EHLO; defaults to the machine's host name.
	LocalName string
	// Timeout bounds the TCP connect; zero leaves it to the OS.
	Timeout time.Duration
}

func (t *SMTPTransport) Dial(ctx context.Context, endpoint Endpoint) (Session, error) {
	addr := endpoint.Address()
	tlsConfig := t.tlsConfig(endpoint.Host)
	dialer := &net.Dialer{Timeout: t.Timeout}

	var (
		conn net.Conn
		err  error
	)
	if endpoint.ImplicitTLS {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to %s: %w", ErrTransport, addr, err)
	}
	// net/smtp has no context support; closing the connection unblocks it.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })

	client, err := smtp.NewClient(conn, endpoint.Host)
	if err != nil {
		stop()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrTransport, addr, err)
	}
	s := &smtpSession{client: client, host: endpoint.Host, stop: stop}

	if err := client.Hello(t.localName()); err != nil {
		s.abort()
		return nil, fmt.Errorf("%w: EHLO %s: %w", ErrTransport, addr, err)
	}
	if !endpoint.ImplicitTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			s.abort()
			return nil, fmt.Errorf("%w: %s does not support STARTTLS", ErrTransport, addr)
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			s.abort()
			return nil, fmt.Errorf("%w: STARTTLS %s: %w", ErrTransport, addr, err)
		}
	}
	return s, nil
}

func (t *SMTPTransport) tlsConfig(host string) *tls.Config {
	cfg := &tls.Config{}
	if t.TLSConfig != nil {
		cfg = t.TLSConfig.Clone()
	}
	if cfg.ServerName == "" {
		cfg.ServerName = host
	}
	if cfg.MinVersion == 0 {
		cfg.MinVersion = tls.VersionTLS12
	}
	return cfg
}

func (t *SMTPTransport) localName() string {
	if t.LocalName != "" {
		return t.LocalName
	}
	if name, err := os.Hostname(); err == nil && name != "" && !strings.ContainsAny(name, "\r\n") {
		return name
	}
	return "localhost"
}

type smtpSession struct {
	client *smtp.Client
	host   string
	stop   func() bool
}

func (s *smtpSession) Auth(username, password string) error {
	ok, mechanisms := s.client.Extension("AUTH")
	if !ok {
		return fmt.Errorf("%w: server does not advertise AUTH", ErrAuthentication)
	}
	auth, err := selectAuth(mechanisms, username, password, s.host)
	if err != nil {
		return err
	}
	if err := s.client.Auth(auth); err != nil {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return nil
}

func (s *smtpSession) Send(from string, to []string, msg io.WriterTo) error {
	if err := s.client.Mail(from); err != nil {
		return fmt.Errorf("%w: MAIL FROM %s: %w", ErrSend, from, err)
	}
	for _, rcpt := range to {
		if err := s.client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("%w: recipient %s rejected: %w", ErrSend, rcpt, err)
		}
	}
	w, err := s.client.Data()
	if err != nil {
		return fmt.Errorf("%w: DATA: %w", ErrSend, err)
	}
	if _, err := msg.WriteTo(w); err != nil {
		_ = w.Close()
		return fmt.Errorf("%w: writing message: %w", ErrSend, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: message rejected: %w", ErrSend, err)
	}
	return nil
}

// Close ends the session with QUIT, dropping the connection if that fails.
func (s *smtpSession) Close() error {
	s.stop()
	if err := s.client.Quit(); err != nil {
		closeErr := s.client.Close()
		if closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
			return closeErr
		}
		return err
	}
	return nil
}

func (s *smtpSession) abort() {
	s.stop()
	_ = s.client.Close()
}

// selectAuth picks PLAIN, then LOGIN, then CRAM-MD5 from the advertised list.
func selectAuth(advertised, username, password, host string) (smtp.Auth, error) {
	mechanisms := map[string]bool{}
	for _, m := range strings.Fields(strings.ToUpper(advertised)) {
		mechanisms[m] = true
	}
	switch {
	case mechanisms["PLAIN"]:
		return smtp.PlainAuth("", username, password, host), nil
	case mechanisms["LOGIN"]:
		return &loginAuth{username: username, password: password, host: host}, nil
	case mechanisms["CRAM-MD5"]:
		return smtp.CRAMMD5Auth(username, password), nil
	default:
		return nil, fmt.Errorf("%w: no supported mechanism in %q", ErrAuthentication, advertised)
	}
}

// loginAuth implements the LOGIN SMTP auth mechanism.
type loginAuth struct {
	username string
	password string
	host     string
}

func (a *loginAuth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	if !server.TLS {
		return "", nil, errors.New("unencrypted connection")
	}
	if server.Name != a.host {
		return "", nil, fmt.Errorf("unexpected server name %s", server.Name)
	}
	return "LOGIN", nil, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if !more {
		return nil, nil
	}
	switch strings.ToLower(strings.TrimSpace(string(fromServer))) {
	case "username:", "user:", "user name":
		return []byte(a.username), nil
	case "password:", "pass:":
		return []byte(a.password), nil
	default:
		return nil, fmt.Errorf("unexpected login challenge: %s", string(fromServer))
	}
}
