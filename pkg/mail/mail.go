// SPDX-FileCopyrightText: 2024 Deutsche Telekom AG
// SPDX-License-Identifier: Apache-2.0

package mail

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/telekom/smtpmailer/pkg/metrics"
	"github.com/telekom/smtpmailer/pkg/profile"
)

// Mailer sends messages for a profile. Each Send owns one fresh session;
// nothing is pooled or retried.
type Mailer struct {
	transport Transport
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// Option customizes a Mailer.
type Option func(*Mailer)

// WithTransport replaces the default SMTPTransport.
func WithTransport(t Transport) Option {
	return func(m *Mailer) {
		if t != nil {
			m.transport = t
		}
	}
}

// WithLogger sets the logger. Credentials are never logged.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(m *Mailer) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock sets the time source used for the Date header.
func WithClock(now func() time.Time) Option {
	return func(m *Mailer) {
		if now != nil {
			m.now = now
		}
	}
}

func New(opts ...Option) *Mailer {
	m := &Mailer{
		transport: &SMTPTransport{},
		logger:    zap.NewNop().Sugar(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.Named("mail")
	return m
}

// Send validates msg, opens a session for p, authenticates and transmits the
// composed message. The session is closed on every path. Attachment problems
// are reported before any connection is made.
func (m *Mailer) Send(ctx context.Context, p profile.Profile, msg Message) (err error) {
	host := p.Host()
	start := m.now()
	defer func() {
		if err != nil {
			m.logger.Warnw("Failed to send mail", "host", host, "error", err)
			metrics.MailSendFailure.WithLabelValues(host, reason(err)).Inc()
			return
		}
		metrics.MailSendSuccess.WithLabelValues(host).Inc()
		metrics.MailAttachments.Add(float64(len(msg.Attachments)))
		metrics.LastSendTimestamp.SetToCurrentTime()
	}()

	if err := msg.validate(); err != nil {
		return err
	}
	if err := msg.checkAttachments(); err != nil {
		return err
	}
	composed, err := Compose(p, msg, start)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	endpoint := Endpoint{Host: host, Port: p.EffectivePort(), ImplicitTLS: p.UseSSL()}
	m.logger.Infow("Connecting to SMTP server", "address", endpoint.Address(), "implicitTLS", endpoint.ImplicitTLS)

	session, err := m.transport.Dial(ctx, endpoint)
	if err != nil {
		return classify(err, ErrTransport)
	}
	defer func() {
		closeErr := session.Close()
		if closeErr != nil {
			m.logger.Debugw("Error closing SMTP session", "host", host, "error", closeErr)
		}
		metrics.MailSendDuration.WithLabelValues(host).Observe(m.now().Sub(start).Seconds())
	}()

	if err := session.Auth(p.Username(), p.Password()); err != nil {
		return classify(err, ErrAuthentication)
	}
	m.logger.Debugw("Authenticated", "host", host, "username", p.Username())

	if err := session.Send(p.FromEmail(), msg.Recipients, composed); err != nil {
		return classify(err, ErrSend)
	}
	m.logger.Infow("Mail sent", "host", host, "recipients", len(msg.Recipients), "attachments", len(msg.Attachments))
	return nil
}
