// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultSSLPort is used for implicit TLS profiles without an explicit port.
	DefaultSSLPort = 465
	// DefaultStartTLSPort is used for STARTTLS profiles without an explicit port.
	DefaultStartTLSPort = 26

	passwordMask = "****"
)

// Profile is a named bundle of SMTP connection and sender settings. It is a
// value type: once built with New it cannot be modified.
type Profile struct {
	host      string
	username  string
	password  string
	fromName  string
	fromEmail string
	useSSL    bool
	port      int
}

// Option customizes optional Profile fields.
type Option func(*Profile)

// WithPort overrides the default port. Values <= 0 keep the default.
func WithPort(port int) Option {
	return func(p *Profile) {
		if port > 0 {
			p.port = port
		}
	}
}

// New builds a Profile. useSSL selects implicit TLS (true) or STARTTLS (false)
// and has no default.
func New(host, username, password, fromName, fromEmail string, useSSL bool, opts ...Option) Profile {
	p := Profile{
		host:      host,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
		useSSL:    useSSL,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func (p Profile) Host() string      { return p.host }
func (p Profile) Username() string  { return p.username }
func (p Profile) Password() string  { return p.password }
func (p Profile) FromName() string  { return p.fromName }
func (p Profile) FromEmail() string { return p.fromEmail }
func (p Profile) UseSSL() bool      { return p.useSSL }

// Port returns the explicitly configured port, if any.
func (p Profile) Port() (int, bool) {
	return p.port, p.port > 0
}

// EffectivePort returns the configured port or the default for the profile's
// encryption mode.
func (p Profile) EffectivePort() int {
	if p.port > 0 {
		return p.port
	}
	if p.useSSL {
		return DefaultSSLPort
	}
	return DefaultStartTLSPort
}

// Validate checks the fields a stored profile must carry. The password is not
// checked; it may still be prompted for.
func (p Profile) Validate() error {
	switch {
	case p.host == "":
		return fmt.Errorf("%w: missing host", ErrInvalidProfile)
	case p.username == "":
		return fmt.Errorf("%w: missing username", ErrInvalidProfile)
	case p.fromEmail == "":
		return fmt.Errorf("%w: missing from_email", ErrInvalidProfile)
	case p.port > 65535:
		return fmt.Errorf("%w: port out of range: %d", ErrInvalidProfile, p.port)
	}
	return nil
}

// FromAddress renders the From header value.
func (p Profile) FromAddress() string {
	return fmt.Sprintf("%s <%s>", p.fromName, p.fromEmail)
}

// DisplayString renders all fields as "key : value" lines. The password is
// masked unless showPassword is set.
func (p Profile) DisplayString(showPassword bool) string {
	password := passwordMask
	if showPassword {
		password = p.password
	}
	port := "default (" + strconv.Itoa(p.EffectivePort()) + ")"
	if v, ok := p.Port(); ok {
		port = strconv.Itoa(v)
	}

	var b strings.Builder
	for _, line := range [][2]string{
		{"host", p.host},
		{"username", p.username},
		{"password", password},
		{"from_name", p.fromName},
		{"from_email", p.fromEmail},
		{"ssl", strconv.FormatBool(p.useSSL)},
		{"port", port},
	} {
		_, _ = fmt.Fprintf(&b, "%-11s : %s\n", line[0], line[1])
	}
	return b.String()
}

// String masks the password so profiles can be passed to loggers and %v.
func (p Profile) String() string {
	return p.DisplayString(false)
}
