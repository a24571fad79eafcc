/*
SPDX-FileCopyrightText: 2025 Deutsche Telekom AG

SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/quotedprintable"
	"net/mail"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	smtpmail "github.com/telekom/smtpmailer/pkg/mail"
	"github.com/telekom/smtpmailer/pkg/protect"
)

var fixedNow = time.Date(2026, 3, 14, 7, 57, 39, 0, time.UTC)

type recordedMessage struct {
	from string
	to   []string
	raw  []byte
}

type recordingSession struct {
	transport *recordingTransport
}

func (s *recordingSession) Auth(username, password string) error {
	s.transport.auths = append(s.transport.auths, username+":"+password)
	return s.transport.authErr
}

func (s *recordingSession) Send(from string, to []string, msg io.WriterTo) error {
	buf := &bytes.Buffer{}
	if _, err := msg.WriteTo(buf); err != nil {
		return err
	}
	s.transport.sent = append(s.transport.sent, recordedMessage{from: from, to: to, raw: buf.Bytes()})
	return nil
}

func (s *recordingSession) Close() error { return nil }

type recordingTransport struct {
	authErr error
	dials   []smtpmail.Endpoint
	auths   []string
	sent    []recordedMessage
}

func (t *recordingTransport) Dial(_ context.Context, endpoint smtpmail.Endpoint) (smtpmail.Session, error) {
	t.dials = append(t.dials, endpoint)
	return &recordingSession{transport: t}, nil
}

type harness struct {
	t          *testing.T
	out        *bytes.Buffer
	errOut     *bytes.Buffer
	stdin      io.Reader
	transport  *recordingTransport
	profileDir string
	configPath string
	passwords  []string
	prompts    int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{
		t:          t,
		out:        &bytes.Buffer{},
		errOut:     &bytes.Buffer{},
		transport:  &recordingTransport{},
		profileDir: filepath.Join(dir, "profiles"),
		configPath: configPathForTest(t),
	}
}

func configPathForTest(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.yaml")
}

func (h *harness) root(args ...string) *cobra.Command {
	cmd := NewRootCommand(Config{
		ConfigPath:   h.configPath,
		OutputWriter: h.out,
		ErrorWriter:  h.errOut,
		Transport:    h.transport,
		Protector:    protect.None{},
		PasswordReader: func(string) (string, error) {
			h.prompts++
			if len(h.passwords) == 0 {
				return "", io.EOF
			}
			p := h.passwords[0]
			h.passwords = h.passwords[1:]
			return p, nil
		},
		Now: func() time.Time { return fixedNow },
	})
	cmd.SetArgs(append([]string{"--profile-dir", h.profileDir}, args...))
	if h.stdin != nil {
		cmd.SetIn(h.stdin)
	}
	cmd.SetOut(h.out)
	cmd.SetErr(h.errOut)
	return cmd
}

// run executes args and returns the command error.
func (h *harness) run(args ...string) error {
	h.t.Helper()
	h.out.Reset()
	return h.root(args...).Execute()
}

// exit executes args through Execute and returns the exit code.
func (h *harness) exit(args ...string) int {
	h.t.Helper()
	h.out.Reset()
	return Execute(context.Background(), h.root(args...))
}

func (h *harness) createProfile(name string, extra ...string) {
	h.t.Helper()
	args := append([]string{"profile", "create", name, "smtp.example.com", "u", "Bot", "bot@example.com", "--password", "p"}, extra...)
	require.NoError(h.t, h.run(args...))
}

func parseSent(t *testing.T, m recordedMessage) (*mail.Message, string) {
	t.Helper()
	parsed, err := mail.ReadMessage(bytes.NewReader(m.raw))
	require.NoError(t, err)
	var body io.Reader = parsed.Body
	if strings.EqualFold(parsed.Header.Get("Content-Transfer-Encoding"), "quoted-printable") {
		body = quotedprintable.NewReader(parsed.Body)
	}
	content, err := io.ReadAll(body)
	require.NoError(t, err)
	return parsed, string(content)
}

func mediaType(t *testing.T, m *mail.Message) string {
	t.Helper()
	mt, _, err := mime.ParseMediaType(m.Header.Get("Content-Type"))
	require.NoError(t, err)
	return mt
}
