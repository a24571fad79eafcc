package mail

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Format selects the content type of the message body.
type Format string

const (
	FormatPlain Format = "plain"
	FormatHTML  Format = "html"
)

// SubjectTimeLayout renders the {now} placeholder.
const SubjectTimeLayout = "2006-01-02 15:04:05"

// Message is one outgoing email. Attachments are file paths that are read
// when the message is sent.
type Message struct {
	Recipients  []string
	Subject     string
	Body        string
	Format      Format
	Attachments []string
}

// ContentType returns the MIME type of the body part.
func (f Format) ContentType() string {
	if f == FormatHTML {
		return "text/html"
	}
	return "text/plain"
}

// ParseFormat accepts "plain", "html" and "" (plain).
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPlain:
		return FormatPlain, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: unknown body format %q", ErrInvalidMessage, s)
	}
}

func (m Message) validate() error {
	if len(m.Recipients) == 0 {
		return fmt.Errorf("%w: at least one recipient is required", ErrInvalidMessage)
	}
	for _, r := range m.Recipients {
		if strings.TrimSpace(r) == "" {
			return fmt.Errorf("%w: empty recipient", ErrInvalidMessage)
		}
		if strings.ContainsAny(r, "\r\n") {
			return fmt.Errorf("%w: recipient %q contains a line break", ErrInvalidMessage, r)
		}
	}
	if strings.ContainsAny(m.Subject, "\r\n") {
		return fmt.Errorf("%w: subject contains a line break", ErrInvalidMessage)
	}
	if _, err := ParseFormat(string(m.Format)); err != nil {
		return err
	}
	return nil
}

// checkAttachments fails unless every attachment is a readable regular file.
func (m Message) checkAttachments() error {
	for _, path := range m.Attachments {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrAttachmentNotFound, path, err)
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("%w: %s is not a regular file", ErrAttachmentNotFound, path)
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrAttachmentNotFound, path, err)
		}
		_ = f.Close()
	}
	return nil
}

// ExpandSubject replaces every {now} placeholder with the given time.
func ExpandSubject(subject string, now time.Time) string {
	return strings.ReplaceAll(subject, "{now}", now.Format(SubjectTimeLayout))
}
