package mail

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/telekom/smtpmailer/pkg/profile"
)

const octetStream = "application/octet-stream"

// mediaTypes covers common attachment extensions regardless of the host's
// mime.types database.
var mediaTypes = map[string]string{
	".txt":  "text/plain",
	".log":  "text/plain",
	".csv":  "text/csv",
	".md":   "text/markdown",
	".htm":  "text/html",
	".html": "text/html",
	".xml":  "text/xml",
	".css":  "text/css",
	".json": "application/json",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".tar":  "application/x-tar",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
	".mp3":  "audio/mpeg",
	".wav":  "audio/x-wav",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
}

// compressed suffixes describe a content encoding rather than a media type.
var compressed = map[string]bool{
	".gz":  true,
	".bz2": true,
	".xz":  true,
	".br":  true,
	".z":   true,
}

// Compose builds the MIME message for msg. A message without attachments has
// a single body part; otherwise it is multipart/mixed with the body followed
// by one part per attachment.
func Compose(p profile.Profile, msg Message, now time.Time) (*gomail.Message, error) {
	format, err := ParseFormat(string(msg.Format))
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	m.SetHeader("Subject", msg.Subject)
	setFrom(m, p)
	m.SetHeader("To", msg.Recipients...)
	m.SetDateHeader("Date", now)
	m.SetHeader("Message-ID", messageID(p.FromEmail()))
	m.SetBody(format.ContentType(), msg.Body)

	for _, path := range msg.Attachments {
		name := filepath.Base(path)
		m.Attach(path, gomail.SetHeader(map[string][]string{
			"Content-Type":        {attachmentContentType(name)},
			"Content-Disposition": {mime.FormatMediaType("attachment", map[string]string{"filename": name})},
		}))
	}
	return m, nil
}

// setFrom writes "Name <addr>" as is when the name is plain ASCII text. Other
// names go through SetAddressHeader, which quotes or encodes the name alone.
func setFrom(m *gomail.Message, p profile.Profile) {
	if plainDisplayName(p.FromName()) {
		m.SetHeader("From", p.FromAddress())
		return
	}
	m.SetAddressHeader("From", p.FromEmail(), p.FromName())
}

func plainDisplayName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < 0x20 || c > 0x7e || strings.IndexByte(`()<>[]:;@\,."`, c) >= 0 {
			return false
		}
	}
	return true
}

// AttachmentType returns the media type used for an attachment file name.
func AttachmentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" || compressed[ext] {
		return octetStream
	}
	if t, ok := mediaTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if mediaType, _, err := mime.ParseMediaType(t); err == nil {
			return mediaType
		}
	}
	return octetStream
}

func attachmentContentType(name string) string {
	mediaType := AttachmentType(name)
	params := map[string]string{"name": name}
	if strings.HasPrefix(mediaType, "text/") {
		params["charset"] = "utf-8"
	}
	if v := mime.FormatMediaType(mediaType, params); v != "" {
		return v
	}
	return mediaType
}

func messageID(fromEmail string) string {
	domain := "localhost"
	if at := strings.LastIndexByte(fromEmail, '@'); at >= 0 && at < len(fromEmail)-1 {
		domain = fromEmail[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
