package mail

import (
	"bytes"
	_ "embed"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

// VerificationParams feeds the profile verification message.
type VerificationParams struct {
	ProfileName string
	SentAt      time.Time
}

var (
	verificationTemplate = template.New("verification").Funcs(sprig.TxtFuncMap())

	//go:embed templates/verification.txt
	verificationTemplateRaw string
)

func init() {
	if _, err := verificationTemplate.Parse(verificationTemplateRaw); err != nil {
		panic(err)
	}
}

func render(t *template.Template, p any) (string, error) {
	b := bytes.Buffer{}
	err := t.Execute(&b, p)
	return b.String(), err
}

// RenderVerificationBody renders the body of a profile verification message.
// The send time is printed in the zone of p.SentAt.
func RenderVerificationBody(p VerificationParams) (string, error) {
	return render(verificationTemplate, struct {
		VerificationParams
		Layout string
		Zone   string
	}{p, SubjectTimeLayout, p.SentAt.Location().String()})
}

// VerificationSubject returns the subject of a profile verification message.
func VerificationSubject(sentAt time.Time) string {
	return "SmtpMailer Verification (" + sentAt.Format(SubjectTimeLayout) + ")"
}

// VerificationMessage builds the test message sent by profile verification.
func VerificationMessage(p VerificationParams, recipients, attachments []string) (Message, error) {
	body, err := RenderVerificationBody(p)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Recipients:  recipients,
		Subject:     VerificationSubject(p.SentAt),
		Body:        body,
		Format:      FormatPlain,
		Attachments: attachments,
	}, nil
}
