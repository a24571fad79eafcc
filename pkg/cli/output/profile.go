package output

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/telekom/smtpmailer/pkg/profile"
)

const passwordMask = "****"

// ProfileView is the structured rendering of a profile for json and yaml.
type ProfileView struct {
	Name          string `json:"name" yaml:"name"`
	Host          string `json:"host" yaml:"host"`
	Username      string `json:"username" yaml:"username"`
	Password      string `json:"password" yaml:"password"`
	FromName      string `json:"from_name" yaml:"from_name"`
	FromEmail     string `json:"from_email" yaml:"from_email"`
	SSL           bool   `json:"ssl" yaml:"ssl"`
	Port          *int   `json:"port" yaml:"port"`
	EffectivePort int    `json:"effective_port" yaml:"effective_port"`
}

func NewProfileView(name string, p profile.Profile, showPassword bool) ProfileView {
	v := ProfileView{
		Name:          name,
		Host:          p.Host(),
		Username:      p.Username(),
		Password:      passwordMask,
		FromName:      p.FromName(),
		FromEmail:     p.FromEmail(),
		SSL:           p.UseSSL(),
		EffectivePort: p.EffectivePort(),
	}
	if showPassword {
		v.Password = p.Password()
	}
	if port, ok := p.Port(); ok {
		v.Port = &port
	}
	return v
}

// ProfileRow is one line of the profile list. Err is set when the profile
// could not be loaded.
type ProfileRow struct {
	Name    string
	Profile profile.Profile
	Err     error
}

func WriteProfileTable(w io.Writer, rows []ProfileRow) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tHOST\tPORT\tSECURITY\tFROM\tSTATUS")
	for _, r := range rows {
		if r.Err != nil {
			_, _ = fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t%s\n", r.Name, "unreadable")
			continue
		}
		p := r.Profile
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Name, p.Host(), strconv.Itoa(p.EffectivePort()), security(p), p.FromAddress(), "ok")
	}
	_ = tw.Flush()
}

// WriteNames writes one profile name per line.
func WriteNames(w io.Writer, names []string) {
	for _, n := range names {
		_, _ = fmt.Fprintln(w, n)
	}
}

func security(p profile.Profile) string {
	if p.UseSSL() {
		return "ssl"
	}
	return "starttls"
}
