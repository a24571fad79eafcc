package profile

import (
	"encoding/json"
	"errors"
	"fmt"
)

// record is the on-disk shape of a Profile.
type record struct {
	Host      string `json:"host"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
	SSL       *bool  `json:"ssl"`
	Port      *int   `json:"port"`
}

func encode(p Profile) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	ssl := p.useSSL
	rec := record{
		Host:      p.host,
		Username:  p.username,
		Password:  p.password,
		FromName:  p.fromName,
		FromEmail: p.fromEmail,
		SSL:       &ssl,
	}
	if port, ok := p.Port(); ok {
		rec.Port = &port
	}
	return json.Marshal(rec)
}

func decode(content []byte) (Profile, error) {
	var rec record
	if err := json.Unmarshal(content, &rec); err != nil {
		return Profile{}, err
	}
	if rec.SSL == nil {
		return Profile{}, errors.New("missing ssl")
	}
	var opts []Option
	if rec.Port != nil {
		// WithPort ignores values <= 0, so they never reach validate.
		if *rec.Port <= 0 {
			return Profile{}, fmt.Errorf("port out of range: %d", *rec.Port)
		}
		opts = append(opts, WithPort(*rec.Port))
	}
	p := New(rec.Host, rec.Username, rec.Password, rec.FromName, rec.FromEmail, *rec.SSL, opts...)
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
