package protect

import (
	"errors"
	"fmt"
	"strings"
)

const (
	NameNone    = "none"
	NameDPAPI   = "dpapi"
	NameKeyring = "keyring"
	NameAuto    = "auto"
)

// ErrUnsupported is returned when a protector is not available on this platform.
var ErrUnsupported = errors.New("protector not supported on this platform")

// Protector transforms profile bytes before they are written and reverses the
// transform after they are read.
type Protector interface {
	Name() string
	Protect(data []byte) ([]byte, error)
	Unprotect(data []byte) ([]byte, error)
}

// None leaves bytes untouched.
type None struct{}

func (None) Name() string { return NameNone }

func (None) Protect(data []byte) ([]byte, error) { return data, nil }

func (None) Unprotect(data []byte) ([]byte, error) { return data, nil }

// Default returns the platform's native per-user protector, or None where the
// OS provides no such facility.
func Default() Protector {
	return platformDefault()
}

// ByName resolves a protector from its configured name.
func ByName(name string) (Protector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameAuto:
		return Default(), nil
	case NameNone:
		return None{}, nil
	case NameDPAPI:
		return NewDPAPI()
	case NameKeyring:
		return NewKeyring(), nil
	default:
		return nil, fmt.Errorf("unknown protector: %s", name)
	}
}
