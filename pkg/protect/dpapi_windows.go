//go:build windows

package protect

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// DPAPI protects bytes with CryptProtectData in the current user's scope.
type DPAPI struct{}

// NewDPAPI returns the Windows data protection protector.
func NewDPAPI() (Protector, error) {
	return DPAPI{}, nil
}

func platformDefault() Protector {
	return DPAPI{}
}

func (DPAPI) Name() string { return NameDPAPI }

func (DPAPI) Protect(data []byte) ([]byte, error) {
	in := newBlob(data)
	var out windows.DataBlob
	if err := windows.CryptProtectData(in, nil, nil, 0, nil, windows.CRYPTPROTECT_UI_FORBIDDEN, &out); err != nil {
		return nil, fmt.Errorf("CryptProtectData: %w", err)
	}
	return takeBlob(&out), nil
}

func (DPAPI) Unprotect(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty protected payload")
	}
	in := newBlob(data)
	var out windows.DataBlob
	if err := windows.CryptUnprotectData(in, nil, nil, 0, nil, windows.CRYPTPROTECT_UI_FORBIDDEN, &out); err != nil {
		return nil, fmt.Errorf("CryptUnprotectData: %w", err)
	}
	return takeBlob(&out), nil
}

func newBlob(data []byte) *windows.DataBlob {
	if len(data) == 0 {
		return &windows.DataBlob{}
	}
	return &windows.DataBlob{Size: uint32(len(data)), Data: &data[0]}
}

// takeBlob copies the output buffer and releases the memory allocated by the OS.
func takeBlob(b *windows.DataBlob) []byte {
	if b.Data == nil {
		return []byte{}
	}
	defer func() {
		_, _ = windows.LocalFree(windows.Handle(unsafe.Pointer(b.Data)))
	}()
	return append([]byte(nil), unsafe.Slice(b.Data, b.Size)...)
}
