package protect

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	DefaultKeyringService = "smtpmailer"
	DefaultKeyringUser    = "profile-key"

	keySize = 32
)

// Keyring encrypts bytes with AES-256-GCM under a random key held in the OS
// keyring (Keychain, Secret Service or Windows Credential Manager).
type Keyring struct {
	Service string
	User    string
}

// NewKeyring returns a Keyring protector using the default keyring entry.
func NewKeyring() *Keyring {
	return &Keyring{Service: DefaultKeyringService, User: DefaultKeyringUser}
}

func (k *Keyring) Name() string { return NameKeyring }

func (k *Keyring) Protect(data []byte) ([]byte, error) {
	key, err := k.key(true)
	if err != nil {
		return nil, err
	}
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, data, nil), nil
}

func (k *Keyring) Unprotect(data []byte) ([]byte, error) {
	key, err := k.key(false)
	if err != nil {
		return nil, err
	}
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	if len(data) < aead.NonceSize() {
		return nil, errors.New("protected payload too short")
	}
	nonce, sealed := data[:aead.NonceSize()], data[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt payload: %w", err)
	}
	return plain, nil
}

// key fetches the key from the keyring, creating it when create is set.
func (k *Keyring) key(create bool) ([]byte, error) {
	encoded, err := keyring.Get(k.Service, k.User)
	if errors.Is(err, keyring.ErrNotFound) {
		if !create {
			return nil, fmt.Errorf("no key stored in keyring %s/%s", k.Service, k.User)
		}
		key := make([]byte, keySize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate key: %w", err)
		}
		if err := keyring.Set(k.Service, k.User, base64.StdEncoding.EncodeToString(key)); err != nil {
			return nil, fmt.Errorf("failed to store key in keyring: %w", err)
		}
		return key, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key from keyring: %w", err)
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(key) != keySize {
		return nil, fmt.Errorf("keyring entry %s/%s is not a valid key", k.Service, k.User)
	}
	return key, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
