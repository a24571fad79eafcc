package profile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/telekom/smtpmailer/pkg/metrics"
	"github.com/telekom/smtpmailer/pkg/protect"
)

// Extension identifies profile files inside the store directory.
const Extension = ".SmtpMailer"

// listBatchSize bounds how many directory entries List reads at once.
const listBatchSize = 64

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileCorrupt     = errors.New("profile corrupt")
	ErrInvalidProfileName = errors.New("invalid profile name")
	ErrInvalidProfile     = errors.New("invalid profile")
)

// Store maps profile names to files under a per-user directory. It holds no
// state between calls; every operation round-trips through the filesystem.
type Store struct {
	dir       string
	protector protect.Protector
	logger    *zap.SugaredLogger
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.SugaredLogger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a Store rooted at dir. A nil protector means protect.None.
func NewStore(dir string, protector protect.Protector, opts ...StoreOption) *Store {
	if protector == nil {
		protector = protect.None{}
	}
	s := &Store{dir: dir, protector: protector, logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("profile-store")
	return s
}

// Dir returns the directory the store reads and writes.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path used for the named profile.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+Extension)
}

// Exists reports whether a profile file exists for name.
func (s *Store) Exists(name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}
	info, err := os.Stat(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// Save writes the profile, replacing any existing file of the same name.
func (s *Store) Save(name string, p Profile) (err error) {
	defer func() { metrics.ObserveProfileOperation("save", err) }()

	if err := ValidateName(name); err != nil {
		return err
	}
	content, err := encode(p)
	if errors.Is(err, ErrInvalidProfile) {
		return fmt.Errorf("%w (profile %s)", err, name)
	}
	if err != nil {
		return fmt.Errorf("failed to encode profile %s: %w", name, err)
	}
	content, err = s.protector.Protect(content)
	if err != nil {
		return fmt.Errorf("failed to protect profile %s with %s: %w", name, s.protector.Name(), err)
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create profile dir: %w", err)
	}
	if err := writeFileAtomic(s.Path(name), content); err != nil {
		return fmt.Errorf("failed to write profile %s: %w", name, err)
	}
	s.logger.Debugw("Saved profile", "name", name, "path", s.Path(name), "protector", s.protector.Name())
	return nil
}

// Load reads and decodes the named profile.
func (s *Store) Load(name string) (p Profile, err error) {
	defer func() { metrics.ObserveProfileOperation("load", err) }()

	if err := ValidateName(name); err != nil {
		return Profile{}, err
	}
	path := s.Path(name)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.Mode().IsRegular()) {
		return Profile{}, fmt.Errorf("%w: '%s' is not a recognized profile name", ErrProfileNotFound, name)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to stat profile %s: %w", name, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile %s: %w", name, err)
	}
	content, err = s.protector.Unprotect(content)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %s: %s: %v", ErrProfileCorrupt, name, s.protector.Name(), err)
	}
	p, err = decode(content)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %s: %v", ErrProfileCorrupt, name, err)
	}
	s.logger.Debugw("Loaded profile", "name", name, "host", p.Host())
	return p, nil
}

// List lazily yields the names of all profiles in the store directory, in
// filesystem order. Each call starts a fresh enumeration. A missing
// directory yields nothing.
func (s *Store) List() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		dir, err := os.Open(s.dir)
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		if err != nil {
			yield("", fmt.Errorf("failed to open profile dir: %w", err))
			return
		}
		defer dir.Close()

		for {
			entries, err := dir.ReadDir(listBatchSize)
			for _, entry := range entries {
				name, ok := strings.CutSuffix(entry.Name(), Extension)
				if !ok || name == "" || entry.IsDir() {
					continue
				}
				if !yield(name, nil) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", fmt.Errorf("failed to read profile dir: %w", err))
				return
			}
		}
	}
}

// Names collects List into a sorted slice.
func (s *Store) Names() ([]string, error) {
	names := []string{}
	for name, err := range s.List() {
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ValidateName rejects names that cannot map to a single file in the store.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidProfileName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidProfileName, name)
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, os.PathSeparator):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidProfileName, name)
	}
	return nil
}

func writeFileAtomic(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
