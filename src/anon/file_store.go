package anon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nightlyone/lockfile"
	log "github.com/sirupsen/logrus"
)

// Store persists a MappingState somewhere durable. The core only ever sees
// the byte-format contract; where the bytes live is the store's concern.
type Store interface {
	// Load reads the persisted state. A missing store surfaces as an error
	// wrapping fs.ErrNotExist; corrupt contents wrap ErrCorruptState. Neither
	// is ever masked with a silently-empty state.
	Load() (*MappingState, error)
	Save(state *MappingState) error
	// WithLock runs fn as a single load-mutate-save critical section so that
	// concurrent sessions against the same store cannot lose updates.
	WithLock(fn func() error) error
	Path() string
}

// FileStore keeps the mapping state in a JSON file, replaced atomically on
// save.
type FileStore struct {
	fpath string
	flock lockfile.Lockfile
}

// DefaultMappingFilePath returns the per-user mapping file location. It is a
// configuration default only; callers pass the resolved path in explicitly.
func DefaultMappingFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".sqlcloak", "mappings.json"), nil
}

func NewFileStore(fpath string) (*FileStore, error) {
	abs, err := filepath.Abs(fpath)
	if err != nil {
		return nil, fmt.Errorf("resolve mapping file path %q: %w", fpath, err)
	}
	flock, err := lockfile.New(abs + ".lck")
	if err != nil {
		return nil, fmt.Errorf("create lockfile for %q: %w", abs, err)
	}
	return &FileStore{fpath: abs, flock: flock}, nil
}

func (s *FileStore) Path() string {
	return s.fpath
}

func (s *FileStore) Load() (*MappingState, error) {
	data, err := os.ReadFile(s.fpath)
	if err != nil {
		return nil, fmt.Errorf("read mapping file %q: %w", s.fpath, err)
	}
	state, err := LoadMappingState(data)
	if err != nil {
		return nil, fmt.Errorf("mapping file %q: %w", s.fpath, err)
	}
	log.Infof("loaded %d mappings from %q", state.Size(), s.fpath)
	return state, nil
}

// Save writes the state to a temporary file and renames it over the previous
// one, so a crashed save never leaves a half-written mapping file behind.
func (s *FileStore) Save(state *MappingState) error {
	data, err := SaveMappingState(state)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.fpath), 0755); err != nil {
		return fmt.Errorf("create mapping dir for %q: %w", s.fpath, err)
	}
	tmp := s.fpath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write mapping file %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.fpath); err != nil {
		return fmt.Errorf("replace mapping file %q: %w", s.fpath, err)
	}
	log.Infof("saved %d mappings to %q", state.Size(), s.fpath)
	return nil
}

func (s *FileStore) WithLock(fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.fpath), 0755); err != nil {
		return fmt.Errorf("create mapping dir for %q: %w", s.fpath, err)
	}
	if err := s.flock.TryLock(); err != nil {
		if err == lockfile.ErrBusy {
			return fmt.Errorf("mapping file %q is in use by another sqlcloak instance: %w", s.fpath, err)
		}
		return fmt.Errorf("lock mapping file %q: %w", s.fpath, err)
	}
	defer func() {
		if err := s.flock.Unlock(); err != nil {
			log.Errorf("unlock mapping file %q: %v", s.fpath, err)
		}
	}()
	return fn()
}
