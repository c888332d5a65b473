package anon

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/nightlyone/lockfile"
	log "github.com/sirupsen/logrus"

	"github.com/sqlcloak/sqlcloak/src/sqllex"
)

const (
	MAPPING_TOKENS_TABLE   = "mapping_tokens"
	MAPPING_COUNTERS_TABLE = "mapping_counters"

	SQLITE_OPTIONS = "?_txlock=exclusive&_timeout=30000"
)

// SqliteStore keeps the mapping state in a sqlite database. It satisfies the
// same Load/Save contract as FileStore; selection between the two is a CLI
// configuration concern.
type SqliteStore struct {
	fpath string
	db    *sql.DB
	flock lockfile.Lockfile
}

func NewSqliteStore(fpath string) (*SqliteStore, error) {
	abs, err := filepath.Abs(fpath)
	if err != nil {
		return nil, fmt.Errorf("resolve mapping db path %q: %w", fpath, err)
	}
	flock, err := lockfile.New(abs + ".lck")
	if err != nil {
		return nil, fmt.Errorf("create lockfile for %q: %w", abs, err)
	}
	return &SqliteStore{fpath: abs, flock: flock}, nil
}

func (s *SqliteStore) Path() string {
	return s.fpath
}

func (s *SqliteStore) open() error {
	if s.db != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.fpath), 0755); err != nil {
		return fmt.Errorf("create mapping dir for %q: %w", s.fpath, err)
	}
	db, err := sql.Open("sqlite3", s.fpath+SQLITE_OPTIONS)
	if err != nil {
		return fmt.Errorf("error while opening mapping db %q: %w", s.fpath, err)
	}
	createSQL := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		category TEXT NOT NULL,
		original TEXT NOT NULL,
		placeholder TEXT NOT NULL,
		UNIQUE(category, original),
		UNIQUE(category, placeholder)
	);
	CREATE TABLE IF NOT EXISTS %s (
		category TEXT PRIMARY KEY,
		counter INTEGER NOT NULL
	);`, MAPPING_TOKENS_TABLE, MAPPING_COUNTERS_TABLE)
	if _, err := db.Exec(createSQL); err != nil {
		db.Close()
		return fmt.Errorf("error creating mapping tables: %w", err)
	}
	s.db = db
	return nil
}

func (s *SqliteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads the full state back out. A db file that was never created
// surfaces as fs.ErrNotExist, matching FileStore semantics, rather than the
// empty database sqlite would otherwise silently create.
func (s *SqliteStore) Load() (*MappingState, error) {
	if _, err := os.Stat(s.fpath); err != nil {
		return nil, fmt.Errorf("mapping db %q: %w", s.fpath, err)
	}
	if err := s.open(); err != nil {
		return nil, err
	}

	persisted := make(map[string]persistedCategory)
	for _, c := range AnonymizableCategories {
		persisted[c.String()] = persistedCategory{
			Forward: make(map[string]string),
			Reverse: make(map[string]string),
		}
	}

	rows, err := s.db.Query(fmt.Sprintf(`SELECT category, original, placeholder FROM %s`, MAPPING_TOKENS_TABLE))
	if err != nil {
		return nil, fmt.Errorf("read mapping tokens: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var category, original, placeholder string
		if err := rows.Scan(&category, &original, &placeholder); err != nil {
			return nil, fmt.Errorf("scan mapping token: %w", err)
		}
		pc, ok := persisted[category]
		if !ok {
			return nil, fmt.Errorf("mapping db: category %q is not anonymizable: %w", category, ErrCorruptState)
		}
		pc.Forward[original] = placeholder
		pc.Reverse[placeholder] = original
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read mapping tokens: %w", err)
	}

	counters, err := s.db.Query(fmt.Sprintf(`SELECT category, counter FROM %s`, MAPPING_COUNTERS_TABLE))
	if err != nil {
		return nil, fmt.Errorf("read mapping counters: %w", err)
	}
	defer counters.Close()
	counterByCategory := make(map[string]int)
	for counters.Next() {
		var category string
		var counter int
		if err := counters.Scan(&category, &counter); err != nil {
			return nil, fmt.Errorf("scan mapping counter: %w", err)
		}
		counterByCategory[category] = counter
	}
	if err := counters.Err(); err != nil {
		return nil, fmt.Errorf("read mapping counters: %w", err)
	}

	state := NewMappingState()
	for name, pc := range persisted {
		pc.Counter = counterByCategory[name]
		if err := validateCategory(name, pc); err != nil {
			return nil, err
		}
		category, err := sqllex.ParseTokenCategory(name)
		if err != nil {
			return nil, fmt.Errorf("mapping db: %v: %w", err, ErrCorruptState)
		}
		m := state.categories[category]
		m.forward = pc.Forward
		m.reverse = pc.Reverse
		m.counter = pc.Counter
	}
	log.Infof("loaded %d mappings from %q", state.Size(), s.fpath)
	return state, nil
}

// Save replaces the stored state wholesale inside one transaction.
func (s *SqliteStore) Save(state *MappingState) error {
	if err := s.open(); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin mapping save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s`, MAPPING_TOKENS_TABLE)); err != nil {
		return fmt.Errorf("clear mapping tokens: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s`, MAPPING_COUNTERS_TABLE)); err != nil {
		return fmt.Errorf("clear mapping counters: %w", err)
	}

	insertToken, err := tx.Prepare(fmt.Sprintf(
		`INSERT INTO %s (category, original, placeholder) VALUES (?, ?, ?)`, MAPPING_TOKENS_TABLE))
	if err != nil {
		return fmt.Errorf("prepare token insert: %w", err)
	}
	defer insertToken.Close()

	for _, c := range AnonymizableCategories {
		m := state.categories[c]
		for original, placeholder := range m.forward {
			if _, err := insertToken.Exec(c.String(), original, placeholder); err != nil {
				return fmt.Errorf("insert mapping token: %w", err)
			}
		}
		if _, err := tx.Exec(fmt.Sprintf(
			`INSERT INTO %s (category, counter) VALUES (?, ?)`, MAPPING_COUNTERS_TABLE),
			c.String(), m.counter); err != nil {
			return fmt.Errorf("insert mapping counter: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mapping save: %w", err)
	}
	log.Infof("saved %d mappings to %q", state.Size(), s.fpath)
	return nil
}

func (s *SqliteStore) WithLock(fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.fpath), 0755); err != nil {
		return fmt.Errorf("create mapping dir for %q: %w", s.fpath, err)
	}
	if err := s.flock.TryLock(); err != nil {
		if err == lockfile.ErrBusy {
			return fmt.Errorf("mapping db %q is in use by another sqlcloak instance: %w", s.fpath, err)
		}
		return fmt.Errorf("lock mapping db %q: %w", s.fpath, err)
	}
	defer func() {
		if err := s.flock.Unlock(); err != nil {
			log.Errorf("unlock mapping db %q: %v", s.fpath, err)
		}
	}()
	return fn()
}
