package memory

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	// mattn/go-sqlite3 registers the "sqlite3" driver used below; it
	// backs an append-only memory-snapshot log.
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteService is a durable MemoryService: merges happen in-process
// (guarded by mu, same as InMemoryService) and are additionally upserted
// into an append-only log table, so Load-on-startup can recover the
// latest snapshot after a restart.
type SQLiteService struct {
	mu       sync.Mutex
	db       *sql.DB
	snapshot MemorySnapshot
}

// OpenSQLiteService opens (creating if absent) a SQLite-backed memory
// log at path and loads the latest snapshot, if any, as the starting
// state.
func OpenSQLiteService(path string) (*SQLiteService, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory store: %w", err)
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		CREATE TABLE IF NOT EXISTS memory_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts TEXT NOT NULL,
			data TEXT NOT NULL
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite memory schema: %w", err)
	}

	s := &SQLiteService{db: db, snapshot: MemorySnapshot{State: map[string]any{}}}
	if latest, ok, err := s.latest(); err != nil {
		db.Close()
		return nil, err
	} else if ok {
		s.snapshot = latest
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteService) Close() error {
	return s.db.Close()
}

func (s *SQLiteService) latest() (MemorySnapshot, bool, error) {
	row := s.db.QueryRow(`SELECT data FROM memory_snapshots ORDER BY id DESC LIMIT 1`)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return MemorySnapshot{}, false, nil
		}
		return MemorySnapshot{}, false, fmt.Errorf("read latest memory snapshot: %w", err)
	}
	var snap MemorySnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return MemorySnapshot{}, false, fmt.Errorf("decode memory snapshot: %w", err)
	}
	return snap, true, nil
}

func (s *SQLiteService) upsert(snap MemorySnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode memory snapshot: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO memory_snapshots (ts, data) VALUES (?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano), string(data))
	return err
}

// Load returns the current in-memory snapshot (already warmed from disk
// at open time).
func (s *SQLiteService) Load() MemorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

// Save overwrites the snapshot and appends it to the log. Append
// failures are swallowed (best-effort persistence, per the spec's
// invariant that a crash between merge and flush may lose the last
// delta) but the in-memory value always reflects the save.
func (s *SQLiteService) Save(snapshot MemorySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot.Clone()
	_ = s.upsert(s.snapshot)
}

// Merge deep-merges delta into the snapshot, appends the result to the
// log, and returns it.
func (s *SQLiteService) Merge(delta MemoryDelta) MemorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.State == nil {
		s.snapshot.State = map[string]any{}
	}
	if delta.StatePatch != nil {
		s.snapshot.State = DeepMerge(s.snapshot.State, delta.StatePatch)
	}
	s.snapshot.Todo = append(s.snapshot.Todo, delta.TodoAdd...)
	for _, upd := range delta.TodoUpdate {
		for i := range s.snapshot.Todo {
			if s.snapshot.Todo[i].Title == upd.Title {
				s.snapshot.Todo[i].Status = upd.NewStatus
			}
		}
	}
	_ = s.upsert(s.snapshot)
	return s.snapshot.Clone()
}

var _ Service = (*SQLiteService)(nil)
var _ Service = (*InMemoryService)(nil)
