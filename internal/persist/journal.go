package persist

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/diegesis/engine/internal/world"
)

// JournalEntry is one applied action, kept in the order it was reduced.
// Record holds the tagged action as produced by world.MarshalAction.
type JournalEntry struct {
	Seq    int64            `json:"seq"`
	Tick   int64            `json:"tick"`
	Type   world.ActionType `json:"type"`
	Record json.RawMessage  `json:"record"`
	At     time.Time        `json:"at"`
}

// Action decodes the entry's record.
func (e JournalEntry) Action() (world.Action, error) {
	return world.UnmarshalAction(e.Record)
}

// Journal is an append-only log of applied actions.
type Journal interface {
	// Append writes a batch atomically: either every entry is stored or none.
	Append(ctx context.Context, entries []JournalEntry) error
	// Recent returns up to limit of the newest entries, oldest first.
	Recent(ctx context.Context, limit int) ([]JournalEntry, error)
}

const journalFile = "journal.jsonl"

// FileJournal appends entries as JSON lines to a file in the save directory.
type FileJournal struct {
	path string
	mu   sync.Mutex
	seq  int64
}

// NewFileJournal opens or creates the journal under dir and resumes its
// sequence numbering.
func NewFileJournal(dir string) (*FileJournal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	j := &FileJournal{path: filepath.Join(dir, journalFile)}
	entries, err := j.readAll()
	if err != nil {
		return nil, err
	}
	if n := len(entries); n > 0 {
		j.seq = entries[n-1].Seq
	}
	return j, nil
}

// Append encodes the whole batch before a single write, so a failed encode
// leaves the file untouched.
func (j *FileJournal) Append(_ context.Context, entries []JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	var buf bytes.Buffer
	seq := j.seq
	for _, e := range entries {
		seq++
		e.Seq = seq
		line, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode journal entry: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("write journal: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	j.seq = seq
	return nil
}

func (j *FileJournal) Recent(_ context.Context, limit int) ([]JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	entries, err := j.readAll()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

func (j *FileJournal) readAll() ([]JournalEntry, error) {
	f, err := os.Open(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	var out []JournalEntry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for line := 1; sc.Scan(); line++ {
		if len(bytes.TrimSpace(sc.Bytes())) == 0 {
			continue
		}
		var e JournalEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("journal line %d: %w", line, err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return out, nil
}

// PostgresJournal stores entries in the action_journal table.
type PostgresJournal struct {
	db *DB
}

func NewPostgresJournal(db *DB) *PostgresJournal {
	return &PostgresJournal{db: db}
}

// Append writes a batch of entries in a single transaction.
func (r *PostgresJournal) Append(ctx context.Context, entries []JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO action_journal (tick, action_type, record, recorded_at)
			 VALUES ($1, $2, $3::jsonb, $4)`,
			e.Tick, string(e.Type), string(e.Record), e.At,
		); err != nil {
			return fmt.Errorf("journal insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresJournal) Recent(ctx context.Context, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Pool.Query(ctx,
		`SELECT seq, tick, action_type, record, recorded_at
		 FROM action_journal ORDER BY seq DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []JournalEntry
	for rows.Next() {
		var (
			e      JournalEntry
			typ    string
			record []byte
		)
		if err := rows.Scan(&e.Seq, &e.Tick, &typ, &record, &e.At); err != nil {
			return nil, err
		}
		e.Type = world.ActionType(typ)
		e.Record = record
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}
