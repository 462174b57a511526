package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/diegesis/engine/internal/cartridge"
	"github.com/diegesis/engine/internal/world"
)

// PostgresStore keeps save slots and the active world in PostgreSQL.
type PostgresStore struct {
	db  *DB
	log *zap.Logger
}

func NewPostgresStore(db *DB, log *zap.Logger) *PostgresStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &PostgresStore{db: db, log: log}
}

func (r *PostgresStore) Save(ctx context.Context, id string, snap world.Snapshot, preview string) error {
	if err := ValidateSlotID(id); err != nil {
		return err
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO save_slots (id, saved_at, preview, snapshot)
		 VALUES ($1, now(), $2, $3::jsonb)
		 ON CONFLICT (id) DO UPDATE SET
		     saved_at = EXCLUDED.saved_at,
		     preview  = EXCLUDED.preview,
		     snapshot = EXCLUDED.snapshot`,
		id, preview, string(raw),
	)
	if err != nil {
		return fmt.Errorf("save slot %s: %w", id, err)
	}
	return nil
}

func (r *PostgresStore) Load(ctx context.Context, id string) (world.Snapshot, error) {
	if err := ValidateSlotID(id); err != nil {
		return world.Snapshot{}, err
	}
	var raw []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT snapshot FROM save_slots WHERE id = $1`, id,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return world.Snapshot{}, fmt.Errorf("%w: %s", ErrSlotNotFound, id)
	}
	if err != nil {
		return world.Snapshot{}, fmt.Errorf("load slot %s: %w", id, err)
	}
	var snap world.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return world.Snapshot{}, fmt.Errorf("decode slot %s: %w", id, err)
	}
	return snap, nil
}

// List returns slots newest first.
func (r *PostgresStore) List(ctx context.Context) ([]Slot, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, saved_at, preview FROM save_slots ORDER BY saved_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var out []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.ID, &s.Timestamp, &s.Preview); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresStore) Delete(ctx context.Context, id string) error {
	if err := ValidateSlotID(id); err != nil {
		return err
	}
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM save_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete slot %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, id)
	}
	return nil
}

func (r *PostgresStore) SaveWorld(ctx context.Context, def world.Definition) error {
	raw, err := cartridge.Encode(def)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO active_world (id, version, definition, updated_at)
		 VALUES (1, $1, $2::jsonb, now())
		 ON CONFLICT (id) DO UPDATE SET
		     version    = EXCLUDED.version,
		     definition = EXCLUDED.definition,
		     updated_at = EXCLUDED.updated_at`,
		def.Meta.Version, string(raw),
	)
	if err != nil {
		return fmt.Errorf("save active world: %w", err)
	}
	return nil
}

// LoadWorld returns nil when no world was saved or the stored row is not a
// valid definition.
func (r *PostgresStore) LoadWorld(ctx context.Context) (*world.Definition, error) {
	var raw []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT definition FROM active_world WHERE id = 1`,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load active world: %w", err)
	}
	def, err := cartridge.Decode(raw)
	if err != nil {
		r.log.Warn("discarding unreadable active world", zap.Error(err))
		return nil, nil
	}
	return &def, nil
}

func (r *PostgresStore) Close() error {
	r.db.Close()
	return nil
}
