package persist

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"github.com/diegesis/engine/internal/cartridge"
	"github.com/diegesis/engine/internal/world"
)

const (
	indexFile  = "index.yaml"
	worldFile  = "active_world.json"
	slotSubdir = "slots"
)

// indexEntry is a Slot plus the digest of its snapshot file.
type indexEntry struct {
	Slot     `yaml:",inline"`
	Checksum string `yaml:"checksum"`
}

// FileStore keeps snapshots as JSON files under a directory, with a YAML
// index carrying slot metadata and a BLAKE2b digest per snapshot.
// Safe for concurrent use.
type FileStore struct {
	dir string
	log *zap.Logger
	mu  sync.Mutex
	now func() time.Time
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string, log *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, slotSubdir), 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{dir: dir, log: log, now: time.Now}, nil
}

func (s *FileStore) Save(_ context.Context, id string, snap world.Snapshot, preview string) error {
	if err := ValidateSlotID(id); err != nil {
		return err
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeAtomic(s.slotPath(id), raw); err != nil {
		return fmt.Errorf("write slot %s: %w", id, err)
	}
	index, err := s.readIndex()
	if err != nil {
		return err
	}
	entry := indexEntry{
		Slot:     Slot{ID: id, Timestamp: s.now().UTC(), Preview: preview},
		Checksum: digest(raw),
	}
	if i := slices.IndexFunc(index, func(e indexEntry) bool { return e.ID == id }); i >= 0 {
		index[i] = entry
	} else {
		index = append(index, entry)
	}
	if err := s.writeIndex(index); err != nil {
		return err
	}
	s.log.Debug("slot saved", zap.String("slot", id), zap.Int("bytes", len(raw)))
	return nil
}

func (s *FileStore) Load(_ context.Context, id string) (world.Snapshot, error) {
	if err := ValidateSlotID(id); err != nil {
		return world.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.readIndex()
	if err != nil {
		return world.Snapshot{}, err
	}
	i := slices.IndexFunc(index, func(e indexEntry) bool { return e.ID == id })
	if i < 0 {
		return world.Snapshot{}, fmt.Errorf("%w: %s", ErrSlotNotFound, id)
	}
	raw, err := os.ReadFile(s.slotPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return world.Snapshot{}, fmt.Errorf("%w: %s", ErrSlotNotFound, id)
	}
	if err != nil {
		return world.Snapshot{}, fmt.Errorf("read slot %s: %w", id, err)
	}
	if want := index[i].Checksum; want != "" && want != digest(raw) {
		return world.Snapshot{}, fmt.Errorf("%w: %s", ErrChecksum, id)
	}
	var snap world.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return world.Snapshot{}, fmt.Errorf("decode slot %s: %w", id, err)
	}
	return snap, nil
}

// List returns slots newest first.
func (s *FileStore) List(_ context.Context) ([]Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.readIndex()
	if err != nil {
		return nil, err
	}
	out := make([]Slot, len(index))
	for i, e := range index {
		out[i] = e.Slot
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := ValidateSlotID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.readIndex()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(index, func(e indexEntry) bool { return e.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, id)
	}
	index = slices.Delete(index, i, i+1)
	if err := s.writeIndex(index); err != nil {
		return err
	}
	if err := os.Remove(s.slotPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove slot %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) SaveWorld(_ context.Context, def world.Definition) error {
	raw, err := cartridge.Encode(def)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeAtomic(filepath.Join(s.dir, worldFile), raw); err != nil {
		return fmt.Errorf("write active world: %w", err)
	}
	return nil
}

// LoadWorld returns nil when no world was saved or the saved file is not a
// valid definition; the latter is logged and treated as absent.
func (s *FileStore) LoadWorld(_ context.Context) (*world.Definition, error) {
	s.mu.Lock()
	raw, err := os.ReadFile(filepath.Join(s.dir, worldFile))
	s.mu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read active world: %w", err)
	}
	def, err := cartridge.Decode(raw)
	if err != nil {
		s.log.Warn("discarding unreadable active world", zap.Error(err))
		return nil, nil
	}
	return &def, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) slotPath(id string) string {
	return filepath.Join(s.dir, slotSubdir, id+".json")
}

func (s *FileStore) readIndex() ([]indexEntry, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read save index: %w", err)
	}
	var index []indexEntry
	if err := yaml.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("parse save index: %w", err)
	}
	return index, nil
}

func (s *FileStore) writeIndex(index []indexEntry) error {
	raw, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("encode save index: %w", err)
	}
	if err := writeAtomic(filepath.Join(s.dir, indexFile), raw); err != nil {
		return fmt.Errorf("write save index: %w", err)
	}
	return nil
}

// writeAtomic replaces path via a temp file in the same directory.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func sortNewestFirst(slots []Slot) {
	slices.SortStableFunc(slots, func(a, b Slot) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
}
