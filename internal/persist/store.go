package persist

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/diegesis/engine/internal/world"
)

var (
	// ErrSlotNotFound is returned when loading or deleting an unknown slot.
	ErrSlotNotFound = errors.New("save slot not found")
	// ErrChecksum is returned when a stored snapshot no longer matches its
	// recorded digest.
	ErrChecksum = errors.New("save slot checksum mismatch")
	// ErrInvalidSlotID is returned for slot names outside [A-Za-z0-9_-].
	ErrInvalidSlotID = errors.New("invalid save slot id")
)

// Slot is one entry of the save index.
type Slot struct {
	ID        string    `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Preview   string    `json:"preview" yaml:"preview"`
}

// SlotStore persists session snapshots by slot name plus the definition of
// the world currently being played. Each slot holds exactly one snapshot;
// saving to an existing slot replaces it.
type SlotStore interface {
	Save(ctx context.Context, id string, snap world.Snapshot, preview string) error
	Load(ctx context.Context, id string) (world.Snapshot, error)
	List(ctx context.Context) ([]Slot, error)
	Delete(ctx context.Context, id string) error

	// SaveWorld records the active world definition.
	SaveWorld(ctx context.Context, def world.Definition) error
	// LoadWorld returns the recorded definition, or nil if none was saved.
	LoadWorld(ctx context.Context) (*world.Definition, error)

	Close() error
}

var slotIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateSlotID rejects names that are unsafe as file or key names.
func ValidateSlotID(id string) error {
	if !slotIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidSlotID, id)
	}
	return nil
}
