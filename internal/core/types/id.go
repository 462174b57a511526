package types

import "strconv"

// EntityID is the stable identity of an entity. IDs are assigned from a
// per-world counter and never reused within a session.
type EntityID int64

// NilEntityID marks an absent reference.
const NilEntityID EntityID = 0

// PlayerID is reserved for the player entity in every world.
const PlayerID EntityID = 1

// FirstDynamicID is the lowest ID handed out by the allocator of a fresh
// world, leaving room below it for hand-authored cartridge entities.
const FirstDynamicID EntityID = 100

func (id EntityID) IsNil() bool { return id == NilEntityID }

func (id EntityID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseEntityID accepts the decimal form used for JSON object keys.
func ParseEntityID(s string) (EntityID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return NilEntityID, err
	}
	return EntityID(v), nil
}
