package component

import "slices"

// Clone returns a deep copy of the set. Stored entities share component
// pointers between world versions, so anything handed to callers is cloned.
func (s Set) Clone() Set {
	out := Set{Scripts: s.Scripts.Clone()}
	if s.Identity != nil {
		v := *s.Identity
		out.Identity = &v
	}
	if s.Room != nil {
		v := *s.Room
		v.MapPosition = clonePoint(s.Room.MapPosition)
		out.Room = &v
	}
	if s.Container != nil {
		v := *s.Container
		v.Contents = slices.Clone(s.Container.Contents)
		out.Container = &v
	}
	if s.Position != nil {
		v := *s.Position
		v.Coords = clonePoint(s.Position.Coords)
		out.Position = &v
	}
	if s.Portable != nil {
		v := *s.Portable
		out.Portable = &v
	}
	if s.Prop != nil {
		v := *s.Prop
		out.Prop = &v
	}
	if s.Stats != nil {
		v := *s.Stats
		out.Stats = &v
	}
	if s.Exit != nil {
		v := *s.Exit
		out.Exit = &v
	}
	return out
}

func (sc Scripts) Clone() Scripts {
	if sc == nil {
		return nil
	}
	out := make(Scripts, len(sc))
	for trigger, list := range sc {
		copied := make([]Script, len(list))
		for i, s := range list {
			copied[i] = Script{
				Conditions: slices.Clone(s.Conditions),
				Effects:    slices.Clone(s.Effects),
			}
		}
		out[trigger] = copied
	}
	return out
}

func clonePoint(p *Point) *Point {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
