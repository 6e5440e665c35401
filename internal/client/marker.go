package client

import "github.com/ikkim/mapaddress-backend/internal/app/model"

// Map is the surface the session draws on.
type Map interface {
	Center(p model.Coordinates)
	NewMarker(p model.Coordinates) Marker
}

type Marker interface {
	Remove()
}

// MarkerSlot owns at most one marker. The previous marker is always removed
// before a new one is created.
type MarkerSlot struct {
	m       Map
	current Marker
}

func NewMarkerSlot(m Map) *MarkerSlot {
	return &MarkerSlot{m: m}
}

func (s *MarkerSlot) Place(p model.Coordinates) {
	s.Release()
	s.current = s.m.NewMarker(p)
}

// Release removes the current marker, if any. Safe to call repeatedly.
func (s *MarkerSlot) Release() {
	if s.current == nil {
		return
	}
	s.current.Remove()
	s.current = nil
}

func (s *MarkerSlot) Occupied() bool {
	return s.current != nil
}
