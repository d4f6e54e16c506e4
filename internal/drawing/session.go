// Package drawing implements the route-authoring state machine: an
// ordered, index-addressed waypoint list edited until committed or
// discarded.
package drawing

import (
	"errors"
	"fmt"
	"strings"
	"transit-map-service/internal/domain"
)

var (
	ErrInactive        = errors.New("drawing session is not active")
	ErrCommitInFlight  = errors.New("drawing session is committing")
	ErrIndexOutOfRange = errors.New("waypoint index out of range")
	ErrStale           = errors.New("response belongs to a previous drawing session")
	ErrCommitRejected  = errors.New("commit needs a name and at least 2 points")
)

type Mode int

const (
	Inactive Mode = iota
	Active
	Committing
)

func (m Mode) String() string {
	switch m {
	case Active:
		return "ACTIVE"
	case Committing:
		return "COMMITTING"
	default:
		return "INACTIVE"
	}
}

// Draft is the frozen content handed to the commit pipeline.
type Draft struct {
	Generation    uint64
	TargetRouteID string
	Name          string
	Schedule      string
	ItineraryText string
	Waypoints     []domain.Waypoint
}

// Session is single-writer: its owner serializes every call.
//
// Each Start or Discard bumps the generation. Asynchronous work started
// against the session (address lookups, commits) records the generation
// it saw and presents it back; a mismatch means the session it belonged
// to is gone and the response is dropped.
type Session struct {
	mode          Mode
	targetRouteID string
	points        []domain.Waypoint
	gen           uint64
}

func NewSession() *Session { return &Session{} }

func (s *Session) Mode() Mode { return s.mode }

// Drawing reports whether the map is in drawing mode, which includes
// the time a commit is in flight.
func (s *Session) Drawing() bool { return s.mode != Inactive }

func (s *Session) Generation() uint64 { return s.gen }

// TargetRouteID is empty when the session creates a new route.
func (s *Session) TargetRouteID() string { return s.targetRouteID }

// Points returns a copy of the current waypoint list.
func (s *Session) Points() []domain.Waypoint {
	return domain.CloneWaypoints(s.points)
}

// Start opens a session. With a nil target it creates a new route;
// otherwise the target's waypoints are pre-loaded for editing.
// Starting over an open session replaces it.
func (s *Session) Start(target *domain.Route) {
	s.gen++
	s.mode = Active
	s.targetRouteID = ""
	s.points = []domain.Waypoint{}
	if target != nil {
		s.targetRouteID = target.ID
		s.points = domain.CloneWaypoints(target.Waypoints)
	}
}

// Discard closes the session without touching any route.
func (s *Session) Discard() {
	s.gen++
	s.mode = Inactive
	s.targetRouteID = ""
	s.points = nil
}

func (s *Session) checkEditable() error {
	switch s.mode {
	case Active:
		return nil
	case Committing:
		return ErrCommitInFlight
	default:
		return ErrInactive
	}
}

func (s *Session) checkIndex(i int) error {
	if i < 0 || i >= len(s.points) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(s.points))
	}
	return nil
}

// AppendPoint adds a plain waypoint from a raw map click.
func (s *Session) AppendPoint(lat, lng float64) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	s.points = append(s.points, domain.Waypoint{LatLng: domain.LatLng{Lat: lat, Lng: lng}})
	return nil
}

// AppendFromAddressResult adds a stop at a resolved address. gen is the
// generation observed when the lookup was issued.
func (s *Session) AppendFromAddressResult(gen uint64, location domain.LatLng) error {
	if gen != s.gen {
		return ErrStale
	}
	if err := s.checkEditable(); err != nil {
		return err
	}
	s.points = append(s.points, domain.Waypoint{LatLng: location, IsStop: true})
	return nil
}

func (s *Session) ToggleStop(i int) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.points[i].IsStop = !s.points[i].IsStop
	return nil
}

// RenameStop sets the stop label regardless of the stop flag.
func (s *Session) RenameStop(i int, name string) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.points[i].StopName = name
	return nil
}

func (s *Session) RemovePoint(i int) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.points = append(s.points[:i], s.points[i+1:]...)
	return nil
}

// MovePoint replaces the coordinates at i and keeps its stop data.
func (s *Session) MovePoint(i int, lat, lng float64) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.points[i].LatLng = domain.LatLng{Lat: lat, Lng: lng}
	return nil
}

// PointEdit bundles the changes EditPoint applies to one waypoint.
// Nil fields are left alone.
type PointEdit struct {
	MoveTo     *domain.LatLng
	StopName   *string
	ToggleStop bool
}

// EditPoint moves, renames and toggles the waypoint at i, in that order.
// Either every change is applied or none is.
func (s *Session) EditPoint(i int, edit PointEdit) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	if err := s.checkIndex(i); err != nil {
		return err
	}
	p := &s.points[i]
	if edit.MoveTo != nil {
		p.LatLng = *edit.MoveTo
	}
	if edit.StopName != nil {
		p.StopName = *edit.StopName
	}
	if edit.ToggleStop {
		p.IsStop = !p.IsStop
	}
	return nil
}

// BeginCommit freezes the session for the commit pipeline.
// A rejected commit leaves the session untouched.
func (s *Session) BeginCommit(name, schedule, itinerary string) (Draft, error) {
	if err := s.checkEditable(); err != nil {
		return Draft{}, err
	}
	if len(s.points) < 2 || strings.TrimSpace(name) == "" {
		return Draft{}, ErrCommitRejected
	}

	s.mode = Committing
	return Draft{
		Generation:    s.gen,
		TargetRouteID: s.targetRouteID,
		Name:          strings.TrimSpace(name),
		Schedule:      schedule,
		ItineraryText: itinerary,
		Waypoints:     domain.CloneWaypoints(s.points),
	}, nil
}

// FinishCommit consumes the session once the route was stored.
func (s *Session) FinishCommit(gen uint64) error {
	if gen != s.gen || s.mode != Committing {
		return ErrStale
	}
	s.gen++
	s.mode = Inactive
	s.targetRouteID = ""
	s.points = nil
	return nil
}

// AbortCommit reopens the session for editing when storing the route failed.
func (s *Session) AbortCommit(gen uint64) error {
	if gen != s.gen || s.mode != Committing {
		return ErrStale
	}
	s.mode = Active
	return nil
}
