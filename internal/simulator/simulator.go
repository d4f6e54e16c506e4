// Package simulator steps a simulated vehicle through a route's path on a
// fixed cadence.
package simulator

import (
	"context"
	"time"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/geo"
)

// DefaultInterval is the wall-clock cadence between position updates.
const DefaultInterval = 4 * time.Second

type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "RUNNING"
	}
	return "STOPPED"
}

// Tick is one timer firing. It carries the generation of the run that
// produced it so ticks from a cancelled run can be told apart.
type Tick struct {
	gen uint64
}

// TickerFunc starts a periodic timer and returns its channel and a stop func.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Simulator is a STOPPED/RUNNING state machine owned by a single event loop.
// It is not safe for concurrent use: Start, Stop and Advance must all be
// called from the owner's loop. The timer goroutine only posts ticks.
type Simulator struct {
	interval  time.Duration
	newTicker TickerFunc

	state   State
	routeID string
	path    []domain.LatLng
	index   int
	gen     uint64
	current *domain.LiveVehicleState

	stopTicker func()
	cancel     context.CancelFunc
}

func New(interval time.Duration) *Simulator {
	return NewWithTicker(interval, realTicker)
}

// NewWithTicker builds a simulator on a custom timer source.
func NewWithTicker(interval time.Duration, ticker TickerFunc) *Simulator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Simulator{interval: interval, newTicker: ticker}
}

func (s *Simulator) State() State { return s.state }
func (s *Simulator) RouteID() string { return s.routeID }
func (s *Simulator) Index() int { return s.index }

// Current returns the vehicle state. A fresh run reports index 0 until
// its first tick. ok is false while stopped or on an empty path.
func (s *Simulator) Current() (domain.LiveVehicleState, bool) {
	if s.state != Running || s.current == nil {
		return domain.LiveVehicleState{}, false
	}
	return *s.current, true
}

// Start moves to RUNNING on the given path, beginning at index 0.
// Any previous run is stopped first so two timers never drive the same
// vehicle. post hands a tick to the owner's loop and reports false once
// the loop is gone.
func (s *Simulator) Start(routeID string, path []domain.LatLng, post func(Tick) bool) {
	s.Stop()

	s.state = Running
	s.routeID = routeID
	s.path = append([]domain.LatLng(nil), path...)
	s.index = 0
	s.current = nil
	if len(s.path) > 0 {
		s.current = s.stateAt(0)
	}

	gen := s.gen
	ch, stop := s.newTicker(s.interval)
	ctx, cancel := context.WithCancel(context.Background())
	s.stopTicker = stop
	s.cancel = cancel

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
				if !post(Tick{gen: gen}) {
					return
				}
			}
		}
	}()
}

// Stop cancels the timer and destroys the live vehicle state.
// Ticks already in flight are invalidated. Safe to call when stopped.
func (s *Simulator) Stop() {
	if s.stopTicker != nil {
		s.stopTicker()
		s.stopTicker = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.state = Stopped
	s.routeID = ""
	s.path = nil
	s.index = 0
	s.current = nil
}

// Advance applies one tick. It reports false when the tick belongs to a
// cancelled run or the path is empty, in which case nothing is emitted.
func (s *Simulator) Advance(t Tick) (domain.LiveVehicleState, bool) {
	if t.gen != s.gen || s.state != Running {
		return domain.LiveVehicleState{}, false
	}
	return s.step()
}

// Step applies a tick of the current run, as if the timer had fired.
func (s *Simulator) Step() (domain.LiveVehicleState, bool) {
	return s.Advance(Tick{gen: s.gen})
}

func (s *Simulator) step() (domain.LiveVehicleState, bool) {
	n := len(s.path)
	if n == 0 {
		return domain.LiveVehicleState{}, false
	}

	s.index = geo.Wrap(s.index+1, n)
	s.current = s.stateAt(s.index)
	return *s.current, true
}

func (s *Simulator) stateAt(i int) *domain.LiveVehicleState {
	pos := s.path[i]
	next := s.path[geo.Wrap(i+1, len(s.path))]
	return &domain.LiveVehicleState{
		RouteID:       s.routeID,
		PositionIndex: i,
		Position:      pos,
		NextPosition:  next,
		Bearing:       geo.Bearing(pos, next),
	}
}
