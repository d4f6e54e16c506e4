package drawing

import (
	"errors"
	"reflect"
	"testing"
	"transit-map-service/internal/domain"
)

func activeWithPoints(t *testing.T, pts ...domain.Waypoint) *Session {
	t.Helper()
	s := NewSession()
	s.Start(&domain.Route{ID: "route-1", Waypoints: pts})
	return s
}

func TestOperationsRejectedWhileInactive(t *testing.T) {
	s := NewSession()

	if err := s.AppendPoint(1, 2); !errors.Is(err, ErrInactive) {
		t.Errorf("AppendPoint err = %v, want ErrInactive", err)
	}
	if err := s.AppendFromAddressResult(s.Generation(), domain.LatLng{}); !errors.Is(err, ErrInactive) {
		t.Errorf("AppendFromAddressResult err = %v, want ErrInactive", err)
	}
	if err := s.ToggleStop(0); !errors.Is(err, ErrInactive) {
		t.Errorf("ToggleStop err = %v, want ErrInactive", err)
	}
	if _, err := s.BeginCommit("x", "", ""); !errors.Is(err, ErrInactive) {
		t.Errorf("BeginCommit err = %v, want ErrInactive", err)
	}
}

func TestStartEditPreloadsWaypoints(t *testing.T) {
	route := &domain.Route{
		ID: "route-1",
		Waypoints: []domain.Waypoint{
			{LatLng: domain.LatLng{Lat: 1, Lng: 1}, IsStop: true, StopName: "A"},
			{LatLng: domain.LatLng{Lat: 2, Lng: 2}},
		},
	}
	s := NewSession()
	s.Start(route)

	if s.Mode() != Active || s.TargetRouteID() != "route-1" {
		t.Fatalf("mode=%v target=%q", s.Mode(), s.TargetRouteID())
	}
	if !reflect.DeepEqual(s.Points(), route.Waypoints) {
		t.Fatalf("points = %+v, want %+v", s.Points(), route.Waypoints)
	}

	// Editing must not write through to the route.
	_ = s.MovePoint(0, 9, 9)
	if route.Waypoints[0].Lat != 1 {
		t.Fatal("session edit mutated the source route")
	}
}

func TestAppendAllowsDuplicates(t *testing.T) {
	s := NewSession()
	s.Start(nil)
	_ = s.AppendPoint(1, 1)
	_ = s.AppendPoint(1, 1)

	if got := len(s.Points()); got != 2 {
		t.Fatalf("len(points) = %d, want 2", got)
	}
	if s.Points()[0].IsStop {
		t.Fatal("map click produced a stop")
	}
}

func TestToggleAndRenameOutOfRange(t *testing.T) {
	s := activeWithPoints(t, domain.Waypoint{})

	if err := s.ToggleStop(1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("ToggleStop(1) err = %v, want ErrIndexOutOfRange", err)
	}
	if err := s.RenameStop(-1, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RenameStop(-1) err = %v, want ErrIndexOutOfRange", err)
	}
	if err := s.RemovePoint(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemovePoint(5) err = %v, want ErrIndexOutOfRange", err)
	}
	if err := s.MovePoint(1, 0, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("MovePoint(1) err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestRenameWithoutStopFlagIsPermitted(t *testing.T) {
	s := activeWithPoints(t, domain.Waypoint{})
	if err := s.RenameStop(0, "Praça"); err != nil {
		t.Fatalf("RenameStop: %v", err)
	}
	p := s.Points()[0]
	if p.IsStop || p.StopName != "Praça" {
		t.Fatalf("point = %+v", p)
	}
}

func TestRemovePreservesOrder(t *testing.T) {
	s := NewSession()
	s.Start(nil)
	for i := 0; i < 4; i++ {
		_ = s.AppendPoint(float64(i), 0)
	}
	if err := s.RemovePoint(1); err != nil {
		t.Fatalf("RemovePoint: %v", err)
	}

	var got []float64
	for _, p := range s.Points() {
		got = append(got, p.Lat)
	}
	if want := []float64{0, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("lats = %v, want %v", got, want)
	}
}

func TestMovePointPreservesIdentity(t *testing.T) {
	s := activeWithPoints(t,
		domain.Waypoint{LatLng: domain.LatLng{Lat: 1, Lng: 1}},
		domain.Waypoint{LatLng: domain.LatLng{Lat: 2, Lng: 2}, IsStop: true, StopName: "Terminal"},
		domain.Waypoint{LatLng: domain.LatLng{Lat: 3, Lng: 3}},
	)
	before := s.Points()

	if err := s.MovePoint(1, -5, -6); err != nil {
		t.Fatalf("MovePoint: %v", err)
	}
	after := s.Points()

	if after[1].Lat != -5 || after[1].Lng != -6 {
		t.Errorf("moved point coordinates = %+v", after[1].LatLng)
	}
	if !after[1].IsStop || after[1].StopName != "Terminal" {
		t.Errorf("moved point lost stop data: %+v", after[1])
	}
	if after[0] != before[0] || after[2] != before[2] {
		t.Errorf("neighbours changed: before=%+v after=%+v", before, after)
	}
}

func TestCommitGuardLeavesSessionUnchanged(t *testing.T) {
	s := NewSession()
	s.Start(nil)
	_ = s.AppendPoint(1, 1)
	gen := s.Generation()
	before := s.Points()

	if _, err := s.BeginCommit("Linha X", "", ""); !errors.Is(err, ErrCommitRejected) {
		t.Fatalf("one-point commit err = %v, want ErrCommitRejected", err)
	}
	_ = s.AppendPoint(2, 2)
	if _, err := s.BeginCommit("   ", "", ""); !errors.Is(err, ErrCommitRejected) {
		t.Fatalf("blank-name commit err = %v, want ErrCommitRejected", err)
	}

	if s.Mode() != Active || s.Generation() != gen {
		t.Fatalf("mode=%v gen=%d after rejected commits", s.Mode(), s.Generation())
	}
	if len(s.Points()) != len(before)+1 {
		t.Fatalf("points changed by rejected commit: %+v", s.Points())
	}
}

func TestCommitLocksEditsUntilFinished(t *testing.T) {
	s := NewSession()
	s.Start(nil)
	_ = s.AppendPoint(-23.59, -46.68)
	_ = s.AppendFromAddressResult(s.Generation(), domain.LatLng{Lat: -23.60, Lng: -46.685})

	draft, err := s.BeginCommit("Linha X", "07:00", "desc")
	if err != nil {
		t.Fatalf("BeginCommit: %v", err)
	}
	if len(draft.Waypoints) != 2 || !draft.Waypoints[1].IsStop {
		t.Fatalf("draft waypoints = %+v", draft.Waypoints)
	}

	if err := s.AppendPoint(0, 0); !errors.Is(err, ErrCommitInFlight) {
		t.Errorf("AppendPoint during commit err = %v, want ErrCommitInFlight", err)
	}
	if err := s.RemovePoint(0); !errors.Is(err, ErrCommitInFlight) {
		t.Errorf("RemovePoint during commit err = %v, want ErrCommitInFlight", err)
	}

	if err := s.FinishCommit(draft.Generation); err != nil {
		t.Fatalf("FinishCommit: %v", err)
	}
	if s.Mode() != Inactive || len(s.Points()) != 0 {
		t.Fatalf("mode=%v points=%d after commit", s.Mode(), len(s.Points()))
	}
}

func TestStaleResponsesAreDropped(t *testing.T) {
	s := NewSession()
	s.Start(nil)
	lookupGen := s.Generation()

	s.Discard()
	s.Start(nil)

	if err := s.AppendFromAddressResult(lookupGen, domain.LatLng{Lat: 1, Lng: 1}); !errors.Is(err, ErrStale) {
		t.Fatalf("stale address result err = %v, want ErrStale", err)
	}
	if len(s.Points()) != 0 {
		t.Fatal("stale address result was applied")
	}

	_ = s.AppendPoint(1, 1)
	_ = s.AppendPoint(2, 2)
	draft, _ := s.BeginCommit("x", "", "")
	s.Discard()
	if err := s.FinishCommit(draft.Generation); !errors.Is(err, ErrStale) {
		t.Fatalf("FinishCommit after discard err = %v, want ErrStale", err)
	}
}

func TestAbortCommitReopensSession(t *testing.T) {
	s := activeWithPoints(t, domain.Waypoint{}, domain.Waypoint{})
	draft, _ := s.BeginCommit("x", "", "")

	if err := s.AbortCommit(draft.Generation); err != nil {
		t.Fatalf("AbortCommit: %v", err)
	}
	if s.Mode() != Active || len(s.Points()) != 2 {
		t.Fatalf("mode=%v points=%d", s.Mode(), len(s.Points()))
	}
}

func TestEditPointAppliesAllOrNothing(t *testing.T) {
	orig := []domain.Waypoint{
		{LatLng: domain.LatLng{Lat: 1, Lng: 1}},
		{LatLng: domain.LatLng{Lat: 2, Lng: 2}, IsStop: true, StopName: "B"},
	}
	s := activeWithPoints(t, orig...)

	name := "Centro"
	to := domain.LatLng{Lat: 5, Lng: 5}
	edit := PointEdit{MoveTo: &to, StopName: &name, ToggleStop: true}

	if err := s.EditPoint(2, edit); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}
	if !reflect.DeepEqual(s.Points(), orig) {
		t.Fatalf("rejected edit changed points: %+v", s.Points())
	}

	if err := s.EditPoint(0, edit); err != nil {
		t.Fatalf("edit: %v", err)
	}
	want := domain.Waypoint{LatLng: to, IsStop: true, StopName: "Centro"}
	if got := s.Points()[0]; got != want {
		t.Fatalf("point 0 = %+v, want %+v", got, want)
	}

	if _, err := s.BeginCommit("Linha", "", ""); err != nil {
		t.Fatalf("begin commit: %v", err)
	}
	before := s.Points()
	if err := s.EditPoint(1, edit); !errors.Is(err, ErrCommitInFlight) {
		t.Fatalf("err = %v, want ErrCommitInFlight", err)
	}
	if !reflect.DeepEqual(s.Points(), before) {
		t.Fatalf("edit during commit changed points: %+v", s.Points())
	}
}
