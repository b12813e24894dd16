package timeline

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mlihgenel/videotrim-cli/internal/trim"
)

type recordingSeeker struct {
	seeks []float64
}

func (r *recordingSeeker) Seek(t float64) {
	r.seeks = append(r.seeks, t)
}

func newTestEngine(duration, start, end float64) (*Engine, *trim.State, *recordingSeeker) {
	st := &trim.State{}
	if duration > 0 {
		st.SetDuration(duration)
		st.SetTrimRange(start, end)
	}
	seeker := &recordingSeeker{}
	e := New(st, seeker, Geometry{X0: 2, Width: 100, Top: 5, Bottom: 7, TrimBarRow: 7})
	return e, st, seeker
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTimelineClickSeeksProportionally(t *testing.T) {
	e, _, seeker := newTestEngine(100, 20, 80)
	e.Click(52, 5)
	e.Click(2, 6)
	if diff := cmp.Diff([]float64{50, 0}, seeker.seeks); diff != "" {
		t.Fatalf("unexpected seeks (-want +got):\n%s", diff)
	}
}

func TestClickIgnoredWithoutDuration(t *testing.T) {
	e, _, seeker := newTestEngine(0, 0, 0)
	e.Click(50, 5)
	if len(seeker.seeks) != 0 {
		t.Fatalf("expected no seek before metadata, got %v", seeker.seeks)
	}
}

func TestClickOutsideTimelineIsIgnored(t *testing.T) {
	e, _, seeker := newTestEngine(100, 20, 80)
	e.Click(1, 5)
	e.Click(50, 9)
	if len(seeker.seeks) != 0 {
		t.Fatalf("expected no seek, got %v", seeker.seeks)
	}
}

func TestHitTestPrecedence(t *testing.T) {
	e, _, _ := newTestEngine(100, 20, 80)
	cases := []struct {
		px, py int
		want   Region
	}{
		{22, 7, RegionStartHandle},
		{23, 7, RegionStartHandle},
		{24, 7, RegionTrimBar},
		{82, 7, RegionEndHandle},
		{81, 7, RegionEndHandle},
		{50, 7, RegionTrimBar},
		{10, 7, RegionTimeline},
		{50, 5, RegionTimeline},
		{0, 7, RegionNone},
		{50, 8, RegionNone},
	}
	for _, tc := range cases {
		if got := e.HitTest(tc.px, tc.py); got != tc.want {
			t.Fatalf("HitTest(%d,%d) = %s, want %s", tc.px, tc.py, got, tc.want)
		}
	}
}

func TestOverlappingHandlesPreferPointerSide(t *testing.T) {
	e, st, _ := newTestEngine(100, 0, 100)
	st.TrimStart = 50
	st.TrimEnd = 50.1
	if got := e.HitTest(52, 7); got != RegionStartHandle {
		t.Fatalf("expected start handle on tie, got %s", got)
	}
	if got := e.HitTest(53, 7); got != RegionEndHandle {
		t.Fatalf("expected end handle right of cell, got %s", got)
	}
}

func TestTrimBarClickMapsIntoSubRange(t *testing.T) {
	e, _, seeker := newTestEngine(100, 20, 80)
	e.Click(52, 7)
	e.Click(37, 7)
	if len(seeker.seeks) != 2 || !almostEqual(seeker.seeks[0], 50) || !almostEqual(seeker.seeks[1], 35) {
		t.Fatalf("unexpected trim bar seeks: %v", seeker.seeks)
	}
	for _, s := range seeker.seeks {
		if s < 20 || s > 80 {
			t.Fatalf("trim bar seek %v escaped trim range", s)
		}
	}
}

func TestHandleClickDoesNotSeek(t *testing.T) {
	e, _, seeker := newTestEngine(100, 20, 80)
	e.Click(22, 7)
	if len(seeker.seeks) != 0 {
		t.Fatalf("handle click must not seek, got %v", seeker.seeks)
	}
}

func TestDragSessionIsDeltaBased(t *testing.T) {
	e, st, _ := newTestEngine(100, 20, 80)
	s := e.BeginDrag(trim.HandleStart, 22)
	if e.State() != DraggingStart {
		t.Fatalf("expected dragging-start, got %s", e.State())
	}

	s.Move(32)
	if !almostEqual(st.TrimStart, 30) {
		t.Fatalf("expected start 30, got %v", st.TrimStart)
	}
	s.Move(22)
	if !almostEqual(st.TrimStart, 20) {
		t.Fatalf("expected start back at 20, got %v", st.TrimStart)
	}
	s.Move(-500)
	if st.TrimStart != 0 {
		t.Fatalf("expected start clamped to 0, got %v", st.TrimStart)
	}
	s.Move(1000)
	if !almostEqual(st.TrimStart, 79.999) {
		t.Fatalf("expected start clamped below end, got %v", st.TrimStart)
	}
}

func TestDragEndClampsToDuration(t *testing.T) {
	e, st, _ := newTestEngine(100, 20, 80)
	s := e.BeginDrag(trim.HandleEnd, 82)
	s.Move(200)
	if st.TrimEnd != 100 {
		t.Fatalf("expected end at duration, got %v", st.TrimEnd)
	}
	s.Move(-200)
	if !almostEqual(st.TrimEnd, 20.001) {
		t.Fatalf("expected end clamped to start+fine gap, got %v", st.TrimEnd)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	e, st, _ := newTestEngine(100, 20, 80)
	s := e.BeginDrag(trim.HandleEnd, 82)
	s.Release()
	s.Release()
	if st.IsDragging() || e.Active() != nil || e.State() != Idle {
		t.Fatalf("expected idle after release")
	}

	s.Move(50)
	if st.TrimEnd != 80 {
		t.Fatalf("move after release must be ignored, got %v", st.TrimEnd)
	}
}

func TestBeginDragReleasesPreviousSession(t *testing.T) {
	e, st, _ := newTestEngine(100, 20, 80)
	first := e.BeginDrag(trim.HandleStart, 22)
	second := e.BeginDrag(trim.HandleEnd, 82)
	if !first.Released() || second.Released() {
		t.Fatalf("expected first released and second live")
	}
	if st.Drag.Handle != trim.HandleEnd {
		t.Fatalf("expected end drag, got %s", st.Drag.Handle)
	}

	first.Release()
	if !st.IsDragging() {
		t.Fatalf("stale release must not end the live drag")
	}
}

func TestCloseReleasesLiveSession(t *testing.T) {
	e, st, _ := newTestEngine(100, 20, 80)
	s := e.BeginDrag(trim.HandleStart, 22)
	e.Close()
	if !s.Released() || st.IsDragging() {
		t.Fatalf("expected close to release drag")
	}
}

func TestLayoutPercentages(t *testing.T) {
	e, st, _ := newTestEngine(200, 50, 150)
	st.SetCurrentTime(100)
	l := e.Layout(5)
	if l.Playhead != 50 || l.TrimStart != 25 || l.TrimEnd != 75 {
		t.Fatalf("unexpected layout: %+v", l)
	}
	want := []Slot{
		{PositionPercent: 0, WidthPercent: 20, LeftPercent: 0},
		{PositionPercent: 25, WidthPercent: 20, LeftPercent: 20},
		{PositionPercent: 50, WidthPercent: 20, LeftPercent: 40},
		{PositionPercent: 75, WidthPercent: 20, LeftPercent: 60},
		{PositionPercent: 100, WidthPercent: 20, LeftPercent: 80},
	}
	if diff := cmp.Diff(want, l.Thumbs); diff != "" {
		t.Fatalf("unexpected slots (-want +got):\n%s", diff)
	}

	single := e.Layout(1)
	if len(single.Thumbs) != 1 || single.Thumbs[0].PositionPercent != 0 || single.Thumbs[0].WidthPercent != 100 {
		t.Fatalf("unexpected single slot: %+v", single.Thumbs)
	}
}

func TestLayoutWithoutDurationIsZero(t *testing.T) {
	e, _, _ := newTestEngine(0, 0, 0)
	l := e.Layout(0)
	if l.Playhead != 0 || l.TrimStart != 0 || l.TrimEnd != 0 || l.Thumbs != nil {
		t.Fatalf("expected zero layout, got %+v", l)
	}
}

func TestCellClampsToWidth(t *testing.T) {
	e, _, _ := newTestEngine(100, 0, 100)
	if e.Cell(0) != 2 || e.Cell(100) != 101 || e.Cell(150) != 101 || e.Cell(-5) != 2 {
		t.Fatalf("unexpected cells: %d %d %d %d", e.Cell(0), e.Cell(100), e.Cell(150), e.Cell(-5))
	}
}
