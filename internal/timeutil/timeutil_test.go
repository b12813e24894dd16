package timeutil

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTimeToPercentageZeroDuration(t *testing.T) {
	if got := TimeToPercentage(12, 0); got != 0 {
		t.Fatalf("expected 0 for zero duration, got %v", got)
	}
	if got := TimeToPercentage(12, math.NaN()); got != 0 {
		t.Fatalf("expected 0 for NaN duration, got %v", got)
	}
	if got := TimeToPercentage(150, 100); got != 150 {
		t.Fatalf("expected unclamped 150, got %v", got)
	}
}

func TestPercentageRoundTrip(t *testing.T) {
	durations := []float64{0.5, 1, 7.3, 60, 3600.25}
	percents := []float64{0, 0.1, 12.5, 50, 99.99, 100}
	for _, d := range durations {
		for _, p := range percents {
			got := TimeToPercentage(PercentageToTime(p, d), d)
			if math.Abs(got-p) > 1e-9 {
				t.Fatalf("round trip mismatch for d=%v p=%v: %v", d, p, got)
			}
		}
	}
	if got := TimeToPercentage(PercentageToTime(40, 0), 0); got != 0 {
		t.Fatalf("expected 0 for zero duration round trip, got %v", got)
	}
}

func TestValidateTrimRangeProperty(t *testing.T) {
	const eps = 1e-9
	durations := []float64{0.1, 0.35, 1, 10, 125.5}
	inputs := []float64{-50, -0.2, 0, 0.05, 3, 9.95, 10, 11, 500}
	for _, d := range durations {
		for _, s := range inputs {
			for _, e := range inputs {
				r := ValidateTrimRange(s, e, d, DefaultMinGap)
				if r.Start < 0 {
					t.Fatalf("start below zero: d=%v s=%v e=%v -> %+v", d, s, e, r)
				}
				if r.Start+DefaultMinGap > r.End+eps {
					t.Fatalf("gap violated: d=%v s=%v e=%v -> %+v", d, s, e, r)
				}
				if r.End > d+eps {
					t.Fatalf("end beyond duration: d=%v s=%v e=%v -> %+v", d, s, e, r)
				}
			}
		}
	}
}

func TestValidateTrimRangeResolvesStartFirst(t *testing.T) {
	r := ValidateTrimRange(9.99, 3, 10, 0.1)
	if math.Abs(r.Start-9.9) > 1e-9 {
		t.Fatalf("expected start clamped to 9.9, got %v", r.Start)
	}
	if math.Abs(r.End-10) > 1e-9 {
		t.Fatalf("expected end pushed to 10, got %v", r.End)
	}
}

func TestGenerateRulerMarksShortVideo(t *testing.T) {
	marks := GenerateRulerMarks(25, DefaultMaxMarks)
	var times []float64
	for _, m := range marks {
		times = append(times, m.Time)
	}
	want := []float64{0, 5, 10, 15, 20, 25}
	if diff := cmp.Diff(want, times); diff != "" {
		t.Fatalf("unexpected marks (-want +got):\n%s", diff)
	}
	if marks[5].PositionPercent != 100 || marks[5].Key != 5 {
		t.Fatalf("unexpected last mark: %+v", marks[5])
	}
}

func TestGenerateRulerMarksHourLongVideo(t *testing.T) {
	if got := RulerInterval(3600, DefaultMaxMarks); got != 480 {
		t.Fatalf("expected interval 480, got %v", got)
	}
	marks := GenerateRulerMarks(3600, DefaultMaxMarks)
	if len(marks) != 8 {
		t.Fatalf("expected 8 marks, got %d", len(marks))
	}
	last := marks[len(marks)-1]
	if last.Time != 3360 || last.Time > 3600 {
		t.Fatalf("unexpected last mark: %+v", last)
	}
}

func TestGenerateRulerMarksIsRestartable(t *testing.T) {
	first := GenerateRulerMarks(90, 4)
	second := GenerateRulerMarks(90, 4)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("expected identical results across calls:\n%s", diff)
	}
	if GenerateRulerMarks(0, DefaultMaxMarks) != nil {
		t.Fatalf("expected no marks for zero duration")
	}
}

func TestFormatTime(t *testing.T) {
	cases := map[float64]string{
		65:         "01:05",
		0:          "00:00",
		math.NaN(): "00:00",
		3599.9:     "59:59",
		3600:       "60:00",
	}
	for in, want := range cases {
		if got := FormatTime(in); got != want {
			t.Fatalf("FormatTime(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestFormatTimeWithMs(t *testing.T) {
	if got := FormatTimeWithMs(65.25); got != "01:05.250" {
		t.Fatalf("unexpected value: %s", got)
	}
	if got := FormatTimeWithMs(math.NaN()); got != "00:00.000" {
		t.Fatalf("unexpected NaN value: %s", got)
	}
	if got := FormatTimeWithMs(0.001); got != "00:00.001" {
		t.Fatalf("unexpected millisecond value: %s", got)
	}
}

func TestParseSeconds(t *testing.T) {
	sec, err := ParseSeconds("01:02:03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sec != 3723 {
		t.Fatalf("unexpected seconds value: %.2f", sec)
	}

	sec, err = ParseSeconds("5,5")
	if err != nil {
		t.Fatalf("unexpected error for comma decimal: %v", err)
	}
	if sec != 5.5 {
		t.Fatalf("unexpected comma conversion: %.2f", sec)
	}

	if _, err := ParseSeconds("00:70"); err == nil {
		t.Fatalf("expected error for invalid seconds part")
	}
	if _, err := ParseSeconds("-1"); err == nil {
		t.Fatalf("expected error for negative value")
	}
}

func TestFormatHuman(t *testing.T) {
	if got := FormatHuman(3723.5); got != "1h02m3.5s" {
		t.Fatalf("unexpected human value: %s", got)
	}
	if got := FormatHuman(42); got != "42s" {
		t.Fatalf("unexpected human value: %s", got)
	}
}
