package timeutil

// DefaultMaxMarks bir cetvelde gösterilecek en fazla işaret sayısı.
const DefaultMaxMarks = 10

// RulerMark zaman cetvelindeki tek bir işarettir.
type RulerMark struct {
	Time            float64
	PositionPercent float64
	Key             int
}

// RulerInterval süreye göre işaret aralığını seçer.
// Aralık, işaret sayısı maxMarks'ı geçmeyene kadar ikiye katlanır.
func RulerInterval(duration float64, maxMarks int) float64 {
	if maxMarks <= 0 {
		maxMarks = DefaultMaxMarks
	}

	var interval float64
	switch {
	case duration <= 30:
		interval = 5
	case duration <= 120:
		interval = 10
	case duration <= 600:
		interval = 30
	default:
		interval = 60
	}

	for duration/interval > float64(maxMarks) {
		interval *= 2
	}
	return interval
}

// GenerateRulerMarks 0, interval, 2*interval ... şeklinde süreyi aşmayan işaretleri üretir.
// Her çağrıda yeniden hesaplanır.
func GenerateRulerMarks(duration float64, maxMarks int) []RulerMark {
	if !(duration > 0) {
		return nil
	}

	interval := RulerInterval(duration, maxMarks)
	var marks []RulerMark
	for i := 0; ; i++ {
		t := float64(i) * interval
		if t > duration {
			break
		}
		marks = append(marks, RulerMark{
			Time:            t,
			PositionPercent: TimeToPercentage(t, duration),
			Key:             i,
		})
	}
	return marks
}
