// Package timeutil zaman ekseni için saf yardımcı fonksiyonları içerir:
// yüzde/zaman dönüşümü, sınırlama, trim aralığı doğrulama ve cetvel işaretleri.
package timeutil

import "math"

// DefaultMinGap mutlak aralık ayarlarında başlangıç ile bitiş arasındaki en küçük fark (saniye).
const DefaultMinGap = 0.1

// Range doğrulanmış bir [Start, End] aralığıdır (saniye).
type Range struct {
	Start float64
	End   float64
}

// Length aralığın uzunluğunu döner.
func (r Range) Length() float64 {
	return r.End - r.Start
}

// TimeToPercentage zamanı süreye göre yüzdeye çevirir.
// Süre sıfırsa 0 döner. Sonuç sınırlandırılmaz, çağıran taraf sınırlar.
func TimeToPercentage(t, duration float64) float64 {
	if duration == 0 || math.IsNaN(duration) {
		return 0
	}
	return (t / duration) * 100
}

// PercentageToTime yüzdeyi süreye göre zamana çevirir.
func PercentageToTime(pct, duration float64) float64 {
	return (pct / 100) * duration
}

// Clamp v değerini [lo, hi] aralığına sıkıştırır.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ValidateTrimRange önce başlangıcı [0, duration-minGap] aralığına,
// ardından bitişi çözülmüş başlangıca göre [start+minGap, duration] aralığına sıkıştırır.
// Süre kısaldığında önce bitiş sınırı bozulur, başlangıç korunur.
func ValidateTrimRange(start, end, duration, minGap float64) Range {
	s := Clamp(start, 0, duration-minGap)
	if s < 0 {
		s = 0
	}
	e := Clamp(end, s+minGap, duration)
	if e < s+minGap {
		e = s + minGap
	}
	return Range{Start: s, End: e}
}

// RoundToMillis değeri milisaniye hassasiyetine yuvarlar.
func RoundToMillis(v float64) float64 {
	return math.Round(v*1000) / 1000
}
