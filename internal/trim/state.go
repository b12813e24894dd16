// Package trim video zaman durumunu ve trim aralığı geçişlerini yönetir.
//
// State tek bir düzenleme oturumuna aittir; her metot atomik bir geçiştir ve
// geçişten sonra 0 <= TrimStart < TrimEnd <= Duration değişmezi korunur
// (Duration >= FineGap olduğu sürece).
package trim

import (
	"math"

	"github.com/mlihgenel/videotrim-cli/internal/timeutil"
)

const (
	// CoarseGap mutlak aralık ayarlarında kullanılan en küçük fark.
	CoarseGap = 0.1
	// FineGap canlı sürükleme sırasında kullanılan en küçük fark.
	FineGap = 0.001
)

// Handle sürüklenen trim tutamacını belirtir.
type Handle int

const (
	HandleNone Handle = iota
	HandleStart
	HandleEnd
)

func (h Handle) String() string {
	switch h {
	case HandleStart:
		return "start"
	case HandleEnd:
		return "end"
	default:
		return "none"
	}
}

// DragState aktif sürüklemeyi tutar. Handle == HandleNone ise sürükleme yoktur.
type DragState struct {
	Handle      Handle
	InitialTime float64
}

// Active sürüklemenin devam edip etmediğini döner.
func (d DragState) Active() bool {
	return d.Handle != HandleNone
}

// State video zaman durumudur. Sıfır değeri "henüz yüklenmedi" anlamına gelir.
type State struct {
	Duration    float64
	CurrentTime float64
	TrimStart   float64
	TrimEnd     float64
	Loaded      bool
	Drag        DragState
}

// SetDuration süreyi ayarlar. TrimEnd yalnızca ilk kez (TrimEnd == 0) süreye eşitlenir.
func (s *State) SetDuration(d float64) {
	s.Duration = d
	if s.TrimEnd == 0 {
		s.TrimEnd = d
	}
	s.Loaded = true
}

// SetCurrentTime oynatma konumunu sınırlamadan atar; sınırlar decode yüzeyinin saatine aittir.
func (s *State) SetCurrentTime(t float64) {
	s.CurrentTime = t
}

// SetTrimRange aralığı kaba fark (CoarseGap) ile ayarlar. Başlangıç önce
// [0, Duration-CoarseGap] aralığına çekilir; CoarseGap'ten kısa videolarda fark süreye iner.
func (s *State) SetTrimRange(start, end float64) {
	gap := CoarseGap
	if s.Duration < gap {
		gap = s.Duration
	}
	upper := s.Duration - gap
	if upper < 0 {
		upper = 0
	}
	s.TrimStart = timeutil.Clamp(start, 0, upper)
	s.TrimEnd = math.Min(clampEnd(end, s.TrimStart+gap, s.Duration), s.Duration)
}

// SetTrimStart yalnızca başlangıcı ayarlar, bitişe CoarseGap kadar yaklaşabilir.
func (s *State) SetTrimStart(t float64) {
	upper := s.TrimEnd - CoarseGap
	if upper < 0 {
		upper = 0
	}
	s.TrimStart = timeutil.Clamp(t, 0, upper)
}

// SetTrimEnd yalnızca bitişi ayarlar, başlangıca CoarseGap kadar yaklaşabilir.
func (s *State) SetTrimEnd(t float64) {
	s.TrimEnd = clampEnd(t, s.TrimStart+CoarseGap, s.Duration)
}

// BeginDrag yeni bir sürükleme başlatır; aktif bir sürükleme varsa üzerine yazar.
func (s *State) BeginDrag(h Handle, initialTime float64) {
	s.Drag = DragState{Handle: h, InitialTime: initialTime}
}

// UpdateDrag başlangıç zamanına toplam farkı ekler, milisaniyeye yuvarlar ve
// sürüklenen tutamacı ince fark (FineGap) ile sınırlar.
// Sürükleme yoksa veya süre henüz bilinmiyorsa hiçbir şey yapmaz.
func (s *State) UpdateDrag(deltaTime float64) {
	if !s.Drag.Active() || s.Duration < FineGap {
		return
	}

	newTime := timeutil.RoundToMillis(s.Drag.InitialTime + deltaTime)
	switch s.Drag.Handle {
	case HandleStart:
		upper := s.TrimEnd - FineGap
		if upper < 0 {
			upper = 0
		}
		s.TrimStart = timeutil.Clamp(newTime, 0, upper)
	case HandleEnd:
		s.TrimEnd = clampEnd(newTime, s.TrimStart+FineGap, s.Duration)
	}
}

// EndDrag sürüklemeyi bitirir.
func (s *State) EndDrag() {
	s.Drag = DragState{}
}

// IsDragging aktif sürükleme olup olmadığını döner.
func (s *State) IsDragging() bool {
	return s.Drag.Active()
}

// Reset tüm alanları varsayılana döndürür (kaynak kaldırıldı veya değişti).
func (s *State) Reset() {
	*s = State{}
}

// Range mevcut trim aralığını döner.
func (s *State) Range() timeutil.Range {
	return timeutil.Range{Start: s.TrimStart, End: s.TrimEnd}
}

// Length seçili aralığın uzunluğunu döner.
func (s *State) Length() float64 {
	return s.TrimEnd - s.TrimStart
}

// clampEnd bitişi [lo, hi] aralığına sıkıştırır; lo > hi ise lo kazanır, böylece
// bitiş hiçbir zaman başlangıcın önüne geçmez.
func clampEnd(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
