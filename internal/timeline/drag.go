package timeline

import "github.com/mlihgenel/videotrim-cli/internal/trim"

// DragSession tek bir tutamaç sürüklemesidir. Bırakma idempotenttir; bırakılmış
// oturuma gelen Move çağrıları yok sayılır.
type DragSession struct {
	engine      *Engine
	handle      trim.Handle
	initialTime float64
	originX     int
	width       int
	released    bool
}

// Handle sürüklenen tutamacı döner.
func (s *DragSession) Handle() trim.Handle {
	return s.handle
}

// Released oturumun bırakılıp bırakılmadığını döner.
func (s *DragSession) Released() bool {
	return s.released
}

// Move imlecin başlangıç noktasına göre yatay farkını zamana çevirip duruma uygular.
func (s *DragSession) Move(px int) {
	if s == nil || s.released || s.width <= 0 {
		return
	}
	state := s.engine.state
	deltaX := float64(px - s.originX)
	deltaPct := deltaX / float64(s.width) * 100
	deltaTime := deltaPct / 100 * state.Duration
	state.UpdateDrag(deltaTime)
}

// Release sürüklemeyi bitirir ve oturumu motordan ayırır.
func (s *DragSession) Release() {
	if s == nil || s.released {
		return
	}
	s.released = true
	e := s.engine
	if e.active == s {
		e.active = nil
		if e.state.Drag.Handle == s.handle {
			e.state.EndDrag()
		}
	}
}
