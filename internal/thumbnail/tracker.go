package thumbnail

import "sync"

// Token bir üretim isteğini tanımlar. Yalnızca en son verilen token sonuç yayımlayabilir.
type Token uint64

// Tracker önizleme listesini tutar ve eski üretimlerin sonuçlarını reddeder.
type Tracker struct {
	mu         sync.Mutex
	generation Token
	inflight   bool
	thumbs     []Thumbnail
}

// Begin yeni bir üretim başlatır; önceki tüm tokenlar geçersiz olur.
func (t *Tracker) Begin() Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	t.inflight = true
	return t.generation
}

// Publish sonucu yalnızca token güncelse kabul eder ve listeyi bütünüyle değiştirir.
func (t *Tracker) Publish(token Token, thumbs []Thumbnail) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if token != t.generation {
		return false
	}
	t.thumbs = thumbs
	t.inflight = false
	return true
}

// Invalidate devam eden üretimi geçersiz kılar ve listeyi temizler (kaynak kaldırıldı).
func (t *Tracker) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	t.inflight = false
	t.thumbs = nil
}

// Current yayımlanmış son listeyi döner.
func (t *Tracker) Current() []Thumbnail {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.thumbs
}

// Generating üretim sürüyorsa true döner.
func (t *Tracker) Generating() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inflight
}
