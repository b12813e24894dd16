// Package watch düzenlenen kaynak video dosyasındaki değişiklikleri izler.
package watch

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// DefaultSettle dosyanın stabil sayılması için beklenen süredir.
const DefaultSettle = 1500 * time.Millisecond

// Engine izleme arka ucudur.
type Engine interface {
	Bootstrap() error
	Poll(now time.Time) (bool, error)
	Events() <-chan struct{}
	Close() error
	Mode() string
}

type fileState struct {
	Exists     bool
	Size       int64
	ModTime    time.Time
	LastChange time.Time
	Processed  bool
}

// Watcher tek bir dosyayı polling ile izler. Değişiklik, dosya SettleFor boyunca
// sabit kaldıktan sonra bir kez bildirilir.
type Watcher struct {
	Path      string
	SettleFor time.Duration

	state  fileState
	events chan struct{}
}

// NewWatcher yeni bir watcher oluşturur.
func NewWatcher(path string, settleFor time.Duration) *Watcher {
	if settleFor <= 0 {
		settleFor = DefaultSettle
	}
	return &Watcher{
		Path:      path,
		SettleFor: settleFor,
		events:    make(chan struct{}),
	}
}

// Bootstrap mevcut dosya durumunu "zaten işlenmiş" olarak kaydeder.
func (w *Watcher) Bootstrap() error {
	info, err := os.Stat(w.Path)
	if err != nil {
		return fmt.Errorf("izlenecek dosya okunamadı: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("izleme yolu dosya olmalıdır: %s", w.Path)
	}
	w.state = fileState{
		Exists:     true,
		Size:       info.Size(),
		ModTime:    info.ModTime(),
		LastChange: time.Now(),
		Processed:  true,
	}
	return nil
}

// Poll dosya değişip stabilize olduysa true döner. Silinen dosya değişiklik sayılmaz;
// yeniden oluşturulduğunda değişiklik olarak bildirilir.
func (w *Watcher) Poll(now time.Time) (bool, error) {
	info, err := os.Stat(w.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			w.state = fileState{LastChange: now}
			return false, nil
		}
		return false, err
	}

	if !w.state.Exists || w.state.Size != info.Size() || !w.state.ModTime.Equal(info.ModTime()) {
		w.state = fileState{
			Exists:     true,
			Size:       info.Size(),
			ModTime:    info.ModTime(),
			LastChange: now,
		}
		return false, nil
	}

	if !w.state.Processed && now.Sub(w.state.LastChange) >= w.SettleFor {
		w.state.Processed = true
		return true, nil
	}
	return false, nil
}

// Events polling modunda hiç sinyal üretmez.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

func (w *Watcher) Close() error { return nil }

func (w *Watcher) Mode() string { return "polling" }
