package media

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"
)

// DefaultTickInterval oynatma sırasında timeupdate olaylarının aralığıdır.
const DefaultTickInterval = 250 * time.Millisecond

// fallbackFPS kare hızı okunamayan kaynaklarda son karenin konumu için kullanılır.
const fallbackFPS = 25.0

// FFmpegSurface ffprobe ile metadata okuyan, oynatmayı duvar saatiyle ilerleten
// başsız (headless) bir decode yüzeyidir. Offscreen modunda her seek'te ffmpeg ile
// tek kare çözülür ve Frame ile okunabilir.
type FFmpegSurface struct {
	offscreen bool
	tick      time.Duration
	probe     func(ctx context.Context, source string) (ProbeInfo, error)
	grab      func(ctx context.Context, source string, at float64) (image.Image, error)

	mu        sync.Mutex
	source    string
	duration  float64
	fps       float64
	current   float64
	ready     bool
	playing   bool
	frame     image.Image
	frameErr  error
	loadSeq   int
	stopPlay  chan struct{}
	events    chan Event
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	// emitMu kapanmış kanala gönderimi engeller.
	emitMu sync.RWMutex
	closed bool
}

// SurfaceOption yüzeyin ffprobe/ffmpeg çağrılarını değiştirir.
type SurfaceOption func(*FFmpegSurface)

// WithProbe metadata okuyucusunu değiştirir.
func WithProbe(fn func(ctx context.Context, source string) (ProbeInfo, error)) SurfaceOption {
	return func(s *FFmpegSurface) { s.probe = fn }
}

// WithGrab kare çözücüyü değiştirir.
func WithGrab(fn func(ctx context.Context, source string, at float64) (image.Image, error)) SurfaceOption {
	return func(s *FFmpegSurface) { s.grab = fn }
}

// NewFFmpegSurface görünür oynatma için yüzey oluşturur.
func NewFFmpegSurface(opts ...SurfaceOption) *FFmpegSurface {
	return newFFmpegSurface(false, opts...)
}

// NewOffscreenSurface kare yakalama için ayrı bir yüzey oluşturur.
func NewOffscreenSurface(opts ...SurfaceOption) *FFmpegSurface {
	return newFFmpegSurface(true, opts...)
}

func newFFmpegSurface(offscreen bool, opts ...SurfaceOption) *FFmpegSurface {
	ctx, cancel := context.WithCancel(context.Background())
	s := &FFmpegSurface{
		offscreen: offscreen,
		tick:      DefaultTickInterval,
		probe:     Probe,
		grab:      GrabFrame,
		events:    make(chan Event, 64),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FFmpegSurface) emit(ev Event) {
	s.emitMu.RLock()
	defer s.emitMu.RUnlock()
	if s.closed {
		return
	}
	select {
	case <-s.ctx.Done():
	case s.events <- ev:
	}
}

// Load kaynağı açar: önce loadstart, ardından loadedmetadata ya da error yayar.
func (s *FFmpegSurface) Load(source string) {
	s.mu.Lock()
	s.stopPlaybackLocked()
	s.loadSeq++
	seq := s.loadSeq
	s.source = source
	s.duration = 0
	s.fps = 0
	s.current = 0
	s.ready = false
	s.frame = nil
	s.frameErr = nil
	s.mu.Unlock()

	go func() {
		s.emit(Event{Type: EventLoadStart})
		info, err := s.probe(s.ctx, source)

		s.mu.Lock()
		if seq != s.loadSeq {
			s.mu.Unlock()
			return
		}
		if err != nil {
			s.mu.Unlock()
			s.emit(Event{Type: EventError, Err: &LoadError{Source: source, Err: err}})
			return
		}
		s.duration = info.Duration
		s.fps = info.FPS
		s.ready = true
		s.mu.Unlock()

		s.emit(Event{Type: EventLoadedMetadata, Duration: info.Duration})
	}()
}

// CurrentTime yüzeyin saatini döner.
func (s *FFmpegSurface) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Duration metadata'dan okunan süreyi döner.
func (s *FFmpegSurface) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

// Ready metadata'nın yüklenip yüklenmediğini döner.
func (s *FFmpegSurface) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Seek saati t'ye taşır ve seeked yayar. Offscreen modunda önce kare çözülür;
// ffmpeg süre noktasında kare üretmediği için çözüm son karenin başına çekilir.
func (s *FFmpegSurface) Seek(t float64) {
	s.mu.Lock()
	if t < 0 {
		t = 0
	}
	if s.duration > 0 && t > s.duration {
		t = s.duration
	}
	s.current = t
	source := s.source
	seq := s.loadSeq
	offscreen := s.offscreen
	decodeAt := lastFrameClamp(t, s.duration, s.fps)
	s.mu.Unlock()

	go func() {
		if offscreen {
			img, err := s.grab(s.ctx, source, decodeAt)
			s.mu.Lock()
			if seq == s.loadSeq {
				s.frame = img
				s.frameErr = err
			}
			s.mu.Unlock()
		}
		s.emit(Event{Type: EventSeeked, Time: t})
	}()
}

// lastFrameClamp çözüm konumunu [0, duration-1/fps] aralığına çeker.
func lastFrameClamp(t, duration, fps float64) float64 {
	if duration <= 0 {
		return t
	}
	if fps <= 0 {
		fps = fallbackFPS
	}
	last := duration - 1/fps
	if last < 0 {
		last = 0
	}
	if t > last {
		return last
	}
	return t
}

// Frame son seek'te çözülen kareyi döner.
func (s *FFmpegSurface) Frame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.offscreen {
		return nil, fmt.Errorf("kare yakalama yalnızca offscreen yüzeyde desteklenir")
	}
	if s.frameErr != nil {
		return nil, s.frameErr
	}
	if s.frame == nil {
		return nil, fmt.Errorf("henüz kare çözülmedi")
	}
	return s.frame, nil
}

// Play saati ilerletmeye başlar. Metadata yoksa hata döner.
func (s *FFmpegSurface) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return fmt.Errorf("video henüz hazır değil")
	}
	if s.playing {
		return nil
	}
	if s.current >= s.duration {
		s.current = 0
	}
	s.playing = true
	stop := make(chan struct{})
	s.stopPlay = stop
	go s.run(stop)
	return nil
}

func (s *FFmpegSurface) run(stop chan struct{}) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			if !s.playing || s.stopPlay != stop {
				s.mu.Unlock()
				return
			}
			s.current += now.Sub(last).Seconds()
			last = now
			ended := s.current >= s.duration
			if ended {
				s.current = s.duration
				s.playing = false
				s.stopPlay = nil
			}
			t := s.current
			s.mu.Unlock()

			s.emit(Event{Type: EventTimeUpdate, Time: t})
			if ended {
				s.emit(Event{Type: EventEnded, Time: t})
				return
			}
		}
	}
}

// Pause saati durdurur.
func (s *FFmpegSurface) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPlaybackLocked()
}

func (s *FFmpegSurface) stopPlaybackLocked() {
	s.playing = false
	if s.stopPlay != nil {
		close(s.stopPlay)
		s.stopPlay = nil
	}
}

// Events olay kanalını döner.
func (s *FFmpegSurface) Events() <-chan Event {
	return s.events
}

// Close oynatmayı durdurur, arka plan işlerini iptal eder ve olay kanalını kapatır.
func (s *FFmpegSurface) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.stopPlaybackLocked()
		s.mu.Unlock()
		s.cancel()

		s.emitMu.Lock()
		s.closed = true
		close(s.events)
		s.emitMu.Unlock()
	})
	return nil
}
