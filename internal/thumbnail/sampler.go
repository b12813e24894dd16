// Package thumbnail videodan eşit aralıklı önizleme kareleri üretir.
package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mlihgenel/videotrim-cli/internal/media"
)

// DefaultCount varsayılan önizleme karesi sayısıdır.
const DefaultCount = 10

// DefaultEventTimeout tek bir yüzey olayı için beklenecek en uzun süredir.
const DefaultEventTimeout = 15 * time.Second

// Thumbnail tek bir önizleme karesidir.
type Thumbnail struct {
	Time            float64
	PositionPercent float64
	ImageData       []byte
}

// Error önizleme üretiminin başarısız olduğunu bildirir.
type Error struct {
	Op  string
	At  float64
	Err error
}

func (e *Error) Error() string {
	if e.Op == "load" {
		return fmt.Sprintf("önizleme kaynağı açılamadı: %v", e.Err)
	}
	return fmt.Sprintf("önizleme karesi üretilemedi (%s, %.3fs): %v", e.Op, e.At, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Sampler her üretim için ayrı bir offscreen yüzey açar; görünür oynatıcıya dokunmaz.
type Sampler struct {
	NewSurface   func() media.OffscreenSurface
	Width        int
	Height       int
	Quality      int
	EventTimeout time.Duration
	Logger       zerolog.Logger
}

// NewSampler ffmpeg tabanlı offscreen yüzey kullanan bir sampler döner.
func NewSampler(logger zerolog.Logger) *Sampler {
	return &Sampler{
		NewSurface: func() media.OffscreenSurface { return media.NewOffscreenSurface() },
		Width:      media.ThumbnailWidth,
		Height:     media.ThumbnailHeight,
		Quality:    media.ThumbnailQuality,
		Logger:     logger.With().Str("component", "thumbnail").Logger(),
	}
}

// SampleTime i. karenin zamanını döner: i/(count-1)*duration, count == 1 için 0.
func SampleTime(i, count int, duration float64) float64 {
	if count <= 1 {
		return 0
	}
	return float64(i) * duration / float64(count-1)
}

// Generate count adet kareyi sırayla üretir. Herhangi bir adım başarısız olursa
// kısmi sonuç dönmez: boş liste ve *Error döner.
func (s *Sampler) Generate(ctx context.Context, source string, duration float64, count int) ([]Thumbnail, error) {
	if source == "" || duration <= 0 || count <= 0 {
		return []Thumbnail{}, nil
	}

	thumbs, err := s.generate(ctx, source, duration, count)
	if err != nil {
		s.Logger.Warn().Err(err).Str("source", source).Int("count", count).Msg("önizleme kareleri üretilemedi")
		return []Thumbnail{}, err
	}
	s.Logger.Debug().Str("source", source).Int("count", len(thumbs)).Msg("önizleme kareleri hazır")
	return thumbs, nil
}

func (s *Sampler) generate(ctx context.Context, source string, duration float64, count int) ([]Thumbnail, error) {
	surface := s.NewSurface()
	defer surface.Close()

	surface.Load(source)
	if _, err := s.await(ctx, surface, media.EventLoadedMetadata); err != nil {
		return nil, &Error{Op: "load", Err: err}
	}

	width, height := s.Width, s.Height
	if width <= 0 || height <= 0 {
		width, height = media.ThumbnailWidth, media.ThumbnailHeight
	}

	out := make([]Thumbnail, 0, count)
	for i := 0; i < count; i++ {
		at := SampleTime(i, count, duration)
		surface.Seek(at)
		if _, err := s.await(ctx, surface, media.EventSeeked); err != nil {
			return nil, &Error{Op: "seek", At: at, Err: err}
		}

		frame, err := surface.Frame()
		if err != nil {
			return nil, &Error{Op: "frame", At: at, Err: err}
		}
		scaled, err := media.Rasterize(frame, width, height)
		if err != nil {
			return nil, &Error{Op: "rasterize", At: at, Err: err}
		}
		data, err := media.EncodeJPEG(scaled, s.Quality)
		if err != nil {
			return nil, &Error{Op: "encode", At: at, Err: err}
		}

		pos := 0.0
		if count > 1 {
			pos = float64(i) * 100 / float64(count-1)
		}
		out = append(out, Thumbnail{Time: at, PositionPercent: pos, ImageData: data})
	}
	return out, nil
}

// await istenen olay gelene kadar yüzey olaylarını tüketir.
func (s *Sampler) await(ctx context.Context, surface media.Surface, want media.EventType) (media.Event, error) {
	timeout := s.EventTimeout
	if timeout <= 0 {
		timeout = DefaultEventTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return media.Event{}, ctx.Err()
		case <-timer.C:
			return media.Event{}, fmt.Errorf("%s olayı %s içinde gelmedi", want, timeout)
		case ev, ok := <-surface.Events():
			if !ok {
				return media.Event{}, errors.New("yüzey kapandı")
			}
			if ev.Type == media.EventError {
				if ev.Err != nil {
					return ev, ev.Err
				}
				return ev, errors.New("bilinmeyen decode hatası")
			}
			if ev.Type == want {
				return ev, nil
			}
		}
	}
}
