package media

import (
	"fmt"
	"image"
)

// EventType decode yüzeyinin yaşam döngüsü olaylarıdır.
type EventType int

const (
	EventLoadStart EventType = iota
	EventLoadedMetadata
	EventTimeUpdate
	EventEnded
	EventError
	EventSeeked
)

func (e EventType) String() string {
	switch e {
	case EventLoadStart:
		return "loadstart"
	case EventLoadedMetadata:
		return "loadedmetadata"
	case EventTimeUpdate:
		return "timeupdate"
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	case EventSeeked:
		return "seeked"
	default:
		return "unknown"
	}
}

// Event yüzeyden yayılan tek bir olaydır.
// Time olay anındaki oynatma konumudur; Err yalnızca EventError için doludur.
type Event struct {
	Type     EventType
	Time     float64
	Duration float64
	Err      error
}

// Surface opak decode/oynatma yüzeyi sözleşmesidir.
// Olaylar Events kanalından tek bir döngü tarafından tüketilmelidir.
type Surface interface {
	Load(source string)
	CurrentTime() float64
	Seek(t float64)
	Duration() float64
	// Ready metadata yüklendiyse true döner.
	Ready() bool
	Play() error
	Pause()
	Events() <-chan Event
	Close() error
}

// OffscreenSurface görünür oynatmayı bozmadan kare yakalamak için kullanılan ayrı yüzeydir.
type OffscreenSurface interface {
	Surface
	// Frame mevcut konumdaki kareyi döner.
	Frame() (image.Image, error)
}

// LoadError yüzeyin kaynağı açamadığını bildirir.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("video yüklenemedi (%s): %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
