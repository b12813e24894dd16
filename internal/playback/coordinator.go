// Package playback trim durumunu decode yüzeyine bağlar: seek, oynat/duraklat ve
// trim aralığıyla sınırlı önizleme.
package playback

import (
	"github.com/rs/zerolog"

	"github.com/mlihgenel/videotrim-cli/internal/media"
	"github.com/mlihgenel/videotrim-cli/internal/trim"
)

// PreviewEpsilon önizlemenin trim bitişinden ne kadar önce duracağıdır.
const PreviewEpsilon = trim.FineGap

// ViewState düzenleyicinin görünüm bayraklarıdır.
type ViewState struct {
	IsPlaying   bool
	Loading     bool
	PreviewMode bool
	Error       string
}

// SetLoading yükleme bayrağını ayarlar; yükleme başlarken eski hata temizlenir.
func (v *ViewState) SetLoading(loading bool) {
	v.Loading = loading
	if loading {
		v.Error = ""
	}
}

// SetError hatayı kaydeder ve yüklemeyi bitirir.
func (v *ViewState) SetError(msg string) {
	v.Error = msg
	v.Loading = false
}

// ClearError hatayı temizler.
func (v *ViewState) ClearError() {
	v.Error = ""
}

// Coordinator görünür decode yüzeyinin tek sahibidir.
type Coordinator struct {
	surface media.Surface
	state   *trim.State
	view    *ViewState
	log     zerolog.Logger

	pendingSeek *float64
	autoStop    bool
}

// New yeni bir koordinatör oluşturur.
func New(surface media.Surface, state *trim.State, view *ViewState, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		surface: surface,
		state:   state,
		view:    view,
		log:     logger.With().Str("component", "playback").Logger(),
	}
}

// Surface görünür yüzeyi döner.
func (c *Coordinator) Surface() media.Surface {
	return c.surface
}

// Load yeni kaynağı yüzeye yükler; bekleyen seek ve önizleme temizlenir.
func (c *Coordinator) Load(source string) {
	c.pendingSeek = nil
	c.autoStop = false
	c.view.PreviewMode = false
	c.view.IsPlaying = false
	c.surface.Load(source)
}

// TogglePlay oynatma durumunu tersine çevirir.
func (c *Coordinator) TogglePlay() {
	if c.view.IsPlaying {
		c.Pause()
		return
	}
	c.Play()
}

// Play oynatmayı başlatır. Yüzey reddederse hata görünüm durumuna yazılır.
func (c *Coordinator) Play() {
	if err := c.surface.Play(); err != nil {
		c.log.Warn().Err(err).Msg("oynatma başlatılamadı")
		c.view.IsPlaying = false
		c.view.Error = err.Error()
		return
	}
	c.view.IsPlaying = true
}

// Pause oynatmayı durdurur.
func (c *Coordinator) Pause() {
	c.surface.Pause()
	c.view.IsPlaying = false
}

// Seek yüzeyi t'ye taşır. Metadata henüz yoksa seek ertelenir; yalnızca son istek saklanır.
func (c *Coordinator) Seek(t float64) {
	if !c.surface.Ready() {
		c.pendingSeek = &t
		return
	}
	c.surface.Seek(t)
	c.state.SetCurrentTime(t)
}

// PendingSeek ertelenmiş seek varsa zamanını döner.
func (c *Coordinator) PendingSeek() (float64, bool) {
	if c.pendingSeek == nil {
		return 0, false
	}
	return *c.pendingSeek, true
}

// EnterPreview trim başlangıcına gider, oynatır ve trim bitişinde otomatik durmayı kurar.
func (c *Coordinator) EnterPreview() {
	c.Seek(c.state.TrimStart)
	c.Play()
	if !c.view.IsPlaying {
		return
	}
	c.autoStop = true
	c.view.PreviewMode = true
}

// ExitPreview otomatik durmayı kaldırır; oynatmayı zorla durdurmaz.
func (c *Coordinator) ExitPreview() {
	c.autoStop = false
	c.view.PreviewMode = false
}

// Previewing önizlemenin kurulu olup olmadığını döner.
func (c *Coordinator) Previewing() bool {
	return c.autoStop
}

// HandleEvent tek bir yüzey olayını duruma uygular. Düzenleme döngüsünden çağrılır.
func (c *Coordinator) HandleEvent(ev media.Event) {
	switch ev.Type {
	case media.EventLoadStart:
		c.view.SetLoading(true)
	case media.EventLoadedMetadata:
		c.state.SetDuration(ev.Duration)
		c.view.SetLoading(false)
		if c.pendingSeek != nil {
			t := *c.pendingSeek
			c.pendingSeek = nil
			c.surface.Seek(t)
			c.state.SetCurrentTime(t)
		}
	case media.EventTimeUpdate:
		c.state.SetCurrentTime(ev.Time)
		if c.autoStop && ev.Time >= c.state.TrimEnd-PreviewEpsilon {
			c.surface.Pause()
			c.view.IsPlaying = false
			c.ExitPreview()
			c.log.Debug().Float64("at", ev.Time).Msg("önizleme trim bitişinde durdu")
		}
	case media.EventEnded:
		c.view.IsPlaying = false
		c.ExitPreview()
	case media.EventError:
		msg := "video yüklenemedi"
		if ev.Err != nil {
			msg = ev.Err.Error()
		}
		c.log.Error().Err(ev.Err).Msg("decode yüzeyi hatası")
		c.view.SetError(msg)
	case media.EventSeeked:
	}
}
