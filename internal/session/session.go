// Package session tek bir düzenleme oturumunun durumunu tutar ve bileşenleri bağlar:
// trim durumu, görünüm bayrakları, önizleme kareleri, oynatma, zaman çizelgesi,
// kalıcı proje kaydı ve dışa aktarma.
//
// Session'ın metotları tek bir düzenleme döngüsünden çağrılmalıdır. Uzun süren işler
// (önizleme üretimi, dışa aktarma) Request değerleriyle döngü dışına taşınır ve
// sonuçları yine döngüde uygulanır.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mlihgenel/videotrim-cli/internal/export"
	"github.com/mlihgenel/videotrim-cli/internal/media"
	"github.com/mlihgenel/videotrim-cli/internal/playback"
	"github.com/mlihgenel/videotrim-cli/internal/store"
	"github.com/mlihgenel/videotrim-cli/internal/thumbnail"
	"github.com/mlihgenel/videotrim-cli/internal/timeline"
	"github.com/mlihgenel/videotrim-cli/internal/timeutil"
	"github.com/mlihgenel/videotrim-cli/internal/trim"
	"github.com/mlihgenel/videotrim-cli/internal/watch"
)

// PersistTolerance kaydedilen değerden bu kadar (saniye) sapmayan değişiklikler yazılmaz.
const PersistTolerance = 0.01

// ViewState düzenleyicinin görünüm bayraklarıdır.
type ViewState = playback.ViewState

// Options oturum bağımlılıklarıdır.
type Options struct {
	Store      store.Store
	Surface    media.Surface
	Sampler    *thumbnail.Sampler
	NewEncoder func(originalName string) export.Encoder
	ThumbCount int
	CacheDir   string
	Geometry   timeline.Geometry
	Logger     zerolog.Logger
	Now        func() time.Time
}

// Session tek bir projenin düzenleme durumudur.
type Session struct {
	opts Options
	log  zerolog.Logger

	state    trim.State
	view     ViewState
	thumbs   thumbnail.Tracker
	player   *playback.Coordinator
	timeline *timeline.Engine
	watcher  watch.Engine

	project    store.ProjectRecord
	hasProject bool
	sourcePath string
	tempSource string
	saved      savedPosition
	dirty      bool
}

type savedPosition struct {
	trimStart   float64
	trimEnd     float64
	currentTime float64
}

// New yeni bir oturum oluşturur. Store nil ise bellek deposu kullanılır.
func New(opts Options) *Session {
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.ThumbCount <= 0 {
		opts.ThumbCount = thumbnail.DefaultCount
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CacheDir == "" {
		opts.CacheDir = os.TempDir()
	}

	s := &Session{
		opts: opts,
		log:  opts.Logger.With().Str("component", "session").Logger(),
	}
	s.player = playback.New(opts.Surface, &s.state, &s.view, opts.Logger)
	s.timeline = timeline.New(&s.state, s.player, opts.Geometry)
	return s
}

func (s *Session) State() *trim.State { return &s.state }
func (s *Session) View() *ViewState { return &s.view }
func (s *Session) Player() *playback.Coordinator { return s.player }
func (s *Session) Timeline() *timeline.Engine { return s.timeline }
func (s *Session) Tracker() *thumbnail.Tracker { return &s.thumbs }
func (s *Session) Thumbnails() []thumbnail.Thumbnail { return s.thumbs.Current() }
func (s *Session) SourcePath() string { return s.sourcePath }
func (s *Session) ThumbCount() int { return s.opts.ThumbCount }

// Project aktif proje kaydını döner.
func (s *Session) Project() (store.ProjectRecord, bool) {
	return s.project, s.hasProject
}

// Open yerel bir video dosyasını yeni proje olarak açar ve depoya aktarır.
// Depolama hataları yalnızca loglanır; düzenleme bellekte devam eder.
func (s *Session) Open(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &media.LoadError{Source: path, Err: err}
	}

	s.resetSource()

	now := s.opts.Now()
	original := filepath.Base(path)
	s.project = store.ProjectRecord{
		ID:           uuid.NewString(),
		Name:         strings.TrimSuffix(original, filepath.Ext(original)),
		OriginalName: original,
		CreatedAt:    now,
		LastModified: now,
	}
	s.hasProject = true
	s.sourcePath = path

	if err := s.opts.Store.StoreVideo(ctx, s.project.ID, data, original); err != nil {
		s.log.Warn().Err(err).Str("project", s.project.ID).Msg("video depoya yazılamadı, bellekte devam ediliyor")
	}
	if err := s.opts.Store.StoreProject(ctx, s.project); err != nil {
		s.log.Warn().Err(err).Str("project", s.project.ID).Msg("proje kaydı yazılamadı, bellekte devam ediliyor")
	}
	s.log.Info().Str("project", s.project.ID).Str("source", path).Msg("proje açıldı")

	s.player.Load(path)
	return nil
}

// Resume kayıtlı bir projeyi açar. Video içeriği önbellek dizinine çıkarılır ve
// kayıtlı trim aralığı ile oynatma konumu geri yüklenir.
func (s *Session) Resume(ctx context.Context, id string) error {
	rec, err := s.opts.Store.GetProject(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("proje bulunamadı: %s", id)
	}
	data, err := s.opts.Store.GetVideo(ctx, id)
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("projenin video içeriği bulunamadı: %s", id)
	}

	s.resetSource()

	cachePath := filepath.Join(s.opts.CacheDir, "videotrim-"+rec.ID+filepath.Ext(rec.OriginalName))
	if err := os.MkdirAll(s.opts.CacheDir, 0755); err != nil {
		return fmt.Errorf("önbellek dizini oluşturulamadı: %w", err)
	}
	if err := os.WriteFile(cachePath, data, 0644); err != nil {
		return fmt.Errorf("video önbelleğe yazılamadı: %w", err)
	}

	s.project = *rec
	s.hasProject = true
	s.sourcePath = cachePath
	s.tempSource = cachePath

	s.state.Duration = msToSeconds(rec.DurationMs)
	s.state.TrimStart = msToSeconds(rec.TrimStartMs)
	s.state.TrimEnd = msToSeconds(rec.TrimEndMs)
	s.state.CurrentTime = msToSeconds(rec.CurrentTimeMs)
	s.markSaved()
	s.log.Info().Str("project", rec.ID).Msg("proje geri yüklendi")

	s.player.Load(cachePath)
	s.player.Seek(s.state.CurrentTime)
	return nil
}

// HandleSurfaceEvent yüzey olayını uygular. Metadata geldiğinde true döner; çağıran
// önizleme karelerini yeniden üretmelidir.
func (s *Session) HandleSurfaceEvent(ev media.Event) bool {
	s.player.HandleEvent(ev)
	if ev.Type != media.EventLoadedMetadata {
		return false
	}

	// Kaynak değiştiyse kayıtlı aralık yeni süreye sığmayabilir.
	if s.state.TrimEnd > s.state.Duration || s.state.TrimStart >= s.state.TrimEnd {
		r := timeutil.ValidateTrimRange(s.state.TrimStart, s.state.TrimEnd, s.state.Duration, trim.CoarseGap)
		s.state.SetTrimRange(r.Start, r.End)
	}
	if s.hasProject {
		s.project.DurationMs = secondsToMs(s.state.Duration)
		s.project.IsLoaded = true
		s.dirty = true
	}
	return true
}

// Persist trim aralığı veya oynatma konumu son kayıttan PersistTolerance'tan fazla
// saptıysa proje kaydını günceller. Hata loglanır ve döner; görünüm durumu değişmez.
func (s *Session) Persist(ctx context.Context) error {
	if !s.hasProject {
		return nil
	}
	if !s.dirty && !s.positionChanged() {
		return nil
	}

	s.project.TrimStartMs = secondsToMs(s.state.TrimStart)
	s.project.TrimEndMs = secondsToMs(s.state.TrimEnd)
	s.project.CurrentTimeMs = secondsToMs(s.state.CurrentTime)
	s.project.LastModified = s.opts.Now()

	if err := s.opts.Store.StoreProject(ctx, s.project); err != nil {
		s.log.Warn().Err(err).Str("project", s.project.ID).Msg("proje durumu kaydedilemedi")
		return err
	}
	s.markSaved()
	s.dirty = false
	return nil
}

func (s *Session) positionChanged() bool {
	return math.Abs(s.saved.trimStart-s.state.TrimStart) > PersistTolerance ||
		math.Abs(s.saved.trimEnd-s.state.TrimEnd) > PersistTolerance ||
		math.Abs(s.saved.currentTime-s.state.CurrentTime) > PersistTolerance
}

func (s *Session) markSaved() {
	s.saved = savedPosition{
		trimStart:   s.state.TrimStart,
		trimEnd:     s.state.TrimEnd,
		currentTime: s.state.CurrentTime,
	}
}

// Watch kaynak dosyayı izlemeye başlar. İzleyici oturumla birlikte kapanır.
func (s *Session) Watch(settle time.Duration) (watch.Engine, error) {
	if s.sourcePath == "" {
		return nil, errors.New("izlenecek kaynak yok")
	}
	s.closeWatcher()

	w, err := watch.NewAdaptiveWatcher(s.sourcePath, settle)
	if err != nil {
		s.log.Debug().Err(err).Msg("fsnotify kullanılamıyor, polling ile devam ediliyor")
	}
	if err := w.Bootstrap(); err != nil {
		_ = w.Close()
		return nil, err
	}
	s.watcher = w
	return w, nil
}

// SourceChanged kaynak dosya diskte değiştiğinde yüzeyi yeniden yükler ve depodaki
// içeriği günceller. Trim aralığı korunur; yeni metadata geldiğinde doğrulanır.
func (s *Session) SourceChanged(ctx context.Context) {
	if s.sourcePath == "" {
		return
	}
	s.log.Info().Str("source", s.sourcePath).Msg("kaynak dosya değişti, yeniden yükleniyor")
	s.thumbs.Invalidate()
	if s.hasProject && s.tempSource == "" {
		if data, err := os.ReadFile(s.sourcePath); err == nil {
			if err := s.opts.Store.StoreVideo(ctx, s.project.ID, data, s.project.OriginalName); err != nil {
				s.log.Warn().Err(err).Msg("güncel video depoya yazılamadı")
			}
		}
	}
	s.player.Load(s.sourcePath)
}

// RemoveVideo aktif projeyi ve videosunu siler, oturumu boş duruma döndürür.
func (s *Session) RemoveVideo(ctx context.Context) {
	if s.hasProject {
		id := s.project.ID
		if err := s.opts.Store.DeleteVideo(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("project", id).Msg("video silinemedi")
		}
		if err := s.opts.Store.DeleteProject(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("project", id).Msg("proje silinemedi")
		}
	}
	s.resetSource()
}

// resetSource kaynağa bağlı tüm durumu temizler.
func (s *Session) resetSource() {
	s.timeline.Close()
	if s.view.IsPlaying {
		s.player.Pause()
	}
	s.player.ExitPreview()
	s.closeWatcher()
	s.thumbs.Invalidate()
	s.state.Reset()
	s.view = ViewState{}
	s.removeTempSource()
	s.project = store.ProjectRecord{}
	s.hasProject = false
	s.sourcePath = ""
	s.saved = savedPosition{}
	s.dirty = false
}

func (s *Session) removeTempSource() {
	if s.tempSource == "" {
		return
	}
	if err := os.Remove(s.tempSource); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Debug().Err(err).Str("path", s.tempSource).Msg("önbellek dosyası silinemedi")
	}
	s.tempSource = ""
}

func (s *Session) closeWatcher() {
	if s.watcher == nil {
		return
	}
	_ = s.watcher.Close()
	s.watcher = nil
}

// Close son durumu kaydeder ve sürükleme, izleyici ile yüzeyi kapatır.
func (s *Session) Close(ctx context.Context) error {
	s.timeline.Close()
	_ = s.Persist(ctx)
	s.closeWatcher()
	s.removeTempSource()
	return s.opts.Surface.Close()
}

func secondsToMs(v float64) int64 {
	return int64(math.Round(v * 1000))
}

func msToSeconds(v int64) float64 {
	return float64(v) / 1000
}
