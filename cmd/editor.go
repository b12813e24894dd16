package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/mlihgenel/videotrim-cli/internal/export"
	"github.com/mlihgenel/videotrim-cli/internal/media"
	"github.com/mlihgenel/videotrim-cli/internal/session"
	"github.com/mlihgenel/videotrim-cli/internal/storyboard"
	"github.com/mlihgenel/videotrim-cli/internal/thumbnail"
	"github.com/mlihgenel/videotrim-cli/internal/timeline"
	"github.com/mlihgenel/videotrim-cli/internal/timeutil"
	"github.com/mlihgenel/videotrim-cli/internal/trim"
	"github.com/mlihgenel/videotrim-cli/internal/watch"
)

// Editör ekranının satır yerleşimi. Zaman çizelgesi satırları fare koordinatlarıyla
// birebir eşleşir; View bu sırayı korumalıdır.
const (
	rowTitle = iota
	rowFile
	rowClock
	rowSpacer
	rowStrip
	rowPlayhead
	rowTrimBar
	rowRuler

	editorIndent     = 2
	defaultBarWidth  = 64
	minBarWidth      = 20
	maxBarWidth      = 160
	editorTick       = 500 * time.Millisecond
	persistEveryTick = 4
	defaultStep      = 1.0
)

type surfaceEventMsg struct {
	ev media.Event
	ok bool
}

type thumbsDoneMsg struct {
	token  thumbnail.Token
	thumbs []thumbnail.Thumbnail
	err    error
}

type exportDoneMsg struct {
	path string
	err  error
}

type storyboardDoneMsg struct {
	path string
	err  error
}

type editorTickMsg time.Time

// editorModel tek bir oturumun terminal editörüdür. Tüm durum değişiklikleri
// Update içinde, tek goroutine'de yapılır.
type editorModel struct {
	ctx       context.Context
	sess      *session.Session
	events    <-chan media.Event
	watcher   watch.Engine
	log       zerolog.Logger
	opts      exportOptions
	sourceDir string

	width    int
	height   int
	barWidth int
	focus    trim.Handle
	step     float64
	drag     *timeline.DragSession

	strip      []string
	status     string
	statusErr  bool
	busy       string
	spinnerIdx int
	ticks      int
	quitting   bool
	confirmRm  bool
}

func newEditorModel(ctx context.Context, sess *session.Session, watcher watch.Engine, opts exportOptions, sourceDir string, logger zerolog.Logger) editorModel {
	m := editorModel{
		ctx:       ctx,
		sess:      sess,
		events:    sess.Player().Surface().Events(),
		watcher:   watcher,
		log:       logger,
		opts:      opts,
		sourceDir: sourceDir,
		barWidth:  defaultBarWidth,
		focus:     trim.HandleStart,
		step:      defaultStep,
	}
	sess.Timeline().SetGeometry(editorGeometry(m.barWidth))
	return m
}

// editorGeometry önizleme şeridi, oynatma satırı ve trim çubuğunun ekran yerleşimidir.
func editorGeometry(width int) timeline.Geometry {
	return timeline.Geometry{
		X0:         editorIndent,
		Width:      width,
		Top:        rowStrip,
		Bottom:     rowTrimBar,
		TrimBarRow: rowTrimBar,
		HandleSlop: timeline.DefaultHandleSlop,
	}
}

func barWidthFor(termWidth int) int {
	if termWidth <= 0 {
		return defaultBarWidth
	}
	w := termWidth - 2*editorIndent
	if w < minBarWidth {
		w = minBarWidth
	}
	if w > maxBarWidth {
		w = maxBarWidth
	}
	return w
}

func (m editorModel) Init() tea.Cmd {
	return tea.Batch(waitForSurfaceEvent(m.events), editorTickCmd())
}

func waitForSurfaceEvent(events <-chan media.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		return surfaceEventMsg{ev: ev, ok: ok}
	}
}

func editorTickCmd() tea.Cmd {
	return tea.Tick(editorTick, func(t time.Time) tea.Msg {
		return editorTickMsg(t)
	})
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if w := barWidthFor(msg.Width); w != m.barWidth {
			m.barWidth = w
			m.sess.Timeline().SetGeometry(editorGeometry(w))
			m.strip = buildStrip(m.sess.Thumbnails(), w)
		}
		return m, nil

	case surfaceEventMsg:
		if !msg.ok {
			return m, nil
		}
		cmds := []tea.Cmd{waitForSurfaceEvent(m.events)}
		if m.sess.HandleSurfaceEvent(msg.ev) {
			m.strip = nil
			cmds = append(cmds, m.startThumbnails())
		}
		return m, tea.Batch(cmds...)

	case thumbsDoneMsg:
		if m.sess.PublishThumbnails(msg.token, msg.thumbs) {
			m.strip = buildStrip(msg.thumbs, m.barWidth)
			if msg.err != nil {
				m.setStatus("Önizleme kareleri üretilemedi: "+msg.err.Error(), true)
			}
		}
		return m, nil

	case exportDoneMsg:
		m.busy = ""
		m.sess.ApplyExportResult(msg.path, msg.err)
		switch {
		case msg.err == nil:
			m.setStatus("Dışa aktarıldı: "+shortenPath(msg.path), false)
		case errors.Is(msg.err, export.ErrSkipped):
			m.setStatus("Hedef dosya mevcut, dışa aktarma atlandı: "+shortenPath(msg.path), false)
		}
		return m, nil

	case storyboardDoneMsg:
		m.busy = ""
		if msg.err != nil {
			m.log.Error().Err(msg.err).Msg("storyboard oluşturulamadı")
			m.setStatus("Storyboard oluşturulamadı: "+msg.err.Error(), true)
		} else {
			m.setStatus("Storyboard kaydedildi: "+shortenPath(msg.path), false)
		}
		return m, nil

	case editorTickMsg:
		return m.onTick(time.Time(msg))

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *editorModel) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m editorModel) onTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	m.spinnerIdx = (m.spinnerIdx + 1) % len(spinnerFrames)
	m.ticks++

	if m.watcher != nil {
		changed, err := m.watcher.Poll(now)
		if err != nil {
			m.log.Debug().Err(err).Msg("kaynak izleme hatası")
		}
		if changed {
			m.strip = nil
			m.sess.SourceChanged(m.ctx)
			m.setStatus("Kaynak dosya değişti, yeniden yükleniyor", false)
		}
	}
	if m.ticks%persistEveryTick == 0 && m.drag == nil {
		_ = m.sess.Persist(m.ctx)
	}
	return m, editorTickCmd()
}

// handleMouse fare hareketlerini zaman çizelgesi motoruna aktarır.
// Bırakma olayı konumdan bağımsız olarak sürüklemeyi bitirir.
func (m editorModel) handleMouse(msg tea.MouseMsg) editorModel {
	engine := m.sess.Timeline()
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		if h := engine.HitTest(msg.X, msg.Y).Handle(); h != trim.HandleNone {
			m.drag = engine.BeginDrag(h, msg.X)
			m.focus = h
			return m
		}
		engine.Click(msg.X, msg.Y)
	case tea.MouseActionMotion:
		if m.drag != nil && !m.drag.Released() {
			m.drag.Move(msg.X)
		}
	case tea.MouseActionRelease:
		if m.drag != nil {
			m.drag.Release()
			m.drag = nil
			_ = m.sess.Persist(m.ctx)
		}
	}
	return m
}

func (m editorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.sess.State()
	player := m.sess.Player()

	key := msg.String()
	if key != "ctrl+x" {
		m.confirmRm = false
	}

	switch key {
	case "ctrl+c", "q", "esc":
		return m.quit()
	case "ctrl+x":
		return m.removeProject()
	case " ", "space":
		player.TogglePlay()
	case "p":
		if player.Previewing() {
			player.ExitPreview()
			player.Pause()
		} else {
			player.EnterPreview()
		}
	case "tab", "up", "down":
		if m.focus == trim.HandleStart {
			m.focus = trim.HandleEnd
		} else {
			m.focus = trim.HandleStart
		}
	case "left":
		m.nudge(-m.step)
	case "right":
		m.nudge(m.step)
	case "[":
		m.step = decreaseTimelineStep(m.step)
	case "]":
		m.step = increaseTimelineStep(m.step)
	case ",":
		m.seek(state.CurrentTime - m.step)
	case ".":
		m.seek(state.CurrentTime + m.step)
	case "home":
		m.seek(state.TrimStart)
	case "end":
		m.seek(state.TrimEnd)
	case "r":
		if state.Loaded {
			m.strip = nil
			return m, m.startThumbnails()
		}
	case "e":
		return m.startExport()
	case "s":
		return m.startStoryboard()
	}
	return m, nil
}

func (m editorModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.drag != nil {
		m.drag.Release()
		m.drag = nil
	}
	return m, tea.Quit
}

// removeProject ikinci onayda projeyi ve videosunu siler, editörü kapatır.
func (m editorModel) removeProject() (tea.Model, tea.Cmd) {
	if !m.confirmRm {
		m.confirmRm = true
		m.setStatus("Projeyi ve videosunu silmek için tekrar ctrl+x", true)
		return m, nil
	}
	m.confirmRm = false
	m.drag = nil
	m.strip = nil
	m.sess.RemoveVideo(m.ctx)
	m.log.Info().Msg("proje kullanıcı tarafından silindi")
	return m.quit()
}

// nudge odaktaki tutamacı klavyeyle kaydırır.
func (m *editorModel) nudge(delta float64) {
	state := m.sess.State()
	if !state.Loaded {
		return
	}
	if m.focus == trim.HandleEnd {
		state.SetTrimEnd(state.TrimEnd + delta)
	} else {
		state.SetTrimStart(state.TrimStart + delta)
	}
}

func (m *editorModel) seek(t float64) {
	state := m.sess.State()
	if !state.Loaded {
		return
	}
	m.sess.Player().Seek(timeutil.Clamp(t, 0, state.Duration))
}

func (m editorModel) startThumbnails() tea.Cmd {
	req := m.sess.BeginThumbnails()
	ctx := m.ctx
	return func() tea.Msg {
		thumbs, err := req.Run(ctx)
		return thumbsDoneMsg{token: req.Token, thumbs: thumbs, err: err}
	}
}

func (m editorModel) originalName() string {
	if rec, ok := m.sess.Project(); ok && rec.OriginalName != "" {
		return rec.OriginalName
	}
	return filepath.Base(m.sess.SourcePath())
}

func (m editorModel) startExport() (tea.Model, tea.Cmd) {
	if m.busy != "" {
		return m, nil
	}
	output := m.opts.outputPathFor(m.originalName(), m.sourceDir, "")
	req, err := m.sess.PrepareExport(output, m.opts.OnConflict)
	if err != nil {
		m.sess.ApplyExportResult("", err)
		return m, nil
	}
	m.busy = "Dışa aktarılıyor"
	m.setStatus("", false)
	ctx := m.ctx
	return m, func() tea.Msg {
		path, err := req.Run(ctx)
		return exportDoneMsg{path: path, err: err}
	}
}

func (m editorModel) startStoryboard() (tea.Model, tea.Cmd) {
	state := m.sess.State()
	if m.busy != "" || !state.Loaded {
		return m, nil
	}
	dir := outputDir
	if strings.TrimSpace(dir) == "" {
		dir = m.sourceDir
	}
	name := m.originalName()
	base := strings.TrimSuffix(name, filepath.Ext(name))
	path := filepath.Join(dir, base+"_storyboard.pdf")
	sheet := storyboard.Sheet{
		Title:    name,
		Duration: state.Duration,
		Thumbs:   m.sess.Thumbnails(),
		Marks:    timeutil.GenerateRulerMarks(state.Duration, timeutil.DefaultMaxMarks),
		Trim:     timeutil.Range{Start: state.TrimStart, End: state.TrimEnd},
	}
	m.busy = "Storyboard hazırlanıyor"
	return m, func() tea.Msg {
		return storyboardDoneMsg{path: path, err: storyboard.Render(path, sheet)}
	}
}

// buildStrip her sütun için önizleme karesinden bir renk çıkarır.
// i. kare, floor(c*n/width) == i olan sütunları kaplar.
func buildStrip(thumbs []thumbnail.Thumbnail, width int) []string {
	n := len(thumbs)
	if n == 0 || width <= 0 {
		return nil
	}
	counts := make([]int, n)
	for c := 0; c < width; c++ {
		counts[c*n/width]++
	}

	out := make([]string, 0, width)
	for i, th := range thumbs {
		if counts[i] == 0 {
			continue
		}
		img, err := media.DecodeImage(th.ImageData)
		if err != nil {
			out = append(out, make([]string, counts[i])...)
			continue
		}
		for _, c := range media.ColumnColors(img, counts[i]) {
			out = append(out, media.HexColor(c))
		}
	}
	return out
}

func increaseTimelineStep(current float64) float64 {
	steps := []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60}
	for i, s := range steps {
		if current < s {
			return s
		}
		if current == s && i < len(steps)-1 {
			return steps[i+1]
		}
	}
	return steps[len(steps)-1]
}

func decreaseTimelineStep(current float64) float64 {
	steps := []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60}
	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		if current > s {
			return s
		}
		if current == s && i > 0 {
			return steps[i-1]
		}
	}
	return steps[0]
}

func formatStep(step float64) string {
	if step < 1 {
		return fmt.Sprintf("%.1fs", step)
	}
	return fmt.Sprintf("%.0fs", step)
}
