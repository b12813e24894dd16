// Package timeline imleç koordinatlarını video zamanına çevirir; zaman çizelgesi
// tıklamalarını, trim çubuğu tıklamalarını ve tutamaç sürüklemelerini yönetir.
//
// Koordinatlar terminal hücresidir. Engine tek bir düzenleme döngüsünden çağrılır
// ve eşzamanlı kullanım için kilit tutmaz.
package timeline

import (
	"math"

	"github.com/mlihgenel/videotrim-cli/internal/timeutil"
	"github.com/mlihgenel/videotrim-cli/internal/trim"
)

// DefaultHandleSlop tutamaç isabet bölgesinin her iki yandaki genişliğidir (hücre).
const DefaultHandleSlop = 1

// Seeker oynatma konumunu değiştiren bileşendir (oynatma koordinatörü).
type Seeker interface {
	Seek(t float64)
}

// Geometry zaman çizelgesinin ekrandaki yerleşimidir.
// X0 ilk sütun, Width sütun sayısıdır. Top..Bottom zaman çizelgesinin kapladığı
// satırlardır; TrimBarRow bu aralıktaki trim çubuğu satırıdır (-1: trim çubuğu yok).
type Geometry struct {
	X0         int
	Width      int
	Top        int
	Bottom     int
	TrimBarRow int
	HandleSlop int
}

// Region bir noktanın isabet ettiği bölgedir. Büyük değer daha üst katmandır.
type Region int

const (
	RegionNone Region = iota
	RegionTimeline
	RegionTrimBar
	RegionStartHandle
	RegionEndHandle
)

func (r Region) String() string {
	switch r {
	case RegionTimeline:
		return "timeline"
	case RegionTrimBar:
		return "trim-bar"
	case RegionStartHandle:
		return "start-handle"
	case RegionEndHandle:
		return "end-handle"
	default:
		return "none"
	}
}

// Handle bölgeyi trim tutamacına çevirir; tutamaç değilse HandleNone döner.
func (r Region) Handle() trim.Handle {
	switch r {
	case RegionStartHandle:
		return trim.HandleStart
	case RegionEndHandle:
		return trim.HandleEnd
	default:
		return trim.HandleNone
	}
}

// Interaction etkileşim düzeyindeki durumdur.
type Interaction int

const (
	Idle Interaction = iota
	DraggingStart
	DraggingEnd
)

func (i Interaction) String() string {
	switch i {
	case DraggingStart:
		return "dragging-start"
	case DraggingEnd:
		return "dragging-end"
	default:
		return "idle"
	}
}

// Engine zaman çizelgesi etkileşim motorudur.
type Engine struct {
	state  *trim.State
	seeker Seeker
	geo    Geometry
	active *DragSession
}

// New yeni bir motor oluşturur.
func New(state *trim.State, seeker Seeker, geo Geometry) *Engine {
	e := &Engine{state: state, seeker: seeker}
	e.SetGeometry(geo)
	return e
}

// SetGeometry yerleşimi günceller (terminal yeniden boyutlandığında).
// Aktif sürükleme, başladığı ölçekte devam eder.
func (e *Engine) SetGeometry(geo Geometry) {
	if geo.HandleSlop <= 0 {
		geo.HandleSlop = DefaultHandleSlop
	}
	if geo.Bottom < geo.Top {
		geo.Bottom = geo.Top
	}
	e.geo = geo
}

// Geometry mevcut yerleşimi döner.
func (e *Engine) Geometry() Geometry {
	return e.geo
}

// State etkileşim durumunu döner.
func (e *Engine) State() Interaction {
	switch e.state.Drag.Handle {
	case trim.HandleStart:
		return DraggingStart
	case trim.HandleEnd:
		return DraggingEnd
	default:
		return Idle
	}
}

func (e *Engine) inside(px, py int) bool {
	g := e.geo
	return g.Width > 0 && px >= g.X0 && px < g.X0+g.Width && py >= g.Top && py <= g.Bottom
}

// HitTest noktanın isabet ettiği en üst katmandaki bölgeyi döner.
// Öncelik: tutamaçlar > trim çubuğu > zaman çizelgesi.
func (e *Engine) HitTest(px, py int) Region {
	if !e.inside(px, py) {
		return RegionNone
	}
	if py != e.geo.TrimBarRow || e.state.Duration <= 0 {
		return RegionTimeline
	}

	startCell := e.Cell(e.percent(e.state.TrimStart))
	endCell := e.Cell(e.percent(e.state.TrimEnd))
	slop := e.geo.HandleSlop

	dStart := absInt(px - startCell)
	dEnd := absInt(px - endCell)
	if dStart <= slop || dEnd <= slop {
		// İki tutamaç üst üste binerse yakın olan, eşitlikte imlecin tarafındaki kazanır.
		switch {
		case dStart < dEnd:
			return RegionStartHandle
		case dEnd < dStart:
			return RegionEndHandle
		case px > endCell:
			return RegionEndHandle
		default:
			return RegionStartHandle
		}
	}
	if px > startCell && px < endCell {
		return RegionTrimBar
	}
	return RegionTimeline
}

// Click zaman çizelgesi veya trim çubuğu tıklamasını işler ve seek yapar.
// Tutamaç bölgesindeki tıklamalar yok sayılır; tutamaçlar yalnızca sürükleme başlatır.
func (e *Engine) Click(px, py int) {
	if e.state.Duration <= 0 {
		return
	}
	switch e.HitTest(px, py) {
	case RegionTimeline:
		e.seeker.Seek(e.TimeAt(px))
	case RegionTrimBar:
		e.seeker.Seek(e.trimBarTimeAt(px))
	}
}

// TimeAt sütunu zamana çevirir: oran (px-X0)/Width, [0, 1] aralığına sınırlanır.
func (e *Engine) TimeAt(px int) float64 {
	if e.geo.Width <= 0 {
		return 0
	}
	ratio := float64(px-e.geo.X0) / float64(e.geo.Width)
	return timeutil.Clamp(ratio, 0, 1) * e.state.Duration
}

// trimBarTimeAt trim çubuğu içindeki oranı trim alt aralığına eşler.
func (e *Engine) trimBarTimeAt(px int) float64 {
	d := e.state.Duration
	w := float64(e.geo.Width)
	startX := float64(e.geo.X0) + e.state.TrimStart/d*w
	endX := float64(e.geo.X0) + e.state.TrimEnd/d*w
	if endX <= startX {
		return e.state.TrimStart
	}
	ratio := timeutil.Clamp((float64(px)-startX)/(endX-startX), 0, 1)
	return e.state.TrimStart + ratio*(e.state.TrimEnd-e.state.TrimStart)
}

// BeginDrag tutamaç sürüklemesini başlatır. Önceki oturum varsa önce bırakılır.
func (e *Engine) BeginDrag(h trim.Handle, px int) *DragSession {
	if e.active != nil {
		e.active.Release()
	}
	if h == trim.HandleNone {
		return nil
	}

	initial := e.state.TrimStart
	if h == trim.HandleEnd {
		initial = e.state.TrimEnd
	}
	s := &DragSession{
		engine:      e,
		handle:      h,
		initialTime: initial,
		originX:     px,
		width:       e.geo.Width,
	}
	e.state.BeginDrag(h, initial)
	e.active = s
	return s
}

// Active devam eden sürükleme oturumunu döner.
func (e *Engine) Active() *DragSession {
	return e.active
}

// Close motor kapatılırken canlı sürüklemeyi bırakır.
func (e *Engine) Close() {
	if e.active != nil {
		e.active.Release()
	}
}

// Layout çizim için yüzde değerleri.
type Layout struct {
	Playhead  float64
	TrimStart float64
	TrimEnd   float64
	Thumbs    []Slot
}

// Slot N önizleme karesinden birinin yerleşimidir.
type Slot struct {
	PositionPercent float64
	WidthPercent    float64
	LeftPercent     float64
}

// Layout oynatma çizgisi, trim tutamaçları ve önizleme yuvalarının yüzdelerini hesaplar.
func (e *Engine) Layout(thumbCount int) Layout {
	l := Layout{
		Playhead:  e.percent(e.state.CurrentTime),
		TrimStart: e.percent(e.state.TrimStart),
		TrimEnd:   e.percent(e.state.TrimEnd),
	}
	if thumbCount <= 0 {
		return l
	}
	l.Thumbs = make([]Slot, thumbCount)
	n := float64(thumbCount)
	for i := range l.Thumbs {
		pos := 0.0
		if thumbCount > 1 {
			pos = float64(i) * 100 / (n - 1)
		}
		l.Thumbs[i] = Slot{
			PositionPercent: pos,
			WidthPercent:    100 / n,
			LeftPercent:     float64(i) * 100 / n,
		}
	}
	return l
}

// Cell yüzdeyi sütuna çevirir; sonuç [X0, X0+Width-1] aralığındadır.
func (e *Engine) Cell(percent float64) int {
	if e.geo.Width <= 0 {
		return e.geo.X0
	}
	p := timeutil.Clamp(percent, 0, 100)
	col := int(math.Floor(p / 100 * float64(e.geo.Width)))
	if col > e.geo.Width-1 {
		col = e.geo.Width - 1
	}
	return e.geo.X0 + col
}

func (e *Engine) percent(t float64) float64 {
	return timeutil.TimeToPercentage(t, e.state.Duration)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
