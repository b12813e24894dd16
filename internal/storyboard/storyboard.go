// Package storyboard önizleme karelerini, zaman cetvelini ve trim aralığını
// tek sayfalık bir PDF kontak sayfasına yerleştirir.
package storyboard

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/mlihgenel/videotrim-cli/internal/media"
	"github.com/mlihgenel/videotrim-cli/internal/thumbnail"
	"github.com/mlihgenel/videotrim-cli/internal/timeutil"
)

const (
	pageMargin  = 12.0
	stripTop    = 30.0
	barHeight   = 6.0
	handleWidth = 1.2
)

// Sheet kontak sayfasının içeriğidir.
type Sheet struct {
	Title    string
	Duration float64
	Thumbs   []thumbnail.Thumbnail
	Marks    []timeutil.RulerMark
	Trim     timeutil.Range
}

// findFont test sırasında sistem fontundan bağımsız çalışmak için değiştirilebilir.
var findFont = findSystemFont

// Render sayfayı path'e yazar.
func Render(path string, sheet Sheet) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("çıktı dizini oluşturulamadı: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pdf dosyası oluşturulamadı: %w", err)
	}
	if err := Write(f, sheet); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Write sayfayı w'ye PDF olarak yazar.
func Write(w io.Writer, sheet Sheet) error {
	if sheet.Duration <= 0 {
		return fmt.Errorf("storyboard için video süresi gerekli")
	}

	p, hasUTF8 := newPDF()
	p.AddPage()
	pageW, _ := p.GetPageSize()
	contentW := pageW - 2*pageMargin

	setFont(p, hasUTF8, "B", 16)
	p.CellFormat(contentW, 9, text(hasUTF8, sheet.Title), "", 1, "L", false, 0, "")
	setFont(p, hasUTF8, "", 10)
	summary := fmt.Sprintf("Süre: %s   Aralık: %s - %s (%s)",
		timeutil.FormatTime(sheet.Duration),
		timeutil.FormatTimeWithMs(sheet.Trim.Start),
		timeutil.FormatTimeWithMs(sheet.Trim.End),
		timeutil.FormatHuman(sheet.Trim.Length()))
	p.CellFormat(contentW, 6, text(hasUTF8, summary), "", 1, "L", false, 0, "")

	stripBottom := drawStrip(p, hasUTF8, sheet.Thumbs, contentW)
	barTop := stripBottom + 4
	drawTrimBar(p, sheet, contentW, barTop)
	drawRuler(p, hasUTF8, sheet, contentW, barTop+barHeight)

	if err := p.Error(); err != nil {
		return fmt.Errorf("pdf oluşturulamadı: %w", err)
	}
	return p.Output(w)
}

func drawStrip(p *gofpdf.Fpdf, hasUTF8 bool, thumbs []thumbnail.Thumbnail, contentW float64) float64 {
	if len(thumbs) == 0 {
		return stripTop
	}
	cellW := contentW / float64(len(thumbs))
	cellH := cellW * float64(media.ThumbnailHeight) / float64(media.ThumbnailWidth)

	for i, th := range thumbs {
		x := pageMargin + float64(i)*cellW
		// Bozuk JPEG gofpdf'in hata durumunu kalıcı olarak bozar; önceden çözülemeyen kare boş kutu olur.
		if _, err := media.DecodeImage(th.ImageData); err != nil {
			p.SetDrawColor(160, 160, 160)
			p.Rect(x, stripTop, cellW, cellH, "D")
		} else {
			name := fmt.Sprintf("thumb-%d", i)
			opts := gofpdf.ImageOptions{ImageType: "JPG"}
			p.RegisterImageOptionsReader(name, opts, bytes.NewReader(th.ImageData))
			p.ImageOptions(name, x, stripTop, cellW, cellH, false, opts, 0, "")
		}
		setFont(p, hasUTF8, "", 7)
		p.SetXY(x, stripTop+cellH+0.5)
		p.CellFormat(cellW, 3.5, timeutil.FormatTime(th.Time), "", 0, "C", false, 0, "")
	}
	return stripTop + cellH + 4
}

func drawTrimBar(p *gofpdf.Fpdf, sheet Sheet, contentW, top float64) {
	p.SetFillColor(60, 60, 60)
	p.Rect(pageMargin, top, contentW, barHeight, "F")

	startX := pageMargin + timeutil.TimeToPercentage(sheet.Trim.Start, sheet.Duration)/100*contentW
	endX := pageMargin + timeutil.TimeToPercentage(sheet.Trim.End, sheet.Duration)/100*contentW
	if endX > startX {
		p.SetFillColor(114, 137, 218)
		p.Rect(startX, top, endX-startX, barHeight, "F")
	}

	p.SetFillColor(250, 204, 21)
	p.Rect(startX-handleWidth/2, top-1, handleWidth, barHeight+2, "F")
	p.Rect(endX-handleWidth/2, top-1, handleWidth, barHeight+2, "F")
}

func drawRuler(p *gofpdf.Fpdf, hasUTF8 bool, sheet Sheet, contentW, top float64) {
	p.SetDrawColor(90, 90, 90)
	p.SetLineWidth(0.2)
	setFont(p, hasUTF8, "", 7)
	for _, m := range sheet.Marks {
		x := pageMargin + m.PositionPercent/100*contentW
		p.Line(x, top+1, x, top+3)
		p.SetXY(x-8, top+3.5)
		p.CellFormat(16, 3.5, timeutil.FormatTime(m.Time), "", 0, "C", false, 0, "")
	}
}

// newPDF yatay A4 sayfa açar ve bulunursa UTF-8 font yükler.
func newPDF() (*gofpdf.Fpdf, bool) {
	p := gofpdf.New("L", "mm", "A4", "")
	p.SetMargins(pageMargin, pageMargin, pageMargin)
	p.SetAutoPageBreak(false, pageMargin)

	fontPath := findFont()
	if fontPath == "" {
		return p, false
	}
	p.SetFontLocation(filepath.Dir(fontPath))
	p.AddUTF8Font("Sans", "", filepath.Base(fontPath))
	p.AddUTF8Font("Sans", "B", filepath.Base(fontPath))
	return p, true
}

func setFont(p *gofpdf.Fpdf, hasUTF8 bool, style string, size float64) {
	if hasUTF8 {
		p.SetFont("Sans", style, size)
	} else {
		p.SetFont("Helvetica", style, size)
	}
}

var latin = strings.NewReplacer(
	"ç", "c", "Ç", "C",
	"ğ", "g", "Ğ", "G",
	"ı", "i", "İ", "I",
	"ö", "o", "Ö", "O",
	"ş", "s", "Ş", "S",
	"ü", "u", "Ü", "U",
)

// text core fontlar Türkçe karakterleri basamadığı için yedek yazımda harfleri sadeleştirir.
func text(hasUTF8 bool, s string) string {
	if hasUTF8 {
		return s
	}
	return latin.Replace(s)
}

func findSystemFont() string {
	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{
			"/System/Library/Fonts/Supplemental/Arial.ttf",
			"/Library/Fonts/Arial.ttf",
		}
	case "linux":
		candidates = []string{
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/TTF/DejaVuSans.ttf",
		}
	case "windows":
		candidates = []string{
			"C:\\Windows\\Fonts\\arial.ttf",
			"C:\\Windows\\Fonts\\segoeui.ttf",
		}
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
