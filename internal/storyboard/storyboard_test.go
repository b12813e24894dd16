package storyboard

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/mlihgenel/videotrim-cli/internal/media"
	"github.com/mlihgenel/videotrim-cli/internal/thumbnail"
	"github.com/mlihgenel/videotrim-cli/internal/timeutil"
)

func useCoreFont(t *testing.T) {
	t.Helper()
	prev := findFont
	findFont = func() string { return "" }
	t.Cleanup(func() { findFont = prev })
}

func jpegThumb(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	src := image.NewRGBA(image.Rect(0, 0, 32, 18))
	for y := 0; y < 18; y++ {
		for x := 0; x < 32; x++ {
			src.Set(x, y, c)
		}
	}
	img, err := media.Rasterize(src, media.ThumbnailWidth, media.ThumbnailHeight)
	if err != nil {
		t.Fatalf("rasterize failed: %v", err)
	}
	data, err := media.EncodeJPEG(img, media.ThumbnailQuality)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	return data
}

func sampleSheet(t *testing.T) Sheet {
	return Sheet{
		Title:    "Tatil videosu çekimi",
		Duration: 90,
		Thumbs: []thumbnail.Thumbnail{
			{Time: 0, PositionPercent: 0, ImageData: jpegThumb(t, color.RGBA{R: 200, A: 255})},
			{Time: 45, PositionPercent: 50, ImageData: []byte("bozuk")},
			{Time: 90, PositionPercent: 100, ImageData: jpegThumb(t, color.RGBA{B: 200, A: 255})},
		},
		Marks: timeutil.GenerateRulerMarks(90, timeutil.DefaultMaxMarks),
		Trim:  timeutil.Range{Start: 12.5, End: 60},
	}
}

func TestWriteProducesPDF(t *testing.T) {
	useCoreFont(t)
	var buf bytes.Buffer
	if err := Write(&buf, sampleSheet(t)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", buf.Bytes()[:8])
	}
	if !bytes.Contains(buf.Bytes(), []byte("/Subtype /Image")) {
		t.Fatalf("expected embedded thumbnail images")
	}
}

func TestWriteWithoutThumbnails(t *testing.T) {
	useCoreFont(t)
	sheet := sampleSheet(t)
	sheet.Thumbs = nil
	var buf bytes.Buffer
	if err := Write(&buf, sheet); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("/Subtype /Image")) {
		t.Fatalf("expected no images without thumbnails")
	}
}

func TestWriteRequiresDuration(t *testing.T) {
	useCoreFont(t)
	var buf bytes.Buffer
	if err := Write(&buf, Sheet{Title: "x"}); err == nil {
		t.Fatalf("expected error without duration")
	}
}

func TestRenderCreatesFileAndRemovesOnError(t *testing.T) {
	useCoreFont(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "sheets", "a.pdf")
	if err := Render(path, sampleSheet(t)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("expected non-empty pdf: %v", err)
	}

	bad := filepath.Join(dir, "bad.pdf")
	if err := Render(bad, Sheet{}); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Fatalf("expected partial file removed, stat err: %v", err)
	}
}

func TestTextTransliteratesWithoutUTF8Font(t *testing.T) {
	if got := text(false, "Süre çığ"); got != "Sure cig" {
		t.Fatalf("unexpected transliteration: %s", got)
	}
	if got := text(true, "Süre"); got != "Süre" {
		t.Fatalf("expected passthrough with utf8 font, got %s", got)
	}
}
