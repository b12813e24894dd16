package media

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestParseProbeOutput(t *testing.T) {
	out := []byte(`{
		"format": {"duration": "12.500000"},
		"streams": [
			{"codec_type": "audio", "codec_name": "aac"},
			{"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "r_frame_rate": "30000/1001"}
		]
	}`)
	info, err := parseProbeOutput(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Duration != 12.5 || info.VideoCodec != "h264" || info.AudioCodec != "aac" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.Width != 1920 || info.Height != 1080 {
		t.Fatalf("unexpected size: %dx%d", info.Width, info.Height)
	}
	if math.Abs(info.FPS-29.97) > 0.01 {
		t.Fatalf("unexpected fps: %v", info.FPS)
	}
}

func TestParseProbeOutputRejectsMissingVideo(t *testing.T) {
	if _, err := parseProbeOutput([]byte(`{"format":{"duration":"3"},"streams":[{"codec_type":"audio","codec_name":"mp3"}]}`)); err == nil {
		t.Fatalf("expected error for audio-only input")
	}
	if _, err := parseProbeOutput([]byte(`{"format":{},"streams":[{"codec_type":"video","codec_name":"vp9"}]}`)); err == nil {
		t.Fatalf("expected error for unknown duration")
	}
	if _, err := parseProbeOutput([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}

func TestParseFrameRate(t *testing.T) {
	cases := map[string]float64{
		"25/1": 25,
		"24":   24,
		"0/0":  0,
		"":     0,
	}
	for in, want := range cases {
		if got := parseFrameRate(in); got != want {
			t.Fatalf("parseFrameRate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRasterizeProducesFixedSize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1280, 720))
	for y := 0; y < 720; y++ {
		for x := 0; x < 1280; x++ {
			src.Set(x, y, color.RGBA{R: 200, G: 40, B: 10, A: 255})
		}
	}
	dst, err := Rasterize(src, ThumbnailWidth, ThumbnailHeight)
	if err != nil {
		t.Fatalf("rasterize failed: %v", err)
	}
	if dst.Bounds().Dx() != 160 || dst.Bounds().Dy() != 90 {
		t.Fatalf("unexpected bounds: %v", dst.Bounds())
	}

	data, err := EncodeJPEG(dst, ThumbnailQuality)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := DecodeImage(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	avg := AverageColor(decoded)
	if avg.R < 180 || avg.G > 70 {
		t.Fatalf("unexpected average color after round trip: %+v", avg)
	}
}

func TestRasterizeRejectsInvalidInput(t *testing.T) {
	if _, err := Rasterize(nil, 10, 10); err == nil {
		t.Fatalf("expected error for nil frame")
	}
	if _, err := Rasterize(image.NewRGBA(image.Rect(0, 0, 4, 4)), 0, 10); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func TestColumnColors(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		img.Set(0, y, color.RGBA{R: 255, A: 255})
		img.Set(1, y, color.RGBA{R: 255, A: 255})
		img.Set(2, y, color.RGBA{B: 255, A: 255})
		img.Set(3, y, color.RGBA{B: 255, A: 255})
	}
	cols := ColumnColors(img, 2)
	if len(cols) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(cols))
	}
	if HexColor(cols[0]) != "#FF0000" || HexColor(cols[1]) != "#0000FF" {
		t.Fatalf("unexpected colors: %s %s", HexColor(cols[0]), HexColor(cols[1]))
	}
}

func TestEventTypeString(t *testing.T) {
	if EventLoadedMetadata.String() != "loadedmetadata" || EventTimeUpdate.String() != "timeupdate" {
		t.Fatalf("unexpected event names")
	}
	if EventType(99).String() != "unknown" {
		t.Fatalf("expected unknown for out of range type")
	}
}
