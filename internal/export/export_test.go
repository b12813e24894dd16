package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func TestResolveCodec(t *testing.T) {
	cases := []struct {
		in, out, requested string
		want               string
		wantErr            bool
	}{
		{"mp4", "mp4", "auto", CodecCopy, false},
		{"mov", "mp4", "", CodecReencode, false},
		{"", "mp4", "auto", CodecReencode, false},
		{"mp4", "mp4", "copy", CodecCopy, false},
		{"mkv", "mp4", "copy", "", true},
		{"mkv", "mp4", "reencode", CodecReencode, false},
		{"mp4", "mp4", "fast", "", true},
	}
	for _, tc := range cases {
		got, _, err := ResolveCodec(tc.in, tc.out, tc.requested)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ResolveCodec(%q,%q,%q) err=%v wantErr=%v", tc.in, tc.out, tc.requested, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("ResolveCodec(%q,%q,%q) = %q, want %q", tc.in, tc.out, tc.requested, got, tc.want)
		}
	}
}

func TestArgsIncludeRangeAndCodec(t *testing.T) {
	e := &FFmpegEncoder{InputFormat: "mp4", TargetFormat: "mp4", Codec: CodecAuto, Metadata: MetadataStrip}
	args, err := e.Args("in.mp4", "out.mp4", 1.5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"-loglevel", "error", "-i", "in.mp4", "-ss", "1.5", "-to", "10", "-c", "copy", "-map_metadata", "-1", "-y", "out.mp4"}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Fatalf("unexpected args (-want +got):\n%s", diff)
	}

	e = &FFmpegEncoder{InputFormat: "mov", TargetFormat: "webm", Quality: 80}
	args, _ = e.Args("in.mov", "out.webm", 0, 4)
	joined := strings.Join(args, " ")
	if strings.Contains(joined, "-ss") {
		t.Fatalf("zero start must not emit -ss: %s", joined)
	}
	if !strings.Contains(joined, "libvpx-vp9") || !strings.Contains(joined, "-crf 26") {
		t.Fatalf("expected vp9 reencode args, got %s", joined)
	}
}

func TestTrimAndEncodeUsesTempFiles(t *testing.T) {
	var seen []string
	e := &FFmpegEncoder{
		InputFormat:  "mp4",
		TargetFormat: "mp4",
		Logger:       zerolog.Nop(),
		run: func(ctx context.Context, args []string) error {
			seen = args
			input := args[3]
			data, err := os.ReadFile(input)
			if err != nil {
				return err
			}
			return os.WriteFile(args[len(args)-1], append([]byte("kesilmiş:"), data...), 0644)
		},
	}
	out, err := e.TrimAndEncode(context.Background(), []byte("video"), 2, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "kesilmiş:video" {
		t.Fatalf("unexpected output: %q", out)
	}
	if _, err := os.Stat(filepath.Dir(seen[3])); !os.IsNotExist(err) {
		t.Fatalf("expected temp dir removed, stat err=%v", err)
	}
}

func TestTrimAndEncodeErrorsAreTyped(t *testing.T) {
	e := &FFmpegEncoder{
		InputFormat: "mp4",
		run: func(ctx context.Context, args []string) error {
			return errors.New("codec bulunamadı")
		},
	}
	for _, tc := range []struct {
		src        []byte
		start, end float64
		op         string
	}{
		{nil, 0, 1, "input"},
		{[]byte("x"), 3, 3, "range"},
		{[]byte("x"), -1, 3, "range"},
		{[]byte("x"), 0, 3, "ffmpeg"},
	} {
		_, err := e.TrimAndEncode(context.Background(), tc.src, tc.start, tc.end)
		var exportErr *Error
		if !errors.As(err, &exportErr) || exportErr.Op != tc.op {
			t.Fatalf("expected %s error, got %v", tc.op, err)
		}
	}
}

func TestWriteOutputConflictPolicies(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "klip_trim.mp4")

	path, err := WriteOutput(target, []byte("ilk"), ConflictVersioned)
	if err != nil || path != target {
		t.Fatalf("first write: %v %v", path, err)
	}

	path, err = WriteOutput(target, []byte("ikinci"), "")
	if err != nil || path != filepath.Join(dir, "klip_trim (1).mp4") {
		t.Fatalf("expected versioned path, got %v %v", path, err)
	}

	if _, err := WriteOutput(target, []byte("üçüncü"), ConflictSkip); !errors.Is(err, ErrSkipped) {
		t.Fatalf("expected skip, got %v", err)
	}

	if _, err := WriteOutput(target, []byte("yeni"), ConflictOverwrite); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	data, _ := os.ReadFile(target)
	if string(data) != "yeni" {
		t.Fatalf("expected overwritten content, got %q", data)
	}

	if _, err := WriteOutput(target, nil, "belki"); err == nil {
		t.Fatalf("expected invalid policy error")
	}
}

func TestBuildOutputPath(t *testing.T) {
	if got := BuildOutputPath("/videolar/tatil.MOV", "out", "", ""); got != filepath.Join("out", "tatil_trim.mov") {
		t.Fatalf("unexpected path: %s", got)
	}
	if got := BuildOutputPath("tatil.mp4", "", "webm", "ozet"); got != "ozet.webm" {
		t.Fatalf("unexpected custom path: %s", got)
	}
}
