package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mlihgenel/videotrim-cli/internal/media"
	"github.com/mlihgenel/videotrim-cli/internal/timeutil"
)

// FFmpegEncoder aralığı ffmpeg ile keser. Kaynak ve çıktı geçici bir dizinde tutulur.
type FFmpegEncoder struct {
	InputFormat  string
	TargetFormat string
	Codec        string
	Quality      int
	Metadata     string
	Logger       zerolog.Logger

	// run test için değiştirilebilir; nil ise ffmpeg çalıştırılır.
	run func(ctx context.Context, args []string) error
}

// Args verilen giriş/çıkış yolları için ffmpeg argümanlarını kurar.
func (e *FFmpegEncoder) Args(input, output string, start, end float64) ([]string, error) {
	codec, _, err := ResolveCodec(e.InputFormat, e.TargetFormat, e.Codec)
	if err != nil {
		return nil, err
	}

	args := []string{"-loglevel", "error", "-i", input}
	if start > 0 {
		args = append(args, "-ss", timeutil.FormatFFmpeg(start))
	}
	args = append(args, "-to", timeutil.FormatFFmpeg(end))
	args = append(args, CodecArgs(e.TargetFormat, codec, e.Quality)...)
	args = append(args, MetadataArgs(e.Metadata)...)
	args = append(args, "-y", output)
	return args, nil
}

// TrimAndEncode kaynak baytlarını [start, end] aralığında keser ve sonuç baytlarını döner.
func (e *FFmpegEncoder) TrimAndEncode(ctx context.Context, src []byte, start, end float64) ([]byte, error) {
	if len(src) == 0 {
		return nil, &Error{Op: "input", Err: errors.New("kaynak video boş")}
	}
	if start < 0 || end <= start {
		return nil, &Error{Op: "range", Err: fmt.Errorf("geçersiz aralık: %s -> %s", timeutil.FormatHuman(start), timeutil.FormatHuman(end))}
	}

	dir, err := os.MkdirTemp("", "videotrim-export-*")
	if err != nil {
		return nil, &Error{Op: "tempdir", Err: err}
	}
	defer os.RemoveAll(dir)

	inExt := NormalizeFormat(e.InputFormat)
	if inExt == "" {
		inExt = "mp4"
	}
	outExt := NormalizeFormat(e.TargetFormat)
	if outExt == "" {
		outExt = inExt
	}
	input := filepath.Join(dir, "source."+inExt)
	output := filepath.Join(dir, "trimmed."+outExt)

	if err := os.WriteFile(input, src, 0644); err != nil {
		return nil, &Error{Op: "write-source", Err: err}
	}

	args, err := e.Args(input, output, start, end)
	if err != nil {
		return nil, &Error{Op: "codec", Err: err}
	}
	e.Logger.Debug().Strs("args", args).Msg("ffmpeg trim başlıyor")

	run := e.run
	if run == nil {
		run = runFFmpeg
	}
	if err := run(ctx, args); err != nil {
		return nil, &Error{Op: "ffmpeg", Err: err}
	}

	data, err := os.ReadFile(output)
	if err != nil {
		return nil, &Error{Op: "read-output", Err: err}
	}
	if len(data) == 0 {
		return nil, &Error{Op: "read-output", Err: errors.New("ffmpeg boş çıktı üretti")}
	}
	return data, nil
}

func runFFmpeg(ctx context.Context, args []string) error {
	ffmpegPath, err := media.FindFFmpeg()
	if err != nil {
		return err
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("video trim ffmpeg hatası: %s\n%s", err.Error(), stderr.String())
	}
	return nil
}
