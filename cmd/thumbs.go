package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videotrim-cli/internal/export"
	"github.com/mlihgenel/videotrim-cli/internal/media"
	"github.com/mlihgenel/videotrim-cli/internal/thumbnail"
	"github.com/mlihgenel/videotrim-cli/internal/ui"
)

var (
	thumbsCount      int
	thumbsOnConflict string
)

var thumbsCmd = &cobra.Command{
	Use:   "thumbs <video>",
	Short: "Videodan eşit aralıklı önizleme kareleri çıkarır",
	Long: `Videonun başından sonuna eşit aralıklı JPEG önizleme kareleri üretir.
Kareler <ad>_thumb_NN.jpg olarak çıktı dizinine yazılır.

Örnekler:
  videotrim thumbs klip.mp4
  videotrim thumbs klip.mp4 --count 12 -o ./kareler`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyThumbnailDefault(cmd, "count", &thumbsCount)
		applyOnConflictDefault(cmd, "on-conflict", &thumbsOnConflict)
		policy := export.NormalizeConflictPolicy(thumbsOnConflict)
		if policy == "" {
			return fmt.Errorf("geçersiz on-conflict değeri: %s (overwrite|skip|versioned)", thumbsOnConflict)
		}
		if thumbsCount <= 0 {
			return fmt.Errorf("kare sayısı pozitif olmalı")
		}
		if !media.IsFFmpegAvailable() {
			return fmt.Errorf("ffmpeg bulunamadı; kurulum için: videotrim version")
		}

		input := args[0]
		if _, err := os.Stat(input); err != nil {
			return fmt.Errorf("video bulunamadı: %s", input)
		}
		ctx := ctxOrBackground(cmd.Context())
		thumbs, _, err := sampleVideo(ctx, input, thumbsCount)
		if err != nil {
			return err
		}

		dir := outputDir
		if strings.TrimSpace(dir) == "" {
			dir = filepath.Dir(input)
		}
		paths, err := writeThumbnails(thumbs, dir, filepath.Base(input), policy)
		if err != nil {
			return err
		}
		ui.PrintSuccess(fmt.Sprintf("%d kare yazıldı: %s", len(paths), shortenPath(dir)))
		return nil
	},
}

// sampleVideo süreyi ffprobe ile okur ve count adet kare üretir.
func sampleVideo(ctx context.Context, path string, count int) ([]thumbnail.Thumbnail, float64, error) {
	info, err := media.Probe(ctx, path)
	if err != nil {
		return nil, 0, err
	}
	if info.Duration <= 0 {
		return nil, 0, fmt.Errorf("video süresi okunamadı: %s", path)
	}
	thumbs, err := thumbnail.NewSampler(rootLogger).Generate(ctx, path, info.Duration, count)
	if err != nil {
		return nil, info.Duration, err
	}
	return thumbs, info.Duration, nil
}

func writeThumbnails(thumbs []thumbnail.Thumbnail, dir, originalName, policy string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("çıktı dizini oluşturulamadı: %w", err)
	}
	base := strings.TrimSuffix(originalName, filepath.Ext(originalName))
	paths := make([]string, 0, len(thumbs))
	for i, th := range thumbs {
		path := filepath.Join(dir, thumbnailFileName(base, i, len(thumbs)))
		written, err := export.WriteOutput(path, th.ImageData, policy)
		if err != nil {
			if errors.Is(err, export.ErrSkipped) {
				continue
			}
			return paths, err
		}
		paths = append(paths, written)
	}
	return paths, nil
}

// thumbnailFileName sıra numarasını toplam kare sayısının basamağına göre doldurur.
func thumbnailFileName(base string, i, total int) string {
	width := len(fmt.Sprintf("%d", total))
	if width < 2 {
		width = 2
	}
	return fmt.Sprintf("%s_thumb_%0*d.jpg", base, width, i+1)
}

func init() {
	thumbsCmd.Flags().IntVarP(&thumbsCount, "count", "n", thumbnail.DefaultCount, "Kare sayısı")
	thumbsCmd.Flags().StringVar(&thumbsOnConflict, "on-conflict", export.ConflictVersioned, "Dosya çakışması: overwrite, skip, versioned")
	rootCmd.AddCommand(thumbsCmd)
}
