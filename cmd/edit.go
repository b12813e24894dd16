package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mlihgenel/videotrim-cli/internal/export"
	"github.com/mlihgenel/videotrim-cli/internal/logging"
	"github.com/mlihgenel/videotrim-cli/internal/media"
	"github.com/mlihgenel/videotrim-cli/internal/session"
	"github.com/mlihgenel/videotrim-cli/internal/thumbnail"
	"github.com/mlihgenel/videotrim-cli/internal/ui"
	"github.com/mlihgenel/videotrim-cli/internal/watch"
)

var (
	editProject    string
	editThumbs     int
	editFormat     string
	editCodec      string
	editQuality    int
	editMetadata   string
	editOnConflict string
	editNoWatch    bool
)

var editCmd = &cobra.Command{
	Use:   "edit [video]",
	Short: "Videoyu zaman çizelgesi editöründe açar",
	Long: `Videoyu terminal editöründe açar. Video yeni bir proje olarak kaydedilir;
--project ile kayıtlı bir projeye kaldığınız yerden devam edebilirsiniz.

Fare desteği olan terminallerde tutamaçlar sürüklenebilir, zaman çizelgesine
tıklanarak konum değiştirilebilir. Klavye kısayolları her terminalde çalışır.

Örnekler:
  videotrim edit klip.mp4
  videotrim edit klip.mp4 --to webm --codec reencode --quality 80
  videotrim edit --project 3f2a...`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" && strings.TrimSpace(editProject) == "" {
			return fmt.Errorf("video yolu veya --project gerekli")
		}
		return runEdit(cmd, path, editProject)
	},
}

func resolveEditOptions(cmd *cobra.Command) (exportOptions, error) {
	applyThumbnailDefault(cmd, "thumbnails", &editThumbs)
	applyQualityDefault(cmd, "quality", &editQuality)
	applyCodecDefaults(cmd, &editCodec, &editFormat, &editMetadata)
	applyOnConflictDefault(cmd, "on-conflict", &editOnConflict)

	opts := exportOptions{
		Format:     editFormat,
		Codec:      editCodec,
		Quality:    editQuality,
		Metadata:   editMetadata,
		OnConflict: export.NormalizeConflictPolicy(editOnConflict),
	}
	if opts.OnConflict == "" {
		return opts, fmt.Errorf("geçersiz on-conflict değeri: %s (overwrite|skip|versioned)", editOnConflict)
	}
	return opts, opts.validate()
}

func runEdit(cmd *cobra.Command, path, projectID string) error {
	opts, err := resolveEditOptions(cmd)
	if err != nil {
		return err
	}
	if !media.IsFFmpegAvailable() {
		if _, err := media.FindFFmpeg(); err != nil {
			return err
		}
		_, err := media.FindFFprobe()
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log := logging.WithComponent(rootLogger, "editor")
	st := openStore()
	defer st.Close()

	sess := session.New(session.Options{
		Store:      st,
		Surface:    media.NewFFmpegSurface(),
		Sampler:    thumbnail.NewSampler(rootLogger),
		NewEncoder: opts.encoderFactory(rootLogger),
		ThumbCount: editThumbs,
		CacheDir:   cacheDir(),
		Geometry:   editorGeometry(defaultBarWidth),
		Logger:     rootLogger,
	})

	sourceDir := "."
	if projectID != "" {
		if err := sess.Resume(ctx, projectID); err != nil {
			_ = sess.Close(ctx)
			return err
		}
	} else {
		if err := sess.Open(ctx, path); err != nil {
			_ = sess.Close(ctx)
			return err
		}
		sourceDir = filepath.Dir(path)
	}

	var watcher watch.Engine
	if !editNoWatch && projectID == "" {
		w, err := sess.Watch(watch.DefaultSettle)
		if err != nil {
			log.Warn().Err(err).Msg("kaynak izleme başlatılamadı")
		} else {
			watcher = w
			log.Debug().Str("mode", w.Mode()).Msg("kaynak izleniyor")
		}
	}

	model := newEditorModel(ctx, sess, watcher, opts, sourceDir, log)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, runErr := program.Run()

	rec, hasProject := sess.Project()
	if err := sess.Close(context.Background()); err != nil {
		log.Debug().Err(err).Msg("yüzey kapatılamadı")
	}
	if runErr != nil {
		return fmt.Errorf("editör hatası: %w", runErr)
	}
	if hasProject {
		ui.PrintInfo(fmt.Sprintf("Proje kaydedildi: %s (%s)", rec.Name, rec.ID))
		ui.PrintInfo("Devam etmek için: videotrim edit --project " + rec.ID)
	}
	return nil
}

func addExportFlags(c *cobra.Command, format, codec *string, quality *int, metadata, onConflict *string) {
	c.Flags().StringVar(format, "to", "", "Hedef format (varsayılan: kaynak formatı)")
	c.Flags().StringVar(codec, "codec", export.CodecAuto, "Codec modu: auto, copy, reencode")
	c.Flags().IntVarP(quality, "quality", "q", 0, "Kalite (1-100, 0 = varsayılan)")
	c.Flags().StringVar(metadata, "metadata", export.MetadataAuto, "Metadata: auto, preserve, strip")
	c.Flags().StringVar(onConflict, "on-conflict", export.ConflictVersioned, "Çakışma politikası: overwrite, skip, versioned")
}

func init() {
	editCmd.Flags().StringVar(&editProject, "project", "", "Kayıtlı proje ID'si")
	editCmd.Flags().IntVarP(&editThumbs, "thumbnails", "n", thumbnail.DefaultCount, "Önizleme karesi sayısı")
	editCmd.Flags().BoolVar(&editNoWatch, "no-watch", false, "Kaynak dosyadaki değişiklikleri izleme")
	addExportFlags(editCmd, &editFormat, &editCodec, &editQuality, &editMetadata, &editOnConflict)

	rootCmd.AddCommand(editCmd)
}
