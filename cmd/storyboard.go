package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videotrim-cli/internal/media"
	"github.com/mlihgenel/videotrim-cli/internal/store"
	"github.com/mlihgenel/videotrim-cli/internal/storyboard"
	"github.com/mlihgenel/videotrim-cli/internal/thumbnail"
	"github.com/mlihgenel/videotrim-cli/internal/timeutil"
	"github.com/mlihgenel/videotrim-cli/internal/ui"
)

var (
	storyboardProject string
	storyboardCount   int
	storyboardStart   string
	storyboardEnd     string
	storyboardName    string
)

var storyboardCmd = &cobra.Command{
	Use:   "storyboard [video]",
	Short: "Önizleme kareleri, trim aralığı ve cetvelden PDF sayfası üretir",
	Long: `Videonun önizleme karelerini, seçili trim aralığını ve zaman cetvelini
tek sayfalık bir PDF'e yazar. Kayıtlı bir proje için --project kullanın;
bu durumda projenin kayıtlı aralığı kullanılır.

Örnekler:
  videotrim storyboard klip.mp4 --start 00:10 --end 01:05
  videotrim storyboard --project 3f2a...`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (len(args) == 0) == (storyboardProject == "") {
			return fmt.Errorf("video yolu ya da --project gerekli (ikisi birden değil)")
		}
		applyThumbnailDefault(cmd, "count", &storyboardCount)
		if storyboardCount <= 0 {
			return fmt.Errorf("kare sayısı pozitif olmalı")
		}
		if !media.IsFFmpegAvailable() {
			return fmt.Errorf("ffmpeg bulunamadı; kurulum için: videotrim version")
		}

		ctx := ctxOrBackground(cmd.Context())
		var (
			source  string
			title   string
			stored  *store.ProjectRecord
			cleanup = func() {}
		)
		if storyboardProject != "" {
			st := openStore()
			defer st.Close()
			rec, path, done, err := materializeProject(ctx, st, storyboardProject)
			if err != nil {
				return err
			}
			cleanup = done
			stored, source, title = rec, path, rec.OriginalName
		} else {
			source = args[0]
			if _, err := os.Stat(source); err != nil {
				return fmt.Errorf("video bulunamadı: %s", source)
			}
			title = filepath.Base(source)
		}
		defer cleanup()

		thumbs, duration, err := sampleVideo(ctx, source, storyboardCount)
		if err != nil {
			return err
		}
		trimRange, err := storyboardRange(stored, duration, storyboardStart, storyboardEnd)
		if err != nil {
			return err
		}

		sheet := storyboard.Sheet{
			Title:    title,
			Duration: duration,
			Thumbs:   thumbs,
			Marks:    timeutil.GenerateRulerMarks(duration, timeutil.DefaultMaxMarks),
			Trim:     trimRange,
		}
		path := storyboardPath(title, filepath.Dir(source), storyboardName)
		if stored != nil && strings.TrimSpace(outputDir) == "" {
			path = storyboardPath(title, ".", storyboardName)
		}
		if err := storyboard.Render(path, sheet); err != nil {
			return fmt.Errorf("storyboard yazılamadı: %w", err)
		}
		ui.PrintSuccess("Storyboard yazıldı: " + shortenPath(path))
		return nil
	},
}

// materializeProject kayıtlı videoyu önbellek dizinine geçici dosya olarak yazar.
func materializeProject(ctx context.Context, st store.Store, id string) (*store.ProjectRecord, string, func(), error) {
	rec, err := st.GetProject(ctx, id)
	if err != nil {
		return nil, "", nil, err
	}
	if rec == nil {
		return nil, "", nil, fmt.Errorf("proje bulunamadı: %s", id)
	}
	data, err := st.GetVideo(ctx, id)
	if err != nil {
		return nil, "", nil, err
	}
	if data == nil {
		return nil, "", nil, fmt.Errorf("projenin videosu bulunamadı: %s", id)
	}

	dir := cacheDir()
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", nil, err
	}
	f, err := os.CreateTemp(dir, "storyboard-*"+filepath.Ext(rec.OriginalName))
	if err != nil {
		return nil, "", nil, err
	}
	path := f.Name()
	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(path)
		if werr != nil {
			return nil, "", nil, werr
		}
		return nil, "", nil, cerr
	}
	return rec, path, func() { _ = os.Remove(path) }, nil
}

// storyboardRange flag'leri, yoksa kayıtlı aralığı, o da yoksa tüm videoyu kullanır.
func storyboardRange(rec *store.ProjectRecord, duration float64, startRaw, endRaw string) (timeutil.Range, error) {
	start, end := 0.0, duration
	if rec != nil && rec.IsLoaded && rec.TrimEndMs > rec.TrimStartMs {
		start, end = msToSec(rec.TrimStartMs), msToSec(rec.TrimEndMs)
	}
	if startRaw != "" {
		v, err := timeutil.ParseSeconds(startRaw)
		if err != nil {
			return timeutil.Range{}, fmt.Errorf("--start: %w", err)
		}
		start = v
	}
	if endRaw != "" {
		v, err := timeutil.ParseSeconds(endRaw)
		if err != nil {
			return timeutil.Range{}, fmt.Errorf("--end: %w", err)
		}
		end = v
	}
	if end <= start {
		return timeutil.Range{}, fmt.Errorf("bitiş başlangıçtan büyük olmalı")
	}
	return timeutil.ValidateTrimRange(start, end, duration, timeutil.DefaultMinGap), nil
}

func storyboardPath(originalName, sourceDir, customName string) string {
	dir := outputDir
	if strings.TrimSpace(dir) == "" {
		dir = sourceDir
	}
	name := strings.TrimSpace(customName)
	if name == "" {
		name = strings.TrimSuffix(originalName, filepath.Ext(originalName)) + "_storyboard"
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		name += ".pdf"
	}
	return filepath.Join(dir, name)
}

func init() {
	storyboardCmd.Flags().StringVar(&storyboardProject, "project", "", "Kayıtlı proje kimliği")
	storyboardCmd.Flags().IntVarP(&storyboardCount, "count", "n", thumbnail.DefaultCount, "Kare sayısı")
	storyboardCmd.Flags().StringVar(&storyboardStart, "start", "", "Aralık başlangıcı")
	storyboardCmd.Flags().StringVar(&storyboardEnd, "end", "", "Aralık bitişi")
	storyboardCmd.Flags().StringVar(&storyboardName, "name", "", "PDF dosya adı")
	rootCmd.AddCommand(storyboardCmd)
}
