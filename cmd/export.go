package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videotrim-cli/internal/batch"
	"github.com/mlihgenel/videotrim-cli/internal/export"
	"github.com/mlihgenel/videotrim-cli/internal/logging"
	"github.com/mlihgenel/videotrim-cli/internal/session"
	"github.com/mlihgenel/videotrim-cli/internal/store"
	"github.com/mlihgenel/videotrim-cli/internal/timeutil"
	"github.com/mlihgenel/videotrim-cli/internal/ui"
)

var (
	exportAll        bool
	exportName       string
	exportStart      string
	exportEnd        string
	exportFormat     string
	exportCodec      string
	exportQuality    int
	exportMetadata   string
	exportOnConflict string
	exportRetry      int
	exportRetryDelay time.Duration
	exportReport     string
	exportReportFile string
)

var exportCmd = &cobra.Command{
	Use:   "export [id...]",
	Short: "Kayıtlı projelerin trim aralığını dışa aktarır",
	Long: `Kayıtlı projelerin trim aralığını editörü açmadan dışa aktarır.
Birden fazla proje paralel işlenir; başarısız işler --retry kadar yeniden denenir.

Örnekler:
  videotrim export 3f2a...
  videotrim export 3f2a... --start 00:05 --end 00:42.5 --name kisa
  videotrim export --all --to mp4 --codec reencode --report json --report-file rapor.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !exportAll && len(args) == 0 {
			return fmt.Errorf("proje ID'si veya --all gerekli")
		}
		if exportAll && len(args) > 0 {
			return fmt.Errorf("--all ile proje ID'si birlikte kullanılamaz")
		}
		if (exportStart != "" || exportEnd != "" || exportName != "") && len(args) != 1 {
			return fmt.Errorf("--start, --end ve --name yalnızca tek proje ile kullanılabilir")
		}

		opts, err := resolveExportOptions(cmd)
		if err != nil {
			return err
		}

		st := openStore()
		defer st.Close()
		return runExport(ctxOrBackground(cmd.Context()), st, args, opts)
	},
}

func resolveExportOptions(cmd *cobra.Command) (exportOptions, error) {
	applyQualityDefault(cmd, "quality", &exportQuality)
	applyCodecDefaults(cmd, &exportCodec, &exportFormat, &exportMetadata)
	applyOnConflictDefault(cmd, "on-conflict", &exportOnConflict)
	applyRetryDefaults(cmd, "retry", &exportRetry, "retry-delay", &exportRetryDelay)
	applyReportDefault(cmd, "report", &exportReport)

	if batch.NormalizeReportFormat(exportReport) == "" {
		return exportOptions{}, fmt.Errorf("geçersiz rapor formatı: %s (off|txt|json)", exportReport)
	}
	opts := exportOptions{
		Format:     exportFormat,
		Codec:      exportCodec,
		Quality:    exportQuality,
		Metadata:   exportMetadata,
		OnConflict: export.NormalizeConflictPolicy(exportOnConflict),
	}
	if opts.OnConflict == "" {
		return opts, fmt.Errorf("geçersiz on-conflict değeri: %s (overwrite|skip|versioned)", exportOnConflict)
	}
	return opts, opts.validate()
}

func runExport(ctx context.Context, st store.Store, ids []string, opts exportOptions) error {
	records, err := selectRecords(ctx, st, ids)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		ui.PrintInfo("Dışa aktarılacak proje yok.")
		return nil
	}
	if len(ids) == 1 && (exportStart != "" || exportEnd != "") {
		updated, err := overrideRange(ctx, st, records[0], exportStart, exportEnd)
		if err != nil {
			return err
		}
		records[0] = updated
	}

	jobs, byID := buildExportJobs(records, opts, exportName)
	newEncoder := opts.encoderFactory(rootLogger)
	log := logging.WithComponent(rootLogger, "batch")

	pool := batch.NewPool(workers, func(ctx context.Context, job batch.Job) (string, error) {
		rec := byID[job.ProjectID]
		return session.ExportStored(ctx, st, job.ProjectID, newEncoder(rec.OriginalName), job.OutputPath, opts.OnConflict)
	})
	pool.SetRetry(exportRetry, exportRetryDelay)

	progress := ui.NewProgressBar(len(jobs), "Dışa aktarma")
	pool.OnProgress = func(completed, total int) {
		progress.Update(completed)
	}

	started := time.Now()
	results := pool.Execute(ctx, jobs)
	ended := time.Now()
	summary := batch.GetSummary(results, ended.Sub(started))

	for _, r := range results {
		switch {
		case r.Success:
			ui.PrintExport(r.Job.Name, shortenPath(r.Written))
		case r.Error != nil:
			log.Error().Err(r.Error).Str("project", r.Job.ProjectID).Int("attempts", r.Attempts).Msg("dışa aktarma başarısız")
			ui.PrintError(fmt.Sprintf("%s: %v", r.Job.Name, r.Error))
		}
	}
	ui.PrintBatchSummary(summary.Total, summary.Succeeded, summary.Skipped, summary.Failed, summary.Duration)

	if err := writeExportReport(summary, results, started, ended); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d proje dışa aktarılamadı", summary.Failed)
	}
	return nil
}

func selectRecords(ctx context.Context, st store.Store, ids []string) ([]store.ProjectRecord, error) {
	if len(ids) == 0 {
		return st.GetAllProjects(ctx)
	}
	records := make([]store.ProjectRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := st.GetProject(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, fmt.Errorf("proje bulunamadı: %s", id)
		}
		records = append(records, *rec)
	}
	return records, nil
}

// overrideRange --start/--end değerlerini doğrular ve projeye kaydeder.
func overrideRange(ctx context.Context, st store.Store, rec store.ProjectRecord, startRaw, endRaw string) (store.ProjectRecord, error) {
	if !rec.IsLoaded || rec.DurationMs <= 0 {
		return rec, fmt.Errorf("%s için video süresi bilinmiyor; önce editörde açın", rec.Name)
	}
	duration := msToSec(rec.DurationMs)
	start := msToSec(rec.TrimStartMs)
	end := msToSec(rec.TrimEndMs)
	if startRaw != "" {
		v, err := timeutil.ParseSeconds(startRaw)
		if err != nil {
			return rec, fmt.Errorf("--start: %w", err)
		}
		start = v
	}
	if endRaw != "" {
		v, err := timeutil.ParseSeconds(endRaw)
		if err != nil {
			return rec, fmt.Errorf("--end: %w", err)
		}
		end = v
	}
	if end <= start {
		return rec, fmt.Errorf("bitiş başlangıçtan büyük olmalı")
	}

	r := timeutil.ValidateTrimRange(start, end, duration, timeutil.DefaultMinGap)
	rec.TrimStartMs = int64(math.Round(r.Start * 1000))
	rec.TrimEndMs = int64(math.Round(r.End * 1000))
	rec.LastModified = time.Now()
	if err := st.StoreProject(ctx, rec); err != nil {
		return rec, err
	}
	return rec, nil
}

func buildExportJobs(records []store.ProjectRecord, opts exportOptions, customName string) ([]batch.Job, map[string]store.ProjectRecord) {
	jobs := make([]batch.Job, 0, len(records))
	byID := make(map[string]store.ProjectRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
		job := batch.Job{
			ProjectID:  rec.ID,
			Name:       rec.Name,
			OutputPath: opts.outputPathFor(rec.OriginalName, ".", customName),
		}
		if !rec.IsLoaded || rec.TrimEndMs <= rec.TrimStartMs {
			job.SkipReason = "no_range"
		}
		jobs = append(jobs, job)
	}
	return jobs, byID
}

func writeExportReport(summary batch.Summary, results []batch.JobResult, started, ended time.Time) error {
	text, err := batch.RenderReport(exportReport, summary, results, started, ended)
	if err != nil || text == "" {
		return err
	}
	if strings.TrimSpace(exportReportFile) == "" {
		fmt.Fprintln(ui.Out, text)
		return nil
	}
	if err := os.WriteFile(exportReportFile, []byte(text), 0644); err != nil {
		return fmt.Errorf("rapor yazılamadı: %w", err)
	}
	ui.PrintInfo("Rapor yazıldı: " + exportReportFile)
	return nil
}

func init() {
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Tüm kayıtlı projeleri dışa aktar")
	exportCmd.Flags().StringVar(&exportName, "name", "", "Çıktı dosya adı (tek proje)")
	exportCmd.Flags().StringVar(&exportStart, "start", "", "Başlangıç (SS, MM:SS veya HH:MM:SS)")
	exportCmd.Flags().StringVar(&exportEnd, "end", "", "Bitiş (SS, MM:SS veya HH:MM:SS)")
	exportCmd.Flags().IntVar(&exportRetry, "retry", 0, "Başarısız işler için tekrar sayısı")
	exportCmd.Flags().DurationVar(&exportRetryDelay, "retry-delay", 500*time.Millisecond, "Tekrarlar arası bekleme")
	exportCmd.Flags().StringVar(&exportReport, "report", batch.ReportOff, "Rapor formatı: off, txt, json")
	exportCmd.Flags().StringVar(&exportReportFile, "report-file", "", "Raporun yazılacağı dosya")
	addExportFlags(exportCmd, &exportFormat, &exportCodec, &exportQuality, &exportMetadata, &exportOnConflict)

	rootCmd.AddCommand(exportCmd)
}
