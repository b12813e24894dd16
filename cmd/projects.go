package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videotrim-cli/internal/store"
	"github.com/mlihgenel/videotrim-cli/internal/timeutil"
	"github.com/mlihgenel/videotrim-cli/internal/ui"
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"ls"},
	Short:   "Kayıtlı projeleri listeler",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := openStore()
		defer st.Close()
		return listProjects(cmd.Context(), st)
	},
}

var projectsRemoveCmd = &cobra.Command{
	Use:   "rm <id> [id...]",
	Short: "Projeyi ve videosunu siler",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := openStore()
		defer st.Close()
		return removeProjects(cmd.Context(), st, args)
	},
}

var projectsInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Depolama kullanımını gösterir",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := openStore()
		defer st.Close()
		info, err := st.Info(ctxOrBackground(cmd.Context()))
		if err != nil {
			return err
		}
		ui.PrintTable([]string{"Projeler", "Videolar", "Kullanılan"}, [][]string{{
			fmt.Sprintf("%d", info.ProjectCount),
			fmt.Sprintf("%d", info.VideoCount),
			formatBytes(info.UsedBytes),
		}})
		return nil
	},
}

func listProjects(ctx context.Context, st store.Store) error {
	records, err := st.GetAllProjects(ctxOrBackground(ctx))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		ui.PrintInfo("Kayıtlı proje yok. Başlamak için: videotrim edit <video>")
		return nil
	}
	ui.PrintTable([]string{"ID", "Ad", "Süre", "Aralık", "Son Değişiklik"}, projectRows(records))
	return nil
}

func projectRows(records []store.ProjectRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rangeLabel := "-"
		if r.IsLoaded {
			rangeLabel = fmt.Sprintf("%s → %s",
				timeutil.FormatTimeWithMs(msToSec(r.TrimStartMs)),
				timeutil.FormatTimeWithMs(msToSec(r.TrimEndMs)))
		}
		rows = append(rows, []string{
			r.ID,
			r.Name,
			timeutil.FormatTime(msToSec(r.DurationMs)),
			rangeLabel,
			r.LastModified.Local().Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func removeProjects(ctx context.Context, st store.Store, ids []string) error {
	ctx = ctxOrBackground(ctx)
	var failed []string
	for _, id := range ids {
		rec, err := st.GetProject(ctx, id)
		if err != nil || rec == nil {
			ui.PrintWarning("Proje bulunamadı: " + id)
			failed = append(failed, id)
			continue
		}
		if err := st.DeleteVideo(ctx, id); err != nil {
			ui.PrintError(err.Error())
			failed = append(failed, id)
			continue
		}
		if err := st.DeleteProject(ctx, id); err != nil {
			ui.PrintError(err.Error())
			failed = append(failed, id)
			continue
		}
		ui.PrintSuccess(fmt.Sprintf("Silindi: %s (%s)", rec.Name, id))
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d proje silinemedi: %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}

func msToSec(ms int64) float64 {
	return float64(ms) / 1000
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

func ctxOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func init() {
	projectsCmd.AddCommand(projectsRemoveCmd, projectsInfoCmd)
	rootCmd.AddCommand(projectsCmd)
}
