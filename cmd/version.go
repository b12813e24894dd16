package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videotrim-cli/internal/media"
	"github.com/mlihgenel/videotrim-cli/internal/ui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Sürüm ve harici bağımlılık durumunu gösterir",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(ui.Out, versionTemplate())
		fmt.Fprintln(ui.Out)
		ui.PrintTable([]string{"Araç", "Durum", "Sürüm"}, dependencyRows(media.CheckDependencies()))
	},
}

func dependencyRows(tools []media.ExternalTool) [][]string {
	rows := make([][]string, 0, len(tools))
	for _, t := range tools {
		status := "✗ bulunamadı"
		version := "-"
		if t.Available {
			status = "✓ " + t.Path
			if t.Version != "" {
				version = t.Version
			}
		}
		rows = append(rows, []string{t.Name, status, version})
	}
	return rows
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
