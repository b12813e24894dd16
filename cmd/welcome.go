package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mlihgenel/videotrim-cli/internal/config"
	"github.com/mlihgenel/videotrim-cli/internal/media"
	"github.com/mlihgenel/videotrim-cli/internal/ui"
)

var welcomeArt = []string{
	"  ██╗   ██╗██╗██████╗ ███████╗ ██████╗ ████████╗██████╗ ██╗███╗   ███╗",
	"  ██║   ██║██║██╔══██╗██╔════╝██╔═══██╗╚══██╔══╝██╔══██╗██║████╗ ████║",
	"  ██║   ██║██║██║  ██║█████╗  ██║   ██║   ██║   ██████╔╝██║██╔████╔██║",
	"  ╚██╗ ██╔╝██║██║  ██║██╔══╝  ██║   ██║   ██║   ██╔══██╗██║██║╚██╔╝██║",
	"   ╚████╔╝ ██║██████╔╝███████╗╚██████╔╝   ██║   ██║  ██║██║██║ ╚═╝ ██║",
	"    ╚═══╝  ╚═╝╚═════╝ ╚══════╝ ╚═════╝    ╚═╝   ╚═╝  ╚═╝╚═╝╚═╝     ╚═╝",
}

// İlk açılış için sade tonlar
var welcomeGradient = []lipgloss.Color{
	"#F1F5F9", "#E2E8F0", "#CBD5E1", "#94A3B8", "#64748B", "#94A3B8",
}

var welcomeDescLines = []string{
	"VideoTrim'e hoş geldiniz!",
	"",
	"Videolarınızı terminalden, yerel olarak kırpın. Hiçbir şey yüklenmez.",
	"",
	"  Fare ile başlangıç/bitiş tutamaçlarını sürükleyin",
	"  Önizleme kareleriyle aralığı görün, yalnızca seçili bölümü oynatın",
	"  Projeler kaydedilir; videotrim projects ile devam edin",
}

// renderWelcome karşılama metnini ve bağımlılık durumunu hazırlar.
func renderWelcome(deps []media.ExternalTool) string {
	var b strings.Builder
	for i, line := range welcomeArt {
		color := welcomeGradient[i%len(welcomeGradient)]
		b.WriteString(lipgloss.NewStyle().Foreground(color).Bold(true).Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for _, line := range welcomeDescLines {
		b.WriteString(textStyle.Render("  " + line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	missing := 0
	for _, d := range deps {
		if d.Available {
			b.WriteString(successStyle.Render(fmt.Sprintf("  ✓ %s bulundu", d.Name)))
		} else {
			missing++
			b.WriteString(errorStyle.Render(fmt.Sprintf("  ✗ %s bulunamadı", d.Name)))
		}
		b.WriteString("\n")
	}
	if missing > 0 {
		b.WriteString(dimStyle.Render("  Kurulum: brew install ffmpeg  |  sudo apt install ffmpeg  |  https://ffmpeg.org/download.html"))
		b.WriteString("\n")
	}
	return b.String()
}

// showWelcomeOnce ilk çalıştırmada karşılama ekranını basar ve işaretler.
func showWelcomeOnce() {
	if !config.IsFirstRun() {
		return
	}
	fmt.Fprintln(ui.Out, renderWelcome(media.CheckDependencies()))
	if err := config.MarkFirstRunDone(); err != nil {
		rootLogger.Warn().Err(err).Msg("ilk çalıştırma işareti kaydedilemedi")
	}
}
