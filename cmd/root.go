package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mlihgenel/videotrim-cli/internal/config"
	"github.com/mlihgenel/videotrim-cli/internal/logging"
)

var (
	outputDir string
	workers   int
	logLevel  string
	noStore   bool

	activeAppConfig     *config.AppConfig
	activeProjectConfig *config.ProjectConfig

	rootLogger = zerolog.Nop()
	logCloser  io.Closer

	appVersion = "dev"
	appCommit  = "none"
	appDate    = ""
)

// SetVersionInfo build-time version bilgisini ayarlar
func SetVersionInfo(version, commit, date string) {
	if strings.TrimSpace(version) != "" {
		appVersion = version
	}
	if strings.TrimSpace(commit) != "" {
		appCommit = commit
	}
	appDate = strings.TrimSpace(date)
	if appDate == "" || appDate == "unknown" {
		appDate = time.Now().Format("2006-01-02 15:04:05")
	}
	rootCmd.Version = appVersion
	rootCmd.SetVersionTemplate(versionTemplate())
}

func versionTemplate() string {
	return fmt.Sprintf(
		"VideoTrim CLI v%s\nCommit: %s\nTarih:  %s\nGo:     %s\nOS:     %s/%s\n",
		appVersion, appCommit, appDate, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	)
}

var rootCmd = &cobra.Command{
	Use:   "videotrim [video]",
	Short: "VideoTrim CLI - terminalde video kırpma",
	Long: `VideoTrim CLI — Videolarınızı terminalden, yerel olarak kırpın.

Zaman çizelgesi üzerinde fare ile başlangıç/bitiş tutamaçlarını sürükleyin,
önizleme kareleriyle aralığı görün, seçili bölümü oynatın ve dışa aktarın.
Projeler yerel bir veritabanında saklanır; kaldığınız yerden devam edebilirsiniz.

Örnekler:
  videotrim klip.mp4
  videotrim edit --project 3f2a...
  videotrim projects
  videotrim export 3f2a... --to mp4 --codec copy
  videotrim export --all --report json
  videotrim thumbs klip.mp4 --count 12
  videotrim storyboard klip.mp4 --start 00:10 --end 01:05`,
	Args:    cobra.MaximumNArgs(1),
	Version: appVersion,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupEnvironment(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeEnvironment()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Video verilirse doğrudan editörü aç
		if len(args) == 1 {
			return runEdit(cmd, args[0], "")
		}
		showWelcomeOnce()
		return cmd.Help()
	},
}

// Execute CLI'ı çalıştırır
func Execute() error {
	return rootCmd.Execute()
}

// setupEnvironment yapılandırmayı okur ve logger'ı kurar.
func setupEnvironment(cmd *cobra.Command) error {
	cfg, _ := config.LoadConfig()
	activeAppConfig = cfg

	if wd, err := os.Getwd(); err == nil {
		projectCfg, _, err := config.LoadProjectConfig(wd)
		if err != nil {
			return fmt.Errorf("proje yapılandırması okunamadı: %w", err)
		}
		activeProjectConfig = projectCfg
	}

	if err := applyRootDefaults(cmd); err != nil {
		return err
	}

	logPath, err := config.LogPath()
	if err != nil {
		logPath = ""
	}
	logger, closer, err := logging.New(logging.Config{Level: logLevel, Path: logPath})
	if err != nil {
		return err
	}
	rootLogger = logger
	logCloser = closer
	rootLogger.Debug().Str("command", cmd.Name()).Str("version", appVersion).Msg("komut başlatıldı")
	return nil
}

func closeEnvironment() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Çıktı dizini (varsayılan: kaynak dizin)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "Paralel worker sayısı (export --all)")
	rootCmd.PersistentFlags().BoolVar(&noStore, "no-store", false, "Projeleri kaydetme (yalnızca bellek)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log seviyesi (debug, info, warn, error)")

	SetVersionInfo(appVersion, appCommit, appDate)

	// Hata mesajlarını özelleştir
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintf(os.Stderr, "Hata: %s\n\n", err.Error())
		cmd.Usage()
		return err
	})
}
