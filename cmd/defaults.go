package cmd

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	envOutput     = "VIDEOTRIM_OUTPUT"
	envWorkers    = "VIDEOTRIM_WORKERS"
	envQuality    = "VIDEOTRIM_QUALITY"
	envConflict   = "VIDEOTRIM_ON_CONFLICT"
	envRetry      = "VIDEOTRIM_RETRY"
	envRetryDelay = "VIDEOTRIM_RETRY_DELAY"
	envReport     = "VIDEOTRIM_REPORT"
	envCodec      = "VIDEOTRIM_CODEC"
	envThumbnails = "VIDEOTRIM_THUMBNAILS"
)

// Öncelik: flag > çevre değişkeni > .videotrim.toml > config.json > varsayılan.
func applyRootDefaults(cmd *cobra.Command) error {
	if !flagChanged(cmd, "output") {
		if v := strings.TrimSpace(os.Getenv(envOutput)); v != "" {
			outputDir = v
		} else if activeProjectConfig != nil && strings.TrimSpace(activeProjectConfig.DefaultOutput) != "" {
			outputDir = strings.TrimSpace(activeProjectConfig.DefaultOutput)
		} else if activeAppConfig != nil && strings.TrimSpace(activeAppConfig.DefaultOutputDir) != "" {
			outputDir = strings.TrimSpace(activeAppConfig.DefaultOutputDir)
		}
	}

	if !flagChanged(cmd, "workers") {
		if v, ok := readEnvInt(envWorkers); ok && v > 0 {
			workers = v
		} else if activeProjectConfig != nil && activeProjectConfig.Workers > 0 {
			workers = activeProjectConfig.Workers
		}
	}

	if !flagChanged(cmd, "log-level") && activeAppConfig != nil {
		logLevel = activeAppConfig.Level()
	}

	return nil
}

func applyThumbnailDefault(cmd *cobra.Command, flagName string, value *int) {
	if flagChanged(cmd, flagName) {
		return
	}
	if v, ok := readEnvInt(envThumbnails); ok && v > 0 {
		*value = v
		return
	}
	if activeProjectConfig != nil && activeProjectConfig.Thumbnails > 0 {
		*value = activeProjectConfig.Thumbnails
		return
	}
	if activeAppConfig != nil {
		*value = activeAppConfig.Thumbnails()
	}
}

func applyQualityDefault(cmd *cobra.Command, flagName string, value *int) {
	if flagChanged(cmd, flagName) {
		return
	}
	if v, ok := readEnvInt(envQuality); ok && v >= 0 {
		*value = v
		return
	}
	if activeProjectConfig != nil && activeProjectConfig.Quality > 0 {
		*value = activeProjectConfig.Quality
	}
}

func applyCodecDefaults(cmd *cobra.Command, codec, format, metadata *string) {
	if !flagChanged(cmd, "codec") {
		if v := strings.TrimSpace(os.Getenv(envCodec)); v != "" {
			*codec = strings.ToLower(v)
		} else if activeProjectConfig != nil && activeProjectConfig.Codec != "" {
			*codec = activeProjectConfig.Codec
		}
	}
	if !flagChanged(cmd, "to") && activeProjectConfig != nil && activeProjectConfig.Format != "" {
		*format = activeProjectConfig.Format
	}
	if !flagChanged(cmd, "metadata") && activeProjectConfig != nil && activeProjectConfig.Metadata != "" {
		*metadata = activeProjectConfig.Metadata
	}
}

func applyOnConflictDefault(cmd *cobra.Command, flagName string, value *string) {
	if flagChanged(cmd, flagName) {
		return
	}
	if v := strings.TrimSpace(os.Getenv(envConflict)); v != "" {
		*value = strings.ToLower(v)
		return
	}
	if activeProjectConfig != nil && strings.TrimSpace(activeProjectConfig.OnConflict) != "" {
		*value = strings.ToLower(strings.TrimSpace(activeProjectConfig.OnConflict))
	}
}

func applyRetryDefaults(cmd *cobra.Command, retryFlag string, retryValue *int, delayFlag string, delayValue *time.Duration) {
	if !flagChanged(cmd, retryFlag) {
		if v, ok := readEnvInt(envRetry); ok && v >= 0 {
			*retryValue = v
		} else if activeProjectConfig != nil && activeProjectConfig.Retry > 0 {
			*retryValue = activeProjectConfig.Retry
		}
	}

	if !flagChanged(cmd, delayFlag) {
		if v, ok := readEnvDuration(envRetryDelay); ok {
			*delayValue = v
		} else if activeProjectConfig != nil && activeProjectConfig.RetryDelay > 0 {
			*delayValue = activeProjectConfig.RetryDelay
		}
	}
}

func applyReportDefault(cmd *cobra.Command, flagName string, value *string) {
	if flagChanged(cmd, flagName) {
		return
	}
	if v := strings.TrimSpace(os.Getenv(envReport)); v != "" {
		*value = strings.ToLower(v)
		return
	}
	if activeProjectConfig != nil && strings.TrimSpace(activeProjectConfig.ReportFormat) != "" {
		*value = strings.ToLower(strings.TrimSpace(activeProjectConfig.ReportFormat))
	}
}

// flagChanged kalıcı (persistent) flag'leri de hesaba katar.
func flagChanged(cmd *cobra.Command, name string) bool {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f.Changed
	}
	if f := cmd.InheritedFlags().Lookup(name); f != nil {
		return f.Changed
	}
	return false
}

func readEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func readEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
