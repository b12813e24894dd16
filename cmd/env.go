package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mlihgenel/videotrim-cli/internal/config"
	"github.com/mlihgenel/videotrim-cli/internal/export"
	"github.com/mlihgenel/videotrim-cli/internal/logging"
	"github.com/mlihgenel/videotrim-cli/internal/store"
	"github.com/mlihgenel/videotrim-cli/internal/ui"
)

// exportOptions dışa aktarma flag'lerinin çözülmüş halidir.
type exportOptions struct {
	Format     string
	Codec      string
	Quality    int
	Metadata   string
	OnConflict string
}

func (o exportOptions) validate() error {
	if export.NormalizeCodec(o.Codec) == "" {
		return fmt.Errorf("geçersiz codec modu: %s (auto|copy|reencode)", o.Codec)
	}
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("kalite 0-100 aralığında olmalı")
	}
	switch strings.ToLower(strings.TrimSpace(o.Metadata)) {
	case "", export.MetadataAuto, export.MetadataPreserve, export.MetadataStrip:
	default:
		return fmt.Errorf("geçersiz metadata modu: %s (auto|preserve|strip)", o.Metadata)
	}
	return nil
}

// encoderFactory proje dosya adına göre ffmpeg kodlayıcısı üretir.
func (o exportOptions) encoderFactory(logger zerolog.Logger) func(originalName string) export.Encoder {
	log := logging.WithComponent(logger, "export")
	return func(originalName string) export.Encoder {
		return &export.FFmpegEncoder{
			InputFormat:  export.FormatOf(originalName),
			TargetFormat: o.targetFormat(originalName),
			Codec:        export.NormalizeCodec(o.Codec),
			Quality:      o.Quality,
			Metadata:     o.Metadata,
			Logger:       log,
		}
	}
}

func (o exportOptions) targetFormat(originalName string) string {
	if f := export.NormalizeFormat(o.Format); f != "" {
		return f
	}
	return export.FormatOf(originalName)
}

// outputPathFor çıktı dizini verilmemişse kaynak dizinini kullanır.
func (o exportOptions) outputPathFor(originalName, sourceDir, customName string) string {
	dir := outputDir
	if strings.TrimSpace(dir) == "" {
		dir = sourceDir
	}
	return export.BuildOutputPath(originalName, dir, o.targetFormat(originalName), customName)
}

// openStore proje veritabanını açar. Açılamazsa bellek deposuna düşer; düzenleme engellenmez.
func openStore() store.Store {
	log := logging.WithComponent(rootLogger, "store")
	if noStore {
		log.Debug().Msg("--no-store: bellek deposu kullanılıyor")
		return store.NewMemoryStore()
	}
	path, err := activeAppConfig.ResolveStorePath()
	if err == nil {
		st, openErr := store.OpenSQLite(path)
		if openErr == nil {
			log.Debug().Str("path", path).Msg("proje veritabanı açıldı")
			return st
		}
		err = openErr
	}
	log.Warn().Err(err).Msg("proje veritabanı açılamadı, bellek deposu kullanılıyor")
	ui.PrintWarning("Proje veritabanı açılamadı, değişiklikler kaydedilmeyecek: " + err.Error())
	return store.NewMemoryStore()
}

func cacheDir() string {
	dir, err := config.CacheDir()
	if err != nil {
		return ""
	}
	return dir
}

func shortenPath(path string) string {
	if rel, err := filepath.Rel(".", path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
