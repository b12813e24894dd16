// Package logging editörün ve CLI'ın zerolog tabanlı log kurulumunu içerir.
// Terminal arayüzü stdout'u kullandığı için loglar dosyaya yazılır.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config log kurulumu seçenekleri.
type Config struct {
	Level  string    // "debug", "info", "warn", "error"; boşsa info
	Path   string    // log dosyası; Output verilmişse kullanılmaz
	Output io.Writer // test ve --log-file=- için doğrudan yazıcı
}

// ParseLevel seviye adını çözer; tanınmayan değerler hata döner.
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel, fmt.Errorf("gecersiz log seviyesi: %s", level)
	}
	return parsed, nil
}

// New yapılandırmaya göre kök logger'ı kurar. Dönen Closer log dosyasını kapatır.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	writer := cfg.Output
	var closer io.Closer = nopCloser{}
	if writer == nil {
		if strings.TrimSpace(cfg.Path) == "" {
			return zerolog.Nop(), closer, nil
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("log dizini oluşturulamadı: %w", err)
		}
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("log dosyası açılamadı: %w", err)
		}
		writer = f
		closer = f
	}

	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(writer).Level(level).With().
		Timestamp().
		Str("service", "videotrim").
		Logger()
	return logger, closer, nil
}

// WithComponent bileşen adıyla işaretlenmiş alt logger döner.
func WithComponent(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
