package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// HomeEnv yapılandırma dizinini değiştirmek için kullanılan çevre değişkeni.
const HomeEnv = "VIDEOTRIM_HOME"

const (
	// DefaultThumbnailCount şeritteki varsayılan kare sayısı.
	DefaultThumbnailCount = 10
	// DefaultLogLevel varsayılan log seviyesi.
	DefaultLogLevel = "info"
)

// AppConfig uygulama yapılandırmasını tutar
type AppConfig struct {
	FirstRunCompleted bool   `json:"first_run_completed"`
	DefaultOutputDir  string `json:"default_output_dir,omitempty"`
	ThumbnailCount    int    `json:"thumbnail_count,omitempty"`
	LogLevel          string `json:"log_level,omitempty"`
	StorePath         string `json:"store_path,omitempty"`
}

// Dir yapılandırma dizinini döner (~/.videotrim ya da $VIDEOTRIM_HOME)
func Dir() (string, error) {
	if env := strings.TrimSpace(os.Getenv(HomeEnv)); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".videotrim"), nil
}

// configPath yapılandırma dosya yolunu döner
func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig yapılandırmayı dosyadan okur. Dosya yoksa ya da bozuksa varsayılanı döner.
func LoadConfig() (*AppConfig, error) {
	path, err := configPath()
	if err != nil {
		return &AppConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &AppConfig{}, nil
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return &AppConfig{}, nil
	}

	return &cfg, nil
}

// SaveConfig yapılandırmayı dosyaya kaydeder
func SaveConfig(cfg *AppConfig) error {
	dir, err := Dir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Thumbnails yapılandırılmış kare sayısını, yoksa varsayılanı döner.
func (c *AppConfig) Thumbnails() int {
	if c == nil || c.ThumbnailCount <= 0 {
		return DefaultThumbnailCount
	}
	return c.ThumbnailCount
}

// Level log seviyesini döner.
func (c *AppConfig) Level() string {
	if c == nil || strings.TrimSpace(c.LogLevel) == "" {
		return DefaultLogLevel
	}
	return strings.ToLower(strings.TrimSpace(c.LogLevel))
}

// ResolveStorePath proje veritabanının yolunu döner.
func (c *AppConfig) ResolveStorePath() (string, error) {
	if c != nil && strings.TrimSpace(c.StorePath) != "" {
		return c.StorePath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "projects.db"), nil
}

// CacheDir geri yüklenen videoların geçici kopyaları için dizini döner.
func CacheDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache"), nil
}

// LogPath log dosyasının yolunu döner.
func LogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "videotrim.log"), nil
}

// IsFirstRun uygulamanın ilk kez çalıştırılıp çalıştırılmadığını kontrol eder
func IsFirstRun() bool {
	cfg, _ := LoadConfig()
	return !cfg.FirstRunCompleted
}

// MarkFirstRunDone ilk çalıştırma tamamlandı olarak işaretler
func MarkFirstRunDone() error {
	cfg, _ := LoadConfig()
	cfg.FirstRunCompleted = true
	return SaveConfig(cfg)
}

// GetDefaultOutputDir varsayılan çıktı dizinini döner
func GetDefaultOutputDir() string {
	cfg, _ := LoadConfig()
	return cfg.DefaultOutputDir
}

// SetDefaultOutputDir varsayılan çıktı dizinini kaydeder
func SetDefaultOutputDir(dir string) error {
	cfg, _ := LoadConfig()
	cfg.DefaultOutputDir = dir
	return SaveConfig(cfg)
}
