package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	ConflictOverwrite = "overwrite"
	ConflictSkip      = "skip"
	ConflictVersioned = "versioned"
)

// ErrSkipped çakışma politikası skip iken hedef dosya mevcutsa döner.
var ErrSkipped = errors.New("hedef dosya mevcut, işlem atlandı")

// NormalizeConflictPolicy geçersiz/boş değerlerde varsayılan policy döner.
func NormalizeConflictPolicy(policy string) string {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case ConflictOverwrite:
		return ConflictOverwrite
	case ConflictSkip:
		return ConflictSkip
	case ConflictVersioned, "":
		return ConflictVersioned
	default:
		return ""
	}
}

// ResolveOutputPath hedef dosya adı çakışmasını verilen policy'ye göre çözer.
// skip=true dönerse yazma yapılmamalıdır.
func ResolveOutputPath(path, policy string) (resolved string, skip bool, err error) {
	normalized := NormalizeConflictPolicy(policy)
	if normalized == "" {
		return "", false, fmt.Errorf("geçersiz on-conflict politikası: %s", policy)
	}

	if _, statErr := os.Stat(path); statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return path, false, nil
		}
		return "", false, statErr
	}

	switch normalized {
	case ConflictOverwrite:
		return path, false, nil
	case ConflictSkip:
		return path, true, nil
	default:
		ext := filepath.Ext(path)
		base := strings.TrimSuffix(path, ext)
		for i := 1; i < 100000; i++ {
			candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
			if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
				return candidate, false, nil
			} else if err != nil {
				return "", false, err
			}
		}
		return "", false, fmt.Errorf("uygun versioned dosya adı bulunamadı")
	}
}

// BuildOutputPath orijinal dosya adından "<ad>_trim.<format>" biçiminde çıktı yolu üretir.
func BuildOutputPath(originalName, outputDir, targetFormat, customName string) string {
	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	if customName != "" {
		base = strings.TrimSuffix(customName, filepath.Ext(customName))
	} else {
		base += "_trim"
	}
	format := NormalizeFormat(targetFormat)
	if format == "" {
		format = FormatOf(originalName)
	}
	if format == "" {
		format = "mp4"
	}
	name := base + "." + format
	if outputDir == "" {
		return name
	}
	return filepath.Join(outputDir, name)
}

// WriteOutput çakışmayı çözer ve veriyi atomik olarak yazar. Yazılan yolu döner.
func WriteOutput(path string, data []byte, policy string) (string, error) {
	resolved, skip, err := ResolveOutputPath(path, policy)
	if err != nil {
		return "", &Error{Op: "output", Err: err}
	}
	if skip {
		return resolved, ErrSkipped
	}
	if dir := filepath.Dir(resolved); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", &Error{Op: "output", Err: err}
		}
	}
	if err := writeAtomic(resolved, data); err != nil {
		return "", &Error{Op: "output", Err: err}
	}
	return resolved, nil
}
