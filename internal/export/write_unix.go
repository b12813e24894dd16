//go:build !windows

package export

import (
	"fmt"

	"github.com/google/renameio/v2"
)

func writeAtomic(path string, data []byte) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644))
	if err != nil {
		return fmt.Errorf("geçici çıktı dosyası oluşturulamadı: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("çıktı yazılamadı: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("çıktı dosyası yerleştirilemedi: %w", err)
	}
	return nil
}
