//go:build windows

package export

import "os"

func writeAtomic(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}
