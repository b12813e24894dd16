// Package export seçili trim aralığını ffmpeg ile yeni bir video dosyasına dönüştürür.
package export

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Encoder trim-ve-kodla sözleşmesidir: kaynak baytları ve [start, end] aralığı
// alır, çıktı baytlarını döner.
type Encoder interface {
	TrimAndEncode(ctx context.Context, src []byte, start, end float64) ([]byte, error)
}

const (
	CodecAuto     = "auto"
	CodecCopy     = "copy"
	CodecReencode = "reencode"
)

const (
	MetadataAuto     = "auto"
	MetadataPreserve = "preserve"
	MetadataStrip    = "strip"
)

// Error dışa aktarma hatasıdır. Kullanıcı işlemi yeniden deneyebilir.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("dışa aktarma başarısız (%s): %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NormalizeFormat uzantı veya format adını küçük harfe ve noktasız hale getirir.
func NormalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	format = strings.TrimPrefix(format, ".")
	if format == "m4v" {
		return "mp4"
	}
	return format
}

// FormatOf dosya adından formatı çıkarır.
func FormatOf(name string) string {
	return NormalizeFormat(filepath.Ext(name))
}

// NormalizeCodec codec modunu normalize eder; geçersiz değerde boş döner.
func NormalizeCodec(codec string) string {
	switch strings.ToLower(strings.TrimSpace(codec)) {
	case "", CodecAuto:
		return CodecAuto
	case CodecCopy:
		return CodecCopy
	case CodecReencode, "re-encode":
		return CodecReencode
	default:
		return ""
	}
}

// ResolveCodec istenen codec modunu kaynak ve hedef formata göre etkin moda çevirir.
// İkinci dönüş değeri kullanıcıya gösterilebilecek bir nottur.
func ResolveCodec(inputFormat, targetFormat, requested string) (string, string, error) {
	mode := NormalizeCodec(requested)
	if mode == "" {
		return "", "", fmt.Errorf("geçersiz codec modu: %s (auto|copy|reencode)", requested)
	}
	inputFormat = NormalizeFormat(inputFormat)
	targetFormat = NormalizeFormat(targetFormat)

	switch mode {
	case CodecReencode:
		return CodecReencode, "", nil
	case CodecCopy:
		if inputFormat != "" && targetFormat != "" && inputFormat != targetFormat {
			return "", "", fmt.Errorf(
				"--codec copy yalnızca aynı formatta güvenlidir (%s -> %s). --codec auto veya --codec reencode kullanın",
				inputFormat, targetFormat,
			)
		}
		return CodecCopy, "", nil
	default:
		if inputFormat == "" || targetFormat == "" {
			return CodecReencode, "codec auto: format tespit edilemediği için uyumluluk amaçlı reencode seçildi.", nil
		}
		if inputFormat == targetFormat {
			return CodecCopy, fmt.Sprintf("codec auto: %s -> %s aynı format, copy seçildi.", inputFormat, targetFormat), nil
		}
		return CodecReencode, fmt.Sprintf("codec auto: %s -> %s farklı format, reencode seçildi.", inputFormat, targetFormat), nil
	}
}

// CodecArgs etkin codec moduna göre ffmpeg argümanlarını döner.
func CodecArgs(targetFormat, codec string, quality int) []string {
	if codec == CodecCopy {
		return []string{"-c", "copy"}
	}
	return reencodeArgs(targetFormat, quality)
}

func reencodeArgs(targetFormat string, quality int) []string {
	crf := crfFor(quality)

	switch NormalizeFormat(targetFormat) {
	case "gif":
		return []string{"-loop", "0", "-an"}
	case "webm":
		webmCRF := crf + 6
		if webmCRF > 40 {
			webmCRF = 40
		}
		return []string{
			"-c:v", "libvpx-vp9",
			"-crf", strconv.Itoa(webmCRF),
			"-b:v", "0",
			"-row-mt", "1",
			"-c:a", "libopus",
			"-b:a", "128k",
		}
	case "avi":
		return []string{
			"-c:v", "mpeg4",
			"-q:v", strconv.Itoa(qscaleFor(quality)),
			"-c:a", "mp3",
			"-b:a", "192k",
		}
	case "mp4", "mov":
		return []string{
			"-c:v", "libx264",
			"-crf", strconv.Itoa(crf),
			"-preset", "medium",
			"-pix_fmt", "yuv420p",
			"-movflags", "+faststart",
			"-c:a", "aac",
			"-b:a", "128k",
		}
	default:
		return []string{
			"-c:v", "libx264",
			"-crf", strconv.Itoa(crf),
			"-preset", "medium",
			"-pix_fmt", "yuv420p",
			"-c:a", "aac",
			"-b:a", "128k",
		}
	}
}

// MetadataArgs metadata moduna göre ffmpeg argümanlarını döner.
func MetadataArgs(mode string) []string {
	if strings.ToLower(strings.TrimSpace(mode)) == MetadataStrip {
		return []string{"-map_metadata", "-1"}
	}
	return nil
}

func crfFor(quality int) int {
	if quality <= 0 {
		return 23
	}
	switch {
	case quality <= 25:
		return 30
	case quality <= 50:
		return 27
	case quality <= 75:
		return 24
	default:
		return 20
	}
}

func qscaleFor(quality int) int {
	if quality <= 0 {
		return 5
	}
	switch {
	case quality <= 25:
		return 8
	case quality <= 50:
		return 6
	case quality <= 75:
		return 4
	default:
		return 2
	}
}
