package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func invalidSeconds(v float64) bool {
	return v == 0 || math.IsNaN(v) || math.IsInf(v, 0) || v < 0
}

// FormatTime saniyeyi "MM:SS" olarak biçimlendirir. Geçersiz değerlerde "00:00" döner.
func FormatTime(seconds float64) string {
	if invalidSeconds(seconds) {
		return "00:00"
	}
	minutes := int(math.Floor(seconds / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// FormatTimeWithMs saniyeyi "MM:SS.mmm" olarak biçimlendirir. Geçersiz değerlerde "00:00.000" döner.
func FormatTimeWithMs(seconds float64) string {
	if invalidSeconds(seconds) {
		return "00:00.000"
	}
	minutes := int(math.Floor(seconds / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	// 65.25 gibi değerlerde kayan nokta hatası 249'a düşürmesin diye mikro pay eklenir.
	millis := int(math.Floor(math.Mod(seconds, 1)*1000 + 1e-6))
	if millis > 999 {
		millis = 999
	}
	return fmt.Sprintf("%02d:%02d.%03d", minutes, secs, millis)
}

// FormatHuman saniyeyi CLI çıktısı için okunabilir biçime çevirir (1h02m03.5s gibi).
func FormatHuman(value float64) string {
	if value < 0 {
		value = 0
	}
	total := int(value)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := value - float64(hours*3600+minutes*60)
	secText := strconv.FormatFloat(RoundToMillis(secs), 'f', -1, 64)

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh%02dm%ss", hours, minutes, secText)
	case minutes > 0:
		return fmt.Sprintf("%dm%ss", minutes, secText)
	default:
		return secText + "s"
	}
}

// FormatFFmpeg saniyeyi ffmpeg argümanı olarak yazar.
func FormatFFmpeg(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// ParseSeconds "SS", "SS.sss", "MM:SS" veya "HH:MM:SS" biçimindeki değeri saniyeye çevirir.
// Ondalık ayırıcı olarak virgül de kabul edilir.
func ParseSeconds(raw string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if normalized == "" {
		return 0, fmt.Errorf("boş değer")
	}

	if strings.Contains(normalized, ":") {
		parts := strings.Split(normalized, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return 0, fmt.Errorf("zaman formatı hatalı")
		}

		parsed := make([]float64, len(parts))
		for i, part := range parts {
			p := strings.TrimSpace(part)
			if p == "" {
				return 0, fmt.Errorf("zaman formatı hatalı")
			}
			v, err := strconv.ParseFloat(p, 64)
			if err != nil || v < 0 {
				return 0, fmt.Errorf("zaman formatı hatalı")
			}
			parsed[i] = v
		}

		if len(parsed) == 2 {
			if parsed[1] >= 60 {
				return 0, fmt.Errorf("saniye 60'tan küçük olmalı")
			}
			return parsed[0]*60 + parsed[1], nil
		}

		if parsed[1] >= 60 || parsed[2] >= 60 {
			return 0, fmt.Errorf("dakika/saniye 60'tan küçük olmalı")
		}
		return parsed[0]*3600 + parsed[1]*60 + parsed[2], nil
	}

	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("geçersiz sayı")
	}
	return v, nil
}
