// Package media FFmpeg/FFprobe tabanlı decode yüzeyini ve araç keşfini içerir.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/mlihgenel/videotrim-cli/internal/timeutil"
)

// ExternalTool harici bir aracın durumunu temsil eder
type ExternalTool struct {
	Name      string
	Available bool
	Path      string
	Version   string
}

func findTool(name, envKey string) (string, error) {
	if envPath := os.Getenv(envKey); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	paths := []string{name}
	if runtime.GOOS == "darwin" {
		paths = append(paths, "/opt/homebrew/bin/"+name, "/usr/local/bin/"+name)
	} else if runtime.GOOS == "linux" {
		paths = append(paths, "/usr/bin/"+name, "/usr/local/bin/"+name)
	}

	for _, p := range paths {
		if path, err := exec.LookPath(p); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf(
		"%s bulunamadı! Video işlemleri için FFmpeg kurulu olmalıdır.\n\n"+
			"Kurulum:\n"+
			"  macOS:   brew install ffmpeg\n"+
			"  Ubuntu:  sudo apt install ffmpeg\n"+
			"  Windows: https://ffmpeg.org/download.html\n"+
			"  Veya %s çevre değişkenini ayarlayın\n", name, envKey)
}

// FindFFmpeg sistemde ffmpeg'i arar.
func FindFFmpeg() (string, error) {
	return findTool("ffmpeg", "FFMPEG_PATH")
}

// FindFFprobe sistemde ffprobe'u arar.
func FindFFprobe() (string, error) {
	return findTool("ffprobe", "FFPROBE_PATH")
}

// IsFFmpegAvailable ffmpeg ve ffprobe'un kurulu olup olmadığını kontrol eder
func IsFFmpegAvailable() bool {
	if _, err := FindFFmpeg(); err != nil {
		return false
	}
	_, err := FindFFprobe()
	return err == nil
}

// CheckDependencies harici bağımlılıkların durumunu döner
func CheckDependencies() []ExternalTool {
	var tools []ExternalTool
	for _, t := range []struct {
		name string
		find func() (string, error)
	}{
		{"FFmpeg", FindFFmpeg},
		{"FFprobe", FindFFprobe},
	} {
		tool := ExternalTool{Name: t.name}
		if path, err := t.find(); err == nil {
			tool.Available = true
			tool.Path = path
			if out, err := exec.Command(path, "-version").Output(); err == nil {
				lines := strings.Split(string(out), "\n")
				if len(lines) > 0 {
					tool.Version = strings.TrimSpace(lines[0])
				}
			}
		}
		tools = append(tools, tool)
	}
	return tools
}

// ProbeInfo ffprobe'dan okunan temel bilgiler
type ProbeInfo struct {
	Duration   float64
	Width      int
	Height     int
	VideoCodec string
	AudioCodec string
	FPS        float64
}

// ffprobeResult ffprobe JSON çıktısının ilgili alanları
type ffprobeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width,omitempty"`
		Height     int    `json:"height,omitempty"`
		RFrameRate string `json:"r_frame_rate,omitempty"`
	} `json:"streams"`
}

// Probe ffprobe ile süre ve akış bilgilerini okur.
func Probe(ctx context.Context, source string) (ProbeInfo, error) {
	ffprobePath, err := FindFFprobe()
	if err != nil {
		return ProbeInfo{}, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		source,
	)
	out, err := cmd.Output()
	if err != nil {
		return ProbeInfo{}, fmt.Errorf("ffprobe hatası: %w", err)
	}
	return parseProbeOutput(out)
}

func parseProbeOutput(out []byte) (ProbeInfo, error) {
	var result ffprobeResult
	if err := json.Unmarshal(out, &result); err != nil {
		return ProbeInfo{}, fmt.Errorf("ffprobe çıktısı okunamadı: %w", err)
	}

	info := ProbeInfo{}
	if result.Format.Duration != "" {
		if d, err := strconv.ParseFloat(result.Format.Duration, 64); err == nil {
			info.Duration = d
		}
	}
	for _, s := range result.Streams {
		switch s.CodecType {
		case "video":
			if info.VideoCodec != "" {
				continue
			}
			info.VideoCodec = s.CodecName
			info.Width = s.Width
			info.Height = s.Height
			info.FPS = parseFrameRate(s.RFrameRate)
		case "audio":
			if info.AudioCodec == "" {
				info.AudioCodec = s.CodecName
			}
		}
	}
	if info.Duration <= 0 {
		return info, fmt.Errorf("video süresi okunamadı")
	}
	if info.VideoCodec == "" {
		return info, fmt.Errorf("video akışı bulunamadı")
	}
	return info, nil
}

// parseFrameRate "30000/1001" gibi kare oranlarını float'a çevirir
func parseFrameRate(rate string) float64 {
	parts := strings.SplitN(rate, "/", 2)
	if len(parts) == 2 {
		num, err1 := strconv.ParseFloat(parts[0], 64)
		den, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 == nil && err2 == nil && den != 0 {
			return num / den
		}
	}
	if f, err := strconv.ParseFloat(rate, 64); err == nil {
		return f
	}
	return 0
}

// GrabFrame verilen zamandaki tek kareyi PNG olarak çözer.
// -ss girişten önce verilir; hızlı arama yapılır, kare doğruluğu garanti edilmez.
func GrabFrame(ctx context.Context, source string, at float64) (image.Image, error) {
	ffmpegPath, err := FindFFmpeg()
	if err != nil {
		return nil, err
	}

	args := []string{
		"-loglevel", "error",
		"-ss", timeutil.FormatFFmpeg(at),
		"-i", source,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-c:v", "png",
		"-",
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("kare yakalama ffmpeg hatası: %s\n%s", err.Error(), stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%.3fs noktasında kare bulunamadı", at)
	}
	return png.Decode(&stdout)
}
