package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mlihgenel/videotrim-cli/internal/export"
	"github.com/mlihgenel/videotrim-cli/internal/store"
	"github.com/mlihgenel/videotrim-cli/internal/thumbnail"
)

// ThumbnailRequest döngü dışında çalıştırılabilen önizleme üretim isteğidir.
type ThumbnailRequest struct {
	Token    thumbnail.Token
	Source   string
	Duration float64
	Count    int
	sampler  *thumbnail.Sampler
}

// Run kareleri üretir. Hata durumunda boş liste döner.
func (r ThumbnailRequest) Run(ctx context.Context) ([]thumbnail.Thumbnail, error) {
	if r.sampler == nil {
		return []thumbnail.Thumbnail{}, nil
	}
	return r.sampler.Generate(ctx, r.Source, r.Duration, r.Count)
}

// BeginThumbnails yeni bir üretim başlatır; önceki üretimlerin sonuçları reddedilir.
func (s *Session) BeginThumbnails() ThumbnailRequest {
	return ThumbnailRequest{
		Token:    s.thumbs.Begin(),
		Source:   s.sourcePath,
		Duration: s.state.Duration,
		Count:    s.opts.ThumbCount,
		sampler:  s.opts.Sampler,
	}
}

// PublishThumbnails sonucu yalnızca istek hâlâ güncelse uygular.
func (s *Session) PublishThumbnails(token thumbnail.Token, thumbs []thumbnail.Thumbnail) bool {
	ok := s.thumbs.Publish(token, thumbs)
	if !ok {
		s.log.Debug().Uint64("token", uint64(token)).Msg("eski önizleme sonucu atlandı")
	}
	return ok
}

// RegenerateThumbnails kareleri eşzamanlı üretir ve yayımlar.
func (s *Session) RegenerateThumbnails(ctx context.Context) []thumbnail.Thumbnail {
	req := s.BeginThumbnails()
	thumbs, _ := req.Run(ctx)
	s.PublishThumbnails(req.Token, thumbs)
	return s.thumbs.Current()
}

// ExportRequest döngü dışında çalıştırılabilen dışa aktarma isteğidir.
type ExportRequest struct {
	Source string
	Start  float64
	End    float64
	Output string
	Policy string
	enc    export.Encoder
}

// Run kaynağı keser ve çıktıyı yazar. Yazılan yolu döner.
func (r ExportRequest) Run(ctx context.Context) (string, error) {
	if r.enc == nil {
		return "", &export.Error{Op: "encoder", Err: errors.New("kodlayıcı tanımlı değil")}
	}
	src, err := os.ReadFile(r.Source)
	if err != nil {
		return "", &export.Error{Op: "read-source", Err: err}
	}
	data, err := r.enc.TrimAndEncode(ctx, src, r.Start, r.End)
	if err != nil {
		return "", err
	}
	return export.WriteOutput(r.Output, data, r.Policy)
}

// PrepareExport mevcut trim aralığı için bir dışa aktarma isteği hazırlar.
func (s *Session) PrepareExport(output, policy string) (ExportRequest, error) {
	if !s.hasProject || s.sourcePath == "" {
		return ExportRequest{}, &export.Error{Op: "prepare", Err: errors.New("açık proje yok")}
	}
	if !s.state.Loaded {
		return ExportRequest{}, &export.Error{Op: "prepare", Err: errors.New("video henüz yüklenmedi")}
	}
	var enc export.Encoder
	if s.opts.NewEncoder != nil {
		enc = s.opts.NewEncoder(s.project.OriginalName)
	}
	return ExportRequest{
		Source: s.sourcePath,
		Start:  s.state.TrimStart,
		End:    s.state.TrimEnd,
		Output: output,
		Policy: policy,
		enc:    enc,
	}, nil
}

// ApplyExportResult dışa aktarma sonucunu görünüm durumuna yansıtır.
// Hata kullanıcıya gösterilir; işlem yeniden denenebilir.
func (s *Session) ApplyExportResult(path string, err error) {
	switch {
	case err == nil:
		s.view.ClearError()
		s.log.Info().Str("output", path).Msg("dışa aktarma tamamlandı")
	case errors.Is(err, export.ErrSkipped):
		s.log.Info().Str("output", path).Msg("dışa aktarma atlandı, hedef mevcut")
	default:
		s.view.Error = err.Error()
		s.log.Error().Err(err).Msg("dışa aktarma başarısız")
	}
}

// Export isteği hazırlar, çalıştırır ve sonucu uygular.
func (s *Session) Export(ctx context.Context, output, policy string) (string, error) {
	req, err := s.PrepareExport(output, policy)
	if err != nil {
		s.ApplyExportResult("", err)
		return "", err
	}
	path, err := req.Run(ctx)
	s.ApplyExportResult(path, err)
	if err != nil {
		return path, fmt.Errorf("%s: %w", output, err)
	}
	return path, nil
}

// ExportStored kayıtlı bir projenin trim aralığını editör açmadan dışa aktarır.
func ExportStored(ctx context.Context, st store.Store, id string, enc export.Encoder, output, policy string) (string, error) {
	if enc == nil {
		return "", &export.Error{Op: "encoder", Err: errors.New("kodlayıcı tanımlı değil")}
	}
	rec, err := st.GetProject(ctx, id)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", fmt.Errorf("proje bulunamadı: %s", id)
	}
	if !rec.IsLoaded || rec.TrimEndMs <= rec.TrimStartMs {
		return "", &export.Error{Op: "range", Err: fmt.Errorf("%s için geçerli trim aralığı yok", rec.Name)}
	}
	src, err := st.GetVideo(ctx, id)
	if err != nil {
		return "", err
	}
	if src == nil {
		return "", &export.Error{Op: "read-source", Err: fmt.Errorf("video verisi bulunamadı: %s", id)}
	}

	data, err := enc.TrimAndEncode(ctx, src, msToSeconds(rec.TrimStartMs), msToSeconds(rec.TrimEndMs))
	if err != nil {
		return "", err
	}
	return export.WriteOutput(output, data, policy)
}
