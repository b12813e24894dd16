package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// ThumbnailWidth ve ThumbnailHeight önizleme karelerinin sabit boyutudur.
	ThumbnailWidth  = 160
	ThumbnailHeight = 90
	// ThumbnailQuality JPEG kodlama kalitesi.
	ThumbnailQuality = 70
)

// Rasterize kareyi width x height boyutlu sabit bir bitmap'e ölçekler.
func Rasterize(src image.Image, width, height int) (*image.RGBA, error) {
	if src == nil {
		return nil, fmt.Errorf("boş kare")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("geçersiz hedef boyut: %dx%d", width, height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// EncodeJPEG bitmap'i sıkıştırılmış JPEG olarak kodlar.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = ThumbnailQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("jpeg kodlanamadı: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeImage kayıtlı decoder'lar (png, jpeg, bmp, webp) ile görseli çözer.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("görsel çözülemedi: %w", err)
	}
	return img, nil
}

// AverageColor görselin ortalama rengini döner. Terminal şeridinde bir hücreyi boyamak için kullanılır.
func AverageColor(img image.Image) color.RGBA {
	if img == nil {
		return color.RGBA{}
	}
	b := img.Bounds()
	if b.Empty() {
		return color.RGBA{}
	}

	var r, g, bl, n uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			r += uint64(cr >> 8)
			g += uint64(cg >> 8)
			bl += uint64(cb >> 8)
			n++
		}
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(bl / n), A: 0xff}
}

// ColumnColors görseli cols sütuna bölerek her sütunun ortalama rengini döner.
func ColumnColors(img image.Image, cols int) []color.RGBA {
	if img == nil || cols <= 0 {
		return nil
	}
	b := img.Bounds()
	out := make([]color.RGBA, cols)
	for i := 0; i < cols; i++ {
		x0 := b.Min.X + i*b.Dx()/cols
		x1 := b.Min.X + (i+1)*b.Dx()/cols
		if x1 <= x0 {
			x1 = x0 + 1
		}
		out[i] = AverageColor(subImage(img, image.Rect(x0, b.Min.Y, x1, b.Max.Y)))
	}
	return out
}

func subImage(img image.Image, r image.Rectangle) image.Image {
	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}
	dst := image.NewRGBA(r)
	draw.Copy(dst, r.Min, img, r, draw.Src, nil)
	return dst
}

// HexColor rengi lipgloss'un kabul ettiği "#RRGGBB" biçiminde yazar.
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
