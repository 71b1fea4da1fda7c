//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"adscore-bot/internal/domain/entity"
	"adscore-bot/internal/domain/port"
)

// Sampler декодирует изображение средствами image и x/image (без OpenCV).
// Поддерживаются JPEG, PNG, GIF, BMP и WebP.
type Sampler struct {
	MaxSide int
}

// NewSampler создаёт декодер
func NewSampler() *Sampler {
	return &Sampler{MaxSide: defaultMaxSide}
}

// Sample декодирует изображение и возвращает не больше limit пикселей.
func (s *Sampler) Sample(ctx context.Context, imageData []byte, limit int) ([]entity.PixelSample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return samplePixels(s.downscale(img), limit), nil
}

// downscale уменьшает изображение до MaxSide по большей стороне
func (s *Sampler) downscale(img image.Image) image.Image {
	b := img.Bounds()
	if s.MaxSide <= 0 || (b.Dx() <= s.MaxSide && b.Dy() <= s.MaxSide) {
		return img
	}
	scale := float64(s.MaxSide) / float64(max(b.Dx(), b.Dy()))
	dst := image.NewRGBA(image.Rect(0, 0, max(1, int(float64(b.Dx())*scale)), max(1, int(float64(b.Dy())*scale))))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

var _ port.PixelSampler = (*Sampler)(nil)
