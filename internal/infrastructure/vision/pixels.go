package vision

import (
	"errors"
	"image"
	"image/color"

	"adscore-bot/internal/domain/entity"
)

// ErrDecode байты не удалось разобрать как изображение
var ErrDecode = errors.New("failed to decode image")

const (
	defaultMaxSide = 1024
	defaultLimit   = 10000
	minAlpha       = 128
)

// samplePixels равномерно выбирает не больше limit пикселей с постоянным шагом
// по развёртке изображения. Пиксели с альфой меньше 128 пропускаются, цвет
// берётся без premultiply.
func samplePixels(img image.Image, limit int) []entity.PixelSample {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	total := w * h
	if total <= 0 {
		return nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	step := 1
	if total > limit {
		step = (total + limit - 1) / limit
	}

	samples := make([]entity.PixelSample, 0, min(total, limit))
	for i := 0; i < total; i += step {
		x := bounds.Min.X + i%w
		y := bounds.Min.Y + i/w
		c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		if c.A < minAlpha {
			continue
		}
		samples = append(samples, entity.PixelSample{R: c.R, G: c.G, B: c.B})
	}
	return samples
}
