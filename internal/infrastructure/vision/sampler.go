//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"adscore-bot/internal/domain/entity"
	"adscore-bot/internal/domain/port"
)

// Sampler декодирует изображение через OpenCV и уменьшает его до MaxSide
// перед выборкой пикселей.
type Sampler struct {
	MaxSide int
}

// NewSampler создаёт декодер на OpenCV
func NewSampler() *Sampler {
	return &Sampler{MaxSide: defaultMaxSide}
}

// Sample декодирует изображение и возвращает не больше limit пикселей.
func (s *Sampler) Sample(ctx context.Context, imageData []byte, limit int) ([]entity.PixelSample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	// Приводим изображение к рабочему размеру, чтобы шаг выборки не зависел от разрешения.
	if s.MaxSide > 0 && (mat.Cols() > s.MaxSide || mat.Rows() > s.MaxSide) {
		scale := float64(s.MaxSide) / float64(max(mat.Cols(), mat.Rows()))
		resized := gocv.NewMat()
		gocv.Resize(mat, &resized, image.Pt(max(1, int(float64(mat.Cols())*scale)), max(1, int(float64(mat.Rows())*scale))), 0, 0, gocv.InterpolationArea)
		mat.Close()
		mat = resized
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return samplePixels(img, limit), nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), ErrDecode
}

var _ port.PixelSampler = (*Sampler)(nil)
