package port

import (
	"context"

	"adscore-bot/internal/domain/entity"
)

// PixelSampler интерфейс декодера изображений
type PixelSampler interface {
	// Sample декодирует изображение и возвращает не больше limit пикселей
	Sample(ctx context.Context, imageData []byte, limit int) ([]entity.PixelSample, error)
}
