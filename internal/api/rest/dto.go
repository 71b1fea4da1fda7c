package rest

import (
	app "adscore-bot/internal/application"
	"adscore-bot/internal/domain/entity"
)

// CTRRequest макет и, по желанию, готовая карта внимания
type CTRRequest struct {
	Document entity.Document           `json:"document"`
	Heatmap  *entity.HeatmapPrediction `json:"heatmap,omitempty"`
}

// AnalyzeRequest макет с необязательным изображением в base64
type AnalyzeRequest struct {
	Document   entity.Document `json:"document"`
	Image      []byte          `json:"image,omitempty"`
	BrandColor string          `json:"brandColor,omitempty" validate:"omitempty,hexcolor"`
}

// ABTestRequest готовые метрики вариантов
type ABTestRequest struct {
	Variants     []entity.VariantInput `json:"variants" validate:"required,min=1,dive"`
	PriorSamples int                   `json:"priorSamples" validate:"gte=0"`
}

// CompareRequest макеты вариантов для сравнения
type CompareRequest struct {
	Variants     []app.NamedDocument `json:"variants" validate:"required,min=1,dive"`
	Industry     string              `json:"industry,omitempty"`
	PriorSamples int                 `json:"priorSamples" validate:"gte=0"`
}

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId"`
}
