package entity

// VariantInput метрики варианта для A/B-прогноза
type VariantInput struct {
	ID           string   `json:"id" validate:"required"`
	QualityScore float64  `json:"qualityScore" validate:"gte=0,lte=100"`
	CTREstimate  float64  `json:"ctrEstimate" validate:"gte=0,lte=100"`
	BalanceScore float64  `json:"balanceScore" validate:"gte=0,lte=100"`
	HeatmapScore *float64 `json:"heatmapScore,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// VariantPerformance прогноз по одному варианту
type VariantPerformance struct {
	VariantID                    string     `json:"variantId"`
	EstimatedCTR                 float64    `json:"estimatedCTR"`
	ConfidenceInterval           [2]float64 `json:"confidenceInterval"` // [нижняя, верхняя]
	Confidence                   float64    `json:"confidence"`
	RecommendedTrafficAllocation float64    `json:"recommendedTrafficAllocation"` // 0..100
}

// Lower нижняя граница доверительного интервала
func (v VariantPerformance) Lower() float64 { return v.ConfidenceInterval[0] }

// Upper верхняя граница доверительного интервала
func (v VariantPerformance) Upper() float64 { return v.ConfidenceInterval[1] }

// ABTestPrediction итог байесовского сравнения вариантов.
// Winner пустой, если победитель статистически не выделен.
type ABTestPrediction struct {
	Winner                   string               `json:"winner,omitempty"`
	Variants                 []VariantPerformance `json:"variants"`
	EarlyStoppingRecommended bool                 `json:"earlyStoppingRecommended"`
	MinimumSampleSize        int                  `json:"minimumSampleSize"`
	Insights                 []string             `json:"insights"`
}

// HasWinner сообщает, выделен ли победитель
func (p ABTestPrediction) HasWinner() bool {
	return p.Winner != ""
}
