package entity

// Benchmark средний CTR отрасли и порог топ-10%, в процентах
type Benchmark struct {
	Avg   float64 `json:"avg" yaml:"avg"`
	Top10 float64 `json:"top10" yaml:"top10"`
}

// CTRBenchmarks сравнение с отраслью
type CTRBenchmarks struct {
	Industry     float64 `json:"industry"`
	TopPerformer float64 `json:"topPerformer"`
}

// CTRFactors частные оценки, каждая 0..100
type CTRFactors struct {
	VisualAppeal  float64 `json:"visualAppeal"`
	CTAProminence float64 `json:"ctaProminence"`
	CopyQuality   float64 `json:"copyQuality"`
	Attention     float64 `json:"attention"`
}

// CTREstimate прогноз кликабельности креатива
type CTREstimate struct {
	Estimated       float64       `json:"estimated"`  // CTR в процентах
	Quality         float64       `json:"quality"`    // сводная оценка качества 0..100
	Confidence      float64       `json:"confidence"` // 0..100
	Benchmarks      CTRBenchmarks `json:"benchmarks"`
	Factors         CTRFactors    `json:"factors"`
	Recommendations []string      `json:"recommendations"`
}

// NamedLayout макет варианта для ранжирования
type NamedLayout struct {
	Name   string
	Layers []Layer
}

// RankedEstimate вариант с его прогнозом и местом
type RankedEstimate struct {
	Name string      `json:"name"`
	CTR  CTREstimate `json:"ctr"`
	Rank int         `json:"rank"`
}
