package entity

// GazePattern характер траектории взгляда
type GazePattern string

const (
	PatternF         GazePattern = "F"
	PatternZ         GazePattern = "Z"
	PatternCascade   GazePattern = "cascade"
	PatternScattered GazePattern = "scattered"
)

// HeatmapPoint точка тепловой карты или фиксация взгляда
type HeatmapPoint struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Attention   float64 `json:"attention"`   // 0..100
	DwellTimeMs float64 `json:"dwellTimeMs"` // длительность фиксации
}

// GazePath упорядоченные фиксации (не больше 10)
type GazePath struct {
	Points              []HeatmapPoint `json:"points"`
	Pattern             GazePattern    `json:"pattern"`
	CTAReachProbability float64        `json:"ctaReachProbability"` // 0..100
}

// AttentionScore внимание по ролям элементов, каждое 0..100
type AttentionScore struct {
	Headline    float64 `json:"headline"`
	Product     float64 `json:"product"`
	Description float64 `json:"description"`
	CTA         float64 `json:"cta"`
}

// HeatmapPrediction результат симуляции внимания
type HeatmapPrediction struct {
	Heatmap        []HeatmapPoint `json:"heatmap"`
	GazePath       GazePath       `json:"gazePath"`
	AttentionScore AttentionScore `json:"attentionScore"`
	OverallScore   float64        `json:"overallScore"`
	Insights       []string       `json:"insights"`
}

// BalanceBreakdown составляющие оценки баланса
type BalanceBreakdown struct {
	HorizontalBalance float64 `json:"horizontalBalance"`
	VerticalBalance   float64 `json:"verticalBalance"`
	Spacing           float64 `json:"spacing"`
	OverlapFree       float64 `json:"overlapFree"`
	Whitespace        float64 `json:"whitespace"`
}

// BalanceScore визуальный баланс макета, 0..100
type BalanceScore struct {
	Overall     float64          `json:"overall"`
	Breakdown   BalanceBreakdown `json:"breakdown"`
	Issues      []string         `json:"issues"`
	Suggestions []string         `json:"suggestions"`
}
