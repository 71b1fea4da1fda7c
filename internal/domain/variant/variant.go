// Package variant прогнозирует исход A/B-теста креативов: Thompson sampling
// для распределения трафика, доверительные интервалы и определение победителя.
package variant

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"adscore-bot/internal/domain/entity"
	"adscore-bot/internal/domain/port"
)

const (
	// DefaultPriorSamples число псевдонаблюдений априорного распределения
	DefaultPriorSamples = 100

	zScore95           = 1.96
	stdDevHeuristic    = 0.2
	defaultSampleSize  = 1000
	dominantAllocation = 70.0
	laggingRatio       = 0.5
	sampleSizeFactor   = 16.0
)

// PredictABTest сравнивает варианты по их оценкам CTR (в процентах).
// rnd используется только для выборки Thompson sampling.
func PredictABTest(variants []entity.VariantInput, priorSamples int, rnd port.RandomSource) entity.ABTestPrediction {
	if priorSamples <= 0 {
		priorSamples = DefaultPriorSamples
	}
	prior := float64(priorSamples)

	perf := make([]entity.VariantPerformance, len(variants))
	draws := make([]float64, len(variants))
	total := 0.0
	for i, v := range variants {
		ctr := clamp(v.CTREstimate, 0, 100)
		draws[i] = thompsonDraw(ctr, prior, rnd)
		total += draws[i]

		margin := zScore95 * ctr * stdDevHeuristic / math.Sqrt(prior)
		perf[i] = entity.VariantPerformance{
			VariantID:    v.ID,
			EstimatedCTR: ctr,
			ConfidenceInterval: [2]float64{
				clamp(ctr-margin, 0, 100),
				clamp(ctr+margin, 0, 100),
			},
			Confidence: confidence(ctr, margin),
		}
	}

	for i := range perf {
		if total > 0 {
			perf[i].RecommendedTrafficAllocation = draws[i] / total * 100
		} else {
			perf[i].RecommendedTrafficAllocation = 100 / float64(len(perf))
		}
	}

	sort.SliceStable(perf, func(a, b int) bool {
		return perf[a].EstimatedCTR > perf[b].EstimatedCTR
	})

	result := entity.ABTestPrediction{
		Variants:          perf,
		MinimumSampleSize: defaultSampleSize,
	}
	if len(perf) < 2 {
		result.Insights = []string{"At least two variants are required for an A/B comparison"}
		return result
	}

	top, second := perf[0], perf[1]
	if top.Lower() > second.Upper() {
		result.Winner = top.VariantID
		result.EarlyStoppingRecommended = true
	}
	result.MinimumSampleSize = minimumSampleSize(top.EstimatedCTR, second.EstimatedCTR)
	result.Insights = insights(result)
	return result
}

// BoxMuller возвращает стандартную нормальную величину по двум равномерным.
func BoxMuller(rnd port.RandomSource) float64 {
	u1 := rnd.Float64()
	if u1 <= 0 {
		u1 = math.SmallestNonzeroFloat64
	}
	u2 := rnd.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// thompsonDraw одна выборка из нормального приближения Beta-апостериора.
// Без источника случайности возвращается среднее.
func thompsonDraw(ctr, prior float64, rnd port.RandomSource) float64 {
	rate := ctr / 100
	alpha := 1 + rate*prior
	beta := 1 + (1-rate)*prior
	sum := alpha + beta

	mean := alpha / sum
	variance := alpha * beta / (sum * sum * (sum + 1))
	if rnd == nil {
		return clamp(mean, 0, 1)
	}
	return clamp(mean+math.Sqrt(variance)*BoxMuller(rnd), 0, 1)
}

func confidence(ctr, margin float64) float64 {
	if ctr <= 0 {
		return 0
	}
	return clamp(100*(1-margin/ctr), 0, 100)
}

func minimumSampleSize(topCTR, secondCTR float64) int {
	effect := topCTR - secondCTR
	if effect <= 0 {
		return defaultSampleSize
	}
	pooledVariance := topCTR * (100 - topCTR) / 100
	return int(math.Ceil(sampleSizeFactor * pooledVariance / (effect * effect)))
}

func insights(p entity.ABTestPrediction) []string {
	top := p.Variants[0]
	var out []string

	if p.HasWinner() {
		out = append(out,
			fmt.Sprintf("Variant %s is the clear winner with %.2f%% estimated CTR", top.VariantID, top.EstimatedCTR),
			"Confidence intervals do not overlap: the test can be stopped early",
		)
	} else {
		out = append(out, fmt.Sprintf("No clear winner yet: continue testing with at least %d samples per variant", p.MinimumSampleSize))
	}

	if top.RecommendedTrafficAllocation > dominantAllocation {
		out = append(out, fmt.Sprintf("Variant %s should receive %.0f%% of traffic", top.VariantID, top.RecommendedTrafficAllocation))
	}

	var lagging []string
	for _, v := range p.Variants[1:] {
		if v.EstimatedCTR < top.EstimatedCTR*laggingRatio {
			lagging = append(lagging, v.VariantID)
		}
	}
	if len(lagging) > 0 {
		out = append(out, fmt.Sprintf("Consider removing underperforming variants: %s", strings.Join(lagging, ", ")))
	}
	return out
}

// ComprehensiveScore сводный балл варианта:
// баланс 30%, внимание 30%, CTR (x10, не более 100) 20%, качество 20%.
func ComprehensiveScore(v entity.VariantInput) float64 {
	heatmap := 0.0
	if v.HeatmapScore != nil {
		heatmap = *v.HeatmapScore
	}
	return v.BalanceScore*0.30 + heatmap*0.30 + math.Min(100, v.CTREstimate*10)*0.20 + v.QualityScore*0.20
}

// PickBestVariant возвращает id варианта с максимальным сводным баллом.
// При равенстве побеждает вариант, указанный раньше.
func PickBestVariant(variants []entity.VariantInput) (string, bool) {
	if len(variants) == 0 {
		return "", false
	}
	best, bestScore := 0, ComprehensiveScore(variants[0])
	for i := 1; i < len(variants); i++ {
		if s := ComprehensiveScore(variants[i]); s > bestScore {
			best, bestScore = i, s
		}
	}
	return variants[best].ID, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
