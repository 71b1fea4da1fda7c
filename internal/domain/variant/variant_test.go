package variant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"adscore-bot/internal/domain/entity"
)

// sequence повторяет заданные значения по кругу
type sequence struct {
	values []float64
	i      int
}

func (s *sequence) Float64() float64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

func constant(v float64) *sequence { return &sequence{values: []float64{v}} }

func sumAllocation(p entity.ABTestPrediction) float64 {
	total := 0.0
	for _, v := range p.Variants {
		total += v.RecommendedTrafficAllocation
	}
	return total
}

func TestPredictABTest_ClearWinner(t *testing.T) {
	p := PredictABTest([]entity.VariantInput{
		{ID: "B", CTREstimate: 1.0, QualityScore: 60},
		{ID: "A", CTREstimate: 3.0, QualityScore: 90},
	}, 1000, constant(0.3))

	require.Equal(t, "A", p.Winner)
	require.True(t, p.HasWinner())
	require.True(t, p.EarlyStoppingRecommended)
	require.Equal(t, "A", p.Variants[0].VariantID)
	require.Greater(t, p.Variants[0].Lower(), p.Variants[1].Upper())
	require.Equal(t, 12, p.MinimumSampleSize)
	require.InDelta(t, 100.0, sumAllocation(p), 1e-9)
	require.InDelta(t, 100*(1-1.96*0.6/math.Sqrt(1000)/3), p.Variants[0].Confidence, 1e-9)

	require.Contains(t, p.Insights, "Variant A is the clear winner with 3.00% estimated CTR")
	require.Contains(t, p.Insights, "Variant A should receive 75% of traffic")
	require.Contains(t, p.Insights, "Consider removing underperforming variants: B")
}

func TestPredictABTest_OverlappingIntervals(t *testing.T) {
	variants := []entity.VariantInput{
		{ID: "A", CTREstimate: 4.0},
		{ID: "B", CTREstimate: 2.0},
	}
	p := PredictABTest(variants, 1, constant(0.7))

	require.Empty(t, p.Winner)
	require.False(t, p.EarlyStoppingRecommended)
	require.LessOrEqual(t, p.Variants[0].Lower(), p.Variants[1].Upper())
	// ceil(16 * 4*96/100 / 2^2)
	require.Equal(t, 16, p.MinimumSampleSize)
	require.Contains(t, p.Insights, "No clear winner yet: continue testing with at least 16 samples per variant")
	require.InDelta(t, 100.0, sumAllocation(p), 1e-9)

	require.Equal(t, PredictABTest(variants, 100, constant(0.7)), PredictABTest(variants, 0, constant(0.7)))
}

func TestPredictABTest_IntervalsContainEstimate(t *testing.T) {
	p := PredictABTest([]entity.VariantInput{
		{ID: "a", CTREstimate: 0},
		{ID: "b", CTREstimate: 0.4},
		{ID: "c", CTREstimate: 99.9},
		{ID: "d", CTREstimate: 250},
	}, 5, &sequence{values: []float64{0.11, 0.93, 0.42, 0.67}})

	for _, v := range p.Variants {
		require.LessOrEqual(t, v.Lower(), v.EstimatedCTR)
		require.LessOrEqual(t, v.EstimatedCTR, v.Upper())
		require.GreaterOrEqual(t, v.Lower(), 0.0)
		require.LessOrEqual(t, v.Upper(), 100.0)
		require.GreaterOrEqual(t, v.Confidence, 0.0)
		require.LessOrEqual(t, v.Confidence, 100.0)
	}
	require.Equal(t, 100.0, p.Variants[0].EstimatedCTR)
	require.Equal(t, 0.0, p.Variants[3].Confidence)
	require.InDelta(t, 100.0, sumAllocation(p), 1e-9)
}

func TestPredictABTest_ZeroDrawsSplitEqually(t *testing.T) {
	// u1 ~ 0 и u2 = 0.5 дают z около -37
	p := PredictABTest([]entity.VariantInput{
		{ID: "a", CTREstimate: 0},
		{ID: "b", CTREstimate: 0},
	}, 100, &sequence{values: []float64{1e-300, 0.5}})

	for _, v := range p.Variants {
		require.Equal(t, 50.0, v.RecommendedTrafficAllocation)
	}
	require.Equal(t, 1000, p.MinimumSampleSize)
}

func TestPredictABTest_FewerThanTwoVariants(t *testing.T) {
	single := PredictABTest([]entity.VariantInput{{ID: "only", CTREstimate: 2}}, 100, constant(0.5))
	require.Empty(t, single.Winner)
	require.False(t, single.EarlyStoppingRecommended)
	require.Equal(t, 1000, single.MinimumSampleSize)
	require.Len(t, single.Variants, 1)
	require.InDelta(t, 100.0, single.Variants[0].RecommendedTrafficAllocation, 1e-9)

	empty := PredictABTest(nil, 100, constant(0.5))
	require.Empty(t, empty.Winner)
	require.Empty(t, empty.Variants)
	require.Equal(t, 1000, empty.MinimumSampleSize)
	require.Len(t, empty.Insights, 1)
}

func TestPredictABTest_NilSourceUsesMean(t *testing.T) {
	p := PredictABTest([]entity.VariantInput{
		{ID: "a", CTREstimate: 50},
		{ID: "b", CTREstimate: 50},
	}, 100, nil)

	require.InDelta(t, 50.0, p.Variants[0].RecommendedTrafficAllocation, 1e-9)
	require.InDelta(t, 50.0, p.Variants[1].RecommendedTrafficAllocation, 1e-9)
	require.Equal(t, 1000, p.MinimumSampleSize)
}

func TestBoxMuller(t *testing.T) {
	z := BoxMuller(&sequence{values: []float64{math.Exp(-0.5), 0}})
	require.InDelta(t, 1.0, z, 1e-12)

	require.False(t, math.IsInf(BoxMuller(constant(0)), 0))
}

func TestComprehensiveScoreAndPick(t *testing.T) {
	heat := 80.0
	variants := []entity.VariantInput{
		{ID: "plain", QualityScore: 70, CTREstimate: 1.5, BalanceScore: 60},
		{ID: "bold", QualityScore: 85, CTREstimate: 2.5, BalanceScore: 75, HeatmapScore: &heat},
	}

	require.InDelta(t, 60*0.3+15*0.2+70*0.2, ComprehensiveScore(variants[0]), 1e-9)
	require.InDelta(t, 75*0.3+80*0.3+25*0.2+85*0.2, ComprehensiveScore(variants[1]), 1e-9)
	require.InDelta(t, 20.0, ComprehensiveScore(entity.VariantInput{CTREstimate: 40}), 1e-9)

	id, ok := PickBestVariant(variants)
	require.True(t, ok)
	require.Equal(t, "bold", id)

	id, ok = PickBestVariant([]entity.VariantInput{{ID: "x"}, {ID: "y"}})
	require.True(t, ok)
	require.Equal(t, "x", id)

	_, ok = PickBestVariant(nil)
	require.False(t, ok)
}
