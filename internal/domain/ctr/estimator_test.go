package ctr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"adscore-bot/internal/domain/entity"
)

func box(id, role string, x, y, w, h float64) entity.Frame {
	return entity.Frame{ID: id, Role: role, X: x, Y: y, Width: w, Height: h, Opacity: 1, Visible: true}
}

func fullLayout() []entity.Layer {
	return []entity.Layer{
		&entity.BackgroundLayer{Frame: box("bg", "", 0, 0, 1080, 1080)},
		&entity.ProductLayer{Frame: box("product", "", 240, 200, 600, 500)},
		&entity.TextLayer{
			Frame:      box("headline", entity.RoleHeadline, 80, 60, 920, 100),
			Typography: entity.Typography{Text: "Summer sale starts now", FontSize: 64, FontWeight: 700},
		},
		&entity.TextLayer{
			Frame:      box("desc", entity.RoleDescription, 80, 720, 920, 60),
			Typography: entity.Typography{Text: "Fresh styles for every day of the week", FontSize: 28, FontWeight: 400},
		},
		&entity.CtaLayer{
			Frame:      box("cta", "", 315, 800, 450, 100),
			Typography: entity.Typography{Text: "Shop now", FontSize: 32, FontWeight: 600},
		},
	}
}

func TestEstimate_FullLayout(t *testing.T) {
	est := NewEstimator().Estimate(fullLayout(), nil, "ecommerce")

	require.InDelta(t, 100.0, est.Factors.VisualAppeal, 1e-9)
	require.InDelta(t, 100.0, est.Factors.CTAProminence, 1e-9)
	require.InDelta(t, 100.0, est.Factors.CopyQuality, 1e-9)
	require.Equal(t, 70.0, est.Factors.Attention)
	require.InDelta(t, 94.0, est.Quality, 1e-9)
	require.InDelta(t, 1.2*0.94*1.5, est.Estimated, 1e-9)
	require.InDelta(t, 95.2, est.Confidence, 1e-9)
	require.Equal(t, entity.CTRBenchmarks{Industry: 1.2, TopPerformer: 3.5}, est.Benchmarks)
	require.Empty(t, est.Recommendations)
}

func TestEstimate_UsesHeatmapScore(t *testing.T) {
	heatmap := &entity.HeatmapPrediction{OverallScore: 40}
	est := NewEstimator().Estimate(fullLayout(), heatmap, "ecommerce")
	require.Equal(t, 40.0, est.Factors.Attention)
	require.Contains(t, est.Recommendations, "Improve visual hierarchy to guide attention to CTA")
}

func TestEstimate_HighQualityTier(t *testing.T) {
	f := entity.CTRFactors{VisualAppeal: 90, CTAProminence: 90, CopyQuality: 90, Attention: 90}
	for name, bench := range DefaultBenchmarks() {
		est := fromFactors(f, bench)
		require.InDelta(t, 90.0, est.Quality, 1e-9, name)
		require.InDelta(t, bench.Avg*0.9*1.5, est.Estimated, 1e-9, name)
	}
}

func TestEstimate_MultiplierTiers(t *testing.T) {
	bench := entity.Benchmark{Avg: 1, Top10: 3}

	mid := fromFactors(entity.CTRFactors{VisualAppeal: 75, CTAProminence: 75, CopyQuality: 75, Attention: 75}, bench)
	require.InDelta(t, 0.75, mid.Estimated, 1e-9)

	low := fromFactors(entity.CTRFactors{VisualAppeal: 50, CTAProminence: 50, CopyQuality: 50, Attention: 50}, bench)
	require.InDelta(t, 0.5*0.7, low.Estimated, 1e-9)
	require.Contains(t, low.Recommendations, "Current estimate (0.35%) is below industry average (1.00%)")
}

func TestEstimate_HeadlineWordGate(t *testing.T) {
	headline := func(text string) []entity.Layer {
		return []entity.Layer{&entity.TextLayer{
			Frame:      box("h", entity.RoleHeadline, 0, 0, 100, 50),
			Typography: entity.Typography{Text: text},
		}}
	}

	require.Equal(t, 20.0, scoreCopyQuality(headline("one two three four five six seven eight nine ten eleven twelve")))
	require.Equal(t, 35.0, scoreCopyQuality(headline("Big summer sale today")))
	require.Equal(t, 20.0, scoreCopyQuality(headline("Sale")))
	require.Equal(t, 0.0, scoreCopyQuality(headline("")))
}

func TestEstimate_CTACopy(t *testing.T) {
	cta := func(text string) []entity.Layer {
		return []entity.Layer{&entity.TextLayer{
			Frame:      box("c", entity.RoleCTA, 0, 0, 100, 50),
			Typography: entity.Typography{Text: text},
		}}
	}

	require.Equal(t, 40.0, scoreCopyQuality(cta("Get yours")))
	require.Equal(t, 10.0, scoreCopyQuality(cta("Click here")))
	require.Equal(t, 30.0, scoreCopyQuality(cta("Discover the complete autumn collection")))
}

func TestEstimate_CTAProminence(t *testing.T) {
	top := []entity.Layer{&entity.CtaLayer{Frame: box("c", "", 0, 108, 225, 50)}}
	// 50*0.4 + 15*0.3
	require.InDelta(t, 24.5, scoreCTAProminence(top, 1080), 1e-9)

	require.Equal(t, 0.0, scoreCTAProminence(nil, 1080))

	est := NewEstimator(WithCanvasHeight(540)).Estimate([]entity.Layer{
		&entity.CtaLayer{Frame: box("c", "", 0, 400, 450, 50)},
	}, nil, "")
	require.InDelta(t, 70.0, est.Factors.CTAProminence, 1e-9)
}

func TestEstimate_EmptyLayout(t *testing.T) {
	est := NewEstimator().Estimate(nil, nil, "")

	require.Equal(t, entity.CTRFactors{Attention: 70}, est.Factors)
	require.InDelta(t, 14.0, est.Quality, 1e-9)
	require.InDelta(t, 1.0*0.14*0.7, est.Estimated, 1e-9)
	require.InDelta(t, 31.2, est.Confidence, 1e-9)
	require.GreaterOrEqual(t, est.Estimated, 0.0)
	require.Len(t, est.Recommendations, 4)
}

func TestEstimate_UnknownIndustryFallsBack(t *testing.T) {
	e := NewEstimator()
	a := e.Estimate(fullLayout(), nil, "spaceflight")
	b := e.Estimate(fullLayout(), nil, "default")
	require.Equal(t, a, b)

	c := e.Estimate(fullLayout(), nil, " Fashion ")
	require.Equal(t, 1.5, c.Benchmarks.Industry)
}

func TestEstimate_CustomBenchmarks(t *testing.T) {
	table := DefaultBenchmarks().Merge(Benchmarks{"gaming": {Avg: 2, Top10: 2.5}})
	est := NewEstimator(WithBenchmarks(table)).Estimate(fullLayout(), nil, "gaming")
	require.InDelta(t, 2*0.94*1.5, est.Estimated, 1e-9)
	require.Contains(t, est.Recommendations, "Ad is performing at top 10% level (2.50%+)")
}

func TestRankAndTarget(t *testing.T) {
	e := NewEstimator()
	ranked := e.Rank([]entity.NamedLayout{
		{Name: "empty"},
		{Name: "full", Layers: fullLayout()},
	}, "default")

	require.Len(t, ranked, 2)
	require.Equal(t, "full", ranked[0].Name)
	require.Equal(t, 1, ranked[0].Rank)
	require.Equal(t, 2, ranked[1].Rank)

	require.False(t, MeetsTarget(ranked[1].CTR, 0))
	require.True(t, MeetsTarget(ranked[0].CTR, 1.0))
}
