package attention

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"adscore-bot/internal/domain/entity"
)

func frame(id string, x, y, w, h float64) entity.Frame {
	return entity.Frame{ID: id, X: x, Y: y, Width: w, Height: h, Opacity: 1, Visible: true}
}

func sumAttention(points []entity.HeatmapPoint) float64 {
	total := 0.0
	for _, p := range points {
		total += p.Attention
	}
	return total
}

func requireBounded(t *testing.T, p entity.HeatmapPrediction) {
	t.Helper()
	for _, v := range []float64{
		p.AttentionScore.Headline, p.AttentionScore.Product,
		p.AttentionScore.Description, p.AttentionScore.CTA,
		p.OverallScore, p.GazePath.CTAReachProbability,
	} {
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 100.0)
	}
	require.LessOrEqual(t, sumAttention(p.GazePath.Points), 100.0+1e-9)
	require.LessOrEqual(t, len(p.GazePath.Points), 10)
}

func TestPredictHeatmap_BottomCTAIsReached(t *testing.T) {
	layers := []entity.Layer{
		&entity.CtaLayer{Frame: frame("cta", 540, 950, 300, 80), Typography: entity.Typography{Text: "Shop now", FontWeight: 400}},
	}

	p := PredictHeatmap(layers, 1080, 1080)
	requireBounded(t, p)
	require.Greater(t, p.GazePath.CTAReachProbability, 60.0)
	require.Len(t, p.GazePath.Points, 1)
	require.Equal(t, 690.0, p.GazePath.Points[0].X)
	require.Equal(t, 990.0, p.GazePath.Points[0].Y)
	require.Equal(t, 100.0, p.AttentionScore.CTA)
	require.Equal(t, 40.0, p.OverallScore)
	require.Equal(t, entity.PatternScattered, p.GazePath.Pattern)
}

func TestPredictHeatmap_EmptyLayout(t *testing.T) {
	p := PredictHeatmap(nil, 0, 0)
	requireBounded(t, p)
	require.Empty(t, p.Heatmap)
	require.Empty(t, p.GazePath.Points)
	require.Equal(t, 0.0, p.GazePath.CTAReachProbability)
	require.Equal(t, 0.0, p.OverallScore)
	require.Equal(t, entity.PatternScattered, p.GazePath.Pattern)
	require.Len(t, p.Insights, 4)
}

func TestPredictHeatmap_NoCTA(t *testing.T) {
	layers := []entity.Layer{
		&entity.ProductLayer{Frame: frame("p", 300, 300, 400, 400)},
	}
	p := PredictHeatmap(layers, 1080, 1080)
	require.Equal(t, 0.0, p.GazePath.CTAReachProbability)
	require.Equal(t, 0.0, p.AttentionScore.CTA)
	require.Equal(t, 100.0, p.AttentionScore.Product)
}

func TestPredictHeatmap_BudgetConservation(t *testing.T) {
	layers := make([]entity.Layer, 0, 12)
	for i := 0; i < 12; i++ {
		x := float64(i%4) * 250
		y := float64(i/4) * 300
		layers = append(layers, &entity.ShapeLayer{Frame: frame(fmt.Sprintf("s%d", i), x, y, 20, 20)})
	}

	p := PredictHeatmap(layers, 1080, 1080)
	requireBounded(t, p)
	require.Len(t, p.GazePath.Points, 3)
	require.InDelta(t, 100.0, sumAttention(p.GazePath.Points), 1e-9)
	require.Equal(t, 20.0, p.GazePath.Points[2].Attention)
	require.Equal(t, 600.0, p.GazePath.Points[0].DwellTimeMs)
}

func TestPredictHeatmap_TenFixationsMax(t *testing.T) {
	layers := make([]entity.Layer, 0, 15)
	for i := 0; i < 15; i++ {
		layers = append(layers, &entity.ShapeLayer{Frame: frame(fmt.Sprintf("s%d", i), float64(i)*60, 500, 5, 5)})
	}

	p := PredictHeatmap(layers, 1080, 1080)
	requireBounded(t, p)
	require.Len(t, p.GazePath.Points, 10)
	require.Equal(t, entity.PatternCascade, p.GazePath.Pattern)
}

func TestPredictHeatmap_SkipsBackgroundAndHidden(t *testing.T) {
	hidden := frame("hidden", 100, 100, 200, 200)
	hidden.Visible = false

	layers := []entity.Layer{
		&entity.BackgroundLayer{Frame: frame("bg", 0, 0, 1080, 1080)},
		&entity.ShapeLayer{Frame: hidden},
	}
	p := PredictHeatmap(layers, 1080, 1080)
	require.Empty(t, p.GazePath.Points)
}

func TestPredictHeatmap_FPattern(t *testing.T) {
	layers := []entity.Layer{
		&entity.TextLayer{Frame: withRole(frame("h", 50, 40, 400, 80), entity.RoleHeadline), Typography: entity.Typography{FontWeight: 700}},
		&entity.TextLayer{Frame: withRole(frame("d", 50, 160, 400, 60), entity.RoleDescription)},
		&entity.CtaLayer{Frame: frame("c", 50, 260, 200, 60)},
	}
	p := PredictHeatmap(layers, 1080, 1080)
	requireBounded(t, p)
	require.Equal(t, entity.PatternF, p.GazePath.Pattern)
	require.Greater(t, p.AttentionScore.Headline, 0.0)
}

func TestPredictHeatmap_ZPattern(t *testing.T) {
	layers := []entity.Layer{
		&entity.ShapeLayer{Frame: frame("tl", 100, 100, 10, 10)},
		&entity.ShapeLayer{Frame: frame("tr", 800, 100, 10, 10)},
		&entity.ShapeLayer{Frame: frame("bl", 100, 800, 10, 10)},
		&entity.ShapeLayer{Frame: frame("br", 800, 800, 10, 10)},
	}
	p := PredictHeatmap(layers, 1080, 1080)
	require.Equal(t, entity.PatternZ, p.GazePath.Pattern)
}

func TestPredictHeatmap_HeatmapCells(t *testing.T) {
	layers := []entity.Layer{
		&entity.ProductLayer{Frame: frame("p", 400, 400, 200, 200)},
	}
	p := PredictHeatmap(layers, 1080, 1080)
	require.NotEmpty(t, p.Heatmap)
	for _, cell := range p.Heatmap {
		require.Greater(t, cell.Attention, 0.1)
		require.LessOrEqual(t, cell.Attention, 100.0)
		require.Zero(t, int(cell.X)%50)
		require.Zero(t, int(cell.Y)%50)
	}
}

func TestVisualWeight(t *testing.T) {
	require.InDelta(t, 210.0, VisualWeight(&entity.TextLayer{Frame: frame("t", 0, 0, 10, 10), Typography: entity.Typography{FontWeight: 700}}), 1e-9)
	require.InDelta(t, 300.0, VisualWeight(&entity.CtaLayer{Frame: frame("c", 0, 0, 10, 10)}), 1e-9)
	require.InDelta(t, 180.0, VisualWeight(&entity.ProductLayer{Frame: frame("p", 0, 0, 10, 10)}), 1e-9)

	half := frame("s", 0, 0, 10, 10)
	half.Opacity = 0.5
	require.Equal(t, 50.0, VisualWeight(&entity.ShapeLayer{Frame: half}))
}

func TestPassesStandards(t *testing.T) {
	good := entity.HeatmapPrediction{
		OverallScore:   80,
		AttentionScore: entity.AttentionScore{CTA: 70},
		GazePath:       entity.GazePath{CTAReachProbability: 90},
	}
	require.True(t, PassesStandards(good))

	good.GazePath.CTAReachProbability = 50
	require.False(t, PassesStandards(good))
}

func withRole(f entity.Frame, role string) entity.Frame {
	f.Role = role
	return f
}
