package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"adscore-bot/internal/domain/attention"
	"adscore-bot/internal/domain/ctr"
	"adscore-bot/internal/domain/entity"
	"adscore-bot/internal/domain/port"
	"adscore-bot/internal/infrastructure/logging"
	"adscore-bot/internal/infrastructure/random"
)

type fakeSampler struct {
	samples []entity.PixelSample
	err     error
}

func (f *fakeSampler) Sample(ctx context.Context, imageData []byte, limit int) ([]entity.PixelSample, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.samples) > limit {
		return f.samples[:limit], nil
	}
	return f.samples, nil
}

type fakeMetrics struct {
	mu        sync.Mutex
	stages    map[string]int
	requests  map[string]int
	decisions map[bool]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{stages: map[string]int{}, requests: map[string]int{}, decisions: map[bool]int{}}
}

func (m *fakeMetrics) ObserveStage(stage string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages[stage]++
}

func (m *fakeMetrics) CountRequest(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		operation += ":error"
	}
	m.requests[operation]++
}

func (m *fakeMetrics) CountABDecision(decided bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions[decided]++
}

func blackAndWhite(n int) []entity.PixelSample {
	out := make([]entity.PixelSample, 0, 2*n)
	for i := 0; i < n; i++ {
		out = append(out, entity.PixelSample{R: 255, G: 255, B: 255}, entity.PixelSample{})
	}
	return out
}

func fullDocument() entity.Document {
	return entity.Document{
		Width: 1080, Height: 1080, Industry: "ecommerce",
		Layers: []entity.LayerSpec{
			{ID: "bg", Type: "background", Width: 1080, Height: 1080},
			{ID: "product", Type: "product", X: 240, Y: 200, Width: 600, Height: 500},
			{ID: "headline", Type: "text", Role: entity.RoleHeadline, X: 80, Y: 60, Width: 920, Height: 100, FontSize: 64, FontWeight: 700, Text: "Summer sale starts now"},
			{ID: "desc", Type: "text", Role: entity.RoleDescription, X: 80, Y: 720, Width: 920, Height: 60, FontSize: 28, Text: "Fresh styles for every day of the week"},
			{ID: "cta", Type: "cta", X: 315, Y: 800, Width: 450, Height: 100, FontSize: 32, FontWeight: 600, Text: "Shop now"},
		},
	}
}

// newService собирает сервис с seed 7; nil-значения не превращаются
// в типизированные nil внутри интерфейсов
func newService(sampler *fakeSampler, metrics *fakeMetrics, settings Settings) *CreativeService {
	var (
		ps port.PixelSampler
		mr port.MetricsRecorder
	)
	if sampler != nil {
		ps = sampler
	}
	if metrics != nil {
		mr = metrics
	}
	return NewCreativeService(ps, nil, random.NewFactory(7), mr, logging.Discard(), settings)
}

func TestCreativeService_ExtractPalette(t *testing.T) {
	metrics := newFakeMetrics()
	svc := newService(&fakeSampler{samples: blackAndWhite(500)}, metrics, Settings{PaletteK: 2})

	report, err := svc.ExtractPalette(context.Background(), []byte("image"))
	require.NoError(t, err)
	require.Len(t, report.Clusters, 2)
	require.Equal(t, 1000, report.SampleCount)
	require.Equal(t, uint64(7), report.Seed)
	require.Equal(t, "#ffffff", report.Colors.Background)
	require.Equal(t, "#000000", report.Colors.Text)
	require.InDelta(t, 50.0, report.Distribution.Dominance, 1e-9)
	require.Equal(t, 1, metrics.requests["palette"])
	require.Equal(t, 1, metrics.stages[StagePalette])
}

func TestCreativeService_ExtractPaletteErrors(t *testing.T) {
	ctx := context.Background()

	_, err := newService(nil, nil, Settings{}).ExtractPalette(ctx, []byte("x"))
	require.ErrorIs(t, err, ErrSamplerNotConfigured)

	metrics := newFakeMetrics()
	_, err = newService(&fakeSampler{}, metrics, Settings{}).ExtractPalette(ctx, nil)
	require.ErrorIs(t, err, ErrEmptyImage)
	require.Equal(t, 1, metrics.requests["palette:error"])

	decodeErr := errors.New("bad jpeg")
	_, err = newService(&fakeSampler{err: decodeErr}, nil, Settings{}).ExtractPalette(ctx, []byte("x"))
	require.ErrorIs(t, err, decodeErr)
}

func TestCreativeService_Analyze(t *testing.T) {
	metrics := newFakeMetrics()
	svc := newService(&fakeSampler{samples: blackAndWhite(200)}, metrics, Settings{})
	doc := fullDocument()

	report, err := svc.Analyze(context.Background(), AnalyzeRequest{Document: doc, Image: []byte("img"), BrandColor: "#FF5500"})
	require.NoError(t, err)
	require.Equal(t, "ecommerce", report.Industry)

	layers := doc.BuildLayers()
	heatmap := attention.PredictHeatmap(layers, 1080, 1080)
	require.Empty(t, cmp.Diff(heatmap, report.Heatmap))
	require.Empty(t, cmp.Diff(ctr.NewEstimator().Estimate(layers, &heatmap, "ecommerce"), report.CTR))

	require.NotNil(t, report.Palette)
	require.NotNil(t, report.Palette.Accessible)
	require.Equal(t, "#ff5500", report.Palette.Accessible.Primary)

	require.Equal(t, 1, metrics.requests["analyze"])
	require.Equal(t, 1, metrics.stages[StageHeatmap])
	require.Equal(t, 1, metrics.stages[StageCTR])
	require.Equal(t, 1, metrics.stages[StageBalance])
	require.Equal(t, 1, metrics.stages[StagePalette])
}

func TestCreativeService_AnalyzeWithoutImage(t *testing.T) {
	svc := newService(nil, nil, Settings{DefaultIndustry: "saas"})
	doc := fullDocument()
	doc.Industry = ""

	report, err := svc.Analyze(context.Background(), AnalyzeRequest{Document: doc})
	require.NoError(t, err)
	require.Nil(t, report.Palette)
	require.Equal(t, "saas", report.Industry)
	require.Equal(t, 0.8, report.CTR.Benchmarks.Industry)
}

func TestCreativeService_AnalyzePaletteFailure(t *testing.T) {
	svc := newService(&fakeSampler{err: errors.New("corrupt")}, nil, Settings{})
	report, err := svc.Analyze(context.Background(), AnalyzeRequest{Document: fullDocument(), Image: []byte("img")})
	require.NoError(t, err)
	require.Nil(t, report.Palette)
	require.Contains(t, report.PaletteError, "corrupt")
	require.Equal(t, "ecommerce", report.Industry)
	require.Greater(t, report.CTR.Estimated, 0.0)

	_, err = newService(nil, nil, Settings{}).Analyze(context.Background(), AnalyzeRequest{Document: fullDocument(), Image: []byte("img")})
	require.NoError(t, err)
}

func TestCreativeService_AnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newService(&fakeSampler{samples: blackAndWhite(10)}, nil, Settings{}).Analyze(ctx, AnalyzeRequest{Document: fullDocument(), Image: []byte("img")})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCreativeService_CompareVariants(t *testing.T) {
	metrics := newFakeMetrics()
	svc := newService(nil, metrics, Settings{MaxParallel: 2})

	plain := entity.Document{Layers: []entity.LayerSpec{
		{ID: "t", Type: "text", Role: entity.RoleHeadline, X: 0, Y: 0, Width: 200, Height: 40, Text: "Hello"},
	}}
	result, err := svc.CompareVariants(context.Background(), CompareRequest{
		Variants: []NamedDocument{
			{ID: "plain", Document: plain},
			{ID: "full", Document: fullDocument()},
			{ID: "empty"},
		},
		Industry: "fashion",
	})
	require.NoError(t, err)

	require.Len(t, result.Variants, 3)
	require.Equal(t, []string{"plain", "full", "empty"}, []string{result.Variants[0].ID, result.Variants[1].ID, result.Variants[2].ID})
	for _, v := range result.Variants {
		require.Equal(t, "fashion", v.Report.Industry)
		require.Equal(t, v.ID, v.Metrics.ID)
		require.NotNil(t, v.Metrics.HeatmapScore)
	}
	require.Equal(t, "full", result.Best)
	require.Equal(t, "full", result.Prediction.Variants[0].VariantID)
	require.Equal(t, uint64(7), result.Seed)
	require.Len(t, result.Prediction.Variants, 3)
	require.Equal(t, 1, metrics.requests["compare"])
	require.Equal(t, 1, metrics.decisions[true]+metrics.decisions[false])
	require.Equal(t, 3, metrics.stages[StageHeatmap])
}

func TestCreativeService_CompareVariantsEmpty(t *testing.T) {
	_, err := newService(nil, nil, Settings{}).CompareVariants(context.Background(), CompareRequest{})
	require.ErrorIs(t, err, ErrNoVariants)
}

func TestCreativeService_PredictABTest(t *testing.T) {
	metrics := newFakeMetrics()
	svc := newService(nil, metrics, Settings{PriorSamples: 1000})

	report, err := svc.PredictABTest(context.Background(), []entity.VariantInput{
		{ID: "A", CTREstimate: 3.0, QualityScore: 90},
		{ID: "B", CTREstimate: 1.0, QualityScore: 60},
	}, 0)
	require.NoError(t, err)
	require.Equal(t, "A", report.Prediction.Winner)
	require.True(t, report.Prediction.EarlyStoppingRecommended)
	require.Equal(t, "A", report.Best)
	require.Equal(t, 1, metrics.decisions[true])

	_, err = svc.PredictABTest(context.Background(), nil, 0)
	require.ErrorIs(t, err, ErrNoVariants)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.PredictABTest(ctx, []entity.VariantInput{{ID: "A"}}, 0)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCreativeService_SameSeedSameAllocation(t *testing.T) {
	inputs := []entity.VariantInput{
		{ID: "A", CTREstimate: 2.1},
		{ID: "B", CTREstimate: 1.9},
		{ID: "C", CTREstimate: 1.2},
	}
	first, err := newService(nil, nil, Settings{}).PredictABTest(context.Background(), inputs, 50)
	require.NoError(t, err)
	second, err := newService(nil, nil, Settings{}).PredictABTest(context.Background(), inputs, 50)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(first, second))
}

func TestEmptyInputsDegradeGracefully(t *testing.T) {
	svc := newService(&fakeSampler{}, nil, Settings{})
	ctx := context.Background()

	require.NotPanics(t, func() {
		report, err := svc.Analyze(ctx, AnalyzeRequest{})
		require.NoError(t, err)
		require.Equal(t, 0.0, report.Heatmap.OverallScore)
		require.Equal(t, 0.0, report.Heatmap.GazePath.CTAReachProbability)
		require.Equal(t, 0.0, report.CTR.Estimated)
		require.Equal(t, 1.0, report.CTR.Benchmarks.Industry)
		require.False(t, report.MeetsTarget)

		paletteReport, err := svc.ExtractPalette(ctx, []byte("blank"))
		require.NoError(t, err)
		require.Len(t, paletteReport.Clusters, 1)
		require.Equal(t, "#000000", paletteReport.Colors.Primary)
		require.Equal(t, 100.0, paletteReport.Clusters[0].Percentage)

		ab, err := svc.PredictABTest(ctx, []entity.VariantInput{{ID: "solo"}}, 0)
		require.NoError(t, err)
		require.False(t, ab.Prediction.HasWinner())
		require.Equal(t, 1000, ab.Prediction.MinimumSampleSize)
	})
}

func TestCreativeService_KnownIndustry(t *testing.T) {
	svc := NewCreativeService(nil, ctr.NewEstimator(), random.NewFactory(1), nil, logging.Discard(), Settings{})

	require.True(t, svc.KnownIndustry(" Fashion "))
	require.True(t, svc.KnownIndustry("default"))
	require.False(t, svc.KnownIndustry("spaceflight"))
}
