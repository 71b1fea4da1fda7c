package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"adscore-bot/internal/domain/attention"
	"adscore-bot/internal/domain/balance"
	"adscore-bot/internal/domain/ctr"
	"adscore-bot/internal/domain/entity"
	"adscore-bot/internal/domain/palette"
	"adscore-bot/internal/domain/port"
	"adscore-bot/internal/domain/variant"
)

var (
	ErrSamplerNotConfigured = errors.New("pixel sampler is not configured")
	ErrEmptyImage           = errors.New("image is empty")
	ErrNoVariants           = errors.New("no variants to compare")
)

// Этапы конвейера для метрик
const (
	StagePalette = "palette"
	StageHeatmap = "heatmap"
	StageCTR     = "ctr"
	StageBalance = "balance"
	StageABTest  = "abtest"
)

// Settings параметры расчётов. Нулевые значения заменяются значениями по умолчанию.
type Settings struct {
	PaletteK        int
	PaletteMaxIter  int
	PaletteSamples  int
	PriorSamples    int
	DefaultIndustry string
	CTRTarget       float64
	MaxParallel     int
}

func (s Settings) withDefaults() Settings {
	if s.PaletteK <= 0 {
		s.PaletteK = palette.DefaultK
	}
	if s.PaletteMaxIter <= 0 {
		s.PaletteMaxIter = palette.DefaultMaxIter
	}
	if s.PaletteSamples <= 0 {
		s.PaletteSamples = 10000
	}
	if s.PriorSamples <= 0 {
		s.PriorSamples = variant.DefaultPriorSamples
	}
	if s.DefaultIndustry == "" {
		s.DefaultIndustry = ctr.DefaultIndustry
	}
	if s.MaxParallel <= 0 {
		s.MaxParallel = 4
	}
	return s
}

// PaletteReport результат извлечения палитры
type PaletteReport struct {
	Clusters     []entity.ColorCluster     `json:"clusters"`
	Colors       entity.DominantColors     `json:"colors"`
	Distribution entity.ColorDistribution  `json:"distribution"`
	Accessible   *entity.AccessiblePalette `json:"accessible,omitempty"`
	SampleCount  int                       `json:"sampleCount"`
	Seed         uint64                    `json:"seed"`
}

// AnalyzeRequest макет и, по желанию, изображение креатива
type AnalyzeRequest struct {
	Document   entity.Document
	Image      []byte
	BrandColor string
}

// CreativeReport полная оценка одного креатива
type CreativeReport struct {
	Industry                 string                   `json:"industry"`
	Heatmap                  entity.HeatmapPrediction `json:"heatmap"`
	CTR                      entity.CTREstimate       `json:"ctr"`
	Balance                  entity.BalanceScore      `json:"balance"`
	Palette                  *PaletteReport           `json:"palette,omitempty"`
	MeetsTarget              bool                     `json:"meetsTarget"`
	PassesAttentionStandards bool                     `json:"passesAttentionStandards"`
	PaletteError             string                   `json:"paletteError,omitempty"` // изображение не удалось разобрать
}

// VariantMetrics сводит отчёт в метрики варианта для A/B-прогноза
func (r *CreativeReport) VariantMetrics(id string) entity.VariantInput {
	heatmap := r.Heatmap.OverallScore
	return entity.VariantInput{
		ID:           id,
		QualityScore: r.CTR.Quality,
		CTREstimate:  r.CTR.Estimated,
		BalanceScore: r.Balance.Overall,
		HeatmapScore: &heatmap,
	}
}

// NamedDocument макет варианта с его идентификатором
type NamedDocument struct {
	ID       string          `json:"id" validate:"required"`
	Document entity.Document `json:"document"`
}

// CompareRequest варианты креатива для сравнения
type CompareRequest struct {
	Variants     []NamedDocument
	Industry     string
	PriorSamples int
}

// VariantReport оценка одного варианта в сравнении
type VariantReport struct {
	ID                 string              `json:"id"`
	Report             *CreativeReport     `json:"report"`
	Metrics            entity.VariantInput `json:"metrics"`
	ComprehensiveScore float64             `json:"comprehensiveScore"`
}

// ABTestReport прогноз A/B-теста с seed для воспроизведения
type ABTestReport struct {
	Prediction entity.ABTestPrediction `json:"prediction"`
	Best       string                  `json:"best,omitempty"`
	Seed       uint64                  `json:"seed"`
}

// ComparisonReport результат сравнения вариантов
type ComparisonReport struct {
	Variants []VariantReport `json:"variants"`
	ABTestReport
}

// CreativeService собирает компоненты оценки в конвейер
type CreativeService struct {
	sampler   port.PixelSampler
	estimator *ctr.Estimator
	random    port.RandomFactory
	metrics   port.MetricsRecorder
	log       *logrus.Logger
	settings  Settings
}

// NewCreativeService создаёт сервис. random обязателен, sampler и metrics могут быть nil.
func NewCreativeService(
	sampler port.PixelSampler,
	estimator *ctr.Estimator,
	random port.RandomFactory,
	metrics port.MetricsRecorder,
	log *logrus.Logger,
	settings Settings,
) *CreativeService {
	if estimator == nil {
		estimator = ctr.NewEstimator()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CreativeService{
		sampler:   sampler,
		estimator: estimator,
		random:    random,
		metrics:   metrics,
		log:       log,
		settings:  settings.withDefaults(),
	}
}

// Settings возвращает действующие параметры
func (s *CreativeService) Settings() Settings {
	return s.settings
}

// ExtractPalette декодирует изображение и выделяет доминирующие цвета.
func (s *CreativeService) ExtractPalette(ctx context.Context, image []byte) (report *PaletteReport, err error) {
	defer func() { s.metrics.CountRequest("palette", err) }()
	return s.extractPalette(ctx, image)
}

func (s *CreativeService) extractPalette(ctx context.Context, image []byte) (*PaletteReport, error) {
	if s.sampler == nil {
		return nil, ErrSamplerNotConfigured
	}
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}

	samples, err := s.sampler.Sample(ctx, image, s.settings.PaletteSamples)
	if err != nil {
		return nil, fmt.Errorf("sample pixels: %w", err)
	}

	rnd, seed := s.random.New()
	var clusters []entity.ColorCluster
	s.stage(StagePalette, func() {
		clusters = palette.Extract(samples, s.settings.PaletteK, s.settings.PaletteMaxIter, rnd)
	})

	s.log.WithFields(logrus.Fields{
		"samples":  len(samples),
		"clusters": len(clusters),
		"seed":     seed,
	}).Debug("palette extracted")

	return &PaletteReport{
		Clusters:     clusters,
		Colors:       palette.ToDominantColors(clusters),
		Distribution: palette.AnalyzeDistribution(clusters),
		SampleCount:  len(samples),
		Seed:         seed,
	}, nil
}

// Analyze оценивает макет: внимание, CTR и баланс. Если приложено изображение,
// палитра считается параллельно; ошибка палитры не отменяет оценку макета.
func (s *CreativeService) Analyze(ctx context.Context, req AnalyzeRequest) (report *CreativeReport, err error) {
	defer func() { s.metrics.CountRequest("analyze", err) }()

	g, gctx := errgroup.WithContext(ctx)

	var (
		paletteReport *PaletteReport
		paletteErr    error
	)
	if len(req.Image) > 0 {
		g.Go(func() error {
			p, err := s.extractPalette(gctx, req.Image)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				paletteErr = err
				return nil
			}
			if req.BrandColor != "" {
				accessible := palette.SuggestAccessiblePalette(p.Colors, req.BrandColor)
				p.Accessible = &accessible
			}
			paletteReport = p
			return nil
		})
	}

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		report = s.analyzeLayout(req.Document, "")
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	report.Palette = paletteReport
	if paletteErr != nil {
		report.PaletteError = paletteErr.Error()
		s.log.WithError(paletteErr).Warn("palette skipped")
	}

	s.log.WithFields(logrus.Fields{
		"industry": report.Industry,
		"layers":   len(req.Document.Layers),
		"ctr":      report.CTR.Estimated,
		"balance":  report.Balance.Overall,
	}).Info("creative analysed")

	return report, nil
}

// PredictHeatmap только модель внимания
func (s *CreativeService) PredictHeatmap(doc entity.Document) entity.HeatmapPrediction {
	width, height := doc.Canvas()
	var p entity.HeatmapPrediction
	s.stage(StageHeatmap, func() {
		p = attention.PredictHeatmap(doc.BuildLayers(), width, height)
	})
	s.metrics.CountRequest("heatmap", nil)
	return p
}

// EstimateCTR прогноз CTR; heatmap может быть nil
func (s *CreativeService) EstimateCTR(doc entity.Document, heatmap *entity.HeatmapPrediction) entity.CTREstimate {
	_, height := doc.Canvas()
	var est entity.CTREstimate
	s.stage(StageCTR, func() {
		est = s.estimator.EstimateOnCanvas(doc.BuildLayers(), heatmap, s.industry(doc.Industry, ""), height)
	})
	s.metrics.CountRequest("ctr", nil)
	return est
}

func (s *CreativeService) analyzeLayout(doc entity.Document, industryOverride string) *CreativeReport {
	layers := doc.BuildLayers()
	width, height := doc.Canvas()
	industry := s.industry(doc.Industry, industryOverride)

	report := &CreativeReport{Industry: industry}
	s.stage(StageHeatmap, func() {
		report.Heatmap = attention.PredictHeatmap(layers, width, height)
	})
	s.stage(StageCTR, func() {
		report.CTR = s.estimator.EstimateOnCanvas(layers, &report.Heatmap, industry, height)
	})
	s.stage(StageBalance, func() {
		report.Balance = balance.Score(layers, width, height)
	})
	report.MeetsTarget = ctr.MeetsTarget(report.CTR, s.settings.CTRTarget)
	report.PassesAttentionStandards = attention.PassesStandards(report.Heatmap)
	return report
}

// CompareVariants оценивает макеты параллельно и прогнозирует A/B-тест между ними.
func (s *CreativeService) CompareVariants(ctx context.Context, req CompareRequest) (result *ComparisonReport, err error) {
	defer func() { s.metrics.CountRequest("compare", err) }()

	if len(req.Variants) == 0 {
		return nil, ErrNoVariants
	}

	reports := make([]VariantReport, len(req.Variants))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.MaxParallel)
	for i, v := range req.Variants {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report := s.analyzeLayout(v.Document, req.Industry)
			metrics := report.VariantMetrics(v.ID)
			reports[i] = VariantReport{
				ID:                 v.ID,
				Report:             report,
				Metrics:            metrics,
				ComprehensiveScore: variant.ComprehensiveScore(metrics),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	inputs := make([]entity.VariantInput, len(reports))
	for i, r := range reports {
		inputs[i] = r.Metrics
	}
	ab := s.predict(inputs, req.PriorSamples)

	return &ComparisonReport{Variants: reports, ABTestReport: *ab}, nil
}

// PredictABTest прогнозирует A/B-тест по готовым метрикам вариантов.
func (s *CreativeService) PredictABTest(ctx context.Context, inputs []entity.VariantInput, priorSamples int) (result *ABTestReport, err error) {
	defer func() { s.metrics.CountRequest("abtest", err) }()

	if len(inputs) == 0 {
		return nil, ErrNoVariants
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.predict(inputs, priorSamples), nil
}

func (s *CreativeService) predict(inputs []entity.VariantInput, priorSamples int) *ABTestReport {
	if priorSamples <= 0 {
		priorSamples = s.settings.PriorSamples
	}

	rnd, seed := s.random.New()
	var prediction entity.ABTestPrediction
	s.stage(StageABTest, func() {
		prediction = variant.PredictABTest(inputs, priorSamples, rnd)
	})
	best, _ := variant.PickBestVariant(inputs)
	s.metrics.CountABDecision(prediction.HasWinner())

	s.log.WithFields(logrus.Fields{
		"variants": len(inputs),
		"winner":   prediction.Winner,
		"best":     best,
		"prior":    priorSamples,
		"seed":     seed,
	}).Info("a/b test predicted")

	return &ABTestReport{Prediction: prediction, Best: best, Seed: seed}
}

func (s *CreativeService) industry(fromDocument, override string) string {
	for _, v := range []string{override, fromDocument, s.settings.DefaultIndustry} {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			return v
		}
	}
	return ctr.DefaultIndustry
}

func (s *CreativeService) stage(name string, fn func()) {
	start := time.Now()
	fn()
	s.metrics.ObserveStage(name, time.Since(start))
}

type noopMetrics struct{}

func (noopMetrics) ObserveStage(string, time.Duration) {}
func (noopMetrics) CountRequest(string, error)         {}
func (noopMetrics) CountABDecision(bool)               {}

// KnownIndustry для отрасли есть собственная строка в таблице бенчмарков
func (s *CreativeService) KnownIndustry(industry string) bool {
	_, ok := s.estimator.Benchmarks()[strings.ToLower(strings.TrimSpace(industry))]
	return ok
}
