// Package ctr оценивает кликабельность креатива по макету и карте внимания.
package ctr

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"adscore-bot/internal/domain/entity"
)

const (
	defaultAttention   = 70.0
	recommendThreshold = 70.0
	ctaIdealWidth      = 450.0
	bottomThird        = 0.66
	maxCTALength       = 20
	defaultFontSize    = 16
	defaultTarget      = 1.5
)

var actionVerbs = []string{"buy", "shop", "get", "learn", "discover", "try", "start", "join", "claim", "download"}

// Estimator считает прогноз CTR по таблице бенчмарков
type Estimator struct {
	benchmarks   Benchmarks
	canvasHeight float64
}

// Option настраивает Estimator
type Option func(*Estimator)

// WithBenchmarks заменяет таблицу отраслевых бенчмарков
func WithBenchmarks(b Benchmarks) Option {
	return func(e *Estimator) {
		if len(b) > 0 {
			e.benchmarks = b
		}
	}
}

// WithCanvasHeight задаёт высоту холста для оценки положения CTA
func WithCanvasHeight(h float64) Option {
	return func(e *Estimator) {
		if h > 0 {
			e.canvasHeight = h
		}
	}
}

// NewEstimator создаёт оценщик с таблицей по умолчанию
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		benchmarks:   DefaultBenchmarks(),
		canvasHeight: entity.DefaultCanvasSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Benchmarks возвращает текущую таблицу
func (e *Estimator) Benchmarks() Benchmarks {
	return e.benchmarks
}

// Estimate прогнозирует CTR. heatmap может быть nil: тогда внимание берётся равным 70.
func (e *Estimator) Estimate(layers []entity.Layer, heatmap *entity.HeatmapPrediction, industry string) entity.CTREstimate {
	return e.estimate(layers, heatmap, industry, e.canvasHeight)
}

// EstimateOnCanvas то же, что Estimate, но с высотой холста конкретного макета.
func (e *Estimator) EstimateOnCanvas(layers []entity.Layer, heatmap *entity.HeatmapPrediction, industry string, canvasHeight float64) entity.CTREstimate {
	if canvasHeight <= 0 {
		canvasHeight = e.canvasHeight
	}
	return e.estimate(layers, heatmap, industry, canvasHeight)
}

func (e *Estimator) estimate(layers []entity.Layer, heatmap *entity.HeatmapPrediction, industry string, canvasHeight float64) entity.CTREstimate {
	attention := defaultAttention
	if heatmap != nil {
		attention = clamp(heatmap.OverallScore)
	}

	factors := entity.CTRFactors{
		VisualAppeal:  scoreVisualAppeal(layers),
		CTAProminence: scoreCTAProminence(layers, canvasHeight),
		CopyQuality:   scoreCopyQuality(layers),
		Attention:     attention,
	}
	bench := e.benchmarks.Lookup(strings.ToLower(strings.TrimSpace(industry)))
	return fromFactors(factors, bench)
}

// fromFactors сводит частные оценки в прогноз
func fromFactors(f entity.CTRFactors, bench entity.Benchmark) entity.CTREstimate {
	quality := f.VisualAppeal*0.25 + f.CTAProminence*0.35 + f.CopyQuality*0.20 + f.Attention*0.20

	multiplier := 0.7
	switch {
	case quality >= 80:
		multiplier = 1.5
	case quality >= 60:
		multiplier = 1.0
	}

	estimated := math.Max(0, bench.Avg*(quality/100)*multiplier)

	return entity.CTREstimate{
		Estimated:  estimated,
		Quality:    quality,
		Confidence: math.Min(100, quality*0.8+20),
		Benchmarks: entity.CTRBenchmarks{
			Industry:     bench.Avg,
			TopPerformer: bench.Top10,
		},
		Factors:         f,
		Recommendations: recommendations(f, estimated, bench),
	}
}

// MeetsTarget прогноз не ниже целевого CTR (по умолчанию 1.5%)
func MeetsTarget(estimate entity.CTREstimate, target float64) bool {
	if target <= 0 {
		target = defaultTarget
	}
	return estimate.Estimated >= target
}

// Rank оценивает варианты без карты внимания и сортирует по убыванию CTR.
func (e *Estimator) Rank(variants []entity.NamedLayout, industry string) []entity.RankedEstimate {
	out := make([]entity.RankedEstimate, len(variants))
	for i, v := range variants {
		out[i] = entity.RankedEstimate{Name: v.Name, CTR: e.Estimate(v.Layers, nil, industry)}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CTR.Estimated > out[b].CTR.Estimated
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func scoreVisualAppeal(layers []entity.Layer) float64 {
	score := 0.0
	if _, ok := entity.FindLayer(layers, entity.IsProduct); ok {
		score += 30
	}
	if _, ok := entity.FindLayer(layers, entity.IsCTA); ok {
		score += 25
	}

	types := map[entity.LayerType]struct{}{}
	minFont, maxFont := math.Inf(1), math.Inf(-1)
	textCount := 0
	for _, l := range layers {
		if l == nil {
			continue
		}
		types[l.Type()] = struct{}{}
		if t, ok := l.(*entity.TextLayer); ok {
			size := t.FontSize
			if size <= 0 {
				size = defaultFontSize
			}
			textCount++
			minFont = math.Min(minFont, size)
			maxFont = math.Max(maxFont, size)
		}
	}
	if _, ok := types[entity.LayerBackground]; ok {
		score += 10
	}
	if len(types) >= 3 {
		score += 15
	}
	if textCount >= 2 && maxFont-minFont >= 20 {
		score += 20
	}
	return math.Min(100, score)
}

// ctaLayer первый слой типа cta, иначе текст с ролью cta
func ctaLayer(layers []entity.Layer) (entity.Layer, bool) {
	if l, ok := entity.FindLayer(layers, func(l entity.Layer) bool { return l.Type() == entity.LayerCTA }); ok {
		return l, true
	}
	return entity.FindLayer(layers, func(l entity.Layer) bool {
		return l.Type() == entity.LayerText && l.Geometry().Role == entity.RoleCTA
	})
}

func scoreCTAProminence(layers []entity.Layer, canvasHeight float64) float64 {
	cta, ok := ctaLayer(layers)
	if !ok {
		return 0
	}
	frame := cta.Geometry()

	sizeScore := math.Min(100, frame.Width/ctaIdealWidth*100)
	positionRatio := frame.Y / canvasHeight
	positionScore := positionRatio * 150
	if positionRatio >= bottomThird {
		positionScore = 100
	}

	// Контраст не измеряется: наличие фона считается достаточным
	contrast := 0.0
	if _, ok := entity.FindLayer(layers, func(l entity.Layer) bool { return l.Type() == entity.LayerBackground }); ok {
		contrast = 100
	}

	return clamp(sizeScore*0.4 + positionScore*0.3 + contrast*0.3)
}

func scoreCopyQuality(layers []entity.Layer) float64 {
	score := 0.0

	if text, ok := textWithRole(layers, entity.RoleHeadline); ok && text != "" {
		if n := len(strings.Fields(text)); n >= 3 && n <= 8 {
			score += 35
		} else if n > 0 {
			score += 20
		}
	}

	if text, ok := textWithRole(layers, entity.RoleDescription); ok && text != "" {
		if n := len(strings.Fields(text)); n >= 5 && n <= 15 {
			score += 25
		} else if n > 0 {
			score += 10
		}
	}

	if cta, ok := ctaLayer(layers); ok {
		if typo, ok := entity.TypographyOf(cta); ok && typo.Text != "" {
			text := strings.ToLower(typo.Text)
			if hasActionVerb(text) {
				score += 30
			}
			if utf8.RuneCountInString(text) <= maxCTALength {
				score += 10
			}
		}
	}
	return math.Min(100, score)
}

func textWithRole(layers []entity.Layer, role string) (string, bool) {
	l, ok := entity.FindLayer(layers, func(l entity.Layer) bool {
		return l.Type() == entity.LayerText && l.Geometry().Role == role
	})
	if !ok {
		return "", false
	}
	typo, _ := entity.TypographyOf(l)
	return typo.Text, true
}

func hasActionVerb(text string) bool {
	for _, verb := range actionVerbs {
		if strings.Contains(text, verb) {
			return true
		}
	}
	return false
}

func recommendations(f entity.CTRFactors, estimated float64, bench entity.Benchmark) []string {
	var out []string
	if f.VisualAppeal < recommendThreshold {
		out = append(out, "Improve visual appeal: add high-quality product imagery")
	}
	if f.CTAProminence < recommendThreshold {
		out = append(out, "Make CTA more prominent: increase size or move to bottom third")
	}
	if f.CopyQuality < recommendThreshold {
		out = append(out, "Optimize copy: use action verbs in CTA, keep headline concise (3-8 words)")
	}
	if f.Attention < recommendThreshold {
		out = append(out, "Improve visual hierarchy to guide attention to CTA")
	}
	if estimated < bench.Avg {
		out = append(out, fmt.Sprintf("Current estimate (%.2f%%) is below industry average (%.2f%%)", estimated, bench.Avg))
	}
	if estimated >= bench.Top10 {
		out = append(out, fmt.Sprintf("Ad is performing at top 10%% level (%.2f%%+)", bench.Top10))
	}
	return out
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
