// Package attention моделирует движение взгляда по макету и строит тепловую карту.
package attention

import (
	"fmt"
	"math"

	"adscore-bot/internal/domain/entity"
)

const (
	maxFixations    = 10
	attentionBudget = 100.0

	entryX = 0.2
	entryY = 0.15

	gridStep     = 50.0
	sigma        = 100.0
	minInfluence = 0.1

	ctaReachRadius  = 200.0
	roleRadius      = 150.0
	patternCutoff   = 60.0
	cascadeMinFixes = 5
)

type element struct {
	cx, cy  float64
	weight  float64
	visited bool
}

// VisualWeight площадь слоя с поправками на тип, прозрачность и начертание.
func VisualWeight(l entity.Layer) float64 {
	frame := l.Geometry()
	weight := frame.Area() * frame.Opacity

	switch v := l.(type) {
	case *entity.TextLayer:
		weight *= 1.2 * v.Weight() / 400
	case *entity.CtaLayer:
		// CTA дополнительно усиливается в 1.5 раза
		weight *= 2.0 * v.Weight() / 400 * 1.5
	case *entity.ProductLayer:
		weight *= 1.8
	case *entity.BackgroundLayer, *entity.ShapeLayer:
	}
	return weight
}

// PredictHeatmap симулирует взгляд зрителя по слоям на холсте width x height.
func PredictHeatmap(layers []entity.Layer, width, height float64) entity.HeatmapPrediction {
	if width <= 0 {
		width = entity.DefaultCanvasSize
	}
	if height <= 0 {
		height = entity.DefaultCanvasSize
	}

	gaze := simulateSaccades(layers, width*entryX, height*entryY)
	heatmap := rasterize(gaze, width, height)
	pattern := classifyPattern(layers, width, height, len(gaze))

	ctaReach := 0.0
	cta, hasCTA := entity.FindLayer(layers, entity.IsCTA)
	if hasCTA {
		ctaReach = reachProbability(cta, gaze)
	}

	score := entity.AttentionScore{
		Headline:    attentionNear(layers, entity.WithRole(entity.RoleHeadline), gaze),
		Product:     attentionNear(layers, entity.IsProduct, gaze),
		Description: attentionNear(layers, entity.WithRole(entity.RoleDescription), gaze),
		CTA:         attentionNear(layers, entity.IsCTA, gaze),
	}
	overall := score.Headline*0.25 + score.Product*0.25 + score.CTA*0.40 + score.Description*0.10

	return entity.HeatmapPrediction{
		Heatmap: heatmap,
		GazePath: entity.GazePath{
			Points:              gaze,
			Pattern:             pattern,
			CTAReachProbability: ctaReach,
		},
		AttentionScore: score,
		OverallScore:   math.Round(overall),
		Insights:       insights(score, pattern, ctaReach),
	}
}

// PassesStandards макет достаточно хорошо ведёт взгляд к CTA
func PassesStandards(p entity.HeatmapPrediction) bool {
	return p.OverallScore >= 70 &&
		p.AttentionScore.CTA >= 60 &&
		p.GazePath.CTAReachProbability >= 65
}

// simulateSaccades жадно выбирает следующий элемент по весу, делённому на расстояние,
// пока не кончится бюджет внимания или кандидаты.
func simulateSaccades(layers []entity.Layer, startX, startY float64) []entity.HeatmapPoint {
	elements := make([]*element, 0, len(layers))
	for _, l := range layers {
		if l == nil || l.Type() == entity.LayerBackground || !l.Geometry().Visible {
			continue
		}
		cx, cy := l.Geometry().Center()
		elements = append(elements, &element{cx: cx, cy: cy, weight: VisualWeight(l)})
	}

	points := make([]entity.HeatmapPoint, 0, maxFixations)
	x, y := startX, startY
	remaining := attentionBudget

	for i := 0; i < maxFixations && i < len(elements); i++ {
		var next *element
		best := math.Inf(-1)
		for _, e := range elements {
			if e.visited {
				continue
			}
			if s := e.weight / (math.Hypot(e.cx-x, e.cy-y) + 1); s > best {
				best = s
				next = e
			}
		}
		if next == nil {
			break
		}

		att := math.Min(remaining, next.weight/1000*100)
		points = append(points, entity.HeatmapPoint{
			X:           next.cx,
			Y:           next.cy,
			Attention:   att,
			DwellTimeMs: 200 + att*10,
		})

		next.visited = true
		x, y = next.cx, next.cy
		remaining -= att
		if remaining <= 0 {
			break
		}
	}
	return points
}

// rasterize раскладывает фиксации на сетку 50px с гауссовым затуханием.
func rasterize(gaze []entity.HeatmapPoint, width, height float64) []entity.HeatmapPoint {
	var heatmap []entity.HeatmapPoint
	for y := 0.0; y < height; y += gridStep {
		for x := 0.0; x < width; x += gridStep {
			total := 0.0
			for _, p := range gaze {
				dx, dy := p.X-x, p.Y-y
				total += p.Attention * math.Exp(-(dx*dx+dy*dy)/(2*sigma*sigma))
			}
			if total > minInfluence {
				heatmap = append(heatmap, entity.HeatmapPoint{X: x, Y: y, Attention: math.Min(100, total)})
			}
		}
	}
	return heatmap
}

func classifyPattern(layers []entity.Layer, width, height float64, fixations int) entity.GazePattern {
	switch {
	case fPatternScore(layers, width, height) > patternCutoff:
		return entity.PatternF
	case zPatternScore(layers, width, height) > patternCutoff:
		return entity.PatternZ
	case fixations >= cascadeMinFixes:
		return entity.PatternCascade
	default:
		return entity.PatternScattered
	}
}

// fPatternScore доля слоёв в верхней трети и в левой половине
func fPatternScore(layers []entity.Layer, width, height float64) float64 {
	if len(layers) == 0 {
		return 0
	}
	top, left := 0, 0
	for _, l := range layers {
		if l == nil {
			continue
		}
		f := l.Geometry()
		if f.Y < height/3 {
			top++
		}
		if f.X < width/2 {
			left++
		}
	}
	n := float64(len(layers))
	return (float64(top)/n*0.6 + float64(left)/n*0.4) * 100
}

// zPatternScore доля четвертей холста, где есть хотя бы один слой
func zPatternScore(layers []entity.Layer, width, height float64) float64 {
	var quadrants [4]bool
	for _, l := range layers {
		if l == nil {
			continue
		}
		f := l.Geometry()
		q := 0
		if f.X >= width/2 {
			q++
		}
		if f.Y >= height/2 {
			q += 2
		}
		quadrants[q] = true
	}
	filled := 0
	for _, ok := range quadrants {
		if ok {
			filled++
		}
	}
	return float64(filled) / 4 * 100
}

func reachProbability(cta entity.Layer, gaze []entity.HeatmapPoint) float64 {
	cx, cy := cta.Geometry().Center()
	best := 0.0
	for _, p := range gaze {
		if d := math.Hypot(p.X-cx, p.Y-cy); d < ctaReachRadius {
			best = math.Max(best, 100-d/2)
		}
	}
	return best
}

func attentionNear(layers []entity.Layer, match func(entity.Layer) bool, gaze []entity.HeatmapPoint) float64 {
	l, ok := entity.FindLayer(layers, match)
	if !ok {
		return 0
	}
	cx, cy := l.Geometry().Center()
	total := 0.0
	for _, p := range gaze {
		if math.Hypot(p.X-cx, p.Y-cy) < roleRadius {
			total += p.Attention
		}
	}
	return math.Min(100, total)
}

func insights(score entity.AttentionScore, pattern entity.GazePattern, ctaReach float64) []string {
	var out []string
	if score.CTA < 50 {
		out = append(out, "CTA has low attention. Consider moving it higher or making it larger.")
	}
	if score.Headline < 60 {
		out = append(out, "Headline may be overlooked. Increase font size or contrast.")
	}
	if pattern == entity.PatternScattered {
		out = append(out, "Gaze path is scattered. Improve visual hierarchy.")
	}
	if ctaReach < 60 {
		out = append(out, fmt.Sprintf("Only %.0f%% chance users reach CTA. Optimize path.", ctaReach))
	}
	return out
}
