// Package balance оценивает визуальный баланс макета: распределение веса,
// наложения, отступы и долю свободного места.
package balance

import (
	"fmt"
	"math"

	"adscore-bot/internal/domain/entity"
)

const (
	idealMargin     = 40.0
	minWhitespace   = 0.4
	maxWhitespace   = 0.6
	issueThreshold  = 70.0
	overlapPenalty  = 25.0
	perfectBalance  = 100.0
	deviationFactor = 200.0
)

type weighted struct {
	id     string
	frame  entity.Frame
	weight float64
}

// Score считает баланс слоёв на холсте width x height (0: 1080).
func Score(layers []entity.Layer, width, height float64) entity.BalanceScore {
	if width <= 0 {
		width = entity.DefaultCanvasSize
	}
	if height <= 0 {
		height = entity.DefaultCanvasSize
	}

	items := collect(layers)
	var issues, suggestions []string

	h := axisBalance(items, width, func(f entity.Frame) float64 { x, _ := f.Center(); return x })
	if h < issueThreshold {
		issues = append(issues, fmt.Sprintf("Horizontal imbalance detected (score: %.0f)", h))
		suggestions = append(suggestions, "Redistribute elements more evenly across left and right sides")
	}

	v := axisBalance(items, height, func(f entity.Frame) float64 { _, y := f.Center(); return y })
	if v < issueThreshold {
		issues = append(issues, fmt.Sprintf("Vertical imbalance detected (score: %.0f)", v))
		suggestions = append(suggestions, "Adjust element placement to balance top and bottom areas")
	}

	pairs := overlaps(items)
	overlapFree := math.Max(0, 100-float64(len(pairs))*overlapPenalty)
	if len(pairs) > 0 {
		issues = append(issues, fmt.Sprintf("%d element overlap(s) detected", len(pairs)))
		suggestions = append(suggestions, "Increase spacing between overlapping elements")
		for _, p := range pairs {
			issues = append(issues, fmt.Sprintf("  - %s overlaps with %s", p[0], p[1]))
		}
	}

	spacing := spacingScore(items)
	if spacing < issueThreshold {
		issues = append(issues, "Elements are too close together")
		suggestions = append(suggestions, "Increase margins between elements (recommended: 40px minimum)")
	}

	used := usedRatio(items, width, height)
	whitespace := whitespaceScore(1 - used)
	if whitespace < issueThreshold {
		if used > maxWhitespace {
			issues = append(issues, "Layout feels cramped (insufficient whitespace)")
			suggestions = append(suggestions, "Reduce element sizes or remove less important elements")
		} else {
			issues = append(issues, "Layout feels empty (too much whitespace)")
			suggestions = append(suggestions, "Add more content or increase element sizes")
		}
	}

	overall := h*0.25 + v*0.25 + overlapFree*0.25 + spacing*0.15 + whitespace*0.10

	return entity.BalanceScore{
		Overall: math.Round(overall),
		Breakdown: entity.BalanceBreakdown{
			HorizontalBalance: h,
			VerticalBalance:   v,
			Spacing:           spacing,
			OverlapFree:       overlapFree,
			Whitespace:        whitespace,
		},
		Issues:      issues,
		Suggestions: suggestions,
	}
}

// IsBalanced общий балл не ниже minScore (0: 70)
func IsBalanced(layers []entity.Layer, width, height, minScore float64) bool {
	if minScore <= 0 {
		minScore = issueThreshold
	}
	return Score(layers, width, height).Overall >= minScore
}

func collect(layers []entity.Layer) []weighted {
	items := make([]weighted, 0, len(layers))
	for _, l := range layers {
		if l == nil || l.Type() == entity.LayerBackground || !l.Geometry().Visible {
			continue
		}
		f := l.Geometry()
		items = append(items, weighted{id: f.ID, frame: f, weight: weight(l)})
	}
	return items
}

// weight вес элемента для баланса; текст здесь легче, чем в модели внимания
func weight(l entity.Layer) float64 {
	f := l.Geometry()
	w := f.Area() * f.Opacity
	switch v := l.(type) {
	case *entity.TextLayer:
		w *= 0.8 * v.Weight() / 400
	case *entity.CtaLayer:
		w *= 1.3 * v.Weight() / 400
	case *entity.ProductLayer:
		w *= 1.5
	case *entity.BackgroundLayer, *entity.ShapeLayer:
	}
	return w
}

// axisBalance сравнивает моменты веса по обе стороны от центральной оси.
func axisBalance(items []weighted, size float64, pos func(entity.Frame) float64) float64 {
	center := size / 2
	before, after := 0.0, 0.0
	for _, it := range items {
		p := pos(it.frame)
		if p < center {
			before += it.weight * (center - p) / center
		} else {
			after += it.weight * (p - center) / center
		}
	}
	total := before + after
	if total == 0 {
		return perfectBalance
	}
	deviation := math.Abs(before/total - 0.5)
	return math.Max(0, 100-deviation*deviationFactor)
}

func overlaps(items []weighted) [][2]string {
	var pairs [][2]string
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			a, b := items[i].frame, items[j].frame
			overlapX := a.X < b.X+b.Width && a.X+a.Width > b.X
			overlapY := a.Y < b.Y+b.Height && a.Y+a.Height > b.Y
			if overlapX && overlapY {
				pairs = append(pairs, [2]string{items[i].id, items[j].id})
			}
		}
	}
	return pairs
}

func spacingScore(items []weighted) float64 {
	if len(items) < 2 {
		return 100
	}
	total, n := 0.0, 0
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			a, b := items[i].frame, items[j].frame
			gapX := math.Max(0, math.Min(math.Abs(a.X+a.Width-b.X), math.Abs(b.X+b.Width-a.X)))
			gapY := math.Max(0, math.Min(math.Abs(a.Y+a.Height-b.Y), math.Abs(b.Y+b.Height-a.Y)))
			total += math.Min(gapX, gapY)
			n++
		}
	}
	avg := total / float64(n)
	if avg >= idealMargin {
		return 100
	}
	return avg / idealMargin * 100
}

func usedRatio(items []weighted, width, height float64) float64 {
	used := 0.0
	for _, it := range items {
		used += it.frame.Area()
	}
	return used / (width * height)
}

func whitespaceScore(ratio float64) float64 {
	switch {
	case ratio >= minWhitespace && ratio <= maxWhitespace:
		return 100
	case ratio < minWhitespace:
		return math.Max(0, ratio/minWhitespace*100)
	default:
		return math.Max(0, (1-ratio)/minWhitespace*100)
	}
}
