package palette

import (
	"math"

	"adscore-bot/internal/domain/entity"
)

const (
	textOnLight = "#1A1A1A"
	textOnDark  = "#FFFFFF"
	white       = "#FFFFFF"
)

// ToDominantColors раздаёт кластерам роли палитры.
// При равенстве признака выигрывает кластер, стоящий раньше.
func ToDominantColors(clusters []entity.ColorCluster) entity.DominantColors {
	if len(clusters) == 0 {
		clusters = []entity.ColorCluster{{Population: 1, Percentage: 100}}
	}

	primary := clusters[0].Centroid
	secondary := primary
	if len(clusters) > 1 {
		secondary = clusters[1].Centroid
	}

	accent, background, text := clusters[0].Centroid, clusters[0].Centroid, clusters[0].Centroid
	for _, c := range clusters[1:] {
		if c.Centroid.Saturation() > accent.Saturation() {
			accent = c.Centroid
		}
		if c.Centroid.Brightness() > background.Brightness() {
			background = c.Centroid
		}
		if c.Centroid.Brightness() < text.Brightness() {
			text = c.Centroid
		}
	}

	return entity.DominantColors{
		Primary:    primary.Hex(),
		Secondary:  secondary.Hex(),
		Accent:     accent.Hex(),
		Background: background.Hex(),
		Text:       text.Hex(),
	}
}

// AnalyzeDistribution считает долю главного цвета и разнообразие палитры.
func AnalyzeDistribution(clusters []entity.ColorCluster) entity.ColorDistribution {
	if len(clusters) == 0 {
		return entity.ColorDistribution{}
	}

	entropy := 0.0
	for _, c := range clusters {
		p := c.Percentage / 100
		if p <= 0 {
			continue
		}
		entropy -= p * math.Log2(p)
	}

	diversity := 0.0
	if maxEntropy := math.Log2(float64(len(clusters))); maxEntropy > 0 {
		diversity = entropy / maxEntropy * 100
	}

	return entity.ColorDistribution{
		Dominance: clusters[0].Percentage,
		Diversity: diversity,
	}
}

// SuggestAccessiblePalette подгоняет палитру под контраст текста и фона.
// brandHex, если задан, становится основным цветом.
func SuggestAccessiblePalette(colors entity.DominantColors, brandHex string) entity.AccessiblePalette {
	out := entity.AccessiblePalette{DominantColors: colors}

	if brandHex != "" {
		if brand, err := entity.ParseHex(brandHex); err == nil {
			out.Primary = brand.Hex()
			out.Adjustments = append(out.Adjustments, "Using brand color as primary")
		}
	}

	bgBrightness := 0.5
	if bg, err := entity.ParseHex(out.Background); err == nil {
		bgBrightness = bg.Brightness()
		if bgBrightness >= 0.1 && bgBrightness <= 0.9 {
			out.Background = white
			bgBrightness = 1
			out.Adjustments = append(out.Adjustments, "Adjusted background for better contrast")
		}
	}

	if bgBrightness > 0.5 {
		out.Text = textOnLight
	} else {
		out.Text = textOnDark
	}
	return out
}
