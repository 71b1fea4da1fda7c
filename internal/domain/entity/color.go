package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PixelSample один пиксель из декодированного изображения
type PixelSample struct {
	R uint8
	G uint8
	B uint8
}

// Color цвет в пространстве RGB (компоненты 0..255, дробные после усреднения)
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// ColorFromSample переводит пиксель в Color.
func ColorFromSample(p PixelSample) Color {
	return Color{R: float64(p.R), G: float64(p.G), B: float64(p.B)}
}

// Hex возвращает цвет в виде #rrggbb
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

// Saturation (max-min)/max, 0 для чёрного
func (c Color) Saturation() float64 {
	hi := math.Max(c.R, math.Max(c.G, c.B))
	lo := math.Min(c.R, math.Min(c.G, c.B))
	if hi == 0 {
		return 0
	}
	return (hi - lo) / hi
}

// Brightness средняя яркость в диапазоне 0..1
func (c Color) Brightness() float64 {
	return (c.R + c.G + c.B) / (3 * 255)
}

// ParseHex разбирает строку вида #rrggbb (решётка необязательна).
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{
		R: float64((v >> 16) & 0xff),
		G: float64((v >> 8) & 0xff),
		B: float64(v & 0xff),
	}, nil
}

func channel(v float64) uint8 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}

// ColorCluster кластер k-means: центроид и число попавших в него пикселей
type ColorCluster struct {
	Centroid   Color   `json:"centroid"`
	Population int     `json:"population"`
	Percentage float64 `json:"percentage"` // доля выборки, 0..100
}

// DominantColors роли цветов палитры
type DominantColors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// ColorDistribution описывает, насколько палитра однородна.
type ColorDistribution struct {
	Dominance float64 `json:"dominance"` // доля самого крупного кластера, 0..100
	Diversity float64 `json:"diversity"` // нормированная энтропия, 0..100
}

// AccessiblePalette палитра после правок контраста
type AccessiblePalette struct {
	DominantColors
	Adjustments []string `json:"adjustments"`
}
