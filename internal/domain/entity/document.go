package entity

const (
	DefaultCanvasSize = 1080
	defaultFontSize   = 16
)

// LayerSpec слой в том виде, в каком он приходит из редактора (JSON)
type LayerSpec struct {
	ID         string   `json:"id"`
	Type       string   `json:"type" validate:"required"`
	Role       string   `json:"role,omitempty"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Width      float64  `json:"width" validate:"gte=0"`
	Height     float64  `json:"height" validate:"gte=0"`
	Opacity    *float64 `json:"opacity,omitempty" validate:"omitempty,gte=0,lte=1"`
	Visible    *bool    `json:"visible,omitempty"`
	FontSize   float64  `json:"fontSize,omitempty" validate:"gte=0"`
	FontWeight float64  `json:"fontWeight,omitempty" validate:"gte=0"`
	Text       string   `json:"text,omitempty"`
}

// Document макет креатива: холст и упорядоченный список слоёв
type Document struct {
	Width    float64     `json:"width" validate:"gte=0"`
	Height   float64     `json:"height" validate:"gte=0"`
	Industry string      `json:"industry,omitempty"`
	Layers   []LayerSpec `json:"layers" validate:"dive"`
}

// Canvas возвращает размеры холста с подстановкой 1080x1080 по умолчанию.
func (d Document) Canvas() (width, height float64) {
	width, height = d.Width, d.Height
	if width <= 0 {
		width = DefaultCanvasSize
	}
	if height <= 0 {
		height = DefaultCanvasSize
	}
	return width, height
}

// BuildLayers переводит спецификации слоёв в типизированные слои.
func (d Document) BuildLayers() []Layer {
	layers := make([]Layer, 0, len(d.Layers))
	for _, s := range d.Layers {
		layers = append(layers, s.Build())
	}
	return layers
}

// Build создаёт слой нужного вида. Неизвестный тип превращается в ShapeLayer.
func (s LayerSpec) Build() Layer {
	frame := Frame{
		ID:      s.ID,
		Role:    s.Role,
		X:       s.X,
		Y:       s.Y,
		Width:   s.Width,
		Height:  s.Height,
		Opacity: 1,
		Visible: true,
	}
	if s.Opacity != nil {
		frame.Opacity = clamp01(*s.Opacity)
	}
	if s.Visible != nil {
		frame.Visible = *s.Visible
	}

	typo := Typography{Text: s.Text, FontSize: s.FontSize, FontWeight: s.FontWeight}
	if typo.FontSize <= 0 {
		typo.FontSize = defaultFontSize
	}
	if typo.FontWeight <= 0 {
		typo.FontWeight = defaultFontWeight
	}

	switch LayerType(s.Type) {
	case LayerText:
		return &TextLayer{Frame: frame, Typography: typo}
	case LayerCTA:
		return &CtaLayer{Frame: frame, Typography: typo}
	case LayerProduct:
		return &ProductLayer{Frame: frame}
	case LayerBackground:
		return &BackgroundLayer{Frame: frame}
	default:
		return &ShapeLayer{Frame: frame}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
