package entity

// LayerType тип элемента макета
type LayerType string

const (
	LayerText       LayerType = "text"
	LayerCTA        LayerType = "cta"
	LayerProduct    LayerType = "product"
	LayerBackground LayerType = "background"
	LayerShape      LayerType = "shape"
)

// Роли, по которым ищутся ключевые элементы макета.
const (
	RoleHeadline    = "headline"
	RoleDescription = "description"
	RoleCTA         = "cta"
	RoleProduct     = "product"
)

const defaultFontWeight = 400

// Frame общая геометрия любого слоя
type Frame struct {
	ID      string
	Role    string
	X       float64
	Y       float64
	Width   float64
	Height  float64
	Opacity float64 // 0..1
	Visible bool
}

// Center возвращает координаты центра слоя
func (f Frame) Center() (x, y float64) {
	return f.X + f.Width/2, f.Y + f.Height/2
}

// Area площадь слоя, отрицательные размеры считаются нулём
func (f Frame) Area() float64 {
	w, h := f.Width, f.Height
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w * h
}

// Layer элемент макета. Конкретный вид задаётся типом:
// *TextLayer, *CtaLayer, *ProductLayer, *BackgroundLayer, *ShapeLayer.
type Layer interface {
	Type() LayerType
	Geometry() Frame
}

// Typography параметры текста для text и cta слоёв
type Typography struct {
	Text       string
	FontSize   float64
	FontWeight float64
}

// Weight возвращает начертание, 400 если не задано
func (t Typography) Weight() float64 {
	if t.FontWeight <= 0 {
		return defaultFontWeight
	}
	return t.FontWeight
}

type TextLayer struct {
	Frame
	Typography
}

type CtaLayer struct {
	Frame
	Typography
}

type ProductLayer struct {
	Frame
}

type BackgroundLayer struct {
	Frame
}

type ShapeLayer struct {
	Frame
}

func (l *TextLayer) Type() LayerType       { return LayerText }
func (l *CtaLayer) Type() LayerType        { return LayerCTA }
func (l *ProductLayer) Type() LayerType    { return LayerProduct }
func (l *BackgroundLayer) Type() LayerType { return LayerBackground }
func (l *ShapeLayer) Type() LayerType      { return LayerShape }

func (l *TextLayer) Geometry() Frame       { return l.Frame }
func (l *CtaLayer) Geometry() Frame        { return l.Frame }
func (l *ProductLayer) Geometry() Frame    { return l.Frame }
func (l *BackgroundLayer) Geometry() Frame { return l.Frame }
func (l *ShapeLayer) Geometry() Frame      { return l.Frame }

// IsCTA слой является призывом к действию по типу или по роли
func IsCTA(l Layer) bool {
	return l.Type() == LayerCTA || l.Geometry().Role == RoleCTA
}

// IsProduct слой является товаром по типу или по роли
func IsProduct(l Layer) bool {
	return l.Type() == LayerProduct || l.Geometry().Role == RoleProduct
}

// FindLayer возвращает первый слой, удовлетворяющий условию.
func FindLayer(layers []Layer, match func(Layer) bool) (Layer, bool) {
	for _, l := range layers {
		if l != nil && match(l) {
			return l, true
		}
	}
	return nil, false
}

// WithRole условие поиска по роли
func WithRole(role string) func(Layer) bool {
	return func(l Layer) bool { return l.Geometry().Role == role }
}

// TypographyOf возвращает текстовые параметры слоя, если они у него есть.
func TypographyOf(l Layer) (Typography, bool) {
	switch v := l.(type) {
	case *TextLayer:
		return v.Typography, true
	case *CtaLayer:
		return v.Typography, true
	case *ProductLayer, *BackgroundLayer, *ShapeLayer:
		return Typography{}, false
	default:
		return Typography{}, false
	}
}
