package random

import (
	"math/rand/v2"
	"time"

	"adscore-bot/internal/domain/port"
)

// Source детерминированный генератор PCG, воспроизводимый по seed.
// Не потокобезопасен: на каждый запрос создаётся свой экземпляр.
type Source struct {
	rng *rand.Rand
}

// NewSource создаёт генератор с заданным seed
func NewSource(seed uint64) *Source {
	return &Source{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 возвращает число в [0, 1)
func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

// Factory выдаёт источники для запросов.
// Если Seed равен нулю, seed берётся из текущего времени.
type Factory struct {
	Seed uint64
}

// NewFactory создаёт фабрику с фиксированным seed (0 означает случайный).
func NewFactory(seed uint64) *Factory {
	return &Factory{Seed: seed}
}

// New возвращает новый источник и его seed
func (f *Factory) New() (port.RandomSource, uint64) {
	seed := f.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return NewSource(seed), seed
}

var (
	_ port.RandomSource  = (*Source)(nil)
	_ port.RandomFactory = (*Factory)(nil)
)
