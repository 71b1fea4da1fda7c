package port

// RandomSource источник равномерных случайных чисел в [0, 1).
// Передаётся в вызов явно, чтобы расчёты можно было воспроизвести по seed.
type RandomSource interface {
	Float64() float64
}

// RandomFactory выдаёт новый источник на каждый запрос
type RandomFactory interface {
	// New возвращает источник и seed, которым он инициализирован
	New() (RandomSource, uint64)
}
