package ctr

import "adscore-bot/internal/domain/entity"

// DefaultIndustry строка таблицы, используемая для неизвестных отраслей
const DefaultIndustry = "default"

// Benchmarks таблица отраслевых CTR
type Benchmarks map[string]entity.Benchmark

// DefaultBenchmarks эмпирические значения Meta Ads 2024.
// Не проверенная истина, а настраиваемые константы (см. tuning).
func DefaultBenchmarks() Benchmarks {
	return Benchmarks{
		"ecommerce":     {Avg: 1.2, Top10: 3.5},
		"saas":          {Avg: 0.8, Top10: 2.8},
		"fashion":       {Avg: 1.5, Top10: 4.2},
		"tech":          {Avg: 0.9, Top10: 2.5},
		"finance":       {Avg: 0.6, Top10: 1.8},
		"health":        {Avg: 1.1, Top10: 3.2},
		"education":     {Avg: 1.0, Top10: 2.9},
		"realestate":    {Avg: 0.7, Top10: 2.1},
		DefaultIndustry: {Avg: 1.0, Top10: 3.0},
	}
}

// Lookup возвращает бенчмарк отрасли, для неизвестной отрасли строку default.
func (b Benchmarks) Lookup(industry string) entity.Benchmark {
	if v, ok := b[industry]; ok {
		return v
	}
	if v, ok := b[DefaultIndustry]; ok {
		return v
	}
	return DefaultBenchmarks()[DefaultIndustry]
}

// Merge накладывает overrides поверх таблицы и возвращает новую.
func (b Benchmarks) Merge(overrides Benchmarks) Benchmarks {
	out := make(Benchmarks, len(b)+len(overrides))
	for k, v := range b {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
