// Package tuning загружает настраиваемые константы оценки из YAML.
package tuning

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"adscore-bot/internal/domain/ctr"
	"adscore-bot/internal/domain/entity"
)

// ErrInvalid файл настроек не прошёл проверку
var ErrInvalid = errors.New("invalid tuning")

// File содержимое файла настроек.
//
//	benchmarks:
//	  gaming: {avg: 1.4, top10: 3.9}
//	ctr_target: 1.5
//	prior_samples: 200
type File struct {
	Benchmarks   map[string]entity.Benchmark `yaml:"benchmarks"`
	CTRTarget    float64                     `yaml:"ctr_target"`
	PriorSamples int                         `yaml:"prior_samples"`
}

// Load читает и проверяет файл. Пустой путь даёт пустые настройки.
func Load(path string) (*File, error) {
	if path == "" {
		return &File{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tuning file: %w", err)
	}
	return Parse(data)
}

// Parse разбирает YAML и проверяет значения
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse tuning: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate проверяет, что avg > 0 и top10 >= avg для каждой отрасли.
func (f *File) Validate() error {
	keys := make([]string, 0, len(f.Benchmarks))
	for k := range f.Benchmarks {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b := f.Benchmarks[k]
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("%w: empty industry key", ErrInvalid)
		}
		if b.Avg <= 0 {
			return fmt.Errorf("%w: %s: avg must be positive, got %v", ErrInvalid, k, b.Avg)
		}
		if b.Top10 < b.Avg {
			return fmt.Errorf("%w: %s: top10 %v is below avg %v", ErrInvalid, k, b.Top10, b.Avg)
		}
	}
	if f.CTRTarget < 0 {
		return fmt.Errorf("%w: ctr_target must not be negative", ErrInvalid)
	}
	if f.PriorSamples < 0 {
		return fmt.Errorf("%w: prior_samples must not be negative", ErrInvalid)
	}
	return nil
}

// BenchmarkTable накладывает отрасли из файла на таблицу по умолчанию.
// Ключи приводятся к нижнему регистру.
func (f *File) BenchmarkTable() ctr.Benchmarks {
	overrides := make(ctr.Benchmarks, len(f.Benchmarks))
	for k, v := range f.Benchmarks {
		overrides[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return ctr.DefaultBenchmarks().Merge(overrides)
}
