package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	HTTPAddr      string
	LogLevel      string
	LogFile       string
	AppEnv        string
	TuningFile    string

	PaletteK        int
	PaletteMaxIter  int
	PaletteSamples  int
	PriorSamples    int
	DefaultIndustry string
	RandomSeed      uint64
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         os.Getenv("LOG_FILE"),
		AppEnv:          getEnv("APP_ENV", "dev"),
		TuningFile:      os.Getenv("TUNING_FILE"),
		DefaultIndustry: getEnv("DEFAULT_INDUSTRY", "default"),
	}

	var err error
	if cfg.PaletteK, err = getInt("PALETTE_K", 5); err != nil {
		return nil, err
	}
	if cfg.PaletteMaxIter, err = getInt("PALETTE_MAX_ITER", 20); err != nil {
		return nil, err
	}
	if cfg.PaletteSamples, err = getInt("PALETTE_SAMPLES", 10000); err != nil {
		return nil, err
	}
	if cfg.PriorSamples, err = getInt("PRIOR_SAMPLES", 100); err != nil {
		return nil, err
	}
	if raw := os.Getenv("RANDOM_SEED"); raw != "" {
		if cfg.RandomSeed, err = strconv.ParseUint(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("RANDOM_SEED: %w", err)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %d", key, v)
	}
	return v, nil
}
