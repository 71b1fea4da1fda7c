package container

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"adscore-bot/config"
	app "adscore-bot/internal/application"
	"adscore-bot/internal/domain/ctr"
	"adscore-bot/internal/domain/port"
	"adscore-bot/internal/infrastructure/metrics"
	"adscore-bot/internal/infrastructure/random"
	"adscore-bot/internal/infrastructure/storage"
	"adscore-bot/internal/infrastructure/tuning"
	"adscore-bot/internal/infrastructure/vision"
)

type Container struct {
	SessionService  *app.SessionService
	CreativeService *app.CreativeService
	Metrics         *metrics.Recorder
	Log             *logrus.Logger
}

// Deps внешние зависимости; пустые поля заполняются реализациями по умолчанию
type Deps struct {
	Sessions port.SessionRepository
	Sampler  port.PixelSampler
	Random   port.RandomFactory
	Metrics  *metrics.Recorder
}

func New(cfg *config.Config, log *logrus.Logger, deps Deps) (*Container, error) {
	tuned, err := tuning.Load(cfg.TuningFile)
	if err != nil {
		return nil, fmt.Errorf("load tuning: %w", err)
	}

	if deps.Sessions == nil {
		deps.Sessions = storage.NewMemorySessionRepository()
	}
	if deps.Sampler == nil {
		deps.Sampler = vision.NewSampler()
	}
	if deps.Random == nil {
		deps.Random = random.NewFactory(cfg.RandomSeed)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	priorSamples := cfg.PriorSamples
	if tuned.PriorSamples > 0 {
		priorSamples = tuned.PriorSamples
	}

	estimator := ctr.NewEstimator(ctr.WithBenchmarks(tuned.BenchmarkTable()))
	creative := app.NewCreativeService(deps.Sampler, estimator, deps.Random, deps.Metrics, log, app.Settings{
		PaletteK:        cfg.PaletteK,
		PaletteMaxIter:  cfg.PaletteMaxIter,
		PaletteSamples:  cfg.PaletteSamples,
		PriorSamples:    priorSamples,
		DefaultIndustry: cfg.DefaultIndustry,
		CTRTarget:       tuned.CTRTarget,
	})

	log.WithFields(logrus.Fields{
		"tuning":     cfg.TuningFile,
		"industries": len(estimator.Benchmarks()),
		"prior":      priorSamples,
		"seed":       cfg.RandomSeed,
	}).Debug("container assembled")

	return &Container{
		SessionService:  app.NewSessionService(deps.Sessions),
		CreativeService: creative,
		Metrics:         deps.Metrics,
		Log:             log,
	}, nil
}
