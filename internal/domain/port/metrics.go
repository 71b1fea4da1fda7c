package port

import "time"

// MetricsRecorder принимает технические метрики конвейера
type MetricsRecorder interface {
	ObserveStage(stage string, d time.Duration)
	CountRequest(operation string, err error)
	CountABDecision(decided bool)
}
