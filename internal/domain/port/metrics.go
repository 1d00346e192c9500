package port

import "time"

// InspectionMetrics интерфейс сборщика метрик конвейера
type InspectionMetrics interface {
	// ObserveUpload учитывает завершённый запрос с источником и исходом
	ObserveUpload(source, outcome string)

	// ObserveDefect учитывает один найденный дефект
	ObserveDefect(defectType string)

	// ObserveStage записывает длительность этапа
	ObserveStage(stage string, d time.Duration)
}
