package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// StartFlusher периодически сбрасывает буферы приёмника и вызывает onTick
// (например, для записи статистики). Останавливается при отмене ctx.
func StartFlusher(ctx context.Context, sink Sink, every time.Duration, onTick func()) error {
	if every <= 0 {
		return fmt.Errorf("интервал сброса журналов должен быть положительным: %v", every)
	}

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(every).WaitForSchedule().Do(func() {
		if f, ok := sink.(Flusher); ok {
			if err := f.Flush(); err != nil {
				slog.Warn("log sink flush failed", "error", err)
			}
		}
		if onTick != nil {
			onTick()
		}
	})
	if err != nil {
		return err
	}

	scheduler.StartAsync()
	go func() {
		<-ctx.Done()
		scheduler.Stop()
		slog.Debug("log flusher stopped")
	}()
	return nil
}
