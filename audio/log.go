package audio

import (
	"context"
	"log"
	"time"
)

// LogDecisions writes the engine's boundary decisions to logger until ctx is done.
// Only decisions that re-rolled the dice are logged unless verbose is set. Whatever
// is pending when ctx is done is flushed before returning.
func LogDecisions(ctx context.Context, engine *Engine, logger *log.Logger, period time.Duration, verbose bool) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	flush := func() {
		engine.Drain(func(d Decision) {
			if !d.Decided && !verbose {
				return
			}
			logDecision(logger, d)
		})
		if n := engine.Dropped(); n > 0 {
			logger.Printf("decision log: dropped %d entries", n)
		}
	}
	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-ticker.C:
			flush()
		}
	}
}

func logDecision(logger *log.Logger, d Decision) {
	stutter := ""
	if d.Stutter {
		stutter = " stutter"
	}
	logger.Printf("sample %d beat %d for %d samples (direction %s, stretch %d)%s",
		d.Sample, d.Beat, d.Length, d.Direction, d.Stretch, stutter)
}
