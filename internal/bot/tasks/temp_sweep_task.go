package tasks

import (
	"context"
	"fmt"
)

// newTempSweepTask removes transfer directories a crashed or killed process
// left behind in the work directory.
func newTempSweepTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", TempSweep)

	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		removed, err := deps.Buffers.Sweep(deps.Config.Relay.TempMaxAge)
		if err != nil {
			log.ErrorContext(ctx, "Temp sweep failed", "removed", removed, "error", err)
			return fmt.Errorf("temp sweep failed: %w", err)
		}

		log.DebugContext(ctx, "Temp sweep completed", "removed", removed, "dir", deps.Buffers.Dir())
		return nil
	}
}
