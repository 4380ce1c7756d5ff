package tasks

import (
	"context"
	"fmt"
	"time"
)

// newJournalRetentionTask deletes journal rows older than the configured retention.
func newJournalRetentionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", JournalRetention)

	return func(ctx context.Context) error {
		before := time.Now().Add(-deps.Config.Relay.JournalRetention)
		deleted, err := deps.Store.DeleteRecordsBefore(ctx, before)
		if err != nil {
			log.ErrorContext(ctx, "Journal retention failed", "error", err)
			return fmt.Errorf("journal retention failed: %w", err)
		}

		log.InfoContext(ctx, "Journal retention completed", "deleted", deleted, "retention", deps.Config.Relay.JournalRetention)
		return nil
	}
}
