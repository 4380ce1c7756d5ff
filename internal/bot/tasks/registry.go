package tasks

import (
	"context"
)

// ScheduledTaskFunc defines the standard signature for all scheduled tasks.
// The context provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// Task names, matching the keys of the scheduler.tasks configuration section.
const (
	SQLMaintenance   = "sql_maintenance"
	JournalRetention = "journal_retention"
	TempSweep        = "temp_sweep"
)

// RegisterAllTasks initializes and returns a map of all registered scheduled tasks.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		SQLMaintenance:   newSQLMaintenanceTask(deps),
		JournalRetention: newJournalRetentionTask(deps),
		TempSweep:        newTempSweepTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
