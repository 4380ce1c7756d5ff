package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/edgard/bridgebot/internal/config"
	"github.com/edgard/bridgebot/internal/database"
	"github.com/edgard/bridgebot/internal/relay"
)

type fakeStore struct {
	database.Store
	maintenanceErr error
	maintained     int
	deletedBefore  time.Time
}

func (f *fakeStore) RunSQLMaintenance(context.Context) error {
	f.maintained++
	return f.maintenanceErr
}

func (f *fakeStore) DeleteRecordsBefore(_ context.Context, before time.Time) (int64, error) {
	f.deletedBefore = before
	return 3, nil
}

func newDeps(t *testing.T, store database.Store) TaskDeps {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	pool, err := relay.NewBufferPool(t.TempDir(), log)
	if err != nil {
		t.Fatal(err)
	}
	return TaskDeps{
		Logger:  log,
		Store:   store,
		Buffers: pool,
		Config: &config.Config{Relay: config.RelayConfig{
			JournalRetention: 24 * time.Hour,
			TempMaxAge:       time.Hour,
		}},
	}
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()

	tasks := RegisterAllTasks(newDeps(t, &fakeStore{}))
	for name := range config.DefaultTasks {
		if tasks[name] == nil {
			t.Errorf("default task %q has no implementation", name)
		}
	}
}

func TestSQLMaintenanceTask(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	task := newSQLMaintenanceTask(newDeps(t, store))
	if err := task(context.Background()); err != nil || store.maintained != 1 {
		t.Fatalf("task() = %v, maintained %d", err, store.maintained)
	}

	store.maintenanceErr = errors.New("locked")
	if err := task(context.Background()); !errors.Is(err, store.maintenanceErr) {
		t.Errorf("task() error = %v, want wrapped maintenance error", err)
	}
}

func TestJournalRetentionTask(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	task := newJournalRetentionTask(newDeps(t, store))

	start := time.Now()
	if err := task(context.Background()); err != nil {
		t.Fatalf("task() error = %v", err)
	}
	cutoff := start.Add(-24 * time.Hour)
	if d := store.deletedBefore.Sub(cutoff); d < 0 || d > time.Minute {
		t.Errorf("cutoff = %v, want about %v", store.deletedBefore, cutoff)
	}
}

func TestTempSweepTask(t *testing.T) {
	t.Parallel()

	deps := newDeps(t, &fakeStore{})
	buf, err := deps.Buffers.Open("leftover")
	if err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(buf.Dir(), old, old); err != nil {
		t.Fatal(err)
	}

	if err := newTempSweepTask(deps)(context.Background()); err != nil {
		t.Fatalf("task() error = %v", err)
	}
	if _, err := os.Stat(buf.Dir()); !os.IsNotExist(err) {
		t.Errorf("leftover transfer dir not swept")
	}
}
