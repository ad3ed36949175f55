package retention

import (
	"context"
	"testing"
	"time"

	"veritas-hq/veritas/pkg/proof/storage"
)

func TestScheduler_StartStop(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStore(), &Config{
		RetentionDays: 90,
		PruneSchedule: "0 3 * * *",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pruner.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !pruner.scheduler.IsRunning() {
		t.Error("scheduler not running after Start()")
	}

	next := pruner.NextPruning()
	if next == nil {
		t.Fatal("NextPruning() = nil while running")
	}
	if !next.After(time.Now()) {
		t.Errorf("NextPruning() = %v, want a future time", next)
	}

	pruner.Stop()
	if pruner.scheduler.IsRunning() {
		t.Error("scheduler still running after Stop()")
	}
}

func TestScheduler_EmptyScheduleIsNoop(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStore(), &Config{
		RetentionDays: 90,
		PruneSchedule: "",
	})

	if err := pruner.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if pruner.scheduler.IsRunning() {
		t.Error("scheduler running despite empty schedule")
	}
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStore(), &Config{
		RetentionDays: 90,
		PruneSchedule: "not a cron expression",
	})

	if err := pruner.Start(context.Background()); err == nil {
		t.Fatal("Start() succeeded with an invalid cron expression")
	}
}

func TestScheduler_StopViaContext(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStore(), &Config{
		RetentionDays: 90,
		PruneSchedule: "0 3 * * *",
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := pruner.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for pruner.scheduler.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("scheduler still running after context cancellation")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
