package retention

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"veritas-hq/veritas/pkg/proof"
	"veritas-hq/veritas/pkg/proof/export"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain proofs.
	// 0 means keep proofs forever (no age-based pruning).
	RetentionDays int

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string

	// ArchiveBeforeDelete enables archiving proofs to JSON before deletion.
	ArchiveBeforeDelete bool

	// ArchivePath is the directory to store archived proofs.
	ArchivePath string

	// MaxProofs is the maximum number of proofs to keep.
	// 0 means unlimited.
	MaxProofs int64
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays:       90,
		PruneSchedule:       "0 3 * * *",
		ArchiveBeforeDelete: false,
		ArchivePath:         "data/archives/",
		MaxProofs:           0,
	}
}

// Pruner enforces retention policies on stored proofs.
type Pruner struct {
	store     proof.Store
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
	now       func() time.Time
}

// NewPruner creates a new retention pruner.
func NewPruner(store proof.Store, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	pruner := &Pruner{
		store:  store,
		config: config,
		logger: slog.Default().With("component", "proof.retention"),
		now:    time.Now,
	}

	pruner.scheduler = NewScheduler(pruner)

	return pruner
}

// Prune deletes proofs older than the retention period or exceeding the
// maximum proof count.
//
// Pruning happens in two phases:
//  1. Age-based: delete proofs older than RetentionDays.
//  2. Count-based: if total proofs > MaxProofs, delete the oldest.
//
// Both can run in one cycle. Returns the total number of proofs deleted.
// Audit records are never touched.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	if p.config.RetentionDays > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by age failed: %w", err)
		}
		totalDeleted += deleted
		p.logger.Info("pruned proofs by age",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
		)
	}

	if p.config.MaxProofs > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by count failed: %w", err)
		}
		totalDeleted += deleted
		p.logger.Info("pruned proofs by count",
			"deleted_count", deleted,
			"max_proofs", p.config.MaxProofs,
		)
	}

	if totalDeleted == 0 {
		p.logger.Debug("no proofs pruned",
			"retention_days", p.config.RetentionDays,
			"max_proofs", p.config.MaxProofs,
		)
	} else {
		p.logger.Info("proof pruning completed",
			"total_deleted", totalDeleted,
			"retention_days", p.config.RetentionDays,
			"max_proofs", p.config.MaxProofs,
		)
	}

	return totalDeleted, nil
}

// pruneByAge deletes proofs created before the retention horizon.
func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)

	p.logger.Debug("pruning by age",
		"cutoff_time", cutoff,
		"retention_days", p.config.RetentionDays,
	)

	if p.config.ArchiveBeforeDelete {
		query := &proof.Query{EndTime: &cutoff, Limit: int(^uint(0) >> 1)}
		if err := p.archive(ctx, query); err != nil {
			return 0, proof.NewRetentionError(p.config.RetentionDays, err)
		}
	}

	deleted, err := p.store.DeleteProofsBefore(ctx, cutoff)
	if err != nil {
		return 0, proof.NewRetentionError(p.config.RetentionDays, err)
	}

	return deleted, nil
}

// pruneByCount deletes the oldest proofs when the total exceeds MaxProofs.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.store.CountProofs(ctx, &proof.Query{})
	if err != nil {
		return 0, fmt.Errorf("failed to count proofs: %w", err)
	}

	if count <= p.config.MaxProofs {
		p.logger.Debug("proof count within limit",
			"current", count,
			"max", p.config.MaxProofs,
		)
		return 0, nil
	}

	toDelete := count - p.config.MaxProofs

	p.logger.Info("proof count exceeds limit, pruning oldest",
		"current_count", count,
		"max_proofs", p.config.MaxProofs,
		"to_delete", toDelete,
	)

	// Fetch the oldest proofs plus the first one to keep; that proof's
	// creation time is the deletion cutoff.
	oldest, err := p.store.QueryProofs(ctx, &proof.Query{
		SortOrder: "asc",
		Limit:     int(toDelete) + 1,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to query proofs: %w", err)
	}
	if len(oldest) == 0 {
		return 0, nil
	}

	var cutoff time.Time
	if len(oldest) > int(toDelete) {
		cutoff = oldest[toDelete].CreatedAt
		oldest = oldest[:toDelete]
	} else {
		// Everything qualifies; use a cutoff just past the newest.
		cutoff = oldest[len(oldest)-1].CreatedAt.Add(time.Nanosecond)
	}

	if p.config.ArchiveBeforeDelete {
		if err := p.archiveProofs(ctx, oldest); err != nil {
			return 0, fmt.Errorf("archive failed: %w", err)
		}
	}

	deleted, err := p.store.DeleteProofsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete failed: %w", err)
	}

	return deleted, nil
}

// archive exports the proofs matching the query to a JSON archive file.
func (p *Pruner) archive(ctx context.Context, query *proof.Query) error {
	proofs, err := p.store.QueryProofs(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query proofs for archiving: %w", err)
	}

	if len(proofs) == 0 {
		p.logger.Debug("no proofs to archive")
		return nil
	}

	return p.archiveProofs(ctx, proofs)
}

// archiveProofs writes the given proofs to a timestamped JSON file under
// the archive directory.
func (p *Pruner) archiveProofs(ctx context.Context, proofs []*proof.VeritasProof) error {
	if len(proofs) == 0 {
		return nil
	}

	p.logger.Info("archiving proofs before deletion",
		"proof_count", len(proofs),
	)

	if err := os.MkdirAll(p.config.ArchivePath, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	archiveFile := filepath.Join(p.config.ArchivePath,
		fmt.Sprintf("proofs-%s.json", p.now().Format("2006-01-02-150405")))
	f, err := os.Create(archiveFile)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer f.Close()

	exporter := export.NewJSONExporter(true)
	if err := exporter.Export(ctx, proofs, f); err != nil {
		return fmt.Errorf("failed to export proofs to archive: %w", err)
	}

	p.logger.Info("proofs archived",
		"archive_file", archiveFile,
		"proof_count", len(proofs),
	)

	return nil
}

// Start starts the automatic pruning scheduler.
// Call this when starting the application.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the automatic pruning scheduler.
// Call this during graceful shutdown.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
