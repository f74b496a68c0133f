package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"siliconpulse/internal/model"
)

// DedupRepository is the sole arbiter of duplicate and checkpoint
// state. Every operation degrades gracefully: a storage failure is
// logged and reported as "not a duplicate" / "no checkpoint" so
// ingestion never blocks on storage errors.
type DedupRepository struct {
	db                *sql.DB
	dedupEnabled      bool
	checkpointEnabled bool
}

func NewDedupRepository(db *sql.DB, dedupEnabled, checkpointEnabled bool) *DedupRepository {
	return &DedupRepository{
		db:                db,
		dedupEnabled:      dedupEnabled,
		checkpointEnabled: checkpointEnabled,
	}
}

func (r *DedupRepository) IsDuplicate(fingerprint string) bool {
	if !r.dedupEnabled {
		return false
	}

	var one int
	err := r.db.QueryRow(`
		SELECT 1 FROM seen_events WHERE event_id = ?
	`, fingerprint).Scan(&one)

	if err == sql.ErrNoRows {
		return false
	}

	if err != nil {
		slog.Error("error checking duplicate", "error", err)
		return false
	}

	return true
}

// MarkSeen records a fingerprint once; repeated calls with the same
// fingerprint are no-ops.
func (r *DedupRepository) MarkSeen(fingerprint, source, title string) {
	if !r.dedupEnabled {
		return
	}

	_, err := r.db.Exec(`
		INSERT OR IGNORE INTO seen_events (event_id, first_seen_ts, source, title)
		VALUES (?, ?, ?, ?)
	`, fingerprint, model.NowTimestamp(), source, title)

	if err != nil {
		slog.Error("error marking event as seen", "error", err, "fingerprint", fingerprint)
	}
}

func (r *DedupRepository) GetCheckpoint(source string) (time.Time, bool) {
	if !r.checkpointEnabled {
		return time.Time{}, false
	}

	var raw string
	err := r.db.QueryRow(`
		SELECT last_checkpoint FROM source_checkpoints WHERE source = ?
	`, source).Scan(&raw)

	if err == sql.ErrNoRows {
		return time.Time{}, false
	}

	if err != nil {
		slog.Error("error getting checkpoint", "source", source, "error", err)
		return time.Time{}, false
	}

	ts, err := model.ParseTimestamp(raw)
	if err != nil {
		slog.Warn("unparseable checkpoint, ignoring", "source", source, "value", raw)
		return time.Time{}, false
	}

	return ts, true
}

// UpdateCheckpoint upserts the latest accepted timestamp for a source.
// Callers serialize updates per source; last write wins.
func (r *DedupRepository) UpdateCheckpoint(source string, checkpoint time.Time) {
	if !r.checkpointEnabled {
		return
	}

	_, err := r.db.Exec(`
		INSERT INTO source_checkpoints (source, last_checkpoint, last_pull_ts)
		VALUES (?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET
			last_checkpoint = excluded.last_checkpoint,
			last_pull_ts = excluded.last_pull_ts
	`, source, checkpoint.UTC().Format(time.RFC3339), model.NowTimestamp())

	if err != nil {
		slog.Error("error updating checkpoint", "source", source, "error", err)
	}
}

// PurgeOlderThan removes seen-set entries older than the given age and
// returns the number removed. Failures are logged, never fatal.
func (r *DedupRepository) PurgeOlderThan(ageDays int) int {
	cutoff := time.Now().UTC().AddDate(0, 0, -ageDays).Format(time.RFC3339)

	res, err := r.db.Exec(`
		DELETE FROM seen_events WHERE first_seen_ts < ?
	`, cutoff)
	if err != nil {
		slog.Error("error purging old seen events", "error", err)
		return 0
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0
	}

	if removed > 0 {
		slog.Info("purged old seen events", "removed", removed, "age_days", ageDays)
	}

	return int(removed)
}

// SeenCount reports the seen-set size; used by the health endpoint to
// probe store reachability.
func (r *DedupRepository) SeenCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM seen_events`).Scan(&count)
	return count, err
}
