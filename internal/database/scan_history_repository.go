package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

// ScanRecord is the audit-trail row written after each analysis run.
type ScanRecord struct {
	ID           int            `db:"id"`
	Origin       string         `db:"origin"`
	Path         string         `db:"path"`
	AgentKey     string         `db:"agent_key"`
	FindingCount int            `db:"finding_count"`
	OverallScore float64        `db:"overall_score"`
	RiskLevel    string         `db:"risk_level"`
	Tactics      pq.StringArray `db:"tactics"`
	DurationMs   int64          `db:"duration_ms"`
	ScannedAt    time.Time      `db:"scanned_at"`
}

// ScanHistoryRepository persists scan records to Postgres.
type ScanHistoryRepository struct {
	db *sqlx.DB
}

// NewScanHistoryRepository creates a new scan history repository.
func NewScanHistoryRepository(db *sqlx.DB) *ScanHistoryRepository {
	return &ScanHistoryRepository{db: db}
}

// Record inserts one scan record per agent result.
func (r *ScanHistoryRepository) Record(
	ctx context.Context,
	content *domain.ContentRecord,
	result *domain.AggregateResult,
	duration time.Duration,
) error {
	tactics := make([]string, 0, len(result.Breakdown))
	for tactic := range result.Breakdown {
		tactics = append(tactics, string(tactic))
	}

	query := `
		INSERT INTO scan_history (origin, path, agent_key, finding_count, overall_score, risk_level, tactics, duration_ms, scanned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.db.ExecContext(ctx, query,
		content.Origin,
		content.Path,
		result.Agent,
		len(result.Findings),
		result.OverallScore,
		string(result.RiskLevel),
		pq.Array(tactics),
		duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record scan: %w", err)
	}
	return nil
}

// RecentByOrigin returns the most recent scan records for one origin.
func (r *ScanHistoryRepository) RecentByOrigin(ctx context.Context, origin string, limit int) ([]ScanRecord, error) {
	var records []ScanRecord
	query := `
		SELECT id, origin, path, agent_key, finding_count, overall_score, risk_level, tactics, duration_ms, scanned_at
		FROM scan_history
		WHERE origin = $1
		ORDER BY scanned_at DESC
		LIMIT $2
	`
	if err := r.db.SelectContext(ctx, &records, query, origin, limit); err != nil {
		return nil, fmt.Errorf("query scan history for %s: %w", origin, err)
	}
	return records, nil
}

// Stats summarizes scans over a time window.
type Stats struct {
	TotalScans   int     `db:"total_scans"`
	AvgScore     float64 `db:"avg_score"`
	DangerCount  int     `db:"danger_count"`
	WarningCount int     `db:"warning_count"`
}

// StatsSince aggregates scan statistics since the given time.
func (r *ScanHistoryRepository) StatsSince(ctx context.Context, since time.Time) (*Stats, error) {
	var stats Stats
	query := `
		SELECT
			COUNT(*) AS total_scans,
			COALESCE(AVG(overall_score), 0) AS avg_score,
			COUNT(*) FILTER (WHERE risk_level = 'danger') AS danger_count,
			COUNT(*) FILTER (WHERE risk_level = 'warning') AS warning_count
		FROM scan_history
		WHERE scanned_at >= $1
	`
	if err := r.db.GetContext(ctx, &stats, query, since); err != nil {
		return nil, fmt.Errorf("query scan stats: %w", err)
	}
	return &stats, nil
}
