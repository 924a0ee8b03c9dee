package database

import (
	"database/sql"
	"fmt"
)

// Repository handles database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// SaveScore persists a scoring decision
func (r *Repository) SaveScore(rec *ScoreRecord) error {
	stmt, err := r.db.GetPreparedStatement("insert_score")
	if err != nil {
		return err
	}

	var batchID interface{}
	if rec.BatchID != "" {
		batchID = rec.BatchID
	}

	_, err = stmt.Exec(
		rec.ID, rec.EntityID, rec.FeatureHash, rec.Persona, rec.Score,
		rec.ProbDefault, rec.RiskCategory, rec.Decision, rec.ModelVersion,
		rec.DataConfidence, rec.Payload, batchID, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}

	return nil
}

// SaveBatchJob persists a batch job summary
func (r *Repository) SaveBatchJob(job *BatchJob) error {
	stmt, err := r.db.GetPreparedStatement("insert_batch_job")
	if err != nil {
		return err
	}

	if _, err := stmt.Exec(job.ID, job.RowCount, job.ErrorCount, job.CreatedAt); err != nil {
		return fmt.Errorf("failed to save batch job: %w", err)
	}

	return nil
}

// HistoryByEntity returns the most recent scoring decisions for an
// entity, newest first.
func (r *Repository) HistoryByEntity(entityID string, limit int) ([]ScoreRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	stmt, err := r.db.GetPreparedStatement("get_history_by_entity")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	records := make([]ScoreRecord, 0, limit)
	for rows.Next() {
		rec, err := scanScoreRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return records, nil
}

// ScoreByID fetches a single score record
func (r *Repository) ScoreByID(id string) (*ScoreRecord, error) {
	stmt, err := r.db.GetPreparedStatement("get_score_by_id")
	if err != nil {
		return nil, err
	}

	row := stmt.QueryRow(id)
	rec, err := scanScoreRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// CountByPersona returns persisted score counts grouped by persona
func (r *Repository) CountByPersona() (map[string]int64, error) {
	stmt, err := r.db.GetPreparedStatement("count_scores_by_persona")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to count scores: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var persona string
		var count int64
		if err := rows.Scan(&persona, &count); err != nil {
			return nil, fmt.Errorf("failed to scan persona count: %w", err)
		}
		counts[persona] = count
	}

	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScoreRecord(row rowScanner) (*ScoreRecord, error) {
	var rec ScoreRecord
	var batchID sql.NullString

	err := row.Scan(
		&rec.ID, &rec.EntityID, &rec.FeatureHash, &rec.Persona, &rec.Score,
		&rec.ProbDefault, &rec.RiskCategory, &rec.Decision, &rec.ModelVersion,
		&rec.DataConfidence, &rec.Payload, &batchID, &rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan score record: %w", err)
	}

	rec.BatchID = batchID.String
	return &rec, nil
}
