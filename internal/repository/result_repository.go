package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/certify-backend/internal/model"
)

// ResultRepository handles persisted assessment results.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// InsertBatch stores many results in one statement.
func (r *ResultRepository) InsertBatch(ctx context.Context, results []model.AssessmentResult) error {
	n := len(results)
	if n == 0 {
		return nil
	}

	certIDs := make([]string, n)
	names := make([]string, n)
	correct := make([]int, n)
	totals := make([]int, n)
	percentages := make([]float64, n)
	passed := make([]bool, n)
	completedAts := make([]time.Time, n)

	for i, res := range results {
		certIDs[i] = res.CertificationID
		names[i] = res.CertificationName
		correct[i] = res.CorrectCount
		totals[i] = res.QuestionCount
		percentages[i] = res.Percentage
		passed[i] = res.Passed
		completedAts[i] = res.CompletedAt
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO assessment_results
			(certification_id, certification_name, correct_count, question_count, percentage, passed, completed_at)
		SELECT * FROM UNNEST(
			$1::text[],
			$2::text[],
			$3::int[],
			$4::int[],
			$5::float8[],
			$6::bool[],
			$7::timestamptz[]
		)`,
		certIDs, names, correct, totals, percentages, passed, completedAts,
	)
	return err
}

// Insert stores a single result.
func (r *ResultRepository) Insert(ctx context.Context, res model.AssessmentResult) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO assessment_results
			(certification_id, certification_name, correct_count, question_count, percentage, passed, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		res.CertificationID, res.CertificationName, res.CorrectCount, res.QuestionCount,
		res.Percentage, res.Passed, res.CompletedAt,
	)
	return err
}

// ListByCertification returns the results recorded for a certification, most
// recent first.
func (r *ResultRepository) ListByCertification(ctx context.Context, certificationID string) ([]model.AssessmentResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id::text, certification_id, certification_name, correct_count, question_count,
		        percentage, passed, completed_at
		 FROM assessment_results
		 WHERE certification_id = $1
		 ORDER BY completed_at DESC`, certificationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []model.AssessmentResult{}
	for rows.Next() {
		var res model.AssessmentResult
		if err := rows.Scan(&res.ID, &res.CertificationID, &res.CertificationName, &res.CorrectCount,
			&res.QuestionCount, &res.Percentage, &res.Passed, &res.CompletedAt); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
