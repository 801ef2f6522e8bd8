package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/certify-backend/internal/model"
)

var (
	// ErrCertificationNotFound is returned when no certification has the
	// requested name.
	ErrCertificationNotFound = errors.New("certification not found")
	// ErrNameTaken is returned when another certification already uses a name.
	ErrNameTaken = errors.New("certification name already in use")
)

// CertificationRepository stores certification documents as JSONB.
type CertificationRepository struct {
	pool *pgxpool.Pool
}

// NewCertificationRepository creates a new CertificationRepository.
func NewCertificationRepository(pool *pgxpool.Pool) *CertificationRepository {
	return &CertificationRepository{pool: pool}
}

// GetByName retrieves a certification document by its case-insensitive name.
// Documents are returned as stored, so older records may lack identifiers.
func (r *CertificationRepository) GetByName(ctx context.Context, name string) (model.Certification, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT document FROM certifications WHERE lower(name) = lower($1)`, name,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Certification{}, ErrCertificationNotFound
		}
		return model.Certification{}, err
	}

	var cert model.Certification
	if err := json.Unmarshal(raw, &cert); err != nil {
		return model.Certification{}, fmt.Errorf("decode certification %q: %w", name, err)
	}
	return cert, nil
}

// ListNames returns all certification names in alphabetical order.
func (r *CertificationRepository) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM certifications ORDER BY lower(name)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// Upsert inserts or replaces the document with cert.ID and returns the name
// the document had before, if any.
func (r *CertificationRepository) Upsert(ctx context.Context, cert model.Certification) (string, error) {
	doc, err := json.Marshal(cert)
	if err != nil {
		return "", fmt.Errorf("encode certification: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var previous string
	err = tx.QueryRow(ctx,
		`SELECT name FROM certifications WHERE id = $1 FOR UPDATE`, cert.ID,
	).Scan(&previous)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO certifications (id, name, document, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name, document = EXCLUDED.document, updated_at = NOW()`,
		cert.ID, cert.Name, doc,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrNameTaken
		}
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return previous, nil
}
