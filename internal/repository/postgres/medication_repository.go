// internal/repository/postgres/medication_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/farmio-app/farmio/internal/domain"
	"github.com/farmio-app/farmio/internal/repository"
)

type medicationRepository struct {
	db *DB
}

func NewMedicationRepository(db *DB) repository.MedicationRepository {
	return &medicationRepository{db: db}
}

func (r *medicationRepository) Create(ctx context.Context, m *domain.Medication) error {
	query := `
		INSERT INTO medications (
			name, dosage, form, pack_size, daily_dose, quantity,
			last_verified_at, restock_ease, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	row := r.db.q(ctx).QueryRowxContext(ctx, query,
		m.Name, m.Dosage, m.Form, m.PackSize, m.DailyDose, m.Quantity,
		m.LastVerifiedAt, m.RestockEase,
	)
	if err := row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert medication: %w", err)
	}

	return nil
}

func (r *medicationRepository) GetByID(ctx context.Context, id int64) (*domain.Medication, error) {
	query := `
		SELECT id, name, dosage, form, pack_size, daily_dose, quantity,
		       last_verified_at, restock_ease, created_at, updated_at
		FROM medications
		WHERE id = $1
	`

	var m domain.Medication
	if err := r.db.q(ctx).GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}

	return &m, nil
}

func (r *medicationRepository) Update(ctx context.Context, m *domain.Medication) error {
	query := `
		UPDATE medications
		SET name = $2, dosage = $3, form = $4, pack_size = $5, daily_dose = $6,
		    quantity = $7, last_verified_at = $8, restock_ease = $9, updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.db.q(ctx).ExecContext(ctx, query,
		m.ID, m.Name, m.Dosage, m.Form, m.PackSize, m.DailyDose,
		m.Quantity, m.LastVerifiedAt, m.RestockEase,
	)
	if err != nil {
		return fmt.Errorf("failed to update medication: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes the medication and its orders in one transaction. An order
// never outlives its medication.
func (r *medicationRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := r.db.q(ctx).ExecContext(ctx, `DELETE FROM orders WHERE medication_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete medication orders: %w", err)
		}

		res, err := r.db.q(ctx).ExecContext(ctx, `DELETE FROM medications WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete medication: %w", err)
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return repository.ErrNotFound
		}

		return nil
	})
}

func (r *medicationRepository) List(ctx context.Context) ([]domain.Medication, error) {
	query := `
		SELECT id, name, dosage, form, pack_size, daily_dose, quantity,
		       last_verified_at, restock_ease, created_at, updated_at
		FROM medications
		ORDER BY id
	`

	var medications []domain.Medication
	if err := r.db.q(ctx).SelectContext(ctx, &medications, query); err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}

	return medications, nil
}
