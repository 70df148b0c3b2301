// internal/repository/postgres/order_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/farmio-app/farmio/internal/domain"
	"github.com/farmio-app/farmio/internal/repository"
)

type orderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	query := `
		INSERT INTO orders (medication_id, quantity, status, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	row := r.db.q(ctx).QueryRowxContext(ctx, query, o.MedicationID, o.Quantity, o.Status)
	if err := row.Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `
		SELECT id, medication_id, quantity, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var o domain.Order
	if err := r.db.q(ctx).GetContext(ctx, &o, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &o, nil
}

func (r *orderRepository) Update(ctx context.Context, o *domain.Order) error {
	query := `
		UPDATE orders
		SET quantity = $2, status = $3, updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.db.q(ctx).ExecContext(ctx, query, o.ID, o.Quantity, o.Status)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *orderRepository) ListByMedication(ctx context.Context, medicationID int64) ([]domain.Order, error) {
	query := `
		SELECT id, medication_id, quantity, status, created_at, updated_at
		FROM orders
		WHERE medication_id = $1
		ORDER BY created_at DESC, id DESC
	`

	var orders []domain.Order
	if err := r.db.q(ctx).SelectContext(ctx, &orders, query, medicationID); err != nil {
		return nil, fmt.Errorf("failed to list medication orders: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) ListByStatus(ctx context.Context, statuses ...domain.OrderStatus) ([]domain.Order, error) {
	if len(statuses) == 0 {
		return []domain.Order{}, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]interface{}, len(statuses))
	for i, s := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = s
	}

	query := fmt.Sprintf(`
		SELECT id, medication_id, quantity, status, created_at, updated_at
		FROM orders
		WHERE status IN (%s)
		ORDER BY created_at DESC, id DESC
	`, strings.Join(placeholders, ", "))

	var orders []domain.Order
	if err := r.db.q(ctx).SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list orders by status: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) HasRequested(ctx context.Context, medicationID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM orders WHERE medication_id = $1 AND status = $2
		)
	`

	var exists bool
	if err := r.db.q(ctx).GetContext(ctx, &exists, query, medicationID, domain.OrderStatusRequested); err != nil {
		return false, fmt.Errorf("failed to check pending order: %w", err)
	}

	return exists, nil
}
