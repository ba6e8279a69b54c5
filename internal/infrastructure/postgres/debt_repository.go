package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fiado-sync/internal/domain"
	"github.com/jhoicas/fiado-sync/internal/domain/entity"
	"github.com/jhoicas/fiado-sync/internal/domain/repository"
)

var _ repository.DebtRepository = (*DebtRepo)(nil)

const debtColumns = `id, local_id, customer_id, customer_local_id, user_id,
		amount, paid_amount, note, is_paid, paid_at, paid_via,
		created_at, updated_at, deleted_at`

// DebtRepo implementación de DebtRepository (usable con pool o tx).
type DebtRepo struct {
	q Querier
}

// NewDebtRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDebtRepository(q Querier) *DebtRepo {
	return &DebtRepo{q: q}
}

// Create persiste una deuda nueva. (user_id, local_id) es única.
func (r *DebtRepo) Create(debt *entity.Debt) error {
	query := `
		INSERT INTO debts (id, local_id, customer_id, customer_local_id, user_id,
			amount, paid_amount, note, is_paid, paid_at, paid_via, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		debt.ServerID, debt.LocalID, debt.CustomerServerID, debt.CustomerLocalID, debt.UserID,
		debt.Amount, debt.PaidAmount, debt.Note, debt.IsPaid, debt.PaidAt, debt.PaidVia,
		debt.CreatedAt, debt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert debt: %w", err)
	}
	return nil
}

// GetByID obtiene una deuda por server id.
func (r *DebtRepo) GetByID(id string) (*entity.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByUserAndLocalID obtiene una deuda por usuario y local_id del dispositivo.
func (r *DebtRepo) GetByUserAndLocalID(userID, localID string) (*entity.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE user_id = $1 AND local_id = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, userID, localID))
}

// ListByUser lista deudas activas del usuario filtradas por estado de pago.
// limit = 0 significa sin paginación.
func (r *DebtRepo) ListByUser(userID, status string, limit, offset int) ([]*entity.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE user_id = $1 AND deleted_at IS NULL`
	switch status {
	case repository.DebtStatusPaid:
		query += ` AND is_paid`
	case repository.DebtStatusUnpaid:
		query += ` AND NOT is_paid`
	}
	query += ` ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	return r.scanAll(rows)
}

// ListOpenByCustomer devuelve las deudas abiertas del cliente en orden FIFO
// (la más antigua primero, desempate por local_id).
func (r *DebtRepo) ListOpenByCustomer(userID, customerID string) ([]*entity.Debt, error) {
	query := `
		SELECT ` + debtColumns + `
		FROM debts
		WHERE user_id = $1 AND customer_id = $2 AND NOT is_paid AND deleted_at IS NULL
		ORDER BY created_at, local_id`
	rows, err := r.q.Query(context.Background(), query, userID, customerID)
	if err != nil {
		return nil, fmt.Errorf("list open debts: %w", err)
	}
	return r.scanAll(rows)
}

// ListUpdatedSince devuelve las deudas tocadas después de since, tombstones incluidos.
func (r *DebtRepo) ListUpdatedSince(userID string, since time.Time) ([]*entity.Debt, error) {
	query := `
		SELECT ` + debtColumns + `
		FROM debts
		WHERE user_id = $1 AND (updated_at > $2 OR deleted_at > $2)
		ORDER BY updated_at`
	rows, err := r.q.Query(context.Background(), query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list debts updated since: %w", err)
	}
	return r.scanAll(rows)
}

// Update actualiza los campos mutables de una deuda. Amount no se toca.
func (r *DebtRepo) Update(debt *entity.Debt) error {
	query := `
		UPDATE debts SET paid_amount = $2, note = $3, is_paid = $4, paid_at = $5,
			paid_via = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		debt.ServerID, debt.PaidAmount, debt.Note, debt.IsPaid, debt.PaidAt,
		debt.PaidVia, debt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update debt: %w", err)
	}
	return nil
}

// SoftDelete marca el tombstone de la deuda.
func (r *DebtRepo) SoftDelete(userID, localID string, at time.Time) error {
	query := `
		UPDATE debts SET deleted_at = $3, updated_at = $3
		WHERE user_id = $1 AND local_id = $2 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query, userID, localID, at)
	if err != nil {
		return fmt.Errorf("soft delete debt: %w", err)
	}
	return nil
}

func (r *DebtRepo) scanOne(row pgx.Row) (*entity.Debt, error) {
	var d entity.Debt
	err := row.Scan(
		&d.ServerID, &d.LocalID, &d.CustomerServerID, &d.CustomerLocalID, &d.UserID,
		&d.Amount, &d.PaidAmount, &d.Note, &d.IsPaid, &d.PaidAt, &d.PaidVia,
		&d.CreatedAt, &d.UpdatedAt, &d.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get debt: %w", err)
	}
	d.Synced = true
	return &d, nil
}

func (r *DebtRepo) scanAll(rows pgx.Rows) ([]*entity.Debt, error) {
	defer rows.Close()
	var list []*entity.Debt
	for rows.Next() {
		var d entity.Debt
		if err := rows.Scan(
			&d.ServerID, &d.LocalID, &d.CustomerServerID, &d.CustomerLocalID, &d.UserID,
			&d.Amount, &d.PaidAmount, &d.Note, &d.IsPaid, &d.PaidAt, &d.PaidVia,
			&d.CreatedAt, &d.UpdatedAt, &d.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		d.Synced = true
		list = append(list, &d)
	}
	return list, rows.Err()
}
