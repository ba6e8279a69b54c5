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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, local_id, user_id, name, phone, notes, created_at, updated_at, deleted_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un cliente nuevo. La pareja (user_id, local_id) es única:
// un duplicado devuelve domain.ErrDuplicate.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, local_id, user_id, name, phone, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ServerID, customer.LocalID, customer.UserID,
		customer.Name, customer.Phone, customer.Notes,
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por server id.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByUserAndLocalID obtiene un cliente por usuario y local_id del dispositivo.
func (r *CustomerRepo) GetByUserAndLocalID(userID, localID string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1 AND local_id = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, userID, localID))
}

// ListByUser lista los clientes activos del usuario con paginación.
func (r *CustomerRepo) ListByUser(userID string, limit, offset int) ([]*entity.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return r.scanAll(rows)
}

// ListUpdatedSince devuelve los clientes tocados después de since, tombstones
// incluidos (el dispositivo necesita verlos para borrar su copia local).
func (r *CustomerRepo) ListUpdatedSince(userID string, since time.Time) ([]*entity.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE user_id = $1 AND (updated_at > $2 OR deleted_at > $2)
		ORDER BY updated_at`
	rows, err := r.q.Query(context.Background(), query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list customers updated since: %w", err)
	}
	return r.scanAll(rows)
}

// Update actualiza los campos editables de un cliente.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	query := `
		UPDATE customers SET name = $2, phone = $3, notes = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		customer.ServerID, customer.Name, customer.Phone, customer.Notes, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// SoftDelete marca el tombstone del cliente. Idempotente: si ya está borrado
// no se toca el timestamp original.
func (r *CustomerRepo) SoftDelete(userID, localID string, at time.Time) error {
	query := `
		UPDATE customers SET deleted_at = $3, updated_at = $3
		WHERE user_id = $1 AND local_id = $2 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query, userID, localID, at)
	if err != nil {
		return fmt.Errorf("soft delete customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) scanOne(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ServerID, &c.LocalID, &c.UserID, &c.Name, &c.Phone, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	c.Synced = true
	return &c, nil
}

func (r *CustomerRepo) scanAll(rows pgx.Rows) ([]*entity.Customer, error) {
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(
			&c.ServerID, &c.LocalID, &c.UserID, &c.Name, &c.Phone, &c.Notes,
			&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		c.Synced = true
		list = append(list, &c)
	}
	return list, rows.Err()
}
