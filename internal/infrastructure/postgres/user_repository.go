package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fiado-sync/internal/domain"
	"github.com/jhoicas/fiado-sync/internal/domain/entity"
	"github.com/jhoicas/fiado-sync/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación de UserRepository (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un usuario nuevo. El teléfono es único.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (id, phone, name, language, premium, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.Phone, user.Name, user.Language, user.Premium,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	query := `SELECT id, phone, name, language, premium, created_at, updated_at FROM users WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByPhone obtiene un usuario por teléfono.
func (r *UserRepo) GetByPhone(phone string) (*entity.User, error) {
	query := `SELECT id, phone, name, language, premium, created_at, updated_at FROM users WHERE phone = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, phone))
}

// Update actualiza nombre, idioma y premium.
func (r *UserRepo) Update(user *entity.User) error {
	query := `
		UPDATE users SET name = $2, language = $3, premium = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.Name, user.Language, user.Premium, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// SaveOTP reemplaza el código vigente del teléfono (upsert por phone).
func (r *UserRepo) SaveOTP(code *entity.OTPCode) error {
	query := `
		INSERT INTO otp_codes (phone, hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (phone) DO UPDATE
		SET hash = EXCLUDED.hash, expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at`
	_, err := r.q.Exec(context.Background(), query,
		code.Phone, code.Hash, code.ExpiresAt, code.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save otp: %w", err)
	}
	return nil
}

// GetOTP obtiene el código vigente del teléfono, si existe.
func (r *UserRepo) GetOTP(phone string) (*entity.OTPCode, error) {
	query := `SELECT phone, hash, expires_at, created_at FROM otp_codes WHERE phone = $1`
	var c entity.OTPCode
	err := r.q.QueryRow(context.Background(), query, phone).Scan(
		&c.Phone, &c.Hash, &c.ExpiresAt, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get otp: %w", err)
	}
	return &c, nil
}

// DeleteOTP elimina el código del teléfono (canje o expiración).
func (r *UserRepo) DeleteOTP(phone string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM otp_codes WHERE phone = $1`, phone)
	if err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

func (r *UserRepo) scanOne(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Phone, &u.Name, &u.Language, &u.Premium, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
