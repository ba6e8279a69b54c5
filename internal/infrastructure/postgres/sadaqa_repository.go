package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fiado-sync/internal/domain/entity"
	"github.com/jhoicas/fiado-sync/internal/domain/repository"
)

var _ repository.SadaqaRepository = (*SadaqaRepo)(nil)

// SadaqaRepo implementación de SadaqaRepository (usable con pool o tx).
type SadaqaRepo struct {
	q Querier
}

// NewSadaqaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSadaqaRepository(q Querier) *SadaqaRepo {
	return &SadaqaRepo{q: q}
}

// UpsertQueueEntry inserta la entrada o, si la deuda ya estaba encolada,
// refresca el saldo y reactiva la elegibilidad conservando la posición FIFO
// original (enqueued_at no se toca en el update).
func (r *SadaqaRepo) UpsertQueueEntry(entry *entity.SadaqaQueueEntry) error {
	query := `
		INSERT INTO sadaqa_queue (id, debt_id, user_id, remaining, eligible, enqueued_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (debt_id) DO UPDATE
		SET remaining = EXCLUDED.remaining, eligible = EXCLUDED.eligible`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.DebtID, entry.UserID, entry.Remaining, entry.Eligible, entry.EnqueuedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert sadaqa queue entry: %w", err)
	}
	return nil
}

// GetQueueEntryByDebt obtiene la entrada de cola de una deuda, si existe.
func (r *SadaqaRepo) GetQueueEntryByDebt(debtID string) (*entity.SadaqaQueueEntry, error) {
	query := `
		SELECT id, debt_id, user_id, remaining, eligible, enqueued_at
		FROM sadaqa_queue WHERE debt_id = $1`
	var e entity.SadaqaQueueEntry
	err := r.q.QueryRow(context.Background(), query, debtID).Scan(
		&e.ID, &e.DebtID, &e.UserID, &e.Remaining, &e.Eligible, &e.EnqueuedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sadaqa queue entry: %w", err)
	}
	return &e, nil
}

// SetEligibility activa o desactiva la entrada. El filtro por user_id evita
// que un usuario toque entradas ajenas.
func (r *SadaqaRepo) SetEligibility(debtID, userID string, eligible bool) error {
	query := `UPDATE sadaqa_queue SET eligible = $3 WHERE debt_id = $1 AND user_id = $2`
	_, err := r.q.Exec(context.Background(), query, debtID, userID, eligible)
	if err != nil {
		return fmt.Errorf("set sadaqa eligibility: %w", err)
	}
	return nil
}

// ListEligible devuelve la cola FIFO global: elegibles con saldo, ordenadas
// por enqueued_at ascendente (desempate por id).
func (r *SadaqaRepo) ListEligible() ([]*entity.SadaqaQueueEntry, error) {
	query := `
		SELECT id, debt_id, user_id, remaining, eligible, enqueued_at
		FROM sadaqa_queue
		WHERE eligible AND remaining > 0
		ORDER BY enqueued_at, id`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list eligible sadaqa queue: %w", err)
	}
	defer rows.Close()
	var list []*entity.SadaqaQueueEntry
	for rows.Next() {
		var e entity.SadaqaQueueEntry
		if err := rows.Scan(&e.ID, &e.DebtID, &e.UserID, &e.Remaining, &e.Eligible, &e.EnqueuedAt); err != nil {
			return nil, fmt.Errorf("scan sadaqa queue entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// UpdateRemaining fija el saldo pendiente de la entrada tras una donación.
func (r *SadaqaRepo) UpdateRemaining(entryID string, remaining decimal.Decimal) error {
	query := `UPDATE sadaqa_queue SET remaining = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, entryID, remaining)
	if err != nil {
		return fmt.Errorf("update sadaqa remaining: %w", err)
	}
	return nil
}

// QueueStats devuelve cuántas deudas esperan y el total que falta por cubrir.
func (r *SadaqaRepo) QueueStats() (int, decimal.Decimal, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(remaining), 0)
		FROM sadaqa_queue WHERE eligible AND remaining > 0`
	var waiting int
	var total decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query).Scan(&waiting, &total); err != nil {
		return 0, decimal.Zero, fmt.Errorf("sadaqa queue stats: %w", err)
	}
	return waiting, total, nil
}

// CreateDonation registra una donación aplicada.
func (r *SadaqaRepo) CreateDonation(donation *entity.SadaqaDonation) error {
	query := `
		INSERT INTO sadaqa_donations (id, donor_id, debt_id, amount, anonymous, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		donation.ID, donation.DonorID, donation.DebtID, donation.Amount,
		donation.Anonymous, donation.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sadaqa donation: %w", err)
	}
	return nil
}

// ListDonationsByDonor lista las donaciones hechas por el donante, recientes primero.
func (r *SadaqaRepo) ListDonationsByDonor(donorID string, limit int) ([]*entity.SadaqaDonation, error) {
	query := `
		SELECT id, donor_id, debt_id, amount, anonymous, created_at
		FROM sadaqa_donations WHERE donor_id = $1
		ORDER BY created_at DESC LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, donorID, limit)
	if err != nil {
		return nil, fmt.Errorf("list donations by donor: %w", err)
	}
	return scanDonations(rows)
}

// ListDonationsReceived lista las donaciones aplicadas a deudas del usuario.
func (r *SadaqaRepo) ListDonationsReceived(userID string) ([]*entity.SadaqaDonation, error) {
	query := `
		SELECT sd.id, sd.donor_id, sd.debt_id, sd.amount, sd.anonymous, sd.created_at
		FROM sadaqa_donations sd
		JOIN debts d ON d.id = sd.debt_id
		WHERE d.user_id = $1
		ORDER BY sd.created_at DESC`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list donations received: %w", err)
	}
	return scanDonations(rows)
}

func scanDonations(rows pgx.Rows) ([]*entity.SadaqaDonation, error) {
	defer rows.Close()
	var list []*entity.SadaqaDonation
	for rows.Next() {
		var d entity.SadaqaDonation
		if err := rows.Scan(&d.ID, &d.DonorID, &d.DebtID, &d.Amount, &d.Anonymous, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sadaqa donation: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
