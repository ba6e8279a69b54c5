package allocation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fiado-sync/internal/domain"
	"github.com/jhoicas/fiado-sync/internal/domain/entity"
)

// SadaqaAllocation es una porción de donación asignada a la deuda de otro usuario.
type SadaqaAllocation struct {
	EntryID     string
	DebtID      string
	RecipientID string
	Applied     decimal.Decimal
}

// SadaqaResult resume la distribución de una donación.
// Invariante: Leftover == amount - TotalDonated, exacto.
type SadaqaResult struct {
	Allocations  []SadaqaAllocation
	TotalDonated decimal.Decimal
	Leftover     decimal.Decimal
}

// DistributeSadaqa reparte una donación sobre la cola FIFO global de deudas
// elegibles: orden ascendente por fecha de encolado (desempate por ID de
// entrada), consumiendo el Remaining de cada entrada hasta agotar el monto o
// la cola. Las entradas del propio donante se saltan siempre, aunque el
// caller hubiera fallado en filtrarlas. Rechaza montos <= 0.
func DistributeSadaqa(donorID string, amount decimal.Decimal, queue []*entity.SadaqaQueueEntry) (*SadaqaResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	sorted := make([]*entity.SadaqaQueueEntry, len(queue))
	copy(sorted, queue)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].EnqueuedAt.Equal(sorted[j].EnqueuedAt) {
			return sorted[i].EnqueuedAt.Before(sorted[j].EnqueuedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	remaining := amount
	result := &SadaqaResult{}
	for _, e := range sorted {
		if remaining.IsZero() {
			break
		}
		if !e.Eligible || e.UserID == donorID {
			continue
		}
		if e.Remaining.LessThanOrEqual(decimal.Zero) {
			continue
		}
		applied := decimal.Min(remaining, e.Remaining)
		result.Allocations = append(result.Allocations, SadaqaAllocation{
			EntryID:     e.ID,
			DebtID:      e.DebtID,
			RecipientID: e.UserID,
			Applied:     applied,
		})
		remaining = remaining.Sub(applied)
	}
	result.TotalDonated = amount.Sub(remaining)
	result.Leftover = remaining
	return result, nil
}
