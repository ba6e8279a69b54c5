package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fiado-sync/internal/domain/entity"
)

// SadaqaRepository define el puerto de persistencia de la cola sadaqa y las
// donaciones. La cola tiene a lo sumo una entrada activa por deuda.
type SadaqaRepository interface {
	// UpsertQueueEntry inserta la entrada o, si la deuda ya está encolada,
	// actualiza Remaining y reactiva la elegibilidad.
	UpsertQueueEntry(entry *entity.SadaqaQueueEntry) error
	GetQueueEntryByDebt(debtID string) (*entity.SadaqaQueueEntry, error)
	SetEligibility(debtID, userID string, eligible bool) error
	// ListEligible devuelve la cola FIFO global: entradas elegibles con saldo,
	// ordenadas por fecha de encolado ascendente.
	ListEligible() ([]*entity.SadaqaQueueEntry, error)
	UpdateRemaining(entryID string, remaining decimal.Decimal) error
	QueueStats() (waiting int, totalNeeded decimal.Decimal, err error)

	CreateDonation(donation *entity.SadaqaDonation) error
	ListDonationsByDonor(donorID string, limit int) ([]*entity.SadaqaDonation, error)
	ListDonationsReceived(userID string) ([]*entity.SadaqaDonation, error)
}
