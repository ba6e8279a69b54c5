package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SadaqaQueueEntry es una entrada de la cola FIFO global de deudas elegibles
// para recibir sadaqa. Una deuda elegible tiene a lo sumo una entrada activa.
// Remaining puede ser menor que el saldo crudo de la deuda si una donación
// anterior ya la cubrió parcialmente.
type SadaqaQueueEntry struct {
	ID         string
	DebtID     string // server id de la deuda
	UserID     string // dueño de la deuda (receptor)
	Remaining  decimal.Decimal
	Eligible   bool
	EnqueuedAt time.Time
}

// SadaqaDonation registra una donación aplicada a una deuda concreta.
// Cuando Anonymous es true, el receptor nunca puede atribuir la donación a
// una identidad de donante por ninguna interfaz externa.
type SadaqaDonation struct {
	ID        string
	DonorID   string
	DebtID    string
	Amount    decimal.Decimal
	Anonymous bool
	CreatedAt time.Time
}
