package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDebtRequest alta de deuda vía API.
type CreateDebtRequest struct {
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note"`
	LocalID    string          `json:"local_id"`
}

// UpdateDebtRequest edición parcial de deuda.
type UpdateDebtRequest struct {
	Note   *string `json:"note"`
	IsPaid *bool   `json:"is_paid"`
}

// PayRequest abono FIFO sobre las deudas abiertas de un cliente.
type PayRequest struct {
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// DebtResponse deuda en respuestas.
type DebtResponse struct {
	ID         string          `json:"id"`
	LocalID    string          `json:"local_id,omitempty"`
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Note       string          `json:"note,omitempty"`
	IsPaid     bool            `json:"is_paid"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
	PaidVia    string          `json:"paid_via,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// DebtSummary agregados de la libreta del usuario.
type DebtSummary struct {
	UnpaidCount int             `json:"unpaid_count"`
	TotalUnpaid decimal.Decimal `json:"total_unpaid"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
}

// DebtListResponse listado con resumen.
type DebtListResponse struct {
	Debts   []DebtResponse `json:"debts"`
	Summary DebtSummary    `json:"summary"`
}

// PayAllocationResponse abono aplicado a una deuda concreta.
type PayAllocationResponse struct {
	DebtID  string          `json:"debt_id"`
	Applied decimal.Decimal `json:"applied"`
}

// PayResponse resultado del abono FIFO. Leftover siempre se reporta al caller.
type PayResponse struct {
	Allocations []PayAllocationResponse `json:"allocations"`
	Leftover    decimal.Decimal         `json:"leftover"`
}
