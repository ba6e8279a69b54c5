package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SadaqaQueueStats estado anónimo de la cola (cuánta gente espera ayuda).
type SadaqaQueueStats struct {
	PeopleWaiting     int             `json:"people_waiting"`
	TotalAmountNeeded decimal.Decimal `json:"total_amount_needed"`
}

// OptInRequest encola una deuda propia para recibir sadaqa.
type OptInRequest struct {
	DebtID string `json:"debt_id"`
}

// OptOutRequest retira una deuda de la cola.
type OptOutRequest struct {
	DebtID string `json:"debt_id"`
}

// DonateRequest donación a la cola FIFO global.
type DonateRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Anonymous *bool           `json:"anonymous"` // nil => true (anónimo por defecto)
}

// DonationDetail porción de la donación aplicada a una deuda.
type DonationDetail struct {
	DebtID  string          `json:"debt_id"`
	Applied decimal.Decimal `json:"applied"`
}

// DonateResponse resumen del reparto. Leftover == amount - total, exacto.
type DonateResponse struct {
	Total      decimal.Decimal  `json:"total"`
	Recipients int              `json:"recipients"`
	Details    []DonationDetail `json:"details"`
	Leftover   decimal.Decimal  `json:"leftover"`
}

// DonationRecord donación en historiales. DonorID viaja vacío cuando la
// donación fue anónima y el lector es el receptor.
type DonationRecord struct {
	ID        string          `json:"id"`
	DonorID   string          `json:"donor_id,omitempty"`
	DebtID    string          `json:"debt_id"`
	Amount    decimal.Decimal `json:"amount"`
	Anonymous bool            `json:"anonymous"`
	CreatedAt time.Time       `json:"created_at"`
}

// DonationHistoryResponse historial con agregados.
type DonationHistoryResponse struct {
	Donations   []DonationRecord `json:"donations"`
	TotalCount  int              `json:"total_count"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
}
