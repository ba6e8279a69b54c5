package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Estados por entrada en la respuesta del push, en el mismo orden del request.
const (
	SyncStatusCreated  = "created"
	SyncStatusUpdated  = "updated"
	SyncStatusDeleted  = "deleted"
	SyncStatusConflict = "conflict"
)

// SyncChange una mutación local pendiente, tal como viaja por el wire.
// Data es la carga tipada serializada (vacía para delete).
type SyncChange struct {
	Action    string          `json:"action"`
	Table     string          `json:"table"`
	LocalID   string          `json:"local_id"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// SyncPushRequest lote ordenado de cambios del dispositivo.
type SyncPushRequest struct {
	Changes []SyncChange `json:"changes"`
}

// SyncResult resultado por entrada, uno a uno con el request.
type SyncResult struct {
	LocalID  string `json:"local_id"`
	ServerID string `json:"server_id"`
	Status   string `json:"status"`
}

// SyncPushResponse respuesta del endpoint de aceptación de cambios.
type SyncPushResponse struct {
	Results []SyncResult `json:"results"`
}

// SyncCustomer fila de cliente en el pull. Lleva el server id y el local id
// de origen para que el dispositivo empareje sin adivinar.
type SyncCustomer struct {
	ID        string     `json:"id"`
	LocalID   string     `json:"local_id,omitempty"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// SyncDebt fila de deuda en el pull.
type SyncDebt struct {
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
	DeletedAt  *time.Time      `json:"deleted_at,omitempty"`
}

// SyncPullResponse registros modificados después de la marca de agua.
// ServerTime es el reloj del servidor: el dispositivo avanza su watermark a
// este valor, nunca al reloj propio (evita pérdidas por clock skew).
type SyncPullResponse struct {
	Customers  []SyncCustomer `json:"customers"`
	Debts      []SyncDebt     `json:"debts"`
	ServerTime time.Time      `json:"server_time"`
}
