package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Acciones válidas en la cola de cambios.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Tablas sincronizables.
const (
	TableCustomers = "customers"
	TableDebts     = "debts"
)

// Change es una entrada de la cola de sincronización: una mutación local
// pendiente de envío al servidor. Las entradas se drenan en orden FIFO para
// que un update de un LocalID nunca viaje antes que su create.
type Change struct {
	ID        int64
	Action    string
	Table     string
	LocalID   string
	Payload   Payload // nil para delete
	Timestamp time.Time
}

// Payload es la unión etiquetada de cargas de cambio: cada tabla tiene una
// forma concreta y tipada, sin mapas dinámicos.
type Payload interface {
	payloadTable() string
}

// CustomerPayload carga de create/update de clientes.
type CustomerPayload struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

func (CustomerPayload) payloadTable() string { return TableCustomers }

// DebtPayload carga de create/update de deudas. Los campos puntero son
// opcionales en updates (solo viaja lo que cambió).
type DebtPayload struct {
	CustomerLocalID string           `json:"customer_local_id,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	PaidAmount      *decimal.Decimal `json:"paid_amount,omitempty"`
	Note            *string          `json:"note,omitempty"`
	IsPaid          *bool            `json:"is_paid,omitempty"`
	PaidVia         string           `json:"paid_via,omitempty"`
}

func (DebtPayload) payloadTable() string { return TableDebts }

// EncodePayload serializa una carga para persistirla en la cola. Un payload
// nil (delete) produce nil.
func EncodePayload(p Payload) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// DecodePayload reconstruye la carga tipada según la tabla de la entrada.
func DecodePayload(table string, raw []byte) (Payload, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	switch table {
	case TableCustomers:
		var p CustomerPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode customer payload: %w", err)
		}
		return p, nil
	case TableDebts:
		var p DebtPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode debt payload: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("tabla desconocida en cola: %q", table)
	}
}
