package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago de una deuda.
const (
	PaidViaCustomer = "customer" // el cliente pagó el total él mismo
	PaidViaPartial  = "partial"  // abonos parciales FIFO
	PaidViaSadaqa   = "sadaqa"   // cubierta por donaciones de otros usuarios
)

// Debt representa una deuda de un cliente. Amount es inmutable después de la
// creación: los ajustes ocurren solo vía incrementos de PaidAmount.
// La deuda pertenece a exactamente un cliente y un usuario (UserID
// desnormalizado para consultas).
type Debt struct {
	LocalID          string
	ServerID         string
	CustomerLocalID  string
	CustomerServerID string
	UserID           string
	Amount           decimal.Decimal // obligación original, > 0
	PaidAmount       decimal.Decimal // acumulado, 0 <= PaidAmount <= Amount
	Note             string
	IsPaid           bool
	PaidAt           *time.Time // se fija una sola vez, cuando IsPaid pasa a true
	PaidVia          string
	Synced           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// Deleted indica si la deuda tiene tombstone.
func (d *Debt) Deleted() bool { return d.DeletedAt != nil }

// Remaining devuelve el saldo pendiente (Amount - PaidAmount), nunca negativo.
func (d *Debt) Remaining() decimal.Decimal {
	r := d.Amount.Sub(d.PaidAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// ApplyPayment incrementa PaidAmount y marca la deuda como pagada cuando el
// acumulado alcanza Amount. PaidAt se fija solo en la transición false→true.
func (d *Debt) ApplyPayment(amount decimal.Decimal, via string, now time.Time) {
	d.PaidAmount = d.PaidAmount.Add(amount)
	d.PaidVia = via
	if !d.IsPaid && d.PaidAmount.GreaterThanOrEqual(d.Amount) {
		d.IsPaid = true
		paidAt := now
		d.PaidAt = &paidAt
	}
	d.UpdatedAt = now
}
