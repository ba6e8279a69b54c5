// Package allocation contiene los repartidores FIFO puros: abonos parciales
// sobre las deudas de un cliente y distribución de sadaqa entre usuarios.
// Ninguna función de este paquete tiene efectos secundarios; el caller
// convierte el resultado en mutaciones locales/remotas.
package allocation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fiado-sync/internal/domain"
	"github.com/jhoicas/fiado-sync/internal/domain/entity"
)

// Allocation es el monto aplicado a una deuda concreta.
type Allocation struct {
	DebtLocalID string
	Applied     decimal.Decimal
}

// Allocate reparte un pago entre las deudas abiertas de un cliente, de la más
// antigua a la más reciente. Devuelve las asignaciones y el sobrante exacto
// (payment - suma aplicada); el sobrante no es un error, la disposición es
// decisión del caller. Rechaza pagos <= 0 con domain.ErrInvalidAmount.
// Desempate por LocalID para que el resultado sea determinista.
func Allocate(payment decimal.Decimal, openDebts []*entity.Debt) ([]Allocation, decimal.Decimal, error) {
	if payment.LessThanOrEqual(decimal.Zero) {
		return nil, decimal.Zero, domain.ErrInvalidAmount
	}

	sorted := make([]*entity.Debt, len(openDebts))
	copy(sorted, openDebts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].LocalID < sorted[j].LocalID
	})

	remaining := payment
	var allocs []Allocation
	for _, d := range sorted {
		if remaining.IsZero() {
			break
		}
		if d.Deleted() || d.IsPaid {
			continue
		}
		due := d.Remaining()
		if due.LessThanOrEqual(decimal.Zero) {
			continue
		}
		applied := decimal.Min(remaining, due)
		allocs = append(allocs, Allocation{DebtLocalID: d.LocalID, Applied: applied})
		remaining = remaining.Sub(applied)
	}
	return allocs, remaining, nil
}
