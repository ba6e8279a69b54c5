package allocation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fiado-sync/internal/domain"
	"github.com/jhoicas/fiado-sync/internal/domain/allocation"
	"github.com/jhoicas/fiado-sync/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// openDebt construye una deuda abierta con antigüedad relativa en días.
func openDebt(localID string, amount float64, ageDays int) *entity.Debt {
	return &entity.Debt{
		LocalID:    localID,
		Amount:     decimal.NewFromFloat(amount),
		PaidAmount: decimal.Zero,
		CreatedAt:  baseTime.AddDate(0, 0, ageDays),
	}
}

func sumApplied(allocs []allocation.Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Applied)
	}
	return total
}

// ──────────────────────────────────────────────────────────────────────────────
// Reparto FIFO: casos del contrato
// ──────────────────────────────────────────────────────────────────────────────

// Deudas T1<T2<T3 con saldos 100, 50, 30 y pago 120: la más antigua se cubre
// completa (100), la segunda recibe 20 y la tercera nada. Sobrante cero.
func TestAllocate_PagoParcialFIFO(t *testing.T) {
	debts := []*entity.Debt{
		openDebt("t3", 30, 3),
		openDebt("t1", 100, 1),
		openDebt("t2", 50, 2),
	}

	allocs, leftover, err := allocation.Allocate(decimal.NewFromInt(120), debts)
	require.NoError(t, err)

	require.Len(t, allocs, 2, "solo las dos deudas más antiguas reciben abono")
	assert.Equal(t, "t1", allocs[0].DebtLocalID)
	assert.True(t, allocs[0].Applied.Equal(decimal.NewFromInt(100)),
		"la deuda más antigua debe cubrirse completa")
	assert.Equal(t, "t2", allocs[1].DebtLocalID)
	assert.True(t, allocs[1].Applied.Equal(decimal.NewFromInt(20)))
	assert.True(t, leftover.IsZero(), "no debe haber sobrante con pago 120 sobre 180")
}

// Pago 200 contra saldo total 180: las tres deudas se cubren completas y el
// sobrante exacto es 20 (se reporta, no es error).
func TestAllocate_SobrantePreciso(t *testing.T) {
	debts := []*entity.Debt{
		openDebt("t1", 100, 1),
		openDebt("t2", 50, 2),
		openDebt("t3", 30, 3),
	}

	allocs, leftover, err := allocation.Allocate(decimal.NewFromInt(200), debts)
	require.NoError(t, err)

	require.Len(t, allocs, 3)
	assert.True(t, leftover.Equal(decimal.NewFromInt(20)),
		"el sobrante debe ser exactamente 20")
	assert.True(t, sumApplied(allocs).Equal(decimal.NewFromInt(180)))
}

// Propiedad: sum(applied) + leftover == payment, sin deriva de centavos.
func TestAllocate_ConservacionDelMonto(t *testing.T) {
	debts := []*entity.Debt{
		openDebt("a", 33.33, 1),
		openDebt("b", 66.67, 2),
		openDebt("c", 10.01, 3),
	}
	payment := decimal.NewFromFloat(75.55)

	allocs, leftover, err := allocation.Allocate(payment, debts)
	require.NoError(t, err)

	assert.True(t, sumApplied(allocs).Add(leftover).Equal(payment),
		"sum(applied) + leftover debe igualar el pago exactamente")
}

// Pago 0 es un fallo de validación, no un éxito degenerado.
func TestAllocate_PagoCeroRechazado(t *testing.T) {
	debts := []*entity.Debt{openDebt("t1", 100, 1)}

	_, _, err := allocation.Allocate(decimal.Zero, debts)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestAllocate_PagoNegativoRechazado(t *testing.T) {
	_, _, err := allocation.Allocate(decimal.NewFromInt(-5), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

// Sin deudas abiertas: todo el pago es sobrante (no es error).
func TestAllocate_SinDeudas_TodoSobrante(t *testing.T) {
	payment := decimal.NewFromInt(40)
	allocs, leftover, err := allocation.Allocate(payment, nil)
	require.NoError(t, err)
	assert.Empty(t, allocs)
	assert.True(t, leftover.Equal(payment))
}

// Deudas con abonos previos: el reparto usa el saldo restante, no el original.
func TestAllocate_RespetaSaldoRestante(t *testing.T) {
	d := openDebt("t1", 100, 1)
	d.PaidAmount = decimal.NewFromInt(80) // quedan 20

	allocs, leftover, err := allocation.Allocate(decimal.NewFromInt(50), []*entity.Debt{d})
	require.NoError(t, err)

	require.Len(t, allocs, 1)
	assert.True(t, allocs[0].Applied.Equal(decimal.NewFromInt(20)))
	assert.True(t, leftover.Equal(decimal.NewFromInt(30)))
}

// Deudas con tombstone o ya pagadas nunca reciben abono.
func TestAllocate_IgnoraBorradasYPagadas(t *testing.T) {
	deleted := openDebt("del", 40, 1)
	now := baseTime
	deleted.DeletedAt = &now
	paid := openDebt("paid", 40, 2)
	paid.IsPaid = true
	paid.PaidAmount = paid.Amount
	live := openDebt("live", 40, 3)

	allocs, leftover, err := allocation.Allocate(decimal.NewFromInt(60), []*entity.Debt{deleted, paid, live})
	require.NoError(t, err)

	require.Len(t, allocs, 1)
	assert.Equal(t, "live", allocs[0].DebtLocalID)
	assert.True(t, leftover.Equal(decimal.NewFromInt(20)))
}

// Timestamps idénticos: desempate determinista por LocalID ascendente.
func TestAllocate_DesempatePorLocalID(t *testing.T) {
	d1 := openDebt("bbb", 50, 1)
	d2 := openDebt("aaa", 50, 1) // misma fecha de creación

	allocs, _, err := allocation.Allocate(decimal.NewFromInt(50), []*entity.Debt{d1, d2})
	require.NoError(t, err)

	require.Len(t, allocs, 1)
	assert.Equal(t, "aaa", allocs[0].DebtLocalID,
		"con timestamps iguales gana el LocalID menor")
}

// El slice de entrada no debe mutarse (función pura).
func TestAllocate_NoMutaEntrada(t *testing.T) {
	debts := []*entity.Debt{
		openDebt("t2", 50, 2),
		openDebt("t1", 100, 1),
	}

	_, _, err := allocation.Allocate(decimal.NewFromInt(120), debts)
	require.NoError(t, err)

	assert.Equal(t, "t2", debts[0].LocalID, "el orden del slice original no debe cambiar")
	assert.True(t, debts[1].PaidAmount.IsZero(), "Allocate no debe tocar PaidAmount")
}
