package usecase_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fiado-sync/internal/application/dto"
	"github.com/jhoicas/fiado-sync/internal/application/usecase"
	"github.com/jhoicas/fiado-sync/internal/domain"
	"github.com/jhoicas/fiado-sync/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func newDebtUC() (*usecase.DebtUseCase, *memCustomerRepo, *memDebtRepo) {
	customers := newMemCustomerRepo()
	debts := newMemDebtRepo()
	return usecase.NewDebtUseCase(debts, customers), customers, debts
}

func seedCustomer(t *testing.T, customers *memCustomerRepo, serverID, userID string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, customers.Create(&entity.Customer{
		LocalID:   "l-" + serverID,
		ServerID:  serverID,
		UserID:    userID,
		Name:      "Cliente",
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func seedOpenDebt(t *testing.T, debts *memDebtRepo, serverID, customerServerID, userID, amount string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, debts.Create(&entity.Debt{
		LocalID:          "l-" + serverID,
		ServerID:         serverID,
		CustomerServerID: customerServerID,
		UserID:           userID,
		Amount:           decimal.RequireFromString(amount),
		PaidAmount:       decimal.Zero,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Pay: abono FIFO
// ──────────────────────────────────────────────────────────────────────────────

// El abono cubre la deuda más antigua primero y abona parcial en la siguiente.
func TestPay_FIFOMasAntiguaPrimero(t *testing.T) {
	uc, customers, debts := newDebtUC()
	seedCustomer(t, customers, "srv-c1", "u-1")
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	seedOpenDebt(t, debts, "srv-d2", "srv-c1", "u-1", "50", base.Add(time.Hour))
	seedOpenDebt(t, debts, "srv-d1", "srv-c1", "u-1", "30", base)

	out, err := uc.Pay("u-1", dto.PayRequest{
		CustomerID: "srv-c1",
		Amount:     decimal.RequireFromString("45"),
	})
	require.NoError(t, err)

	require.Len(t, out.Allocations, 2)
	assert.Equal(t, "srv-d1", out.Allocations[0].DebtID)
	assert.True(t, out.Allocations[0].Applied.Equal(decimal.RequireFromString("30")))
	assert.Equal(t, "srv-d2", out.Allocations[1].DebtID)
	assert.True(t, out.Allocations[1].Applied.Equal(decimal.RequireFromString("15")))
	assert.True(t, out.Leftover.IsZero())

	// La más antigua quedó saldada por completo
	d1, _ := debts.GetByID("srv-d1")
	assert.True(t, d1.IsPaid)
	require.NotNil(t, d1.PaidAt)
	assert.Equal(t, entity.PaidViaCustomer, d1.PaidVia, "pago completo en un solo abono")

	// La siguiente quedó con abono parcial
	d2, _ := debts.GetByID("srv-d2")
	assert.False(t, d2.IsPaid)
	assert.True(t, d2.PaidAmount.Equal(decimal.RequireFromString("15")))
	assert.Equal(t, entity.PaidViaPartial, d2.PaidVia)
}

// El sobrante se reporta exacto cuando el abono excede todas las deudas.
func TestPay_SobranteExacto(t *testing.T) {
	uc, customers, debts := newDebtUC()
	seedCustomer(t, customers, "srv-c1", "u-1")
	seedOpenDebt(t, debts, "srv-d1", "srv-c1", "u-1", "20.25", time.Now().UTC())

	out, err := uc.Pay("u-1", dto.PayRequest{
		CustomerID: "srv-c1",
		Amount:     decimal.RequireFromString("50"),
	})
	require.NoError(t, err)
	assert.True(t, out.Leftover.Equal(decimal.RequireFromString("29.75")))
}

// Montos no positivos se rechazan.
func TestPay_MontoInvalido(t *testing.T) {
	uc, customers, _ := newDebtUC()
	seedCustomer(t, customers, "srv-c1", "u-1")

	_, err := uc.Pay("u-1", dto.PayRequest{CustomerID: "srv-c1", Amount: decimal.Zero})
	assert.Equal(t, domain.ErrInvalidAmount, err)
}

// No se puede abonar sobre el cliente de otro usuario.
func TestPay_ClienteAjeno(t *testing.T) {
	uc, customers, _ := newDebtUC()
	seedCustomer(t, customers, "srv-c1", "u-1")

	_, err := uc.Pay("u-2", dto.PayRequest{
		CustomerID: "srv-c1",
		Amount:     decimal.RequireFromString("10"),
	})
	assert.Equal(t, domain.ErrNotFound, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Update
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateDebt_ClienteInexistente(t *testing.T) {
	uc, _, _ := newDebtUC()

	_, err := uc.Create("u-1", dto.CreateDebtRequest{
		CustomerID: "srv-nada",
		Amount:     decimal.RequireFromString("10"),
		LocalID:    "d-1",
	})
	assert.Equal(t, domain.ErrNotFound, err)
}

func TestCreateDebt_MontoInvalido(t *testing.T) {
	uc, customers, _ := newDebtUC()
	seedCustomer(t, customers, "srv-c1", "u-1")

	_, err := uc.Create("u-1", dto.CreateDebtRequest{
		CustomerID: "srv-c1",
		Amount:     decimal.Zero,
		LocalID:    "d-1",
	})
	assert.Equal(t, domain.ErrInvalidAmount, err)
}

// Marcar pagada por el cliente fija el total, PaidAt y la vía.
func TestUpdateDebt_MarcarPagada(t *testing.T) {
	uc, customers, debts := newDebtUC()
	seedCustomer(t, customers, "srv-c1", "u-1")
	seedOpenDebt(t, debts, "srv-d1", "srv-c1", "u-1", "80", time.Now().UTC())

	isPaid := true
	out, err := uc.Update("u-1", "srv-d1", dto.UpdateDebtRequest{IsPaid: &isPaid})
	require.NoError(t, err)

	assert.True(t, out.IsPaid)
	assert.True(t, out.PaidAmount.Equal(decimal.RequireFromString("80")))
	require.NotNil(t, out.PaidAt)
	assert.Equal(t, entity.PaidViaCustomer, out.PaidVia)
}
