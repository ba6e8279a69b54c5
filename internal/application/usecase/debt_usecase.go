package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fiado-sync/internal/application/dto"
	"github.com/jhoicas/fiado-sync/internal/domain"
	"github.com/jhoicas/fiado-sync/internal/domain/allocation"
	"github.com/jhoicas/fiado-sync/internal/domain/entity"
	"github.com/jhoicas/fiado-sync/internal/domain/repository"
)

// DebtUseCase casos de uso de deudas: CRUD y abono FIFO (lado servidor).
type DebtUseCase struct {
	debtRepo     repository.DebtRepository
	customerRepo repository.CustomerRepository
	now          func() time.Time
}

// NewDebtUseCase construye el caso de uso.
func NewDebtUseCase(debtRepo repository.DebtRepository, customerRepo repository.CustomerRepository) *DebtUseCase {
	return &DebtUseCase{
		debtRepo:     debtRepo,
		customerRepo: customerRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Create registra una deuda nueva para un cliente del usuario.
func (uc *DebtUseCase) Create(userID string, in dto.CreateDebtRequest) (*dto.DebtResponse, error) {
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.Deleted() || customer.UserID != userID {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	debt := &entity.Debt{
		LocalID:          in.LocalID,
		ServerID:         uuid.New().String(),
		CustomerLocalID:  customer.LocalID,
		CustomerServerID: customer.ServerID,
		UserID:           userID,
		Amount:           in.Amount,
		PaidAmount:       decimal.Zero,
		Note:             in.Note,
		Synced:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.debtRepo.Create(debt); err != nil {
		return nil, err
	}
	return toDebtResponse(debt), nil
}

// List lista deudas del usuario filtradas por estado, con resumen agregado.
func (uc *DebtUseCase) List(userID, status string, page dto.PageRequest) (*dto.DebtListResponse, error) {
	page.DefaultPage()
	if status == "" {
		status = repository.DebtStatusAll
	}
	list, err := uc.debtRepo.ListByUser(userID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	all, err := uc.debtRepo.ListByUser(userID, repository.DebtStatusAll, 0, 0)
	if err != nil {
		return nil, err
	}

	out := &dto.DebtListResponse{
		Debts: make([]dto.DebtResponse, 0, len(list)),
		Summary: dto.DebtSummary{
			TotalUnpaid: decimal.Zero,
			TotalPaid:   decimal.Zero,
		},
	}
	for _, d := range list {
		out.Debts = append(out.Debts, *toDebtResponse(d))
	}
	for _, d := range all {
		if d.IsPaid {
			out.Summary.TotalPaid = out.Summary.TotalPaid.Add(d.Amount)
		} else {
			out.Summary.UnpaidCount++
			out.Summary.TotalUnpaid = out.Summary.TotalUnpaid.Add(d.Remaining())
		}
	}
	return out, nil
}

// Update edita nota o marca la deuda como pagada por el cliente. El monto
// original es inmutable: los ajustes de saldo pasan por Pay.
func (uc *DebtUseCase) Update(userID, id string, in dto.UpdateDebtRequest) (*dto.DebtResponse, error) {
	debt, err := uc.debtRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if debt == nil || debt.Deleted() || debt.UserID != userID {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	if in.Note != nil {
		debt.Note = *in.Note
	}
	if in.IsPaid != nil && *in.IsPaid && !debt.IsPaid {
		debt.PaidAmount = debt.Amount
		debt.IsPaid = true
		paidAt := now
		debt.PaidAt = &paidAt
		debt.PaidVia = entity.PaidViaCustomer
	}
	debt.UpdatedAt = now
	if err := uc.debtRepo.Update(debt); err != nil {
		return nil, err
	}
	return toDebtResponse(debt), nil
}

// Delete marca el tombstone de la deuda.
func (uc *DebtUseCase) Delete(userID, id string) error {
	debt, err := uc.debtRepo.GetByID(id)
	if err != nil {
		return err
	}
	if debt == nil || debt.UserID != userID {
		return domain.ErrNotFound
	}
	return uc.debtRepo.SoftDelete(userID, debt.LocalID, uc.now())
}

// Pay aplica un abono FIFO sobre las deudas abiertas de un cliente: la más
// antigua cobra primero. El sobrante se devuelve al caller, que decide qué
// hacer con él (rechazar, acreditar o avisar).
func (uc *DebtUseCase) Pay(userID string, in dto.PayRequest) (*dto.PayResponse, error) {
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.Deleted() || customer.UserID != userID {
		return nil, domain.ErrNotFound
	}
	open, err := uc.debtRepo.ListOpenByCustomer(userID, customer.ServerID)
	if err != nil {
		return nil, err
	}

	allocs, leftover, err := allocation.Allocate(in.Amount, open)
	if err != nil {
		return nil, err
	}

	byLocalID := make(map[string]*entity.Debt, len(open))
	for _, d := range open {
		byLocalID[d.LocalID] = d
	}
	now := uc.now()
	out := &dto.PayResponse{Leftover: leftover}
	for _, a := range allocs {
		debt := byLocalID[a.DebtLocalID]
		via := entity.PaidViaPartial
		if a.Applied.Equal(debt.Remaining()) && debt.PaidAmount.IsZero() {
			via = entity.PaidViaCustomer
		}
		debt.ApplyPayment(a.Applied, via, now)
		if err := uc.debtRepo.Update(debt); err != nil {
			return nil, err
		}
		out.Allocations = append(out.Allocations, dto.PayAllocationResponse{
			DebtID:  debt.ServerID,
			Applied: a.Applied,
		})
	}
	return out, nil
}

func toDebtResponse(d *entity.Debt) *dto.DebtResponse {
	if d == nil {
		return nil
	}
	return &dto.DebtResponse{
		ID:         d.ServerID,
		LocalID:    d.LocalID,
		CustomerID: d.CustomerServerID,
		Amount:     d.Amount,
		PaidAmount: d.PaidAmount,
		Note:       d.Note,
		IsPaid:     d.IsPaid,
		PaidAt:     d.PaidAt,
		PaidVia:    d.PaidVia,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
