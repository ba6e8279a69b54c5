package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fiado-sync/internal/application/dto"
	"github.com/jhoicas/fiado-sync/internal/domain/entity"
	"github.com/jhoicas/fiado-sync/internal/domain/repository"
)

// SyncUseCase acepta lotes de cambios de dispositivos y sirve el pull
// incremental. Cada entrada del lote se procesa de forma independiente: un
// registro malo produce un resultado conflict sin abortar el resto.
type SyncUseCase struct {
	customerRepo repository.CustomerRepository
	debtRepo     repository.DebtRepository
	now          func() time.Time
}

// NewSyncUseCase construye el caso de uso de sincronización.
func NewSyncUseCase(customerRepo repository.CustomerRepository, debtRepo repository.DebtRepository) *SyncUseCase {
	return &SyncUseCase{
		customerRepo: customerRepo,
		debtRepo:     debtRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Push procesa el lote en orden y devuelve un resultado por entrada, uno a
// uno con el request. Nunca devuelve error por entradas individuales.
func (uc *SyncUseCase) Push(userID string, in dto.SyncPushRequest) *dto.SyncPushResponse {
	results := make([]dto.SyncResult, 0, len(in.Changes))
	for _, ch := range in.Changes {
		switch ch.Table {
		case entity.TableCustomers:
			results = append(results, uc.applyCustomerChange(userID, ch))
		case entity.TableDebts:
			results = append(results, uc.applyDebtChange(userID, ch))
		default:
			results = append(results, conflictResult(ch.LocalID, ""))
		}
	}
	return &dto.SyncPushResponse{Results: results}
}

// Pull devuelve los registros del usuario modificados (o borrados) después
// de since, junto con el reloj del servidor para avanzar la marca de agua.
func (uc *SyncUseCase) Pull(userID string, since time.Time) (*dto.SyncPullResponse, error) {
	customers, err := uc.customerRepo.ListUpdatedSince(userID, since)
	if err != nil {
		return nil, err
	}
	debts, err := uc.debtRepo.ListUpdatedSince(userID, since)
	if err != nil {
		return nil, err
	}

	out := &dto.SyncPullResponse{
		Customers:  make([]dto.SyncCustomer, 0, len(customers)),
		Debts:      make([]dto.SyncDebt, 0, len(debts)),
		ServerTime: uc.now(),
	}
	for _, c := range customers {
		out.Customers = append(out.Customers, dto.SyncCustomer{
			ID:        c.ServerID,
			LocalID:   c.LocalID,
			Name:      c.Name,
			Phone:     c.Phone,
			Notes:     c.Notes,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
			DeletedAt: c.DeletedAt,
		})
	}
	for _, d := range debts {
		out.Debts = append(out.Debts, dto.SyncDebt{
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
			DeletedAt:  d.DeletedAt,
		})
	}
	return out, nil
}

// ── Clientes ──────────────────────────────────────────────────────────────────

func (uc *SyncUseCase) applyCustomerChange(userID string, ch dto.SyncChange) dto.SyncResult {
	payload, err := entity.DecodePayload(ch.Table, ch.Data)
	if err != nil {
		return conflictResult(ch.LocalID, "")
	}

	switch ch.Action {
	case entity.ActionCreate:
		p, ok := payload.(entity.CustomerPayload)
		if !ok {
			return conflictResult(ch.LocalID, "")
		}
		// Idempotencia del create: si el local_id ya existe para este usuario,
		// se rechaza como conflict y se devuelve el server id existente.
		existing, err := uc.customerRepo.GetByUserAndLocalID(userID, ch.LocalID)
		if err != nil {
			return conflictResult(ch.LocalID, "")
		}
		if existing != nil {
			return conflictResult(ch.LocalID, existing.ServerID)
		}
		now := uc.now()
		customer := &entity.Customer{
			LocalID:   ch.LocalID,
			ServerID:  uuid.New().String(),
			UserID:    userID,
			Name:      p.Name,
			Phone:     p.Phone,
			Notes:     p.Notes,
			Synced:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.customerRepo.Create(customer); err != nil {
			return conflictResult(ch.LocalID, "")
		}
		return dto.SyncResult{LocalID: ch.LocalID, ServerID: customer.ServerID, Status: dto.SyncStatusCreated}

	case entity.ActionUpdate:
		p, ok := payload.(entity.CustomerPayload)
		if !ok {
			return conflictResult(ch.LocalID, "")
		}
		existing, err := uc.customerRepo.GetByUserAndLocalID(userID, ch.LocalID)
		if err != nil || existing == nil {
			return conflictResult(ch.LocalID, "")
		}
		existing.Name = p.Name
		existing.Phone = p.Phone
		existing.Notes = p.Notes
		existing.UpdatedAt = uc.now()
		if err := uc.customerRepo.Update(existing); err != nil {
			return conflictResult(ch.LocalID, "")
		}
		return dto.SyncResult{LocalID: ch.LocalID, ServerID: existing.ServerID, Status: dto.SyncStatusUpdated}

	case entity.ActionDelete:
		if err := uc.customerRepo.SoftDelete(userID, ch.LocalID, uc.now()); err != nil {
			return conflictResult(ch.LocalID, "")
		}
		return dto.SyncResult{LocalID: ch.LocalID, Status: dto.SyncStatusDeleted}
	}
	return conflictResult(ch.LocalID, "")
}

// ── Deudas ────────────────────────────────────────────────────────────────────

func (uc *SyncUseCase) applyDebtChange(userID string, ch dto.SyncChange) dto.SyncResult {
	payload, err := entity.DecodePayload(ch.Table, ch.Data)
	if err != nil {
		return conflictResult(ch.LocalID, "")
	}

	switch ch.Action {
	case entity.ActionCreate:
		p, ok := payload.(entity.DebtPayload)
		if !ok || p.Amount == nil {
			return conflictResult(ch.LocalID, "")
		}
		existing, err := uc.debtRepo.GetByUserAndLocalID(userID, ch.LocalID)
		if err != nil {
			return conflictResult(ch.LocalID, "")
		}
		if existing != nil {
			return conflictResult(ch.LocalID, existing.ServerID)
		}
		// La deuda referencia a su cliente por local_id; si el cliente aún no
		// llegó al servidor, el create es conflict (el dispositivo drena la
		// cola en orden, así que esto solo ocurre con colas corruptas).
		customer, err := uc.customerRepo.GetByUserAndLocalID(userID, p.CustomerLocalID)
		if err != nil || customer == nil {
			return conflictResult(ch.LocalID, "")
		}
		now := uc.now()
		debt := &entity.Debt{
			LocalID:          ch.LocalID,
			ServerID:         uuid.New().String(),
			CustomerLocalID:  customer.LocalID,
			CustomerServerID: customer.ServerID,
			UserID:           userID,
			Amount:           *p.Amount,
			PaidAmount:       decimal.Zero,
			Synced:           true,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if p.Note != nil {
			debt.Note = *p.Note
		}
		if err := uc.debtRepo.Create(debt); err != nil {
			return conflictResult(ch.LocalID, "")
		}
		return dto.SyncResult{LocalID: ch.LocalID, ServerID: debt.ServerID, Status: dto.SyncStatusCreated}

	case entity.ActionUpdate:
		p, ok := payload.(entity.DebtPayload)
		if !ok {
			return conflictResult(ch.LocalID, "")
		}
		existing, err := uc.debtRepo.GetByUserAndLocalID(userID, ch.LocalID)
		if err != nil || existing == nil {
			return conflictResult(ch.LocalID, "")
		}
		applyDebtUpdate(existing, p, uc.now())
		if err := uc.debtRepo.Update(existing); err != nil {
			return conflictResult(ch.LocalID, "")
		}
		return dto.SyncResult{LocalID: ch.LocalID, ServerID: existing.ServerID, Status: dto.SyncStatusUpdated}

	case entity.ActionDelete:
		if err := uc.debtRepo.SoftDelete(userID, ch.LocalID, uc.now()); err != nil {
			return conflictResult(ch.LocalID, "")
		}
		return dto.SyncResult{LocalID: ch.LocalID, Status: dto.SyncStatusDeleted}
	}
	return conflictResult(ch.LocalID, "")
}

// applyDebtUpdate aplica los campos presentes del payload (semántica COALESCE).
// PaidAt se fija solo en la transición a pagada.
func applyDebtUpdate(d *entity.Debt, p entity.DebtPayload, now time.Time) {
	if p.Note != nil {
		d.Note = *p.Note
	}
	if p.PaidAmount != nil {
		d.PaidAmount = *p.PaidAmount
	}
	if p.IsPaid != nil && *p.IsPaid && !d.IsPaid {
		d.IsPaid = true
		paidAt := now
		d.PaidAt = &paidAt
		if p.PaidAmount == nil {
			d.PaidAmount = d.Amount
		}
		if p.PaidVia != "" {
			d.PaidVia = p.PaidVia
		} else {
			d.PaidVia = entity.PaidViaCustomer
		}
	} else if p.PaidVia != "" {
		d.PaidVia = p.PaidVia
	}
	if !d.IsPaid && d.PaidAmount.GreaterThanOrEqual(d.Amount) {
		d.IsPaid = true
		paidAt := now
		d.PaidAt = &paidAt
	}
	d.UpdatedAt = now
}

func conflictResult(localID, serverID string) dto.SyncResult {
	return dto.SyncResult{LocalID: localID, ServerID: serverID, Status: dto.SyncStatusConflict}
}
