package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fiado-sync/internal/application/dto"
	"github.com/jhoicas/fiado-sync/internal/domain"
	"github.com/jhoicas/fiado-sync/internal/domain/allocation"
	"github.com/jhoicas/fiado-sync/internal/domain/entity"
	"github.com/jhoicas/fiado-sync/internal/domain/repository"
)

// SadaqaTxRunner ejecuta el reparto de una donación dentro de una transacción:
// deudas, cola y registros de donación se actualizan juntos o no se actualizan.
type SadaqaTxRunner interface {
	RunSadaqa(ctx context.Context, fn func(
		debtRepo repository.DebtRepository,
		sadaqaRepo repository.SadaqaRepository,
	) error) error
}

// SadaqaUseCase gestiona la cola global de sadaqa: opt-in/opt-out, estadísticas,
// donaciones FIFO y los historiales de donante y receptor.
type SadaqaUseCase struct {
	txRunner   SadaqaTxRunner
	debtRepo   repository.DebtRepository
	sadaqaRepo repository.SadaqaRepository
	now        func() time.Time
}

// NewSadaqaUseCase construye el caso de uso.
func NewSadaqaUseCase(txRunner SadaqaTxRunner, debtRepo repository.DebtRepository, sadaqaRepo repository.SadaqaRepository) *SadaqaUseCase {
	return &SadaqaUseCase{
		txRunner:   txRunner,
		debtRepo:   debtRepo,
		sadaqaRepo: sadaqaRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// QueueStats devuelve el estado anónimo de la cola.
func (uc *SadaqaUseCase) QueueStats() (*dto.SadaqaQueueStats, error) {
	waiting, total, err := uc.sadaqaRepo.QueueStats()
	if err != nil {
		return nil, err
	}
	return &dto.SadaqaQueueStats{PeopleWaiting: waiting, TotalAmountNeeded: total}, nil
}

// OptIn encola una deuda propia no pagada con su saldo vigente. Si la deuda ya
// estaba encolada, se actualiza el saldo y se reactiva la elegibilidad.
func (uc *SadaqaUseCase) OptIn(userID string, in dto.OptInRequest) error {
	debt, err := uc.debtRepo.GetByID(in.DebtID)
	if err != nil {
		return err
	}
	if debt == nil || debt.Deleted() || debt.UserID != userID {
		return domain.ErrNotFound
	}
	if debt.IsPaid {
		return domain.ErrDebtAlreadyPaid
	}
	return uc.sadaqaRepo.UpsertQueueEntry(&entity.SadaqaQueueEntry{
		ID:         uuid.New().String(),
		DebtID:     debt.ServerID,
		UserID:     userID,
		Remaining:  debt.Remaining(),
		Eligible:   true,
		EnqueuedAt: uc.now(),
	})
}

// OptOut retira la deuda de la cola (la entrada queda inelegible, no se borra).
func (uc *SadaqaUseCase) OptOut(userID string, in dto.OptOutRequest) error {
	return uc.sadaqaRepo.SetEligibility(in.DebtID, userID, false)
}

// Donate reparte la donación sobre la cola FIFO global excluyendo las deudas
// del donante, dentro de una sola transacción. El sobrante se reporta siempre.
func (uc *SadaqaUseCase) Donate(ctx context.Context, donorID string, in dto.DonateRequest) (*dto.DonateResponse, error) {
	anonymous := true
	if in.Anonymous != nil {
		anonymous = *in.Anonymous
	}

	var out *dto.DonateResponse
	err := uc.txRunner.RunSadaqa(ctx, func(debtRepo repository.DebtRepository, sadaqaRepo repository.SadaqaRepository) error {
		queue, err := sadaqaRepo.ListEligible()
		if err != nil {
			return err
		}
		result, err := allocation.DistributeSadaqa(donorID, in.Amount, queue)
		if err != nil {
			return err
		}

		byID := make(map[string]*entity.SadaqaQueueEntry, len(queue))
		for _, e := range queue {
			byID[e.ID] = e
		}
		now := uc.now()
		recipients := make(map[string]struct{})
		details := make([]dto.DonationDetail, 0, len(result.Allocations))

		for _, a := range result.Allocations {
			debt, err := debtRepo.GetByID(a.DebtID)
			if err != nil {
				return err
			}
			if debt == nil {
				return domain.ErrNotFound
			}
			debt.ApplyPayment(a.Applied, entity.PaidViaSadaqa, now)
			if err := debtRepo.Update(debt); err != nil {
				return err
			}

			entry := byID[a.EntryID]
			if err := sadaqaRepo.UpdateRemaining(a.EntryID, entry.Remaining.Sub(a.Applied)); err != nil {
				return err
			}

			if err := sadaqaRepo.CreateDonation(&entity.SadaqaDonation{
				ID:        uuid.New().String(),
				DonorID:   donorID,
				DebtID:    a.DebtID,
				Amount:    a.Applied,
				Anonymous: anonymous,
				CreatedAt: now,
			}); err != nil {
				return err
			}
			recipients[a.RecipientID] = struct{}{}
			details = append(details, dto.DonationDetail{DebtID: a.DebtID, Applied: a.Applied})
		}

		out = &dto.DonateResponse{
			Total:      result.TotalDonated,
			Recipients: len(recipients),
			Details:    details,
			Leftover:   result.Leftover,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// History devuelve las donaciones hechas por el usuario con agregados.
func (uc *SadaqaUseCase) History(donorID string) (*dto.DonationHistoryResponse, error) {
	donations, err := uc.sadaqaRepo.ListDonationsByDonor(donorID, 50)
	if err != nil {
		return nil, err
	}
	return buildHistory(donations, false), nil
}

// Received devuelve las donaciones recibidas. Las anónimas nunca exponen la
// identidad del donante al receptor.
func (uc *SadaqaUseCase) Received(userID string) (*dto.DonationHistoryResponse, error) {
	donations, err := uc.sadaqaRepo.ListDonationsReceived(userID)
	if err != nil {
		return nil, err
	}
	return buildHistory(donations, true), nil
}

// buildHistory mapea las donaciones a DTO. hideAnonymousDonor borra la
// atribución en registros anónimos (vista del receptor).
func buildHistory(donations []*entity.SadaqaDonation, hideAnonymousDonor bool) *dto.DonationHistoryResponse {
	out := &dto.DonationHistoryResponse{
		Donations:   make([]dto.DonationRecord, 0, len(donations)),
		TotalAmount: decimal.Zero,
	}
	for _, d := range donations {
		rec := dto.DonationRecord{
			ID:        d.ID,
			DonorID:   d.DonorID,
			DebtID:    d.DebtID,
			Amount:    d.Amount,
			Anonymous: d.Anonymous,
			CreatedAt: d.CreatedAt,
		}
		if hideAnonymousDonor && d.Anonymous {
			rec.DonorID = ""
		}
		out.Donations = append(out.Donations, rec)
		out.TotalAmount = out.TotalAmount.Add(d.Amount)
	}
	out.TotalCount = len(out.Donations)
	return out
}
