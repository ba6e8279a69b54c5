package sync

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/fiado-sync/internal/application/dto"
	"github.com/jhoicas/fiado-sync/internal/domain/entity"
)

// Pull trae los registros remotos modificados después de la marca de agua y
// los funde en la libreta local. En el pull el servidor es autoritativo
// (last-write-wins a su favor). Al terminar, la marca avanza al reloj del
// servidor, nunca al del dispositivo.
func (s *Synchronizer) Pull(ctx context.Context, credential string) bool {
	if !s.online() {
		return false
	}
	since, err := s.store.Watermark()
	if err != nil {
		s.log.Error().Err(err).Msg("pull: leyendo watermark")
		return false
	}

	resp, err := s.transport.PullChanges(ctx, credential, since)
	if err != nil {
		s.log.Warn().Err(err).Msg("pull fallido")
		return false
	}

	// Clientes primero: las deudas del mismo lote resuelven contra ellos
	for _, rc := range resp.Customers {
		local, err := s.findLocalCustomer(rc)
		if err != nil {
			s.log.Error().Err(err).Str("server_id", rc.ID).Msg("pull: buscando cliente local")
			continue
		}
		merged := mergeRemoteCustomer(local, rc)
		if err := s.store.ApplyRemoteCustomer(merged); err != nil {
			s.log.Error().Err(err).Str("local_id", merged.LocalID).Msg("pull: aplicando cliente")
		}
	}

	for _, rd := range resp.Debts {
		customer, err := s.store.GetCustomerByServerID(rd.CustomerID)
		if err != nil {
			s.log.Error().Err(err).Str("customer_id", rd.CustomerID).Msg("pull: resolviendo cliente de deuda")
			continue
		}
		if customer == nil {
			// El cliente aún no llegó: la deuda se salta este ciclo y
			// resolverá cuando aparezca, normalmente en el próximo lote
			s.log.Debug().Str("server_id", rd.ID).Msg("pull: deuda sin cliente local, pospuesta")
			continue
		}
		local, err := s.findLocalDebt(rd)
		if err != nil {
			s.log.Error().Err(err).Str("server_id", rd.ID).Msg("pull: buscando deuda local")
			continue
		}
		merged := mergeRemoteDebt(local, rd, customer.LocalID)
		if err := s.store.ApplyRemoteDebt(merged); err != nil {
			s.log.Error().Err(err).Str("local_id", merged.LocalID).Msg("pull: aplicando deuda")
		}
	}

	if err := s.store.SetWatermark(resp.ServerTime); err != nil {
		s.log.Error().Err(err).Msg("pull: avanzando watermark")
		return false
	}
	s.log.Info().
		Int("customers", len(resp.Customers)).
		Int("debts", len(resp.Debts)).
		Time("watermark", resp.ServerTime).
		Msg("pull completado")
	return true
}

func (s *Synchronizer) findLocalCustomer(rc dto.SyncCustomer) (*entity.Customer, error) {
	local, err := s.store.GetCustomerByServerID(rc.ID)
	if err != nil || local != nil {
		return local, err
	}
	if rc.LocalID != "" {
		return s.store.GetCustomer(rc.LocalID)
	}
	return nil, nil
}

func (s *Synchronizer) findLocalDebt(rd dto.SyncDebt) (*entity.Debt, error) {
	local, err := s.store.GetDebtByServerID(rd.ID)
	if err != nil || local != nil {
		return local, err
	}
	if rd.LocalID != "" {
		return s.store.GetDebt(rd.LocalID)
	}
	return nil, nil
}

// mergeRemoteCustomer es la estrategia de merge nombrada del pull: sobreescribe
// los campos mutables y el tombstone con la versión del servidor. Si no hay
// registro local, crea uno prefiriendo el local id declarado por el servidor.
func mergeRemoteCustomer(local *entity.Customer, remote dto.SyncCustomer) *entity.Customer {
	if local == nil {
		localID := remote.LocalID
		if localID == "" {
			localID = uuid.New().String()
		}
		local = &entity.Customer{LocalID: localID, CreatedAt: remote.CreatedAt}
	}
	local.ServerID = remote.ID
	local.Name = remote.Name
	local.Phone = remote.Phone
	local.Notes = remote.Notes
	local.UpdatedAt = remote.UpdatedAt
	local.DeletedAt = remote.DeletedAt
	local.Synced = true
	return local
}

// mergeRemoteDebt aplica la misma estrategia para deudas. customerLocalID es
// el cliente ya resuelto localmente por server id.
func mergeRemoteDebt(local *entity.Debt, remote dto.SyncDebt, customerLocalID string) *entity.Debt {
	if local == nil {
		localID := remote.LocalID
		if localID == "" {
			localID = uuid.New().String()
		}
		local = &entity.Debt{LocalID: localID, Amount: remote.Amount, CreatedAt: remote.CreatedAt}
	}
	local.ServerID = remote.ID
	local.CustomerLocalID = customerLocalID
	local.CustomerServerID = remote.CustomerID
	local.PaidAmount = remote.PaidAmount
	local.Note = remote.Note
	local.IsPaid = remote.IsPaid
	local.PaidAt = remote.PaidAt
	local.PaidVia = remote.PaidVia
	local.UpdatedAt = remote.UpdatedAt
	local.DeletedAt = remote.DeletedAt
	local.Synced = true
	return local
}
