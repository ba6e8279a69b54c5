package sync

import (
	"context"

	"github.com/jhoicas/fiado-sync/internal/application/dto"
	"github.com/jhoicas/fiado-sync/internal/domain/entity"
)

// Push drena la cola de cambios contra el servidor. Devuelve true si el
// request de transporte completó, aunque haya conflicts individuales; false
// solo ante fallo de red, guard activo o estando offline (la cola queda
// intacta para el siguiente intento).
func (s *Synchronizer) Push(ctx context.Context, credential string) bool {
	if !s.online() {
		return false
	}
	// Un solo push en vuelo: el segundo observa el guard y devuelve false
	if !s.pushing.CompareAndSwap(false, true) {
		return false
	}
	defer s.pushing.Store(false)

	queue, err := s.store.Queue()
	if err != nil {
		s.log.Error().Err(err).Msg("push: leyendo cola local")
		return false
	}
	if len(queue) == 0 {
		return true
	}

	req := dto.SyncPushRequest{Changes: make([]dto.SyncChange, 0, len(queue))}
	for _, ch := range queue {
		raw, err := entity.EncodePayload(ch.Payload)
		if err != nil {
			s.log.Error().Err(err).Str("local_id", ch.LocalID).Msg("push: codificando payload")
			return false
		}
		req.Changes = append(req.Changes, dto.SyncChange{
			Action:    ch.Action,
			Table:     ch.Table,
			LocalID:   ch.LocalID,
			Data:      raw,
			Timestamp: ch.Timestamp,
		})
	}

	resp, err := s.transport.PushChanges(ctx, credential, req)
	if err != nil {
		s.log.Warn().Err(err).Int("changes", len(queue)).Msg("push fallido, cola intacta")
		return false
	}

	// Cada resultado se procesa de forma independiente: un conflict no
	// bloquea la reconciliación del resto
	for i, res := range resp.Results {
		if i >= len(queue) {
			break
		}
		ch := queue[i]
		switch res.Status {
		case dto.SyncStatusCreated, dto.SyncStatusUpdated, dto.SyncStatusDeleted:
			if err := s.markSynced(ch.Table, res.LocalID, res.ServerID); err != nil {
				s.log.Error().Err(err).Str("local_id", res.LocalID).Msg("push: reconciliando server id")
			}
		case dto.SyncStatusConflict:
			// El registro queda unsynced; el próximo pull restablece la
			// verdad del servidor
			s.log.Warn().Str("table", ch.Table).Str("local_id", res.LocalID).Msg("push: conflict")
		}
	}

	// Drenado incondicional: los conflicts no se reintentan
	if err := s.store.ClearQueue(); err != nil {
		s.log.Error().Err(err).Msg("push: limpiando cola")
	}
	s.log.Info().Int("changes", len(queue)).Msg("push completado")
	return true
}

func (s *Synchronizer) markSynced(table, localID, serverID string) error {
	if table == entity.TableCustomers {
		return s.store.MarkCustomerSynced(localID, serverID)
	}
	return s.store.MarkDebtSynced(localID, serverID)
}
