package sync

import "context"

// FullSync secuencia push y luego pull y devuelve el resultado del pull.
// Re-entrante: una invocación concurrente observa el estado syncing y se
// vuelve un no-op que devuelve false. Seguro con cola vacía. Se invoca al
// reconectar, al volver la app a primer plano y por timer periódico.
func (s *Synchronizer) FullSync(ctx context.Context, credential string) bool {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateSyncing)) {
		return false
	}
	defer s.state.Store(int32(StateIdle))

	if !s.online() {
		return false
	}
	// El push puede fallar (p. ej. sin red a mitad de camino) sin impedir el
	// intento de pull: el resultado reportado es el del pull
	s.Push(ctx, credential)
	return s.Pull(ctx, credential)
}
